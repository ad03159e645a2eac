package main

import "fmt"

const (
	VersionMajor   = 0
	VersionMinor   = 1
	VersionPatch   = 0
	VersionRelease = "-dev" // -dev -release etc.
)

var Version = fmt.Sprintf("%d.%d.%d%s", VersionMajor, VersionMinor, VersionPatch, VersionRelease)

// Set via -ldflags "-X main.commit=... -X main.buildDate=..."
var (
	commit    = "none"
	buildDate = "unknown"
)

func getShortCommit() string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}

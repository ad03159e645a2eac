package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"cccolutils"
)

var log *logrus.Logger

// InitLoggerWithConfig initializes the logger with the provided configuration
// Logs are written to ~/.config/cccol/cccol.log
func InitLoggerWithConfig(cfg LogConfig) error {
	log = logrus.New()

	// Create log directory if needed
	logDir := ConfigDir()
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	// Configure lumberjack for log rotation
	lj := &lumberjack.Logger{
		Filename:   GetLogPath(),
		MaxSize:    cfg.MaxSizeMB,  // MB - rotate when file reaches this size
		MaxBackups: cfg.MaxBackups, // Number of backup files to keep
		MaxAge:     cfg.MaxAgeDays, // Days to keep old files
		Compress:   cfg.Compress,   // Compress rotated files
		LocalTime:  true,           // Use local time for rotation
	}

	// Stdout carries command output, so the console copy goes to stderr
	if cfg.ToStderr {
		log.SetOutput(io.MultiWriter(lj, os.Stderr))
	} else {
		log.SetOutput(lj)
	}

	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true, // No colors in log file
	})

	// Default to Info level, --debug will change this
	log.SetLevel(logrus.InfoLevel)

	log.WithFields(logrus.Fields{
		"max_size_mb":  cfg.MaxSizeMB,
		"max_backups":  cfg.MaxBackups,
		"max_age_days": cfg.MaxAgeDays,
		"compress":     cfg.Compress,
		"to_stderr":    cfg.ToStderr,
	}).Debug("Logger initialized")
	return nil
}

// SetLogLevel sets the logging level based on debug mode. In debug mode the
// library's boundary records are routed to the same logger.
func SetLogLevel(debug bool) {
	if log == nil {
		return
	}
	if debug {
		log.SetLevel(logrus.DebugLevel)
		cccolutils.SetLogger(log.WithField("component", "cccolutils"))
		log.Debug("Debug logging enabled")
	} else {
		log.SetLevel(logrus.InfoLevel)
		cccolutils.SetLogger(nil)
	}
}

// LogInfo logs an info level message (always logged)
func LogInfo(format string, args ...interface{}) {
	if log != nil {
		log.Infof(format, args...)
	}
}

// LogDebug logs a debug level message (only when debug mode is on)
func LogDebug(format string, args ...interface{}) {
	if log != nil {
		log.Debugf(format, args...)
	}
}

// LogWarn logs a warning level message
func LogWarn(format string, args ...interface{}) {
	if log != nil {
		log.Warnf(format, args...)
	}
}

// LogError logs an error level message
func LogError(format string, args ...interface{}) {
	if log != nil {
		log.Errorf(format, args...)
	}
}

// LogAction logs a business action with additional fields
func LogAction(action string, details string, fields logrus.Fields) {
	if log == nil {
		return
	}
	f := logrus.Fields{"action": action}
	for k, v := range fields {
		f[k] = v
	}
	log.WithFields(f).Info(details)
}

// LogStartup logs command startup information
func LogStartup(command string) {
	if log == nil {
		return
	}
	log.WithFields(logrus.Fields{
		"version":    Version,
		"commit":     getShortCommit(),
		"build_date": buildDate,
		"command":    command,
		"pid":        os.Getpid(),
	}).Debug("cccol starting")
}

// LogShutdown logs command shutdown
func LogShutdown() {
	if log != nil {
		log.Debug("cccol shutting down")
	}
}

// LogConfigLoaded logs when configuration is loaded
func LogConfigLoaded(path string, realmCount int) {
	if log != nil {
		log.WithFields(logrus.Fields{
			"path":   path,
			"realms": realmCount,
		}).Debug("Configuration loaded")
	}
}

// LogCredentialCheck logs the outcome of a credential check
func LogCredentialCheck(realm string, authenticated bool) {
	if realm == "" {
		realm = "*"
	}
	LogAction("credential_check", fmt.Sprintf("Checked credentials for %s", realm), logrus.Fields{
		"realm":         realm,
		"authenticated": authenticated,
	})
}

// LogUsernameLookup logs a principal lookup (the name itself is not logged)
func LogUsernameLookup(realm string, present bool) {
	LogAction("username_lookup", fmt.Sprintf("Looked up principal for %s", realm), logrus.Fields{
		"realm":   realm,
		"present": present,
	})
}

// LogTransition logs a credential state change seen by the watcher
func LogTransition(prev, cur RealmState, first bool) {
	if log == nil {
		return
	}
	fields := logrus.Fields{
		"action":        "state_changed",
		"realm":         cur.Realm,
		"authenticated": cur.Authenticated,
		"present":       cur.Present,
	}
	if first {
		log.WithFields(fields).Info("Credential state observed")
		return
	}
	fields["was_authenticated"] = prev.Authenticated
	log.WithFields(fields).Info("Credential state changed")
}

// LogScriptExecuted logs when a Lua script is executed
func LogScriptExecuted(scriptName string, realm string, err error) {
	if log == nil {
		return
	}
	status := "success"
	fields := logrus.Fields{
		"action": "script_executed",
		"script": scriptName,
		"realm":  realm,
	}
	if err != nil {
		status = "failed"
		fields["error"] = err.Error()
	}
	fields["status"] = status
	log.WithFields(fields).Info(fmt.Sprintf("Script executed: %s", scriptName))
}

// GetLogPath returns the path to the log file
func GetLogPath() string {
	return filepath.Join(ConfigDir(), "cccol.log")
}

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// LogConfig represents logging configuration
type LogConfig struct {
	MaxSizeMB  int  `json:"max_size_mb,omitempty"`  // Max log file size in MB before rotation (default: 10)
	MaxBackups int  `json:"max_backups,omitempty"`  // Max number of old log files to keep (default: 7)
	MaxAgeDays int  `json:"max_age_days,omitempty"` // Max days to retain old log files (default: 7)
	Compress   bool `json:"compress,omitempty"`     // Compress rotated log files (default: true)
	ToStderr   bool `json:"to_stderr,omitempty"`    // Also write logs to stderr (default: false)
}

// DefaultLogConfig returns the default logging configuration
func DefaultLogConfig() LogConfig {
	return LogConfig{
		MaxSizeMB:  10,
		MaxBackups: 7,
		MaxAgeDays: 7,
		Compress:   true,
		ToStderr:   false,
	}
}

// WatchConfig controls the polling loop of "cccol watch"
type WatchConfig struct {
	IntervalSeconds  int    `json:"interval_seconds,omitempty"`  // Seconds between polls (default: 30)
	HeartbeatMinutes int    `json:"heartbeat_minutes,omitempty"` // Re-announce unchanged state after this long (default: 60)
	Script           string `json:"script,omitempty"`            // Lua script run on every transition unless the realm has its own
}

// DefaultWatchConfig returns the default watch configuration
func DefaultWatchConfig() WatchConfig {
	return WatchConfig{
		IntervalSeconds:  30,
		HeartbeatMinutes: 60,
	}
}

// Interval returns the poll interval as a duration
func (w WatchConfig) Interval() time.Duration {
	return time.Duration(w.IntervalSeconds) * time.Second
}

// Heartbeat returns the heartbeat as a duration
func (w WatchConfig) Heartbeat() time.Duration {
	return time.Duration(w.HeartbeatMinutes) * time.Minute
}

// Config represents the application configuration
type Config struct {
	Realms  []RealmEntry `json:"realms"`
	Watch   *WatchConfig `json:"watch,omitempty"`
	Logging *LogConfig   `json:"logging,omitempty"`
}

// GetLogConfigWithDefaults returns log config, using defaults if logging section is absent
func (c *Config) GetLogConfigWithDefaults() LogConfig {
	if c == nil || c.Logging == nil {
		return DefaultLogConfig()
	}

	cfg := DefaultLogConfig()

	// Override with user values if set
	if c.Logging.MaxSizeMB > 0 {
		cfg.MaxSizeMB = c.Logging.MaxSizeMB
	}
	if c.Logging.MaxBackups > 0 {
		cfg.MaxBackups = c.Logging.MaxBackups
	}
	if c.Logging.MaxAgeDays > 0 {
		cfg.MaxAgeDays = c.Logging.MaxAgeDays
	}
	// For booleans, only override if the logging section exists
	// This allows users to explicitly set false
	cfg.Compress = c.Logging.Compress
	cfg.ToStderr = c.Logging.ToStderr

	return cfg
}

// GetWatchConfigWithDefaults returns watch config with defaults for unset values
func (c *Config) GetWatchConfigWithDefaults() WatchConfig {
	cfg := DefaultWatchConfig()
	if c == nil || c.Watch == nil {
		return cfg
	}
	if c.Watch.IntervalSeconds > 0 {
		cfg.IntervalSeconds = c.Watch.IntervalSeconds
	}
	if c.Watch.HeartbeatMinutes > 0 {
		cfg.HeartbeatMinutes = c.Watch.HeartbeatMinutes
	}
	cfg.Script = c.Watch.Script
	return cfg
}

// RealmEntry represents a realm to check
// Supports both simple string format and object format
type RealmEntry struct {
	Name   string `json:"name"`             // Display name
	Realm  string `json:"realm"`            // The Kerberos realm, e.g. FEDORAPROJECT.ORG
	Script string `json:"script,omitempty"` // Optional Lua script run when this realm's state changes
}

// UnmarshalJSON implements custom unmarshaling to support both string and object formats
func (e *RealmEntry) UnmarshalJSON(data []byte) error {
	// Try as simple string first
	var simpleString string
	if err := json.Unmarshal(data, &simpleString); err == nil {
		e.Name = simpleString
		e.Realm = simpleString
		return nil
	}

	// Try as object
	type realmEntryAlias RealmEntry
	var obj realmEntryAlias
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	e.Name = obj.Name
	e.Realm = obj.Realm
	e.Script = obj.Script

	// If name is empty, use realm as name
	if e.Name == "" {
		e.Name = e.Realm
	}

	return nil
}

// ConfigDir returns the configuration directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "cccol")
}

// ScriptsDir returns the Lua scripts directory path
func ScriptsDir() string {
	return filepath.Join(ConfigDir(), "scripts")
}

// DefaultConfigPath returns the configuration file path, honouring CCCOL_CONFIG
func DefaultConfigPath() string {
	if p := os.Getenv("CCCOL_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(ConfigDir(), "cccol.json")
}

// ScriptPath returns the full path for a script filename
func ScriptPath(scriptName string) string {
	if filepath.IsAbs(scriptName) {
		return scriptName
	}
	return filepath.Join(ScriptsDir(), scriptName)
}

// LoadConfig loads configuration from the specified path
// If path is empty, uses the default path
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SaveConfig saves configuration to the specified path
// If path is empty, uses the default path
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// CreateDefaultConfig creates a default configuration file if it doesn't exist.
// It reports whether a new file was written.
func CreateDefaultConfig(path string) (bool, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	if _, err := os.Stat(path); err == nil {
		// Config already exists
		return false, nil
	}

	watch := DefaultWatchConfig()
	cfg := &Config{
		Realms: []RealmEntry{
			{
				Name:  "Example",
				Realm: "EXAMPLE.COM",
			},
		},
		Watch: &watch,
	}

	if err := SaveConfig(cfg, path); err != nil {
		return false, err
	}
	return true, nil
}

// resolveRealms picks the realms a command works on: explicit arguments
// first, then the REALM environment variable, then the config file.
func resolveRealms(args []string, cfg *Config) []RealmEntry {
	if len(args) > 0 {
		entries := make([]RealmEntry, 0, len(args))
		for _, a := range args {
			entries = append(entries, RealmEntry{Name: a, Realm: a})
		}
		return entries
	}
	if realm := os.Getenv("REALM"); realm != "" {
		return []RealmEntry{{Name: realm, Realm: realm}}
	}
	if cfg != nil {
		return cfg.Realms
	}
	return nil
}

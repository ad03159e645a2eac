package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cccolutils"
)

var (
	// Global flags.
	cfgFile   string
	debugMode bool
	backend   string
	ccache    string

	// Loaded in PersistentPreRunE.
	appConfig *Config
	client    *cccolutils.Client

	// newClient builds the client for a backend name; tests replace it.
	newClient = defaultClient
)

// exitError carries a process exit code for results that are not failures
// of cccol itself, such as "no credentials".
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

var rootCmd = &cobra.Command{
	Use:   "cccol",
	Short: "cccol - Kerberos credential cache collection utilities",
	Long: `cccol answers questions about the Kerberos credential cache collection
of the current user: whether any credentials exist, whether a realm has
usable credentials and which principal holds them.

Use "cccol [command] --help" for more information about a command.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command. It is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $CCCOL_CONFIG or ~/.config/cccol/cccol.json)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "auto", "credential cache backend: auto, gokrb5")
	rootCmd.PersistentFlags().StringVar(&ccache, "ccache", "", "credential cache name (overrides KRB5CCNAME)")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func setup(cmd *cobra.Command, _ []string) error {
	path := cfgFile
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg, err := LoadConfig(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		cfg = &Config{}
	default:
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	appConfig = cfg

	if err := InitLoggerWithConfig(cfg.GetLogConfigWithDefaults()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}
	SetLogLevel(debugMode)
	LogStartup(cmd.Name())
	LogConfigLoaded(path, len(cfg.Realms))

	c, err := newClient(backend, ccache)
	if err != nil {
		return err
	}
	client = c
	return nil
}

func defaultClient(name, ccacheName string) (*cccolutils.Client, error) {
	switch name {
	case "", "auto":
		if ccacheName != "" {
			if err := os.Setenv("KRB5CCNAME", ccacheName); err != nil {
				return nil, fmt.Errorf("failed to set KRB5CCNAME: %w", err)
			}
		}
		return cccolutils.New(nil), nil
	case "gokrb5":
		g := cccolutils.NewGoNative()
		g.SetCCacheName(ccacheName)
		return cccolutils.New(g), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

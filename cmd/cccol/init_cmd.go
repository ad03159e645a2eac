package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = DefaultConfigPath()
		}
		created, err := CreateDefaultConfig(path)
		if err != nil {
			return fmt.Errorf("failed to create config: %w", err)
		}
		if !created {
			fmt.Fprintf(cmd.OutOrStdout(), "Config already exists: %s\n", path)
			return nil
		}
		LogInfo("Created default config at %s", path)
		fmt.Fprintf(cmd.OutOrStdout(), "Created config: %s\n", path)
		return nil
	},
}

// cmd/hub/validate.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tamzrod/scoreboard-hub/internal/config"
)

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a hub config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(configPath); err != nil {
			return err
		}
		cmd.Printf("%s: ok\n", configPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// cmd/hub/run.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tamzrod/scoreboard-hub/internal/config"
	"github.com/tamzrod/scoreboard-hub/internal/hub"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the hub",
	Long:  `Opens the bus and Bluetooth ports and serves until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		config.Normalize(cfg)

		level, err := parseLevel(cfg.Hub.Log.Level)
		if err != nil {
			return err
		}
		if ok, _ := cmd.Flags().GetBool("verbose"); ok {
			level = slog.LevelDebug
		}

		logger, closeLog, err := newLogger(cfg.Hub.Name, level, cfg.Hub.Log.File)
		if err != nil {
			return fmt.Errorf("log setup failed: %w", err)
		}
		defer closeLog()
		slog.SetDefault(logger)

		h, closeDevices, err := hub.Build(cfg, logger)
		if err != nil {
			logger.Error("hub build failed", "error", err)
			return err
		}
		defer func() {
			if err := closeDevices(); err != nil {
				logger.Warn("device cleanup failed", "error", err)
			}
		}()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return h.Run(ctx)
	},
}

func init() {
	runCmd.Flags().BoolP("verbose", "v", false, "debug logging")
	rootCmd.AddCommand(runCmd)
}

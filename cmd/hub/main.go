// cmd/hub/main.go
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath = "hub.yaml"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hub",
	Short: "Scoreboard communication hub",
	Long: `hub bridges the Bluetooth control link of the scoreboard app and the
RS-485 bus of the display nodes. It polls every node, tracks their health
and the battery state, and pushes score updates to the board.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", configPath, "hub config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

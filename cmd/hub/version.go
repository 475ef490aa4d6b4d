// cmd/hub/version.go
package main

import (
	"github.com/spf13/cobra"

	"github.com/tamzrod/scoreboard-hub/internal/wireless"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the firmware identity reported to the app",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		v := wireless.Version
		cmd.Printf("product 0x%08X  firmware %d.%d.%d.%d  published %02d.%02d.%02d%02d\n",
			v.ProductID,
			v.Firmware[0], v.Firmware[1], v.Firmware[2], v.Firmware[3],
			v.PublishingDate[0], v.PublishingDate[1], v.PublishingDate[2], v.PublishingDate[3],
		)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

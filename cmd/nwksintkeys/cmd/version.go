package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lorawan-tools/nwksintkeys/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the nwksintkeys version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.Version)
	},
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	nodeext "github.com/contriboss/node-extension-go"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List supported build targets",
	Long:  `List the platform keys this tool can build for. Unsupported combinations fail resolution with the attempted key, which belongs in this list if it should work.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		for _, key := range nodeext.SupportedTargets() {
			fmt.Fprintln(cmd.OutOrStdout(), key)
		}
		return nil
	},
}

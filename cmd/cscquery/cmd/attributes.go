package cmd

import (
	copernicus "github.com/MrChebur/Copernicus-OData-wrapper"
	"github.com/spf13/cobra"
)

var attributesCmd = &cobra.Command{
	Use:   "attributes",
	Short: "List the attributes usable with --attr",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printAttributes(cmd.OutOrStdout(), copernicus.Attributes())
	},
}

func init() {
	rootCmd.AddCommand(attributesCmd)
}

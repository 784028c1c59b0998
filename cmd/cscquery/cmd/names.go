package cmd

import (
	"github.com/spf13/cobra"
)

var (
	namesSave   bool
	namesOutput string
)

var namesCmd = &cobra.Command{
	Use:   "names NAME...",
	Short: "Look up products by exact name",
	Long: `Look up products by exact name with a single OData.CSC.FilterList request.
Names must include their extension (usually .SAFE) to match.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNames,
}

func init() {
	rootCmd.AddCommand(namesCmd)
	namesCmd.Flags().BoolVar(&namesSave, "save", false, "Archive the products found in the --store database")
	namesCmd.Flags().StringVarP(&namesOutput, "output", "o", "table", "Output format: table or json")
}

func runNames(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	page, err := client.ByNames(cmd.Context(), args)
	if err != nil {
		return err
	}
	if namesSave {
		if err := saveProducts(cmd.Context(), page.Value); err != nil {
			return err
		}
	}
	return printProducts(cmd.OutOrStdout(), namesOutput, page.Value, page.Count)
}

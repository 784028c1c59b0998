package cmd

import (
	"github.com/spf13/cobra"
)

var nodesOutput string

var nodesCmd = &cobra.Command{
	Use:   "nodes ID|URL",
	Short: "List the files inside a product",
	Long: `List the content of a product, given its id or a product URL, or of a folder
node, given the Nodes URI printed by a previous listing.`,
	Args: cobra.ExactArgs(1),
	RunE: runNodes,
}

func init() {
	rootCmd.AddCommand(nodesCmd)
	nodesCmd.Flags().StringVarP(&nodesOutput, "output", "o", "table", "Output format: table or json")
}

func runNodes(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	nodes, err := client.ProductNodes(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printNodes(cmd.OutOrStdout(), nodesOutput, nodes)
}

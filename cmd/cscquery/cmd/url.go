package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var urlQuery queryFlags

var urlCmd = &cobra.Command{
	Use:   "url",
	Short: "Print the request URL a search would send",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := urlQuery.build()
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), client.URL(opts))
		return err
	},
}

func init() {
	rootCmd.AddCommand(urlCmd)
	urlQuery.register(urlCmd.Flags())
}

package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var retryCmd = &cobra.Command{
	Use:   "retry <request-id>",
	Short: "Re-run a failed request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().Retry(cmd.Context(), args[0])
		if err != nil {
			return eris.Wrap(err, "retry")
		}
		fmt.Printf("%s: %s -> %s\n", args[0], resp.PreviousStatus, resp.NewStatus)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <request-id>",
	Short: "Mark a request as deleted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().Delete(cmd.Context(), args[0]); err != nil {
			return eris.Wrap(err, "delete")
		}
		fmt.Printf("%s deleted\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(retryCmd)
	rootCmd.AddCommand(deleteCmd)
}

package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"amie/internal/pipeline"
)

var statusCmd = &cobra.Command{
	Use:   "status <request-id>",
	Short: "Print the current status of a request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := newClient().Status(cmd.Context(), args[0])
		if err != nil {
			return eris.Wrap(err, "status")
		}
		fmt.Println(status)

		verbose, _ := cmd.Flags().GetBool("stages")
		if verbose {
			for _, stage := range pipeline.Reconcile(pipeline.NewStages(), status) {
				fmt.Printf("  %-20s %s\n", stage.Name, stage.State)
			}
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().Bool("stages", false, "also print the derived per-stage states")
	rootCmd.AddCommand(statusCmd)
}

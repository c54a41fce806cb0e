package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"amie/internal/intake"
	"amie/internal/report"
	"amie/internal/ui"
)

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Browse the request history",
	Long:  "Opens the interactive history table: open reports, resume watching in-flight requests, retry failures, delete entries. Use --plain for a plain listing.",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()

		plain, _ := cmd.Flags().GetBool("plain")
		if plain {
			items, err := client.List(cmd.Context())
			if err != nil {
				return eris.Wrap(err, "requests")
			}
			if len(items) == 0 {
				fmt.Fprintln(os.Stderr, "No requests found.")
				return nil
			}
			formatRequests(os.Stdout, items)
			return nil
		}

		writer := report.NewWriter(cfg.Report.OutDir)
		return ui.Run(ui.NewHistoryView(client), client, cfg.Watch, writer)
	},
}

// formatRequests writes a tabular request listing to w.
func formatRequests(out io.Writer, items []intake.RequestSummary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tFILE\tSTATUS\tUPLOADED")
	for _, item := range items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			item.RequestID, item.Filename, item.Status, item.UploadedAt)
	}
	_ = w.Flush()
}

func init() {
	requestsCmd.Flags().Bool("plain", false, "print a plain listing instead of the interactive table")
	rootCmd.AddCommand(requestsCmd)
}

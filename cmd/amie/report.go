package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"amie/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report <request-id>",
	Short: "Render the assessment report for a request",
	Long:  "Fetches the request record and prints the assembled markdown report. With --save the report is written to the configured output directory instead.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := newClient().Get(cmd.Context(), args[0])
		if err != nil {
			return eris.Wrap(err, "report")
		}
		r := report.FromRecord(rec)

		save, _ := cmd.Flags().GetBool("save")
		if save {
			path, err := report.NewWriter(cfg.Report.OutDir).Save(r)
			if err != nil {
				return eris.Wrap(err, "report: save")
			}
			fmt.Println(path)
			return nil
		}

		fmt.Print(r.Markdown())
		return nil
	},
}

func init() {
	reportCmd.Flags().Bool("save", false, "write the report to the report directory")
	rootCmd.AddCommand(reportCmd)
}

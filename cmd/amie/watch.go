package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"amie/internal/report"
	"amie/internal/telemetry"
	"amie/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:   "watch <manuscript.pdf>",
	Short: "Upload a manuscript and track it through the pipeline",
	Long:  "Uploads the given file and opens the live pipeline view: stage progress, estimated percentages, and the final report when the run completes. Use --request to resume watching an already-submitted request instead.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		shutdown, err := telemetry.Setup(ctx, cfg.Telemetry)
		if err != nil {
			return eris.Wrap(err, "watch: telemetry setup")
		}
		defer func() { _ = shutdown(context.Background()) }()

		requestID, _ := cmd.Flags().GetString("request")
		if requestID == "" && len(args) == 0 {
			return eris.New("watch: a manuscript file or --request is required")
		}

		client := newClient()
		writer := report.NewWriter(cfg.Report.OutDir)

		var root ui.View
		if requestID != "" {
			root = ui.NewWatchViewForRequest(client, cfg.Watch, requestID, requestID)
		} else {
			root = ui.NewWatchView(client, cfg.Watch, args[0])
		}

		return ui.Run(root, client, cfg.Watch, writer)
	},
}

func init() {
	watchCmd.Flags().String("request", "", "watch an existing request instead of uploading")
	rootCmd.AddCommand(watchCmd)
}

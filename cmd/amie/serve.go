package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"amie/internal/mockapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local mock backend",
	Long:  "Serves the intake API with an in-memory store and a scripted status progression, for developing against without the real deployment. Point the client at it with --base-url http://localhost:<port>.",
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")
		if port == 0 {
			port = cfg.Serve.Port
		}
		failPct, _ := cmd.Flags().GetInt("failure-pct")
		if !cmd.Flags().Changed("failure-pct") {
			failPct = cfg.Serve.FailurePct
		}

		srv := mockapi.New(
			mockapi.WithCode(cfg.API.Code),
			mockapi.WithStep(time.Duration(cfg.Serve.StepSecs)*time.Second),
			mockapi.WithFailurePercent(failPct),
		)
		if err := srv.Start(port); err != nil {
			return eris.Wrap(err, "serve")
		}

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		zap.L().Info("shutting down mock backend")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Stop(ctx)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (defaults to serve.port from config)")
	serveCmd.Flags().Int("failure-pct", 0, "percent of uploads that fail during classification")
	rootCmd.AddCommand(serveCmd)
}

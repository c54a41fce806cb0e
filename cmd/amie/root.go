package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"amie/internal/config"
	"amie/internal/intake"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "amie",
	Short: "Manuscript intake pipeline frontend",
	Long:  "Uploads manuscripts to the AMIE assessment backend, tracks them through the classification and novelty pipeline, and renders the final report.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if baseURL, _ := cmd.Flags().GetString("base-url"); baseURL != "" {
			cfg.API.BaseURL = baseURL
		}
		if code, _ := cmd.Flags().GetString("code"); code != "" {
			cfg.API.Code = code
		}

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// newClient creates the intake client from the effective configuration.
func newClient() intake.Client {
	return intake.New(cfg.API.BaseURL, cfg.API.Code,
		intake.WithTimeout(cfg.API.Timeout()))
}

func init() {
	rootCmd.PersistentFlags().String("base-url", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().String("code", "", "backend access code (overrides config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

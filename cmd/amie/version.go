package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set via -ldflags "-X main.version=... -X main.commit=..." at release build.
var (
	version = "dev"
	commit  = "none"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("amie %s (%s)\n", version, commit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <manuscript.pdf>",
	Short: "Upload a manuscript without watching it",
	Long:  "Submits the file and prints the request ID. Use `amie watch --request <id>` or `amie status <id>` to follow it later.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().Upload(cmd.Context(), args[0])
		if err != nil {
			return eris.Wrap(err, "upload")
		}
		fmt.Printf("%s\t%s\n", resp.RequestID, resp.Filename)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

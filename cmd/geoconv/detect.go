package main

import (
	"fmt"
	"strings"

	"github.com/kass/geoconv/pkg/format"
	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect <text>",
	Short: "Print the notation the input is written in",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), format.Classify(strings.Join(args, " ")))
		return err
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

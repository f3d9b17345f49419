package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "estcalc %s\ncommit: %s\nbuilt:  %s\ngo:     %s\n",
				Version, GitCommit, BuildTime, runtime.Version())
			return err
		},
	}
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/codeGROOVE-dev/estcalc/internal/session"
)

func newTemplateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "template <cod|fpa|pert>",
		Short:     "Print a starter session file",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(session.KindCoD), string(session.KindFPA), string(session.KindPERT)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := session.ParseKind(args[0])
			if err != nil {
				return err
			}
			return session.WriteTemplate(cmd.OutOrStdout(), kind)
		},
	}
}

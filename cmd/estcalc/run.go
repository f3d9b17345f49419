package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/codeGROOVE-dev/estcalc/internal/report"
	"github.com/codeGROOVE-dev/estcalc/internal/session"
)

// newKindCmd returns a command that runs one session file of a fixed kind.
func newKindCmd(o *GlobalOptions, kind session.Kind, short string) *cobra.Command {
	return &cobra.Command{
		Use:     string(kind) + " <file>",
		Short:   short,
		Example: fmt.Sprintf("  estcalc template %[1]s > %[1]s.yaml\n  estcalc %[1]s %[1]s.yaml\n  estcalc %[1]s --format xlsx -o %[1]s.xlsx %[1]s.yaml", kind),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := session.Load(args[0])
			if err != nil {
				return err
			}
			if doc.Kind != kind {
				return fmt.Errorf("%s: session kind is %q, not %q (use 'estcalc run')", args[0], doc.Kind, kind)
			}
			r, err := doc.Run(o.SessionOptions())
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return o.write(cmd, []session.FileResult{{Path: args[0], Report: r}})
		},
	}
}

// newRunCmd returns a command that runs session files of any kind.
func newRunCmd(o *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>...",
		Short: "Run session files, detecting each file's kind",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := session.RunFiles(cmd.Context(), args, o.SessionOptions())
			if err != nil {
				return err
			}
			return o.write(cmd, results)
		},
	}
}

// fileReport is the JSON shape of one result when several files are run.
type fileReport struct {
	Report session.Report `json:"report"`
	Path   string         `json:"path"`
	Kind   session.Kind   `json:"kind"`
}

// write renders results in the configured format to stdout or --output.
func (o *GlobalOptions) write(cmd *cobra.Command, results []session.FileResult) (err error) {
	format, err := report.ParseFormat(o.cfg.Output.Format)
	if err != nil {
		return err
	}
	if format == report.FormatXLSX {
		if o.Output == "" || o.Output == "-" {
			return errors.New("xlsx output requires --output <file>")
		}
		if len(results) != 1 {
			return errors.New("xlsx output supports a single session file")
		}
	}

	var w io.Writer = cmd.OutOrStdout()
	if o.Output != "" && o.Output != "-" {
		f, err := os.Create(o.Output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close output: %w", cerr)
			}
		}()
		w = f
	}

	if format == report.FormatJSON && len(results) > 1 {
		out := make([]fileReport, 0, len(results))
		for _, res := range results {
			out = append(out, fileReport{Path: res.Path, Kind: res.Report.Kind(), Report: res.Report})
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(out); err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
		return nil
	}

	for i, res := range results {
		if len(results) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "# %s\n", res.Path)
		}
		if err := report.Write(w, res.Report, format); err != nil {
			return fmt.Errorf("%s: %w", res.Path, err)
		}
	}
	return nil
}

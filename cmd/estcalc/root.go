package main

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/codeGROOVE-dev/estcalc/internal/config"
	"github.com/codeGROOVE-dev/estcalc/internal/session"
)

var errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

// GlobalOptions are the flags shared by every command.
type GlobalOptions struct {
	ConfigFile string
	Output     string
	Verbose    bool

	v      *viper.Viper
	cfg    *config.Config
	logger *slog.Logger
}

// Bind registers the persistent flags and binds the ones that override config keys.
func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ConfigFile, "config", "c", o.ConfigFile, "config file (default is $HOME/.config/estcalc/config.yaml)")
	fs.BoolVar(&o.Verbose, "verbose", o.Verbose, "log progress to stderr")
	fs.StringVarP(&o.Output, "output", "o", o.Output, "write output to this file instead of stdout (required for xlsx)")

	fs.StringP("format", "f", "", "output format: human, json or xlsx")
	fs.Bool("cost", false, "price effort estimates")
	fs.Float64("salary", 0, "annual salary used for pricing")
	fs.Float64("benefits", 0, "benefits multiplier used for pricing (1.3 = 30% benefits)")
	fs.Duration("effort-unit", 0, "length of one PERT effort unit (default 8h, one person-day)")

	bindings := map[string]string{
		"output.format":                  "format",
		"cost.enabled":                   "cost",
		"cost.rates.annual_salary":       "salary",
		"cost.rates.benefits_multiplier": "benefits",
		"cost.rates.effort_unit":         "effort-unit",
	}
	for key, name := range bindings {
		_ = o.v.BindPFlag(key, fs.Lookup(name)) //nolint:errcheck // flag registered above
	}
}

// Complete loads configuration and sets up logging.
func (o *GlobalOptions) Complete(cmd *cobra.Command) error {
	if err := config.Init(o.v, o.ConfigFile); err != nil {
		return err
	}
	cfg, err := config.Load(o.v)
	if err != nil {
		return err
	}
	o.cfg = cfg

	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// SessionOptions builds report enrichments from the loaded config.
func (o *GlobalOptions) SessionOptions() session.Options {
	opts := session.Options{Logger: o.logger}
	if o.cfg.Cost.COCOMO {
		cc := o.cfg.COCOMO
		opts.COCOMO = &cc
	}
	if o.cfg.Cost.Enabled {
		rates := o.cfg.Cost.Rates
		opts.Cost = &rates
	}
	return opts
}

func newRootCmd() *cobra.Command {
	o := &GlobalOptions{v: viper.New()}
	cmd := &cobra.Command{
		Use:   "estcalc",
		Short: "Software estimation calculators: Cost of Delay, Function Points, PERT",
		Long: `estcalc runs estimation sessions described in YAML or JSON files.

  cod   orders features by Cost of Delay and WSJF
  fpa   counts function points and adjusts them by the general system characteristics
  pert  combines three-point task estimates into a total with a 95% bound`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.Complete(cmd)
		},
	}
	cmd.Version = fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildTime)
	cmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	o.Bind(cmd.PersistentFlags())

	cmd.AddCommand(
		newKindCmd(o, session.KindCoD, "Prioritize features by Cost of Delay"),
		newKindCmd(o, session.KindFPA, "Count function points"),
		newKindCmd(o, session.KindPERT, "Estimate effort from three-point task estimates"),
		newRunCmd(o),
		newTemplateCmd(),
		newVersionCmd(),
	)
	return cmd
}

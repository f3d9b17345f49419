package session

import (
	"log/slog"

	"github.com/codeGROOVE-dev/estcalc/pkg/cocomo"
	"github.com/codeGROOVE-dev/estcalc/pkg/cost"
)

// Options controls the optional enrichments added to reports.
type Options struct {
	Logger *slog.Logger   // Optional logger for progress
	COCOMO *cocomo.Config // When set, FPA reports include a COCOMO effort estimate
	Cost   *cost.Config   // When set, effort estimates are priced
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

package session

import (
	"fmt"
	"maps"

	"github.com/codeGROOVE-dev/estcalc/pkg/cocomo"
	"github.com/codeGROOVE-dev/estcalc/pkg/cost"
	"github.com/codeGROOVE-dev/estcalc/pkg/fpa"
)

// FPAFunction is a function entry in an FPA session. RET applies to ILF/EIF and
// FTR to EI/EO/EQ; the other one is ignored.
type FPAFunction struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
	DET  int    `yaml:"det" json:"det"`
	RET  int    `yaml:"ret,omitempty" json:"ret,omitempty"`
	FTR  int    `yaml:"ftr,omitempty" json:"ftr,omitempty"`
}

// FPASession lists functions and general system characteristics.
type FPASession struct {
	Functions       []FPAFunction  `yaml:"functions,omitempty" json:"functions,omitempty"`
	Characteristics map[string]int `yaml:"characteristics,omitempty" json:"characteristics,omitempty"`
}

// Effort is a development effort estimate, optionally priced.
type Effort struct {
	Cost  *cost.Breakdown `json:"cost,omitempty"`
	LOC   float64         `json:"loc"`
	Hours float64         `json:"hours"`
}

// FPAReport holds the counted functions and totals.
//
//nolint:govet // fieldalignment: API struct field order optimized for readability
type FPAReport struct {
	Items           []fpa.Item     `json:"items"`
	Characteristics map[string]int `json:"characteristics,omitempty"`
	Result          fpa.Result     `json:"result"`
	Effort          *Effort        `json:"effort,omitempty"`
}

// Kind implements Report.
func (FPAReport) Kind() Kind { return KindFPA }

// Run registers every function in order and calculates the adjusted count.
func (s FPASession) Run(opts Options) (FPAReport, error) {
	c := fpa.New()
	for i, fn := range s.Functions {
		t, err := fpa.ParseType(fn.Type)
		if err != nil {
			return FPAReport{}, fmt.Errorf("function %d (%q): %w", i+1, fn.Name, err)
		}
		refs := fn.FTR
		if t.IsData() {
			refs = fn.RET
		}
		if err := c.Add(fn.Name, t, fn.DET, refs); err != nil {
			return FPAReport{}, fmt.Errorf("function %d: %w", i+1, err)
		}
	}
	c.SetCharacteristics(s.Characteristics)

	report := FPAReport{
		Items:           c.Items(),
		Characteristics: maps.Clone(s.Characteristics),
		Result:          c.Calculate(),
	}
	if opts.COCOMO != nil {
		effort := cocomo.EstimateEffort(report.Result.FP, *opts.COCOMO)
		report.Effort = &Effort{
			LOC:   cocomo.LinesOfCode(report.Result.FP, *opts.COCOMO),
			Hours: effort.Hours(),
		}
		if opts.Cost != nil {
			b := cost.Price(effort, *opts.Cost)
			report.Effort.Cost = &b
		}
	}
	opts.logger().Debug("counted function points",
		"functions", c.Len(), "ufp", report.Result.UFP, "fp", report.Result.FP)
	return report, nil
}

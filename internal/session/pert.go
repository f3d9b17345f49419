package session

import (
	"fmt"
	"math"

	"github.com/codeGROOVE-dev/estcalc/pkg/cost"
	"github.com/codeGROOVE-dev/estcalc/pkg/estimate"
	"github.com/codeGROOVE-dev/estcalc/pkg/pert"
)

// PERTTask is a task entry in a PERT session.
type PERTTask struct {
	Name        string  `yaml:"name" json:"name"`
	Optimistic  float64 `yaml:"o" json:"o"`
	MostLikely  float64 `yaml:"m" json:"m"`
	Pessimistic float64 `yaml:"p" json:"p"`
}

// PERTSession lists three-point task estimates.
type PERTSession struct {
	Tasks []PERTTask `yaml:"tasks,omitempty" json:"tasks,omitempty"`
}

// PERTCost prices the expected and 95% effort.
type PERTCost struct {
	Expected cost.Breakdown `json:"expected"`
	E95      cost.Breakdown `json:"e95"`
}

// PERTReport holds the estimated tasks and totals.
//
//nolint:govet // fieldalignment: API struct field order optimized for readability
type PERTReport struct {
	Items        []pert.Item `json:"items"`
	Result       pert.Result `json:"result"`
	Grade        string      `json:"grade"`
	GradeMessage string      `json:"grade_message"`
	Cost         *PERTCost   `json:"cost,omitempty"`
}

// Kind implements Report.
func (PERTReport) Kind() Kind { return KindPERT }

// finite rejects NaN and infinite estimates.
func (t PERTTask) finite() error {
	for _, v := range []struct {
		name string
		val  float64
	}{{"o", t.Optimistic}, {"m", t.MostLikely}, {"p", t.Pessimistic}} {
		if math.IsNaN(v.val) || math.IsInf(v.val, 0) {
			return fmt.Errorf("%w: %s must be a finite number (got %v)", estimate.ErrValidation, v.name, v.val)
		}
	}
	return nil
}

// Run registers every task in order and aggregates them.
func (s PERTSession) Run(opts Options) (PERTReport, error) {
	e := pert.New()
	for i, task := range s.Tasks {
		if err := task.finite(); err != nil {
			return PERTReport{}, fmt.Errorf("task %d (%q): %w", i+1, task.Name, err)
		}
		if err := e.Add(task.Name, task.Optimistic, task.MostLikely, task.Pessimistic); err != nil {
			return PERTReport{}, fmt.Errorf("task %d (%q): %w", i+1, task.Name, err)
		}
	}

	result := e.Calculate()
	grade, msg := pert.ConfidenceGrade(result)
	report := PERTReport{
		Items:        e.Items(),
		Result:       result,
		Grade:        grade,
		GradeMessage: msg,
	}
	if opts.Cost != nil {
		report.Cost = &PERTCost{
			Expected: cost.PriceUnits(result.Effort, *opts.Cost),
			E95:      cost.PriceUnits(result.E95, *opts.Cost),
		}
	}
	opts.logger().Debug("estimated tasks", "tasks", e.Len(), "effort", result.Effort, "e95", result.E95)
	return report, nil
}

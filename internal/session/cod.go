package session

import (
	"fmt"
	"math"

	"github.com/codeGROOVE-dev/estcalc/pkg/cod"
	"github.com/codeGROOVE-dev/estcalc/pkg/estimate"
)

// CoDItem is a feature entry in a CoD session.
type CoDItem struct {
	Title  string  `yaml:"title" json:"title"`
	Effort float64 `yaml:"effort" json:"effort"`
	User   int     `yaml:"user" json:"user"`
	Time   int     `yaml:"time" json:"time"`
	Risk   int     `yaml:"risk" json:"risk"`
}

// CoDSession lists features to prioritize.
type CoDSession struct {
	Items []CoDItem `yaml:"items,omitempty" json:"items,omitempty"`
}

// CoDReport holds features in priority order.
type CoDReport struct {
	Items []cod.Item `json:"items"`
}

// Kind implements Report.
func (CoDReport) Kind() Kind { return KindCoD }

// Run registers every feature and sorts them. Session files must give each
// feature a positive, finite effort; otherwise WSJF is not a finite number.
func (s CoDSession) Run(opts Options) (CoDReport, error) {
	p := cod.New()
	for i, it := range s.Items {
		if math.IsNaN(it.Effort) || math.IsInf(it.Effort, 0) {
			return CoDReport{}, fmt.Errorf("item %d (%q): %w: effort must be a finite number (got %v)",
				i+1, it.Title, estimate.ErrValidation, it.Effort)
		}
		if it.Effort <= 0 {
			return CoDReport{}, fmt.Errorf("item %d (%q): %w: effort must be positive (got %v)",
				i+1, it.Title, estimate.ErrValidation, it.Effort)
		}
		if err := p.Add(it.Title, it.Effort, it.User, it.Time, it.Risk); err != nil {
			return CoDReport{}, fmt.Errorf("item %d (%q): %w", i+1, it.Title, err)
		}
	}
	items := p.Sort()
	opts.logger().Debug("prioritized features", "count", len(items))
	return CoDReport{Items: items}, nil
}

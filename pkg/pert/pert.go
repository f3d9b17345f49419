// Package pert implements three-point (PERT) effort estimation.
//
// Each task gets an optimistic, most likely and pessimistic estimate. The expected
// effort is (O + 4M + P) / 6 and the standard error is (P - O) / 6. Task errors are
// combined as a root sum of squares, and E95 = effort + 2 × error approximates the
// effort at 95% confidence.
package pert

import (
	"math"

	"github.com/codeGROOVE-dev/estcalc/pkg/estimate"
)

// Item is one estimated task.
//
//nolint:govet // fieldalignment: API struct field order optimized for readability
type Item struct {
	Name        string  `json:"name"`
	Optimistic  float64 `json:"o"`
	MostLikely  float64 `json:"m"`
	Pessimistic float64 `json:"p"`
	Effort      float64 `json:"effort"`
	Error       float64 `json:"error"`
}

// Result aggregates all tasks.
type Result struct {
	Effort float64 `json:"effort"`
	Error  float64 `json:"error"`
	E95    float64 `json:"e95"`
}

// Estimator accumulates tasks for one estimation session.
// It is not safe for concurrent use.
type Estimator struct {
	items map[string]Item
	order []string
}

// New creates an empty Estimator.
func New() *Estimator {
	return &Estimator{items: make(map[string]Item)}
}

// Add registers a task. Names are unique per Estimator. The estimates are not
// required to satisfy o <= m <= p.
func (e *Estimator) Add(name string, o, m, p float64) error {
	if _, exists := e.items[name]; exists {
		return estimate.NewDuplicateItemError(name)
	}
	effort, stdErr := Task(o, m, p)
	e.items[name] = Item{
		Name:        name,
		Optimistic:  o,
		MostLikely:  m,
		Pessimistic: p,
		Effort:      effort,
		Error:       stdErr,
	}
	e.order = append(e.order, name)
	return nil
}

// Task returns the expected effort and standard error of a single task,
// each rounded to 2 places.
func Task(o, m, p float64) (effort, stdErr float64) {
	return estimate.Round2((o + 4*m + p) / 6), estimate.Round2((p - o) / 6)
}

// Calculate sums task efforts and combines task errors.
func (e *Estimator) Calculate() Result {
	var effort, squares float64
	for _, name := range e.order {
		it := e.items[name]
		effort += it.Effort
		squares += it.Error * it.Error
	}
	stdErr := estimate.Round2(math.Sqrt(squares))
	return Result{
		Effort: effort,
		Error:  stdErr,
		E95:    effort + 2*stdErr,
	}
}

// Item returns the task registered under name.
func (e *Estimator) Item(name string) (Item, bool) {
	it, ok := e.items[name]
	return it, ok
}

// Items returns the tasks in registration order.
func (e *Estimator) Items() []Item {
	out := make([]Item, 0, len(e.order))
	for _, name := range e.order {
		out = append(out, e.items[name])
	}
	return out
}

// Len returns the number of registered tasks.
func (e *Estimator) Len() int {
	return len(e.order)
}

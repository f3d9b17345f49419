// Package fpa sizes software with Function Point Analysis.
//
// Each registered function is classified into a complexity tier from its DET
// count and its RET (data functions) or FTR (transactions) count, then weighted
// into unadjusted function points. The total is scaled by a value adjustment
// factor derived from the general system characteristics.
package fpa

import (
	"fmt"

	"github.com/codeGROOVE-dev/estcalc/pkg/estimate"
)

// Item is a registered function.
//
//nolint:govet // fieldalignment: API struct field order optimized for readability
type Item struct {
	Name       string     `json:"name"`
	Type       Type       `json:"type"`
	DET        int        `json:"det"`
	RET        int        `json:"ret,omitempty"`
	FTR        int        `json:"ftr,omitempty"`
	Complexity Complexity `json:"complexity"`
	UFP        int        `json:"ufp"`
}

// Result is the outcome of a count.
type Result struct {
	UFP int     `json:"ufp"`
	VAF float64 `json:"vaf"`
	FP  float64 `json:"fp"`
}

// Counter accumulates functions for one counting session.
// It is not safe for concurrent use.
type Counter struct {
	items           map[string]Item
	characteristics map[string]int
	order           []string
}

// New creates an empty Counter.
func New() *Counter {
	return &Counter{
		items:           make(map[string]Item),
		characteristics: make(map[string]int),
	}
}

// ILF registers an internal logical file.
func (c *Counter) ILF(name string, det, ret int) error {
	return c.Add(name, ILF, det, ret)
}

// EIF registers an external interface file.
func (c *Counter) EIF(name string, det, ret int) error {
	return c.Add(name, EIF, det, ret)
}

// EI registers an external input.
func (c *Counter) EI(name string, det, ftr int) error {
	return c.Add(name, EI, det, ftr)
}

// EO registers an external output.
func (c *Counter) EO(name string, det, ftr int) error {
	return c.Add(name, EO, det, ftr)
}

// EQ registers an external query.
func (c *Counter) EQ(name string, det, ftr int) error {
	return c.Add(name, EQ, det, ftr)
}

// Add registers a function of type t. refs is the RET count for data
// functions and the FTR count for transactions. Names are unique per Counter.
func (c *Counter) Add(name string, t Type, det, refs int) error {
	if !t.IsValid() {
		return fmt.Errorf("register %q: invalid function type %q", name, t)
	}
	if _, exists := c.items[name]; exists {
		return estimate.NewDuplicateItemError(name)
	}

	cpx := Classify(t, det, refs)
	item := Item{
		Name:       name,
		Type:       t,
		DET:        det,
		Complexity: cpx,
		UFP:        Weight(t, cpx),
	}
	if t.IsData() {
		item.RET = refs
	} else {
		item.FTR = refs
	}

	c.items[name] = item
	c.order = append(c.order, name)
	return nil
}

// SetCharacteristics replaces the general system characteristics.
// Keys are free-form; values are degrees of influence, nominally 0..5, and are not checked.
func (c *Counter) SetCharacteristics(chars map[string]int) {
	c.characteristics = make(map[string]int, len(chars))
	for k, v := range chars {
		c.characteristics[k] = v
	}
}

// Calculate returns the unadjusted count, value adjustment factor, and adjusted count.
// It does not modify the Counter.
func (c *Counter) Calculate() Result {
	ufp := 0
	for _, it := range c.items {
		ufp += it.UFP
	}
	vaf := VAF(c.characteristics)
	return Result{
		UFP: ufp,
		VAF: vaf,
		FP:  estimate.Round2(float64(ufp) * vaf),
	}
}

// VAF computes the value adjustment factor: 0.65 + 0.01 × sum of degrees, rounded to 2 places.
func VAF(chars map[string]int) float64 {
	sum := 0
	for _, v := range chars {
		sum += v
	}
	return estimate.Round2(float64(sum)*0.01 + 0.65)
}

// Item returns the function registered under name.
func (c *Counter) Item(name string) (Item, bool) {
	it, ok := c.items[name]
	return it, ok
}

// Items returns the registered functions in registration order.
func (c *Counter) Items() []Item {
	out := make([]Item, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.items[name])
	}
	return out
}

// Len returns the number of registered functions.
func (c *Counter) Len() int {
	return len(c.items)
}

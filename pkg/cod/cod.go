// Package cod prioritizes features by Cost of Delay.
//
// Cost of Delay is the sum of three relative estimates of a feature: user value,
// time value, and risk reduction / opportunity enablement value. Features are ranked by:
//
//   - Shortest Job First: when the cost of delays are the same, do the smallest feature first.
//   - High Delay Cost First: when effort is the same, do the high delay cost feature first.
//   - Weighted Shortest Job First (WSJF): otherwise divide the cost of delay by effort
//     and do the highest ratio first.
package cod

import (
	"cmp"
	"sort"

	"github.com/codeGROOVE-dev/estcalc/pkg/estimate"
)

// Value range for user, time and risk reduction values.
const (
	MinValue = 1
	MaxValue = 10
)

// Field names reported by validation errors.
const (
	FieldUser = "User value"
	FieldTime = "Time value"
	FieldRisk = "Risk reduction"
)

// Item is a single feature competing for priority.
//
//nolint:govet // fieldalignment: API struct field order optimized for readability
type Item struct {
	Title  string  `json:"title"`
	Effort float64 `json:"effort"`
	User   int     `json:"user"`
	Time   int     `json:"time"`
	Risk   int     `json:"risk"`
	// CoD is user + time + risk, fixed at insertion.
	CoD int `json:"cod"`
	// WSJF is CoD / effort rounded to 2 places. Zero until a comparison needed it.
	WSJF    float64 `json:"wsjf,omitempty"`
	hasWSJF bool
}

// wsjf returns the memoized WSJF, computing it on first use.
func (i *Item) wsjf() float64 {
	if !i.hasWSJF {
		i.WSJF = estimate.Round2(float64(i.CoD) / i.Effort)
		i.hasWSJF = true
	}
	return i.WSJF
}

// Prioritizer collects features in insertion order and sorts them by priority.
// It is not safe for concurrent use.
type Prioritizer struct {
	items []Item
}

// New creates an empty Prioritizer.
func New() *Prioritizer {
	return &Prioritizer{items: []Item{}}
}

// Prioritize adds every item (only Title, Effort, User, Time and Risk are read)
// and sorts the result. It stops at the first invalid item.
func Prioritize(items ...Item) (*Prioritizer, error) {
	p := New()
	for _, it := range items {
		if err := p.Add(it.Title, it.Effort, it.User, it.Time, it.Risk); err != nil {
			return nil, err
		}
	}
	p.Sort()
	return p, nil
}

// Add registers a feature. Effort is accepted as given.
// Titles are not required to be unique.
func (p *Prioritizer) Add(title string, effort float64, user, time, risk int) error {
	if err := checkRange(FieldUser, user); err != nil {
		return err
	}
	if err := checkRange(FieldTime, time); err != nil {
		return err
	}
	if err := checkRange(FieldRisk, risk); err != nil {
		return err
	}

	p.items = append(p.items, Item{
		Title:  title,
		Effort: effort,
		User:   user,
		Time:   time,
		Risk:   risk,
		CoD:    user + time + risk,
	})
	return nil
}

func checkRange(field string, v int) error {
	if v < MinValue || v > MaxValue {
		return estimate.NewValidationError(field, MinValue, MaxValue, v)
	}
	return nil
}

// Sort orders the stored items by priority, highest first, and returns them.
// The returned slice aliases the Prioritizer's storage.
func (p *Prioritizer) Sort() []Item {
	sort.Slice(p.items, func(i, j int) bool {
		return Compare(&p.items[i], &p.items[j]) < 0
	})
	return p.items
}

// Compare returns a negative number when a ranks before b, a positive number when
// b ranks before a, and zero when neither rule separates them.
// It may memoize WSJF on both items.
func Compare(a, b *Item) int {
	switch {
	case a.CoD == b.CoD:
		return cmp.Compare(a.Effort, b.Effort)
	case a.Effort == b.Effort:
		return b.CoD - a.CoD
	default:
		return cmp.Compare(b.wsjf(), a.wsjf())
	}
}

// Items returns the stored items in their current order.
func (p *Prioritizer) Items() []Item {
	return p.items
}

// Len returns the number of stored items.
func (p *Prioritizer) Len() int {
	return len(p.items)
}

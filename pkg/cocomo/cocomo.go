// Package cocomo converts function point counts into development effort using
// COCOMO II. Function points are first backfired into lines of code.
package cocomo

import (
	"math"
	"time"
)

// Config holds parameters for COCOMO II effort estimation.
// These defaults are based on the COCOMO II model for organic projects.
type Config struct {
	// Multiplier is the base effort coefficient (default: 2.94)
	Multiplier float64 `json:"multiplier" mapstructure:"multiplier"`

	// Exponent is the scale factor (default: 1.0997)
	Exponent float64 `json:"exponent" mapstructure:"exponent"`

	// LOCPerFunctionPoint is the backfiring ratio (default: 53, a typical figure for Java)
	LOCPerFunctionPoint float64 `json:"loc_per_fp" mapstructure:"loc_per_fp"`

	// HoursPerPersonMonth converts person-months to hours (default: 152)
	HoursPerPersonMonth float64 `json:"hours_per_person_month" mapstructure:"hours_per_person_month"`

	// MinimumEffort is the floor applied to any non-zero estimate (default: 0)
	MinimumEffort time.Duration `json:"minimum_effort" mapstructure:"minimum_effort"`
}

// DefaultConfig returns COCOMO II configuration with standard values.
func DefaultConfig() Config {
	return Config{
		Multiplier:          2.94,
		Exponent:            1.0997,
		LOCPerFunctionPoint: 53,
		HoursPerPersonMonth: 152,
	}
}

// LinesOfCode backfires a function point count into lines of code.
func LinesOfCode(functionPoints float64, cfg Config) float64 {
	return functionPoints * cfg.LOCPerFunctionPoint
}

// EstimateEffort calculates development effort for an adjusted function point count.
//
// The formula used is: Effort = Multiplier × (KLOC)^Exponent
// where KLOC is thousands of backfired lines of code. The result is in
// person-months, converted to hours with HoursPerPersonMonth.
//
// Zero or negative counts yield zero effort; anything else is never less
// than cfg.MinimumEffort.
func EstimateEffort(functionPoints float64, cfg Config) time.Duration {
	if functionPoints <= 0 {
		return 0
	}

	kloc := LinesOfCode(functionPoints, cfg) / 1000.0
	personMonths := cfg.Multiplier * math.Pow(kloc, cfg.Exponent)
	hours := personMonths * cfg.HoursPerPersonMonth

	effort := time.Duration(hours * float64(time.Hour))
	if effort < cfg.MinimumEffort {
		return cfg.MinimumEffort
	}
	return effort
}

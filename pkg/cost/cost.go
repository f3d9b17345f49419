// Package cost converts estimated effort into money.
// Costs are broken down into components with itemized inputs.
package cost

import (
	"time"
)

// Config holds all tunable parameters for cost calculation.
type Config struct {
	// Annual salary used for calculating hourly rate (default: $250,000)
	AnnualSalary float64 `json:"annual_salary" mapstructure:"annual_salary"`

	// Benefits multiplier applied to salary (default: 1.3 = 30% benefits)
	BenefitsMultiplier float64 `json:"benefits_multiplier" mapstructure:"benefits_multiplier"`

	// Hours per year for calculating hourly rate (default: 2080)
	HoursPerYear float64 `json:"hours_per_year" mapstructure:"hours_per_year"`

	// Length of one effort unit used by three-point estimates (default: 8 hours, a person-day)
	EffortUnit time.Duration `json:"effort_unit" mapstructure:"effort_unit"`
}

// DefaultConfig returns reasonable defaults for cost calculation.
func DefaultConfig() Config {
	return Config{
		AnnualSalary:       250000.0,
		BenefitsMultiplier: 1.3,
		HoursPerYear:       2080.0,
		EffortUnit:         8 * time.Hour,
	}
}

// Breakdown shows an itemized price for a piece of effort.
type Breakdown struct {
	Hours              float64 `json:"hours"`
	HourlyRate         float64 `json:"hourly_rate"`
	AnnualSalary       float64 `json:"annual_salary"`
	BenefitsMultiplier float64 `json:"benefits_multiplier"`
	TotalCost          float64 `json:"total_cost"`
}

// HourlyRate returns the fully loaded hourly rate.
func HourlyRate(cfg Config) float64 {
	// Defensive check: avoid division by zero
	if cfg.HoursPerYear == 0 {
		cfg.HoursPerYear = 2080 // Standard full-time hours per year
	}
	return (cfg.AnnualSalary * cfg.BenefitsMultiplier) / cfg.HoursPerYear
}

// Price computes the cost of the given effort.
func Price(effort time.Duration, cfg Config) Breakdown {
	rate := HourlyRate(cfg)
	hours := effort.Hours()
	return Breakdown{
		Hours:              hours,
		HourlyRate:         rate,
		AnnualSalary:       cfg.AnnualSalary,
		BenefitsMultiplier: cfg.BenefitsMultiplier,
		TotalCost:          hours * rate,
	}
}

// UnitsToDuration converts an effort expressed in cfg.EffortUnit into a duration.
func UnitsToDuration(units float64, cfg Config) time.Duration {
	unit := cfg.EffortUnit
	if unit <= 0 {
		unit = 8 * time.Hour
	}
	return time.Duration(units * float64(unit))
}

// PriceUnits computes the cost of an effort expressed in cfg.EffortUnit.
func PriceUnits(units float64, cfg Config) Breakdown {
	return Price(UnitsToDuration(units, cfg), cfg)
}

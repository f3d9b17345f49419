// Package main prints the effective estcalc configuration after defaults,
// the config file, and ESTCALC_* environment overrides are applied.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/codeGROOVE-dev/estcalc/internal/config"
)

func main() {
	cfgFile := ""
	if len(os.Args) > 1 {
		cfgFile = os.Args[1]
	}

	v := viper.New()
	if err := config.Init(v, cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "read config: %v\n", err)
		os.Exit(1)
	}
	if used := v.ConfigFileUsed(); used != "" {
		fmt.Printf("Config file: %s\n", used)
	} else {
		fmt.Printf("Config file: none (looked in %s and .)\n", config.Dir())
	}

	cfg, err := config.Load(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid config:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Output format: %s\n", cfg.Output.Format)
	fmt.Printf("Cost enabled: %v\n", cfg.Cost.Enabled)
	fmt.Printf("Annual salary: %.0f\n", cfg.Cost.Rates.AnnualSalary)
	fmt.Printf("Benefits multiplier: %.2f\n", cfg.Cost.Rates.BenefitsMultiplier)
	fmt.Printf("Hours per year: %.0f\n", cfg.Cost.Rates.HoursPerYear)
	fmt.Printf("Effort unit: %v\n", cfg.Cost.Rates.EffortUnit)
	fmt.Printf("COCOMO enabled: %v\n", cfg.Cost.COCOMO)
	fmt.Printf("COCOMO multiplier: %.2f\n", cfg.COCOMO.Multiplier)
	fmt.Printf("COCOMO exponent: %.4f\n", cfg.COCOMO.Exponent)
	fmt.Printf("LOC per function point: %.0f\n", cfg.COCOMO.LOCPerFunctionPoint)
	fmt.Printf("Hours per person-month: %.0f\n", cfg.COCOMO.HoursPerPersonMonth)
	fmt.Printf("Server port: %s\n", cfg.Server.Port)
	fmt.Printf("Rate limit: %d/s (burst %d)\n", cfg.Server.RateLimit, cfg.Server.RateBurst)
}

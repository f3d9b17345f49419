// Package config loads estcalc settings from defaults, a config file, and
// ESTCALC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/codeGROOVE-dev/estcalc/pkg/cocomo"
	"github.com/codeGROOVE-dev/estcalc/pkg/cost"
)

// EnvPrefix is the prefix for environment overrides, e.g. ESTCALC_OUTPUT_FORMAT.
const EnvPrefix = "ESTCALC"

// Config represents the complete estcalc configuration
type Config struct {
	Output OutputConfig  `mapstructure:"output"`
	Cost   CostConfig    `mapstructure:"cost"`
	COCOMO cocomo.Config `mapstructure:"cocomo"`
	Server ServerConfig  `mapstructure:"server"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	// Format is the default output format: "human", "json" or "xlsx"
	Format string `mapstructure:"format"`
}

// CostConfig controls effort pricing
type CostConfig struct {
	// Enabled adds cost figures to FPA and PERT reports (default: false)
	Enabled bool `mapstructure:"enabled"`
	// Effort estimation from function points via COCOMO II (default: true)
	COCOMO bool        `mapstructure:"cocomo"`
	Rates  cost.Config `mapstructure:"rates"`
}

// ServerConfig controls the HTTP API
type ServerConfig struct {
	Port         string `mapstructure:"port"`
	CORSOrigins  string `mapstructure:"cors_origins"`
	AllowAllCORS bool   `mapstructure:"allow_all_cors"`
	RateLimit    int    `mapstructure:"rate_limit"`
	RateBurst    int    `mapstructure:"rate_burst"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Output: OutputConfig{Format: "human"},
		Cost: CostConfig{
			COCOMO: true,
			Rates:  cost.DefaultConfig(),
		},
		COCOMO: cocomo.DefaultConfig(),
		Server: ServerConfig{
			Port:      "8080",
			RateLimit: 100,
			RateBurst: 100,
		},
	}
}

// SetDefaults registers every default with viper so that env overrides and
// Unmarshal see all keys even without a config file.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	// Output defaults
	v.SetDefault("output.format", defaults.Output.Format)

	// Cost defaults
	v.SetDefault("cost.enabled", defaults.Cost.Enabled)
	v.SetDefault("cost.cocomo", defaults.Cost.COCOMO)
	v.SetDefault("cost.rates.annual_salary", defaults.Cost.Rates.AnnualSalary)
	v.SetDefault("cost.rates.benefits_multiplier", defaults.Cost.Rates.BenefitsMultiplier)
	v.SetDefault("cost.rates.hours_per_year", defaults.Cost.Rates.HoursPerYear)
	v.SetDefault("cost.rates.effort_unit", defaults.Cost.Rates.EffortUnit)

	// COCOMO defaults
	v.SetDefault("cocomo.multiplier", defaults.COCOMO.Multiplier)
	v.SetDefault("cocomo.exponent", defaults.COCOMO.Exponent)
	v.SetDefault("cocomo.loc_per_fp", defaults.COCOMO.LOCPerFunctionPoint)
	v.SetDefault("cocomo.hours_per_person_month", defaults.COCOMO.HoursPerPersonMonth)
	v.SetDefault("cocomo.minimum_effort", defaults.COCOMO.MinimumEffort)

	// Server defaults
	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("server.cors_origins", defaults.Server.CORSOrigins)
	v.SetDefault("server.allow_all_cors", defaults.Server.AllowAllCORS)
	v.SetDefault("server.rate_limit", defaults.Server.RateLimit)
	v.SetDefault("server.rate_burst", defaults.Server.RateBurst)
}

// Init prepares v: defaults, config file lookup, and environment binding.
// A missing config file is not an error unless cfgFile was given explicitly.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	// Replace dots with underscores for nested keys in env vars
	// e.g., ESTCALC_COST_RATES_ANNUAL_SALARY for cost.rates.annual_salary
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() []error {
	var errs []error
	switch c.Output.Format {
	case "human", "json", "xlsx":
	default:
		errs = append(errs, fmt.Errorf("output.format: invalid value %q (must be human, json or xlsx)", c.Output.Format))
	}
	if c.Cost.Rates.AnnualSalary < 0 {
		errs = append(errs, errors.New("cost.rates.annual_salary: must be non-negative"))
	}
	if c.Cost.Rates.BenefitsMultiplier < 0 {
		errs = append(errs, errors.New("cost.rates.benefits_multiplier: must be non-negative"))
	}
	if c.Cost.Rates.HoursPerYear < 0 {
		errs = append(errs, errors.New("cost.rates.hours_per_year: must be non-negative"))
	}
	if c.COCOMO.LOCPerFunctionPoint <= 0 {
		errs = append(errs, errors.New("cocomo.loc_per_fp: must be positive"))
	}
	if c.Server.RateLimit <= 0 || c.Server.RateBurst <= 0 {
		errs = append(errs, errors.New("server.rate_limit and server.rate_burst: must be positive"))
	}
	return errs
}

// Dir returns the per-user configuration directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "estcalc")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "estcalc")
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsWithoutFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	v := viper.New()
	require.NoError(t, Init(v, ""))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "human", cfg.Output.Format)
	assert.False(t, cfg.Cost.Enabled)
	assert.True(t, cfg.Cost.COCOMO)
	assert.Equal(t, 250000.0, cfg.Cost.Rates.AnnualSalary)
	assert.Equal(t, 8*time.Hour, cfg.Cost.Rates.EffortUnit)
	assert.Equal(t, 2.94, cfg.COCOMO.Multiplier)
	assert.Equal(t, 53.0, cfg.COCOMO.LOCPerFunctionPoint)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 100, cfg.Server.RateLimit)
}

func TestConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "estcalc.yaml")
	content := `output:
  format: json
cost:
  enabled: true
  rates:
    annual_salary: 120000
    effort_unit: 1h
cocomo:
  loc_per_fp: 40
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("ESTCALC_SERVER_PORT", "9090")

	v := viper.New()
	require.NoError(t, Init(v, path))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Output.Format)
	assert.True(t, cfg.Cost.Enabled)
	assert.Equal(t, 120000.0, cfg.Cost.Rates.AnnualSalary)
	assert.Equal(t, 1.3, cfg.Cost.Rates.BenefitsMultiplier)
	assert.Equal(t, time.Hour, cfg.Cost.Rates.EffortUnit)
	assert.Equal(t, 40.0, cfg.COCOMO.LOCPerFunctionPoint)
	assert.Equal(t, 1.0997, cfg.COCOMO.Exponent)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestExplicitMissingFile(t *testing.T) {
	v := viper.New()
	err := Init(v, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "bad format", mutate: func(c *Config) { c.Output.Format = "csv" }, wantErr: true},
		{name: "negative salary", mutate: func(c *Config) { c.Cost.Rates.AnnualSalary = -1 }, wantErr: true},
		{name: "zero loc per fp", mutate: func(c *Config) { c.COCOMO.LOCPerFunctionPoint = 0 }, wantErr: true},
		{name: "zero rate limit", mutate: func(c *Config) { c.Server.RateLimit = 0 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			errs := cfg.Validate()
			assert.Equal(t, tt.wantErr, len(errs) > 0, "errors: %v", errs)
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("output.format", "pdf")
	_, err := Load(v)
	assert.Error(t, err)
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "estcalc"), Dir())
}

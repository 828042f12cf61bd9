package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_AppliesDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "test.db", cfg.Database)
	assert.Equal(t, DriverSQLite, cfg.Driver)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 10000, cfg.Count)
	assert.Equal(t, "random", cfg.NameSource)
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "negative workers", cfg: Config{Workers: -1}},
		{name: "negative count", cfg: Config{Count: -5}},
		{name: "unknown driver", cfg: Config{Driver: "postgres"}},
		{name: "unknown name source", cfg: Config{NameSource: "celebrity"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Validate())
		})
	}
}

func TestValidate_MetricsAddressDefault(t *testing.T) {
	cfg := &Config{Metrics: MetricsConfig{Enabled: true}}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":9090", cfg.Metrics.Address)
}

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.Metrics.Enabled)
}

package setup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 250, cfg.Engine.TraderThreshold)

	ec := cfg.EngineConfig()
	assert.True(t, ec.LiquidityParam.Equal(decimal.NewFromInt(10)))
	assert.True(t, ec.MinBookLiquidity.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 0.10, ec.PriceImpactLimit)
	assert.Equal(t, []string{"YES", "NO"}, ec.DefaultOutcomes)
	assert.True(t, cfg.InitialReserve().Equal(decimal.NewFromInt(1000000)))
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := `
listen_addr: ":9090"
engine:
  liquidity_param: "25"
  trader_threshold: 10
  default_outcomes: ["A", "B", "C"]
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	ec := cfg.EngineConfig()
	assert.True(t, ec.LiquidityParam.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, 10, ec.TraderThreshold)
	assert.Equal(t, []string{"A", "B", "C"}, ec.DefaultOutcomes)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":7070")
	t.Setenv("TRADER_THRESHOLD", "42")
	t.Setenv("INITIAL_RESERVE", "500")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.ListenAddr)
	assert.Equal(t, 42, cfg.Engine.TraderThreshold)
	assert.True(t, cfg.InitialReserve().Equal(decimal.NewFromInt(500)))
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr)
}

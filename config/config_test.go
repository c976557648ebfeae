package config

import (
	"os"
	"path/filepath"
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	atlasswap "github.com/krazyTry/atlas-go/atlas_swap"
	"github.com/krazyTry/atlas-go/atlas_swap/shared"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "atlas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, atlasswap.ProgramID, cfg.ProgramKey())
	assert.Equal(t, "atlas-db", cfg.DBPath)
	assert.Equal(t, "info", cfg.Log.Level)

	c := cfg.Constraints()
	def := atlasswap.DefaultConstraints()
	assert.ElementsMatch(t, def.ValidCurveTypes, c.ValidCurveTypes)
	assert.Equal(t, def.Fees, c.Fees)
	assert.Equal(t, def.InitialFees, c.InitialFees)
	assert.Equal(t, def.MinLpSupply, c.MinLpSupply)
	assert.Equal(t, def.InitialOwner, c.InitialOwner)
}

func TestLoadFile(t *testing.T) {
	owner := solanago.NewWallet().PublicKey()
	path := writeConfig(t, `
db_path: /tmp/pools
log:
  level: debug
  format: json
policy:
  initial_owner: `+owner.String()+`
  min_trade_fee_numerator: 30
  valid_curve_types: [Stable, Offset]
  min_lp_supply: 10
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/pools", cfg.DBPath)
	assert.Equal(t, "json", cfg.Log.Format)

	c := cfg.Constraints()
	assert.Equal(t, owner, c.InitialOwner)
	assert.Equal(t, []shared.CurveType{shared.CurveTypeStable, shared.CurveTypeOffset}, c.ValidCurveTypes)
	assert.Equal(t, uint64(30), c.Fees.TradeFeeNumerator)
	assert.Equal(t, uint64(30), c.InitialFees.TradeFeeNumerator)
	assert.Equal(t, uint64(10), c.MinLpSupply)
	assert.NoError(t, c.ValidateFees(c.InitialFees))
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ATLAS_DB_PATH", "/var/lib/atlas")
	t.Setenv("ATLAS_POLICY_MIN_LP_SUPPLY", "42")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/atlas", cfg.DBPath)
	assert.Equal(t, uint64(42), cfg.Policy.MinLpSupply)
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"bad program id":   "program_id: nope\n",
		"unknown curve":    "policy:\n  valid_curve_types: [Hyperbolic]\n",
		"zero denominator": "policy:\n  trade_fee_denominator: 0\n",
		"floor above one":  "policy:\n  min_trade_fee_numerator: 20000\n",
		"bad log level":    "log:\n  level: loud\n",
		"bad owner":        "policy:\n  initial_owner: xyz\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			require.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

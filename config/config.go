package config

import (
	"errors"
	"fmt"
	"strings"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/spf13/viper"

	atlasswap "github.com/krazyTry/atlas-go/atlas_swap"
	"github.com/krazyTry/atlas-go/atlas_swap/math/pool_fees"
	"github.com/krazyTry/atlas-go/atlas_swap/shared"
	"github.com/krazyTry/atlas-go/logger"
)

const EnvPrefix = "ATLAS"

type Config struct {
	ProgramID string        `mapstructure:"program_id"`
	DBPath    string        `mapstructure:"db_path"`
	Log       logger.Config `mapstructure:"log"`
	Policy    Policy        `mapstructure:"policy"`
}

// Policy is the swap program policy: curve whitelist, fee floor and the
// values the first Configure bootstraps from.
type Policy struct {
	InitialOwner         string   `mapstructure:"initial_owner"`
	InitialFeeOwner      string   `mapstructure:"initial_fee_owner"`
	MinTradeFeeNumerator uint64   `mapstructure:"min_trade_fee_numerator"`
	TradeFeeDenominator  uint64   `mapstructure:"trade_fee_denominator"`
	ValidCurveTypes      []string `mapstructure:"valid_curve_types"`
	MinLpSupply          uint64   `mapstructure:"min_lp_supply"`
	InitialSupply        uint64   `mapstructure:"initial_supply"`
	LpDecimals           uint8    `mapstructure:"lp_decimals"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"program_id":                     atlasswap.ProgramID.String(),
		"db_path":                        "atlas-db",
		"log.level":                      "info",
		"log.format":                     "console",
		"policy.initial_owner":           atlasswap.InitialProgramOwner.String(),
		"policy.initial_fee_owner":       atlasswap.InitialProgramOwner.String(),
		"policy.min_trade_fee_numerator": 0,
		"policy.trade_fee_denominator":   shared.BasisPointMax,
		"policy.valid_curve_types":       []string{shared.CurveTypeConstantPrice.String(), shared.CurveTypeConstantProduct.String()},
		"policy.min_lp_supply":           shared.MinLpSupply,
		"policy.initial_supply":          shared.DefaultInitialLp,
		"policy.lp_decimals":             shared.DefaultLpDecimals,
	}
}

// Load reads the configuration file at path, if any, over the defaults.
// Environment variables prefixed ATLAS_ override both, with dots in keys
// replaced by underscores (ATLAS_POLICY_MIN_LP_SUPPLY).
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	if _, err := solanago.PublicKeyFromBase58(cfg.ProgramID); err != nil {
		return fmt.Errorf("invalid program_id: %w", err)
	}
	if cfg.DBPath == "" {
		return errors.New("db_path is empty")
	}
	if _, err := cfg.Log.ZapLevel(); err != nil {
		return err
	}
	return validatePolicy(&cfg.Policy)
}

func validatePolicy(p *Policy) error {
	if _, err := solanago.PublicKeyFromBase58(p.InitialOwner); err != nil {
		return fmt.Errorf("invalid policy.initial_owner: %w", err)
	}
	if _, err := solanago.PublicKeyFromBase58(p.InitialFeeOwner); err != nil {
		return fmt.Errorf("invalid policy.initial_fee_owner: %w", err)
	}
	if p.TradeFeeDenominator == 0 {
		return errors.New("policy.trade_fee_denominator must be positive")
	}
	if p.MinTradeFeeNumerator > p.TradeFeeDenominator {
		return errors.New("policy.min_trade_fee_numerator exceeds the denominator")
	}
	if len(p.ValidCurveTypes) == 0 {
		return errors.New("policy.valid_curve_types is empty")
	}
	for _, name := range p.ValidCurveTypes {
		if _, ok := shared.ParseCurveType(name); !ok {
			return fmt.Errorf("unknown curve type %q", name)
		}
	}
	return nil
}

func (c *Config) ProgramKey() solanago.PublicKey {
	return solanago.MustPublicKeyFromBase58(c.ProgramID)
}

// Constraints converts the policy into the form the processor enforces.
// The config must have passed validation.
func (c *Config) Constraints() *atlasswap.SwapConstraints {
	out := atlasswap.DefaultConstraints()
	p := c.Policy
	out.InitialOwner = solanago.MustPublicKeyFromBase58(p.InitialOwner)
	out.InitialFeeOwner = solanago.MustPublicKeyFromBase58(p.InitialFeeOwner)
	out.Fees = pool_fees.Fees{TradeFeeNumerator: p.MinTradeFeeNumerator, TradeFeeDenominator: p.TradeFeeDenominator}
	out.InitialFees.TradeFeeNumerator = max(out.InitialFees.TradeFeeNumerator, p.MinTradeFeeNumerator)
	out.InitialFees.TradeFeeDenominator = p.TradeFeeDenominator
	out.MinLpSupply = p.MinLpSupply
	out.InitialSupply = p.InitialSupply
	out.LpDecimals = p.LpDecimals
	out.ValidCurveTypes = out.ValidCurveTypes[:0]
	for _, name := range p.ValidCurveTypes {
		curve, _ := shared.ParseCurveType(name)
		out.ValidCurveTypes = append(out.ValidCurveTypes, curve)
	}
	return out
}

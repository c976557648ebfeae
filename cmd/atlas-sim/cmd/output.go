package cmd

import (
	"fmt"
	"strconv"
	"strings"

	solanago "github.com/gagliardetto/solana-go"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	atlasswap "github.com/krazyTry/atlas-go/atlas_swap"
	"github.com/krazyTry/atlas-go/atlas_swap/math"
	"github.com/krazyTry/atlas-go/atlas_swap/math/pool_fees"
	"github.com/krazyTry/atlas-go/atlas_swap/shared"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func (s *simulator) print(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(s.out, string(out))
	return err
}

func parseKey(flag, value string) (solanago.PublicKey, error) {
	if value == "" {
		return solanago.PublicKey{}, fmt.Errorf("--%s is required", flag)
	}
	key, err := solanago.PublicKeyFromBase58(value)
	if err != nil {
		return solanago.PublicKey{}, fmt.Errorf("--%s: %w", flag, err)
	}
	return key, nil
}

// parseFraction reads "numerator/denominator".
func parseFraction(value string) (uint64, uint64, error) {
	num, den, ok := strings.Cut(value, "/")
	if !ok {
		return 0, 0, fmt.Errorf("fraction %q: expected numerator/denominator", value)
	}
	n, err := strconv.ParseUint(strings.TrimSpace(num), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("fraction %q: %w", value, err)
	}
	d, err := strconv.ParseUint(strings.TrimSpace(den), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("fraction %q: %w", value, err)
	}
	return n, d, nil
}

func parseFees(trade, owner string, hostPercent uint64) (pool_fees.Fees, error) {
	fees := pool_fees.Fees{HostFeePercent: hostPercent}
	var err error
	if fees.TradeFeeNumerator, fees.TradeFeeDenominator, err = parseFraction(trade); err != nil {
		return pool_fees.Fees{}, err
	}
	if owner != "" {
		if fees.OwnerTradeFeeNumerator, fees.OwnerTradeFeeDenominator, err = parseFraction(owner); err != nil {
			return pool_fees.Fees{}, err
		}
	}
	return fees, fees.Validate()
}

// parseCurve reads a curve as Name or Name:parameter, e.g. ConstantPrice:10.
func parseCurve(value string) (*math.SwapCurve, error) {
	if value == "" {
		return nil, nil
	}
	name, param, hasParam := strings.Cut(value, ":")
	curveType, ok := shared.ParseCurveType(name)
	if !ok {
		return nil, fmt.Errorf("unknown curve %q", name)
	}
	curve := math.SwapCurve{CurveType: curveType}
	if hasParam {
		p, err := strconv.ParseUint(param, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("curve parameter %q: %w", param, err)
		}
		curve.Parameter = p
	}
	if err := curve.Validate(); err != nil {
		return nil, err
	}
	return &curve, nil
}

func uiAmount(amount uint64, decimals uint8) string {
	return decimal.NewFromUint64(amount).Shift(-int32(decimals)).String()
}

type feesView struct {
	TradeFee       string `json:"trade_fee"`
	OwnerTradeFee  string `json:"owner_trade_fee"`
	HostFeePercent uint64 `json:"host_fee_percent"`
}

func fraction(num, den uint64) string {
	if den == 0 {
		return "0"
	}
	return decimal.NewFromUint64(num).Div(decimal.NewFromUint64(den)).String()
}

func newFeesView(f pool_fees.Fees) feesView {
	return feesView{
		TradeFee:       fraction(f.TradeFeeNumerator, f.TradeFeeDenominator),
		OwnerTradeFee:  fraction(f.OwnerTradeFeeNumerator, f.OwnerTradeFeeDenominator),
		HostFeePercent: f.HostFeePercent,
	}
}

type globalView struct {
	Address       string   `json:"address"`
	Owner         string   `json:"owner"`
	FeeOwner      string   `json:"fee_owner"`
	InitialSupply uint64   `json:"initial_supply"`
	LpDecimals    uint8    `json:"lp_decimals"`
	Fees          feesView `json:"fees"`
	DefaultCurve  string   `json:"default_curve"`
}

func newGlobalView(addr solanago.PublicKey, g atlasswap.GlobalState) globalView {
	return globalView{
		Address:       addr.String(),
		Owner:         g.Owner.String(),
		FeeOwner:      g.FeeOwner.String(),
		InitialSupply: g.InitialSupply,
		LpDecimals:    g.LpDecimals,
		Fees:          newFeesView(g.Fees),
		DefaultCurve:  g.SwapCurve.String(),
	}
}

type poolView struct {
	Address    string `json:"address"`
	Authority  string `json:"authority"`
	Curve      string `json:"curve"`
	TokenA     string `json:"token_a"`
	TokenB     string `json:"token_b"`
	TokenAMint string `json:"token_a_mint"`
	TokenBMint string `json:"token_b_mint"`
	PoolMint   string `json:"pool_mint"`
	ReserveA   string `json:"reserve_a"`
	ReserveB   string `json:"reserve_b"`
	LpSupply   string `json:"lp_supply"`
	SpotPrice  string `json:"spot_price"`
}

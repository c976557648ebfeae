package atlasswap

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/krazyTry/atlas-go/atlas_swap/math"
	"github.com/krazyTry/atlas-go/atlas_swap/math/pool_fees"
	"github.com/krazyTry/atlas-go/atlas_swap/shared"
	"github.com/krazyTry/atlas-go/u128"
)

var ErrQuote = errors.New("quote: trade cannot be priced")

// SwapQuote previews a swap against known reserves.
type SwapQuote struct {
	AmountIn         uint64
	AmountOut        uint64
	MinimumAmountOut uint64
	TradeFee         uint64
	OwnerFee         uint64
	// Percentage distance between the execution price and the spot price.
	PriceImpact decimal.Decimal
}

// GetAmountWithSlippage lowers amount by slippageBps basis points.
func GetAmountWithSlippage(amount uint64, slippageBps uint16) uint64 {
	if slippageBps == 0 {
		return amount
	}
	factor := u128.New(uint64(shared.BasisPointMax - min(uint64(slippageBps), shared.BasisPointMax)))
	v, _ := u128.MulDiv(u128.New(amount), factor, u128.New(shared.BasisPointMax), false)
	out, _ := v.Uint64()
	return out
}

// SpotPrice is the price of one token A in token B, adjusted by the mint
// decimals.
func SpotPrice(reserveA, reserveB uint64, decimalsA, decimalsB uint8) decimal.Decimal {
	if reserveA == 0 {
		return decimal.Zero
	}
	a := decimal.NewFromUint64(reserveA).Shift(-int32(decimalsA))
	b := decimal.NewFromUint64(reserveB).Shift(-int32(decimalsB))
	return b.Div(a)
}

// GetSwapQuote prices amountIn with the same engine the program runs.
func GetSwapQuote(
	curve math.SwapCurve,
	fees pool_fees.Fees,
	amountIn, reserveIn, reserveOut uint64,
	direction shared.TradeDirection,
	slippageBps uint16,
) (SwapQuote, error) {
	res, ok := curve.Swap(u128.New(amountIn), u128.New(reserveIn), u128.New(reserveOut), direction, fees)
	if !ok {
		return SwapQuote{}, ErrQuote
	}
	out, err := toU64(res.DestinationAmountSwapped)
	if err != nil {
		return SwapQuote{}, err
	}
	in, err := toU64(res.SourceAmountSwapped)
	if err != nil {
		return SwapQuote{}, err
	}
	tradeFee, err := toU64(res.TradeFee)
	if err != nil {
		return SwapQuote{}, err
	}
	ownerFee, err := toU64(res.OwnerFee)
	if err != nil {
		return SwapQuote{}, err
	}

	return SwapQuote{
		AmountIn:         in,
		AmountOut:        out,
		MinimumAmountOut: GetAmountWithSlippage(out, slippageBps),
		TradeFee:         tradeFee,
		OwnerFee:         ownerFee,
		PriceImpact:      priceImpact(in, out, reserveIn, reserveOut),
	}, nil
}

// priceImpact is the percentage gap between the reserve ratio and the
// executed price. It is zero when either reserve is empty, as on a
// constant price curve or a single-sided offset pool.
func priceImpact(in, out, reserveIn, reserveOut uint64) decimal.Decimal {
	if in == 0 || reserveIn == 0 || reserveOut == 0 {
		return decimal.Zero
	}
	spot := decimal.NewFromUint64(reserveOut).Div(decimal.NewFromUint64(reserveIn))
	execution := decimal.NewFromUint64(out).Div(decimal.NewFromUint64(in))
	return spot.Sub(execution).Abs().Div(spot).Mul(decimal.NewFromInt(100))
}

type WithdrawQuote struct {
	PoolTokenAmount uint64
	TokenAAmount    uint64
	TokenBAmount    uint64
}

// GetWithdrawQuote previews a withdrawal, including the clamp against the
// minimum pool token supply.
func GetWithdrawQuote(curve math.SwapCurve, poolTokenAmount, poolTokenSupply, reserveA, reserveB, minLpSupply uint64) (WithdrawQuote, error) {
	var burnable uint64
	if poolTokenSupply > minLpSupply {
		burnable = poolTokenSupply - minLpSupply
	}
	amount := min(poolTokenAmount, burnable)
	if amount == 0 {
		return WithdrawQuote{}, ErrBelowMinimumSupply
	}
	res, ok := curve.PoolTokensToTradingTokens(u128.New(amount), u128.New(poolTokenSupply), u128.New(reserveA), u128.New(reserveB), shared.RoundDirectionFloor)
	if !ok {
		return WithdrawQuote{}, ErrQuote
	}
	a, err := toU64(res.TokenAAmount)
	if err != nil {
		return WithdrawQuote{}, err
	}
	b, err := toU64(res.TokenBAmount)
	if err != nil {
		return WithdrawQuote{}, err
	}
	return WithdrawQuote{PoolTokenAmount: amount, TokenAAmount: min(a, reserveA), TokenBAmount: min(b, reserveB)}, nil
}

// GetDepositQuote previews the pool tokens minted for a deposit.
func GetDepositQuote(curve math.SwapCurve, tokenA, tokenB, poolTokenSupply, reserveA, reserveB uint64) (uint64, error) {
	if !curve.AllowsDeposits() {
		return 0, ErrUnsupportedCurveOperation
	}
	lp, ok := curve.DepositPoolTokens(u128.New(tokenA), u128.New(tokenB), u128.New(poolTokenSupply), u128.New(reserveA), u128.New(reserveB))
	if !ok {
		return 0, ErrQuote
	}
	return toU64(lp)
}

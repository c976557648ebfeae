package math

import (
	bin "encoding/binary"
	"errors"
	"fmt"

	"github.com/krazyTry/atlas-go/atlas_swap/math/pool_fees"
	"github.com/krazyTry/atlas-go/atlas_swap/shared"
	"github.com/krazyTry/atlas-go/u128"
)

var (
	ErrEmptySupply          = errors.New("curve: input token account empty")
	ErrInvalidCurve         = errors.New("curve: invalid parameters")
	ErrUnknownCurveType     = errors.New("curve: unknown curve type")
	ErrInvalidCurveLen      = errors.New("curve: invalid length")
	ErrUnsupportedOperation = errors.New("curve: operation not supported")
)

// SwapCurve is the pricing strategy of a pool. It is a closed variant: the
// tag selects the formula and Parameter carries its single fixed input.
//
//	ConstantProduct  unused
//	ConstantPrice    price of one token B in token A
//	Stable           amplification coefficient
//	Offset           virtual token B added to the B reserve
type SwapCurve struct {
	CurveType shared.CurveType
	Parameter uint64
}

func ConstantProduct() SwapCurve { return SwapCurve{CurveType: shared.CurveTypeConstantProduct} }

func ConstantPrice(tokenBPrice uint64) SwapCurve {
	return SwapCurve{CurveType: shared.CurveTypeConstantPrice, Parameter: tokenBPrice}
}

func Stable(amp uint64) SwapCurve {
	return SwapCurve{CurveType: shared.CurveTypeStable, Parameter: amp}
}

func Offset(tokenBOffset uint64) SwapCurve {
	return SwapCurve{CurveType: shared.CurveTypeOffset, Parameter: tokenBOffset}
}

// SwapResult is the outcome of pricing one trade. Amounts are in the wide
// representation; callers narrow them before moving tokens.
type SwapResult struct {
	// Input actually taken from the trader, at most the requested amount.
	SourceAmountSwapped u128.Uint128
	// Output paid to the trader, net of both fees.
	DestinationAmountSwapped u128.Uint128
	// Fee retained in the destination reserve.
	TradeFee u128.Uint128
	// Fee paid out of the destination reserve to the fee collector.
	OwnerFee                 u128.Uint128
	NewSwapSourceAmount      u128.Uint128
	NewSwapDestinationAmount u128.Uint128
}

type TradingTokenResult struct {
	TokenAAmount u128.Uint128
	TokenBAmount u128.Uint128
}

// Swap prices sourceAmount against the reserves. The curve computes the
// gross output, the trade fee stays in the pool and the owner fee is carved
// out for the fee collector. It returns false on any arithmetic failure or
// when the trade would move nothing.
func (c SwapCurve) Swap(
	sourceAmount, swapSourceAmount, swapDestinationAmount u128.Uint128,
	direction shared.TradeDirection,
	fees pool_fees.Fees,
) (*SwapResult, bool) {
	sourceSwapped, grossOut, ok := c.swapWithoutFees(sourceAmount, swapSourceAmount, swapDestinationAmount, direction)
	if !ok || sourceSwapped.IsZero() || grossOut.IsZero() {
		return nil, false
	}

	tradeFee, ok := fees.TradingFee(grossOut)
	if !ok {
		return nil, false
	}
	ownerFee, ok := fees.OwnerTradingFee(grossOut)
	if !ok {
		return nil, false
	}
	totalFees, ok := tradeFee.Add(ownerFee)
	if !ok {
		return nil, false
	}
	out, ok := grossOut.Sub(totalFees)
	if !ok || out.IsZero() {
		return nil, false
	}

	newSource, ok := swapSourceAmount.Add(sourceSwapped)
	if !ok {
		return nil, false
	}
	newDestination, ok := swapDestinationAmount.Sub(grossOut)
	if !ok {
		return nil, false
	}
	if newDestination, ok = newDestination.Add(tradeFee); !ok {
		return nil, false
	}

	return &SwapResult{
		SourceAmountSwapped:      sourceSwapped,
		DestinationAmountSwapped: out,
		TradeFee:                 tradeFee,
		OwnerFee:                 ownerFee,
		NewSwapSourceAmount:      newSource,
		NewSwapDestinationAmount: newDestination,
	}, true
}

func (c SwapCurve) swapWithoutFees(
	sourceAmount, swapSourceAmount, swapDestinationAmount u128.Uint128,
	direction shared.TradeDirection,
) (u128.Uint128, u128.Uint128, bool) {
	switch c.CurveType {
	case shared.CurveTypeConstantProduct:
		return constantProductSwap(sourceAmount, swapSourceAmount, swapDestinationAmount)
	case shared.CurveTypeConstantPrice:
		return constantPriceSwap(c.Parameter, sourceAmount, direction)
	case shared.CurveTypeStable:
		return stableSwap(c.Parameter, sourceAmount, swapSourceAmount, swapDestinationAmount)
	case shared.CurveTypeOffset:
		return offsetSwap(c.Parameter, sourceAmount, swapSourceAmount, swapDestinationAmount, direction)
	}
	return u128.Zero, u128.Zero, false
}

// PoolTokensToTradingTokens converts an amount of pool tokens into the
// matching share of each reserve.
func (c SwapCurve) PoolTokensToTradingTokens(
	poolTokens, poolTokenSupply, swapTokenAAmount, swapTokenBAmount u128.Uint128,
	round shared.RoundDirection,
) (TradingTokenResult, bool) {
	a, ok := share(poolTokens, swapTokenAAmount, poolTokenSupply, round)
	if !ok {
		return TradingTokenResult{}, false
	}
	b, ok := share(poolTokens, swapTokenBAmount, poolTokenSupply, round)
	if !ok {
		return TradingTokenResult{}, false
	}
	return TradingTokenResult{TokenAAmount: a, TokenBAmount: b}, true
}

func share(poolTokens, reserve, supply u128.Uint128, round shared.RoundDirection) (u128.Uint128, bool) {
	amount, ok := u128.MulDiv(poolTokens, reserve, supply, false)
	if !ok {
		return u128.Zero, false
	}
	if round == shared.RoundDirectionCeiling && !amount.IsZero() {
		return u128.MulDiv(poolTokens, reserve, supply, true)
	}
	return amount, true
}

// DepositPoolTokens is the pool token amount minted for a deposit of
// tokenA and tokenB. Both inputs are valued at par and compared with the
// combined reserves.
func (c SwapCurve) DepositPoolTokens(
	tokenA, tokenB, poolTokenSupply, swapTokenAAmount, swapTokenBAmount u128.Uint128,
) (u128.Uint128, bool) {
	deposit, ok := tokenA.Add(tokenB)
	if !ok {
		return u128.Zero, false
	}
	reserves, ok := swapTokenAAmount.Add(swapTokenBAmount)
	if !ok {
		return u128.Zero, false
	}
	return u128.MulDiv(deposit, poolTokenSupply, reserves, false)
}

// ValidateSupply rejects a pool bootstrapped with an empty reserve.
func (c SwapCurve) ValidateSupply(tokenAAmount, tokenBAmount uint64) error {
	if tokenAAmount == 0 {
		return ErrEmptySupply
	}
	if tokenBAmount == 0 && c.CurveType != shared.CurveTypeOffset {
		return ErrEmptySupply
	}
	return nil
}

func (c SwapCurve) AllowsDeposits() bool {
	return c.CurveType != shared.CurveTypeOffset
}

// Validate checks the curve parameter.
func (c SwapCurve) Validate() error {
	switch c.CurveType {
	case shared.CurveTypeConstantProduct:
		return nil
	case shared.CurveTypeConstantPrice:
		if c.Parameter == 0 {
			return fmt.Errorf("%w: zero token b price", ErrInvalidCurve)
		}
	case shared.CurveTypeStable:
		if c.Parameter < shared.StableMinAmp || c.Parameter > shared.StableMaxAmp {
			return fmt.Errorf("%w: amp %d out of range", ErrInvalidCurve, c.Parameter)
		}
	case shared.CurveTypeOffset:
		if c.Parameter == 0 {
			return fmt.Errorf("%w: zero token b offset", ErrInvalidCurve)
		}
	default:
		return ErrUnknownCurveType
	}
	return nil
}

// Pack writes the 33-byte curve blob: tag followed by the parameter padded
// to 32 bytes.
func (c SwapCurve) Pack() []byte {
	out := make([]byte, shared.CurveLen)
	out[0] = byte(c.CurveType)
	if c.CurveType != shared.CurveTypeConstantProduct {
		bin.LittleEndian.PutUint64(out[1:9], c.Parameter)
	}
	return out
}

func UnpackSwapCurve(input []byte) (SwapCurve, error) {
	if len(input) != shared.CurveLen {
		return SwapCurve{}, ErrInvalidCurveLen
	}
	c := SwapCurve{CurveType: shared.CurveType(input[0])}
	switch c.CurveType {
	case shared.CurveTypeConstantProduct:
	case shared.CurveTypeConstantPrice, shared.CurveTypeStable, shared.CurveTypeOffset:
		c.Parameter = bin.LittleEndian.Uint64(input[1:9])
	default:
		return SwapCurve{}, fmt.Errorf("%w: %d", ErrUnknownCurveType, input[0])
	}
	return c, nil
}

func (c SwapCurve) String() string {
	if c.CurveType == shared.CurveTypeConstantProduct {
		return c.CurveType.String()
	}
	return fmt.Sprintf("%s(%d)", c.CurveType, c.Parameter)
}

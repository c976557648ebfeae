package math

import (
	"github.com/krazyTry/atlas-go/atlas_swap/shared"
	"github.com/krazyTry/atlas-go/u128"
)

// offsetSwap is a constant product over a B reserve inflated by a virtual
// tokenBOffset, which lets a pool start single-sided with only token A.
func offsetSwap(
	tokenBOffset uint64,
	sourceAmount, swapSourceAmount, swapDestinationAmount u128.Uint128,
	direction shared.TradeDirection,
) (u128.Uint128, u128.Uint128, bool) {
	offset := u128.New(tokenBOffset)
	var ok bool
	if direction == shared.TradeDirectionAtoB {
		swapDestinationAmount, ok = swapDestinationAmount.Add(offset)
	} else {
		swapSourceAmount, ok = swapSourceAmount.Add(offset)
	}
	if !ok {
		return u128.Zero, u128.Zero, false
	}
	return constantProductSwap(sourceAmount, swapSourceAmount, swapDestinationAmount)
}

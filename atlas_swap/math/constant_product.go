package math

import "github.com/krazyTry/atlas-go/u128"

// constantProductSwap keeps swapSource*swapDestination constant. The new
// destination reserve is rounded up so the invariant never shrinks, and the
// source actually taken is trimmed to what that reserve requires.
func constantProductSwap(sourceAmount, swapSourceAmount, swapDestinationAmount u128.Uint128) (u128.Uint128, u128.Uint128, bool) {
	invariant, ok := swapSourceAmount.Mul(swapDestinationAmount)
	if !ok {
		return u128.Zero, u128.Zero, false
	}
	newSwapSourceAmount, ok := swapSourceAmount.Add(sourceAmount)
	if !ok {
		return u128.Zero, u128.Zero, false
	}
	newSwapDestinationAmount, newSwapSourceAmount, ok := invariant.CeilDiv(newSwapSourceAmount)
	if !ok {
		return u128.Zero, u128.Zero, false
	}
	sourceAmountSwapped, ok := newSwapSourceAmount.Sub(swapSourceAmount)
	if !ok {
		return u128.Zero, u128.Zero, false
	}
	destinationAmountSwapped, ok := swapDestinationAmount.Sub(newSwapDestinationAmount)
	if !ok {
		return u128.Zero, u128.Zero, false
	}
	return sourceAmountSwapped, destinationAmountSwapped, true
}

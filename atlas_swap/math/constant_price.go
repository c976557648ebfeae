package math

import (
	"github.com/krazyTry/atlas-go/atlas_swap/shared"
	"github.com/krazyTry/atlas-go/u128"
)

// constantPriceSwap trades at a fixed tokenBPrice. Buying B only consumes
// whole multiples of the price; the remainder stays with the trader.
func constantPriceSwap(tokenBPrice uint64, sourceAmount u128.Uint128, direction shared.TradeDirection) (u128.Uint128, u128.Uint128, bool) {
	price := u128.New(tokenBPrice)
	if direction == shared.TradeDirectionBtoA {
		out, ok := sourceAmount.Mul(price)
		return sourceAmount, out, ok
	}
	out, ok := sourceAmount.Div(price)
	if !ok {
		return u128.Zero, u128.Zero, false
	}
	remainder, _ := sourceAmount.Rem(price)
	taken, ok := sourceAmount.Sub(remainder)
	return taken, out, ok
}

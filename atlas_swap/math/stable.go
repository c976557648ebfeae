package math

import (
	"github.com/holiman/uint256"

	"github.com/krazyTry/atlas-go/u128"
)

const (
	nCoins        = 2
	nCoinsSquared = 4
	// Newton iterations for D and for the new destination reserve.
	stableIterations = 32
)

// stableSwap follows the StableSwap invariant for two coins. Intermediates
// run in 256 bits since D^3 outgrows 128 bits for realistic reserves.
func stableSwap(amp uint64, sourceAmount, swapSourceAmount, swapDestinationAmount u128.Uint128) (u128.Uint128, u128.Uint128, bool) {
	if amp == 0 {
		return u128.Zero, u128.Zero, false
	}
	leverage := uint256.NewInt(amp * nCoins)
	newSource, ok := swapSourceAmount.Add(sourceAmount)
	if !ok {
		return u128.Zero, u128.Zero, false
	}
	d, ok := computeD(leverage, swapSourceAmount.Word(), swapDestinationAmount.Word())
	if !ok {
		return u128.Zero, u128.Zero, false
	}
	y, ok := computeNewDestinationAmount(leverage, newSource.Word(), d)
	if !ok {
		return u128.Zero, u128.Zero, false
	}
	newDestination, ok := u128.FromWord(y)
	if !ok {
		return u128.Zero, u128.Zero, false
	}
	out, ok := swapDestinationAmount.Sub(newDestination)
	if !ok {
		return u128.Zero, u128.Zero, false
	}
	return sourceAmount, out, true
}

func mul(x, y *uint256.Int) (*uint256.Int, bool) {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	return z, !overflow
}

func add(x, y *uint256.Int) (*uint256.Int, bool) {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	return z, !overflow
}

func div(x, y *uint256.Int) (*uint256.Int, bool) {
	if y.IsZero() {
		return nil, false
	}
	return new(uint256.Int).Div(x, y), true
}

func calculateStep(d, leverage, sumX, dProduct *uint256.Int) (*uint256.Int, bool) {
	ncoins := uint256.NewInt(nCoins)
	lm, ok := mul(leverage, sumX)
	if !ok {
		return nil, false
	}
	dp, ok := mul(dProduct, ncoins)
	if !ok {
		return nil, false
	}
	l, ok := add(lm, dp)
	if !ok {
		return nil, false
	}
	if l, ok = mul(l, d); !ok {
		return nil, false
	}
	lev1 := new(uint256.Int).SubUint64(leverage, 1)
	r, ok := mul(d, lev1)
	if !ok {
		return nil, false
	}
	np, ok := mul(dProduct, uint256.NewInt(nCoins+1))
	if !ok {
		return nil, false
	}
	if r, ok = add(r, np); !ok {
		return nil, false
	}
	return div(l, r)
}

func computeD(leverage, amountA, amountB *uint256.Int) (*uint256.Int, bool) {
	sumX, ok := add(amountA, amountB)
	if !ok {
		return nil, false
	}
	if sumX.IsZero() {
		return sumX, true
	}
	ncoins := uint256.NewInt(nCoins)
	aTimesCoins, _ := mul(amountA, ncoins)
	aTimesCoins.AddUint64(aTimesCoins, 1)
	bTimesCoins, _ := mul(amountB, ncoins)
	bTimesCoins.AddUint64(bTimesCoins, 1)

	d := new(uint256.Int).Set(sumX)
	for i := 0; i < stableIterations; i++ {
		dProduct, ok := mul(d, d)
		if !ok {
			return nil, false
		}
		dProduct, _ = div(dProduct, aTimesCoins)
		if dProduct, ok = mul(dProduct, d); !ok {
			return nil, false
		}
		dProduct, _ = div(dProduct, bTimesCoins)

		prev := d
		if d, ok = calculateStep(d, leverage, sumX, dProduct); !ok {
			return nil, false
		}
		if d.Eq(prev) {
			break
		}
	}
	return d, true
}

func computeNewDestinationAmount(leverage, newSourceAmount, d *uint256.Int) (*uint256.Int, bool) {
	dCubed, ok := mul(d, d)
	if !ok {
		return nil, false
	}
	if dCubed, ok = mul(dCubed, d); !ok {
		return nil, false
	}
	cDen, ok := mul(newSourceAmount, uint256.NewInt(nCoinsSquared))
	if !ok {
		return nil, false
	}
	if cDen, ok = mul(cDen, leverage); !ok {
		return nil, false
	}
	c, ok := div(dCubed, cDen)
	if !ok {
		return nil, false
	}
	dOverLeverage, _ := div(d, leverage)
	b, ok := add(newSourceAmount, dOverLeverage)
	if !ok {
		return nil, false
	}

	y := new(uint256.Int).Set(d)
	for i := 0; i < stableIterations; i++ {
		num, ok := mul(y, y)
		if !ok {
			return nil, false
		}
		if num, ok = add(num, c); !ok {
			return nil, false
		}
		den, ok := mul(y, uint256.NewInt(2))
		if !ok {
			return nil, false
		}
		if den, ok = add(den, b); !ok {
			return nil, false
		}
		if den.Lt(d) {
			return nil, false
		}
		den.Sub(den, d)

		prev := y
		if y, ok = div(num, den); !ok {
			return nil, false
		}
		if y.Eq(prev) {
			break
		}
	}
	return y, true
}

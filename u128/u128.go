package u128

import (
	bin "encoding/binary"
	"errors"
	"fmt"
	"math/big"

	binary "github.com/gagliardetto/binary"
	"github.com/holiman/uint256"
)

const bits = 128

var (
	ErrOverflow = errors.New("value overflows Uint128")
	ErrNegative = errors.New("value cannot be negative")
)

// Uint128 is an unsigned 128-bit integer used for the wide intermediates of
// curve and fee arithmetic. Every operation is checked: a result that does
// not fit in 128 bits, a subtraction that would go negative, or a division
// by zero reports ok == false instead of wrapping.
type Uint128 struct {
	n uint256.Int
}

var (
	Zero = Uint128{}
	One  = New(1)
	Max  = func() Uint128 {
		var u Uint128
		u.n.Lsh(uint256.NewInt(1), bits)
		u.n.SubUint64(&u.n, 1)
		return u
	}()
)

func New(v uint64) Uint128 {
	var u Uint128
	u.n.SetUint64(v)
	return u
}

func fit(z *uint256.Int) (Uint128, bool) {
	if z.BitLen() > bits {
		return Zero, false
	}
	return Uint128{n: *z}, true
}

func (u Uint128) Add(v Uint128) (Uint128, bool) {
	z, overflow := new(uint256.Int).AddOverflow(&u.n, &v.n)
	if overflow {
		return Zero, false
	}
	return fit(z)
}

func (u Uint128) Sub(v Uint128) (Uint128, bool) {
	z, underflow := new(uint256.Int).SubOverflow(&u.n, &v.n)
	if underflow {
		return Zero, false
	}
	return Uint128{n: *z}, true
}

func (u Uint128) Mul(v Uint128) (Uint128, bool) {
	z, overflow := new(uint256.Int).MulOverflow(&u.n, &v.n)
	if overflow {
		return Zero, false
	}
	return fit(z)
}

func (u Uint128) Div(v Uint128) (Uint128, bool) {
	if v.IsZero() {
		return Zero, false
	}
	return Uint128{n: *new(uint256.Int).Div(&u.n, &v.n)}, true
}

func (u Uint128) Rem(v Uint128) (Uint128, bool) {
	if v.IsZero() {
		return Zero, false
	}
	return Uint128{n: *new(uint256.Int).Mod(&u.n, &v.n)}, true
}

// CeilDiv divides u by v rounding the quotient up, and returns the smallest
// divisor that still yields that quotient. A zero quotient is refused so a
// small numerator over a large denominator never rounds up to one.
func (u Uint128) CeilDiv(v Uint128) (quotient Uint128, divisor Uint128, ok bool) {
	quotient, ok = u.Div(v)
	if !ok || quotient.IsZero() {
		return Zero, Zero, false
	}
	divisor = v
	rem, _ := u.Rem(v)
	if rem.IsZero() {
		return quotient, divisor, true
	}
	if quotient, ok = quotient.Add(One); !ok {
		return Zero, Zero, false
	}
	divisor, _ = u.Div(quotient)
	if rem, _ = u.Rem(quotient); !rem.IsZero() {
		if divisor, ok = divisor.Add(One); !ok {
			return Zero, Zero, false
		}
	}
	return quotient, divisor, true
}

// MulDiv computes x*y/den, rounding the quotient up when roundUp is set.
func MulDiv(x, y, den Uint128, roundUp bool) (Uint128, bool) {
	prod, ok := x.Mul(y)
	if !ok {
		return Zero, false
	}
	q, ok := prod.Div(den)
	if !ok {
		return Zero, false
	}
	if roundUp {
		if r, _ := prod.Rem(den); !r.IsZero() {
			return q.Add(One)
		}
	}
	return q, true
}

func (u Uint128) Cmp(v Uint128) int { return u.n.Cmp(&v.n) }

func (u Uint128) IsZero() bool { return u.n.IsZero() }

func (u Uint128) Lt(v Uint128) bool { return u.n.Lt(&v.n) }

func (u Uint128) Gt(v Uint128) bool { return u.n.Gt(&v.n) }

func Min(a, b Uint128) Uint128 {
	if a.Lt(b) {
		return a
	}
	return b
}

// Uint64 narrows u, reporting false when it does not fit.
func (u Uint128) Uint64() (uint64, bool) {
	if !u.n.IsUint64() {
		return 0, false
	}
	return u.n.Uint64(), true
}

func (u Uint128) Big() *big.Int { return u.n.ToBig() }

// Word exposes the 256-bit representation for intermediates that are
// allowed to grow past 128 bits before being narrowed again.
func (u Uint128) Word() *uint256.Int { return new(uint256.Int).Set(&u.n) }

// FromWord narrows a 256-bit intermediate back to 128 bits.
func FromWord(z *uint256.Int) (Uint128, bool) { return fit(z) }

func (u Uint128) String() string { return u.n.ToBig().String() }

func FromBig(i *big.Int) (Uint128, error) {
	if i.Sign() < 0 {
		return Zero, ErrNegative
	}
	if i.BitLen() > bits {
		return Zero, ErrOverflow
	}
	z, _ := uint256.FromBig(i)
	return Uint128{n: *z}, nil
}

// Binary converts u into the little-endian on-chain representation.
func (u Uint128) Binary() binary.Uint128 {
	b := u.Big()
	lo := new(big.Int).And(b, new(big.Int).SetUint64(^uint64(0))).Uint64()
	hi := new(big.Int).Rsh(b, 64).Uint64()
	return binary.Uint128{Lo: lo, Hi: hi, Endianness: bin.LittleEndian}
}

func (u *Uint128) Scan(s fmt.ScanState, ch rune) error {
	i := new(big.Int)
	if err := i.Scan(s, ch); err != nil {
		return err
	}
	v, err := FromBig(i)
	if err != nil {
		return err
	}
	*u = v
	return nil
}

func FromString(num string) (Uint128, error) {
	var u Uint128
	if _, err := fmt.Sscan(num, &u); err != nil {
		return Zero, err
	}
	return u, nil
}

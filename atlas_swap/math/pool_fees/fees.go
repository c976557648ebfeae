package pool_fees

import (
	"bytes"
	bin "encoding/binary"
	"errors"
	"fmt"

	binary "github.com/gagliardetto/binary"

	"github.com/krazyTry/atlas-go/atlas_swap/shared"
	"github.com/krazyTry/atlas-go/u128"
)

var (
	ErrInvalidFee     = errors.New("invalid fee")
	ErrInvalidFeesLen = errors.New("fees: invalid length")
)

// Fees is the fee schedule of the program. Trade and owner fees are charged
// on the gross output of a swap; the host share is a percentage of the
// owner fee.
type Fees struct {
	TradeFeeNumerator        uint64
	TradeFeeDenominator      uint64
	OwnerTradeFeeNumerator   uint64
	OwnerTradeFeeDenominator uint64
	HostFeePercent           uint64
}

func validateFraction(numerator, denominator uint64) error {
	if denominator == 0 && numerator == 0 {
		return nil
	}
	if denominator == 0 || numerator > denominator {
		return fmt.Errorf("%w: %d/%d", ErrInvalidFee, numerator, denominator)
	}
	return nil
}

// Validate checks that every fraction is well formed. The trade fee
// denominator must always be non-zero.
func (f Fees) Validate() error {
	if f.TradeFeeDenominator == 0 {
		return fmt.Errorf("%w: zero trade fee denominator", ErrInvalidFee)
	}
	if err := validateFraction(f.TradeFeeNumerator, f.TradeFeeDenominator); err != nil {
		return err
	}
	if err := validateFraction(f.OwnerTradeFeeNumerator, f.OwnerTradeFeeDenominator); err != nil {
		return err
	}
	if f.HostFeePercent > 100 {
		return fmt.Errorf("%w: host fee %d%%", ErrInvalidFee, f.HostFeePercent)
	}
	return nil
}

// AtLeast reports whether f is acceptable under the policy floor: the trade
// numerator is not below the floor and the denominators agree.
func (f Fees) AtLeast(floor Fees) bool {
	return f.TradeFeeNumerator >= floor.TradeFeeNumerator &&
		f.TradeFeeDenominator == floor.TradeFeeDenominator
}

func calculateFee(amount u128.Uint128, numerator, denominator uint64) (u128.Uint128, bool) {
	if numerator == 0 || amount.IsZero() {
		return u128.Zero, true
	}
	fee, ok := u128.MulDiv(amount, u128.New(numerator), u128.New(denominator), false)
	if !ok {
		return u128.Zero, false
	}
	if fee.IsZero() {
		return u128.One, true
	}
	return fee, true
}

// TradingFee is the share of amount kept by the pool.
func (f Fees) TradingFee(amount u128.Uint128) (u128.Uint128, bool) {
	return calculateFee(amount, f.TradeFeeNumerator, f.TradeFeeDenominator)
}

// OwnerTradingFee is the share of amount routed to the fee collector.
func (f Fees) OwnerTradingFee(amount u128.Uint128) (u128.Uint128, bool) {
	return calculateFee(amount, f.OwnerTradeFeeNumerator, f.OwnerTradeFeeDenominator)
}

// HostFee is the part of ownerFee paid to a host fee account when present.
func (f Fees) HostFee(ownerFee u128.Uint128) (u128.Uint128, bool) {
	if f.HostFeePercent == 0 || ownerFee.IsZero() {
		return u128.Zero, true
	}
	return u128.MulDiv(ownerFee, u128.New(f.HostFeePercent), u128.New(100), false)
}

// Pack writes the 40-byte little-endian fee blob.
func (f Fees) Pack() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, shared.FeesLen))
	enc := binary.NewBinEncoder(buf)
	for _, v := range []uint64{
		f.TradeFeeNumerator,
		f.TradeFeeDenominator,
		f.OwnerTradeFeeNumerator,
		f.OwnerTradeFeeDenominator,
		f.HostFeePercent,
	} {
		_ = enc.WriteUint64(v, bin.LittleEndian)
	}
	return buf.Bytes()
}

// UnpackFees reads a fee blob; input must be exactly 40 bytes.
func UnpackFees(input []byte) (Fees, error) {
	if len(input) != shared.FeesLen {
		return Fees{}, ErrInvalidFeesLen
	}
	dec := binary.NewBinDecoder(input)
	var vals [5]uint64
	for i := range vals {
		v, err := dec.ReadUint64(bin.LittleEndian)
		if err != nil {
			return Fees{}, err
		}
		vals[i] = v
	}
	return Fees{
		TradeFeeNumerator:        vals[0],
		TradeFeeDenominator:      vals[1],
		OwnerTradeFeeNumerator:   vals[2],
		OwnerTradeFeeDenominator: vals[3],
		HostFeePercent:           vals[4],
	}, nil
}

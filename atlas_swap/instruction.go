package atlasswap

import (
	"bytes"
	bin "encoding/binary"
	"fmt"

	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/atlas-go/atlas_swap/math"
	"github.com/krazyTry/atlas-go/atlas_swap/math/pool_fees"
	"github.com/krazyTry/atlas-go/atlas_swap/shared"
)

type InstructionTag uint8

const (
	InstructionInitialize            InstructionTag = 0
	InstructionSwap                  InstructionTag = 1
	InstructionDepositAllTokenTypes  InstructionTag = 2
	InstructionWithdrawAllTokenTypes InstructionTag = 3
	InstructionConfigure             InstructionTag = 4
)

func (t InstructionTag) String() string {
	switch t {
	case InstructionInitialize:
		return "Initialize"
	case InstructionSwap:
		return "Swap"
	case InstructionDepositAllTokenTypes:
		return "DepositAllTokenTypes"
	case InstructionWithdrawAllTokenTypes:
		return "WithdrawAllTokenTypes"
	case InstructionConfigure:
		return "Configure"
	}
	return fmt.Sprintf("Unknown(%d)", uint8(t))
}

const (
	swapDataLen        = 16
	liquidityDataLen   = 24
	configureLegacyLen = 2*shared.PublicKeyLen + 8 + 1 + shared.FeesLen
	configureLen       = configureLegacyLen + shared.CurveLen
)

// Instruction is one decoded request. Addresses are not part of the
// payload; they arrive positionally in the account list.
type Instruction interface {
	Tag() InstructionTag
	Encode() []byte
}

// Initialize creates a pool. A nil SwapCurve selects the default curve of
// the global state.
type Initialize struct {
	SwapCurve *math.SwapCurve
}

type Swap struct {
	AmountIn         uint64
	MinimumAmountOut uint64
}

// DepositAllTokenTypes deposits both tokens. A non-zero PoolTokenAmount is
// the minimum number of pool tokens the depositor accepts.
type DepositAllTokenTypes struct {
	PoolTokenAmount     uint64
	MaximumTokenAAmount uint64
	MaximumTokenBAmount uint64
}

type WithdrawAllTokenTypes struct {
	PoolTokenAmount     uint64
	MinimumTokenAAmount uint64
	MinimumTokenBAmount uint64
}

// Configure writes the global state. A nil SwapCurve keeps the curve that
// is already stored.
type Configure struct {
	Owner         solanago.PublicKey
	FeeOwner      solanago.PublicKey
	InitialSupply uint64
	LpDecimals    uint8
	Fees          pool_fees.Fees
	SwapCurve     *math.SwapCurve
}

func (Initialize) Tag() InstructionTag            { return InstructionInitialize }
func (Swap) Tag() InstructionTag                  { return InstructionSwap }
func (DepositAllTokenTypes) Tag() InstructionTag  { return InstructionDepositAllTokenTypes }
func (WithdrawAllTokenTypes) Tag() InstructionTag { return InstructionWithdrawAllTokenTypes }
func (Configure) Tag() InstructionTag             { return InstructionConfigure }

func encodeWith(tag InstructionTag, fn func(enc *binary.Encoder)) []byte {
	buf := new(bytes.Buffer)
	enc := binary.NewBinEncoder(buf)
	_ = enc.WriteUint8(uint8(tag))
	fn(enc)
	return buf.Bytes()
}

func (i Initialize) Encode() []byte {
	return encodeWith(i.Tag(), func(enc *binary.Encoder) {
		if i.SwapCurve != nil {
			_ = enc.WriteBytes(i.SwapCurve.Pack(), false)
		}
	})
}

func (i Swap) Encode() []byte {
	return encodeWith(i.Tag(), func(enc *binary.Encoder) {
		_ = enc.WriteUint64(i.AmountIn, bin.LittleEndian)
		_ = enc.WriteUint64(i.MinimumAmountOut, bin.LittleEndian)
	})
}

func (i DepositAllTokenTypes) Encode() []byte {
	return encodeWith(i.Tag(), func(enc *binary.Encoder) {
		_ = enc.WriteUint64(i.PoolTokenAmount, bin.LittleEndian)
		_ = enc.WriteUint64(i.MaximumTokenAAmount, bin.LittleEndian)
		_ = enc.WriteUint64(i.MaximumTokenBAmount, bin.LittleEndian)
	})
}

func (i WithdrawAllTokenTypes) Encode() []byte {
	return encodeWith(i.Tag(), func(enc *binary.Encoder) {
		_ = enc.WriteUint64(i.PoolTokenAmount, bin.LittleEndian)
		_ = enc.WriteUint64(i.MinimumTokenAAmount, bin.LittleEndian)
		_ = enc.WriteUint64(i.MinimumTokenBAmount, bin.LittleEndian)
	})
}

func (i Configure) Encode() []byte {
	return encodeWith(i.Tag(), func(enc *binary.Encoder) {
		_ = enc.WriteBytes(i.Owner.Bytes(), false)
		_ = enc.WriteBytes(i.FeeOwner.Bytes(), false)
		_ = enc.WriteUint64(i.InitialSupply, bin.LittleEndian)
		_ = enc.WriteUint8(i.LpDecimals)
		_ = enc.WriteBytes(i.Fees.Pack(), false)
		if i.SwapCurve != nil {
			_ = enc.WriteBytes(i.SwapCurve.Pack(), false)
		}
	})
}

// DecodeInstruction parses a request. The payload after the tag must have
// exactly the length its kind defines.
func DecodeInstruction(input []byte) (Instruction, error) {
	if len(input) == 0 {
		return nil, ErrInvalidInstruction
	}
	tag, rest := InstructionTag(input[0]), input[1:]
	dec := binary.NewBinDecoder(rest)

	switch tag {
	case InstructionInitialize:
		switch len(rest) {
		case 0:
			return Initialize{}, nil
		case shared.CurveLen:
			curve, err := math.UnpackSwapCurve(rest)
			if err != nil {
				return nil, ErrInvalidInstruction
			}
			return Initialize{SwapCurve: &curve}, nil
		}
	case InstructionSwap:
		if len(rest) != swapDataLen {
			return nil, ErrInvalidInstruction
		}
		vals, err := readUint64s(dec, 2)
		if err != nil {
			return nil, err
		}
		return Swap{AmountIn: vals[0], MinimumAmountOut: vals[1]}, nil
	case InstructionDepositAllTokenTypes:
		if len(rest) != liquidityDataLen {
			return nil, ErrInvalidInstruction
		}
		vals, err := readUint64s(dec, 3)
		if err != nil {
			return nil, err
		}
		return DepositAllTokenTypes{PoolTokenAmount: vals[0], MaximumTokenAAmount: vals[1], MaximumTokenBAmount: vals[2]}, nil
	case InstructionWithdrawAllTokenTypes:
		if len(rest) != liquidityDataLen {
			return nil, ErrInvalidInstruction
		}
		vals, err := readUint64s(dec, 3)
		if err != nil {
			return nil, err
		}
		return WithdrawAllTokenTypes{PoolTokenAmount: vals[0], MinimumTokenAAmount: vals[1], MinimumTokenBAmount: vals[2]}, nil
	case InstructionConfigure:
		if len(rest) != configureLegacyLen && len(rest) != configureLen {
			return nil, ErrInvalidInstruction
		}
		return decodeConfigure(rest)
	}
	return nil, ErrInvalidInstruction
}

func readUint64s(dec *binary.Decoder, n int) ([]uint64, error) {
	out := make([]uint64, n)
	for i := range out {
		v, err := dec.ReadUint64(bin.LittleEndian)
		if err != nil {
			return nil, ErrInvalidInstruction
		}
		out[i] = v
	}
	return out, nil
}

func decodeConfigure(rest []byte) (Instruction, error) {
	var (
		cfg Configure
		off int
	)
	cfg.Owner = solanago.PublicKeyFromBytes(rest[off : off+shared.PublicKeyLen])
	off += shared.PublicKeyLen
	cfg.FeeOwner = solanago.PublicKeyFromBytes(rest[off : off+shared.PublicKeyLen])
	off += shared.PublicKeyLen
	cfg.InitialSupply = bin.LittleEndian.Uint64(rest[off : off+8])
	off += 8
	cfg.LpDecimals = rest[off]
	off++
	fees, err := pool_fees.UnpackFees(rest[off : off+shared.FeesLen])
	if err != nil {
		return nil, ErrInvalidInstruction
	}
	cfg.Fees = fees
	off += shared.FeesLen
	if len(rest) == configureLen {
		curve, err := math.UnpackSwapCurve(rest[off:])
		if err != nil {
			return nil, ErrInvalidInstruction
		}
		cfg.SwapCurve = &curve
	}
	return cfg, nil
}

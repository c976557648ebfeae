package atlasswap

import (
	"bytes"
	bin "encoding/binary"

	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/atlas-go/atlas_swap/math"
	"github.com/krazyTry/atlas-go/atlas_swap/math/pool_fees"
	"github.com/krazyTry/atlas-go/atlas_swap/shared"
)

const (
	// GlobalStateBaseLen is the legacy global state layout without a curve.
	GlobalStateBaseLen = 114
	// GlobalStateLen is the current layout: the base followed by the
	// default curve blob. Configure on a legacy 114-byte account writes the
	// base only, so the curve tail is dropped and it keeps decoding as
	// ConstantProduct.
	GlobalStateLen = GlobalStateBaseLen + shared.CurveLen

	SwapV1Len = 227
	// SwapStateLen is the stored pool record: version byte then SwapV1.
	SwapStateLen = 1 + SwapV1Len

	swapVersionV1 byte = 1
)

// GlobalState is the program-wide configuration singleton.
type GlobalState struct {
	IsInitialized bool
	Owner         solanago.PublicKey
	FeeOwner      solanago.PublicKey
	InitialSupply uint64
	LpDecimals    uint8
	Fees          pool_fees.Fees
	// Curve used by pools initialized without an explicit one.
	SwapCurve math.SwapCurve
}

// SwapV1 is the per-pool record.
type SwapV1 struct {
	IsInitialized  bool
	Nonce          uint8
	TokenProgramID solanago.PublicKey
	TokenA         solanago.PublicKey
	TokenB         solanago.PublicKey
	PoolMint       solanago.PublicKey
	TokenAMint     solanago.PublicKey
	TokenBMint     solanago.PublicKey
	SwapCurve      math.SwapCurve
}

func writeBool(enc *binary.Encoder, v bool) {
	if v {
		_ = enc.WriteUint8(1)
		return
	}
	_ = enc.WriteUint8(0)
}

func readBool(b byte) (bool, error) {
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, ErrInvalidAccountData
}

// Pack serializes the global state into its GlobalStateLen record.
func (s GlobalState) Pack() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, GlobalStateLen))
	enc := binary.NewBinEncoder(buf)
	writeBool(enc, s.IsInitialized)
	_ = enc.WriteBytes(s.Owner.Bytes(), false)
	_ = enc.WriteBytes(s.FeeOwner.Bytes(), false)
	_ = enc.WriteUint64(s.InitialSupply, bin.LittleEndian)
	_ = enc.WriteUint8(s.LpDecimals)
	_ = enc.WriteBytes(s.Fees.Pack(), false)
	_ = enc.WriteBytes(s.SwapCurve.Pack(), false)
	return buf.Bytes()
}

// UnpackGlobalState reads a global state record. A record of at least the
// base length but without the curve tail decodes with the constant product
// curve.
func UnpackGlobalState(input []byte) (GlobalState, error) {
	if len(input) < GlobalStateBaseLen {
		return GlobalState{}, ErrInvalidAccountData
	}
	var (
		s   GlobalState
		err error
	)
	if s.IsInitialized, err = readBool(input[0]); err != nil {
		return GlobalState{}, err
	}
	s.Owner = solanago.PublicKeyFromBytes(input[1:33])
	s.FeeOwner = solanago.PublicKeyFromBytes(input[33:65])
	s.InitialSupply = bin.LittleEndian.Uint64(input[65:73])
	s.LpDecimals = input[73]
	if s.Fees, err = pool_fees.UnpackFees(input[74:GlobalStateBaseLen]); err != nil {
		return GlobalState{}, ErrInvalidAccountData
	}
	s.SwapCurve = math.ConstantProduct()
	if len(input) >= GlobalStateLen {
		if s.SwapCurve, err = math.UnpackSwapCurve(input[GlobalStateBaseLen:GlobalStateLen]); err != nil {
			return GlobalState{}, ErrInvalidAccountData
		}
	}
	return s, nil
}

// Pack serializes the pool record body, without the version byte.
func (s SwapV1) Pack() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, SwapV1Len))
	enc := binary.NewBinEncoder(buf)
	writeBool(enc, s.IsInitialized)
	_ = enc.WriteUint8(s.Nonce)
	for _, key := range []solanago.PublicKey{
		s.TokenProgramID,
		s.TokenA,
		s.TokenB,
		s.PoolMint,
		s.TokenAMint,
		s.TokenBMint,
	} {
		_ = enc.WriteBytes(key.Bytes(), false)
	}
	_ = enc.WriteBytes(s.SwapCurve.Pack(), false)
	return buf.Bytes()
}

func UnpackSwapV1(input []byte) (SwapV1, error) {
	if len(input) < SwapV1Len {
		return SwapV1{}, ErrInvalidAccountData
	}
	var (
		s   SwapV1
		err error
	)
	if s.IsInitialized, err = readBool(input[0]); err != nil {
		return SwapV1{}, err
	}
	s.Nonce = input[1]
	keys := []*solanago.PublicKey{&s.TokenProgramID, &s.TokenA, &s.TokenB, &s.PoolMint, &s.TokenAMint, &s.TokenBMint}
	off := 2
	for _, key := range keys {
		*key = solanago.PublicKeyFromBytes(input[off : off+shared.PublicKeyLen])
		off += shared.PublicKeyLen
	}
	if s.SwapCurve, err = math.UnpackSwapCurve(input[off : off+shared.CurveLen]); err != nil {
		return SwapV1{}, ErrInvalidAccountData
	}
	return s, nil
}

// PackSwapState writes the versioned pool record into dst, which must hold
// at least SwapStateLen bytes.
func PackSwapState(s SwapV1, dst []byte) error {
	if len(dst) < SwapStateLen {
		return ErrInvalidAccountData
	}
	dst[0] = swapVersionV1
	copy(dst[1:], s.Pack())
	return nil
}

// UnpackSwapState reads a versioned pool record. Unknown versions are
// rejected.
func UnpackSwapState(input []byte) (SwapV1, error) {
	if len(input) == 0 {
		return SwapV1{}, ErrInvalidAccountData
	}
	if input[0] != swapVersionV1 {
		return SwapV1{}, ErrUninitializedAccount
	}
	return UnpackSwapV1(input[1:])
}

// IsSwapInitialized reports whether data holds an initialized pool of a
// known version.
func IsSwapInitialized(data []byte) bool {
	s, err := UnpackSwapState(data)
	return err == nil && s.IsInitialized
}

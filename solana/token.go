package solana

import (
	"bytes"
	bin "encoding/binary"
	"errors"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// MintLen is the size of an SPL token mint.
const MintLen = 82

var ErrInvalidMint = errors.New("invalid mint data")

// Mint is the SPL token mint state.
type Mint struct {
	MintAuthority   *solana.PublicKey
	Supply          uint64
	Decimals        uint8
	IsInitialized   bool
	FreezeAuthority *solana.PublicKey
}

// MintLayout provides methods for decoding and encoding mint data
type MintLayout struct{}

func (l *MintLayout) Decode(data []byte) (*Mint, error) {
	if len(data) < MintLen {
		return nil, ErrInvalidMint
	}
	dec := binary.NewBinDecoder(data[:MintLen])
	mint := &Mint{}
	var err error
	if mint.MintAuthority, err = readOptionalKey(dec); err != nil {
		return nil, ErrInvalidMint
	}
	if mint.Supply, err = dec.ReadUint64(bin.LittleEndian); err != nil {
		return nil, err
	}
	if mint.Decimals, err = dec.ReadUint8(); err != nil {
		return nil, err
	}
	initialized, err := dec.ReadUint8()
	if err != nil {
		return nil, err
	}
	switch initialized {
	case 0:
	case 1:
		mint.IsInitialized = true
	default:
		return nil, ErrInvalidMint
	}
	if mint.FreezeAuthority, err = readOptionalKey(dec); err != nil {
		return nil, ErrInvalidMint
	}
	return mint, nil
}

func (l *MintLayout) Encode(mint *Mint) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, MintLen))
	enc := binary.NewBinEncoder(buf)
	writeOptionalKey(enc, mint.MintAuthority)
	_ = enc.WriteUint64(mint.Supply, bin.LittleEndian)
	_ = enc.WriteUint8(mint.Decimals)
	if mint.IsInitialized {
		_ = enc.WriteUint8(1)
	} else {
		_ = enc.WriteUint8(0)
	}
	writeOptionalKey(enc, mint.FreezeAuthority)
	return buf.Bytes()
}

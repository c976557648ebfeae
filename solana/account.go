package solana

import (
	"bytes"
	bin "encoding/binary"
	"errors"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

type AccountState uint8

const (
	AccountStateUninitialized AccountState = 0
	AccountStateInitialized   AccountState = 1
	AccountStateFrozen        AccountState = 2
)

// TokenAccountLen is the size of an SPL token account.
const TokenAccountLen = 165

var ErrInvalidTokenAccount = errors.New("invalid token account data")

type Account struct {
	// Mint associated with the account
	Mint solana.PublicKey

	// Owner of the account
	Owner solana.PublicKey

	// Number of tokens the account holds
	Amount uint64

	// Authority that can transfer tokens from the account
	Delegate *solana.PublicKey

	State AccountState

	// Rent-exempt reserve of a native account, nil otherwise
	IsNative *uint64

	// Number of tokens the delegate is authorized to transfer
	DelegatedAmount uint64

	// Optional authority to close the account
	CloseAuthority *solana.PublicKey
}

func (a *Account) IsInitialized() bool { return a.State != AccountStateUninitialized }

func (a *Account) IsFrozen() bool { return a.State == AccountStateFrozen }

// AccountLayout encodes the SPL token account layout
// https://github.com/solana-labs/solana-program-library/blob/d72289c79a04411c69a8bf1054f7156b6196f9b3/token/js/src/state/account.ts#L69
type AccountLayout struct{}

func (l *AccountLayout) Decode(data []byte) (*Account, error) {
	if len(data) < TokenAccountLen {
		return nil, ErrInvalidTokenAccount
	}
	dec := binary.NewBinDecoder(data[:TokenAccountLen])
	acct := &Account{}
	var err error
	if acct.Mint, err = readKey(dec); err != nil {
		return nil, err
	}
	if acct.Owner, err = readKey(dec); err != nil {
		return nil, err
	}
	if acct.Amount, err = dec.ReadUint64(bin.LittleEndian); err != nil {
		return nil, err
	}
	if acct.Delegate, err = readOptionalKey(dec); err != nil {
		return nil, err
	}
	state, err := dec.ReadUint8()
	if err != nil {
		return nil, err
	}
	if state > uint8(AccountStateFrozen) {
		return nil, ErrInvalidTokenAccount
	}
	acct.State = AccountState(state)
	if acct.IsNative, err = readOptionalUint64(dec); err != nil {
		return nil, err
	}
	if acct.DelegatedAmount, err = dec.ReadUint64(bin.LittleEndian); err != nil {
		return nil, err
	}
	if acct.CloseAuthority, err = readOptionalKey(dec); err != nil {
		return nil, err
	}
	return acct, nil
}

func (l *AccountLayout) Encode(acct *Account) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, TokenAccountLen))
	enc := binary.NewBinEncoder(buf)
	_ = enc.WriteBytes(acct.Mint.Bytes(), false)
	_ = enc.WriteBytes(acct.Owner.Bytes(), false)
	_ = enc.WriteUint64(acct.Amount, bin.LittleEndian)
	writeOptionalKey(enc, acct.Delegate)
	_ = enc.WriteUint8(uint8(acct.State))
	writeOptionalUint64(enc, acct.IsNative)
	_ = enc.WriteUint64(acct.DelegatedAmount, bin.LittleEndian)
	writeOptionalKey(enc, acct.CloseAuthority)
	return buf.Bytes()
}

func readKey(dec *binary.Decoder) (solana.PublicKey, error) {
	b, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return solana.PublicKeyFromBytes(b), nil
}

// COption fields are a 4-byte tag followed by the full-width value, present
// or not.
func readOptionalKey(dec *binary.Decoder) (*solana.PublicKey, error) {
	tag, err := dec.ReadUint32(bin.LittleEndian)
	if err != nil {
		return nil, err
	}
	key, err := readKey(dec)
	if err != nil {
		return nil, err
	}
	switch tag {
	case 0:
		return nil, nil
	case 1:
		return &key, nil
	}
	return nil, ErrInvalidTokenAccount
}

func readOptionalUint64(dec *binary.Decoder) (*uint64, error) {
	tag, err := dec.ReadUint32(bin.LittleEndian)
	if err != nil {
		return nil, err
	}
	v, err := dec.ReadUint64(bin.LittleEndian)
	if err != nil {
		return nil, err
	}
	switch tag {
	case 0:
		return nil, nil
	case 1:
		return &v, nil
	}
	return nil, ErrInvalidTokenAccount
}

func writeOptionalKey(enc *binary.Encoder, key *solana.PublicKey) {
	if key == nil {
		_ = enc.WriteUint32(0, bin.LittleEndian)
		_ = enc.WriteBytes(make([]byte, solana.PublicKeyLength), false)
		return
	}
	_ = enc.WriteUint32(1, bin.LittleEndian)
	_ = enc.WriteBytes(key.Bytes(), false)
}

func writeOptionalUint64(enc *binary.Encoder, v *uint64) {
	if v == nil {
		_ = enc.WriteUint32(0, bin.LittleEndian)
		_ = enc.WriteUint64(0, bin.LittleEndian)
		return
	}
	_ = enc.WriteUint32(1, bin.LittleEndian)
	_ = enc.WriteUint64(*v, bin.LittleEndian)
}

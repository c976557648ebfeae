package runtime

import (
	bin "encoding/binary"
	"errors"
	"fmt"

	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"

	atlasswap "github.com/krazyTry/atlas-go/atlas_swap"
	spl "github.com/krazyTry/atlas-go/solana"
)

var (
	ErrUnsupportedTokenInstruction = errors.New("token: unsupported instruction")
	ErrInsufficientFunds           = errors.New("token: insufficient funds")
	ErrMintMismatch                = errors.New("token: account not associated with this mint")
	ErrOwnerMismatch               = errors.New("token: owner does not match")
	ErrAccountFrozen               = errors.New("token: account is frozen")
	ErrOverflow                    = errors.New("token: operation overflowed")
	ErrNotTokenAccount             = errors.New("token: account not owned by the token program")
)

var (
	accountLayout = &spl.AccountLayout{}
	mintLayout    = &spl.MintLayout{}
)

// processToken executes the subset of the SPL token program the swap
// program issues: Transfer, MintTo and Burn, each signed by a single
// authority. pdas holds the program addresses signed for by the caller.
func (tx *txContext) processToken(programID solanago.PublicKey, metas []*solanago.AccountMeta, data []byte, pdas map[solanago.PublicKey]bool) error {
	dec := binary.NewBinDecoder(data)
	kind, err := dec.ReadUint8()
	if err != nil {
		return fmt.Errorf("%w: empty data", ErrUnsupportedTokenInstruction)
	}
	amount, err := dec.ReadUint64(bin.LittleEndian)
	if err != nil {
		return fmt.Errorf("%w: missing amount", ErrUnsupportedTokenInstruction)
	}
	if len(metas) < 3 {
		return fmt.Errorf("%w: need 3 accounts, got %d", ErrUnsupportedTokenInstruction, len(metas))
	}

	infos := make([]*atlasswap.AccountInfo, 3)
	for i := range infos {
		if infos[i], err = tx.lookup(metas[i].PublicKey); err != nil {
			return err
		}
	}
	authority := infos[2]
	if !authority.IsSigner && !pdas[authority.Key] {
		return fmt.Errorf("%w: %s", ErrMissingSignature, authority.Key)
	}

	switch kind {
	case token.Instruction_Transfer:
		return transfer(programID, infos[0], infos[1], authority.Key, amount)
	case token.Instruction_MintTo:
		return mintTo(programID, infos[0], infos[1], authority.Key, amount)
	case token.Instruction_Burn:
		return burn(programID, infos[0], infos[1], authority.Key, amount)
	}
	return fmt.Errorf("%w: %d", ErrUnsupportedTokenInstruction, kind)
}

func loadTokenAccount(programID solanago.PublicKey, info *atlasswap.AccountInfo) (*spl.Account, error) {
	if info.Owner != programID {
		return nil, fmt.Errorf("%w: %s", ErrNotTokenAccount, info.Key)
	}
	acct, err := accountLayout.Decode(info.Data)
	if err != nil {
		return nil, err
	}
	if !acct.IsInitialized() {
		return nil, fmt.Errorf("%w: %s", spl.ErrInvalidTokenAccount, info.Key)
	}
	if acct.IsFrozen() {
		return nil, ErrAccountFrozen
	}
	return acct, nil
}

func loadMint(programID solanago.PublicKey, info *atlasswap.AccountInfo) (*spl.Mint, error) {
	if info.Owner != programID {
		return nil, fmt.Errorf("%w: %s", ErrNotTokenAccount, info.Key)
	}
	mint, err := mintLayout.Decode(info.Data)
	if err != nil {
		return nil, err
	}
	if !mint.IsInitialized {
		return nil, fmt.Errorf("%w: %s", spl.ErrInvalidMint, info.Key)
	}
	return mint, nil
}

func store(info *atlasswap.AccountInfo, raw []byte) error {
	if !info.IsWritable {
		return fmt.Errorf("%w: %s", ErrReadonlyModified, info.Key)
	}
	copy(info.Data, raw)
	return nil
}

func transfer(programID solanago.PublicKey, srcInfo, dstInfo *atlasswap.AccountInfo, authority solanago.PublicKey, amount uint64) error {
	src, err := loadTokenAccount(programID, srcInfo)
	if err != nil {
		return err
	}
	dst, err := loadTokenAccount(programID, dstInfo)
	if err != nil {
		return err
	}
	if src.Mint != dst.Mint {
		return ErrMintMismatch
	}
	if src.Owner != authority {
		return ErrOwnerMismatch
	}
	if src.Amount < amount {
		return ErrInsufficientFunds
	}
	if srcInfo.Key == dstInfo.Key {
		return nil
	}
	if dst.Amount+amount < dst.Amount {
		return ErrOverflow
	}
	src.Amount -= amount
	dst.Amount += amount
	if err := store(srcInfo, accountLayout.Encode(src)); err != nil {
		return err
	}
	return store(dstInfo, accountLayout.Encode(dst))
}

func mintTo(programID solanago.PublicKey, mintInfo, dstInfo *atlasswap.AccountInfo, authority solanago.PublicKey, amount uint64) error {
	mint, err := loadMint(programID, mintInfo)
	if err != nil {
		return err
	}
	dst, err := loadTokenAccount(programID, dstInfo)
	if err != nil {
		return err
	}
	if dst.Mint != mintInfo.Key {
		return ErrMintMismatch
	}
	if mint.MintAuthority == nil || *mint.MintAuthority != authority {
		return ErrOwnerMismatch
	}
	if mint.Supply+amount < mint.Supply {
		return ErrOverflow
	}
	mint.Supply += amount
	dst.Amount += amount
	if err := store(mintInfo, mintLayout.Encode(mint)); err != nil {
		return err
	}
	return store(dstInfo, accountLayout.Encode(dst))
}

func burn(programID solanago.PublicKey, srcInfo, mintInfo *atlasswap.AccountInfo, authority solanago.PublicKey, amount uint64) error {
	src, err := loadTokenAccount(programID, srcInfo)
	if err != nil {
		return err
	}
	mint, err := loadMint(programID, mintInfo)
	if err != nil {
		return err
	}
	if src.Mint != mintInfo.Key {
		return ErrMintMismatch
	}
	if src.Owner != authority {
		return ErrOwnerMismatch
	}
	if src.Amount < amount {
		return ErrInsufficientFunds
	}
	src.Amount -= amount
	mint.Supply -= amount
	if err := store(srcInfo, accountLayout.Encode(src)); err != nil {
		return err
	}
	return store(mintInfo, mintLayout.Encode(mint))
}

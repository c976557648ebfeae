package runtime

import (
	"errors"
	"fmt"

	solanago "github.com/gagliardetto/solana-go"

	atlasswap "github.com/krazyTry/atlas-go/atlas_swap"
	spl "github.com/krazyTry/atlas-go/solana"
)

// The helpers below write accounts directly, outside of any request. They
// stand in for the system and token program instructions a cluster would
// use to create accounts.

func (b *Bank) put(key solanago.PublicKey, acct *Account) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if existing, err := b.store.Get(key); err == nil && len(existing.Data) > 0 {
		return fmt.Errorf("%w: %s", ErrAccountInUse, key)
	} else if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return b.store.Put(key, acct)
}

// CreateMint creates an initialized mint with zero supply.
func (b *Bank) CreateMint(key, authority solanago.PublicKey, decimals uint8) error {
	mint := &spl.Mint{
		MintAuthority: &authority,
		Decimals:      decimals,
		IsInitialized: true,
	}
	return b.put(key, &Account{Owner: b.tokenProgramID, Data: mintLayout.Encode(mint)})
}

// CreateTokenAccount creates a token account holding amount, raising the
// mint supply to match.
func (b *Bank) CreateTokenAccount(key, mint, owner solanago.PublicKey, amount uint64) error {
	acct := &spl.Account{
		Mint:   mint,
		Owner:  owner,
		Amount: amount,
		State:  spl.AccountStateInitialized,
	}
	if err := b.put(key, &Account{Owner: b.tokenProgramID, Data: accountLayout.Encode(acct)}); err != nil {
		return err
	}
	if amount == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	raw, err := b.store.Get(mint)
	if err != nil {
		return fmt.Errorf("mint %s: %w", mint, err)
	}
	m, err := mintLayout.Decode(raw.Data)
	if err != nil {
		return err
	}
	m.Supply += amount
	raw.Data = mintLayout.Encode(m)
	return b.store.Put(mint, raw)
}

// CreateProgramAccount creates a zeroed account of space bytes owned by the
// swap program, such as a pool record.
func (b *Bank) CreateProgramAccount(key solanago.PublicKey, space int) error {
	return b.put(key, &Account{Owner: b.programID, Data: make([]byte, space)})
}

func (b *Bank) Account(key solanago.PublicKey) (*Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.Get(key)
}

func (b *Bank) TokenAccount(key solanago.PublicKey) (*spl.Account, error) {
	acct, err := b.Account(key)
	if err != nil {
		return nil, err
	}
	return accountLayout.Decode(acct.Data)
}

func (b *Bank) Mint(key solanago.PublicKey) (*spl.Mint, error) {
	acct, err := b.Account(key)
	if err != nil {
		return nil, err
	}
	return mintLayout.Decode(acct.Data)
}

func (b *Bank) Pool(key solanago.PublicKey) (atlasswap.SwapV1, error) {
	acct, err := b.Account(key)
	if err != nil {
		return atlasswap.SwapV1{}, err
	}
	return atlasswap.UnpackSwapState(acct.Data)
}

func (b *Bank) GlobalState() (atlasswap.GlobalState, error) {
	addr, err := atlasswap.DeriveGlobalStateAddress(b.programID)
	if err != nil {
		return atlasswap.GlobalState{}, err
	}
	acct, err := b.Account(addr)
	if err != nil {
		return atlasswap.GlobalState{}, err
	}
	return atlasswap.UnpackGlobalState(acct.Data)
}

// EnsureTokenAccount returns the associated token account of owner for
// mint, creating an empty one when it does not exist yet.
func (b *Bank) EnsureTokenAccount(owner, mint solanago.PublicKey) (solanago.PublicKey, error) {
	ata, err := spl.AssociatedTokenAddress(owner, mint)
	if err != nil {
		return solanago.PublicKey{}, err
	}
	if _, err := b.Account(ata); err == nil {
		return ata, nil
	} else if !errors.Is(err, ErrNotFound) {
		return solanago.PublicKey{}, err
	}
	return ata, b.CreateTokenAccount(ata, mint, owner, 0)
}

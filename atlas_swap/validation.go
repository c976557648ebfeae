package atlasswap

import (
	solanago "github.com/gagliardetto/solana-go"

	spl "github.com/krazyTry/atlas-go/solana"
)

var (
	accountLayout = &spl.AccountLayout{}
	mintLayout    = &spl.MintLayout{}
)

// poolAccounts names the accounts every pool operation is checked against.
// UserA and UserB are the caller's accounts on the A and B side and may be
// nil.
type poolAccounts struct {
	Pool         *AccountInfo
	Authority    *AccountInfo
	TokenA       *AccountInfo
	TokenB       *AccountInfo
	PoolMint     *AccountInfo
	TokenProgram *AccountInfo
	UserA        *AccountInfo
	UserB        *AccountInfo
}

// loadSwap reads the pool record after checking it belongs to the program.
func (p *Processor) loadSwap(pool *AccountInfo) (SwapV1, error) {
	if pool.Owner != p.programID {
		return SwapV1{}, ErrIncorrectProgramID
	}
	swap, err := UnpackSwapState(pool.Data)
	if err != nil {
		return SwapV1{}, err
	}
	if !swap.IsInitialized {
		return SwapV1{}, ErrUninitializedAccount
	}
	return swap, nil
}

func (p *Processor) authorityID(pool solanago.PublicKey, nonce uint8) (solanago.PublicKey, error) {
	key, err := p.host.CreateProgramAddress(authoritySeeds(pool, nonce), p.programID)
	if err != nil {
		return solanago.PublicKey{}, ErrInvalidProgramAddress
	}
	return key, nil
}

// checkAccounts binds the named accounts to the pool record. Checks run in
// a fixed order and the first failure is reported.
func (p *Processor) checkAccounts(swap SwapV1, accts poolAccounts) error {
	if accts.Pool.Owner != p.programID {
		return ErrIncorrectProgramID
	}
	authority, err := p.authorityID(accts.Pool.Key, swap.Nonce)
	if err != nil {
		return err
	}
	if accts.Authority.Key != authority {
		return ErrInvalidProgramAddress
	}
	if accts.TokenA.Key != swap.TokenA || accts.TokenB.Key != swap.TokenB {
		return ErrIncorrectSwapAccount
	}
	if accts.PoolMint.Key != swap.PoolMint {
		return ErrIncorrectPoolMint
	}
	if accts.TokenProgram.Key != swap.TokenProgramID {
		return ErrIncorrectTokenProgramID
	}
	if accts.UserA != nil && accts.UserA.Key == accts.TokenA.Key {
		return ErrInvalidInput
	}
	if accts.UserB != nil && accts.UserB.Key == accts.TokenB.Key {
		return ErrInvalidInput
	}
	return nil
}

// loadGlobalState checks the global state sits at its derived address and
// has been configured.
func (p *Processor) loadGlobalState(info *AccountInfo) (GlobalState, error) {
	addr, _, err := p.host.FindProgramAddress(globalStateSeeds(p.programID), p.programID)
	if err != nil || info.Key != addr {
		return GlobalState{}, ErrInvalidPdaAddress
	}
	if info.Owner != p.programID || info.DataIsEmpty() {
		return GlobalState{}, ErrNotInitializedState
	}
	state, err := UnpackGlobalState(info.Data)
	if err != nil {
		return GlobalState{}, err
	}
	if !state.IsInitialized {
		return GlobalState{}, ErrNotInitializedState
	}
	return state, nil
}

func unpackTokenAccount(info *AccountInfo, tokenProgramID solanago.PublicKey) (*spl.Account, error) {
	if info.Owner != tokenProgramID {
		return nil, ErrIncorrectTokenProgramID
	}
	acct, err := accountLayout.Decode(info.Data)
	if err != nil || !acct.IsInitialized() {
		return nil, ErrExpectedAccount
	}
	return acct, nil
}

func unpackMint(info *AccountInfo, tokenProgramID solanago.PublicKey) (*spl.Mint, error) {
	if info.Owner != tokenProgramID {
		return nil, ErrIncorrectTokenProgramID
	}
	mint, err := mintLayout.Decode(info.Data)
	if err != nil || !mint.IsInitialized {
		return nil, ErrExpectedMint
	}
	return mint, nil
}

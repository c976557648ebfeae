package runtime

import (
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	atlasswap "github.com/krazyTry/atlas-go/atlas_swap"
)

type tokenSetup struct {
	bank             *Bank
	mint, mintAuth   solanago.PublicKey
	alice, bob       solanago.PublicKey
	aliceAcc, bobAcc solanago.PublicKey
}

func newTokenSetup(t *testing.T) *tokenSetup {
	s := &tokenSetup{
		bank:     NewBank(NewMemStore(), atlasswap.ProgramID),
		mint:     solanago.NewWallet().PublicKey(),
		mintAuth: solanago.NewWallet().PublicKey(),
		alice:    solanago.NewWallet().PublicKey(),
		bob:      solanago.NewWallet().PublicKey(),
		aliceAcc: solanago.NewWallet().PublicKey(),
		bobAcc:   solanago.NewWallet().PublicKey(),
	}
	require.NoError(t, s.bank.CreateMint(s.mint, s.mintAuth, 6))
	require.NoError(t, s.bank.CreateTokenAccount(s.aliceAcc, s.mint, s.alice, 1000))
	require.NoError(t, s.bank.CreateTokenAccount(s.bobAcc, s.mint, s.bob, 0))
	return s
}

func (s *tokenSetup) amount(t *testing.T, key solanago.PublicKey) uint64 {
	acct, err := s.bank.TokenAccount(key)
	require.NoError(t, err)
	return acct.Amount
}

func TestTokenTransfer(t *testing.T) {
	s := newTokenSetup(t)

	ix := token.NewTransferInstruction(400, s.aliceAcc, s.bobAcc, s.alice, nil).Build()
	require.NoError(t, s.bank.Execute(ix, s.alice))
	assert.Equal(t, uint64(600), s.amount(t, s.aliceAcc))
	assert.Equal(t, uint64(400), s.amount(t, s.bobAcc))

	ix = token.NewTransferInstruction(601, s.aliceAcc, s.bobAcc, s.alice, nil).Build()
	require.ErrorIs(t, s.bank.Execute(ix, s.alice), ErrInsufficientFunds)

	ix = token.NewTransferInstruction(1, s.aliceAcc, s.bobAcc, s.bob, nil).Build()
	require.ErrorIs(t, s.bank.Execute(ix, s.bob), ErrOwnerMismatch)

	ix = token.NewTransferInstruction(1, s.aliceAcc, s.bobAcc, s.alice, nil).Build()
	require.ErrorIs(t, s.bank.Execute(ix), ErrMissingSignature)

	assert.Equal(t, uint64(600), s.amount(t, s.aliceAcc))
}

func TestTokenMintAndBurn(t *testing.T) {
	s := newTokenSetup(t)

	ix := token.NewMintToInstruction(50, s.mint, s.bobAcc, s.mintAuth, nil).Build()
	require.NoError(t, s.bank.Execute(ix, s.mintAuth))
	mint, err := s.bank.Mint(s.mint)
	require.NoError(t, err)
	assert.Equal(t, uint64(1050), mint.Supply)
	assert.Equal(t, uint64(50), s.amount(t, s.bobAcc))

	ix = token.NewBurnInstruction(30, s.bobAcc, s.mint, s.bob, nil).Build()
	require.NoError(t, s.bank.Execute(ix, s.bob))
	mint, err = s.bank.Mint(s.mint)
	require.NoError(t, err)
	assert.Equal(t, uint64(1020), mint.Supply)
	assert.Equal(t, uint64(20), s.amount(t, s.bobAcc))

	ix = token.NewMintToInstruction(50, s.mint, s.bobAcc, s.alice, nil).Build()
	require.ErrorIs(t, s.bank.Execute(ix, s.alice), ErrOwnerMismatch)
}

func TestReadonlyAccountsAreProtected(t *testing.T) {
	s := newTokenSetup(t)

	ix := token.NewTransferInstruction(1, s.aliceAcc, s.bobAcc, s.alice, nil).Build()
	metas := ix.Accounts()
	metas[1].IsWritable = false
	data, err := ix.Data()
	require.NoError(t, err)

	err = s.bank.Execute(solanago.NewInstruction(solanago.TokenProgramID, metas, data), s.alice)
	require.ErrorIs(t, err, ErrReadonlyModified)
	assert.Equal(t, uint64(1000), s.amount(t, s.aliceAcc))
}

func TestUnknownProgram(t *testing.T) {
	s := newTokenSetup(t)
	ix := solanago.NewInstruction(solanago.SystemProgramID, nil, []byte{0})
	require.ErrorIs(t, s.bank.Execute(ix), ErrUnknownProgram)
}

func TestAllocateRequiresDerivingSeeds(t *testing.T) {
	bank := NewBank(NewMemStore(), atlasswap.ProgramID)
	seeds := [][]byte{[]byte("seed")}
	key, bump, err := solanago.FindProgramAddress(seeds, atlasswap.ProgramID)
	require.NoError(t, err)

	tx := &txContext{bank: bank}
	info := &atlasswap.AccountInfo{Key: key, Owner: solanago.SystemProgramID, IsWritable: true}
	require.ErrorIs(t, tx.Allocate(info, 10, atlasswap.ProgramID, seeds), ErrInvalidSeeds)

	require.NoError(t, tx.Allocate(info, 10, atlasswap.ProgramID, append(seeds, []byte{bump})))
	assert.Len(t, info.Data, 10)
	assert.Equal(t, atlasswap.ProgramID, info.Owner)

	require.ErrorIs(t, tx.Allocate(info, 10, atlasswap.ProgramID, append(seeds, []byte{bump})), ErrAccountInUse)
}

func TestCreateAccountTwice(t *testing.T) {
	s := newTokenSetup(t)
	require.ErrorIs(t, s.bank.CreateMint(s.mint, s.mintAuth, 6), ErrAccountInUse)
}

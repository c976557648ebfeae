package atlasswap

import (
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveGlobalStateAddress(t *testing.T) {
	addr, err := DeriveGlobalStateAddress(ProgramID)
	require.NoError(t, err)
	assert.False(t, addr.IsZero())
	assert.False(t, addr.IsOnCurve())

	want, _, err := solanago.FindProgramAddress(globalStateSeeds(ProgramID), ProgramID)
	require.NoError(t, err)
	assert.Equal(t, want, addr)

	other, err := DeriveGlobalStateAddress(solanago.NewWallet().PublicKey())
	require.NoError(t, err)
	assert.NotEqual(t, addr, other)
}

func TestDerivePoolAuthority(t *testing.T) {
	pool := solanago.NewWallet().PublicKey()
	authority, nonce, err := DerivePoolAuthority(pool, ProgramID)
	require.NoError(t, err)
	assert.False(t, authority.IsZero())

	signed, err := solanago.CreateProgramAddress(authoritySeeds(pool, nonce), ProgramID)
	require.NoError(t, err)
	assert.Equal(t, authority, signed)
}

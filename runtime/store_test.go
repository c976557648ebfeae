package runtime

import (
	"path/filepath"
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, s Store) {
	key := solanago.NewWallet().PublicKey()
	owner := solanago.NewWallet().PublicKey()

	_, err := s.Get(key)
	require.ErrorIs(t, err, ErrNotFound)

	acct := &Account{Owner: owner, Lamports: 42, Data: []byte{1, 2, 3}}
	require.NoError(t, s.Put(key, acct))
	acct.Data[0] = 9

	got, err := s.Get(key)
	require.NoError(t, err)
	assert.Equal(t, owner, got.Owner)
	assert.Equal(t, uint64(42), got.Lamports)
	assert.Equal(t, []byte{1, 2, 3}, got.Data)

	got.Data[1] = 9
	again, err := s.Get(key)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, again.Data)

	require.NoError(t, s.Put(solanago.NewWallet().PublicKey(), &Account{Owner: owner}))
	n := 0
	require.NoError(t, s.ForEach(func(solanago.PublicKey, *Account) error {
		n++
		return nil
	}))
	assert.Equal(t, 2, n)
}

func TestMemStore(t *testing.T) {
	testStore(t, NewMemStore())
}

func TestLevelStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts")
	s, err := OpenLevelStore(path)
	require.NoError(t, err)
	testStore(t, s)

	key := solanago.NewWallet().PublicKey()
	require.NoError(t, s.Put(key, &Account{Owner: solanago.TokenProgramID, Data: []byte{7}}))
	require.NoError(t, s.Close())

	reopened, err := OpenLevelStore(path)
	require.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.Get(key)
	require.NoError(t, err)
	assert.Equal(t, solanago.TokenProgramID, got.Owner)
	assert.Equal(t, []byte{7}, got.Data)
}

func TestDecodeAccountShortRecord(t *testing.T) {
	_, err := decodeAccount(make([]byte, accountHeaderLen-1))
	require.Error(t, err)

	acct, err := decodeAccount(encodeAccount(&Account{Lamports: 1}))
	require.NoError(t, err)
	assert.Empty(t, acct.Data)
}

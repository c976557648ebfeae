package atlasswap

import (
	solanago "github.com/gagliardetto/solana-go"
)

// AccountInfo is one account named by a request. The host owns the
// backing storage; the processor reads and writes Data in place.
type AccountInfo struct {
	Key        solanago.PublicKey
	Owner      solanago.PublicKey
	IsSigner   bool
	IsWritable bool
	Lamports   uint64
	Data       []byte
}

func (a *AccountInfo) DataIsEmpty() bool { return len(a.Data) == 0 }

// Meta is the account meta that references a in an outgoing instruction.
func (a *AccountInfo) Meta() *solanago.AccountMeta {
	return solanago.NewAccountMeta(a.Key, a.IsWritable, a.IsSigner)
}

// Deriver computes program derived addresses.
type Deriver interface {
	CreateProgramAddress(seeds [][]byte, programID solanago.PublicKey) (solanago.PublicKey, error)
	FindProgramAddress(seeds [][]byte, programID solanago.PublicKey) (solanago.PublicKey, uint8, error)
}

// Host is everything the processor needs from its runtime: address
// derivation, cross-program invocation and account allocation. signerSeeds
// prove authority over the program addresses they derive to.
type Host interface {
	Deriver
	InvokeSigned(ix solanago.Instruction, signerSeeds [][][]byte) error
	Allocate(account *AccountInfo, space int, owner solanago.PublicKey, signerSeeds [][]byte) error
}

// SolanaDeriver derives addresses with the on-chain algorithm.
type SolanaDeriver struct{}

func (SolanaDeriver) CreateProgramAddress(seeds [][]byte, programID solanago.PublicKey) (solanago.PublicKey, error) {
	return solanago.CreateProgramAddress(seeds, programID)
}

func (SolanaDeriver) FindProgramAddress(seeds [][]byte, programID solanago.PublicKey) (solanago.PublicKey, uint8, error) {
	return solanago.FindProgramAddress(seeds, programID)
}

package atlasswap

import (
	"fmt"

	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/atlas-go/atlas_swap/shared"
)

var ProgramID = solanago.MustPublicKeyFromBase58("Aq342bsqEY3sMYw9ddtPubuNH3H4BWEy5AobVKFCMRip")

func globalStateSeeds(programID solanago.PublicKey) [][]byte {
	return [][]byte{[]byte(shared.GlobalStateSeed), programID.Bytes()}
}

func authoritySeeds(pool solanago.PublicKey, nonce uint8) [][]byte {
	return [][]byte{pool.Bytes(), {nonce}}
}

// DeriveGlobalStateAddress returns the address of the global state of
// programID.
func DeriveGlobalStateAddress(programID solanago.PublicKey) (solanago.PublicKey, error) {
	pub, _, err := solanago.FindProgramAddress(globalStateSeeds(programID), programID)
	if err != nil {
		return solanago.PublicKey{}, fmt.Errorf("derive global state: %w", err)
	}
	return pub, nil
}

// DerivePoolAuthority returns the program address that owns the reserves
// and the pool mint of pool, with its nonce.
func DerivePoolAuthority(pool, programID solanago.PublicKey) (solanago.PublicKey, uint8, error) {
	pub, nonce, err := solanago.FindProgramAddress([][]byte{pool.Bytes()}, programID)
	if err != nil {
		return solanago.PublicKey{}, 0, fmt.Errorf("derive pool authority %s: %w", pool, err)
	}
	return pub, nonce, nil
}

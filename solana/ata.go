package solana

import (
	"github.com/gagliardetto/solana-go"
)

// AssociatedTokenAddress is the canonical token account address of owner
// for mint.
func AssociatedTokenAddress(owner, mint solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return ata, nil
}

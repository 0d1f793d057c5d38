package vault

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// DeriveVaultPDA derives the system-owned vault of signer.
// Seeds: ["vault", signer]
func DeriveVaultPDA(programID, signer solana.PublicKey) (solana.PublicKey, uint8, error) {
	if signer.IsZero() {
		return solana.PublicKey{}, 0, fmt.Errorf("signer public key is required")
	}
	return solana.FindProgramAddress([][]byte{[]byte(VaultSeed), signer[:]}, programID)
}

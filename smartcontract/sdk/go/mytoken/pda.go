package mytoken

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// DeriveMintPDA derives the mint created by payer.
// Seeds: ["mint", payer]
func DeriveMintPDA(programID, payer solana.PublicKey) (solana.PublicKey, uint8, error) {
	if payer.IsZero() {
		return solana.PublicKey{}, 0, fmt.Errorf("payer public key is required")
	}
	return solana.FindProgramAddress([][]byte{[]byte(MintSeed), payer[:]}, programID)
}

// DeriveMetadataPDA derives the metadata account of a mint under the token metadata program.
// Seeds: ["metadata", metadataProgram, mint]
func DeriveMetadataPDA(mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	if mint.IsZero() {
		return solana.PublicKey{}, 0, fmt.Errorf("mint public key is required")
	}
	return solana.FindProgramAddress(
		[][]byte{[]byte(MetadataSeed), MetadataProgramID[:], mint[:]},
		MetadataProgramID,
	)
}

// DeriveAssociatedTokenAddress derives the Token-2022 associated token account of owner for mint.
// Seeds: [owner, token2022Program, mint] under the associated token program.
func DeriveAssociatedTokenAddress(owner, mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	if owner.IsZero() {
		return solana.PublicKey{}, 0, fmt.Errorf("owner public key is required")
	}
	if mint.IsZero() {
		return solana.PublicKey{}, 0, fmt.Errorf("mint public key is required")
	}
	return solana.FindProgramAddress(
		[][]byte{owner[:], Token2022ProgramID[:], mint[:]},
		AssociatedTokenProgramID,
	)
}

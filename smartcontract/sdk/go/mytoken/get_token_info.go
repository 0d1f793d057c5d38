package mytoken

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

type GetTokenInfoInstructionConfig struct {
	Mint solana.PublicKey
}

func (c *GetTokenInfoInstructionConfig) Validate() error {
	if c.Mint.IsZero() {
		return fmt.Errorf("mint public key is required")
	}
	return nil
}

// BuildGetTokenInfoInstruction builds the read-only instruction whose return data is a TokenInfo.
func BuildGetTokenInfoInstruction(
	programID solana.PublicKey,
	config GetTokenInfoInstructionConfig,
) (solana.Instruction, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	metadataPDA, _, err := DeriveMetadataPDA(config.Mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive metadata PDA: %w", err)
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: config.Mint, IsSigner: false, IsWritable: false},
		{PublicKey: metadataPDA, IsSigner: false, IsWritable: false},
		{PublicKey: MetadataProgramID, IsSigner: false, IsWritable: false},
	}

	return &solana.GenericInstruction{
		ProgID:        programID,
		AccountValues: accounts,
		DataBytes:     append([]byte{}, GetTokenInfoDiscriminator[:]...),
	}, nil
}

package mytoken

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"
)

type UpdateMetadataInstructionConfig struct {
	UpdateAuthority solana.PublicKey
	Mint            solana.PublicKey
	Name            string
	Symbol          string
	URI             string
}

func (c *UpdateMetadataInstructionConfig) Validate() error {
	if c.UpdateAuthority.IsZero() {
		return fmt.Errorf("update authority public key is required")
	}
	if c.Mint.IsZero() {
		return fmt.Errorf("mint public key is required")
	}
	return validateMetadata(c.Name, c.Symbol, c.URI)
}

func BuildUpdateMetadataInstruction(
	programID solana.PublicKey,
	config UpdateMetadataInstructionConfig,
) (solana.Instruction, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	data, err := borsh.Serialize(struct {
		Discriminator [8]byte
		Name          string
		Symbol        string
		URI           string
	}{
		Discriminator: UpdateMetadataDiscriminator,
		Name:          config.Name,
		Symbol:        config.Symbol,
		URI:           config.URI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize args: %w", err)
	}

	metadataPDA, _, err := DeriveMetadataPDA(config.Mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive metadata PDA: %w", err)
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: config.UpdateAuthority, IsSigner: true, IsWritable: true},
		{PublicKey: metadataPDA, IsSigner: false, IsWritable: true},
		{PublicKey: MetadataProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: config.Mint, IsSigner: false, IsWritable: false},
	}

	return &solana.GenericInstruction{
		ProgID:        programID,
		AccountValues: accounts,
		DataBytes:     data,
	}, nil
}

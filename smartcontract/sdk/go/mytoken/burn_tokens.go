package mytoken

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"
)

type BurnTokensInstructionConfig struct {
	BurnAuthority solana.PublicKey
	Mint          solana.PublicKey
	Amount        uint64
}

func (c *BurnTokensInstructionConfig) Validate() error {
	if c.BurnAuthority.IsZero() {
		return fmt.Errorf("burn authority public key is required")
	}
	if c.Mint.IsZero() {
		return fmt.Errorf("mint public key is required")
	}
	if c.Amount == 0 {
		return fmt.Errorf("amount must be greater than 0")
	}
	return nil
}

// BuildBurnTokensInstruction burns from the authority's own token account. The authority must
// hold both the mint and freeze authority.
func BuildBurnTokensInstruction(
	programID solana.PublicKey,
	config BurnTokensInstructionConfig,
) (solana.Instruction, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	data, err := borsh.Serialize(struct {
		Discriminator [8]byte
		Amount        uint64
	}{
		Discriminator: BurnTokensDiscriminator,
		Amount:        config.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize args: %w", err)
	}

	fromATA, _, err := DeriveAssociatedTokenAddress(config.BurnAuthority, config.Mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive source token account: %w", err)
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: config.BurnAuthority, IsSigner: true, IsWritable: true},
		{PublicKey: config.Mint, IsSigner: false, IsWritable: true},
		{PublicKey: fromATA, IsSigner: false, IsWritable: true},
		{PublicKey: Token2022ProgramID, IsSigner: false, IsWritable: false},
	}

	return &solana.GenericInstruction{
		ProgID:        programID,
		AccountValues: accounts,
		DataBytes:     data,
	}, nil
}

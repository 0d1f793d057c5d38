package mytoken

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"
)

type ApproveInstructionConfig struct {
	Owner    solana.PublicKey
	Mint     solana.PublicKey
	Delegate solana.PublicKey
	Amount   uint64
}

func (c *ApproveInstructionConfig) Validate() error {
	if c.Owner.IsZero() {
		return fmt.Errorf("owner public key is required")
	}
	if c.Mint.IsZero() {
		return fmt.Errorf("mint public key is required")
	}
	if c.Delegate.IsZero() {
		return fmt.Errorf("delegate public key is required")
	}
	return nil
}

// BuildApproveInstruction lets delegate spend up to amount from the owner's token account.
func BuildApproveInstruction(
	programID solana.PublicKey,
	config ApproveInstructionConfig,
) (solana.Instruction, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	data, err := borsh.Serialize(struct {
		Discriminator [8]byte
		Amount        uint64
	}{
		Discriminator: ApproveDiscriminator,
		Amount:        config.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize args: %w", err)
	}

	sourceATA, _, err := DeriveAssociatedTokenAddress(config.Owner, config.Mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive source token account: %w", err)
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: config.Owner, IsSigner: true, IsWritable: true},
		{PublicKey: sourceATA, IsSigner: false, IsWritable: true},
		{PublicKey: config.Mint, IsSigner: false, IsWritable: false},
		{PublicKey: Token2022ProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: config.Delegate, IsSigner: false, IsWritable: false},
	}

	return &solana.GenericInstruction{
		ProgID:        programID,
		AccountValues: accounts,
		DataBytes:     data,
	}, nil
}

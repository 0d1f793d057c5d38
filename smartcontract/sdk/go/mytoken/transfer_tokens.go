package mytoken

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"
)

type TransferTokensInstructionConfig struct {
	Authority solana.PublicKey
	To        solana.PublicKey
	Mint      solana.PublicKey
	Amount    uint64
}

func (c *TransferTokensInstructionConfig) Validate() error {
	if c.Authority.IsZero() {
		return fmt.Errorf("authority public key is required")
	}
	if c.To.IsZero() {
		return fmt.Errorf("recipient public key is required")
	}
	if c.Mint.IsZero() {
		return fmt.Errorf("mint public key is required")
	}
	if c.Amount == 0 {
		return fmt.Errorf("amount must be greater than 0")
	}
	return nil
}

// BuildTransferTokensInstruction moves tokens between the associated token accounts of authority
// and recipient. The recipient account is created at the authority's expense if missing.
func BuildTransferTokensInstruction(
	programID solana.PublicKey,
	config TransferTokensInstructionConfig,
) (solana.Instruction, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	data, err := borsh.Serialize(struct {
		Discriminator [8]byte
		Amount        uint64
	}{
		Discriminator: TransferTokensDiscriminator,
		Amount:        config.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize args: %w", err)
	}

	fromATA, _, err := DeriveAssociatedTokenAddress(config.Authority, config.Mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive source token account: %w", err)
	}
	toATA, _, err := DeriveAssociatedTokenAddress(config.To, config.Mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive destination token account: %w", err)
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: config.Authority, IsSigner: true, IsWritable: true},
		{PublicKey: fromATA, IsSigner: false, IsWritable: true},
		{PublicKey: toATA, IsSigner: false, IsWritable: true},
		{PublicKey: config.To, IsSigner: false, IsWritable: false},
		{PublicKey: config.Mint, IsSigner: false, IsWritable: false},
		{PublicKey: Token2022ProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: AssociatedTokenProgramID, IsSigner: false, IsWritable: false},
	}

	return &solana.GenericInstruction{
		ProgID:        programID,
		AccountValues: accounts,
		DataBytes:     data,
	}, nil
}

package mytoken

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"
)

type MintTokensInstructionConfig struct {
	Authority solana.PublicKey
	Mint      solana.PublicKey
	Receiver  solana.PublicKey
	Amount    uint64
}

func (c *MintTokensInstructionConfig) Validate() error {
	if c.Authority.IsZero() {
		return fmt.Errorf("authority public key is required")
	}
	if c.Mint.IsZero() {
		return fmt.Errorf("mint public key is required")
	}
	if c.Receiver.IsZero() {
		return fmt.Errorf("receiver public key is required")
	}
	if c.Amount == 0 {
		return fmt.Errorf("amount must be greater than 0")
	}
	return nil
}

// BuildMintTokensInstruction mints to the receiver's associated token account, creating it if
// needed.
func BuildMintTokensInstruction(
	programID solana.PublicKey,
	config MintTokensInstructionConfig,
) (solana.Instruction, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	data, err := borsh.Serialize(struct {
		Discriminator [8]byte
		Amount        uint64
	}{
		Discriminator: MintTokensDiscriminator,
		Amount:        config.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize args: %w", err)
	}

	ata, _, err := DeriveAssociatedTokenAddress(config.Receiver, config.Mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive receiver token account: %w", err)
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: config.Authority, IsSigner: true, IsWritable: true},
		{PublicKey: config.Mint, IsSigner: false, IsWritable: true},
		{PublicKey: config.Receiver, IsSigner: false, IsWritable: false},
		{PublicKey: ata, IsSigner: false, IsWritable: true},
		{PublicKey: Token2022ProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: AssociatedTokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
	}

	return &solana.GenericInstruction{
		ProgID:        programID,
		AccountValues: accounts,
		DataBytes:     data,
	}, nil
}

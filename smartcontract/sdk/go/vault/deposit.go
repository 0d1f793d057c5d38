package vault

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"
)

type DepositInstructionConfig struct {
	Signer solana.PublicKey
	Amount uint64
}

func (c *DepositInstructionConfig) Validate() error {
	if c.Signer.IsZero() {
		return fmt.Errorf("signer public key is required")
	}
	if c.Amount == 0 {
		return fmt.Errorf("amount must be greater than 0")
	}
	return nil
}

func vaultAccounts(programID, signer solana.PublicKey) ([]*solana.AccountMeta, error) {
	vaultPDA, _, err := DeriveVaultPDA(programID, signer)
	if err != nil {
		return nil, fmt.Errorf("failed to derive vault PDA: %w", err)
	}
	return []*solana.AccountMeta{
		{PublicKey: signer, IsSigner: true, IsWritable: true},
		{PublicKey: vaultPDA, IsSigner: false, IsWritable: true},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
	}, nil
}

// BuildDepositInstruction moves amount lamports from signer into its vault.
func BuildDepositInstruction(
	programID solana.PublicKey,
	config DepositInstructionConfig,
) (solana.Instruction, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	data, err := borsh.Serialize(struct {
		Discriminator [8]byte
		Amount        uint64
	}{
		Discriminator: DepositDiscriminator,
		Amount:        config.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize args: %w", err)
	}

	accounts, err := vaultAccounts(programID, config.Signer)
	if err != nil {
		return nil, err
	}

	return &solana.GenericInstruction{
		ProgID:        programID,
		AccountValues: accounts,
		DataBytes:     data,
	}, nil
}

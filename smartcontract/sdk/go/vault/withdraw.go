package vault

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

type WithdrawInstructionConfig struct {
	Signer solana.PublicKey
}

func (c *WithdrawInstructionConfig) Validate() error {
	if c.Signer.IsZero() {
		return fmt.Errorf("signer public key is required")
	}
	return nil
}

// BuildWithdrawInstruction returns the whole vault balance to signer.
func BuildWithdrawInstruction(
	programID solana.PublicKey,
	config WithdrawInstructionConfig,
) (solana.Instruction, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	accounts, err := vaultAccounts(programID, config.Signer)
	if err != nil {
		return nil, err
	}

	return &solana.GenericInstruction{
		ProgID:        programID,
		AccountValues: accounts,
		DataBytes:     append([]byte{}, WithdrawDiscriminator[:]...),
	}, nil
}

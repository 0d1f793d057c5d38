package mytoken

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"
)

type InitializeMintInstructionConfig struct {
	Payer  solana.PublicKey
	Name   string
	Symbol string
	URI    string
}

func validateMetadata(name, symbol, uri string) error {
	if len(name) > MaxNameLength {
		return fmt.Errorf("name length %d exceeds max %d", len(name), MaxNameLength)
	}
	if len(symbol) > MaxSymbolLength {
		return fmt.Errorf("symbol length %d exceeds max %d", len(symbol), MaxSymbolLength)
	}
	if len(uri) > MaxURILength {
		return fmt.Errorf("uri length %d exceeds max %d", len(uri), MaxURILength)
	}
	return nil
}

func (c *InitializeMintInstructionConfig) Validate() error {
	if c.Payer.IsZero() {
		return fmt.Errorf("payer public key is required")
	}
	return validateMetadata(c.Name, c.Symbol, c.URI)
}

// BuildInitializeMintInstruction creates the payer's mint (6 decimals, payer as mint and freeze
// authority) and its metadata account.
func BuildInitializeMintInstruction(
	programID solana.PublicKey,
	config InitializeMintInstructionConfig,
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
		Discriminator: InitializeMintDiscriminator,
		Name:          config.Name,
		Symbol:        config.Symbol,
		URI:           config.URI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize args: %w", err)
	}

	mintPDA, _, err := DeriveMintPDA(programID, config.Payer)
	if err != nil {
		return nil, fmt.Errorf("failed to derive mint PDA: %w", err)
	}
	metadataPDA, _, err := DeriveMetadataPDA(mintPDA)
	if err != nil {
		return nil, fmt.Errorf("failed to derive metadata PDA: %w", err)
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: mintPDA, IsSigner: false, IsWritable: true},
		{PublicKey: metadataPDA, IsSigner: false, IsWritable: true},
		{PublicKey: Token2022ProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: config.Payer, IsSigner: true, IsWritable: true},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: MetadataProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: SysVarRentPubkey, IsSigner: false, IsWritable: false},
	}

	return &solana.GenericInstruction{
		ProgID:        programID,
		AccountValues: accounts,
		DataBytes:     data,
	}, nil
}

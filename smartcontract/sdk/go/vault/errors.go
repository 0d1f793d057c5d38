package vault

import (
	"errors"

	"github.com/malbeclabs/anchorprobe/smartcontract/sdk/go/anchor"
)

var (
	ErrVaultNotEmpty = errors.New("vault already holds lamports")
	ErrVaultEmpty    = errors.New("vault is empty")
	ErrInvalidAmount = errors.New("invalid amount")
)

const (
	ErrorCodeVaultAlreadyExists uint32 = 6000
	ErrorCodeInvalidAmount      uint32 = 6001
)

// IDL describes the program's instructions and error table.
func IDL() *anchor.IDL {
	deposit, withdraw := DepositDiscriminator, WithdrawDiscriminator
	return &anchor.IDL{
		Address:  ProgramID.String(),
		Metadata: anchor.IDLMetadata{Name: ProgramName, Version: "0.1.0"},
		Instructions: []anchor.IDLInstruction{
			{Name: InstructionDeposit, Discriminator: deposit[:]},
			{Name: InstructionWithdraw, Discriminator: withdraw[:]},
		},
		Errors: []anchor.IDLErrorCode{
			{Code: ErrorCodeVaultAlreadyExists, Name: "VaultAlreadyExists", Msg: "Vault already exists"},
			{Code: ErrorCodeInvalidAmount, Name: "InvalidAmount", Msg: "Invalid amount"},
		},
	}
}

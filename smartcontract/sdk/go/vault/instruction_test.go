package vault_test

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/malbeclabs/anchorprobe/smartcontract/sdk/go/anchor"
	"github.com/malbeclabs/anchorprobe/smartcontract/sdk/go/vault"
	"github.com/stretchr/testify/require"
)

func TestSDK_Vault_DeriveVaultPDA(t *testing.T) {
	t.Parallel()

	signer := solana.NewWallet().PublicKey()
	pda, _, err := vault.DeriveVaultPDA(vault.ProgramID, signer)
	require.NoError(t, err)

	want, _, err := solana.FindProgramAddress([][]byte{[]byte("vault"), signer.Bytes()}, vault.ProgramID)
	require.NoError(t, err)
	require.Equal(t, want, pda)

	_, _, err = vault.DeriveVaultPDA(vault.ProgramID, solana.PublicKey{})
	require.ErrorContains(t, err, "signer public key is required")
}

func TestSDK_Vault_BuildDepositInstruction(t *testing.T) {
	t.Parallel()

	signer := solana.NewWallet().PublicKey()
	instr, err := vault.BuildDepositInstruction(vault.ProgramID, vault.DepositInstructionConfig{Signer: signer, Amount: 1_000_000_000})
	require.NoError(t, err)

	pda, _, err := vault.DeriveVaultPDA(vault.ProgramID, signer)
	require.NoError(t, err)
	require.Equal(t, []*solana.AccountMeta{
		{PublicKey: signer, IsSigner: true, IsWritable: true},
		{PublicKey: pda, IsWritable: true},
		{PublicKey: solana.SystemProgramID},
	}, instr.Accounts())

	data, err := instr.Data()
	require.NoError(t, err)
	want := anchor.InstructionDiscriminator("deposit")
	require.Equal(t, want[:], data[:8])
	require.Equal(t, uint64(1_000_000_000), binary.LittleEndian.Uint64(data[8:]))

	_, err = vault.BuildDepositInstruction(vault.ProgramID, vault.DepositInstructionConfig{Signer: signer})
	require.ErrorContains(t, err, "amount must be greater than 0")
}

func TestSDK_Vault_BuildWithdrawInstruction(t *testing.T) {
	t.Parallel()

	signer := solana.NewWallet().PublicKey()
	instr, err := vault.BuildWithdrawInstruction(vault.ProgramID, vault.WithdrawInstructionConfig{Signer: signer})
	require.NoError(t, err)
	require.Len(t, instr.Accounts(), 3)

	data, err := instr.Data()
	require.NoError(t, err)
	want := anchor.InstructionDiscriminator("withdraw")
	require.Equal(t, want[:], data)

	_, err = vault.BuildWithdrawInstruction(vault.ProgramID, vault.WithdrawInstructionConfig{})
	require.Error(t, err)
}

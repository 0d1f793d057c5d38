package mytoken_test

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/malbeclabs/anchorprobe/smartcontract/sdk/go/anchor"
	"github.com/malbeclabs/anchorprobe/smartcontract/sdk/go/mytoken"
	"github.com/stretchr/testify/require"
)

func requireDiscriminator(t *testing.T, instr solana.Instruction, name string) []byte {
	t.Helper()
	data, err := instr.Data()
	require.NoError(t, err)
	want := anchor.InstructionDiscriminator(name)
	require.Equal(t, want[:], data[:8])
	return data[8:]
}

func TestSDK_MyToken_BuildInitializeMintInstruction_HappyPath(t *testing.T) {
	t.Parallel()

	payer := solana.NewWallet().PublicKey()
	instr, err := mytoken.BuildInitializeMintInstruction(mytoken.ProgramID, mytoken.InitializeMintInstructionConfig{
		Payer:  payer,
		Name:   "Probe",
		Symbol: "PRB",
		URI:    "https://example.com/prb.json",
	})
	require.NoError(t, err)
	require.Equal(t, mytoken.ProgramID, instr.ProgramID())

	mint, _, err := mytoken.DeriveMintPDA(mytoken.ProgramID, payer)
	require.NoError(t, err)
	metadata, _, err := mytoken.DeriveMetadataPDA(mint)
	require.NoError(t, err)

	accounts := instr.Accounts()
	require.Len(t, accounts, 7)
	require.Equal(t, mint, accounts[0].PublicKey)
	require.True(t, accounts[0].IsWritable)
	require.Equal(t, metadata, accounts[1].PublicKey)
	require.Equal(t, mytoken.Token2022ProgramID, accounts[2].PublicKey)
	require.Equal(t, payer, accounts[3].PublicKey)
	require.True(t, accounts[3].IsSigner)
	require.Equal(t, solana.SystemProgramID, accounts[4].PublicKey)
	require.Equal(t, mytoken.MetadataProgramID, accounts[5].PublicKey)
	require.Equal(t, solana.SysVarRentPubkey, accounts[6].PublicKey)

	args := requireDiscriminator(t, instr, "initialize_mint")
	require.Equal(t, uint32(5), binary.LittleEndian.Uint32(args[:4]))
	require.Equal(t, "Probe", string(args[4:9]))
	require.Equal(t, uint32(3), binary.LittleEndian.Uint32(args[9:13]))
	require.Equal(t, "PRB", string(args[13:16]))
}

func TestSDK_MyToken_BuildInitializeMintInstruction_Validation(t *testing.T) {
	t.Parallel()

	payer := solana.NewWallet().PublicKey()
	tests := []struct {
		name   string
		config mytoken.InitializeMintInstructionConfig
		errMsg string
	}{
		{"missing payer", mytoken.InitializeMintInstructionConfig{Name: "a"}, "payer public key is required"},
		{"name too long", mytoken.InitializeMintInstructionConfig{Payer: payer, Name: strings.Repeat("n", 33)}, "name length 33 exceeds max 32"},
		{"symbol too long", mytoken.InitializeMintInstructionConfig{Payer: payer, Symbol: strings.Repeat("s", 11)}, "symbol length 11 exceeds max 10"},
		{"uri too long", mytoken.InitializeMintInstructionConfig{Payer: payer, URI: strings.Repeat("u", 201)}, "uri length 201 exceeds max 200"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := mytoken.BuildInitializeMintInstruction(mytoken.ProgramID, tt.config)
			require.ErrorContains(t, err, tt.errMsg)
		})
	}

	_, err := mytoken.BuildInitializeMintInstruction(mytoken.ProgramID, mytoken.InitializeMintInstructionConfig{
		Payer:  payer,
		Name:   strings.Repeat("n", 32),
		Symbol: strings.Repeat("s", 10),
		URI:    strings.Repeat("u", 200),
	})
	require.NoError(t, err)
}

func TestSDK_MyToken_BuildAmountInstructions(t *testing.T) {
	t.Parallel()

	authority := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()
	other := solana.NewWallet().PublicKey()

	authorityATA, _, err := mytoken.DeriveAssociatedTokenAddress(authority, mint)
	require.NoError(t, err)
	otherATA, _, err := mytoken.DeriveAssociatedTokenAddress(other, mint)
	require.NoError(t, err)

	tests := []struct {
		name     string
		ixName   string
		build    func() (solana.Instruction, error)
		accounts []solana.PublicKey
	}{
		{
			name:   "mint tokens",
			ixName: "mint_tokens",
			build: func() (solana.Instruction, error) {
				return mytoken.BuildMintTokensInstruction(mytoken.ProgramID, mytoken.MintTokensInstructionConfig{
					Authority: authority, Mint: mint, Receiver: other, Amount: 500,
				})
			},
			accounts: []solana.PublicKey{authority, mint, other, otherATA, mytoken.Token2022ProgramID, mytoken.AssociatedTokenProgramID, solana.SystemProgramID},
		},
		{
			name:   "transfer tokens",
			ixName: "transfer_tokens",
			build: func() (solana.Instruction, error) {
				return mytoken.BuildTransferTokensInstruction(mytoken.ProgramID, mytoken.TransferTokensInstructionConfig{
					Authority: authority, To: other, Mint: mint, Amount: 500,
				})
			},
			accounts: []solana.PublicKey{authority, authorityATA, otherATA, other, mint, mytoken.Token2022ProgramID, solana.SystemProgramID, mytoken.AssociatedTokenProgramID},
		},
		{
			name:   "approve",
			ixName: "approve",
			build: func() (solana.Instruction, error) {
				return mytoken.BuildApproveInstruction(mytoken.ProgramID, mytoken.ApproveInstructionConfig{
					Owner: authority, Mint: mint, Delegate: other, Amount: 500,
				})
			},
			accounts: []solana.PublicKey{authority, authorityATA, mint, mytoken.Token2022ProgramID, other},
		},
		{
			name:   "burn tokens",
			ixName: "burn_tokens",
			build: func() (solana.Instruction, error) {
				return mytoken.BuildBurnTokensInstruction(mytoken.ProgramID, mytoken.BurnTokensInstructionConfig{
					BurnAuthority: authority, Mint: mint, Amount: 500,
				})
			},
			accounts: []solana.PublicKey{authority, mint, authorityATA, mytoken.Token2022ProgramID},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			instr, err := tt.build()
			require.NoError(t, err)

			var got []solana.PublicKey
			for _, a := range instr.Accounts() {
				got = append(got, a.PublicKey)
			}
			require.Equal(t, tt.accounts, got)
			require.True(t, instr.Accounts()[0].IsSigner)

			args := requireDiscriminator(t, instr, tt.ixName)
			require.Len(t, args, 8)
			require.Equal(t, uint64(500), binary.LittleEndian.Uint64(args))
		})
	}
}

func TestSDK_MyToken_BuildAmountInstructions_ZeroAmount(t *testing.T) {
	t.Parallel()

	authority := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	_, err := mytoken.BuildMintTokensInstruction(mytoken.ProgramID, mytoken.MintTokensInstructionConfig{Authority: authority, Mint: mint, Receiver: authority})
	require.ErrorContains(t, err, "amount must be greater than 0")
	_, err = mytoken.BuildTransferTokensInstruction(mytoken.ProgramID, mytoken.TransferTokensInstructionConfig{Authority: authority, Mint: mint, To: authority})
	require.ErrorContains(t, err, "amount must be greater than 0")
	_, err = mytoken.BuildBurnTokensInstruction(mytoken.ProgramID, mytoken.BurnTokensInstructionConfig{BurnAuthority: authority, Mint: mint})
	require.ErrorContains(t, err, "amount must be greater than 0")

	// approve accepts a zero amount.
	_, err = mytoken.BuildApproveInstruction(mytoken.ProgramID, mytoken.ApproveInstructionConfig{Owner: authority, Mint: mint, Delegate: mint})
	require.NoError(t, err)
}

func TestSDK_MyToken_BuildUpdateMetadataInstruction(t *testing.T) {
	t.Parallel()

	authority := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	instr, err := mytoken.BuildUpdateMetadataInstruction(mytoken.ProgramID, mytoken.UpdateMetadataInstructionConfig{
		UpdateAuthority: authority,
		Mint:            mint,
		Name:            "Renamed",
	})
	require.NoError(t, err)

	metadata, _, err := mytoken.DeriveMetadataPDA(mint)
	require.NoError(t, err)
	accounts := instr.Accounts()
	require.Len(t, accounts, 4)
	require.Equal(t, authority, accounts[0].PublicKey)
	require.Equal(t, metadata, accounts[1].PublicKey)
	require.True(t, accounts[1].IsWritable)
	require.Equal(t, mytoken.MetadataProgramID, accounts[2].PublicKey)
	require.Equal(t, mint, accounts[3].PublicKey)
	requireDiscriminator(t, instr, "update_metadata")

	_, err = mytoken.BuildUpdateMetadataInstruction(mytoken.ProgramID, mytoken.UpdateMetadataInstructionConfig{
		UpdateAuthority: authority,
		Mint:            mint,
		Symbol:          strings.Repeat("s", 11),
	})
	require.ErrorContains(t, err, "symbol length")
}

func TestSDK_MyToken_BuildGetTokenInfoInstruction(t *testing.T) {
	t.Parallel()

	mint := solana.NewWallet().PublicKey()
	instr, err := mytoken.BuildGetTokenInfoInstruction(mytoken.ProgramID, mytoken.GetTokenInfoInstructionConfig{Mint: mint})
	require.NoError(t, err)
	require.Len(t, instr.Accounts(), 3)
	for _, a := range instr.Accounts() {
		require.False(t, a.IsWritable)
		require.False(t, a.IsSigner)
	}
	require.Empty(t, requireDiscriminator(t, instr, "get_token_info"))

	_, err = mytoken.BuildGetTokenInfoInstruction(mytoken.ProgramID, mytoken.GetTokenInfoInstructionConfig{})
	require.ErrorContains(t, err, "mint public key is required")
}

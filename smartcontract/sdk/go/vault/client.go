package vault

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gagliardetto/solana-go"
	"github.com/malbeclabs/anchorprobe/smartcontract/sdk/go/anchor"
)

type Client struct {
	log       *slog.Logger
	provider  *anchor.Provider
	programID solana.PublicKey
	idl       *anchor.IDL
}

// New returns a client for the vault program at programID. The vault belongs to the provider
// wallet.
func New(log *slog.Logger, provider *anchor.Provider, programID solana.PublicKey) *Client {
	return &Client{
		log:       log,
		provider:  provider,
		programID: programID,
		idl:       IDL(),
	}
}

func (c *Client) ProgramID() solana.PublicKey { return c.programID }

// VaultAddress returns the provider wallet's vault.
func (c *Client) VaultAddress() (solana.PublicKey, error) {
	pda, _, err := DeriveVaultPDA(c.programID, c.provider.Wallet())
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive PDA: %w", err)
	}
	return pda, nil
}

// Balance returns the lamports held by the vault. A vault that was never funded holds zero.
func (c *Client) Balance(ctx context.Context) (uint64, error) {
	pda, err := c.VaultAddress()
	if err != nil {
		return 0, err
	}
	res, err := c.provider.RPC().GetBalance(ctx, pda, c.provider.Commitment())
	if err != nil {
		return 0, fmt.Errorf("failed to get vault balance: %w", err)
	}
	if res == nil {
		return 0, nil
	}
	return res.Value, nil
}

// Deposit funds an empty vault. The program rejects deposits that do not exceed the rent-exempt
// minimum of a zero-byte account, so that is checked first.
func (c *Client) Deposit(ctx context.Context, amount uint64) (solana.Signature, error) {
	minimum, err := c.provider.RPC().GetMinimumBalanceForRentExemption(ctx, 0, c.provider.Commitment())
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to get rent-exempt minimum: %w", err)
	}
	if amount <= minimum {
		return solana.Signature{}, fmt.Errorf("%w: %d lamports must exceed the rent-exempt minimum of %d", ErrInvalidAmount, amount, minimum)
	}

	balance, err := c.Balance(ctx)
	if err != nil {
		return solana.Signature{}, err
	}
	if balance != 0 {
		return solana.Signature{}, fmt.Errorf("%w: %d lamports", ErrVaultNotEmpty, balance)
	}

	instruction, err := BuildDepositInstruction(c.programID, DepositInstructionConfig{
		Signer: c.provider.Wallet(),
		Amount: amount,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to build instruction: %w", err)
	}
	return c.execute(ctx, InstructionDeposit, instruction)
}

// Withdraw empties the vault back into the provider wallet.
func (c *Client) Withdraw(ctx context.Context) (solana.Signature, error) {
	balance, err := c.Balance(ctx)
	if err != nil {
		return solana.Signature{}, err
	}
	if balance == 0 {
		return solana.Signature{}, ErrVaultEmpty
	}

	instruction, err := BuildWithdrawInstruction(c.programID, WithdrawInstructionConfig{
		Signer: c.provider.Wallet(),
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to build instruction: %w", err)
	}
	return c.execute(ctx, InstructionWithdraw, instruction)
}

func (c *Client) execute(ctx context.Context, name string, instruction solana.Instruction) (solana.Signature, error) {
	sig, err := c.provider.SendAndConfirm(ctx, []solana.Instruction{instruction}, nil, &anchor.SendOptions{
		Label: ProgramName + "." + name,
		IDL:   c.idl,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to execute instruction: %w", err)
	}
	c.log.Debug("--> Executed instruction", "instruction", name, "sig", sig)
	return sig, nil
}

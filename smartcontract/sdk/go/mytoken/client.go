package mytoken

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/malbeclabs/anchorprobe/smartcontract/sdk/go/anchor"
)

type Client struct {
	log       *slog.Logger
	provider  *anchor.Provider
	programID solana.PublicKey
	idl       *anchor.IDL
}

// New returns a client for the token program at programID. The provider wallet pays for and signs
// every transaction, and fills in any authority left unset in an instruction config.
func New(log *slog.Logger, provider *anchor.Provider, programID solana.PublicKey) *Client {
	return &Client{
		log:       log,
		provider:  provider,
		programID: programID,
		idl:       IDL(),
	}
}

func (c *Client) ProgramID() solana.PublicKey { return c.programID }

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

// MintAddress returns the mint created by the provider wallet.
func (c *Client) MintAddress() (solana.PublicKey, error) {
	mint, _, err := DeriveMintPDA(c.programID, c.provider.Wallet())
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive PDA: %w", err)
	}
	return mint, nil
}

// InitializeMint creates the mint and metadata account owned by the payer.
func (c *Client) InitializeMint(ctx context.Context, config InitializeMintInstructionConfig) (solana.Signature, error) {
	if config.Payer.IsZero() {
		config.Payer = c.provider.Wallet()
	}
	instruction, err := BuildInitializeMintInstruction(c.programID, config)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to build instruction: %w", err)
	}
	return c.execute(ctx, InstructionInitializeMint, instruction)
}

// MintTokens mints amount base units to the receiver.
func (c *Client) MintTokens(ctx context.Context, config MintTokensInstructionConfig) (solana.Signature, error) {
	if config.Authority.IsZero() {
		config.Authority = c.provider.Wallet()
	}
	instruction, err := BuildMintTokensInstruction(c.programID, config)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to build instruction: %w", err)
	}
	return c.execute(ctx, InstructionMintTokens, instruction)
}

func (c *Client) TransferTokens(ctx context.Context, config TransferTokensInstructionConfig) (solana.Signature, error) {
	if config.Authority.IsZero() {
		config.Authority = c.provider.Wallet()
	}
	instruction, err := BuildTransferTokensInstruction(c.programID, config)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to build instruction: %w", err)
	}
	return c.execute(ctx, InstructionTransferTokens, instruction)
}

func (c *Client) Approve(ctx context.Context, config ApproveInstructionConfig) (solana.Signature, error) {
	if config.Owner.IsZero() {
		config.Owner = c.provider.Wallet()
	}
	instruction, err := BuildApproveInstruction(c.programID, config)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to build instruction: %w", err)
	}
	return c.execute(ctx, InstructionApprove, instruction)
}

func (c *Client) UpdateMetadata(ctx context.Context, config UpdateMetadataInstructionConfig) (solana.Signature, error) {
	if config.UpdateAuthority.IsZero() {
		config.UpdateAuthority = c.provider.Wallet()
	}
	instruction, err := BuildUpdateMetadataInstruction(c.programID, config)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to build instruction: %w", err)
	}
	return c.execute(ctx, InstructionUpdateMetadata, instruction)
}

func (c *Client) BurnTokens(ctx context.Context, config BurnTokensInstructionConfig) (solana.Signature, error) {
	if config.BurnAuthority.IsZero() {
		config.BurnAuthority = c.provider.Wallet()
	}
	instruction, err := BuildBurnTokensInstruction(c.programID, config)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to build instruction: %w", err)
	}
	return c.execute(ctx, InstructionBurnTokens, instruction)
}

// GetTokenInfo simulates get_token_info for mint and decodes its return data. Nothing is
// committed.
func (c *Client) GetTokenInfo(ctx context.Context, mint solana.PublicKey) (*TokenInfo, error) {
	instruction, err := BuildGetTokenInfoInstruction(c.programID, GetTokenInfoInstructionConfig{Mint: mint})
	if err != nil {
		return nil, fmt.Errorf("failed to build instruction: %w", err)
	}

	res, err := c.provider.Simulate(ctx, []solana.Instruction{instruction}, nil, c.idl)
	if err != nil {
		return nil, fmt.Errorf("failed to simulate instruction: %w", err)
	}
	data, ok, err := anchor.ReturnData(res.Logs, c.programID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s returned no data", InstructionGetTokenInfo)
	}

	var info TokenInfo
	if err := info.Deserialize(data); err != nil {
		return nil, fmt.Errorf("failed to deserialize token info: %w", err)
	}
	return &info, nil
}

func (c *Client) getAccountData(ctx context.Context, pk solana.PublicKey) ([]byte, error) {
	account, err := c.provider.RPC().GetAccountInfo(ctx, pk)
	if err != nil {
		if errors.Is(err, solanarpc.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account data: %w", err)
	}
	if account == nil || account.Value == nil || account.Value.Data == nil {
		return nil, ErrAccountNotFound
	}
	return account.Value.Data.GetBinary(), nil
}

// GetMint fetches and decodes a mint account.
func (c *Client) GetMint(ctx context.Context, mint solana.PublicKey) (*Mint, error) {
	data, err := c.getAccountData(ctx, mint)
	if err != nil {
		return nil, err
	}
	return DeserializeMint(data)
}

// GetTokenAccount fetches owner's associated token account for mint.
func (c *Client) GetTokenAccount(ctx context.Context, owner, mint solana.PublicKey) (*TokenAccount, error) {
	ata, _, err := DeriveAssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive token account: %w", err)
	}
	data, err := c.getAccountData(ctx, ata)
	if err != nil {
		return nil, err
	}
	return DeserializeTokenAccount(data)
}

package anchor_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/malbeclabs/anchorprobe/config"
	"github.com/malbeclabs/anchorprobe/smartcontract/sdk/go/anchor"
	"github.com/stretchr/testify/require"
)

func writeKeypair(t *testing.T, dir string, key solana.PrivateKey) string {
	t.Helper()
	ints := make([]int, len(key))
	for i, b := range key {
		ints[i] = int(b)
	}
	data, err := json.Marshal(ints)
	require.NoError(t, err)
	path := filepath.Join(dir, "id.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestSDK_Anchor_NewProvider_Validation(t *testing.T) {
	t.Parallel()

	wallet := solana.NewWallet().PrivateKey

	_, err := anchor.NewProvider(log, nil, wallet)
	require.ErrorIs(t, err, anchor.ErrConfiguration)

	_, err = anchor.NewProvider(log, &mockRPCClient{}, nil)
	require.ErrorIs(t, err, anchor.ErrNoSigner)
	require.ErrorIs(t, err, anchor.ErrConfiguration)

	_, err = anchor.NewProvider(log, &mockRPCClient{}, wallet, anchor.WithConfirmTimeout(0))
	require.ErrorIs(t, err, anchor.ErrConfiguration)

	p, err := anchor.NewProvider(log, &mockRPCClient{}, wallet,
		anchor.WithCommitment(solanarpc.CommitmentFinalized),
		anchor.WithConfirmTimeout(5*time.Second),
		anchor.WithEndpoint(config.LocalnetRPCURL, config.ClusterLocalnet),
	)
	require.NoError(t, err)
	require.Equal(t, wallet.PublicKey(), p.Wallet())
	require.Equal(t, solanarpc.CommitmentFinalized, p.Commitment())
	require.Equal(t, 5*time.Second, p.ConfirmTimeout())
	require.Equal(t, config.LocalnetRPCURL, p.RPCURL())
	require.Equal(t, config.ClusterLocalnet, p.Cluster())
}

func TestSDK_Anchor_ProviderFromEnv(t *testing.T) {
	dir := t.TempDir()
	wallet := solana.NewWallet().PrivateKey
	walletPath := writeKeypair(t, dir, wallet)

	t.Run("missing wallet", func(t *testing.T) {
		t.Setenv(config.EnvProviderURL, "http://127.0.0.1:8899")
		t.Setenv(config.EnvWallet, "")

		_, err := anchor.ProviderFromEnv(log)
		require.ErrorIs(t, err, anchor.ErrConfiguration)
		require.ErrorIs(t, err, config.ErrMissingEnv)
	})

	t.Run("missing url and cluster", func(t *testing.T) {
		t.Setenv(config.EnvProviderURL, "")
		t.Setenv(config.EnvCluster, "")
		t.Setenv(config.EnvWallet, walletPath)

		_, err := anchor.ProviderFromEnv(log)
		require.ErrorIs(t, err, anchor.ErrConfiguration)
	})

	t.Run("unreadable wallet", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("not a keypair"), 0o600))
		t.Setenv(config.EnvProviderURL, "http://127.0.0.1:8899")
		t.Setenv(config.EnvWallet, bad)

		_, err := anchor.ProviderFromEnv(log)
		require.ErrorIs(t, err, anchor.ErrConfiguration)
	})

	t.Run("ok", func(t *testing.T) {
		t.Setenv(config.EnvProviderURL, "")
		t.Setenv(config.EnvCluster, "localnet")
		t.Setenv("SOLANA_RPC_URL", "")
		t.Setenv(config.EnvWallet, walletPath)
		t.Setenv(config.EnvCommitment, "finalized")
		t.Setenv(config.EnvConfirmTimeout, "15s")

		p, err := anchor.ProviderFromEnv(log)
		require.NoError(t, err)
		require.Equal(t, wallet.PublicKey(), p.Wallet())
		require.Equal(t, config.LocalnetRPCURL, p.RPCURL())
		require.Equal(t, config.ClusterLocalnet, p.Cluster())
		require.Equal(t, solanarpc.CommitmentFinalized, p.Commitment())
		require.Equal(t, 15*time.Second, p.ConfirmTimeout())
	})
}

func TestSDK_Anchor_Provider_SendAndConfirm(t *testing.T) {
	t.Parallel()

	memo := solana.NewInstruction(solana.MemoProgramID, solana.AccountMetaSlice{}, []byte("probe"))

	t.Run("waits for the provider commitment", func(t *testing.T) {
		var polls atomic.Int64
		mockRPC := newConfirmingRPC(nil)
		mockRPC.GetSignatureStatusesFunc = func(_ context.Context, _ bool, _ ...solana.Signature) (*solanarpc.GetSignatureStatusesResult, error) {
			n := polls.Add(1)
			status := solanarpc.ConfirmationStatusProcessed
			if n >= 3 {
				status = solanarpc.ConfirmationStatusFinalized
			}
			return &solanarpc.GetSignatureStatusesResult{
				Value: []*solanarpc.SignatureStatusesResult{{ConfirmationStatus: status}},
			}, nil
		}
		provider, _ := newTestProvider(t, mockRPC, anchor.WithCommitment(solanarpc.CommitmentFinalized))

		sig, err := provider.SendAndConfirm(t.Context(), []solana.Instruction{memo}, nil, nil)
		require.NoError(t, err)
		require.False(t, sig.IsZero())
		require.EqualValues(t, 3, polls.Load())
	})

	t.Run("skip preflight from provider", func(t *testing.T) {
		var got solanarpc.TransactionOpts
		mockRPC := newConfirmingRPC(nil)
		mockRPC.SendTransactionWithOptsFunc = func(_ context.Context, tx *solana.Transaction, opts solanarpc.TransactionOpts) (solana.Signature, error) {
			got = opts
			return tx.Signatures[0], nil
		}
		provider, _ := newTestProvider(t, mockRPC, anchor.WithSkipPreflight(true))

		opts := &anchor.SendOptions{Label: "memo"}
		_, err := provider.SendAndConfirm(t.Context(), []solana.Instruction{memo}, nil, opts)
		require.NoError(t, err)
		require.True(t, got.SkipPreflight)
		require.Equal(t, solanarpc.CommitmentConfirmed, got.PreflightCommitment)
		require.False(t, opts.SkipPreflight)
	})

	t.Run("blockhash failure", func(t *testing.T) {
		mockRPC := &mockRPCClient{
			GetLatestBlockhashFunc: func(_ context.Context, _ solanarpc.CommitmentType) (*solanarpc.GetLatestBlockhashResult, error) {
				return nil, errors.New("rpc unavailable")
			},
		}
		provider, _ := newTestProvider(t, mockRPC)

		_, err := provider.SendAndConfirm(t.Context(), []solana.Instruction{memo}, nil, nil)
		require.ErrorIs(t, err, anchor.ErrRPC)
		require.ErrorContains(t, err, "failed to get latest blockhash")
	})

	t.Run("send failure", func(t *testing.T) {
		mockRPC := newConfirmingRPC(nil)
		mockRPC.SendTransactionWithOptsFunc = func(_ context.Context, _ *solana.Transaction, _ solanarpc.TransactionOpts) (solana.Signature, error) {
			return solana.Signature{}, errors.New("connection refused")
		}
		provider, _ := newTestProvider(t, mockRPC)

		_, err := provider.SendAndConfirm(t.Context(), []solana.Instruction{memo}, nil, nil)
		require.ErrorIs(t, err, anchor.ErrRPC)
		require.ErrorContains(t, err, "failed to send transaction")
	})

	t.Run("confirmation timeout", func(t *testing.T) {
		mockRPC := newConfirmingRPC(nil)
		mockRPC.GetSignatureStatusesFunc = func(_ context.Context, _ bool, _ ...solana.Signature) (*solanarpc.GetSignatureStatusesResult, error) {
			return &solanarpc.GetSignatureStatusesResult{Value: []*solanarpc.SignatureStatusesResult{nil}}, nil
		}
		provider, _ := newTestProvider(t, mockRPC, anchor.WithConfirmTimeout(50*time.Millisecond))

		start := time.Now()
		_, err := provider.SendAndConfirm(t.Context(), []solana.Instruction{memo}, nil, nil)
		require.ErrorIs(t, err, anchor.ErrRPC)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("caller cancellation", func(t *testing.T) {
		mockRPC := newConfirmingRPC(nil)
		mockRPC.GetSignatureStatusesFunc = func(_ context.Context, _ bool, _ ...solana.Signature) (*solanarpc.GetSignatureStatusesResult, error) {
			return &solanarpc.GetSignatureStatusesResult{Value: []*solanarpc.SignatureStatusesResult{nil}}, nil
		}
		provider, _ := newTestProvider(t, mockRPC)

		ctx, cancel := context.WithTimeout(t.Context(), 30*time.Millisecond)
		defer cancel()
		_, err := provider.SendAndConfirm(ctx, []solana.Instruction{memo}, nil, nil)
		require.ErrorIs(t, err, anchor.ErrRPC)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestSDK_Anchor_Provider_ProgramErrors(t *testing.T) {
	t.Parallel()

	instructionError := func(code float64) map[string]any {
		return map[string]any{
			"InstructionError": []any{float64(0), map[string]any{"Custom": code}},
		}
	}

	t.Run("custom error from signature status", func(t *testing.T) {
		mockRPC := newConfirmingRPC(nil)
		mockRPC.GetSignatureStatusesFunc = statusWith(solanarpc.ConfirmationStatusConfirmed, instructionError(6001))
		program, _ := newTestProgram(t, mockRPC)

		_, err := program.Methods("deposit", uint64(10)).RPC(t.Context())
		require.ErrorIs(t, err, anchor.ErrRPC)

		var pe *anchor.ProgramError
		require.ErrorAs(t, err, &pe)
		require.EqualValues(t, 6001, pe.Code)
		require.Equal(t, "InvalidAmount", pe.Name)
		require.Equal(t, "Invalid amount", pe.Msg)
		require.True(t, pe.IsCustom())
	})

	t.Run("framework error from preflight", func(t *testing.T) {
		mockRPC := newConfirmingRPC(nil)
		mockRPC.SendTransactionWithOptsFunc = func(_ context.Context, _ *solana.Transaction, _ solanarpc.TransactionOpts) (solana.Signature, error) {
			return solana.Signature{}, &jsonrpc.RPCError{
				Code:    -32002,
				Message: "Transaction simulation failed: Error processing Instruction 0: custom program error: 0x0",
				Data: map[string]any{
					"err":  instructionError(3000),
					"logs": []any{"Program log: AnchorError occurred."},
				},
			}
		}
		program, _ := newTestProgram(t, mockRPC)

		_, err := program.Methods("initialize").RPC(t.Context())
		require.ErrorIs(t, err, anchor.ErrRPC)

		var pe *anchor.ProgramError
		require.ErrorAs(t, err, &pe)
		require.Equal(t, "AccountDiscriminatorAlreadySet", pe.Name)
		require.False(t, pe.IsCustom())
		require.Equal(t, []string{"Program log: AnchorError occurred."}, pe.Logs)
	})

	t.Run("unknown code named from logs", func(t *testing.T) {
		mockRPC := &mockRPCClient{
			GetLatestBlockhashFunc: latestBlockhash,
			SimulateTransactionWithOptsFunc: func(_ context.Context, _ *solana.Transaction, _ *solanarpc.SimulateTransactionOpts) (*solanarpc.SimulateTransactionResponse, error) {
				return &solanarpc.SimulateTransactionResponse{
					Value: &solanarpc.SimulateTransactionResult{
						Err: instructionError(6042),
						Logs: []string{
							"Program log: AnchorError thrown in programs/my_project/src/lib.rs:12. Error Code: Unlucky. Error Number: 6042. Error Message: Not today.",
						},
					},
				}, nil
			},
		}
		program, _ := newTestProgram(t, mockRPC)

		_, err := program.Methods("initialize").Simulate(t.Context())
		var pe *anchor.ProgramError
		require.ErrorAs(t, err, &pe)
		require.Equal(t, "Unlucky", pe.Name)
		require.Equal(t, "Not today", pe.Msg)
		require.Contains(t, pe.Error(), "Unlucky (6042)")
	})

	t.Run("non instruction error", func(t *testing.T) {
		mockRPC := newConfirmingRPC(nil)
		mockRPC.GetSignatureStatusesFunc = statusWith(solanarpc.ConfirmationStatusConfirmed, "AccountNotFound")
		program, _ := newTestProgram(t, mockRPC)

		_, err := program.Methods("initialize").RPC(t.Context())
		require.ErrorIs(t, err, anchor.ErrRPC)
		var pe *anchor.ProgramError
		require.False(t, errors.As(err, &pe))
		require.ErrorContains(t, err, "AccountNotFound")
	})
}

package anchor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
)

const defaultPollInterval = 500 * time.Millisecond

type executor struct {
	log            *slog.Logger
	rpc            RPCClient
	commitment     solanarpc.CommitmentType
	confirmTimeout time.Duration
	pollInterval   time.Duration
}

// SendOptions tune a single submission.
type SendOptions struct {
	SkipPreflight bool

	// Label names the transaction in logs and metrics, usually the instruction name.
	Label string

	// IDL is used to decode program errors when set.
	IDL *IDL
}

// SimulateResult is the outcome of a successful simulation.
type SimulateResult struct {
	Logs          []string
	UnitsConsumed uint64
}

func (e *executor) buildSigned(ctx context.Context, instructions []solana.Instruction, payer solana.PrivateKey, signers []solana.PrivateKey) (*solana.Transaction, error) {
	blockhashResult, err := e.rpc.GetLatestBlockhash(ctx, e.commitment)
	if err != nil {
		MetricErrors.WithLabelValues(ErrorTypeBlockhash).Inc()
		return nil, fmt.Errorf("%w: failed to get latest blockhash: %w", ErrRPC, err)
	}
	if blockhashResult == nil || blockhashResult.Value == nil {
		MetricErrors.WithLabelValues(ErrorTypeBlockhash).Inc()
		return nil, fmt.Errorf("%w: empty latest blockhash response", ErrRPC)
	}

	tx, err := solana.NewTransaction(
		instructions,
		blockhashResult.Value.Blockhash,
		solana.TransactionPayer(payer.PublicKey()),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build transaction: %w", ErrRPC, err)
	}

	keys := make(map[solana.PublicKey]*solana.PrivateKey, len(signers)+1)
	keys[payer.PublicKey()] = &payer
	for i := range signers {
		keys[signers[i].PublicKey()] = &signers[i]
	}
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		return keys[key]
	})
	if err != nil {
		MetricErrors.WithLabelValues(ErrorTypeSign).Inc()
		return nil, fmt.Errorf("%w: failed to sign transaction (likely missing signer): %w", ErrRPC, err)
	}
	if len(tx.Signatures) == 0 {
		return nil, fmt.Errorf("%w: signed transaction appears malformed", ErrRPC)
	}
	return tx, nil
}

// SendAndConfirm submits the instructions in one transaction paid and signed by payer (plus any
// extra signers) and blocks until the transaction reaches the executor's commitment, the confirm
// timeout elapses, or ctx is done.
func (e *executor) SendAndConfirm(ctx context.Context, instructions []solana.Instruction, payer solana.PrivateKey, signers []solana.PrivateKey, opts *SendOptions) (solana.Signature, error) {
	var o SendOptions
	if opts != nil {
		o = *opts
	}
	if o.Label == "" {
		o.Label = "unknown"
	}

	sig, err := e.sendAndConfirm(ctx, instructions, payer, signers, &o)
	if err != nil {
		MetricTransactions.WithLabelValues(o.Label, ResultFailed).Inc()
		return solana.Signature{}, err
	}
	MetricTransactions.WithLabelValues(o.Label, ResultConfirmed).Inc()
	return sig, nil
}

func (e *executor) sendAndConfirm(ctx context.Context, instructions []solana.Instruction, payer solana.PrivateKey, signers []solana.PrivateKey, opts *SendOptions) (solana.Signature, error) {
	tx, err := e.buildSigned(ctx, instructions, payer, signers)
	if err != nil {
		return solana.Signature{}, err
	}

	start := time.Now()
	sig, err := e.rpc.SendTransactionWithOpts(ctx, tx, solanarpc.TransactionOpts{
		SkipPreflight:       opts.SkipPreflight,
		PreflightCommitment: e.commitment,
	})
	if err != nil {
		if pe := decodeRPCError(err, opts.IDL); pe != nil {
			MetricErrors.WithLabelValues(ErrorTypeProgram).Inc()
			return solana.Signature{}, fmt.Errorf("%w: failed to send transaction: %w", ErrRPC, pe)
		}
		MetricErrors.WithLabelValues(ErrorTypeSend).Inc()
		return solana.Signature{}, fmt.Errorf("%w: failed to send transaction: %w", ErrRPC, err)
	}
	e.log.Debug("--> Transaction sent", "sig", sig, "label", opts.Label)

	if err := e.waitForCommitment(ctx, sig, opts.IDL); err != nil {
		return solana.Signature{}, err
	}
	MetricConfirmationDuration.WithLabelValues(opts.Label).Observe(time.Since(start).Seconds())
	e.log.Debug("--> Transaction confirmed", "sig", sig, "commitment", e.commitment, "duration", time.Since(start))
	return sig, nil
}

func (e *executor) waitForCommitment(ctx context.Context, sig solana.Signature, idl *IDL) error {
	ctx, cancel := context.WithTimeout(ctx, e.confirmTimeout)
	defer cancel()

	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	start := time.Now()
	for {
		resp, err := e.rpc.GetSignatureStatuses(ctx, true, sig)
		if err != nil && ctx.Err() == nil {
			MetricErrors.WithLabelValues(ErrorTypeConfirm).Inc()
			return fmt.Errorf("%w: failed to get signature status for %s: %w", ErrRPC, sig, err)
		}
		if err == nil && resp != nil && len(resp.Value) > 0 && resp.Value[0] != nil {
			status := resp.Value[0]
			if status.Err != nil {
				if pe := decodeTransactionError(status.Err, nil, idl); pe != nil {
					MetricErrors.WithLabelValues(ErrorTypeProgram).Inc()
					return fmt.Errorf("%w: transaction %s failed: %w", ErrRPC, sig, pe)
				}
				MetricErrors.WithLabelValues(ErrorTypeProgram).Inc()
				return fmt.Errorf("%w: transaction %s failed: %v", ErrRPC, sig, status.Err)
			}
			if reachedCommitment(status.ConfirmationStatus, e.commitment) {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			MetricErrors.WithLabelValues(ErrorTypeConfirm).Inc()
			return fmt.Errorf("%w: transaction %s not %s after %s: %w", ErrRPC, sig, e.commitment, time.Since(start).Round(time.Millisecond), ctx.Err())
		case <-ticker.C:
		}
	}
}

// Simulate runs the instructions through simulateTransaction with signature verification.
func (e *executor) Simulate(ctx context.Context, instructions []solana.Instruction, payer solana.PrivateKey, signers []solana.PrivateKey, idl *IDL) (*SimulateResult, error) {
	tx, err := e.buildSigned(ctx, instructions, payer, signers)
	if err != nil {
		return nil, err
	}
	resp, err := e.rpc.SimulateTransactionWithOpts(ctx, tx, &solanarpc.SimulateTransactionOpts{
		SigVerify:  true,
		Commitment: e.commitment,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to simulate transaction: %w", ErrRPC, err)
	}
	if resp == nil || resp.Value == nil {
		return nil, fmt.Errorf("%w: empty simulation response", ErrRPC)
	}
	if resp.Value.Err != nil {
		if pe := decodeTransactionError(resp.Value.Err, resp.Value.Logs, idl); pe != nil {
			return nil, fmt.Errorf("%w: simulation failed: %w", ErrRPC, pe)
		}
		return nil, fmt.Errorf("%w: simulation failed: %v", ErrRPC, resp.Value.Err)
	}

	res := &SimulateResult{Logs: resp.Value.Logs}
	if resp.Value.UnitsConsumed != nil {
		res.UnitsConsumed = *resp.Value.UnitsConsumed
	}
	return res, nil
}

func commitmentRank(c string) int {
	switch c {
	case string(solanarpc.CommitmentProcessed):
		return 1
	case string(solanarpc.CommitmentConfirmed):
		return 2
	case string(solanarpc.CommitmentFinalized):
		return 3
	}
	return 0
}

func reachedCommitment(status solanarpc.ConfirmationStatusType, target solanarpc.CommitmentType) bool {
	got := commitmentRank(string(status))
	return got > 0 && got >= commitmentRank(string(target))
}

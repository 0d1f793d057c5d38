package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/malbeclabs/anchorprobe/config"
	"github.com/malbeclabs/anchorprobe/smartcontract/sdk/go/anchor"
	"github.com/mr-tron/base58"
)

const DefaultInstruction = "initialize"

// ProviderLoader builds the provider for a run.
type ProviderLoader func(log *slog.Logger) (*anchor.Provider, error)

type Config struct {
	Logger    *slog.Logger
	Workspace *anchor.Workspace

	// ProviderLoader defaults to anchor.ProviderFromEnv.
	ProviderLoader ProviderLoader

	// Cluster, when set, selects the cluster for the default loader instead of ANCHOR_PROVIDER_URL
	// and ANCHOR_CLUSTER.
	Cluster string

	// Instruction is the no-argument instruction to invoke. Defaults to initialize.
	Instruction string
}

func (c *Config) Validate() error {
	if c.Logger == nil {
		return errors.New("logger is required")
	}
	if c.Workspace == nil {
		return errors.New("workspace is required")
	}
	if c.ProviderLoader == nil {
		var opts []config.EnvOption
		if c.Cluster != "" {
			opts = append(opts, config.WithCluster(c.Cluster))
		}
		c.ProviderLoader = func(log *slog.Logger) (*anchor.Provider, error) {
			return anchor.ProviderFromEnv(log, opts...)
		}
	}
	if c.Instruction == "" {
		c.Instruction = DefaultInstruction
	}
	return nil
}

// Probe configures a provider, resolves a deployed program, invokes one instruction on it and
// reports the signature. Each step gates the next.
type Probe struct {
	log *slog.Logger
	cfg Config
}

type Result struct {
	Program   string
	ProgramID solana.PublicKey
	Signature solana.Signature
	Duration  time.Duration
}

func New(cfg Config) (*Probe, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}
	return &Probe{
		log: cfg.Logger,
		cfg: cfg,
	}, nil
}

// ConfigureProvider builds the provider from the process environment. It makes no network calls.
func (p *Probe) ConfigureProvider(ctx context.Context) (*anchor.Provider, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	provider, err := p.cfg.ProviderLoader(p.log)
	if err != nil {
		return nil, err
	}
	p.log.Debug("==> Provider configured", "cluster", provider.Cluster(), "rpcURL", provider.RPCURL(), "wallet", provider.Wallet(), "commitment", provider.Commitment())
	return provider, nil
}

// ResolveProgram returns a handle on the named program if it is deployed on the provider's cluster.
func (p *Probe) ResolveProgram(ctx context.Context, provider *anchor.Provider, name string) (*anchor.Program, error) {
	program, err := p.cfg.Workspace.Resolve(ctx, provider, name)
	if err != nil {
		return nil, err
	}
	p.log.Debug("==> Program resolved", "program", program.Name(), "programID", program.ProgramID())
	return program, nil
}

// InvokeInitialize submits the configured instruction and waits for it to reach the provider's
// commitment.
func (p *Probe) InvokeInitialize(ctx context.Context, program *anchor.Program) (solana.Signature, error) {
	sig, err := program.Methods(p.cfg.Instruction).RPC(ctx)
	if err != nil {
		return solana.Signature{}, err
	}
	if raw, err := base58.Decode(sig.String()); sig.IsZero() || err != nil || len(raw) != solana.SignatureLength {
		return solana.Signature{}, fmt.Errorf("%w: malformed transaction signature %q", anchor.ErrRPC, sig)
	}
	return sig, nil
}

func (p *Probe) Report(result *Result) {
	p.log.Info("Your transaction signature",
		"signature", result.Signature.String(),
		"program", result.Program,
		"programID", result.ProgramID,
		"duration", result.Duration,
	)
}

// Run executes one probe against the named program. The transaction is not retried.
func (p *Probe) Run(ctx context.Context, programName string) (*Result, error) {
	start := time.Now()

	provider, err := p.ConfigureProvider(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to configure provider: %w", err)
	}

	program, err := p.ResolveProgram(ctx, provider, programName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve program %q: %w", programName, err)
	}

	sig, err := p.InvokeInitialize(ctx, program)
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s.%s: %w", program.Name(), p.cfg.Instruction, err)
	}

	result := &Result{
		Program:   program.Name(),
		ProgramID: program.ProgramID(),
		Signature: sig,
		Duration:  time.Since(start),
	}
	p.Report(result)
	return result, nil
}

package anchor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/malbeclabs/anchorprobe/config"
	"github.com/malbeclabs/anchorprobe/tools/solana/pkg/jsonrpc"
	toolsrpc "github.com/malbeclabs/anchorprobe/tools/solana/pkg/rpc"
)

// Provider binds a cluster connection to the wallet that pays for and signs transactions. It is
// built once and passed to everything that talks to the cluster.
type Provider struct {
	log           *slog.Logger
	rpc           RPCClient
	wallet        solana.PrivateKey
	rpcURL        string
	cluster       string
	skipPreflight bool
	executor      *executor
}

type ProviderOption func(*Provider)

func WithCommitment(commitment solanarpc.CommitmentType) ProviderOption {
	return func(p *Provider) {
		p.executor.commitment = commitment
	}
}

func WithConfirmTimeout(timeout time.Duration) ProviderOption {
	return func(p *Provider) {
		p.executor.confirmTimeout = timeout
	}
}

func WithPollInterval(interval time.Duration) ProviderOption {
	return func(p *Provider) {
		p.executor.pollInterval = interval
	}
}

func WithSkipPreflight(skip bool) ProviderOption {
	return func(p *Provider) {
		p.skipPreflight = skip
	}
}

// WithEndpoint records the RPC URL and cluster moniker the client points at. They are used to key
// deployment checks and in logs.
func WithEndpoint(rpcURL, cluster string) ProviderOption {
	return func(p *Provider) {
		p.rpcURL = rpcURL
		p.cluster = cluster
	}
}

func NewProvider(log *slog.Logger, rpc RPCClient, wallet solana.PrivateKey, opts ...ProviderOption) (*Provider, error) {
	if rpc == nil {
		return nil, fmt.Errorf("%w: rpc client is required", ErrConfiguration)
	}
	if len(wallet) != 64 {
		return nil, ErrNoSigner
	}
	p := &Provider{
		log:    log,
		rpc:    rpc,
		wallet: wallet,
		executor: &executor{
			log:            log,
			rpc:            rpc,
			commitment:     solanarpc.CommitmentConfirmed,
			confirmTimeout: 60 * time.Second,
			pollInterval:   defaultPollInterval,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.executor.confirmTimeout <= 0 {
		return nil, fmt.Errorf("%w: confirm timeout must be positive", ErrConfiguration)
	}
	return p, nil
}

// ProviderFromEnv builds a provider from ANCHOR_PROVIDER_URL / ANCHOR_CLUSTER, ANCHOR_WALLET and
// the optional commitment, timeout and preflight variables. It performs no network calls.
func ProviderFromEnv(log *slog.Logger, opts ...config.EnvOption) (*Provider, error) {
	cfg, err := config.ProviderConfigFromEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return ProviderFromConfig(log, cfg)
}

// ProviderFromConfig builds a provider backed by a retrying RPC client.
func ProviderFromConfig(log *slog.Logger, cfg *config.ProviderConfig) (*Provider, error) {
	wallet, err := solana.PrivateKeyFromSolanaKeygenFile(cfg.WalletPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load wallet %s: %w", ErrConfiguration, cfg.WalletPath, err)
	}

	rpc := toolsrpc.New(cfg.RPCURL, &toolsrpc.Options{
		Retry: &jsonrpc.RetryOptions{Log: log},
	})

	return NewProvider(log, rpc, wallet,
		WithEndpoint(cfg.RPCURL, cfg.Cluster),
		WithCommitment(solanarpc.CommitmentType(cfg.Commitment)),
		WithConfirmTimeout(cfg.ConfirmTimeout),
		WithSkipPreflight(cfg.SkipPreflight),
	)
}

func (p *Provider) RPC() RPCClient { return p.rpc }

// Wallet returns the public key of the provider's signer.
func (p *Provider) Wallet() solana.PublicKey { return p.wallet.PublicKey() }

func (p *Provider) RPCURL() string { return p.rpcURL }

func (p *Provider) Cluster() string { return p.cluster }

func (p *Provider) Commitment() solanarpc.CommitmentType { return p.executor.commitment }

func (p *Provider) ConfirmTimeout() time.Duration { return p.executor.confirmTimeout }

func (p *Provider) Logger() *slog.Logger { return p.log }

// SendAndConfirm submits instructions paid for by the provider wallet and waits for confirmation.
func (p *Provider) SendAndConfirm(ctx context.Context, instructions []solana.Instruction, signers []solana.PrivateKey, opts *SendOptions) (solana.Signature, error) {
	var o SendOptions
	if opts != nil {
		o = *opts
	}
	o.SkipPreflight = o.SkipPreflight || p.skipPreflight
	return p.executor.SendAndConfirm(ctx, instructions, p.wallet, signers, &o)
}

// Simulate runs instructions through the cluster without committing them.
func (p *Provider) Simulate(ctx context.Context, instructions []solana.Instruction, signers []solana.PrivateKey, idl *IDL) (*SimulateResult, error) {
	return p.executor.Simulate(ctx, instructions, p.wallet, signers, idl)
}

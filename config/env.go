package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvProviderURL    = "ANCHOR_PROVIDER_URL"
	EnvCluster        = "ANCHOR_CLUSTER"
	EnvWallet         = "ANCHOR_WALLET"
	EnvCommitment     = "ANCHOR_COMMITMENT"
	EnvConfirmTimeout = "ANCHOR_CONFIRM_TIMEOUT"
	EnvSkipPreflight  = "ANCHOR_SKIP_PREFLIGHT"
	EnvWorkspace      = "ANCHOR_WORKSPACE"
)

var (
	ErrInvalidCluster = errors.New("invalid cluster")
	ErrMissingEnv     = errors.New("missing environment variable")
	ErrInvalidEnv     = errors.New("invalid environment variable")
)

// ProviderConfig is the connection and signer context read from the environment.
type ProviderConfig struct {
	Cluster        string
	RPCURL         string
	WalletPath     string
	Commitment     string
	ConfirmTimeout time.Duration
	SkipPreflight  bool
	WorkspaceDir   string
}

// LoadDotEnv loads a .env file into the process environment without overriding variables that are
// already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

type envOptions struct {
	cluster string
}

type EnvOption func(*envOptions)

// WithCluster selects the cluster by moniker in place of ANCHOR_PROVIDER_URL and ANCHOR_CLUSTER.
func WithCluster(moniker string) EnvOption {
	return func(o *envOptions) {
		o.cluster = strings.TrimSpace(moniker)
	}
}

// ProviderConfigFromEnv reads the provider configuration from the process environment.
//
// ANCHOR_PROVIDER_URL takes precedence over ANCHOR_CLUSTER; one of them is required, as is
// ANCHOR_WALLET. When both are set the URL is used and the cluster only names it. The wallet file
// must exist but is not parsed here.
func ProviderConfigFromEnv(opts ...EnvOption) (*ProviderConfig, error) {
	var o envOptions
	for _, opt := range opts {
		opt(&o)
	}

	cfg := &ProviderConfig{
		RPCURL:       strings.TrimSpace(os.Getenv(EnvProviderURL)),
		Cluster:      strings.TrimSpace(os.Getenv(EnvCluster)),
		WalletPath:   strings.TrimSpace(os.Getenv(EnvWallet)),
		Commitment:   getenv(EnvCommitment, DefaultCommitment),
		WorkspaceDir: getenv(EnvWorkspace, DefaultWorkspaceDir),
	}
	if o.cluster != "" {
		cfg.RPCURL = ""
		cfg.Cluster = o.cluster
	}

	switch {
	case cfg.RPCURL != "":
		if !strings.HasPrefix(cfg.RPCURL, "http://") && !strings.HasPrefix(cfg.RPCURL, "https://") {
			return nil, fmt.Errorf("%w: %s=%q is not an http(s) URL", ErrInvalidEnv, EnvProviderURL, cfg.RPCURL)
		}
		if cfg.Cluster == "" {
			cfg.Cluster = MonikerForRPCURL(cfg.RPCURL)
			break
		}
		cluster, err := ClusterConfigForMoniker(cfg.Cluster)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidEnv, EnvCluster, err)
		}
		cfg.Cluster = cluster.Moniker
	case cfg.Cluster != "":
		cluster, err := ClusterConfigForMoniker(cfg.Cluster)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidEnv, EnvCluster, err)
		}
		cfg.Cluster = cluster.Moniker
		cfg.RPCURL = cluster.RPCURL
	default:
		return nil, fmt.Errorf("%w: %s or %s", ErrMissingEnv, EnvProviderURL, EnvCluster)
	}

	if cfg.WalletPath == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingEnv, EnvWallet)
	}
	if strings.HasPrefix(cfg.WalletPath, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: failed to expand home directory: %w", ErrInvalidEnv, EnvWallet, err)
		}
		cfg.WalletPath = home + cfg.WalletPath[1:]
	}
	if _, err := os.Stat(cfg.WalletPath); err != nil {
		return nil, fmt.Errorf("%w: %s=%q: %w", ErrInvalidEnv, EnvWallet, cfg.WalletPath, err)
	}

	switch cfg.Commitment {
	case "processed", "confirmed", "finalized":
	default:
		return nil, fmt.Errorf("%w: %s=%q must be one of processed, confirmed, finalized", ErrInvalidEnv, EnvCommitment, cfg.Commitment)
	}

	timeout, err := time.ParseDuration(getenv(EnvConfirmTimeout, DefaultConfirmTimeout))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidEnv, EnvConfirmTimeout, err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("%w: %s must be positive", ErrInvalidEnv, EnvConfirmTimeout)
	}
	cfg.ConfirmTimeout = timeout

	if v := os.Getenv(EnvSkipPreflight); v != "" {
		skip, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidEnv, EnvSkipPreflight, err)
		}
		cfg.SkipPreflight = skip
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

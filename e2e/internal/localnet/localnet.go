package localnet

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/malbeclabs/anchorprobe/e2e/internal/logging"
	"github.com/malbeclabs/anchorprobe/e2e/internal/poll"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	EnvImage     = "ANCHOR_LOCALNET_IMAGE"
	DefaultImage = "solanalabs/solana:v1.18.26"

	internalRPCPort = "8899/tcp"
	programsDir     = "/programs"

	readyTimeout   = 60 * time.Second
	confirmTimeout = 30 * time.Second
	pollInterval   = 500 * time.Millisecond
)

type ProgramSpec struct {
	ID     solana.PublicKey
	SOPath string
}

type Spec struct {
	// Image defaults to $ANCHOR_LOCALNET_IMAGE, then DefaultImage.
	Image    string
	Programs []ProgramSpec
}

func (s *Spec) Validate() error {
	if s.Image == "" {
		s.Image = os.Getenv(EnvImage)
	}
	if s.Image == "" {
		s.Image = DefaultImage
	}
	for i, p := range s.Programs {
		if p.ID.IsZero() {
			return fmt.Errorf("program %d: id is required", i)
		}
		if p.SOPath == "" {
			return fmt.Errorf("program %d: so path is required", i)
		}
		if _, err := os.Stat(p.SOPath); err != nil {
			return fmt.Errorf("program %d: %w", i, err)
		}
	}
	return nil
}

// Args returns the solana-test-validator arguments that preload each program at its ID.
func (s *Spec) Args() []string {
	args := []string{
		"--reset",
		"--quiet",
		"--ledger", "/tmp/test-ledger",
		"--bind-address", "0.0.0.0",
		"--rpc-port", "8899",
	}
	for _, p := range s.Programs {
		args = append(args, "--bpf-program", p.ID.String(), containerSOPath(p))
	}
	return args
}

func containerSOPath(p ProgramSpec) string {
	return programsDir + "/" + p.ID.String() + filepath.Ext(p.SOPath)
}

// Localnet is a single solana-test-validator container.
type Localnet struct {
	log       *slog.Logger
	container testcontainers.Container
	rpcURL    string
	rpc       *solanarpc.Client
}

// Start runs solana-test-validator with the spec's programs loaded and waits until it reports
// healthy.
func Start(ctx context.Context, log *slog.Logger, spec Spec) (*Localnet, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate spec: %w", err)
	}
	log.Info("==> Starting localnet", "image", spec.Image, "programs", len(spec.Programs))

	files := make([]testcontainers.ContainerFile, 0, len(spec.Programs))
	for _, p := range spec.Programs {
		files = append(files, testcontainers.ContainerFile{
			HostFilePath:      p.SOPath,
			ContainerFilePath: containerSOPath(p),
			FileMode:          0o644,
		})
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        spec.Image,
			Entrypoint:   []string{"solana-test-validator"},
			Cmd:          spec.Args(),
			ExposedPorts: []string{internalRPCPort},
			Files:        files,
			WaitingFor:   wait.ForListeningPort(internalRPCPort).WithStartupTimeout(readyTimeout),
		},
		Started: true,
		Logger:  logging.NewTestcontainersAdapter(log),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start localnet: %w", err)
	}

	l := &Localnet{log: log, container: container}
	if err := l.setState(ctx); err != nil {
		_ = l.Terminate(context.Background())
		return nil, err
	}
	if err := l.waitReady(ctx); err != nil {
		_ = l.Terminate(context.Background())
		return nil, err
	}

	log.Info("--> Localnet started", "container", container.GetContainerID()[:12], "rpcURL", l.rpcURL)
	return l, nil
}

func (l *Localnet) setState(ctx context.Context) error {
	host, err := l.container.Host(ctx)
	if err != nil {
		return fmt.Errorf("failed to get localnet host: %w", err)
	}
	port, err := l.container.MappedPort(ctx, internalRPCPort)
	if err != nil {
		return fmt.Errorf("failed to get localnet rpc port: %w", err)
	}
	l.rpcURL = "http://" + net.JoinHostPort(host, port.Port())
	l.rpc = solanarpc.New(l.rpcURL)
	return nil
}

func (l *Localnet) waitReady(ctx context.Context) error {
	var loggedWait bool
	err := poll.Until(ctx, func() (bool, error) {
		health, err := l.rpc.GetHealth(ctx)
		if err != nil {
			if !loggedWait {
				l.log.Debug("--> Waiting for localnet to be ready", "rpcURL", l.rpcURL, "timeout", readyTimeout, "error", err)
				loggedWait = true
			}
			return false, nil
		}
		return health == solanarpc.HealthOk, nil
	}, readyTimeout, pollInterval)
	if err != nil {
		return fmt.Errorf("failed to wait for localnet to be ready: %w", err)
	}
	return nil
}

func (l *Localnet) RPCURL() string { return l.rpcURL }

func (l *Localnet) RPC() *solanarpc.Client { return l.rpc }

// Airdrop funds pk from the validator faucet and waits for the transfer to be confirmed.
func (l *Localnet) Airdrop(ctx context.Context, pk solana.PublicKey, lamports uint64) error {
	sig, err := l.rpc.RequestAirdrop(ctx, pk, lamports, solanarpc.CommitmentConfirmed)
	if err != nil {
		return fmt.Errorf("failed to request airdrop: %w", err)
	}
	err = poll.Until(ctx, func() (bool, error) {
		res, err := l.rpc.GetSignatureStatuses(ctx, false, sig)
		if err != nil || res == nil || len(res.Value) == 0 || res.Value[0] == nil {
			return false, nil
		}
		status := res.Value[0]
		if status.Err != nil {
			return false, fmt.Errorf("airdrop %s failed: %v", sig, status.Err)
		}
		return status.ConfirmationStatus == solanarpc.ConfirmationStatusConfirmed ||
			status.ConfirmationStatus == solanarpc.ConfirmationStatusFinalized, nil
	}, confirmTimeout, pollInterval)
	if err != nil {
		return fmt.Errorf("failed to confirm airdrop: %w", err)
	}
	l.log.Debug("--> Airdrop confirmed", "account", pk, "lamports", lamports, "signature", sig)
	return nil
}

// WaitDeployed waits until each program is an executable account.
func (l *Localnet) WaitDeployed(ctx context.Context, programs []ProgramSpec) error {
	for _, p := range programs {
		err := poll.Until(ctx, func() (bool, error) {
			info, err := l.rpc.GetAccountInfo(ctx, p.ID)
			if err != nil {
				// Not found until the validator has loaded the program.
				return false, nil
			}
			return info.Value != nil && info.Value.Executable, nil
		}, readyTimeout, pollInterval)
		if err != nil {
			return fmt.Errorf("program %s not deployed: %w", p.ID, err)
		}
	}
	return nil
}

func (l *Localnet) Terminate(ctx context.Context) error {
	if l.container == nil {
		return nil
	}
	if err := l.container.Terminate(ctx); err != nil {
		return fmt.Errorf("failed to terminate localnet: %w", err)
	}
	return nil
}

package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/malbeclabs/anchorprobe/config"
	"github.com/malbeclabs/anchorprobe/smartcontract/sdk/go/anchor"
	"github.com/spf13/cobra"
)

type ExitCode int

const (
	exitCodeSuccess = 0
	exitCodeError   = 1

	defaultTimeout = 2 * time.Minute
)

// BuildInfo is stamped into the binary at link time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

func Run(info BuildInfo) ExitCode {
	rootCmd := &cobra.Command{
		Use:           "anchor-probe",
		Short:         "Probe Anchor programs deployed on a Solana cluster.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(""); err != nil {
				return err
			}
			cluster, err := cmd.Flags().GetString("cluster")
			if err != nil {
				return fmt.Errorf("failed to get cluster flag: %w", err)
			}
			if cluster != "" {
				if _, err := config.ClusterConfigForMoniker(cluster); err != nil {
					return err
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			err := cmd.Help()
			if err != nil {
				return fmt.Errorf("failed to show help: %w", err)
			}
			return nil
		},
	}

	var verbose bool
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "set debug logging level")

	var workspace string
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Anchor workspace directory (default $ANCHOR_WORKSPACE or .)")

	var cluster string
	rootCmd.PersistentFlags().StringVarP(&cluster, "cluster", "c", "", "cluster moniker (localnet, devnet, testnet, mainnet-beta); takes precedence over ANCHOR_PROVIDER_URL and ANCHOR_CLUSTER")

	var timeout time.Duration
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "overall deadline for the command")

	rootCmd.AddCommand(
		NewInitializeCmd().Command(),
		NewProgramsCmd().Command(),
		NewVersionCmd(info).Command(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitCodeError
	}

	return exitCodeSuccess
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

type globalFlags struct {
	verbose   bool
	workspace string
	cluster   string
	timeout   time.Duration
}

func getGlobalFlags(cmd *cobra.Command) (*globalFlags, error) {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, fmt.Errorf("failed to get verbose flag: %w", err)
	}
	workspace, err := cmd.Flags().GetString("workspace")
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace flag: %w", err)
	}
	cluster, err := cmd.Flags().GetString("cluster")
	if err != nil {
		return nil, fmt.Errorf("failed to get cluster flag: %w", err)
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, fmt.Errorf("failed to get timeout flag: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", timeout)
	}
	return &globalFlags{
		verbose:   verbose,
		workspace: workspace,
		cluster:   cluster,
		timeout:   timeout,
	}, nil
}

// workspaceDir resolves the workspace directory from the flag, then ANCHOR_WORKSPACE.
func (f *globalFlags) workspaceDir() string {
	if f.workspace != "" {
		return f.workspace
	}
	if v := os.Getenv(config.EnvWorkspace); v != "" {
		return v
	}
	return config.DefaultWorkspaceDir
}

// workspaceCluster is the Anchor.toml programs section to read, from the flag then ANCHOR_CLUSTER.
// Empty lets the manifest's provider.cluster decide.
func (f *globalFlags) workspaceCluster() (string, error) {
	moniker := f.cluster
	if moniker == "" {
		moniker = strings.TrimSpace(os.Getenv(config.EnvCluster))
	}
	if moniker == "" {
		return "", nil
	}
	cluster, err := config.ClusterConfigForMoniker(moniker)
	if err != nil {
		return "", err
	}
	return cluster.Moniker, nil
}

func (f *globalFlags) loadWorkspace(log *slog.Logger) (*anchor.Workspace, error) {
	cluster, err := f.workspaceCluster()
	if err != nil {
		return nil, err
	}
	return anchor.LoadWorkspace(log, f.workspaceDir(), cluster)
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/malbeclabs/anchorprobe/internal/probe"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

type InitializeCmd struct{}

func NewInitializeCmd() *InitializeCmd {
	return &InitializeCmd{}
}

func (c *InitializeCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "initialize <program>",
		Short: "Invoke a no-argument instruction on a deployed workspace program and print the signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags, err := getGlobalFlags(cmd)
			if err != nil {
				return err
			}
			instruction, err := cmd.Flags().GetString("instruction")
			if err != nil {
				return fmt.Errorf("failed to get instruction flag: %w", err)
			}
			interval, err := cmd.Flags().GetDuration("interval")
			if err != nil {
				return fmt.Errorf("failed to get interval flag: %w", err)
			}
			metricsAddr, err := cmd.Flags().GetString("metrics-addr")
			if err != nil {
				return fmt.Errorf("failed to get metrics-addr flag: %w", err)
			}

			log := newLogger(flags.verbose)

			ws, err := flags.loadWorkspace(log)
			if err != nil {
				return err
			}

			p, err := probe.New(probe.Config{
				Logger:      log,
				Workspace:   ws,
				Cluster:     flags.cluster,
				Instruction: instruction,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if interval <= 0 {
				return runOnce(ctx, p, args[0], flags.timeout)
			}

			if metricsAddr != "" {
				if err := serveMetrics(ctx, log, metricsAddr); err != nil {
					return err
				}
			}
			return runEvery(ctx, log, p, args[0], flags.timeout, interval)
		},
	}

	cmd.Flags().String("instruction", probe.DefaultInstruction, "no-argument instruction to invoke")
	cmd.Flags().Duration("interval", 0, "repeat the probe at this interval until interrupted; 0 runs once")
	cmd.Flags().String("metrics-addr", "", "address to serve prometheus metrics on while repeating")

	return cmd
}

func runOnce(ctx context.Context, p *probe.Probe, program string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	_, err := p.Run(ctx, program)
	return err
}

// runEvery probes until ctx is done. Failed runs are logged and do not stop the loop.
func runEvery(ctx context.Context, log *slog.Logger, p *probe.Probe, program string, timeout, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := runOnce(ctx, p, program, timeout); err != nil && ctx.Err() == nil {
			log.Error("Probe failed", "program", program, "error", err)
		}
		select {
		case <-ctx.Done():
			log.Info("Stopping probe loop")
			return nil
		case <-ticker.C:
		}
	}
}

func serveMetrics(ctx context.Context, log *slog.Logger, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start prometheus metrics server listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	log.Info("Prometheus metrics server listening", "address", listener.Addr().String())
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Failed to serve prometheus metrics", "error", err)
			os.Exit(exitCodeError)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	return nil
}

package jsonrpc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
)

const (
	defaultMaxAttempts     = 4
	defaultInitialInterval = 250 * time.Millisecond
	defaultMaxInterval     = 4 * time.Second
)

// JSON-RPC error codes that signal a busy or lagging node rather than a bad request.
const (
	codeNodeUnhealthy      = -32005
	codeBlockNotAvailable  = -32004
	codeNodeBehind         = -32014
	codeSendTxPreflightErr = -32002
)

type RetryOptions struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration

	// Log receives one debug record per retried attempt when set.
	Log *slog.Logger
}

func (o *RetryOptions) withDefaults() RetryOptions {
	out := RetryOptions{}
	if o != nil {
		out = *o
	}
	if out.MaxAttempts <= 0 {
		out.MaxAttempts = defaultMaxAttempts
	}
	if out.InitialInterval <= 0 {
		out.InitialInterval = defaultInitialInterval
	}
	if out.MaxInterval <= 0 {
		out.MaxInterval = defaultMaxInterval
	}
	return out
}

// WithRetry wraps a JSON-RPC client so that transport failures and busy-node responses are retried
// with exponential backoff. Preflight failures and other request errors are returned immediately.
func WithRetry(inner solanarpc.JSONRPCClient, opt *RetryOptions) solanarpc.JSONRPCClient {
	return &retryingClient{inner: inner, opt: opt.withDefaults()}
}

type retryingClient struct {
	inner solanarpc.JSONRPCClient
	opt   RetryOptions
}

func (c *retryingClient) CallForInto(ctx context.Context, out any, method string, params []any) error {
	return c.do(ctx, method, func() error {
		return c.inner.CallForInto(ctx, out, method, params)
	})
}

func (c *retryingClient) CallWithCallback(ctx context.Context, method string, params []any, callback func(*http.Request, *http.Response) error) error {
	return c.do(ctx, method, func() error {
		return c.inner.CallWithCallback(ctx, method, params, callback)
	})
}

func (c *retryingClient) CallBatch(ctx context.Context, requests jsonrpc.RPCRequests) (jsonrpc.RPCResponses, error) {
	var resp jsonrpc.RPCResponses
	err := c.do(ctx, "batch", func() error {
		r, err := c.inner.CallBatch(ctx, requests)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	return resp, err
}

func (c *retryingClient) do(ctx context.Context, method string, call func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.opt.InitialInterval
	bo.MaxInterval = c.opt.MaxInterval
	bo.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(c.opt.MaxAttempts-1)), ctx)

	op := func() error {
		err := call()
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		if c.opt.Log != nil {
			c.opt.Log.Debug("--> Retrying RPC call", "method", method, "wait", wait, "error", err)
		}
	}

	return backoff.RetryNotify(op, policy, notify)
}

// IsRetryable reports whether a JSON-RPC call that failed with err is worth repeating.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		switch rpcErr.Code {
		case codeNodeUnhealthy, codeBlockNotAvailable, codeNodeBehind:
			return true
		case codeSendTxPreflightErr:
			return false
		}
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	for _, target := range []error{io.EOF, io.ErrUnexpectedEOF, syscall.ECONNRESET, syscall.ECONNREFUSED, syscall.EPIPE, syscall.ETIMEDOUT} {
		if errors.Is(err, target) {
			return true
		}
	}

	type hasStatusCode interface{ StatusCode() int }
	var sc hasStatusCode
	if errors.As(err, &sc) {
		switch sc.StatusCode() {
		case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, fragment := range []string{"connection reset by peer", "broken pipe", "use of closed network connection", "too many requests"} {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

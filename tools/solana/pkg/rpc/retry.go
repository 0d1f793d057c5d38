package rpc

import (
	"net"
	"net/http"
	"time"

	solrpc "github.com/gagliardetto/solana-go/rpc"
	soljsonrpc "github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/klauspost/compress/gzhttp"
	"github.com/malbeclabs/anchorprobe/tools/solana/pkg/jsonrpc"
)

const (
	defaultMaxConnsPerHost = 8
	defaultRequestTimeout  = 2 * time.Minute
	defaultIdleConnTimeout = 90 * time.Second
	defaultKeepAlive       = 60 * time.Second
	defaultDialTimeout     = 10 * time.Second
)

// Options configures a Solana RPC client built by New.
type Options struct {
	// Headers are sent with every request, e.g. provider API keys.
	Headers map[string]string

	// RequestTimeout bounds a single HTTP round trip. Zero uses the default.
	RequestTimeout time.Duration

	// Retry configures retries of transport failures. Nil uses the jsonrpc defaults.
	Retry *jsonrpc.RetryOptions
}

// New creates a Solana JSON-RPC client whose HTTP transport negotiates gzip and whose calls are
// retried on transport failures and busy-node responses.
func New(rpcEndpoint string, opts *Options) *solrpc.Client {
	if opts == nil {
		opts = &Options{}
	}
	clientOpts := &soljsonrpc.RPCClientOpts{
		HTTPClient:    newHTTP(opts.RequestTimeout),
		CustomHeaders: opts.Headers,
	}
	inner := soljsonrpc.NewClientWithOpts(rpcEndpoint, clientOpts)
	return solrpc.NewWithCustomRPCClient(jsonrpc.WithRetry(inner, opts.Retry))
}

func newHTTP(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: gzhttp.Transport(newHTTPTransport()),
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxConnsPerHost:     defaultMaxConnsPerHost,
		MaxIdleConnsPerHost: defaultMaxConnsPerHost,
		IdleConnTimeout:     defaultIdleConnTimeout,
		TLSHandshakeTimeout: 10 * time.Second,
		ForceAttemptHTTP2:   true,
		DialContext: (&net.Dialer{
			Timeout:   defaultDialTimeout,
			KeepAlive: defaultKeepAlive,
		}).DialContext,
	}
}

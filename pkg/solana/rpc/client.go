package rpc

import (
	"net"
	"net/http"
	"time"

	solrpc "github.com/gagliardetto/solana-go/rpc"
	soljsonrpc "github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/klauspost/compress/gzhttp"

	"github.com/malbeclabs/tokenmeta/pkg/solana/jsonrpc"
)

const (
	defaultMaxConnsPerHost = 4
	defaultRequestTimeout  = 30 * time.Second
	defaultIdleConnTimeout = 90 * time.Second
	defaultKeepAlive       = 30 * time.Second
	defaultDialTimeout     = 10 * time.Second
)

type Options struct {
	// Headers are sent with every request, e.g. provider API keys.
	Headers map[string]string

	// Retry bounds transport-level retries; nil uses the defaults.
	Retry *jsonrpc.RetryOptions

	// RequestTimeout caps a single HTTP round trip. Zero uses defaultRequestTimeout.
	RequestTimeout time.Duration
}

// New returns a Solana RPC client for the endpoint whose calls are retried on transient
// transport failures and whose responses may be gzip-compressed.
func New(endpoint string, opts Options) *solrpc.Client {
	clientOpts := &soljsonrpc.RPCClientOpts{
		HTTPClient:    newHTTP(opts.RequestTimeout),
		CustomHeaders: opts.Headers,
	}
	inner := soljsonrpc.NewClientWithOpts(endpoint, clientOpts)
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
		IdleConnTimeout:     defaultIdleConnTimeout,
		MaxConnsPerHost:     defaultMaxConnsPerHost,
		MaxIdleConnsPerHost: defaultMaxConnsPerHost,
		Proxy:               http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   defaultDialTimeout,
			KeepAlive: defaultKeepAlive,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		TLSHandshakeTimeout: 10 * time.Second,
	}
}

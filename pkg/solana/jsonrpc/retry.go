package jsonrpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v5"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
)

const (
	defaultMaxAttempts = 4
	defaultBaseBackoff = 500 * time.Millisecond
	defaultMaxBackoff  = 5 * time.Second
)

// RetryOptions bounds the transport-level retry of a single JSON-RPC call. It only ever retries
// failures where the request provably did not reach a healthy node, so it is safe for sendTransaction.
type RetryOptions struct {
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

func (o *RetryOptions) withDefaults() RetryOptions {
	opt := RetryOptions{}
	if o != nil {
		opt = *o
	}
	if opt.MaxAttempts <= 0 {
		opt.MaxAttempts = defaultMaxAttempts
	}
	if opt.BaseBackoff <= 0 {
		opt.BaseBackoff = defaultBaseBackoff
	}
	if opt.MaxBackoff <= 0 {
		opt.MaxBackoff = defaultMaxBackoff
	}
	return opt
}

func (o RetryOptions) backOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = o.BaseBackoff
	b.MaxInterval = o.MaxBackoff
	b.Multiplier = 2
	b.RandomizationFactor = 0.1
	return b
}

func WithRetry(inner solanarpc.JSONRPCClient, opt *RetryOptions) solanarpc.JSONRPCClient {
	return &retryingJSONRPCClient{inner: inner, opt: opt.withDefaults()}
}

type retryingJSONRPCClient struct {
	inner solanarpc.JSONRPCClient
	opt   RetryOptions
}

func (c *retryingJSONRPCClient) CallForInto(ctx context.Context, out any, method string, params []any) error {
	return doRetry(ctx, c.opt, func(ctx context.Context) error {
		return c.inner.CallForInto(ctx, out, method, params)
	})
}

func (c *retryingJSONRPCClient) CallWithCallback(ctx context.Context, method string, params []any, callback func(*http.Request, *http.Response) error) error {
	return doRetry(ctx, c.opt, func(ctx context.Context) error {
		return c.inner.CallWithCallback(ctx, method, params, callback)
	})
}

func (c *retryingJSONRPCClient) CallBatch(ctx context.Context, requests jsonrpc.RPCRequests) (jsonrpc.RPCResponses, error) {
	resp, err := backoff.Retry(ctx, func() (jsonrpc.RPCResponses, error) {
		resp, err := c.inner.CallBatch(ctx, requests)
		if err != nil && !isRetryableJSONRPC(err) {
			return nil, backoff.Permanent(err)
		}
		return resp, err
	}, backoff.WithBackOff(c.opt.backOff()), backoff.WithMaxTries(uint(c.opt.MaxAttempts)))
	return resp, unwrapPermanent(err)
}

func doRetry(ctx context.Context, opt RetryOptions, f func(context.Context) error) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := f(ctx)
		if err != nil && !isRetryableJSONRPC(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, backoff.WithBackOff(opt.backOff()), backoff.WithMaxTries(uint(opt.MaxAttempts)))
	return unwrapPermanent(err)
}

func unwrapPermanent(err error) error {
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return permanent.Unwrap()
	}
	return err
}

func isRetryableJSONRPC(err error) bool {
	if err == nil {
		return false
	}

	// Context cancellation is authoritative
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ETIMEDOUT) {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "connection reset by peer") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "use of closed network connection") {
		return true
	}

	var httpErr *jsonrpc.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.Code {
		case http.StatusTooManyRequests,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	// Node is behind or still catching up; these never indicate the call was applied.
	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		switch rpcErr.Code {
		case -32005, -32004:
			return true
		}
	}

	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return false
	}

	return false
}

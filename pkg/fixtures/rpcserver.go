// Package fixtures provides an in-process Solana JSON-RPC server for tests.
package fixtures

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// RPCHandler answers one JSON-RPC method. Returning an *RPCError renders a JSON-RPC error; any other
// error renders an internal error.
type RPCHandler func(params []json.RawMessage) (any, error)

type RPCServer struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]RPCHandler
	calls    map[string]int
	header   http.Header
}

// NewRPCServer starts a server that is closed when the test ends. Unknown methods fail the test.
func NewRPCServer(t testing.TB) *RPCServer {
	t.Helper()

	s := &RPCServer{
		handlers: make(map[string]RPCHandler),
		calls:    make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		_ = r.Body.Close()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var req struct {
			ID     any               `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		h, ok := s.handlers[req.Method]
		s.calls[req.Method]++
		s.header = r.Header.Clone()
		s.mu.Unlock()

		var resp []byte
		if !ok {
			t.Errorf("unexpected rpc method %q", req.Method)
			resp, err = RenderResponse(req.ID, nil, &RPCError{Code: -32601, Message: "Method not found"})
		} else {
			result, herr := h(req.Params)
			switch e := herr.(type) {
			case nil:
				resp, err = RenderResponse(req.ID, result, nil)
			case *RPCError:
				resp, err = RenderResponse(req.ID, nil, e)
			default:
				resp, err = RenderResponse(req.ID, nil, &RPCError{Code: -32603, Message: e.Error()})
			}
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(resp)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *RPCServer) Handle(method string, h RPCHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = h
}

// Calls returns how many times method was requested.
func (s *RPCServer) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// LastHeader returns the named header of the most recent request.
func (s *RPCServer) LastHeader(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.header.Get(name)
}

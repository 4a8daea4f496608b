package fixtures

import (
	"encoding/base64"
	"encoding/json"

	"github.com/gagliardetto/solana-go"
)

// RPCError is returned by an RPCHandler to produce a JSON-RPC error object instead of a result.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return e.Message
}

type envelope struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *RPCError `json:"error,omitempty"`
}

// RenderResponse renders a JSON-RPC 2.0 response for the given request id.
func RenderResponse(id any, result any, rpcErr *RPCError) ([]byte, error) {
	env := envelope{JSONRPC: "2.0", ID: id}
	if rpcErr != nil {
		env.Error = rpcErr
	} else {
		env.Result = result
		if result == nil {
			env.Result = json.RawMessage("null")
		}
	}
	return json.Marshal(env)
}

func withContext(value any) map[string]any {
	return map[string]any{
		"context": map[string]any{"slot": 1},
		"value":   value,
	}
}

// VersionResult is a getVersion result.
func VersionResult(core string) map[string]any {
	return map[string]any{
		"solana-core": core,
		"feature-set": 1,
	}
}

// AccountInfoResult is a getAccountInfo result for an account holding data, owned by owner.
func AccountInfoResult(owner solana.PublicKey, data []byte) map[string]any {
	return withContext(map[string]any{
		"data":       []string{base64.StdEncoding.EncodeToString(data), "base64"},
		"executable": false,
		"lamports":   5616720,
		"owner":      owner.String(),
		"rentEpoch":  0,
		"space":      len(data),
	})
}

// MissingAccountResult is a getAccountInfo result for an account that does not exist.
func MissingAccountResult() map[string]any {
	return withContext(nil)
}

// LatestBlockhashResult is a getLatestBlockhash result.
func LatestBlockhashResult(blockhash solana.Hash) map[string]any {
	return withContext(map[string]any{
		"blockhash":            blockhash.String(),
		"lastValidBlockHeight": 1000,
	})
}

// SignatureStatusResult is a getSignatureStatuses result for a single signature. An empty status
// renders an unknown signature.
func SignatureStatusResult(status string, txErr any) map[string]any {
	if status == "" {
		return withContext([]any{nil})
	}
	return withContext([]any{
		map[string]any{
			"slot":               1,
			"confirmations":      nil,
			"err":                txErr,
			"confirmationStatus": status,
		},
	})
}

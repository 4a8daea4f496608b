package provisioner_test

import (
	"encoding/json"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"
	"github.com/stretchr/testify/require"

	"github.com/malbeclabs/tokenmeta/controlplane/provisioner/internal/provisioner"
	"github.com/malbeclabs/tokenmeta/pkg/fixtures"
	"github.com/malbeclabs/tokenmeta/pkg/solana/jsonrpc"
	"github.com/malbeclabs/tokenmeta/pkg/solana/rpc"
	tokenmetadata "github.com/malbeclabs/tokenmeta/sdk/tokenmetadata/go"
)

type onChainMetadata struct {
	Key                  uint8
	UpdateAuthority      solana.PublicKey
	Mint                 solana.PublicKey
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	Creators             *[]tokenmetadata.Creator
	PrimarySaleHappened  bool
	IsMutable            bool
}

func padded(s string, n int) string {
	return s + strings.Repeat("\x00", n-len(s))
}

func metadataAccountData(t *testing.T, mint, updateAuthority solana.PublicKey, id provisioner.TokenIdentity) []byte {
	t.Helper()

	data, err := borsh.Serialize(onChainMetadata{
		Key:             uint8(tokenmetadata.KeyMetadataV1),
		UpdateAuthority: updateAuthority,
		Mint:            mint,
		Name:            padded(id.Name, tokenmetadata.MaxNameLength),
		Symbol:          padded(id.Symbol, tokenmetadata.MaxSymbolLength),
		URI:             padded(id.URI, tokenmetadata.MaxURILength),
		IsMutable:       true,
	})
	require.NoError(t, err)
	return data
}

// newRPCLedger serves a single mint's metadata account over JSON-RPC. The account appears once a
// transaction has been sent.
func newRPCLedger(t *testing.T, mint, updateAuthority solana.PublicKey, id provisioner.TokenIdentity) *fixtures.RPCServer {
	t.Helper()

	data := metadataAccountData(t, mint, updateAuthority, id)

	var landed atomic.Bool
	srv := fixtures.NewRPCServer(t)
	srv.Handle("getVersion", func([]json.RawMessage) (any, error) {
		return fixtures.VersionResult("2.1.0"), nil
	})
	srv.Handle("getAccountInfo", func([]json.RawMessage) (any, error) {
		if !landed.Load() {
			return fixtures.MissingAccountResult(), nil
		}
		return fixtures.AccountInfoResult(tokenmetadata.ProgramID, data), nil
	})
	srv.Handle("getLatestBlockhash", func([]json.RawMessage) (any, error) {
		return fixtures.LatestBlockhashResult(solana.Hash{9, 9, 9}), nil
	})
	srv.Handle("sendTransaction", func(params []json.RawMessage) (any, error) {
		var encoded string
		if err := json.Unmarshal(params[0], &encoded); err != nil {
			return nil, err
		}
		tx, err := solana.TransactionFromBase64(encoded)
		if err != nil {
			return nil, &fixtures.RPCError{Code: -32602, Message: err.Error()}
		}
		if err := tx.VerifySignatures(); err != nil {
			return nil, &fixtures.RPCError{Code: -32003, Message: "Transaction signature verification failure"}
		}
		landed.Store(true)
		return tx.Signatures[0].String(), nil
	})
	srv.Handle("getSignatureStatuses", func([]json.RawMessage) (any, error) {
		return fixtures.SignatureStatusResult("finalized", nil), nil
	})
	return srv
}

func TestProvisioner_OverJSONRPC(t *testing.T) {
	t.Parallel()

	signer := solana.NewWallet().PrivateKey
	mint := solana.NewWallet().PublicKey()
	id := testIdentity()
	srv := newRPCLedger(t, mint, signer.PublicKey(), id)

	ledger := rpc.New(srv.URL, rpc.Options{Retry: &jsonrpc.RetryOptions{MaxAttempts: 2, BaseBackoff: time.Millisecond}})
	p, err := provisioner.New(provisioner.Config{
		Logger:       logger,
		Ledger:       ledger,
		Signer:       signer,
		PollInterval: 5 * time.Millisecond,
	})
	require.NoError(t, err)
	require.Equal(t, signer.PublicKey(), p.Signer())

	_, err = p.Lookup(t.Context(), mint)
	require.ErrorIs(t, err, tokenmetadata.ErrMetadataNotFound)

	res, err := p.Provision(t.Context(), provisioner.Request{Identity: id, Mint: mint})
	require.NoError(t, err)
	require.False(t, res.AlreadyProvisioned)
	require.Contains(t, res.String(), res.Signature.String())
	require.Equal(t, 1, srv.Calls("sendTransaction"))

	again, err := p.Provision(t.Context(), provisioner.Request{Identity: id, Mint: mint})
	require.NoError(t, err)
	require.True(t, again.AlreadyProvisioned)
	require.Equal(t, 1, srv.Calls("sendTransaction"))

	m, err := p.Lookup(t.Context(), mint)
	require.NoError(t, err)
	require.Equal(t, res.MetadataAddress, m.PubKey)
	require.Equal(t, id.Name, m.Name)
	require.Equal(t, id.Symbol, m.Symbol)
	require.Equal(t, id.URI, m.URI)
	require.Equal(t, signer.PublicKey(), m.UpdateAuthority)
}

func TestProvisioner_Lookup_Errors(t *testing.T) {
	t.Parallel()

	srv := fixtures.NewRPCServer(t)
	srv.Handle("getAccountInfo", func([]json.RawMessage) (any, error) {
		return nil, &fixtures.RPCError{Code: -32602, Message: "Invalid param: WrongSize"}
	})

	p, _ := newTestProvisioner(t, rpc.New(srv.URL, rpc.Options{}))

	_, err := p.Lookup(t.Context(), solana.PublicKey{})
	require.ErrorIs(t, err, provisioner.ErrInvalidRequest)

	_, err = p.Lookup(t.Context(), solana.NewWallet().PublicKey())
	require.ErrorIs(t, err, provisioner.ErrAccountLookup)
}

func TestProvisioner_OverJSONRPC_PreflightRejectedAfterConcurrentCreation(t *testing.T) {
	t.Parallel()

	signer := solana.NewWallet().PrivateKey
	mint := solana.NewWallet().PublicKey()
	id := testIdentity()
	srv := newRPCLedger(t, mint, signer.PublicKey(), id)

	// Another caller's transaction lands between our lookup and our send.
	created := metadataAccountData(t, mint, signer.PublicKey(), id)
	var landed atomic.Bool
	srv.Handle("getAccountInfo", func([]json.RawMessage) (any, error) {
		if !landed.Load() {
			return fixtures.MissingAccountResult(), nil
		}
		return fixtures.AccountInfoResult(tokenmetadata.ProgramID, created), nil
	})
	srv.Handle("sendTransaction", func([]json.RawMessage) (any, error) {
		landed.Store(true)
		return nil, &fixtures.RPCError{
			Code:    -32002,
			Message: "Transaction simulation failed: Error processing Instruction 0: custom program error: 0x0",
			Data: map[string]any{
				"err": map[string]any{"InstructionError": []any{0, map[string]any{"Custom": 0}}},
				"logs": []string{
					"Program metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s invoke [1]",
					"Allocate: account Address { address: x, base: None } already in use",
				},
			},
		}
	})

	p, err := provisioner.New(provisioner.Config{
		Logger:       logger,
		Ledger:       rpc.New(srv.URL, rpc.Options{}),
		Signer:       signer,
		PollInterval: 5 * time.Millisecond,
	})
	require.NoError(t, err)

	res, err := p.Provision(t.Context(), provisioner.Request{Identity: id, Mint: mint})
	require.NoError(t, err)
	require.True(t, res.AlreadyProvisioned)
	require.Equal(t, 1, srv.Calls("sendTransaction"))
	require.Equal(t, 0, srv.Calls("getSignatureStatuses"))
}

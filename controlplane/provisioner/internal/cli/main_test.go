package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"
	"github.com/stretchr/testify/require"

	"github.com/malbeclabs/tokenmeta/pkg/fixtures"
	tokenmetadata "github.com/malbeclabs/tokenmeta/sdk/tokenmetadata/go"
)

// execute runs the root command with args and returns what it printed to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd(BuildInfo{Version: "test", Commit: "none", Date: "unknown"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	cmd.SetContext(t.Context())
	err := cmd.Execute()
	return out.String(), err
}

func writeKeygenFile(t *testing.T, key solana.PrivateKey) string {
	t.Helper()

	ints := make([]int, len(key))
	for i, b := range key {
		ints[i] = int(b)
	}
	data, err := json.Marshal(ints)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

type metadataAccount struct {
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

func encodeMetadata(t *testing.T, mint, updateAuthority solana.PublicKey, name, symbol, uri string, mutable bool) []byte {
	t.Helper()

	pad := func(s string, n int) string { return s + strings.Repeat("\x00", n-len(s)) }
	data, err := borsh.Serialize(metadataAccount{
		Key:             uint8(tokenmetadata.KeyMetadataV1),
		UpdateAuthority: updateAuthority,
		Mint:            mint,
		Name:            pad(name, tokenmetadata.MaxNameLength),
		Symbol:          pad(symbol, tokenmetadata.MaxSymbolLength),
		URI:             pad(uri, tokenmetadata.MaxURILength),
		IsMutable:       mutable,
	})
	require.NoError(t, err)
	return data
}

// newLedgerServer serves an empty ledger that creates the metadata account once a transaction lands.
func newLedgerServer(t *testing.T, account func() []byte) (*fixtures.RPCServer, *atomic.Bool) {
	t.Helper()

	var landed atomic.Bool
	srv := fixtures.NewRPCServer(t)
	srv.Handle("getVersion", func([]json.RawMessage) (any, error) {
		return fixtures.VersionResult("2.1.0"), nil
	})
	srv.Handle("getAccountInfo", func([]json.RawMessage) (any, error) {
		if !landed.Load() {
			return fixtures.MissingAccountResult(), nil
		}
		return fixtures.AccountInfoResult(tokenmetadata.ProgramID, account()), nil
	})
	srv.Handle("getLatestBlockhash", func([]json.RawMessage) (any, error) {
		return fixtures.LatestBlockhashResult(solana.Hash{7}), nil
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
	return srv, &landed
}

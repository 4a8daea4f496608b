package explorer_test

import (
	"testing"

	"github.com/malbeclabs/tokenmeta/pkg/explorer"
	"github.com/stretchr/testify/require"
)

func TestExplorer_BuildLink(t *testing.T) {
	t.Parallel()

	const sig = "5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW"

	tests := []struct {
		name      string
		kind      explorer.Kind
		value     string
		network   string
		customURL string
		want      string
		wantErr   error
	}{
		{
			name:    "devnet tx",
			kind:    explorer.KindTx,
			value:   sig,
			network: "devnet",
			want:    "https://explorer.solana.com/tx/" + sig + "?cluster=devnet",
		},
		{
			name:    "testnet address",
			kind:    explorer.KindAddress,
			value:   "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s",
			network: "testnet",
			want:    "https://explorer.solana.com/address/metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s?cluster=testnet",
		},
		{
			name:    "mainnet-beta tx",
			kind:    explorer.KindTx,
			value:   sig,
			network: "mainnet-beta",
			want:    "https://explorer.solana.com/tx/" + sig + "?cluster=mainnet-beta",
		},
		{
			name:    "mainnet alias",
			kind:    explorer.KindTx,
			value:   sig,
			network: "mainnet",
			want:    "https://explorer.solana.com/tx/" + sig + "?cluster=mainnet-beta",
		},
		{
			name:  "empty network is mainnet-beta",
			kind:  explorer.KindTx,
			value: sig,
			want:  "https://explorer.solana.com/tx/" + sig + "?cluster=mainnet-beta",
		},
		{
			name:      "localnet uses custom cluster",
			kind:      explorer.KindTx,
			value:     sig,
			network:   "localnet",
			customURL: "http://127.0.0.1:8899",
			want:      "https://explorer.solana.com/tx/" + sig + "?cluster=custom&customUrl=http%3A%2F%2F127.0.0.1%3A8899",
		},
		{
			name:    "block",
			kind:    explorer.KindBlock,
			value:   "12345",
			network: "devnet",
			want:    "https://explorer.solana.com/block/12345?cluster=devnet",
		},
		{
			name:    "empty value",
			kind:    explorer.KindTx,
			network: "devnet",
			wantErr: explorer.ErrValueRequired,
		},
		{
			name:    "unknown kind",
			kind:    explorer.Kind("account"),
			value:   sig,
			network: "devnet",
			wantErr: explorer.ErrInvalidKind,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := explorer.BuildLink(tc.kind, tc.value, tc.network, tc.customURL)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.Empty(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

package tokenmetadata

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

var testMint = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

func TestDeriveMetadataPDA_Deterministic(t *testing.T) {
	t.Parallel()

	addr, bump, err := DeriveMetadataPDA(ProgramID, testMint)
	require.NoError(t, err)
	require.False(t, addr.IsZero())

	addr2, bump2, err := DeriveMetadataPDA(ProgramID, testMint)
	require.NoError(t, err)
	require.Equal(t, addr, addr2)
	require.Equal(t, bump, bump2)
}

func TestDeriveMetadataPDA_MatchesCanonicalDerivation(t *testing.T) {
	t.Parallel()

	for range 8 {
		mint := solana.NewWallet().PublicKey()

		got, gotBump, err := DeriveMetadataPDA(ProgramID, mint)
		require.NoError(t, err)

		want, wantBump, err := solana.FindTokenMetadataAddress(mint)
		require.NoError(t, err)

		require.Equal(t, want, got, "mint %s", mint)
		require.Equal(t, wantBump, gotBump)
		require.False(t, solana.IsOnCurve(got[:]), "PDA must be off curve")
	}
}

func TestDeriveMetadataPDA_DependsOnProgramAndMint(t *testing.T) {
	t.Parallel()

	other := solana.NewWallet().PublicKey()

	a, _, err := DeriveMetadataPDA(ProgramID, testMint)
	require.NoError(t, err)
	b, _, err := DeriveMetadataPDA(ProgramID, other)
	require.NoError(t, err)
	c, _, err := DeriveMetadataPDA(solana.NewWallet().PublicKey(), testMint)
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.NotEqual(t, a, c)
}

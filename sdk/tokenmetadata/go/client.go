package tokenmetadata

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

var ErrMetadataNotFound = errors.New("metadata account not found")

// RPCClient is the minimal RPC interface needed by the client.
type RPCClient interface {
	GetAccountInfoWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error)
}

// Client provides read-only access to metadata accounts.
type Client struct {
	rpc        RPCClient
	programID  solana.PublicKey
	commitment rpc.CommitmentType
}

// New creates a client for the given program. An empty commitment uses confirmed.
func New(rpcClient RPCClient, programID solana.PublicKey, commitment rpc.CommitmentType) *Client {
	if commitment == "" {
		commitment = rpc.CommitmentConfirmed
	}
	return &Client{rpc: rpcClient, programID: programID, commitment: commitment}
}

func (c *Client) ProgramID() solana.PublicKey {
	return c.programID
}

// GetMetadata fetches and decodes the metadata account for a mint.
func (c *Client) GetMetadata(ctx context.Context, mint solana.PublicKey) (*Metadata, error) {
	pda, _, err := DeriveMetadataPDA(c.programID, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive metadata PDA: %w", err)
	}

	info, err := c.rpc.GetAccountInfoWithOpts(ctx, pda, &rpc.GetAccountInfoOpts{
		Commitment: c.commitment,
		Encoding:   solana.EncodingBase64,
	})
	if errors.Is(err, rpc.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrMetadataNotFound, pda)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata account %s: %w", pda, err)
	}
	if info == nil || info.Value == nil {
		return nil, fmt.Errorf("%w: %s", ErrMetadataNotFound, pda)
	}
	if !info.Value.Owner.Equals(c.programID) {
		return nil, fmt.Errorf("metadata account %s owned by %s, expected %s", pda, info.Value.Owner, c.programID)
	}

	m, err := DeserializeMetadata(info.Value.Data.GetBinary())
	if err != nil {
		return nil, fmt.Errorf("failed to decode metadata account %s: %w", pda, err)
	}
	m.PubKey = pda
	return m, nil
}

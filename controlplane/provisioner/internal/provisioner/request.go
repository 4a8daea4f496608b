package provisioner

import (
	"errors"

	"github.com/gagliardetto/solana-go"

	tokenmetadata "github.com/malbeclabs/tokenmeta/sdk/tokenmetadata/go"
)

var errURIRequired = errors.New("uri is required")

// TokenIdentity is the descriptive metadata for a token. Limits are in encoded UTF-8 bytes.
type TokenIdentity struct {
	Name   string
	Symbol string
	URI    string
}

func (id TokenIdentity) Validate() error {
	if id.URI == "" {
		return errURIRequired
	}
	data := tokenmetadata.DataV2{Name: id.Name, Symbol: id.Symbol, URI: id.URI}
	return data.Validate()
}

type Flags struct {
	MintAuthorityRevoked bool
	MetadataImmutable    bool
}

type Request struct {
	Identity TokenIdentity

	// Payer funds the account and, unless the metadata is immutable, becomes its update authority.
	// Zero means the configured signer.
	Payer solana.PublicKey
	Mint  solana.PublicKey
	Flags Flags
}

type Result struct {
	AlreadyProvisioned bool
	MetadataAddress    solana.PublicKey
	Signature          solana.Signature
	ExplorerURL        string
}

// String returns the explorer link, or the empty string when nothing was submitted.
func (r *Result) String() string {
	if r == nil || r.AlreadyProvisioned {
		return ""
	}
	return r.ExplorerURL
}

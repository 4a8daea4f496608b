package tokenmetadata

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"
)

var (
	ErrEmptyAccountData = errors.New("empty account data")
	ErrUnexpectedKey    = errors.New("unexpected account key")
	ErrTruncatedAccount = errors.New("truncated metadata account")
)

// metadataLayout mirrors the fixed leading fields of the on-chain account. Trailing optional fields
// (edition nonce, token standard, collection, uses) are not decoded.
type metadataLayout struct {
	Key                  Key
	UpdateAuthority      solana.PublicKey
	Mint                 solana.PublicKey
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	Creators             *[]Creator
	PrimarySaleHappened  bool
	IsMutable            bool
}

// DeserializeMetadata decodes a metadata account's data.
func DeserializeMetadata(data []byte) (*Metadata, error) {
	if len(data) == 0 {
		return nil, ErrEmptyAccountData
	}
	if Key(data[0]) != KeyMetadataV1 {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedKey, Key(data[0]))
	}

	var raw metadataLayout
	if err := borsh.Deserialize(&raw, data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruncatedAccount, err)
	}

	m := &Metadata{
		Key:                  raw.Key,
		UpdateAuthority:      raw.UpdateAuthority,
		Mint:                 raw.Mint,
		Name:                 trimPadding(raw.Name),
		Symbol:               trimPadding(raw.Symbol),
		URI:                  trimPadding(raw.URI),
		SellerFeeBasisPoints: raw.SellerFeeBasisPoints,
		PrimarySaleHappened:  raw.PrimarySaleHappened,
		IsMutable:            raw.IsMutable,
	}
	// None decodes to a pointer to an empty slice.
	if raw.Creators != nil && len(*raw.Creators) > 0 {
		m.Creators = *raw.Creators
	}
	return m, nil
}

func trimPadding(s string) string {
	return strings.TrimRight(s, "\x00")
}

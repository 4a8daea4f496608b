package tokenmetadata

import (
	"github.com/gagliardetto/solana-go"
)

type Creator struct {
	Address  solana.PublicKey
	Verified bool
	Share    uint8
}

type Collection struct {
	Verified bool
	Key      solana.PublicKey
}

type UseMethod uint8

const (
	UseMethodBurn     UseMethod = 0
	UseMethodMultiple UseMethod = 1
	UseMethodSingle   UseMethod = 2
)

type Uses struct {
	UseMethod UseMethod
	Remaining uint64
	Total     uint64
}

// DataV2 is the descriptive payload written by CreateMetadataAccountV3. Nil pointers encode as None.
type DataV2 struct {
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	Creators             *[]Creator
	Collection           *Collection
	Uses                 *Uses
}

// Metadata is the decoded prefix of a metadata account. Names and symbols are stored NUL-padded
// on chain and are returned trimmed.
type Metadata struct {
	PubKey               solana.PublicKey
	Key                  Key
	UpdateAuthority      solana.PublicKey
	Mint                 solana.PublicKey
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	Creators             []Creator
	PrimarySaleHappened  bool
	IsMutable            bool
}

// HasUpdateAuthority reports whether anyone can still update the metadata.
func (m *Metadata) HasUpdateAuthority() bool {
	return m.IsMutable && !m.UpdateAuthority.IsZero()
}

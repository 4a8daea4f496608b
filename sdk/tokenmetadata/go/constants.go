package tokenmetadata

import "github.com/gagliardetto/solana-go"

// ProgramID is the canonical Metaplex Token Metadata program.
var ProgramID = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

const (
	// Byte limits enforced by the program on the encoded UTF-8 strings.
	MaxNameLength   = 32
	MaxSymbolLength = 10
	MaxURILength    = 200

	MaxCreators             = 5
	MaxSellerFeeBasisPoints = 10000
)

// InstructionType is the one-byte instruction discriminator.
type InstructionType uint8

const (
	InstructionCreateMetadataAccountV3 InstructionType = 33
)

// Key identifies the account type stored in the first byte of program-owned accounts.
type Key uint8

const (
	KeyUninitialized     Key = 0
	KeyEditionV1         Key = 1
	KeyMasterEditionV1   Key = 2
	KeyReservationListV1 Key = 3
	KeyMetadataV1        Key = 4
)

func (k Key) String() string {
	switch k {
	case KeyUninitialized:
		return "uninitialized"
	case KeyEditionV1:
		return "edition_v1"
	case KeyMasterEditionV1:
		return "master_edition_v1"
	case KeyReservationListV1:
		return "reservation_list_v1"
	case KeyMetadataV1:
		return "metadata_v1"
	default:
		return "unknown"
	}
}

package tokenmetadata

import (
	"github.com/gagliardetto/solana-go"
)

var seedMetadata = []byte("metadata")

// DeriveMetadataPDA returns the metadata account address for a mint under the given program.
func DeriveMetadataPDA(programID, mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{seedMetadata, programID[:], mint[:]}, programID)
}

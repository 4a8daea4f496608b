package tokenmetadata

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"
)

var (
	ErrMetadataRequired      = errors.New("metadata account is required")
	ErrMintRequired          = errors.New("mint is required")
	ErrMintAuthorityRequired = errors.New("mint authority is required")
	ErrPayerRequired         = errors.New("payer is required")
	ErrNameRequired          = errors.New("name is required")
	ErrNameTooLong           = errors.New("name too long")
	ErrSymbolTooLong         = errors.New("symbol too long")
	ErrURITooLong            = errors.New("uri too long")
	ErrInvalidSellerFee      = errors.New("seller fee basis points out of range")
	ErrTooManyCreators       = errors.New("too many creators")
)

type CreateMetadataAccountV3Config struct {
	Metadata      solana.PublicKey
	Mint          solana.PublicKey
	MintAuthority solana.PublicKey
	Payer         solana.PublicKey

	// UpdateAuthority may be the null address, leaving the metadata without an updater.
	UpdateAuthority         solana.PublicKey
	UpdateAuthorityIsSigner bool

	Data      DataV2
	IsMutable bool
}

func (c *CreateMetadataAccountV3Config) Validate() error {
	if c.Metadata.IsZero() {
		return ErrMetadataRequired
	}
	if c.Mint.IsZero() {
		return ErrMintRequired
	}
	if c.MintAuthority.IsZero() {
		return ErrMintAuthorityRequired
	}
	if c.Payer.IsZero() {
		return ErrPayerRequired
	}
	return c.Data.Validate()
}

// Validate checks the payload against the program's limits. Lengths are in encoded bytes.
func (d *DataV2) Validate() error {
	if d.Name == "" {
		return ErrNameRequired
	}
	if len(d.Name) > MaxNameLength {
		return fmt.Errorf("%w: %d bytes, max %d", ErrNameTooLong, len(d.Name), MaxNameLength)
	}
	if len(d.Symbol) > MaxSymbolLength {
		return fmt.Errorf("%w: %d bytes, max %d", ErrSymbolTooLong, len(d.Symbol), MaxSymbolLength)
	}
	if len(d.URI) > MaxURILength {
		return fmt.Errorf("%w: %d bytes, max %d", ErrURITooLong, len(d.URI), MaxURILength)
	}
	if d.SellerFeeBasisPoints > MaxSellerFeeBasisPoints {
		return fmt.Errorf("%w: %d", ErrInvalidSellerFee, d.SellerFeeBasisPoints)
	}
	if d.Creators != nil && len(*d.Creators) > MaxCreators {
		return fmt.Errorf("%w: %d, max %d", ErrTooManyCreators, len(*d.Creators), MaxCreators)
	}
	return nil
}

type collectionDetails struct {
	Kind uint8
	Size uint64
}

type createMetadataAccountArgsV3 struct {
	Data              DataV2
	IsMutable         bool
	CollectionDetails *collectionDetails
}

// EncodeCreateMetadataAccountV3 returns the instruction data: the discriminator followed by the
// borsh-encoded arguments. Collection details are always None.
func EncodeCreateMetadataAccountV3(data DataV2, isMutable bool) ([]byte, error) {
	args, err := borsh.Serialize(createMetadataAccountArgsV3{
		Data:      data,
		IsMutable: isMutable,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize instruction args: %w", err)
	}
	return append([]byte{byte(InstructionCreateMetadataAccountV3)}, args...), nil
}

// BuildCreateMetadataAccountV3Instruction builds the instruction that creates a metadata account
// for a fungible mint.
func BuildCreateMetadataAccountV3Instruction(programID solana.PublicKey, cfg CreateMetadataAccountV3Config) (solana.Instruction, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	data, err := EncodeCreateMetadataAccountV3(cfg.Data, cfg.IsMutable)
	if err != nil {
		return nil, err
	}

	accounts := solana.AccountMetaSlice{
		{PublicKey: cfg.Metadata, IsWritable: true, IsSigner: false},
		{PublicKey: cfg.Mint, IsWritable: false, IsSigner: false},
		{PublicKey: cfg.MintAuthority, IsWritable: false, IsSigner: true},
		{PublicKey: cfg.Payer, IsWritable: true, IsSigner: true},
		{PublicKey: cfg.UpdateAuthority, IsWritable: false, IsSigner: cfg.UpdateAuthorityIsSigner},
		{PublicKey: solana.SystemProgramID, IsWritable: false, IsSigner: false},
	}

	return &solana.GenericInstruction{
		ProgID:        programID,
		AccountValues: accounts,
		DataBytes:     data,
	}, nil
}

package provisioner

import (
	"github.com/gagliardetto/solana-go"
)

type Variant int

const (
	// VariantNone means no instruction was selected, either because the request failed before
	// selection or because the metadata already existed.
	VariantNone Variant = iota
	// VariantDefaultAuthority leaves the payer as update authority on a mutable account.
	VariantDefaultAuthority
	// VariantExplicitAuthority sets the update authority explicitly, to the null address when the
	// metadata is immutable.
	VariantExplicitAuthority
)

func (v Variant) String() string {
	switch v {
	case VariantNone:
		return "none"
	case VariantDefaultAuthority:
		return "default_authority"
	case VariantExplicitAuthority:
		return "explicit_authority"
	default:
		return "unknown"
	}
}

// NullAuthority is the all-zero address. Nobody can sign for it, so metadata pointing at it can
// never be updated.
var NullAuthority = solana.PublicKey{}

type Plan struct {
	Variant                 Variant
	UpdateAuthority         solana.PublicKey
	UpdateAuthorityIsSigner bool
	IsMutable               bool
}

// SelectPlan maps the flags onto one of two instruction variants. Either flag routes through the
// explicit variant; a revoked mint authority alone still yields a mutable account updatable by the
// payer.
func SelectPlan(payer solana.PublicKey, flags Flags) Plan {
	if flags.MintAuthorityRevoked || flags.MetadataImmutable {
		updateAuthority := payer
		if flags.MetadataImmutable {
			updateAuthority = NullAuthority
		}
		return Plan{
			Variant:                 VariantExplicitAuthority,
			UpdateAuthority:         updateAuthority,
			UpdateAuthorityIsSigner: updateAuthority.Equals(payer),
			IsMutable:               !flags.MetadataImmutable,
		}
	}
	return Plan{
		Variant:                 VariantDefaultAuthority,
		UpdateAuthority:         payer,
		UpdateAuthorityIsSigner: true,
		IsMutable:               true,
	}
}

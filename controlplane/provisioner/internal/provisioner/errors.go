package provisioner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// Error kinds. Match with errors.Is; the *Error also unwraps to the underlying ledger error.
var (
	ErrInvalidIdentity     = errors.New("invalid token identity")
	ErrInvalidRequest      = errors.New("invalid provisioning request")
	ErrConnectivity        = errors.New("ledger unreachable")
	ErrAccountLookup       = errors.New("metadata account lookup failed")
	ErrSubmission          = errors.New("transaction submission failed")
	ErrConfirmationTimeout = errors.New("transaction confirmation timed out")
)

// Error describes a failed provisioning step. ErrConfirmationTimeout is indeterminate: the
// transaction may still land, so callers should re-run Provision rather than resubmit.
type Error struct {
	Kind      error
	Op        string
	Address   solana.PublicKey
	Signature solana.Signature
	Err       error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if !e.Address.IsZero() {
		fmt.Fprintf(&b, " (address=%s", e.Address)
		if !e.Signature.IsZero() {
			fmt.Fprintf(&b, ", signature=%s", e.Signature)
		}
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindName is the short label used for metrics and logs.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrInvalidIdentity):
		return "invalid_identity"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrConnectivity):
		return "connectivity"
	case errors.Is(err, ErrAccountLookup):
		return "account_lookup"
	case errors.Is(err, ErrSubmission):
		return "submission"
	case errors.Is(err, ErrConfirmationTimeout):
		return "confirmation_timeout"
	default:
		return "unknown"
	}
}

package provisioner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/jonboulle/clockwork"

	tokenmetadata "github.com/malbeclabs/tokenmeta/sdk/tokenmetadata/go"
)

var (
	ErrLoggerRequired        = errors.New("logger is required")
	ErrLedgerRequired        = errors.New("ledger client is required")
	ErrSignerRequired        = errors.New("signer is required")
	ErrSignerInvalid         = errors.New("signer is invalid")
	ErrUnsupportedCommitment = errors.New("unsupported commitment")
)

const (
	defaultConfirmTimeout = 60 * time.Second
	defaultPollInterval   = 500 * time.Millisecond
	defaultNetwork        = "devnet"
)

// LedgerClient is the subset of the Solana RPC client used by the provisioner.
type LedgerClient interface {
	GetVersion(ctx context.Context) (*solanarpc.GetVersionResult, error)
	GetAccountInfoWithOpts(ctx context.Context, account solana.PublicKey, opts *solanarpc.GetAccountInfoOpts) (*solanarpc.GetAccountInfoResult, error)
	GetLatestBlockhash(ctx context.Context, commitment solanarpc.CommitmentType) (*solanarpc.GetLatestBlockhashResult, error)
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts solanarpc.TransactionOpts) (solana.Signature, error)
	GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, sigs ...solana.Signature) (*solanarpc.GetSignatureStatusesResult, error)
}

type Config struct {
	Logger *slog.Logger
	Ledger LedgerClient
	Signer solana.PrivateKey

	// ProgramID defaults to the canonical token metadata program.
	ProgramID solana.PublicKey

	// Network is the explorer cluster moniker. CustomRPCURL is only used for localnet links.
	Network      string
	CustomRPCURL string

	Commitment     solanarpc.CommitmentType
	ConfirmTimeout time.Duration
	PollInterval   time.Duration
	Clock          clockwork.Clock

	Metrics bool
}

func (c *Config) Validate() error {
	if c.Logger == nil {
		return ErrLoggerRequired
	}
	if c.Ledger == nil {
		return ErrLedgerRequired
	}
	if c.Signer == nil {
		return ErrSignerRequired
	}
	if !c.Signer.IsValid() {
		return ErrSignerInvalid
	}
	if c.ProgramID.IsZero() {
		c.ProgramID = tokenmetadata.ProgramID
	}
	if c.Network == "" {
		c.Network = defaultNetwork
	}
	if c.Commitment == "" {
		c.Commitment = solanarpc.CommitmentConfirmed
	}
	if _, ok := commitmentLevel(c.Commitment); !ok {
		return ErrUnsupportedCommitment
	}
	if c.ConfirmTimeout <= 0 {
		c.ConfirmTimeout = defaultConfirmTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	return nil
}

func commitmentLevel(c solanarpc.CommitmentType) (int, bool) {
	switch c {
	case solanarpc.CommitmentProcessed:
		return 1, true
	case solanarpc.CommitmentConfirmed:
		return 2, true
	case solanarpc.CommitmentFinalized:
		return 3, true
	default:
		return 0, false
	}
}

func confirmationLevel(s solanarpc.ConfirmationStatusType) int {
	switch s {
	case solanarpc.ConfirmationStatusProcessed:
		return 1
	case solanarpc.ConfirmationStatusConfirmed:
		return 2
	case solanarpc.ConfirmationStatusFinalized:
		return 3
	default:
		return 0
	}
}

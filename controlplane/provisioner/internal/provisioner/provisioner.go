package provisioner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"

	"github.com/malbeclabs/tokenmeta/controlplane/provisioner/internal/metrics"
	"github.com/malbeclabs/tokenmeta/pkg/explorer"
	tokenmetadata "github.com/malbeclabs/tokenmeta/sdk/tokenmetadata/go"
)

type Provisioner struct {
	log      *slog.Logger
	cfg      Config
	metadata *tokenmetadata.Client
}

func New(cfg Config) (*Provisioner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Provisioner{
		log:      cfg.Logger,
		cfg:      cfg,
		metadata: tokenmetadata.New(cfg.Ledger, cfg.ProgramID, cfg.Commitment),
	}, nil
}

func (p *Provisioner) Signer() solana.PublicKey {
	return p.cfg.Signer.PublicKey()
}

// Provision creates the metadata account for req.Mint unless it already exists. It is safe to
// call repeatedly for the same mint.
func (p *Provisioner) Provision(ctx context.Context, req Request) (*Result, error) {
	plan := Plan{}
	res, err := p.provision(ctx, req, &plan)
	p.observe(res, err, plan.Variant)
	return res, err
}

func (p *Provisioner) provision(ctx context.Context, req Request, plan *Plan) (*Result, error) {
	payer, err := p.validate(req)
	if err != nil {
		return nil, err
	}

	if _, err := p.cfg.Ledger.GetVersion(ctx); err != nil {
		return nil, &Error{Kind: ErrConnectivity, Op: "check connectivity", Err: err}
	}

	metadataPDA, _, err := tokenmetadata.DeriveMetadataPDA(p.cfg.ProgramID, req.Mint)
	if err != nil {
		return nil, &Error{Kind: ErrInvalidRequest, Op: "derive metadata address", Err: err}
	}
	log := p.log.With("mint", req.Mint, "metadata", metadataPDA)

	exists, err := p.accountExists(ctx, metadataPDA)
	if err != nil {
		return nil, &Error{Kind: ErrAccountLookup, Op: "lookup metadata account", Address: metadataPDA, Err: err}
	}
	if exists {
		log.Info("Metadata already provisioned")
		return alreadyProvisioned(metadataPDA), nil
	}

	*plan = SelectPlan(payer, req.Flags)
	log.Debug("Selected instruction plan",
		"variant", plan.Variant,
		"updateAuthority", plan.UpdateAuthority,
		"isMutable", plan.IsMutable,
	)

	ix, err := tokenmetadata.BuildCreateMetadataAccountV3Instruction(p.cfg.ProgramID, tokenmetadata.CreateMetadataAccountV3Config{
		Metadata:                metadataPDA,
		Mint:                    req.Mint,
		MintAuthority:           p.cfg.Signer.PublicKey(),
		Payer:                   payer,
		UpdateAuthority:         plan.UpdateAuthority,
		UpdateAuthorityIsSigner: plan.UpdateAuthorityIsSigner,
		Data: tokenmetadata.DataV2{
			Name:   req.Identity.Name,
			Symbol: req.Identity.Symbol,
			URI:    req.Identity.URI,
		},
		IsMutable: plan.IsMutable,
	})
	if err != nil {
		return nil, &Error{Kind: ErrSubmission, Op: "build instruction", Address: metadataPDA, Err: err}
	}

	sig, err := p.submit(ctx, ix, payer)
	if err != nil {
		// Once signed, a send that was cut short may still have reached the leader.
		if !sig.IsZero() && isIndeterminateSend(ctx, err) {
			log.Warn("Transaction send interrupted, outcome unknown", "signature", sig, "error", err)
			return nil, &Error{Kind: ErrConfirmationTimeout, Op: "submit transaction", Address: metadataPDA, Signature: sig, Err: err}
		}
		if rejectedByLedger(err) && p.existsAfterRace(ctx, metadataPDA) {
			log.Info("Metadata provisioned concurrently, submission rejected by ledger", "accountInUse", isAccountInUse(err))
			return alreadyProvisioned(metadataPDA), nil
		}
		return nil, &Error{Kind: ErrSubmission, Op: "submit transaction", Address: metadataPDA, Signature: sig, Err: err}
	}
	log = log.With("signature", sig)
	log.Info("Submitted metadata transaction")

	if err := p.waitForConfirmation(ctx, sig); err != nil {
		if errors.Is(err, errTransactionFailed) {
			if p.existsAfterRace(ctx, metadataPDA) {
				log.Info("Metadata provisioned concurrently, transaction failed on chain")
				return alreadyProvisioned(metadataPDA), nil
			}
			return nil, &Error{Kind: ErrSubmission, Op: "confirm transaction", Address: metadataPDA, Signature: sig, Err: err}
		}
		return nil, &Error{Kind: ErrConfirmationTimeout, Op: "confirm transaction", Address: metadataPDA, Signature: sig, Err: err}
	}

	link, err := explorer.BuildLink(explorer.KindTx, sig.String(), p.cfg.Network, p.cfg.CustomRPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build explorer link: %w", err)
	}
	log.Info("Metadata provisioned", "explorer", link)

	return &Result{
		MetadataAddress: metadataPDA,
		Signature:       sig,
		ExplorerURL:     link,
	}, nil
}

// Lookup reads the metadata account for a mint.
func (p *Provisioner) Lookup(ctx context.Context, mint solana.PublicKey) (*tokenmetadata.Metadata, error) {
	if mint.IsZero() {
		return nil, &Error{Kind: ErrInvalidRequest, Op: "lookup metadata", Err: errors.New("mint is required")}
	}
	m, err := p.metadata.GetMetadata(ctx, mint)
	if err != nil {
		if errors.Is(err, tokenmetadata.ErrMetadataNotFound) {
			return nil, err
		}
		return nil, &Error{Kind: ErrAccountLookup, Op: "lookup metadata", Err: err}
	}
	return m, nil
}

func (p *Provisioner) validate(req Request) (solana.PublicKey, error) {
	if err := req.Identity.Validate(); err != nil {
		return solana.PublicKey{}, &Error{Kind: ErrInvalidIdentity, Op: "validate identity", Err: err}
	}
	if req.Mint.IsZero() {
		return solana.PublicKey{}, &Error{Kind: ErrInvalidRequest, Op: "validate request", Err: errors.New("mint is required")}
	}
	signer := p.cfg.Signer.PublicKey()
	payer := req.Payer
	if payer.IsZero() {
		payer = signer
	}
	if !payer.Equals(signer) {
		return solana.PublicKey{}, &Error{
			Kind: ErrInvalidRequest,
			Op:   "validate request",
			Err:  fmt.Errorf("payer %s must be the signer %s", payer, signer),
		}
	}
	if req.Mint.Equals(payer) {
		return solana.PublicKey{}, &Error{Kind: ErrInvalidRequest, Op: "validate request", Err: errors.New("mint must differ from payer")}
	}
	return payer, nil
}

func (p *Provisioner) accountExists(ctx context.Context, addr solana.PublicKey) (bool, error) {
	_, err := p.cfg.Ledger.GetAccountInfoWithOpts(ctx, addr, &solanarpc.GetAccountInfoOpts{
		Commitment: p.cfg.Commitment,
		Encoding:   solana.EncodingBase64,
	})
	if errors.Is(err, solanarpc.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// existsAfterRace re-checks the account after the ledger rejected our transaction. Lookup
// failures count as absent so the original rejection is reported.
func (p *Provisioner) existsAfterRace(ctx context.Context, addr solana.PublicKey) bool {
	exists, err := p.accountExists(ctx, addr)
	if err != nil {
		p.log.Warn("Failed to re-check metadata account after rejection", "metadata", addr, "error", err)
		return false
	}
	return exists
}

func (p *Provisioner) submit(ctx context.Context, ix solana.Instruction, payer solana.PublicKey) (solana.Signature, error) {
	blockhash, err := p.cfg.Ledger.GetLatestBlockhash(ctx, p.cfg.Commitment)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to get latest blockhash: %w", err)
	}
	if blockhash == nil || blockhash.Value == nil {
		return solana.Signature{}, errors.New("latest blockhash missing from response")
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{ix},
		blockhash.Value.Blockhash,
		solana.TransactionPayer(payer),
	)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to build transaction: %w", err)
	}

	signer := p.cfg.Signer
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(signer.PublicKey()) {
			return &signer
		}
		return nil
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to sign transaction: %w", err)
	}
	sig := tx.Signatures[0]

	if _, err := p.cfg.Ledger.SendTransactionWithOpts(ctx, tx, solanarpc.TransactionOpts{
		PreflightCommitment: p.cfg.Commitment,
	}); err != nil {
		return sig, fmt.Errorf("failed to send transaction: %w", err)
	}
	return sig, nil
}

func (p *Provisioner) observe(res *Result, err error, variant Variant) {
	if !p.cfg.Metrics {
		return
	}
	switch {
	case err != nil:
		metrics.Errors.WithLabelValues(KindName(err)).Inc()
		metrics.Provisions.WithLabelValues(metrics.OutcomeFailed, variant.String()).Inc()
	case res.AlreadyProvisioned:
		metrics.Provisions.WithLabelValues(metrics.OutcomeAlreadyProvisioned, variant.String()).Inc()
	default:
		metrics.Provisions.WithLabelValues(metrics.OutcomeCreated, variant.String()).Inc()
	}
}

func alreadyProvisioned(addr solana.PublicKey) *Result {
	return &Result{AlreadyProvisioned: true, MetadataAddress: addr}
}

// isIndeterminateSend reports whether a send failed without a verdict from the ledger because the
// caller gave up or the request timed out.
func isIndeterminateSend(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// rejectedByLedger reports whether a node answered the send with an error, as opposed to the
// request failing in transport.
func rejectedByLedger(err error) bool {
	var rpcErr *jsonrpc.RPCError
	return errors.As(err, &rpcErr) || isAccountInUse(err)
}

// isAccountInUse reports whether a ledger rejection says the metadata account was created first
// by someone else. Preflight rejections carry the simulation logs in the error data.
func isAccountInUse(err error) bool {
	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		for _, line := range preflightLogs(rpcErr) {
			if mentionsAccountInUse(line) {
				return true
			}
		}
		return mentionsAccountInUse(rpcErr.Message)
	}
	return mentionsAccountInUse(err.Error())
}

func preflightLogs(rpcErr *jsonrpc.RPCError) []string {
	data, ok := rpcErr.Data.(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := data["logs"].([]any)
	if !ok {
		return nil
	}
	logs := make([]string, 0, len(raw))
	for _, l := range raw {
		if line, ok := l.(string); ok {
			logs = append(logs, line)
		}
	}
	return logs
}

func mentionsAccountInUse(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "already in use") || strings.Contains(msg, "already initialized")
}

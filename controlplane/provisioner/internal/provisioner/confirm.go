package provisioner

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"

	"github.com/malbeclabs/tokenmeta/controlplane/provisioner/internal/metrics"
)

var errTransactionFailed = errors.New("transaction failed")

// waitForConfirmation polls the signature until it reaches the configured commitment. Transport
// errors while polling are not fatal; the last one is reported if the deadline passes.
func (p *Provisioner) waitForConfirmation(ctx context.Context, sig solana.Signature) error {
	want, _ := commitmentLevel(p.cfg.Commitment)
	start := p.cfg.Clock.Now()

	timer := p.cfg.Clock.NewTimer(p.cfg.ConfirmTimeout)
	defer timer.Stop()

	var lastErr error
	for {
		resp, err := p.cfg.Ledger.GetSignatureStatuses(ctx, false, sig)
		switch {
		case err == nil && len(resp.Value) > 0 && resp.Value[0] != nil:
			status := resp.Value[0]
			if status.Err != nil {
				return fmt.Errorf("%w: %v", errTransactionFailed, status.Err)
			}
			if confirmationLevel(status.ConfirmationStatus) >= want {
				elapsed := p.cfg.Clock.Since(start)
				p.log.Debug("Transaction confirmed", "signature", sig, "status", status.ConfirmationStatus, "duration", elapsed)
				if p.cfg.Metrics {
					metrics.ConfirmationSeconds.Observe(elapsed.Seconds())
				}
				return nil
			}
			lastErr = nil
		case err != nil && !errors.Is(err, solanarpc.ErrNotFound):
			p.log.Debug("Failed to get signature status", "signature", sig, "error", err)
			lastErr = err
		}

		select {
		case <-ctx.Done():
			return errors.Join(context.Cause(ctx), lastErr)
		case <-timer.Chan():
			timeoutErr := fmt.Errorf("signature %s not %s within %s", sig, p.cfg.Commitment, p.cfg.ConfirmTimeout)
			return errors.Join(timeoutErr, lastErr)
		case <-p.cfg.Clock.After(p.cfg.PollInterval):
		}
	}
}

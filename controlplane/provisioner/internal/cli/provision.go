package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/malbeclabs/tokenmeta/config"
	"github.com/malbeclabs/tokenmeta/controlplane/provisioner/internal/metrics"
	"github.com/malbeclabs/tokenmeta/controlplane/provisioner/internal/provisioner"
)

type ProvisionCmd struct {
	info BuildInfo
}

func NewProvisionCmd(info BuildInfo) *ProvisionCmd {
	return &ProvisionCmd{info: info}
}

func (c *ProvisionCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Create the metadata account for a mint, unless it already exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := getGlobalOptions(cmd)
			if err != nil {
				return err
			}
			mint, err := getPublicKeyFlag(cmd, "mint")
			if err != nil {
				return err
			}
			payer, err := getPublicKeyFlag(cmd, "payer")
			if err != nil {
				return err
			}
			name, err := cmd.Flags().GetString("name")
			if err != nil {
				return fmt.Errorf("failed to get name flag: %w", err)
			}
			symbol, err := cmd.Flags().GetString("symbol")
			if err != nil {
				return fmt.Errorf("failed to get symbol flag: %w", err)
			}
			uri, err := cmd.Flags().GetString("uri")
			if err != nil {
				return fmt.Errorf("failed to get uri flag: %w", err)
			}
			revoked, err := cmd.Flags().GetBool("mint-authority-revoked")
			if err != nil {
				return fmt.Errorf("failed to get mint-authority-revoked flag: %w", err)
			}
			immutable, err := cmd.Flags().GetBool("immutable")
			if err != nil {
				return fmt.Errorf("failed to get immutable flag: %w", err)
			}
			keypairPath, err := cmd.Flags().GetString("keypair")
			if err != nil {
				return fmt.Errorf("failed to get keypair flag: %w", err)
			}
			confirmTimeout, err := cmd.Flags().GetDuration("confirm-timeout")
			if err != nil {
				return fmt.Errorf("failed to get confirm-timeout flag: %w", err)
			}
			commitment, err := cmd.Flags().GetString("commitment")
			if err != nil {
				return fmt.Errorf("failed to get commitment flag: %w", err)
			}
			metricsAddr, err := cmd.Flags().GetString("metrics-addr")
			if err != nil {
				return fmt.Errorf("failed to get metrics-addr flag: %w", err)
			}

			log := newLogger(opts.verbose)

			signer, err := LoadSigner(keypairPath, os.Getenv)
			if err != nil {
				return err
			}

			if metricsAddr != "" {
				metrics.BuildInfo.WithLabelValues(c.info.Version, c.info.Commit, c.info.Date).Set(1)
				if err := serveMetrics(log, metricsAddr); err != nil {
					return err
				}
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			p, err := provisioner.New(provisioner.Config{
				Logger:         log,
				Ledger:         opts.newLedger(),
				Signer:         signer,
				ProgramID:      opts.network.TokenMetadataProgramID,
				Network:        opts.network.Moniker,
				CustomRPCURL:   customRPCURL(opts.network),
				Commitment:     solanarpc.CommitmentType(commitment),
				ConfirmTimeout: confirmTimeout,
				Metrics:        metricsAddr != "",
			})
			if err != nil {
				return fmt.Errorf("failed to create provisioner: %w", err)
			}

			log.Debug("Provisioning metadata",
				"env", opts.network.Moniker,
				"rpcURL", opts.network.RPCURL,
				"signer", p.Signer(),
				"mint", mint,
			)

			res, err := p.Provision(ctx, provisioner.Request{
				Identity: provisioner.TokenIdentity{Name: name, Symbol: symbol, URI: uri},
				Payer:    payer,
				Mint:     mint,
				Flags: provisioner.Flags{
					MintAuthorityRevoked: revoked,
					MetadataImmutable:    immutable,
				},
			})
			if err != nil {
				if errors.Is(err, provisioner.ErrConfirmationTimeout) {
					log.Warn("Transaction outcome unknown, re-run the same command to check", "error", err)
				}
				return err
			}

			out := cmd.OutOrStdout()
			if res.AlreadyProvisioned {
				fmt.Fprintf(out, "already provisioned: %s\n", res.MetadataAddress)
				return nil
			}
			fmt.Fprintln(out, res.String())
			return nil
		},
	}

	cmd.Flags().String("mint", "", "Mint address (required)")
	cmd.Flags().String("name", "", "Token name, at most 32 bytes (required)")
	cmd.Flags().String("symbol", "", "Token symbol, at most 10 bytes")
	cmd.Flags().String("uri", "", "URI of the uploaded off-chain metadata JSON (required)")
	cmd.Flags().String("payer", "", "Fee payer address, defaults to the signer")
	cmd.Flags().Bool("mint-authority-revoked", false, "Create the account with an explicit update authority")
	cmd.Flags().Bool("immutable", false, "Create immutable metadata with no update authority")
	cmd.Flags().String("keypair", "", "Path to a solana-keygen keypair file, defaults to "+config.EnvVarSolanaPrivateKey)
	cmd.Flags().Duration("confirm-timeout", 60*time.Second, "How long to wait for confirmation")
	cmd.Flags().String("commitment", string(solanarpc.CommitmentConfirmed), "Commitment to confirm at (processed, confirmed, finalized)")
	cmd.Flags().String("metrics-addr", "", "Address to serve prometheus metrics on while running")
	_ = cmd.MarkFlagRequired("mint")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("uri")

	return cmd
}

func getPublicKeyFlag(cmd *cobra.Command, name string) (solana.PublicKey, error) {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	if value == "" {
		return solana.PublicKey{}, nil
	}
	pk, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid %s address %q: %w", name, value, err)
	}
	return pk, nil
}

// customRPCURL is only meaningful for explorer links to clusters the explorer does not know.
func customRPCURL(network *config.SolanaNetworkConfig) string {
	if network.Moniker == config.SolanaEnvLocalnet {
		return network.RPCURL
	}
	return ""
}

func serveMetrics(log *slog.Logger, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start prometheus metrics server listener: %w", err)
	}
	log.Info("Prometheus metrics server listening", "address", listener.Addr().String())

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.Serve(listener, mux); err != nil && !errors.Is(err, net.ErrClosed) {
			log.Error("Failed to serve prometheus metrics", "error", err)
		}
	}()
	return nil
}

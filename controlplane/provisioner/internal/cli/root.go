package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/malbeclabs/tokenmeta/config"
	"github.com/malbeclabs/tokenmeta/pkg/solana/rpc"
)

type ExitCode int

const (
	exitCodeSuccess = 0
	exitCodeError   = 1
)

// BuildInfo is set by the main package from LDFLAGS.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

func Run(info BuildInfo) ExitCode {
	rootCmd := NewRootCmd(info)
	if err := rootCmd.Execute(); err != nil {
		return exitCodeError
	}
	return exitCodeSuccess
}

func NewRootCmd(info BuildInfo) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "provisioner",
		Short:   "Provision Metaplex token metadata for fungible Solana mints.",
		Version: fmt.Sprintf("%s (commit: %s, date: %s)", info.Version, info.Commit, info.Date),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := cmd.Help()
			if err != nil {
				return fmt.Errorf("failed to show help: %w", err)
			}
			return nil
		},
	}

	rootCmd.SilenceUsage = true

	var verbose bool
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "set debug logging level")

	var env string
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", config.SolanaEnvDevnet, "The network environment (mainnet-beta, testnet, devnet, localnet)")

	var rpcURL string
	rootCmd.PersistentFlags().StringVar(&rpcURL, "rpc-url", "", "Solana RPC URL, overrides the environment default and "+config.EnvVarSolanaRPCURL)

	rootCmd.AddCommand(
		NewProvisionCmd(info).Command(),
		NewDeriveCmd().Command(),
		NewInspectCmd().Command(),
	)

	return rootCmd
}

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	verbose bool
	network *config.SolanaNetworkConfig
}

func getGlobalOptions(cmd *cobra.Command) (*globalOptions, error) {
	verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
	if err != nil {
		return nil, fmt.Errorf("failed to get verbose flag: %w", err)
	}
	env, err := cmd.Root().PersistentFlags().GetString("env")
	if err != nil {
		return nil, fmt.Errorf("failed to get env flag: %w", err)
	}
	rpcURL, err := cmd.Root().PersistentFlags().GetString("rpc-url")
	if err != nil {
		return nil, fmt.Errorf("failed to get rpc-url flag: %w", err)
	}

	network, err := config.SolanaNetworkConfigForEnv(env)
	if err != nil {
		return nil, fmt.Errorf("failed to get network config: %w", err)
	}
	if rpcURL != "" {
		network.RPCURL = rpcURL
	}
	return &globalOptions{verbose: verbose, network: network}, nil
}

func (o *globalOptions) newLedger() *solanarpc.Client {
	return rpc.New(o.network.RPCURL, rpc.Options{})
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

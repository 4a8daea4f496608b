package config

import (
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
)

const (
	SolanaEnvMainnetBeta = "mainnet-beta"
	SolanaEnvTestnet     = "testnet"
	SolanaEnvDevnet      = "devnet"
	SolanaEnvLocalnet    = "localnet"
)

var (
	ErrInvalidEnvironment = fmt.Errorf("invalid environment")
)

type SolanaNetworkConfig struct {
	// Moniker is the cluster name used in explorer links.
	Moniker                string
	RPCURL                 string
	TokenMetadataProgramID solana.PublicKey
}

// SolanaNetworkConfigForEnv returns the network config for the given environment. An empty env
// selects devnet. The SOLANA_RPC_URL environment variable overrides the public endpoint.
func SolanaNetworkConfigForEnv(env string) (*SolanaNetworkConfig, error) {
	programID, err := solana.PublicKeyFromBase58(TokenMetadataProgramID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token metadata program ID: %w", err)
	}

	var config *SolanaNetworkConfig
	switch env {
	case SolanaEnvMainnetBeta, "mainnet":
		config = &SolanaNetworkConfig{
			Moniker: SolanaEnvMainnetBeta,
			RPCURL:  MainnetSolanaRPC,
		}
	case SolanaEnvTestnet:
		config = &SolanaNetworkConfig{
			Moniker: SolanaEnvTestnet,
			RPCURL:  TestnetSolanaRPC,
		}
	case SolanaEnvDevnet, "":
		config = &SolanaNetworkConfig{
			Moniker: SolanaEnvDevnet,
			RPCURL:  DevnetSolanaRPC,
		}
	case SolanaEnvLocalnet:
		config = &SolanaNetworkConfig{
			Moniker: SolanaEnvLocalnet,
			RPCURL:  LocalnetSolanaRPC,
		}
	default:
		return nil, fmt.Errorf("%w %q, must be one of: %s, %s, %s, %s", ErrInvalidEnvironment, env, SolanaEnvMainnetBeta, SolanaEnvTestnet, SolanaEnvDevnet, SolanaEnvLocalnet)
	}
	config.TokenMetadataProgramID = programID

	rpcURL := os.Getenv(EnvVarSolanaRPCURL)
	if rpcURL != "" {
		config.RPCURL = rpcURL
	}
	return config, nil
}

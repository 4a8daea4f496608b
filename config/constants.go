package config

const (
	// Public Solana RPC endpoints.
	MainnetSolanaRPC  = "https://api.mainnet-beta.solana.com"
	TestnetSolanaRPC  = "https://api.testnet.solana.com"
	DevnetSolanaRPC   = "https://api.devnet.solana.com"
	LocalnetSolanaRPC = "http://127.0.0.1:8899"

	// Metaplex token metadata program, deployed at the same address on every cluster.
	TokenMetadataProgramID = "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"

	// Environment variables consulted when flags are not set.
	EnvVarSolanaRPCURL     = "SOLANA_RPC_URL"
	EnvVarSolanaPrivateKey = "SOLANA_PRIVATE_KEY"
)

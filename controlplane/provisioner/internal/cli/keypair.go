package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"

	"github.com/malbeclabs/tokenmeta/config"
)

var ErrNoSigner = fmt.Errorf("no signer: pass --keypair or set %s", config.EnvVarSolanaPrivateKey)

// LoadSigner reads the signing keypair from a solana-keygen file, or from the SOLANA_PRIVATE_KEY
// value returned by getenv when no path is given.
func LoadSigner(keypairPath string, getenv func(string) string) (solana.PrivateKey, error) {
	if keypairPath != "" {
		if _, err := os.Stat(keypairPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("keypair file does not exist: %s", keypairPath)
		}
		key, err := solana.PrivateKeyFromSolanaKeygenFile(keypairPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load keypair file: %w", err)
		}
		return key, nil
	}

	raw := strings.TrimSpace(getenv(config.EnvVarSolanaPrivateKey))
	if raw == "" {
		return nil, ErrNoSigner
	}
	return ParsePrivateKey(raw)
}

// ParsePrivateKey accepts a base58 secret key or a solana-keygen JSON byte array.
func ParsePrivateKey(raw string) (solana.PrivateKey, error) {
	if strings.HasPrefix(raw, "[") {
		key, err := solana.PrivateKeyFromSolanaKeygenFileBytes([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		return key, nil
	}

	b, err := base58.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base58 private key: %w", err)
	}
	if _, err := solana.ValidatePrivateKey(b); err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return solana.PrivateKey(b), nil
}

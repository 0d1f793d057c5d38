package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// GenerateKeypairJSON generates an ed25519 keypair encoded the way solana-keygen writes it: a JSON
// array of the 64 private key bytes.
func GenerateKeypairJSON() ([]byte, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return encodeKeypair(priv)
}

func encodeKeypair(priv []byte) ([]byte, error) {
	ints := make([]int, len(priv))
	for i, b := range priv {
		ints[i] = int(b)
	}
	return json.Marshal(ints)
}

// PubkeyFromKeypairJSON returns the base58 address stored in the second half of a keypair file.
func PubkeyFromKeypairJSON(keypairJSON []byte) (string, error) {
	var keypair []byte
	if err := json.Unmarshal(keypairJSON, &keypair); err != nil {
		return "", fmt.Errorf("failed to unmarshal keypair JSON: %w", err)
	}

	if len(keypair) != ed25519.PrivateKeySize {
		return "", fmt.Errorf("invalid keypair length: expected %d, got %d", ed25519.PrivateKeySize, len(keypair))
	}

	return base58.Encode(keypair[32:]), nil
}

// Wallet is a keypair file on disk, usable as ANCHOR_WALLET.
type Wallet struct {
	Path       string
	PrivateKey solana.PrivateKey
}

func (w *Wallet) PublicKey() solana.PublicKey { return w.PrivateKey.PublicKey() }

// New writes a fresh keypair to dir/id.json and checks that it reads back as the same address.
func New(dir string) (*Wallet, error) {
	keypairJSON, err := GenerateKeypairJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to generate keypair: %w", err)
	}
	path := filepath.Join(dir, "id.json")
	if err := os.WriteFile(path, keypairJSON, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write keypair: %w", err)
	}
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read back keypair: %w", err)
	}
	want, err := PubkeyFromKeypairJSON(keypairJSON)
	if err != nil {
		return nil, err
	}
	if got := key.PublicKey().String(); got != want {
		return nil, fmt.Errorf("keypair %s reads back as %s, expected %s", path, got, want)
	}
	return &Wallet{Path: path, PrivateKey: key}, nil
}

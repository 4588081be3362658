// Package mnemonic provides a wallet.SecretManager backed by
// a BIP-39 mnemonic sentence, using the Icarus master key
// generation scheme over the mnemonic entropy.
package mnemonic

import (
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"

	"github.com/MeshJS/mesh-wallet-2/bip32ed25519"
	"github.com/MeshJS/mesh-wallet-2/derivation"
	"github.com/MeshJS/mesh-wallet-2/wallet"
)

var (
	// ErrInvalidMnemonic is returned for sentences that fail
	// BIP-39 validation.
	ErrInvalidMnemonic = errors.New("Mnemonic sentence is invalid")
)

// SecretManager derives signers from a mnemonic-rooted key
// tree. The root key is computed once at construction; the
// manager is immutable afterwards and safe for concurrent use.
type SecretManager struct {
	root bip32ed25519.XPrv
}

// NewSecretManager validates the mnemonic and computes the
// Icarus root key from its entropy and the optional
// passphrase.
func NewSecretManager(mnemonic, passphrase string) (*SecretManager, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}

	entropy, err := bip39.EntropyFromMnemonic(mnemonic)
	if err != nil {
		return nil, errors.Wrap(err, "failed to recover entropy from mnemonic")
	}

	return &SecretManager{
		root: bip32ed25519.NewRootKey(entropy, []byte(passphrase)),
	}, nil
}

// GetSigner derives the key at path and wraps it as a signer.
// Deterministic: the same path always yields a signer over the
// same key.
func (m *SecretManager) GetSigner(path derivation.Path) (wallet.Signer, error) {
	return &signer{key: m.root.DerivePath(path.Indices)}, nil
}

// signer adapts a derived extended key to the wallet.Signer
// capability without exposing the key itself.
type signer struct {
	key bip32ed25519.XPrv
}

func (s *signer) PubKeyHash() (wallet.Hash, error) {
	hash, err := s.key.PubKeyHash()
	if err != nil {
		return wallet.Hash{}, err
	}
	return wallet.Hash(hash), nil
}

func (s *signer) Sign(digest []byte) ([]byte, error) {
	return s.key.Sign(digest), nil
}

// NewMnemonic generates a fresh mnemonic sentence with the
// given entropy strength in bits (128 for 12 words, 256 for
// 24 words).
func NewMnemonic(strength int) (string, error) {
	entropy, err := bip39.NewEntropy(strength)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate entropy")
	}

	sentence, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode mnemonic")
	}

	return sentence, nil
}

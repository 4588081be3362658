// Package wallet implements the credential-resolution and
// signer-mediation core of an ada wallet. It turns a key
// source into a consistent payment/stake/drep credential
// triple, answers address-construction requests built from
// those credentials, and resolves which held signers satisfy
// a set of required key hashes. Address encoding, transaction
// parsing and key derivation arithmetic live behind the
// narrow capability interfaces below.
package wallet

import (
	"github.com/MeshJS/mesh-wallet-2/derivation"
)

// Signer is a contract whereby implementations hold a single
// key, expose its public-key hash, and produce signatures over
// a digest. Raw key material must never leak through this
// interface, and implementations must be safe for concurrent
// use.
type Signer interface {
	// PubKeyHash returns the key-hash credential form of the
	// signer's public key. Deterministic per signer.
	PubKeyHash() (Hash, error)

	// Sign produces a detached signature over the digest.
	Sign(digest []byte) ([]byte, error)
}

// SecretManager is a contract for deterministic key trees.
// It must return the same signer for the same path every
// time, and must be safe for concurrent invocation since
// the manager resolves its roles concurrently.
type SecretManager interface {
	// GetSigner returns a Signer for the key at path
	GetSigner(path derivation.Path) (Signer, error)
}

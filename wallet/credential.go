package wallet

import (
	"encoding/hex"

	"github.com/pkg/errors"
)

const (
	// HashSize is the length of a credential hash, the
	// blake2b-224 digest of a public key or script.
	HashSize = 28
)

// Hash is an opaque credential digest. The core never
// inspects its contents, it only compares them.
type Hash [HashSize]byte

// HashFromBytes copies a byte slice into a Hash, rejecting
// slices of the wrong length.
func HashFromBytes(b []byte) (Hash, error) {
	var h Hash
	if len(b) != HashSize {
		return h, errors.Errorf("Credential hash must be %d bytes, got %d", HashSize, len(b))
	}

	copy(h[:], b)
	return h, nil
}

// HashFromHex parses a hex encoded credential hash.
func HashFromHex(s string) (Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, errors.Wrap(err, "failed to decode credential hash")
	}

	return HashFromBytes(b)
}

// String returns the hex form of the hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// CredentialType tags a Credential as key-backed or
// script-backed.
type CredentialType uint8

const (
	// KeyHashCredential marks a credential whose hash is a
	// public key digest, so a matching signer can exist.
	KeyHashCredential CredentialType = iota

	// ScriptHashCredential marks a credential whose hash is
	// a script digest. Script credentials never hold signers.
	ScriptHashCredential
)

// Credential is an on-chain identity fragment: a hash tagged
// as either key or script. The fields are unexported so the
// tag can never be altered after construction.
type Credential struct {
	typ  CredentialType
	hash Hash
}

// NewKeyHashCredential builds a key-backed credential.
func NewKeyHashCredential(hash Hash) Credential {
	return Credential{typ: KeyHashCredential, hash: hash}
}

// NewScriptHashCredential builds a script-backed credential.
func NewScriptHashCredential(hash Hash) Credential {
	return Credential{typ: ScriptHashCredential, hash: hash}
}

// Type returns the credential tag.
func (c Credential) Type() CredentialType {
	return c.typ
}

// Hash returns the credential digest.
func (c Credential) Hash() Hash {
	return c.hash
}

// IsKeyHash returns true for key-backed credentials.
func (c Credential) IsKeyHash() bool {
	return c.typ == KeyHashCredential
}

// CredentialSource describes how a single role credential is
// obtained: from a signer (yielding a key-hash credential that
// the wallet can sign for) or from a bare script hash. Exactly
// one of the two is set; use SignerSource or ScriptHashSource.
type CredentialSource struct {
	signer     Signer
	scriptHash *Hash
}

// SignerSource builds a CredentialSource backed by a signer.
func SignerSource(signer Signer) CredentialSource {
	return CredentialSource{signer: signer}
}

// ScriptHashSource builds a CredentialSource referencing a
// script hash. Valid for stake and drep roles only; a payment
// role must always be able to sign.
func ScriptHashSource(hash Hash) CredentialSource {
	return CredentialSource{scriptHash: &hash}
}

// isScript reports whether the source references a script hash.
func (s CredentialSource) isScript() bool {
	return s.scriptHash != nil
}

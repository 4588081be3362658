// Package bip32ed25519 implements the V2 ("Icarus") flavour of
// BIP32-Ed25519 hierarchical key derivation used by ada wallets.
// Extended private keys carry the two scalar halves plus a chain
// code; signatures produced here verify under stock crypto/ed25519.
package bip32ed25519

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"

	"filippo.io/edwards25519"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/pbkdf2"
)

var (
	// ErrHardenedPublicDerivation is returned when a hardened
	// child is requested from an extended public key, which
	// only supports soft derivation.
	ErrHardenedPublicDerivation = errors.New("Cannot derive a hardened child from a public key")
)

const (
	// XPrvSize is the serialized size of an extended private
	// key: 64 bytes of key material plus the chain code.
	XPrvSize = 96

	// XPubSize is the serialized size of an extended public
	// key: the curve point plus the chain code.
	XPubSize = 64

	// PublicKeySize is the size of an encoded curve point.
	PublicKeySize = 32

	// SignatureSize is the size of a detached signature.
	SignatureSize = 64

	// HashSize is the size of a blake2b-224 public key digest.
	HashSize = 28

	// HardenedOffset marks the first hardened sequence number.
	HardenedOffset uint32 = 0x80000000

	// rootKeyIterations is the PBKDF2 iteration count fixed
	// by the Icarus master key generation scheme.
	rootKeyIterations = 4096
)

// XPrv is an extended private key: kL (the signing scalar),
// kR (the nonce seed) and the chain code, in that order.
type XPrv [XPrvSize]byte

// XPub is an extended public key: the encoded curve point
// followed by the chain code.
type XPub [XPubSize]byte

// NewRootKey derives the master extended key from raw mnemonic
// entropy and an optional password, per the Icarus scheme:
// PBKDF2-HMAC-SHA512 over the entropy with the scalar bits
// cleared/set so kL is a valid derivation scalar.
func NewRootKey(entropy, password []byte) XPrv {
	key := pbkdf2.Key(password, entropy, rootKeyIterations, XPrvSize, sha512.New)

	key[0] &= 0xf8
	key[31] &= 0x1f
	key[31] |= 0x40

	var root XPrv
	copy(root[:], key)
	return root
}

// Derive produces the child key at the given sequence number.
// Sequences at or above HardenedOffset derive hardened children
// from the private halves; lower sequences derive soft children
// from the public point.
func (x XPrv) Derive(sequence uint32) XPrv {
	kl := x[:32]
	kr := x[32:64]
	cc := x[64:]

	var seq [4]byte
	binary.LittleEndian.PutUint32(seq[:], sequence)

	var z, childCC []byte
	if sequence >= HardenedOffset {
		z = hmacSHA512(cc, 0x00, x[:64], seq[:])
		childCC = hmacSHA512(cc, 0x01, x[:64], seq[:])[32:]
	} else {
		public := x.PublicKey()
		z = hmacSHA512(cc, 0x02, public, seq[:])
		childCC = hmacSHA512(cc, 0x03, public, seq[:])[32:]
	}

	var child XPrv
	copy(child[:32], add28Mul8(kl, z[:32]))
	copy(child[32:64], add256(kr, z[32:64]))
	copy(child[64:], childCC)
	return child
}

// DerivePath derives each sequence number in turn, returning
// the key at the end of the path.
func (x XPrv) DerivePath(indices []uint32) XPrv {
	key := x
	for _, sequence := range indices {
		key = key.Derive(sequence)
	}
	return key
}

// Public strips the private halves, returning the extended
// public key with the same chain code.
func (x XPrv) Public() XPub {
	var pub XPub
	copy(pub[:32], x.PublicKey())
	copy(pub[32:], x[64:])
	return pub
}

// PublicKey returns the encoded curve point for the signing
// scalar, compatible with crypto/ed25519 public keys.
func (x XPrv) PublicKey() []byte {
	point := new(edwards25519.Point).ScalarBaseMult(scalarFromBytes(x[:32]))
	return point.Bytes()
}

// PubKeyHash returns the blake2b-224 digest of the public key,
// which is the on-chain key-hash credential form.
func (x XPrv) PubKeyHash() ([HashSize]byte, error) {
	var hash [HashSize]byte

	digest, err := blake2b.New(HashSize, nil)
	if err != nil {
		return hash, errors.Wrap(err, "failed to initialize blake2b")
	}

	digest.Write(x.PublicKey())
	copy(hash[:], digest.Sum(nil))
	return hash, nil
}

// Sign produces a detached 64-byte signature over the message.
// The nonce comes from kR rather than a hashed seed, which is
// the extended-key signing variant; verification is unchanged
// from RFC 8032, so ed25519.Verify accepts the result.
func (x XPrv) Sign(message []byte) []byte {
	public := x.PublicKey()

	r := scalarFromWide(sha512Concat(x[32:64], message))
	bigR := new(edwards25519.Point).ScalarBaseMult(r).Bytes()

	k := scalarFromWide(sha512Concat(bigR, public, message))
	s := k.MultiplyAdd(k, scalarFromBytes(x[:32]), r)

	signature := make([]byte, SignatureSize)
	copy(signature[:32], bigR)
	copy(signature[32:], s.Bytes())
	return signature
}

// PublicKey returns the encoded curve point.
func (p XPub) PublicKey() []byte {
	public := make([]byte, PublicKeySize)
	copy(public, p[:32])
	return public
}

// Derive produces the soft child of an extended public key,
// matching XPrv.Derive followed by Public for the same
// sequence. Hardened sequences are rejected.
func (p XPub) Derive(sequence uint32) (XPub, error) {
	if sequence >= HardenedOffset {
		return XPub{}, ErrHardenedPublicDerivation
	}

	cc := p[32:]

	var seq [4]byte
	binary.LittleEndian.PutUint32(seq[:], sequence)

	z := hmacSHA512(cc, 0x02, p[:32], seq[:])
	childCC := hmacSHA512(cc, 0x03, p[:32], seq[:])[32:]

	parent, err := new(edwards25519.Point).SetBytes(p[:32])
	if err != nil {
		return XPub{}, errors.Wrap(err, "invalid public key point")
	}

	zero := make([]byte, 32)
	step := new(edwards25519.Point).ScalarBaseMult(scalarFromBytes(add28Mul8(zero, z[:32])))

	var child XPub
	copy(child[:32], new(edwards25519.Point).Add(parent, step).Bytes())
	copy(child[32:], childCC)
	return child, nil
}

// hmacSHA512 computes HMAC-SHA512(key, tag || parts...).
func hmacSHA512(key []byte, tag byte, parts ...[]byte) []byte {
	mac := hmac.New(sha512.New, key)
	mac.Write([]byte{tag})
	for _, part := range parts {
		mac.Write(part)
	}
	return mac.Sum(nil)
}

// sha512Concat hashes the concatenation of the parts.
func sha512Concat(parts ...[]byte) []byte {
	digest := sha512.New()
	for _, part := range parts {
		digest.Write(part)
	}
	return digest.Sum(nil)
}

// scalarFromBytes interprets 32 little-endian bytes as an
// integer and reduces it mod the group order. Derivation
// scalars may exceed the order, but the basepoint has that
// order, so reducing first leaves scalar multiplication
// unchanged.
func scalarFromBytes(b []byte) *edwards25519.Scalar {
	wide := make([]byte, 64)
	copy(wide, b)
	scalar, err := new(edwards25519.Scalar).SetUniformBytes(wide)
	if err != nil {
		// SetUniformBytes only fails on a wrong-length input
		panic(err)
	}
	return scalar
}

// scalarFromWide reduces a 64-byte digest mod the group order.
func scalarFromWide(b []byte) *edwards25519.Scalar {
	scalar, err := new(edwards25519.Scalar).SetUniformBytes(b)
	if err != nil {
		panic(err)
	}
	return scalar
}

// add28Mul8 computes kl + 8*zl over 256-bit little-endian
// integers, with zl truncated to its low 28 bytes first.
// Overflow beyond 256 bits is discarded, per the V2 scheme.
func add28Mul8(kl, zl []byte) []byte {
	out := make([]byte, 32)

	var carry uint16
	for i := 0; i < 28; i++ {
		r := uint16(kl[i]) + uint16(zl[i])<<3 + carry
		out[i] = byte(r)
		carry = r >> 8
	}
	for i := 28; i < 32; i++ {
		r := uint16(kl[i]) + carry
		out[i] = byte(r)
		carry = r >> 8
	}

	return out
}

// add256 computes kr + zr mod 2^256 over little-endian bytes.
func add256(kr, zr []byte) []byte {
	out := make([]byte, 32)

	var carry uint16
	for i := 0; i < 32; i++ {
		r := uint16(kr[i]) + uint16(zr[i]) + carry
		out[i] = byte(r)
		carry = r >> 8
	}

	return out
}

package cryptoalg

import "io"

// SignatureMode tells whether a Signature produces or checks a value.
type SignatureMode int

const (
	// ModeSign is the mode of signatures created from a private key.
	ModeSign SignatureMode = iota
	// ModeVerify is the mode of signatures created from a public key.
	ModeVerify
)

func (m SignatureMode) String() string {
	switch m {
	case ModeSign:
		return "sign"
	case ModeVerify:
		return "verify"
	default:
		return "unknown"
	}
}

// State is the lifecycle state of a Digest or Signature.
type State int

const (
	// StateCreated means no data has been fed yet.
	StateCreated State = iota
	// StateAccumulating means data has been fed and no result was read.
	StateAccumulating
	// StateFinalized means a result was read; further input is rejected
	// unless the object is persistent or reset.
	StateFinalized
	// StateReleased means the object was released and can no longer be used.
	StateReleased
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateAccumulating:
		return "accumulating"
	case StateFinalized:
		return "finalized"
	case StateReleased:
		return "released"
	default:
		return "unknown"
	}
}

// Releaser is implemented by every backend object owning sensitive or
// backend-registered state. Release is idempotent.
type Releaser interface {
	Release()
}

// Digest is a streaming message digest.
type Digest interface {
	io.Writer
	Releaser

	// Algorithm returns the digest algorithm.
	Algorithm() DigestAlgorithm

	// Persistent reports whether the digest keeps accumulating after reads.
	Persistent() bool

	// Update feeds data. An empty slice is a no-op.
	// A non-persistent digest rejects input after a read with ErrAlreadyFinalized.
	Update(data []byte) error

	// Digest returns the lowercase hex encoding of the hash of everything fed
	// since creation or the last Reset. Repeated calls return the same value.
	Digest() (string, error)

	// Sum returns the raw hash bytes, with the same semantics as Digest.
	Sum() ([]byte, error)

	// Reset returns the digest to the created state.
	Reset() error

	// State returns the lifecycle state.
	State() State
}

// Signature is a streaming signature in sign or verify mode.
type Signature interface {
	io.Writer
	Releaser

	// Mode returns ModeSign for private key signatures and ModeVerify otherwise.
	Mode() SignatureMode

	// Algorithm returns the algorithm of the key the signature was created from.
	Algorithm() KeyAlgorithm

	// Update feeds data to be signed or verified.
	Update(data []byte) error

	// Value finalises a sign-mode signature and returns the signature bytes.
	// Repeated calls return the same bytes.
	Value() ([]byte, error)

	// Verify finalises a verify-mode signature and checks candidate against
	// the data fed so far. A mismatch is reported as false with a nil error.
	Verify(candidate []byte) (bool, error)

	// ValueLength returns the maximum length in bytes of a signature value.
	ValueLength() (int, error)

	// State returns the lifecycle state.
	State() State
}

// Key is the behaviour shared by private and public keys.
type Key interface {
	Releaser

	// Algorithm returns the key family.
	Algorithm() KeyAlgorithm

	// BitSize returns the modulus, prime or curve size in bits.
	BitSize() int

	// CreateSignature returns a new signature bound to this key.
	CreateSignature() (Signature, error)

	// Released reports whether the key material has been scrubbed.
	Released() bool
}

// PrivateKey is the signing half of a key pair.
type PrivateKey interface {
	Key

	// Public returns a new, independently owned public key matching this private key.
	Public() (PublicKey, error)
}

// PublicKey is the verifying half of a key pair.
type PublicKey interface {
	Key

	// IsPublic distinguishes public keys from private keys in type switches.
	IsPublic()
}

// DigestFactory creates digests by algorithm name.
type DigestFactory interface {
	NewDigest(name string) (Digest, error)
}

// KeyFactory creates key pairs and converts keys to and from PEM.
type KeyFactory interface {
	// CreateKeyPair generates a key pair. Either both keys or an error are returned.
	CreateKeyPair(algorithm string) (PrivateKey, PublicKey, error)

	// WritePrivateKeyToPem encodes a private key as PKCS#8 PEM.
	// A non-empty password selects encrypted PKCS#8.
	WritePrivateKeyToPem(key PrivateKey, password []byte) (string, error)

	// WritePublicKeyToPem encodes a public key as PKIX PEM.
	WritePublicKeyToPem(key PublicKey) (string, error)

	// LoadPrivateKeyFromPem decodes a private key. Wrong passwords and corrupt
	// input both yield ErrDecodingFailed.
	LoadPrivateKeyFromPem(pemData string, password []byte) (PrivateKey, error)

	// LoadPublicKeyFromPem decodes a public key.
	LoadPublicKeyFromPem(pemData string) (PublicKey, error)
}

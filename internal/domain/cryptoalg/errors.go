package cryptoalg

import "errors"

// Sentinel errors reported by the cryptographic backend. Callers match them
// with errors.Is; implementations may wrap them with context.
var (
	// ErrUnsupportedAlgorithm is returned for unknown key or digest names.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrKeyGenerationFailed is returned when the backend could not produce a key pair.
	ErrKeyGenerationFailed = errors.New("key generation failed")

	// ErrEncodingFailed is returned when a key could not be serialised to PEM.
	ErrEncodingFailed = errors.New("encoding failed")

	// ErrDecodingFailed is returned for malformed PEM input and wrong passwords alike.
	ErrDecodingFailed = errors.New("decoding failed")

	// ErrWrongMode is returned when a signature is asked for the operation of the other mode.
	ErrWrongMode = errors.New("signature used in wrong mode")

	// ErrAlreadyFinalized is returned when data is fed into a finalised digest or signature.
	ErrAlreadyFinalized = errors.New("already finalized")

	// ErrBackendUnavailable is returned when the backend handle is nil, uninitialised or cleaned up.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrKeyReleased is returned when a released key is used, directly or
	// through a signature created from it.
	ErrKeyReleased = errors.New("key released")

	// ErrReleased is returned when a released digest or signature is used.
	ErrReleased = errors.New("object released")
)

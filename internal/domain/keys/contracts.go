package keys

import (
	"context"

	"github.com/MGTheTrain/crypto-facade/internal/domain/cryptoalg"
)

// KeyPairService generates key pairs and manages their stored PEMs.
type KeyPairService interface {
	// Generate creates a key pair of the given algorithm, stores the private key
	// encrypted under password and the public key in clear.
	// It returns the metadata of both halves, private first.
	Generate(ctx context.Context, userID, algorithm string, password []byte) ([]*CryptoKeyMeta, error)

	// Import stores an externally created key pair given as PEM. The private
	// key is re-encrypted under password before it is stored.
	Import(ctx context.Context, userID, privatePEM string, pemPassword, password []byte) ([]*CryptoKeyMeta, error)

	// LoadPrivateKey decrypts a stored private key. The caller releases it.
	LoadPrivateKey(ctx context.Context, keyID string, password []byte) (cryptoalg.PrivateKey, error)

	// LoadPublicKey loads a stored public key. The caller releases it.
	LoadPublicKey(ctx context.Context, keyID string) (cryptoalg.PublicKey, error)

	// ChangePassword re-encrypts a stored private key under a new password.
	ChangePassword(ctx context.Context, keyID string, oldPassword, newPassword []byte) error
}

// CryptoKeyMetadataService defines methods for managing cryptographic key metadata and deleting keys.
type CryptoKeyMetadataService interface {
	// List retrieves all cryptographic keys metadata considering a query filter when set.
	List(ctx context.Context, query *CryptoKeyQuery) ([]*CryptoKeyMeta, error)

	// GetByID retrieves the metadata of a cryptographic key by its unique ID.
	GetByID(ctx context.Context, keyID string) (*CryptoKeyMeta, error)

	// DeleteByKeyPairID deletes both halves of the key pair the given key belongs to.
	DeleteByKeyPairID(ctx context.Context, keyID string) error
}

// SignatureService signs and verifies data with stored keys.
type SignatureService interface {
	// Sign signs data with a stored private key.
	Sign(ctx context.Context, keyID string, password, data []byte) ([]byte, error)

	// Verify checks signature against data with a stored public key.
	// A stored private key ID is resolved to the public key of its pair.
	Verify(ctx context.Context, keyID string, data, signature []byte) (bool, error)
}

// DigestService computes message digests.
type DigestService interface {
	// Compute returns the lowercase hex digest of data.
	Compute(ctx context.Context, algorithm string, data []byte) (string, error)
}

// CryptoKeyRepository defines the interface for CryptoKey-related operations
type CryptoKeyRepository interface {
	Create(ctx context.Context, key *CryptoKeyMeta) error
	List(ctx context.Context, query *CryptoKeyQuery) ([]*CryptoKeyMeta, error)
	GetByID(ctx context.Context, keyID string) (*CryptoKeyMeta, error)
	UpdateByID(ctx context.Context, key *CryptoKeyMeta) error
	DeleteByKeyPairID(ctx context.Context, keyPairID string) error
}

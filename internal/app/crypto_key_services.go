package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MGTheTrain/crypto-facade/internal/domain/cryptoalg"
	"github.com/MGTheTrain/crypto-facade/internal/domain/keys"
	"github.com/MGTheTrain/crypto-facade/internal/pkg/logger"

	"github.com/google/uuid"
)

// keyPairService implements the KeyPairService interface on top of a key factory and a key store
type keyPairService struct {
	cryptoKeyRepo keys.CryptoKeyRepository
	keyFactory    cryptoalg.KeyFactory
	logger        logger.Logger
}

// NewKeyPairService creates a new keyPairService instance
func NewKeyPairService(
	cryptoKeyRepo keys.CryptoKeyRepository,
	keyFactory cryptoalg.KeyFactory,
	logger logger.Logger,
) (keys.KeyPairService, error) {
	if cryptoKeyRepo == nil || keyFactory == nil || logger == nil {
		return nil, errors.New("key pair service requires a repository, a key factory and a logger")
	}
	return &keyPairService{
		cryptoKeyRepo: cryptoKeyRepo,
		keyFactory:    keyFactory,
		logger:        logger,
	}, nil
}

// Generate creates and stores a key pair.
// It returns the private key metadata first, followed by the public key metadata.
func (s *keyPairService) Generate(ctx context.Context, userID, algorithm string, password []byte) ([]*keys.CryptoKeyMeta, error) {
	if len(password) == 0 {
		return nil, keys.ErrPasswordRequired
	}

	privateKey, publicKey, err := s.keyFactory.CreateKeyPair(algorithm)
	if err != nil {
		return nil, err
	}
	defer privateKey.Release()
	defer publicKey.Release()

	keyMetas, err := s.store(ctx, userID, privateKey, publicKey, password)
	if err != nil {
		return nil, err
	}

	s.logger.Info(fmt.Sprintf("Generated %s key pair %s for user %s", algorithm, keyMetas[0].KeyPairID, userID))
	return keyMetas, nil
}

// Import stores a key pair decoded from an externally created private key PEM.
func (s *keyPairService) Import(ctx context.Context, userID, privatePEM string, pemPassword, password []byte) ([]*keys.CryptoKeyMeta, error) {
	if len(password) == 0 {
		return nil, keys.ErrPasswordRequired
	}

	privateKey, err := s.keyFactory.LoadPrivateKeyFromPem(privatePEM, pemPassword)
	if err != nil {
		return nil, err
	}
	defer privateKey.Release()

	publicKey, err := privateKey.Public()
	if err != nil {
		return nil, err
	}
	defer publicKey.Release()

	keyMetas, err := s.store(ctx, userID, privateKey, publicKey, password)
	if err != nil {
		return nil, err
	}

	s.logger.Info(fmt.Sprintf("Imported %s key pair %s for user %s", privateKey.Algorithm(), keyMetas[0].KeyPairID, userID))
	return keyMetas, nil
}

// store encodes both halves and persists them under a fresh key pair ID.
// A half-written pair is removed again.
func (s *keyPairService) store(ctx context.Context, userID string, privateKey cryptoalg.PrivateKey, publicKey cryptoalg.PublicKey, password []byte) ([]*keys.CryptoKeyMeta, error) {
	privatePEM, err := s.keyFactory.WritePrivateKeyToPem(privateKey, password)
	if err != nil {
		return nil, err
	}
	publicPEM, err := s.keyFactory.WritePublicKeyToPem(publicKey)
	if err != nil {
		return nil, err
	}

	keyPairID := uuid.New().String()
	now := time.Now().UTC()
	newMeta := func(keyType, pemData string) *keys.CryptoKeyMeta {
		return &keys.CryptoKeyMeta{
			ID:              uuid.New().String(),
			KeyPairID:       keyPairID,
			Algorithm:       string(privateKey.Algorithm()),
			KeySize:         uint32(privateKey.BitSize()),
			Type:            keyType,
			PEM:             pemData,
			DateTimeCreated: now,
			UserID:          userID,
		}
	}

	privateMeta := newMeta(keys.KeyTypePrivate, privatePEM)
	if err := s.cryptoKeyRepo.Create(ctx, privateMeta); err != nil {
		return nil, fmt.Errorf("failed to store private key: %w", err)
	}

	publicMeta := newMeta(keys.KeyTypePublic, publicPEM)
	if err := s.cryptoKeyRepo.Create(ctx, publicMeta); err != nil {
		if delErr := s.cryptoKeyRepo.DeleteByKeyPairID(ctx, keyPairID); delErr != nil {
			s.logger.Error(fmt.Sprintf("Failed to remove incomplete key pair %s: %v", keyPairID, delErr))
		}
		return nil, fmt.Errorf("failed to store public key: %w", err)
	}

	return []*keys.CryptoKeyMeta{privateMeta, publicMeta}, nil
}

// LoadPrivateKey decrypts the stored private key with the given ID
func (s *keyPairService) LoadPrivateKey(ctx context.Context, keyID string, password []byte) (cryptoalg.PrivateKey, error) {
	keyMeta, err := s.cryptoKeyRepo.GetByID(ctx, keyID)
	if err != nil {
		return nil, err
	}
	if keyMeta.Type != keys.KeyTypePrivate {
		return nil, fmt.Errorf("key %s: %w", keyID, keys.ErrKeyTypeMismatch)
	}

	return s.keyFactory.LoadPrivateKeyFromPem(keyMeta.PEM, password)
}

// LoadPublicKey loads the stored public key with the given ID.
// A private key ID resolves to the public half of the same pair.
func (s *keyPairService) LoadPublicKey(ctx context.Context, keyID string) (cryptoalg.PublicKey, error) {
	keyMeta, err := s.cryptoKeyRepo.GetByID(ctx, keyID)
	if err != nil {
		return nil, err
	}

	if keyMeta.Type == keys.KeyTypePrivate {
		keyMeta, err = s.publicHalf(ctx, keyMeta.KeyPairID)
		if err != nil {
			return nil, err
		}
	}

	return s.keyFactory.LoadPublicKeyFromPem(keyMeta.PEM)
}

func (s *keyPairService) publicHalf(ctx context.Context, keyPairID string) (*keys.CryptoKeyMeta, error) {
	query := keys.NewCryptoKeyQuery()
	query.KeyPairID = keyPairID
	query.Type = keys.KeyTypePublic

	keyMetas, err := s.cryptoKeyRepo.List(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(keyMetas) == 0 {
		return nil, fmt.Errorf("public key of pair %s: %w", keyPairID, keys.ErrKeyNotFound)
	}
	return keyMetas[0], nil
}

// ChangePassword re-encrypts the stored private key under newPassword
func (s *keyPairService) ChangePassword(ctx context.Context, keyID string, oldPassword, newPassword []byte) error {
	if len(newPassword) == 0 {
		return keys.ErrPasswordRequired
	}

	keyMeta, err := s.cryptoKeyRepo.GetByID(ctx, keyID)
	if err != nil {
		return err
	}
	if keyMeta.Type != keys.KeyTypePrivate {
		return fmt.Errorf("key %s: %w", keyID, keys.ErrKeyTypeMismatch)
	}

	privateKey, err := s.keyFactory.LoadPrivateKeyFromPem(keyMeta.PEM, oldPassword)
	if err != nil {
		return err
	}
	defer privateKey.Release()

	privatePEM, err := s.keyFactory.WritePrivateKeyToPem(privateKey, newPassword)
	if err != nil {
		return err
	}

	keyMeta.PEM = privatePEM
	if err := s.cryptoKeyRepo.UpdateByID(ctx, keyMeta); err != nil {
		return fmt.Errorf("failed to update private key: %w", err)
	}

	s.logger.Info(fmt.Sprintf("Changed password of key %s", keyID))
	return nil
}

// cryptoKeyMetadataService implements the CryptoKeyMetadataService interface to manage cryptographic key metadata.
type cryptoKeyMetadataService struct {
	cryptoKeyRepo keys.CryptoKeyRepository
	logger        logger.Logger
}

// NewCryptoKeyMetadataService creates a new cryptoKeyMetadataService instance
func NewCryptoKeyMetadataService(cryptoKeyRepo keys.CryptoKeyRepository, logger logger.Logger) (keys.CryptoKeyMetadataService, error) {
	if cryptoKeyRepo == nil || logger == nil {
		return nil, errors.New("key metadata service requires a repository and a logger")
	}
	return &cryptoKeyMetadataService{
		cryptoKeyRepo: cryptoKeyRepo,
		logger:        logger,
	}, nil
}

// List retrieves all cryptographic key metadata based on a query.
func (s *cryptoKeyMetadataService) List(ctx context.Context, query *keys.CryptoKeyQuery) ([]*keys.CryptoKeyMeta, error) {
	if query != nil {
		if err := query.Validate(); err != nil {
			return nil, fmt.Errorf("invalid query: %w", err)
		}
	}

	keyMetas, err := s.cryptoKeyRepo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list crypto keys: %w", err)
	}
	return keyMetas, nil
}

// GetByID retrieves the metadata of a cryptographic key by its ID.
func (s *cryptoKeyMetadataService) GetByID(ctx context.Context, keyID string) (*keys.CryptoKeyMeta, error) {
	return s.cryptoKeyRepo.GetByID(ctx, keyID)
}

// DeleteByKeyPairID deletes both halves of the pair the key belongs to.
func (s *cryptoKeyMetadataService) DeleteByKeyPairID(ctx context.Context, keyID string) error {
	keyMeta, err := s.cryptoKeyRepo.GetByID(ctx, keyID)
	if err != nil {
		return err
	}

	if err := s.cryptoKeyRepo.DeleteByKeyPairID(ctx, keyMeta.KeyPairID); err != nil {
		return err
	}

	s.logger.Info(fmt.Sprintf("Deleted key pair %s", keyMeta.KeyPairID))
	return nil
}

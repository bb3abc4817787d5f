package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/MGTheTrain/crypto-facade/internal/domain/keys"
	"github.com/MGTheTrain/crypto-facade/internal/pkg/logger"
)

// signatureService implements the SignatureService interface with keys loaded through a KeyPairService
type signatureService struct {
	keyPairService keys.KeyPairService
	logger         logger.Logger
}

// NewSignatureService creates a new signatureService instance
func NewSignatureService(keyPairService keys.KeyPairService, logger logger.Logger) (keys.SignatureService, error) {
	if keyPairService == nil || logger == nil {
		return nil, errors.New("signature service requires a key pair service and a logger")
	}
	return &signatureService{
		keyPairService: keyPairService,
		logger:         logger,
	}, nil
}

// Sign signs data with the stored private key. The decrypted key is released before returning.
func (s *signatureService) Sign(ctx context.Context, keyID string, password, data []byte) ([]byte, error) {
	privateKey, err := s.keyPairService.LoadPrivateKey(ctx, keyID, password)
	if err != nil {
		return nil, err
	}
	defer privateKey.Release()

	sig, err := privateKey.CreateSignature()
	if err != nil {
		return nil, err
	}
	defer sig.Release()

	if err := sig.Update(data); err != nil {
		return nil, err
	}
	value, err := sig.Value()
	if err != nil {
		return nil, fmt.Errorf("failed to sign with key %s: %w", keyID, err)
	}

	s.logger.Info(fmt.Sprintf("Signed %d bytes with key %s", len(data), keyID))
	return value, nil
}

// Verify checks signature against data with the stored public key.
func (s *signatureService) Verify(ctx context.Context, keyID string, data, signature []byte) (bool, error) {
	publicKey, err := s.keyPairService.LoadPublicKey(ctx, keyID)
	if err != nil {
		return false, err
	}
	defer publicKey.Release()

	sig, err := publicKey.CreateSignature()
	if err != nil {
		return false, err
	}
	defer sig.Release()

	if err := sig.Update(data); err != nil {
		return false, err
	}
	valid, err := sig.Verify(signature)
	if err != nil {
		return false, err
	}

	s.logger.Info(fmt.Sprintf("Verified signature with key %s: %t", keyID, valid))
	return valid, nil
}

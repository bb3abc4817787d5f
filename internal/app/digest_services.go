package app

import (
	"context"
	"errors"

	"github.com/MGTheTrain/crypto-facade/internal/domain/cryptoalg"
	"github.com/MGTheTrain/crypto-facade/internal/domain/keys"
	"github.com/MGTheTrain/crypto-facade/internal/pkg/logger"
)

type digestService struct {
	digestFactory cryptoalg.DigestFactory
	logger        logger.Logger
}

// NewDigestService creates a new digestService instance
func NewDigestService(digestFactory cryptoalg.DigestFactory, logger logger.Logger) (keys.DigestService, error) {
	if digestFactory == nil || logger == nil {
		return nil, errors.New("digest service requires a digest factory and a logger")
	}
	return &digestService{
		digestFactory: digestFactory,
		logger:        logger,
	}, nil
}

// Compute hashes data and returns the lowercase hex digest
func (s *digestService) Compute(ctx context.Context, algorithm string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	d, err := s.digestFactory.NewDigest(algorithm)
	if err != nil {
		return "", err
	}
	defer d.Release()

	if err := d.Update(data); err != nil {
		return "", err
	}
	return d.Digest()
}

//go:build unit
// +build unit

package v1

import (
	"context"

	"github.com/MGTheTrain/crypto-facade/internal/domain/cryptoalg"
	"github.com/MGTheTrain/crypto-facade/internal/domain/keys"

	"github.com/stretchr/testify/mock"
)

// MockKeyPairService is a mock implementation of KeyPairService
type MockKeyPairService struct {
	mock.Mock
}

func (m *MockKeyPairService) Generate(ctx context.Context, userID, algorithm string, password []byte) ([]*keys.CryptoKeyMeta, error) {
	args := m.Called(ctx, userID, algorithm, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*keys.CryptoKeyMeta), args.Error(1)
}

func (m *MockKeyPairService) Import(ctx context.Context, userID, privatePEM string, pemPassword, password []byte) ([]*keys.CryptoKeyMeta, error) {
	args := m.Called(ctx, userID, privatePEM, pemPassword, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*keys.CryptoKeyMeta), args.Error(1)
}

func (m *MockKeyPairService) LoadPrivateKey(ctx context.Context, keyID string, password []byte) (cryptoalg.PrivateKey, error) {
	args := m.Called(ctx, keyID, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cryptoalg.PrivateKey), args.Error(1)
}

func (m *MockKeyPairService) LoadPublicKey(ctx context.Context, keyID string) (cryptoalg.PublicKey, error) {
	args := m.Called(ctx, keyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cryptoalg.PublicKey), args.Error(1)
}

func (m *MockKeyPairService) ChangePassword(ctx context.Context, keyID string, oldPassword, newPassword []byte) error {
	args := m.Called(ctx, keyID, oldPassword, newPassword)
	return args.Error(0)
}

// MockCryptoKeyMetadataService is a mock implementation of CryptoKeyMetadataService
type MockCryptoKeyMetadataService struct {
	mock.Mock
}

func (m *MockCryptoKeyMetadataService) List(ctx context.Context, query *keys.CryptoKeyQuery) ([]*keys.CryptoKeyMeta, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*keys.CryptoKeyMeta), args.Error(1)
}

func (m *MockCryptoKeyMetadataService) GetByID(ctx context.Context, keyID string) (*keys.CryptoKeyMeta, error) {
	args := m.Called(ctx, keyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*keys.CryptoKeyMeta), args.Error(1)
}

func (m *MockCryptoKeyMetadataService) DeleteByKeyPairID(ctx context.Context, keyID string) error {
	args := m.Called(ctx, keyID)
	return args.Error(0)
}

// MockSignatureService is a mock implementation of SignatureService
type MockSignatureService struct {
	mock.Mock
}

func (m *MockSignatureService) Sign(ctx context.Context, keyID string, password, data []byte) ([]byte, error) {
	args := m.Called(ctx, keyID, password, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSignatureService) Verify(ctx context.Context, keyID string, data, signature []byte) (bool, error) {
	args := m.Called(ctx, keyID, data, signature)
	return args.Bool(0), args.Error(1)
}

// MockDigestService is a mock implementation of DigestService
type MockDigestService struct {
	mock.Mock
}

func (m *MockDigestService) Compute(ctx context.Context, algorithm string, data []byte) (string, error) {
	args := m.Called(ctx, algorithm, data)
	return args.String(0), args.Error(1)
}

//go:build integration
// +build integration

package app

import (
	"testing"

	"github.com/MGTheTrain/crypto-facade/internal/domain/cryptoalg"
	"github.com/MGTheTrain/crypto-facade/internal/domain/keys"
	"github.com/MGTheTrain/crypto-facade/internal/infrastructure/cryptography"
	"github.com/MGTheTrain/crypto-facade/internal/infrastructure/persistence"
	"github.com/MGTheTrain/crypto-facade/internal/pkg/testutil"

	"github.com/stretchr/testify/require"
)

// TestUserID owns every key created through the test services
const TestUserID = "integration-test-user"

// TestPassword encrypts private keys stored during tests
var TestPassword = []byte("integration-test-password")

// TestServices holds all application services and dependencies for testing
type TestServices struct {
	KeyPairService           keys.KeyPairService
	CryptoKeyMetadataService keys.CryptoKeyMetadataService
	SignatureService         keys.SignatureService
	DigestService            keys.DigestService

	// Infrastructure
	Backend    *cryptography.Backend
	KeyFactory cryptoalg.KeyFactory
	DBContext  *persistence.TestContext
}

// SetupTestServices initializes all application services for integration tests
func SetupTestServices(t *testing.T, dbType string) *TestServices {
	t.Helper()

	logger := testutil.SetupTestLogger(t)

	// Setup database
	dbContext := persistence.SetupTestDB(t, dbType)

	// Setup cryptographic backend
	backend, err := cryptography.Init(testutil.TestBackendSettings(), logger)
	require.NoError(t, err, "Failed to initialize backend")
	t.Cleanup(func() {
		_ = backend.Cleanup()
	})

	keyFactory, err := cryptography.NewKeyFactory(backend)
	require.NoError(t, err, "Failed to create key factory")

	keyPairService, err := NewKeyPairService(dbContext.CryptoKeyRepo, keyFactory, logger)
	require.NoError(t, err, "Failed to create KeyPairService")

	cryptoKeyMetadataService, err := NewCryptoKeyMetadataService(dbContext.CryptoKeyRepo, logger)
	require.NoError(t, err, "Failed to create CryptoKeyMetadataService")

	signatureService, err := NewSignatureService(keyPairService, logger)
	require.NoError(t, err, "Failed to create SignatureService")

	digestService, err := NewDigestService(backend, logger)
	require.NoError(t, err, "Failed to create DigestService")

	return &TestServices{
		KeyPairService:           keyPairService,
		CryptoKeyMetadataService: cryptoKeyMetadataService,
		SignatureService:         signatureService,
		DigestService:            digestService,
		Backend:                  backend,
		KeyFactory:               keyFactory,
		DBContext:                dbContext,
	}
}

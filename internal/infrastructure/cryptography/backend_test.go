//go:build unit
// +build unit

package cryptography

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/MGTheTrain/crypto-facade/internal/domain/cryptoalg"
	"github.com/MGTheTrain/crypto-facade/internal/pkg/config"
	"github.com/MGTheTrain/crypto-facade/internal/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestBackend(t *testing.T) *Backend {
	t.Helper()
	log := testutil.SetupTestLogger(t)
	b, err := Init(testutil.TestBackendSettings(), log)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = b.Cleanup()
	})
	return b
}

var errEntropyExhausted = errors.New("entropy source exhausted")

type exhaustedReader struct{}

func (exhaustedReader) Read([]byte) (int, error) { return 0, errEntropyExhausted }

func setupBackendWithRandom(t *testing.T, random io.Reader) (*Backend, cryptoalg.KeyFactory) {
	t.Helper()
	b, err := Init(testutil.TestBackendSettings(), testutil.SetupTestLogger(t), WithRandom(random))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = b.Cleanup()
	})
	f, err := NewKeyFactory(b)
	require.NoError(t, err)
	return b, f
}

func TestInit(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		b, err := Init(nil, nil)
		require.NoError(t, err)
		assert.Equal(t, config.DefaultBackendSettings(), b.Settings())
		assert.NotNil(t, b.Random())
		assert.False(t, b.Closed())
		require.NoError(t, b.Cleanup())
	})

	t.Run("invalid settings", func(t *testing.T) {
		s := config.DefaultBackendSettings()
		s.RSAKeySize = 1024
		b, err := Init(&s, nil)
		assert.Error(t, err)
		assert.Nil(t, b)
	})

	t.Run("independent handles", func(t *testing.T) {
		b1 := setupTestBackend(t)
		b2 := setupTestBackend(t)

		require.NoError(t, b1.Cleanup())
		_, err := NewDigest(b1, "SHA256")
		assert.ErrorIs(t, err, cryptoalg.ErrBackendUnavailable)

		d, err := NewDigest(b2, "SHA256")
		require.NoError(t, err)
		d.Release()
	})
}

func TestBackendUnavailable(t *testing.T) {
	closed := setupTestBackend(t)
	require.NoError(t, closed.Cleanup())

	handles := map[string]*Backend{
		"nil":        nil,
		"zero value": {},
		"cleaned up": closed,
	}

	for name, b := range handles {
		t.Run(name, func(t *testing.T) {
			_, err := NewDigest(b, "SHA1")
			assert.ErrorIs(t, err, cryptoalg.ErrBackendUnavailable)

			_, err = NewPersistentDigest(b, "SHA1")
			assert.ErrorIs(t, err, cryptoalg.ErrBackendUnavailable)

			_, err = NewKeyFactory(b)
			assert.ErrorIs(t, err, cryptoalg.ErrBackendUnavailable)
		})
	}

	t.Run("cleanup of an uninitialised handle", func(t *testing.T) {
		var b *Backend
		assert.ErrorIs(t, b.Cleanup(), cryptoalg.ErrBackendUnavailable)
		assert.ErrorIs(t, (&Backend{}).Cleanup(), cryptoalg.ErrBackendUnavailable)
	})
}

func TestCleanup(t *testing.T) {
	b := setupTestBackend(t)
	factory, err := NewKeyFactory(b)
	require.NoError(t, err)

	priv, pub, err := factory.CreateKeyPair("ECDSA")
	require.NoError(t, err)
	d, err := NewDigest(b, "MD5")
	require.NoError(t, err)
	sig, err := priv.CreateSignature()
	require.NoError(t, err)
	assert.Equal(t, 4, b.liveObjects())

	require.NoError(t, b.Cleanup())
	assert.True(t, b.Closed())
	assert.Equal(t, 0, b.liveObjects())

	assert.True(t, priv.Released())
	assert.True(t, pub.Released())
	assert.Equal(t, cryptoalg.StateReleased, d.State())
	assert.Equal(t, cryptoalg.StateReleased, sig.State())

	t.Run("operations fail after cleanup", func(t *testing.T) {
		assert.ErrorIs(t, d.Update([]byte("x")), cryptoalg.ErrBackendUnavailable)
		_, err := sig.Value()
		assert.ErrorIs(t, err, cryptoalg.ErrBackendUnavailable)
		_, err = priv.CreateSignature()
		assert.ErrorIs(t, err, cryptoalg.ErrBackendUnavailable)
		_, _, err = factory.CreateKeyPair("RSA")
		assert.ErrorIs(t, err, cryptoalg.ErrBackendUnavailable)
		_, err = factory.LoadPublicKeyFromPem("")
		assert.ErrorIs(t, err, cryptoalg.ErrBackendUnavailable)
	})

	t.Run("idempotent", func(t *testing.T) {
		assert.NoError(t, b.Cleanup())
		assert.NotPanics(t, func() {
			priv.Release()
			pub.Release()
			d.Release()
			sig.Release()
		})
	})
}

func TestConcurrentObjectCreation(t *testing.T) {
	b := setupTestBackend(t)

	const workers = 16
	var wg sync.WaitGroup
	digests := make([]cryptoalg.Digest, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			digests[i], errs[i] = NewDigest(b, "SHA256")
			if errs[i] == nil {
				errs[i] = digests[i].Update([]byte("concurrent"))
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
	}
	assert.Equal(t, workers, b.liveObjects())

	for _, d := range digests[:workers/2] {
		d.Release()
	}
	assert.Equal(t, workers/2, b.liveObjects())

	require.NoError(t, b.Cleanup())
	assert.Equal(t, 0, b.liveObjects())
}

func TestWithRandom_KeyGenerationFailure(t *testing.T) {
	b, f := setupBackendWithRandom(t, exhaustedReader{})
	assert.Equal(t, exhaustedReader{}, b.Random())

	for _, alg := range []cryptoalg.KeyAlgorithm{cryptoalg.KeyAlgorithmEd25519, cryptoalg.KeyAlgorithmDSA} {
		t.Run(alg.String(), func(t *testing.T) {
			priv, pub, err := f.CreateKeyPair(alg.String())
			assert.ErrorIs(t, err, cryptoalg.ErrKeyGenerationFailed)
			assert.Nil(t, priv)
			assert.Nil(t, pub)
		})
	}
	assert.Equal(t, 0, b.liveObjects())
}

func TestWithRandom_SaltReadFailure(t *testing.T) {
	// enough entropy for one Ed25519 seed, none for the PBES2 salt
	random := io.MultiReader(io.LimitReader(rand.Reader, ed25519.SeedSize), exhaustedReader{})
	_, f := setupBackendWithRandom(t, random)

	priv, pub, err := f.CreateKeyPair("Ed25519")
	require.NoError(t, err)
	defer priv.Release()
	defer pub.Release()

	_, err = f.WritePrivateKeyToPem(priv, testPassword)
	assert.ErrorIs(t, err, cryptoalg.ErrEncodingFailed)
	assert.Contains(t, err.Error(), "failed to read salt")

	unencrypted, err := f.WritePrivateKeyToPem(priv, nil)
	require.NoError(t, err)
	assert.Contains(t, unencrypted, PemTypePrivateKey)
}

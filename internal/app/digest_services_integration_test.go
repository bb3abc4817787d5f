//go:build integration
// +build integration

package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MGTheTrain/crypto-facade/internal/domain/cryptoalg"
	"github.com/MGTheTrain/crypto-facade/internal/pkg/config"
)

func TestDigestService_Compute(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	tests := []struct {
		algorithm string
		data      string
		expected  string
	}{
		{"SHA256", "", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"SHA256", "abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{"SHA1", "abc", "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{"MD5", "abc", "900150983cd24fb0d6963f7d28e17f72"},
		{"SHA3-256", "abc", "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532"},
	}

	for _, tt := range tests {
		t.Run(tt.algorithm+"/"+tt.data, func(t *testing.T) {
			digest, err := services.DigestService.Compute(ctx, tt.algorithm, []byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, digest)
		})
	}

	t.Run("unsupported algorithm", func(t *testing.T) {
		_, err := services.DigestService.Compute(ctx, "SHA-999", []byte("abc"))
		require.ErrorIs(t, err, cryptoalg.ErrUnsupportedAlgorithm)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := services.DigestService.Compute(cancelled, "SHA256", []byte("abc"))
		require.ErrorIs(t, err, context.Canceled)
	})
}

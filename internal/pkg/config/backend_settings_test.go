//go:build unit
// +build unit

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBackendSettingsValidation(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(s *BackendSettings)
		expectedError bool
	}{
		{
			name:          "defaults",
			mutate:        func(s *BackendSettings) {},
			expectedError: false,
		},
		{
			name:          "rsa key size too small",
			mutate:        func(s *BackendSettings) { s.RSAKeySize = 1024 },
			expectedError: true,
		},
		{
			name:          "unknown dsa parameter size",
			mutate:        func(s *BackendSettings) { s.DSAParameterSize = "L512N128" },
			expectedError: true,
		},
		{
			name:          "unknown curve",
			mutate:        func(s *BackendSettings) { s.ECDSACurve = "secp256k1" },
			expectedError: true,
		},
		{
			name:          "des cipher rejected",
			mutate:        func(s *BackendSettings) { s.PEMCipher = "des-ede3-cbc" },
			expectedError: true,
		},
		{
			name:          "too few iterations",
			mutate:        func(s *BackendSettings) { s.PBKDF2Iterations = 10 },
			expectedError: true,
		},
		{
			name:          "salt too short",
			mutate:        func(s *BackendSettings) { s.PBKDF2SaltSize = 4 },
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := DefaultBackendSettings()
			tt.mutate(&settings)

			err := settings.Validate()
			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

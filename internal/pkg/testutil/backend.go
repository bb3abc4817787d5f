package testutil

import "github.com/MGTheTrain/crypto-facade/internal/pkg/config"

// TestBackendSettings returns valid backend settings tuned for fast tests:
// the smallest DSA domain and the minimum PBKDF2 work factor.
func TestBackendSettings() *config.BackendSettings {
	s := config.DefaultBackendSettings()
	s.DSAParameterSize = config.DSAParameterSizeL1024N160
	s.PBKDF2Iterations = 1000
	s.PBKDF2SaltSize = 8
	return &s
}

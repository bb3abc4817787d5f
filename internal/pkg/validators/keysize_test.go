//go:build unit
// +build unit

package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type keyRequest struct {
	Algorithm string
	KeySize   uint32 `validate:"keysize"`
}

type rsaSettings struct {
	RSAKeySize int `validate:"rsakeysize"`
}

func TestKeySizeValidation(t *testing.T) {
	validate, err := New()
	require.NoError(t, err)

	tests := []struct {
		name      string
		request   keyRequest
		wantValid bool
	}{
		{"rsa 2048", keyRequest{"RSA", 2048}, true},
		{"rsa 1024 rejected", keyRequest{"RSA", 1024}, false},
		{"dsa 1024", keyRequest{"DSA", 1024}, true},
		{"dsa 4096 rejected", keyRequest{"DSA", 4096}, false},
		{"ecdsa 521", keyRequest{"ECDSA", 521}, true},
		{"ecdsa 512 rejected", keyRequest{"ECDSA", 512}, false},
		{"ed25519 default", keyRequest{"Ed25519", 0}, true},
		{"unknown algorithm", keyRequest{"AES", 256}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.request)
			if tt.wantValid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestRSAKeySizeValidation(t *testing.T) {
	validate, err := New()
	require.NoError(t, err)

	assert.NoError(t, validate.Struct(rsaSettings{RSAKeySize: 3072}))
	assert.Error(t, validate.Struct(rsaSettings{RSAKeySize: 512}))
	assert.Error(t, validate.Struct(rsaSettings{RSAKeySize: -2048}))
}

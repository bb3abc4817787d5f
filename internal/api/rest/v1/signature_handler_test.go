//go:build unit
// +build unit

package v1

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/MGTheTrain/crypto-facade/internal/domain/cryptoalg"
	"github.com/MGTheTrain/crypto-facade/internal/domain/keys"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSignatureHandler_Sign(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockSignatureService := new(MockSignatureService)
		handler := NewSignatureHandler(mockSignatureService)

		mockSignatureService.
			On("Sign", mock.Anything, "key-1", []byte("secret"), []byte{1, 2, 3}).
			Return([]byte{9, 9}, nil)

		c, w := newTestContext("POST", "/signatures", `{"key_id": "key-1", "password": "secret", "data": "AQID"}`)
		handler.Sign(c)

		require.Equal(t, http.StatusOK, w.Code)
		var response SignResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, []byte{9, 9}, response.Signature)
		assert.Equal(t, "key-1", response.KeyID)
		mockSignatureService.AssertExpectations(t)
	})

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"wrong password", cryptoalg.ErrDecodingFailed, http.StatusUnauthorized},
		{"unknown key", keys.ErrKeyNotFound, http.StatusNotFound},
		{"public key", keys.ErrKeyTypeMismatch, http.StatusBadRequest},
		{"backend closed", cryptoalg.ErrBackendUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSignatureService := new(MockSignatureService)
			handler := NewSignatureHandler(mockSignatureService)

			mockSignatureService.On("Sign", mock.Anything, "key-1", mock.Anything, mock.Anything).Return(nil, tt.err)

			c, w := newTestContext("POST", "/signatures", `{"key_id": "key-1", "password": "secret", "data": "AQID"}`)
			handler.Sign(c)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	t.Run("missing key ID", func(t *testing.T) {
		handler := NewSignatureHandler(new(MockSignatureService))

		c, w := newTestContext("POST", "/signatures", `{"password": "secret", "data": "AQID"}`)
		handler.Sign(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSignatureHandler_Verify(t *testing.T) {
	for _, valid := range []bool{true, false} {
		mockSignatureService := new(MockSignatureService)
		handler := NewSignatureHandler(mockSignatureService)

		mockSignatureService.
			On("Verify", mock.Anything, "key-1", []byte{1, 2, 3}, []byte{9, 9}).
			Return(valid, nil)

		c, w := newTestContext("POST", "/signatures/verify", `{"key_id": "key-1", "data": "AQID", "signature": "CQk="}`)
		handler.Verify(c)

		require.Equal(t, http.StatusOK, w.Code)
		var response VerifyResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, valid, response.Valid)
	}

	t.Run("missing signature", func(t *testing.T) {
		handler := NewSignatureHandler(new(MockSignatureService))

		c, w := newTestContext("POST", "/signatures/verify", `{"key_id": "key-1", "data": "AQID"}`)
		handler.Verify(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("signature is not base64", func(t *testing.T) {
		handler := NewSignatureHandler(new(MockSignatureService))

		c, w := newTestContext("POST", "/signatures/verify", `{"key_id": "key-1", "signature": "***"}`)
		handler.Verify(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

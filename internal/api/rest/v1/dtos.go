package v1

import (
	"fmt"
	"time"

	"github.com/MGTheTrain/crypto-facade/internal/domain/keys"
	"github.com/MGTheTrain/crypto-facade/internal/pkg/validators"
)

// GenerateKeyRequest is the body of POST /keys
type GenerateKeyRequest struct {
	Algorithm string `json:"algorithm" validate:"required,oneof=DSA RSA ECDSA Ed25519"`
	Password  string `json:"password" validate:"required"`
}

// Validate for validating GenerateKeyRequest struct
func (r *GenerateKeyRequest) Validate() error {
	return validateRequest(r)
}

// ImportKeyRequest is the body of POST /keys/import
type ImportKeyRequest struct {
	PEM         string `json:"pem" validate:"required"`
	PEMPassword string `json:"pem_password"`
	Password    string `json:"password" validate:"required"`
}

// Validate for validating ImportKeyRequest struct
func (r *ImportKeyRequest) Validate() error {
	return validateRequest(r)
}

// ChangePasswordRequest is the body of PUT /keys/:id/password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,nefield=OldPassword"`
}

// Validate for validating ChangePasswordRequest struct
func (r *ChangePasswordRequest) Validate() error {
	return validateRequest(r)
}

// DigestRequest is the body of POST /digests. Data is base64 in JSON.
type DigestRequest struct {
	Algorithm string `json:"algorithm" validate:"required"`
	Data      []byte `json:"data"`
}

// Validate for validating DigestRequest struct
func (r *DigestRequest) Validate() error {
	return validateRequest(r)
}

// DigestResponse carries a lowercase hex digest
type DigestResponse struct {
	Algorithm string `json:"algorithm"`
	Digest    string `json:"digest"`
}

// SignRequest is the body of POST /signatures
type SignRequest struct {
	KeyID    string `json:"key_id" validate:"required"`
	Password string `json:"password" validate:"required"`
	Data     []byte `json:"data"`
}

// Validate for validating SignRequest struct
func (r *SignRequest) Validate() error {
	return validateRequest(r)
}

// SignResponse carries the signature, base64 encoded in JSON
type SignResponse struct {
	KeyID     string `json:"key_id"`
	Signature []byte `json:"signature"`
}

// VerifyRequest is the body of POST /signatures/verify
type VerifyRequest struct {
	KeyID     string `json:"key_id" validate:"required"`
	Data      []byte `json:"data"`
	Signature []byte `json:"signature" validate:"required"`
}

// Validate for validating VerifyRequest struct
func (r *VerifyRequest) Validate() error {
	return validateRequest(r)
}

// VerifyResponse reports whether a signature matched
type VerifyResponse struct {
	Valid bool `json:"valid"`
}

// CryptoKeyMetaResponse represents the response structure for cryptographic key metadata
type CryptoKeyMetaResponse struct {
	ID              string    `json:"id"`
	KeyPairID       string    `json:"key_pair_id"`
	Algorithm       string    `json:"algorithm"`
	KeySize         uint32    `json:"key_size"`
	Type            string    `json:"type"`
	DateTimeCreated time.Time `json:"date_time_created"`
	UserID          string    `json:"user_id"`
}

// newCryptoKeyMetaResponse copies everything except the PEM
func newCryptoKeyMetaResponse(keyMeta *keys.CryptoKeyMeta) CryptoKeyMetaResponse {
	return CryptoKeyMetaResponse{
		ID:              keyMeta.ID,
		KeyPairID:       keyMeta.KeyPairID,
		Algorithm:       keyMeta.Algorithm,
		KeySize:         keyMeta.KeySize,
		Type:            keyMeta.Type,
		DateTimeCreated: keyMeta.DateTimeCreated,
		UserID:          keyMeta.UserID,
	}
}

func newCryptoKeyMetaListResponse(keyMetas []*keys.CryptoKeyMeta) []CryptoKeyMetaResponse {
	listResponse := []CryptoKeyMetaResponse{}
	for _, keyMeta := range keyMetas {
		listResponse = append(listResponse, newCryptoKeyMetaResponse(keyMeta))
	}
	return listResponse
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string `json:"message"`
}

// InfoResponse represents an informational response
type InfoResponse struct {
	Message string `json:"message"`
}

func validateRequest(request any) error {
	validate, err := validators.New()
	if err != nil {
		return err
	}
	if err := validate.Struct(request); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

package keys

import (
	"errors"
	"fmt"
	"time"

	"github.com/MGTheTrain/crypto-facade/internal/pkg/validators"
	"github.com/go-playground/validator/v10"
)

// Key types stored for each half of a key pair
const (
	KeyTypePrivate = "private"
	KeyTypePublic  = "public"
)

// Key store errors
var (
	// ErrKeyNotFound is returned when no stored key matches an ID.
	ErrKeyNotFound = errors.New("crypto key not found")

	// ErrKeyTypeMismatch is returned when a public key is used where a private key is required.
	ErrKeyTypeMismatch = errors.New("crypto key has the wrong type")

	// ErrPasswordRequired is returned when a private key would be stored unencrypted.
	ErrPasswordRequired = errors.New("password required")
)

// CryptoKeyMeta describes one stored half of a key pair together with its PEM.
// Private key PEMs are always password-encrypted PKCS#8.
type CryptoKeyMeta struct {
	ID              string    `json:"id" validate:"required,uuid4"`
	KeyPairID       string    `json:"key_pair_id" validate:"required,uuid4"`
	Algorithm       string    `json:"algorithm" validate:"required,oneof=DSA RSA ECDSA Ed25519"`
	KeySize         uint32    `json:"key_size" validate:"keysize"`
	Type            string    `json:"type" validate:"required,oneof=private public"`
	PEM             string    `json:"-" validate:"required"`
	DateTimeCreated time.Time `json:"date_time_created" validate:"required"`
	UserID          string    `json:"user_id" validate:"required"`
}

// Validate for validating CryptoKeyMeta struct
func (k *CryptoKeyMeta) Validate() error {
	validate, err := validators.New()
	if err != nil {
		return err
	}
	return formatValidationError(validate.Struct(k))
}

// CryptoKeyQuery filters and pages stored key metadata.
type CryptoKeyQuery struct {
	Algorithm       string    `form:"algorithm" validate:"omitempty,oneof=DSA RSA ECDSA Ed25519"`
	Type            string    `form:"type" validate:"omitempty,oneof=private public"`
	KeyPairID       string    `form:"key_pair_id" validate:"omitempty,uuid4"`
	UserID          string    `form:"user_id"`
	DateTimeCreated time.Time `form:"date_time_created" time_format:"2006-01-02T15:04:05Z07:00"`

	Limit     int    `form:"limit" validate:"omitempty,gt=0"`
	Offset    int    `form:"offset" validate:"omitempty,gte=0"`
	SortBy    string `form:"sort_by" validate:"omitempty,oneof=id algorithm type date_time_created"`
	SortOrder string `form:"sort_order" validate:"omitempty,oneof=asc desc"`
}

// NewCryptoKeyQuery returns an empty query.
func NewCryptoKeyQuery() *CryptoKeyQuery {
	return &CryptoKeyQuery{}
}

// Validate for validating CryptoKeyQuery struct
func (q *CryptoKeyQuery) Validate() error {
	validate, err := validators.New()
	if err != nil {
		return err
	}
	return formatValidationError(validate.Struct(q))
}

func formatValidationError(err error) error {
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, fieldErr := range validationErrors {
			messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
		}
		return fmt.Errorf("validation failed: %v", messages)
	}
	return fmt.Errorf("validation error: %w", err)
}

package validators

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// KeySizeValidation validates the key size based on the sibling Algorithm field (DSA, RSA or ECDSA).
// Sizes are in bits; Ed25519 has a fixed size and only accepts 0 or 256.
func KeySizeValidation(fl validator.FieldLevel) bool {
	algorithm := fl.Parent().FieldByName("Algorithm").String()
	keySize := fl.Field().Uint()

	switch algorithm {
	case "DSA":
		return keySize == 1024 || keySize == 2048 || keySize == 3072
	case "RSA":
		return isRSAKeySize(keySize)
	case "ECDSA":
		return keySize == 224 || keySize == 256 || keySize == 384 || keySize == 521
	case "Ed25519":
		return keySize == 0 || keySize == 256
	default:
		return false
	}
}

// RSAKeySizeValidation accepts RSA modulus sizes considered safe for new keys.
func RSAKeySizeValidation(fl validator.FieldLevel) bool {
	size := fl.Field().Int()
	return size > 0 && isRSAKeySize(uint64(size))
}

func isRSAKeySize(keySize uint64) bool {
	return keySize == 2048 || keySize == 3072 || keySize == 4096
}

// New returns a validator with the custom key size tags registered:
// "keysize" (algorithm dependent) and "rsakeysize".
func New() (*validator.Validate, error) {
	validate := validator.New()
	if err := validate.RegisterValidation("keysize", KeySizeValidation); err != nil {
		return nil, fmt.Errorf("failed to register keysize validation: %w", err)
	}
	if err := validate.RegisterValidation("rsakeysize", RSAKeySizeValidation); err != nil {
		return nil, fmt.Errorf("failed to register rsakeysize validation: %w", err)
	}
	return validate, nil
}

package config

import (
	"fmt"

	"github.com/MGTheTrain/crypto-facade/internal/pkg/validators"
)

// DSA parameter sizes (FIPS 186-3 L and N bit lengths)
const (
	DSAParameterSizeL1024N160 = "L1024N160"
	DSAParameterSizeL2048N224 = "L2048N224"
	DSAParameterSizeL2048N256 = "L2048N256"
	DSAParameterSizeL3072N256 = "L3072N256"
)

// Elliptic curves usable for ECDSA keys
const (
	CurveP224 = "P-224"
	CurveP256 = "P-256"
	CurveP384 = "P-384"
	CurveP521 = "P-521"
)

// Ciphers protecting password-encrypted private key PEMs
const (
	PEMCipherAES128CBC = "aes-128-cbc"
	PEMCipherAES192CBC = "aes-192-cbc"
	PEMCipherAES256CBC = "aes-256-cbc"
)

// BackendSettings configures key generation parameters and the password based
// encryption used for private key PEMs.
type BackendSettings struct {
	RSAKeySize       int    `mapstructure:"rsa_key_size" validate:"required,rsakeysize"`
	DSAParameterSize string `mapstructure:"dsa_parameter_size" validate:"required,oneof=L1024N160 L2048N224 L2048N256 L3072N256"`
	ECDSACurve       string `mapstructure:"ecdsa_curve" validate:"required,oneof=P-224 P-256 P-384 P-521"`
	PEMCipher        string `mapstructure:"pem_cipher" validate:"required,oneof=aes-128-cbc aes-192-cbc aes-256-cbc"`
	PBKDF2Iterations int    `mapstructure:"pbkdf2_iterations" validate:"required,min=1000,max=10000000"`
	PBKDF2SaltSize   int    `mapstructure:"pbkdf2_salt_size" validate:"required,min=8,max=64"`
}

// DefaultBackendSettings returns production defaults.
func DefaultBackendSettings() BackendSettings {
	return BackendSettings{
		RSAKeySize:       2048,
		DSAParameterSize: DSAParameterSizeL2048N256,
		ECDSACurve:       CurveP256,
		PEMCipher:        PEMCipherAES256CBC,
		PBKDF2Iterations: 600000,
		PBKDF2SaltSize:   16,
	}
}

// Validate checks that all fields in BackendSettings are valid
func (s *BackendSettings) Validate() error {
	validate, err := validators.New()
	if err != nil {
		return err
	}

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for BackendSettings: %w", err)
	}

	return nil
}

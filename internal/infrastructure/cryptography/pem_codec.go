package cryptography

import (
	"crypto/dsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"

	"github.com/MGTheTrain/crypto-facade/internal/pkg/config"
)

// PEM block types produced and accepted by the codec.
const (
	PemTypePrivateKey          = "PRIVATE KEY"
	PemTypeEncryptedPrivateKey = "ENCRYPTED PRIVATE KEY"
	PemTypePublicKey           = "PUBLIC KEY"

	pemTypeRSAPrivateKey = "RSA PRIVATE KEY"
	pemTypeECPrivateKey  = "EC PRIVATE KEY"
	pemTypeDSAPrivateKey = "DSA PRIVATE KEY"
	pemTypeRSAPublicKey  = "RSA PUBLIC KEY"
)

var errPEM = errors.New("pem: cannot decode key")

func marshalPKCS8(material any) ([]byte, error) {
	if k, ok := material.(*dsa.PrivateKey); ok {
		return marshalDSAPKCS8(k)
	}
	return x509.MarshalPKCS8PrivateKey(material)
}

func marshalPKIX(material any) ([]byte, error) {
	if k, ok := material.(*dsa.PublicKey); ok {
		return marshalDSAPKIX(k)
	}
	return x509.MarshalPKIXPublicKey(material)
}

// encodePrivateKeyPEM writes PKCS#8, encrypted with PBES2 when a password is set.
func encodePrivateKeyPEM(material any, password []byte, s config.BackendSettings, random io.Reader) (string, error) {
	der, err := marshalPKCS8(material)
	if err != nil {
		return "", err
	}
	defer zeroBytes(der)

	block := &pem.Block{Type: PemTypePrivateKey, Bytes: der}
	if len(password) > 0 {
		encrypted, err := encryptPKCS8(der, password, s, random)
		if err != nil {
			return "", err
		}
		block = &pem.Block{Type: PemTypeEncryptedPrivateKey, Bytes: encrypted}
	}
	return string(pem.EncodeToMemory(block)), nil
}

func encodePublicKeyPEM(material any) (string, error) {
	der, err := marshalPKIX(material)
	if err != nil {
		return "", err
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: PemTypePublicKey, Bytes: der})), nil
}

// decodePrivateKeyPEM parses the first PEM block. The password is ignored for
// unencrypted blocks. Failures carry no detail on purpose.
func decodePrivateKeyPEM(data string, password []byte) (any, error) {
	raw := []byte(data)
	defer zeroBytes(raw)

	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, errPEM
	}
	defer zeroBytes(block.Bytes)

	if len(block.Headers) > 0 {
		return decodeLegacyEncryptedPEM(block, password)
	}

	switch block.Type {
	case PemTypeEncryptedPrivateKey:
		if len(password) == 0 {
			return nil, errPEM
		}
		plain, err := decryptPKCS8(block.Bytes, password)
		if err != nil {
			return nil, errPEM
		}
		defer zeroBytes(plain)
		return parsePKCS8(plain)
	case PemTypePrivateKey:
		return parsePKCS8(block.Bytes)
	default:
		return parseTraditionalPrivateKey(block.Type, block.Bytes)
	}
}

// decodeLegacyEncryptedPEM reads "Proc-Type: 4,ENCRYPTED" blocks with a
// DEK-Info header, as written by "openssl pkey -traditional -aes128".
func decodeLegacyEncryptedPEM(block *pem.Block, password []byte) (any, error) {
	if len(password) == 0 || len(block.Headers) != 2 ||
		block.Headers["Proc-Type"] != "4,ENCRYPTED" ||
		!x509.IsEncryptedPEMBlock(block) { //nolint:staticcheck // read-only support for legacy files
		return nil, errPEM
	}

	der, err := x509.DecryptPEMBlock(block, password) //nolint:staticcheck // read-only support for legacy files
	if err != nil {
		return nil, errPEM
	}
	defer zeroBytes(der)

	return parseTraditionalPrivateKey(block.Type, der)
}

func parseTraditionalPrivateKey(blockType string, der []byte) (any, error) {
	switch blockType {
	case pemTypeRSAPrivateKey:
		return orPEMError(x509.ParsePKCS1PrivateKey(der))
	case pemTypeECPrivateKey:
		return orPEMError(x509.ParseECPrivateKey(der))
	case pemTypeDSAPrivateKey:
		return orPEMError(parseOpenSSLDSAPrivateKey(der))
	default:
		return nil, errPEM
	}
}

func parsePKCS8(der []byte) (any, error) {
	if oid, ok := pkcs8AlgorithmOID(der); ok && oid.Equal(oidPublicKeyDSA) {
		return orPEMError(parseDSAPKCS8(der))
	}
	return orPEMError(x509.ParsePKCS8PrivateKey(der))
}

func decodePublicKeyPEM(data string) (any, error) {
	block, _ := pem.Decode([]byte(data))
	if block == nil || len(block.Headers) > 0 {
		return nil, errPEM
	}

	switch block.Type {
	case PemTypePublicKey:
		return orPEMError(x509.ParsePKIXPublicKey(block.Bytes))
	case pemTypeRSAPublicKey:
		return orPEMError(x509.ParsePKCS1PublicKey(block.Bytes))
	default:
		return nil, errPEM
	}
}

func orPEMError[T any](v T, err error) (any, error) {
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errPEM, err)
	}
	return v, nil
}

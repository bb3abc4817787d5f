package cryptography

import (
	"errors"
	"fmt"

	"github.com/MGTheTrain/crypto-facade/internal/domain/cryptoalg"
	"github.com/MGTheTrain/crypto-facade/internal/pkg/logger"
)

// keyFactory implements cryptoalg.KeyFactory on top of a Backend.
type keyFactory struct {
	backend *Backend
	logger  logger.Logger
}

// NewKeyFactory creates a key factory bound to an initialised backend.
func NewKeyFactory(b *Backend) (cryptoalg.KeyFactory, error) {
	if err := b.available(); err != nil {
		return nil, err
	}
	return &keyFactory{backend: b, logger: b.logger}, nil
}

// CreateKeyPair generates a key pair of the named family. On failure no key
// is returned and nothing stays registered with the backend.
func (f *keyFactory) CreateKeyPair(algorithm string) (cryptoalg.PrivateKey, cryptoalg.PublicKey, error) {
	if err := f.backend.available(); err != nil {
		return nil, nil, err
	}
	alg, err := cryptoalg.ParseKeyAlgorithm(algorithm)
	if err != nil {
		return nil, nil, err
	}

	material, err := f.backend.generateKeyMaterial(alg)
	if err != nil {
		f.logger.Error(fmt.Sprintf("Failed to generate %s key pair: %v", alg, err))
		return nil, nil, fmt.Errorf("%s: %w", alg, cryptoalg.ErrKeyGenerationFailed)
	}

	priv, err := newPrivateKey(f.backend, material)
	if err != nil {
		return nil, nil, err
	}
	pub, err := priv.Public()
	if err != nil {
		priv.Release()
		return nil, nil, err
	}

	f.logger.Info(fmt.Sprintf("Generated %s key pair (%d bits)", alg, priv.BitSize()))
	return priv, pub, nil
}

func (f *keyFactory) WritePrivateKeyToPem(key cryptoalg.PrivateKey, password []byte) (string, error) {
	if err := f.backend.available(); err != nil {
		return "", err
	}
	k, ok := key.(*privateKey)
	if !ok || k == nil {
		return "", fmt.Errorf("private key of type %T: %w", key, cryptoalg.ErrEncodingFailed)
	}

	var out string
	err := k.use(func(m any) error {
		var err error
		out, err = encodePrivateKeyPEM(m, password, f.backend.settings, f.backend.Random())
		return err
	})
	if err != nil {
		if errors.Is(err, cryptoalg.ErrBackendUnavailable) || errors.Is(err, cryptoalg.ErrKeyReleased) {
			return "", err
		}
		return "", fmt.Errorf("%v: %w", err, cryptoalg.ErrEncodingFailed)
	}

	if len(password) > 0 {
		f.logger.Info(fmt.Sprintf("Exported %s private key as encrypted PKCS#8", k.algorithm))
	} else {
		f.logger.Warn(fmt.Sprintf("Exported %s private key as unencrypted PKCS#8", k.algorithm))
	}
	return out, nil
}

func (f *keyFactory) WritePublicKeyToPem(key cryptoalg.PublicKey) (string, error) {
	if err := f.backend.available(); err != nil {
		return "", err
	}
	k, ok := key.(*publicKey)
	if !ok || k == nil {
		return "", fmt.Errorf("public key of type %T: %w", key, cryptoalg.ErrEncodingFailed)
	}

	var out string
	err := k.use(func(m any) error {
		var err error
		out, err = encodePublicKeyPEM(m)
		return err
	})
	if err != nil {
		if errors.Is(err, cryptoalg.ErrBackendUnavailable) || errors.Is(err, cryptoalg.ErrKeyReleased) {
			return "", err
		}
		return "", fmt.Errorf("%v: %w", err, cryptoalg.ErrEncodingFailed)
	}

	f.logger.Info(fmt.Sprintf("Exported %s public key as PKIX", k.algorithm))
	return out, nil
}

// LoadPrivateKeyFromPem returns ErrDecodingFailed unwrapped for every parse
// or decryption failure so wrong passwords look like corrupt input.
func (f *keyFactory) LoadPrivateKeyFromPem(pemData string, password []byte) (cryptoalg.PrivateKey, error) {
	if err := f.backend.available(); err != nil {
		return nil, err
	}

	material, err := decodePrivateKeyPEM(pemData, password)
	if err != nil {
		f.logger.Warn("Failed to load private key from PEM")
		return nil, cryptoalg.ErrDecodingFailed
	}
	if _, err := materialAlgorithm(material); err != nil {
		scrubMaterial(material)
		f.logger.Warn("Failed to load private key from PEM")
		return nil, cryptoalg.ErrDecodingFailed
	}

	k, err := newPrivateKey(f.backend, material)
	if err != nil {
		return nil, err
	}
	f.logger.Info(fmt.Sprintf("Loaded %s private key from PEM", k.algorithm))
	return k, nil
}

func (f *keyFactory) LoadPublicKeyFromPem(pemData string) (cryptoalg.PublicKey, error) {
	if err := f.backend.available(); err != nil {
		return nil, err
	}

	material, err := decodePublicKeyPEM(pemData)
	if err != nil {
		return nil, cryptoalg.ErrDecodingFailed
	}
	if _, err := materialAlgorithm(material); err != nil {
		return nil, cryptoalg.ErrDecodingFailed
	}

	k, err := newPublicKey(f.backend, material)
	if err != nil {
		return nil, err
	}
	f.logger.Info(fmt.Sprintf("Loaded %s public key from PEM", k.algorithm))
	return k, nil
}

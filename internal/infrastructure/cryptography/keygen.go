package cryptography

import (
	"crypto/dsa"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"fmt"
	"math/big"

	"github.com/MGTheTrain/crypto-facade/internal/domain/cryptoalg"
	"github.com/MGTheTrain/crypto-facade/internal/pkg/config"
)

// Generation primitives, replaceable in tests to simulate backend failures.
var (
	rsaGenerateKey        = rsa.GenerateKey
	dsaGenerateParameters = dsa.GenerateParameters
	dsaGenerateKey        = dsa.GenerateKey
	ecdsaGenerateKey      = ecdsa.GenerateKey
	ed25519GenerateKey    = ed25519.GenerateKey
)

var dsaParameterSizes = map[string]dsa.ParameterSizes{
	config.DSAParameterSizeL1024N160: dsa.L1024N160,
	config.DSAParameterSizeL2048N224: dsa.L2048N224,
	config.DSAParameterSizeL2048N256: dsa.L2048N256,
	config.DSAParameterSizeL3072N256: dsa.L3072N256,
}

func curveByName(name string) (elliptic.Curve, error) {
	switch name {
	case config.CurveP224:
		return elliptic.P224(), nil
	case config.CurveP256:
		return elliptic.P256(), nil
	case config.CurveP384:
		return elliptic.P384(), nil
	case config.CurveP521:
		return elliptic.P521(), nil
	default:
		return nil, fmt.Errorf("curve %q: %w", name, cryptoalg.ErrUnsupportedAlgorithm)
	}
}

// generateKeyMaterial returns a freshly generated private key of the given
// family, sized by the backend settings.
func (b *Backend) generateKeyMaterial(alg cryptoalg.KeyAlgorithm) (any, error) {
	switch alg {
	case cryptoalg.KeyAlgorithmRSA:
		return rsaGenerateKey(b.Random(), b.settings.RSAKeySize)

	case cryptoalg.KeyAlgorithmDSA:
		params, err := b.dsaParameters()
		if err != nil {
			return nil, err
		}
		priv := &dsa.PrivateKey{PublicKey: dsa.PublicKey{Parameters: params}}
		if err := dsaGenerateKey(priv, b.Random()); err != nil {
			return nil, err
		}
		return priv, nil

	case cryptoalg.KeyAlgorithmECDSA:
		curve, err := curveByName(b.settings.ECDSACurve)
		if err != nil {
			return nil, err
		}
		return ecdsaGenerateKey(curve, b.Random())

	case cryptoalg.KeyAlgorithmEd25519:
		_, priv, err := ed25519GenerateKey(b.Random())
		if err != nil {
			return nil, err
		}
		return priv, nil

	default:
		return nil, fmt.Errorf("key algorithm %q: %w", alg, cryptoalg.ErrUnsupportedAlgorithm)
	}
}

// dsaParameters returns a private copy of the backend's DSA domain
// parameters, generating them on first use.
func (b *Backend) dsaParameters() (dsa.Parameters, error) {
	b.dsaMu.Lock()
	defer b.dsaMu.Unlock()

	if b.dsaParams == nil {
		sizes, ok := dsaParameterSizes[b.settings.DSAParameterSize]
		if !ok {
			return dsa.Parameters{}, fmt.Errorf("dsa parameter size %q: %w", b.settings.DSAParameterSize, cryptoalg.ErrUnsupportedAlgorithm)
		}
		params := &dsa.Parameters{}
		if err := dsaGenerateParameters(params, b.Random(), sizes); err != nil {
			return dsa.Parameters{}, err
		}
		b.dsaParams = params
		b.logger.Debug("Generated DSA domain parameters ", b.settings.DSAParameterSize)
	}

	return copyDSAParameters(*b.dsaParams), nil
}

func copyDSAParameters(p dsa.Parameters) dsa.Parameters {
	return dsa.Parameters{
		P: new(big.Int).Set(p.P),
		Q: new(big.Int).Set(p.Q),
		G: new(big.Int).Set(p.G),
	}
}

package cryptography

import (
	"crypto/dsa"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"fmt"
	"math/big"
	"sync"

	"github.com/MGTheTrain/crypto-facade/internal/domain/cryptoalg"
)

// keyObject owns one key's material and its registration with a backend.
type keyObject struct {
	mu        sync.Mutex
	backend   *Backend
	id        uint64
	algorithm cryptoalg.KeyAlgorithm
	bitSize   int
	material  any
	released  bool
}

type privateKey struct {
	keyObject
}

type publicKey struct {
	keyObject
}

// newPrivateKey wraps freshly generated or decoded private key material.
// On error the material is scrubbed.
func newPrivateKey(b *Backend, material any) (*privateKey, error) {
	alg, err := materialAlgorithm(material)
	if err != nil {
		scrubMaterial(material)
		return nil, err
	}
	k := &privateKey{keyObject{backend: b, algorithm: alg, bitSize: materialBitSize(material), material: material}}
	if k.id, err = b.register(k); err != nil {
		scrubMaterial(material)
		return nil, err
	}
	return k, nil
}

func newPublicKey(b *Backend, material any) (*publicKey, error) {
	alg, err := materialAlgorithm(material)
	if err != nil {
		return nil, err
	}
	k := &publicKey{keyObject{backend: b, algorithm: alg, bitSize: materialBitSize(material), material: material}}
	if k.id, err = b.register(k); err != nil {
		return nil, err
	}
	return k, nil
}

func (k *keyObject) Algorithm() cryptoalg.KeyAlgorithm {
	return k.algorithm
}

func (k *keyObject) BitSize() int {
	return k.bitSize
}

func (k *keyObject) Released() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.released
}

// Release scrubs the key material and unregisters the key. Repeated calls are no-ops.
func (k *keyObject) Release() {
	if k.release() {
		k.backend.unregister(k.id)
	}
}

func (k *keyObject) scrub() {
	k.release()
}

// release scrubs the material once and reports whether this call did it.
func (k *keyObject) release() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.released {
		return false
	}
	scrubMaterial(k.material)
	k.material = nil
	k.released = true
	return true
}

// use runs fn with the key material while holding the key lock.
func (k *keyObject) use(fn func(material any) error) error {
	if err := k.backend.available(); err != nil {
		return err
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.released {
		return cryptoalg.ErrKeyReleased
	}
	return fn(k.material)
}

// CreateSignature returns a sign-mode signature.
func (k *privateKey) CreateSignature() (cryptoalg.Signature, error) {
	if err := k.use(func(any) error { return nil }); err != nil {
		return nil, err
	}
	sig, err := newSignature(k.backend, &k.keyObject, cryptoalg.ModeSign)
	if err != nil {
		return nil, err
	}
	return sig, nil
}

// Public derives an independently owned public key.
func (k *privateKey) Public() (cryptoalg.PublicKey, error) {
	var pub any
	err := k.use(func(m any) error {
		var err error
		pub, err = publicMaterial(m)
		return err
	})
	if err != nil {
		return nil, err
	}
	pk, err := newPublicKey(k.backend, pub)
	if err != nil {
		scrubMaterial(pub)
		return nil, err
	}
	return pk, nil
}

// CreateSignature returns a verify-mode signature.
func (k *publicKey) CreateSignature() (cryptoalg.Signature, error) {
	if err := k.use(func(any) error { return nil }); err != nil {
		return nil, err
	}
	sig, err := newSignature(k.backend, &k.keyObject, cryptoalg.ModeVerify)
	if err != nil {
		return nil, err
	}
	return sig, nil
}

func (k *publicKey) IsPublic() {}

func materialAlgorithm(m any) (cryptoalg.KeyAlgorithm, error) {
	switch m.(type) {
	case *rsa.PrivateKey, *rsa.PublicKey:
		return cryptoalg.KeyAlgorithmRSA, nil
	case *dsa.PrivateKey, *dsa.PublicKey:
		return cryptoalg.KeyAlgorithmDSA, nil
	case *ecdsa.PrivateKey, *ecdsa.PublicKey:
		return cryptoalg.KeyAlgorithmECDSA, nil
	case ed25519.PrivateKey, ed25519.PublicKey:
		return cryptoalg.KeyAlgorithmEd25519, nil
	default:
		return "", fmt.Errorf("key type %T: %w", m, cryptoalg.ErrUnsupportedAlgorithm)
	}
}

func materialBitSize(m any) int {
	switch k := m.(type) {
	case *rsa.PrivateKey:
		return k.N.BitLen()
	case *rsa.PublicKey:
		return k.N.BitLen()
	case *dsa.PrivateKey:
		return k.P.BitLen()
	case *dsa.PublicKey:
		return k.P.BitLen()
	case *ecdsa.PrivateKey:
		return k.Curve.Params().BitSize
	case *ecdsa.PublicKey:
		return k.Curve.Params().BitSize
	case ed25519.PrivateKey, ed25519.PublicKey:
		return 256
	default:
		return 0
	}
}

// publicMaterial deep-copies the public half of private key material.
func publicMaterial(m any) (any, error) {
	switch k := m.(type) {
	case *rsa.PrivateKey:
		return &rsa.PublicKey{N: new(big.Int).Set(k.N), E: k.E}, nil
	case *dsa.PrivateKey:
		return &dsa.PublicKey{
			Parameters: copyDSAParameters(k.Parameters),
			Y:          new(big.Int).Set(k.Y),
		}, nil
	case *ecdsa.PrivateKey:
		return &ecdsa.PublicKey{
			Curve: k.Curve,
			X:     new(big.Int).Set(k.X),
			Y:     new(big.Int).Set(k.Y),
		}, nil
	case ed25519.PrivateKey:
		pub := make(ed25519.PublicKey, ed25519.PublicKeySize)
		copy(pub, k.Public().(ed25519.PublicKey))
		return pub, nil
	default:
		return nil, fmt.Errorf("key type %T: %w", m, cryptoalg.ErrUnsupportedAlgorithm)
	}
}

// scrubMaterial zeroes the secret components of private key material.
// Public material holds nothing secret and is left to the collector.
func scrubMaterial(m any) {
	switch k := m.(type) {
	case *rsa.PrivateKey:
		zeroBigInt(k.D)
		for _, p := range k.Primes {
			zeroBigInt(p)
		}
		zeroBigInt(k.Precomputed.Dp)
		zeroBigInt(k.Precomputed.Dq)
		zeroBigInt(k.Precomputed.Qinv)
		for i := range k.Precomputed.CRTValues {
			zeroBigInt(k.Precomputed.CRTValues[i].Exp)
			zeroBigInt(k.Precomputed.CRTValues[i].Coeff)
			zeroBigInt(k.Precomputed.CRTValues[i].R)
		}
	case *dsa.PrivateKey:
		zeroBigInt(k.X)
	case *ecdsa.PrivateKey:
		zeroBigInt(k.D)
	case ed25519.PrivateKey:
		zeroBytes(k)
	}
}

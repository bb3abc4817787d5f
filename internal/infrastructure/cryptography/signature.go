package cryptography

import (
	"crypto"
	"crypto/dsa"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"io"
	"math/big"
	"sync"

	"github.com/MGTheTrain/crypto-facade/internal/domain/cryptoalg"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// signature prehashes everything fed to it and signs or verifies the digest
// with the key it was created from.
type signature struct {
	mu      sync.Mutex
	backend *Backend
	id      uint64
	key     *keyObject
	mode    cryptoalg.SignatureMode
	hashID  crypto.Hash
	h       hash.Hash
	state   cryptoalg.State
	digest  []byte
	value   []byte
}

func newSignature(b *Backend, key *keyObject, mode cryptoalg.SignatureMode) (*signature, error) {
	hashID := signatureHash(key)
	s := &signature{
		backend: b,
		key:     key,
		mode:    mode,
		hashID:  hashID,
		h:       newSignatureHasher(hashID),
		state:   cryptoalg.StateCreated,
	}
	id, err := b.register(s)
	if err != nil {
		return nil, err
	}
	s.id = id
	return s, nil
}

// signatureHash picks the prehash implied by the key family and size.
func signatureHash(k *keyObject) crypto.Hash {
	switch k.algorithm {
	case cryptoalg.KeyAlgorithmEd25519:
		return crypto.SHA512
	case cryptoalg.KeyAlgorithmECDSA:
		switch {
		case k.bitSize > 384:
			return crypto.SHA512
		case k.bitSize > 256:
			return crypto.SHA384
		}
	}
	return crypto.SHA256
}

func newSignatureHasher(h crypto.Hash) hash.Hash {
	switch h {
	case crypto.SHA384:
		return sha512.New384()
	case crypto.SHA512:
		return sha512.New()
	default:
		return sha256.New()
	}
}

func (s *signature) Mode() cryptoalg.SignatureMode {
	return s.mode
}

func (s *signature) Algorithm() cryptoalg.KeyAlgorithm {
	return s.key.algorithm
}

func (s *signature) State() cryptoalg.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// check must be called with s.mu held.
func (s *signature) check() error {
	if err := s.backend.available(); err != nil {
		return err
	}
	if s.state == cryptoalg.StateReleased {
		return cryptoalg.ErrReleased
	}
	return nil
}

func (s *signature) Update(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	if s.state == cryptoalg.StateFinalized {
		return cryptoalg.ErrAlreadyFinalized
	}
	if len(data) == 0 {
		return nil
	}
	s.h.Write(data)
	s.state = cryptoalg.StateAccumulating
	return nil
}

func (s *signature) Write(p []byte) (int, error) {
	if err := s.Update(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// finalize must be called with s.mu held.
func (s *signature) finalize() {
	if s.state != cryptoalg.StateFinalized {
		s.digest = s.h.Sum(nil)
		s.state = cryptoalg.StateFinalized
	}
}

func (s *signature) Value() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	if s.mode != cryptoalg.ModeSign {
		return nil, cryptoalg.ErrWrongMode
	}
	if s.value != nil {
		return append([]byte(nil), s.value...), nil
	}

	s.finalize()
	var value []byte
	err := s.key.use(func(m any) error {
		var err error
		value, err = signDigest(s.backend.Random(), m, s.hashID, s.digest)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.value = value
	return append([]byte(nil), value...), nil
}

func (s *signature) Verify(candidate []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return false, err
	}
	if s.mode != cryptoalg.ModeVerify {
		return false, cryptoalg.ErrWrongMode
	}

	s.finalize()
	var ok bool
	err := s.key.use(func(m any) error {
		ok = verifyDigest(m, s.hashID, s.digest, candidate)
		return nil
	})
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (s *signature) ValueLength() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return 0, err
	}
	var n int
	err := s.key.use(func(m any) error {
		n = maxSignatureLength(m)
		return nil
	})
	return n, err
}

// Release drops the accumulated state. Repeated calls are no-ops.
func (s *signature) Release() {
	if s.release() {
		s.backend.unregister(s.id)
	}
}

func (s *signature) scrub() {
	s.release()
}

func (s *signature) release() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == cryptoalg.StateReleased {
		return false
	}
	s.h.Reset()
	zeroBytes(s.digest)
	s.digest = nil
	s.value = nil
	s.state = cryptoalg.StateReleased
	return true
}

func signDigest(random io.Reader, m any, hashID crypto.Hash, digest []byte) ([]byte, error) {
	switch k := m.(type) {
	case *rsa.PrivateKey:
		return rsa.SignPKCS1v15(random, k, hashID, digest)
	case *ecdsa.PrivateKey:
		return ecdsa.SignASN1(random, k, digest)
	case *dsa.PrivateKey:
		r, s, err := dsa.Sign(random, k, truncateDSADigest(digest, k.Q))
		if err != nil {
			return nil, err
		}
		return marshalDSASignature(r, s)
	case ed25519.PrivateKey:
		return k.Sign(nil, digest, &ed25519.Options{Hash: crypto.SHA512})
	default:
		return nil, fmt.Errorf("signing with %T: %w", m, cryptoalg.ErrWrongMode)
	}
}

// verifyDigest never fails: malformed candidates simply do not verify.
func verifyDigest(m any, hashID crypto.Hash, digest, candidate []byte) bool {
	switch k := m.(type) {
	case *rsa.PublicKey:
		return rsa.VerifyPKCS1v15(k, hashID, digest, candidate) == nil
	case *ecdsa.PublicKey:
		return ecdsa.VerifyASN1(k, digest, candidate)
	case *dsa.PublicKey:
		r, s, ok := parseDSASignature(candidate)
		if !ok {
			return false
		}
		return dsa.Verify(k, truncateDSADigest(digest, k.Q), r, s)
	case ed25519.PublicKey:
		return ed25519.VerifyWithOptions(k, digest, candidate, &ed25519.Options{Hash: crypto.SHA512}) == nil
	default:
		return false
	}
}

// truncateDSADigest keeps the leftmost N bits of the digest (FIPS 186-4, 4.6).
func truncateDSADigest(digest []byte, q *big.Int) []byte {
	n := (q.BitLen() + 7) / 8
	if len(digest) > n {
		return digest[:n]
	}
	return digest
}

// marshalDSASignature encodes (r, s) as Dss-Sig-Value.
func marshalDSASignature(r, s *big.Int) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(r)
		b.AddASN1BigInt(s)
	})
	return b.Bytes()
}

func parseDSASignature(sig []byte) (*big.Int, *big.Int, bool) {
	var inner cryptobyte.String
	r, s := new(big.Int), new(big.Int)
	input := cryptobyte.String(sig)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) || !input.Empty() ||
		!inner.ReadASN1Integer(r) || !inner.ReadASN1Integer(s) || !inner.Empty() {
		return nil, nil, false
	}
	return r, s, true
}

func maxSignatureLength(m any) int {
	switch k := m.(type) {
	case *rsa.PrivateKey:
		return k.Size()
	case *rsa.PublicKey:
		return k.Size()
	case *ecdsa.PrivateKey:
		return maxDERSignatureLength(k.Curve.Params().N.BitLen())
	case *ecdsa.PublicKey:
		return maxDERSignatureLength(k.Curve.Params().N.BitLen())
	case *dsa.PrivateKey:
		return maxDERSignatureLength(k.Q.BitLen())
	case *dsa.PublicKey:
		return maxDERSignatureLength(k.Q.BitLen())
	case ed25519.PrivateKey, ed25519.PublicKey:
		return ed25519.SignatureSize
	default:
		return 0
	}
}

// maxDERSignatureLength is the size of SEQUENCE { INTEGER r, INTEGER s } for
// the largest r and s below a group order of orderBits.
func maxDERSignatureLength(orderBits int) int {
	intLen := (orderBits + 7) / 8
	if orderBits%8 == 0 {
		// sign byte for values with the top bit set
		intLen++
	}
	intTotal := 1 + derLengthSize(intLen) + intLen
	content := 2 * intTotal
	return 1 + derLengthSize(content) + content
}

func derLengthSize(n int) int {
	switch {
	case n < 0x80:
		return 1
	case n < 0x100:
		return 2
	default:
		return 3
	}
}

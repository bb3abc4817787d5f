package cryptography

import (
	"crypto/md5"  //nolint:gosec // MD5 is offered for legacy checksums only
	"crypto/sha1" //nolint:gosec // SHA1 is offered for legacy checksums only
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"sync"

	"github.com/MGTheTrain/crypto-facade/internal/domain/cryptoalg"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

type digest struct {
	mu         sync.Mutex
	backend    *Backend
	id         uint64
	algorithm  cryptoalg.DigestAlgorithm
	persistent bool
	h          hash.Hash
	state      cryptoalg.State
	sum        []byte
}

// NewDigest creates a digest that must be Reset before it accepts more data
// once its value has been read.
func NewDigest(b *Backend, name string) (cryptoalg.Digest, error) {
	d, err := newDigest(b, name, false)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// NewPersistentDigest creates a digest that keeps accumulating after reads.
// Every read returns the hash of all data fed since creation or the last Reset.
func NewPersistentDigest(b *Backend, name string) (cryptoalg.Digest, error) {
	d, err := newDigest(b, name, true)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// NewDigest makes the backend a cryptoalg.DigestFactory.
func (b *Backend) NewDigest(name string) (cryptoalg.Digest, error) {
	return NewDigest(b, name)
}

func newDigest(b *Backend, name string, persistent bool) (*digest, error) {
	if err := b.available(); err != nil {
		return nil, err
	}
	alg, err := cryptoalg.ParseDigestAlgorithm(name)
	if err != nil {
		return nil, err
	}
	h, err := newHash(alg)
	if err != nil {
		return nil, err
	}

	d := &digest{
		backend:    b,
		algorithm:  alg,
		persistent: persistent,
		h:          h,
		state:      cryptoalg.StateCreated,
	}
	if d.id, err = b.register(d); err != nil {
		return nil, err
	}
	return d, nil
}

func newHash(alg cryptoalg.DigestAlgorithm) (hash.Hash, error) {
	switch alg {
	case cryptoalg.DigestMD5:
		return md5.New(), nil
	case cryptoalg.DigestSHA1:
		return sha1.New(), nil
	case cryptoalg.DigestSHA224:
		return sha256.New224(), nil
	case cryptoalg.DigestSHA256:
		return sha256.New(), nil
	case cryptoalg.DigestSHA384:
		return sha512.New384(), nil
	case cryptoalg.DigestSHA512:
		return sha512.New(), nil
	case cryptoalg.DigestSHA3_256:
		return sha3.New256(), nil
	case cryptoalg.DigestSHA3_512:
		return sha3.New512(), nil
	case cryptoalg.DigestBLAKE2b256:
		return blake2b.New256(nil)
	case cryptoalg.DigestBLAKE2b512:
		return blake2b.New512(nil)
	default:
		return nil, fmt.Errorf("digest algorithm %q: %w", alg, cryptoalg.ErrUnsupportedAlgorithm)
	}
}

func (d *digest) Algorithm() cryptoalg.DigestAlgorithm {
	return d.algorithm
}

func (d *digest) Persistent() bool {
	return d.persistent
}

func (d *digest) State() cryptoalg.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *digest) check() error {
	if err := d.backend.available(); err != nil {
		return err
	}
	if d.state == cryptoalg.StateReleased {
		return cryptoalg.ErrReleased
	}
	return nil
}

func (d *digest) Update(data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(); err != nil {
		return err
	}
	if d.state == cryptoalg.StateFinalized && !d.persistent {
		return cryptoalg.ErrAlreadyFinalized
	}
	if len(data) == 0 {
		return nil
	}
	d.h.Write(data)
	d.sum = nil
	d.state = cryptoalg.StateAccumulating
	return nil
}

func (d *digest) Write(p []byte) (int, error) {
	if err := d.Update(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (d *digest) Sum() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(); err != nil {
		return nil, err
	}
	if d.sum == nil {
		d.sum = d.h.Sum(nil)
	}
	d.state = cryptoalg.StateFinalized
	return append([]byte(nil), d.sum...), nil
}

func (d *digest) Digest() (string, error) {
	sum, err := d.Sum()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum), nil
}

func (d *digest) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(); err != nil {
		return err
	}
	d.h.Reset()
	d.sum = nil
	d.state = cryptoalg.StateCreated
	return nil
}

// Release drops the hash state. Repeated calls are no-ops.
func (d *digest) Release() {
	if d.release() {
		d.backend.unregister(d.id)
	}
}

func (d *digest) scrub() {
	d.release()
}

func (d *digest) release() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == cryptoalg.StateReleased {
		return false
	}
	d.h.Reset()
	zeroBytes(d.sum)
	d.sum = nil
	d.state = cryptoalg.StateReleased
	return true
}

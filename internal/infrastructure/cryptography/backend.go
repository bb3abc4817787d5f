package cryptography

import (
	"crypto/dsa"
	"crypto/rand"
	"fmt"
	"io"
	"sync"

	"github.com/MGTheTrain/crypto-facade/internal/domain/cryptoalg"
	"github.com/MGTheTrain/crypto-facade/internal/pkg/config"
	"github.com/MGTheTrain/crypto-facade/internal/pkg/logger"
)

// resource is a backend object that must be scrubbed no later than Cleanup.
type resource interface {
	// scrub clears sensitive state. It must not call back into the backend.
	scrub()
}

// Backend is an initialised cryptographic backend. Every digest, key,
// signature and key factory is created against a Backend and is released no
// later than its Cleanup. The zero value is not usable.
type Backend struct {
	mu        sync.Mutex
	ready     bool
	closed    bool
	settings  config.BackendSettings
	logger    logger.Logger
	random    io.Reader
	nextID    uint64
	resources map[uint64]resource

	// DSA domain parameters are expensive to generate and shared by every
	// DSA key of this backend.
	dsaMu     sync.Mutex
	dsaParams *dsa.Parameters
}

// Option customises Init.
type Option func(*Backend)

// WithRandom replaces crypto/rand.Reader as the entropy source.
func WithRandom(r io.Reader) Option {
	return func(b *Backend) {
		b.random = r
	}
}

// Init validates settings and returns a ready backend. A nil settings pointer
// selects config.DefaultBackendSettings and a nil logger discards output.
func Init(settings *config.BackendSettings, log logger.Logger, opts ...Option) (*Backend, error) {
	s := config.DefaultBackendSettings()
	if settings != nil {
		s = *settings
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid backend settings: %w", err)
	}
	if log == nil {
		log = logger.NewDiscardLogger()
	}

	b := &Backend{
		ready:     true,
		settings:  s,
		logger:    log,
		random:    rand.Reader,
		resources: make(map[uint64]resource),
	}
	for _, opt := range opts {
		opt(b)
	}

	log.Info(fmt.Sprintf("Initialized crypto backend (rsa=%d, dsa=%s, curve=%s, pem cipher=%s)",
		s.RSAKeySize, s.DSAParameterSize, s.ECDSACurve, s.PEMCipher))
	return b, nil
}

// Cleanup closes the backend and scrubs every object still registered with it.
// Operations started afterwards fail with ErrBackendUnavailable. Calling
// Cleanup again is a no-op.
func (b *Backend) Cleanup() error {
	if b == nil {
		return cryptoalg.ErrBackendUnavailable
	}

	b.mu.Lock()
	if !b.ready {
		b.mu.Unlock()
		return cryptoalg.ErrBackendUnavailable
	}
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	live := b.resources
	b.resources = nil
	b.mu.Unlock()

	for _, r := range live {
		r.scrub()
	}

	b.dsaMu.Lock()
	b.dsaParams = nil
	b.dsaMu.Unlock()

	b.logger.Info(fmt.Sprintf("Cleaned up crypto backend, released %d live objects", len(live)))
	return nil
}

// Closed reports whether Cleanup has been called.
func (b *Backend) Closed() bool {
	if b == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Random returns the entropy source used for key generation, salts and IVs.
func (b *Backend) Random() io.Reader {
	if b == nil || b.random == nil {
		return rand.Reader
	}
	return b.random
}

// Settings returns a copy of the validated backend settings.
func (b *Backend) Settings() config.BackendSettings {
	if b == nil {
		return config.BackendSettings{}
	}
	return b.settings
}

func (b *Backend) available() error {
	if b == nil {
		return cryptoalg.ErrBackendUnavailable
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.ready || b.closed {
		return cryptoalg.ErrBackendUnavailable
	}
	return nil
}

func (b *Backend) register(r resource) (uint64, error) {
	if b == nil {
		return 0, cryptoalg.ErrBackendUnavailable
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.ready || b.closed {
		return 0, cryptoalg.ErrBackendUnavailable
	}
	b.nextID++
	b.resources[b.nextID] = r
	return b.nextID, nil
}

func (b *Backend) unregister(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.resources, id)
}

// liveObjects returns the number of registered, unreleased objects.
func (b *Backend) liveObjects() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.resources)
}

package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MGTheTrain/crypto-facade/internal/domain/cryptoalg"
	"github.com/MGTheTrain/crypto-facade/internal/infrastructure/cryptography"
	"github.com/MGTheTrain/crypto-facade/internal/pkg/config"
	"github.com/MGTheTrain/crypto-facade/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// ConfigFlag is the persistent root flag naming the config file
const ConfigFlag = "config"

// filePermission is used for every written key, digest and signature file
const filePermission = 0o600

func setupLogger(settings *config.LoggerSettings) (logger.Logger, error) {
	if err := logger.InitLogger(settings); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	loggerInstance, err := logger.GetLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to get logger instance: %w", err)
	}

	return loggerInstance, nil
}

// session is the configuration, logger and backend of one command execution
type session struct {
	cfg        *config.CLIConfig
	logger     logger.Logger
	backend    *cryptography.Backend
	keyFactory cryptoalg.KeyFactory
}

// openSession loads the config selected by --config and initialises a backend.
// The caller must call close.
func openSession(cmd *cobra.Command) (*session, error) {
	configPath, err := cmd.Flags().GetString(ConfigFlag)
	if err != nil {
		configPath = ""
	}

	cfg, err := config.InitializeCLIConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	loggerInstance, err := setupLogger(&cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	backend, err := cryptography.Init(&cfg.Backend, loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize backend: %w", err)
	}

	keyFactory, err := cryptography.NewKeyFactory(backend)
	if err != nil {
		_ = backend.Cleanup()
		return nil, fmt.Errorf("failed to create key factory: %w", err)
	}

	settings := backend.Settings()
	loggerInstance.Debug(fmt.Sprintf("Backend settings: pem cipher=%s, pbkdf2 iterations=%d, salt size=%d",
		settings.PEMCipher, settings.PBKDF2Iterations, settings.PBKDF2SaltSize))

	return &session{
		cfg:        cfg,
		logger:     loggerInstance,
		backend:    backend,
		keyFactory: keyFactory,
	}, nil
}

func (s *session) close() {
	if s.backend.Closed() {
		return
	}
	if err := s.backend.Cleanup(); err != nil {
		s.logger.Error("failed to clean up backend ", err)
	}
}

// loadPrivateKey reads a private key PEM file
func (s *session) loadPrivateKey(path string, password []byte) (cryptoalg.PrivateKey, error) {
	pemData, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	privateKey, err := s.keyFactory.LoadPrivateKeyFromPem(string(pemData), password)
	if err != nil {
		return nil, fmt.Errorf("failed to load private key %s: %w", path, err)
	}
	return privateKey, nil
}

// loadPublicKey reads a public key PEM file
func (s *session) loadPublicKey(path string) (cryptoalg.PublicKey, error) {
	pemData, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	publicKey, err := s.keyFactory.LoadPublicKeyFromPem(string(pemData))
	if err != nil {
		return nil, fmt.Errorf("failed to load public key %s: %w", path, err)
	}
	return publicKey, nil
}

// passwordFlag returns the value of a password flag, falling back to the named environment variable
func passwordFlag(cmd *cobra.Command, name, envVar string) ([]byte, error) {
	password, err := cmd.Flags().GetString(name)
	if err != nil {
		return nil, fmt.Errorf("invalid %s flag: %w", name, err)
	}
	if password == "" {
		password = os.Getenv(envVar)
	}
	return []byte(password), nil
}

func writeFile(path string, data []byte) error {
	return os.WriteFile(filepath.Clean(path), data, filePermission)
}

// cmd/crypto-facade-rest-api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "github.com/MGTheTrain/crypto-facade/internal/api/rest/v1"
	"github.com/MGTheTrain/crypto-facade/internal/app"
	"github.com/MGTheTrain/crypto-facade/internal/domain/keys"
	"github.com/MGTheTrain/crypto-facade/internal/infrastructure/cryptography"
	"github.com/MGTheTrain/crypto-facade/internal/infrastructure/persistence"
	"github.com/MGTheTrain/crypto-facade/internal/pkg/config"
	"github.com/MGTheTrain/crypto-facade/internal/pkg/logger"
	"github.com/gin-contrib/cors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse configuration; an empty path means defaults and CRYPTO_FACADE_* variables only
	configPath := os.Getenv("CONFIG_PATH")

	restConfig, err := config.InitializeRestConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	// Initialize logger
	if err := logger.InitLogger(&restConfig.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log, err := logger.GetLogger()
	if err != nil {
		return fmt.Errorf("failed to get logger: %w", err)
	}

	// Initialize application dependencies
	deps, err := initializeDependencies(restConfig, log)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.close(log)

	// Setup and start server with graceful shutdown
	return startServerWithGracefulShutdown(restConfig, deps, log)
}

// appDependencies holds all initialized application components
type appDependencies struct {
	db       *gorm.DB
	backend  *cryptography.Backend
	services *appServices
}

type appServices struct {
	keyPair           keys.KeyPairService
	cryptoKeyMetadata keys.CryptoKeyMetadataService
	signature         keys.SignatureService
	digest            keys.DigestService
}

// close scrubs every key still held by the backend before the database goes away
func (d *appDependencies) close(log logger.Logger) {
	if !d.backend.Closed() {
		if err := d.backend.Cleanup(); err != nil {
			log.Error("Failed to clean up backend: ", err)
		}
	}
	if err := persistence.CloseDB(d.db); err != nil {
		log.Error("Failed to close database: ", err)
	}
}

// initializeDependencies sets up all application components
func initializeDependencies(cfg *config.RestConfig, log logger.Logger) (*appDependencies, error) {
	// Initialize database; migrations run on connect
	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}
	log.Info("Database migrations completed successfully")

	cryptoKeyRepo, err := persistence.NewGormCryptoKeyRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create crypto key repository: %w", err)
	}

	// Initialize cryptographic backend
	backend, err := cryptography.Init(&cfg.Backend, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cryptographic backend: %w", err)
	}
	settings := backend.Settings()
	log.Info(fmt.Sprintf("Private keys are stored encrypted with %s (PBKDF2 iterations=%d)",
		settings.PEMCipher, settings.PBKDF2Iterations))

	services, err := initializeApplicationServices(backend, cryptoKeyRepo, log)
	if err != nil {
		_ = backend.Cleanup()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &appDependencies{
		db:       db,
		backend:  backend,
		services: services,
	}, nil
}

// startServerWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func startServerWithGracefulShutdown(cfg *config.RestConfig, deps *appDependencies, log logger.Logger) error {
	// Setup router
	r := gin.Default()

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", v1.UserIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Setup API routes
	v1.SetupRoutes(r,
		deps.services.keyPair,
		deps.services.cryptoKeyMetadata,
		deps.services.signature,
		deps.services.digest,
	)

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attack
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting server on port ", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or server error
	select {
	case err := <-serverErrors:
		return err
	case sig := <-quit:
		log.Info("Received signal ", sig, ", initiating graceful shutdown")
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	log.Info("Shutting down server...")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}

// initializeApplicationServices sets up all application services
func initializeApplicationServices(backend *cryptography.Backend, keyRepo keys.CryptoKeyRepository, log logger.Logger) (*appServices, error) {
	keyFactory, err := cryptography.NewKeyFactory(backend)
	if err != nil {
		return nil, fmt.Errorf("failed to create key factory: %w", err)
	}

	keyPairService, err := app.NewKeyPairService(keyRepo, keyFactory, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create key pair service: %w", err)
	}

	cryptoKeyMetadataService, err := app.NewCryptoKeyMetadataService(keyRepo, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create crypto key metadata service: %w", err)
	}

	signatureService, err := app.NewSignatureService(keyPairService, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create signature service: %w", err)
	}

	digestService, err := app.NewDigestService(backend, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create digest service: %w", err)
	}

	log.Info("Application services initialized successfully")
	return &appServices{
		keyPair:           keyPairService,
		cryptoKeyMetadata: cryptoKeyMetadataService,
		signature:         signatureService,
		digest:            digestService,
	}, nil
}

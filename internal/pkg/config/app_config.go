package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding file settings,
// e.g. CRYPTO_FACADE_BACKEND_RSA_KEY_SIZE=4096.
const EnvPrefix = "CRYPTO_FACADE"

// CLIConfig aggregates the settings used by crypto-facade-cli.
type CLIConfig struct {
	Logger   LoggerSettings   `mapstructure:"logger"`
	Backend  BackendSettings  `mapstructure:"backend"`
	Database DatabaseSettings `mapstructure:"database"`
}

// Validate checks every nested settings block.
func (c *CLIConfig) Validate() error {
	if err := c.Logger.Validate(); err != nil {
		return err
	}
	if err := c.Backend.Validate(); err != nil {
		return err
	}
	return c.Database.Validate()
}

// RestConfig aggregates the settings used by crypto-facade-rest-api.
type RestConfig struct {
	Port     string           `mapstructure:"port" validate:"required,numeric"`
	Logger   LoggerSettings   `mapstructure:"logger"`
	Backend  BackendSettings  `mapstructure:"backend"`
	Database DatabaseSettings `mapstructure:"database"`
}

// Validate checks the port and every nested settings block.
func (c *RestConfig) Validate() error {
	if err := validator.New().Var(c.Port, "required,numeric"); err != nil {
		return fmt.Errorf("validation failed for RestConfig port: %w", err)
	}
	if err := c.Logger.Validate(); err != nil {
		return err
	}
	if err := c.Backend.Validate(); err != nil {
		return err
	}
	return c.Database.Validate()
}

// InitializeCLIConfig loads the CLI configuration. An empty path means
// defaults plus environment overrides only.
func InitializeCLIConfig(path string) (*CLIConfig, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}

	var cfg CLIConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// InitializeRestConfig loads the REST API configuration from a YAML file.
func InitializeRestConfig(path string) (*RestConfig, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}
	v.SetDefault("port", "8080")

	var cfg RestConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func newViper(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	return v, nil
}

// setDefaults registers every key; AutomaticEnv only overrides keys viper knows.
func setDefaults(v *viper.Viper) {
	logger := DefaultLoggerSettings()
	v.SetDefault("logger.log_level", logger.LogLevel)
	v.SetDefault("logger.log_type", logger.LogType)
	v.SetDefault("logger.file_path", "")
	v.SetDefault("logger.max_size", 0)
	v.SetDefault("logger.max_backups", 0)
	v.SetDefault("logger.max_age", 0)

	backend := DefaultBackendSettings()
	v.SetDefault("backend.rsa_key_size", backend.RSAKeySize)
	v.SetDefault("backend.dsa_parameter_size", backend.DSAParameterSize)
	v.SetDefault("backend.ecdsa_curve", backend.ECDSACurve)
	v.SetDefault("backend.pem_cipher", backend.PEMCipher)
	v.SetDefault("backend.pbkdf2_iterations", backend.PBKDF2Iterations)
	v.SetDefault("backend.pbkdf2_salt_size", backend.PBKDF2SaltSize)

	v.SetDefault("database.type", SqliteDbType)
	v.SetDefault("database.dsn", "crypto-facade.db")
	v.SetDefault("database.name", "")
}

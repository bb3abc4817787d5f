package config

import (
	"errors"
	"fmt"

	"github.com/MGTheTrain/crypto-facade/internal/pkg/validators"
)

// Log levels understood by the slog backed loggers
const (
	LogLevelInfo     = "info"
	LogLevelDebug    = "debug"
	LogLevelError    = "error"
	LogLevelWarning  = "warning"
	LogLevelCritical = "critical"
)

// Log sinks
const (
	LogTypeConsole = "console"
	LogTypeFile    = "file"
)

// Upper bounds of the lumberjack rotation settings of the file sink
const (
	MaxLogFileSizeMB  = 100
	MaxLogFileBackups = 10
	MaxLogFileAgeDays = 365
)

var errLogFilePathRequired = errors.New("logger: file_path is required when log_type is file")

// LoggerSettings selects the log sink and level.
// FilePath and the Max* rotation fields are read only by the file sink.
type LoggerSettings struct {
	LogLevel   string `mapstructure:"log_level" validate:"required,oneof=info debug error warning critical"`
	LogType    string `mapstructure:"log_type" validate:"required,oneof=console file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// DefaultLoggerSettings logs to the console at info level.
func DefaultLoggerSettings() LoggerSettings {
	return LoggerSettings{
		LogLevel: LogLevelInfo,
		LogType:  LogTypeConsole,
	}
}

// Validate checks level and sink, then the rotation of a file sink.
// Rotation fields of a console sink are ignored.
func (s *LoggerSettings) Validate() error {
	validate, err := validators.New()
	if err != nil {
		return err
	}

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for LoggerSettings: %w", err)
	}
	if s.LogType != LogTypeFile {
		return nil
	}

	if s.FilePath == "" {
		return errLogFilePathRequired
	}
	rotation := []struct {
		key   string
		value int
		max   int
	}{
		{"max_size", s.MaxSize, MaxLogFileSizeMB},
		{"max_backups", s.MaxBackups, MaxLogFileBackups},
		{"max_age", s.MaxAge, MaxLogFileAgeDays},
	}
	for _, r := range rotation {
		if err := validate.Var(r.value, fmt.Sprintf("min=1,max=%d", r.max)); err != nil {
			return fmt.Errorf("logger: %s must be between 1 and %d: %w", r.key, r.max, err)
		}
	}
	return nil
}

package config

import (
	"fmt"
	"strconv"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var validSSLModes = map[string]bool{
	"disable":     true,
	"require":     true,
	"verify-ca":   true,
	"verify-full": true,
}

// ValidateConfig checks that the configuration can actually start the
// service.
func ValidateConfig(cfg *Config) error {
	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		return ValidationError{Field: "SERVER_PORT", Message: fmt.Sprintf("must be numeric, got %q", cfg.ServerPort)}
	}

	required := map[string]string{
		"DB_HOST": cfg.DBHost,
		"DB_PORT": cfg.DBPort,
		"DB_USER": cfg.DBUser,
		"DB_NAME": cfg.DBName,
	}
	for field, value := range required {
		if value == "" {
			return ValidationError{Field: field, Message: "is required"}
		}
	}

	if !validSSLModes[cfg.DBSSLMode] {
		return ValidationError{Field: "DB_SSL_MODE", Message: fmt.Sprintf("unsupported mode %q", cfg.DBSSLMode)}
	}

	if cfg.DatasetPath == "" {
		return ValidationError{Field: "DATASET_PATH", Message: "is required"}
	}

	return nil
}

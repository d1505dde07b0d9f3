package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that all sensitive values required to run the
// service are present. Non-sensitive values carry defaults.
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.DBUser == "" {
		errors = append(errors, "database user is not set (db_user secret or DB_USER)")
	}
	if cfg.DBPassword == "" {
		errors = append(errors, "database password is not set (db_password secret or DB_PASSWORD)")
	}
	if cfg.JWTSecret == "" {
		errors = append(errors, "JWT secret is not set (jwt_secret secret or JWT_SECRET)")
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "\n"))
	}

	return nil
}

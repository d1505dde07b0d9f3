package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		DBUser:     "foodgram",
		DBPassword: "secret",
		JWTSecret:  "jwt-secret",
	}
}

func TestValidateConfig(t *testing.T) {
	require.NoError(t, ValidateConfig(validConfig()))
}

func TestValidateConfigMissingSecrets(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing db user", func(c *Config) { c.DBUser = "" }, "database user"},
		{"missing db password", func(c *Config) { c.DBPassword = "" }, "database password"},
		{"missing jwt secret", func(c *Config) { c.JWTSecret = "" }, "JWT secret"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)

			err := ValidateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())

	t.Setenv("ENV", "nonsense")
	assert.Equal(t, Development, GetEnvironment())

	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())
}

func TestLoadConfigReadsSecretsDir(t *testing.T) {
	secretsDir := t.TempDir()
	t.Setenv("SECRETS_DIR", secretsDir)
	t.Setenv("CI", "")
	t.Setenv("DB_USER", "env-user")
	t.Setenv("DB_PASSWORD", "env-pass")
	t.Setenv("JWT_SECRET", "env-jwt")

	// Environment variables back secret files that do not exist.
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "env-user", cfg.DBUser)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "foodgram", cfg.DBName)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
}

func TestLoadConfigAllowedOrigins(t *testing.T) {
	t.Setenv("CI", "true")
	t.Setenv("DB_USER", "env-user")
	t.Setenv("DB_PASSWORD", "env-pass")
	t.Setenv("JWT_SECRET", "env-jwt")
	t.Setenv("ALLOWED_ORIGINS", "https://foodgram.example, https://admin.foodgram.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"https://foodgram.example", "https://admin.foodgram.example"},
		cfg.AllowedOrigins)
}

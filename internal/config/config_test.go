package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:         "3001",
		Env:          "development",
		DBDriver:     "postgres",
		DBPassword:   "secure-password",
		JWTSecret:    "secure-secret-at-least-32-chars-long",
		JWTExpiresIn: time.Hour,
		UploadDir:    "uploads",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"valid development", func(_ *Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"zero token lifetime", func(c *Config) { c.JWTExpiresIn = 0 }, true},
		{"unknown driver", func(c *Config) { c.DBDriver = "mongo" }, true},
		{"sqlite driver", func(c *Config) { c.DBDriver = "sqlite" }, false},
		{"negative max dimension", func(c *Config) { c.UploadMaxDimension = -1 }, true},
		{"seed admin without password", func(c *Config) {
			c.SeedAdmin = true
			c.AdminEmail = "admin@example.com"
		}, true},
		{"production default secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = DefaultJWTSecret
		}, true},
		{"production short secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "short"
		}, true},
		{"production weak db password", func(c *Config) {
			c.Env = "prod"
			c.DBPassword = "password"
		}, true},
		{"production sqlite ignores db password", func(c *Config) {
			c.Env = "production"
			c.DBDriver = "sqlite"
			c.DBPassword = ""
		}, false},
		{"development short secret only warns", func(c *Config) { c.JWTSecret = "short" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Helpers(t *testing.T) {
	c := &Config{
		AllowedOrigins: " http://a.test , ,http://b.test",
		EmailUser:      "smtp@example.com",
	}

	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.Origins())
	assert.Equal(t, "smtp@example.com", c.SenderAddress())
	assert.Equal(t, "smtp@example.com", c.NotificationRecipient())

	c.EmailFromEmail = "noreply@example.com"
	c.AdminEmail = "owner@example.com"
	assert.Equal(t, "noreply@example.com", c.SenderAddress())
	assert.Equal(t, "owner@example.com", c.NotificationRecipient())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	defer viper.Reset()

	t.Setenv("APP_ENV", "test")
	t.Setenv("PORT", "4000")
	t.Setenv("DB_DRIVER", " SQLite ")
	t.Setenv("JWT_EXPIRES_IN", "2h")
	t.Setenv("ADMIN_EMAIL", " Owner@Example.com ")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "4000", c.Port)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, 2*time.Hour, c.JWTExpiresIn)
	assert.Equal(t, "owner@example.com", c.AdminEmail)
	assert.Equal(t, "uploads", c.UploadDir)
	assert.False(t, c.IsProduction())
}

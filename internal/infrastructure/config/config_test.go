package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	originalEnv := map[string]string{
		"APP_NAME":            os.Getenv("APP_NAME"),
		"APP_ENV":             os.Getenv("APP_ENV"),
		"APP_PORT":            os.Getenv("APP_PORT"),
		"DB_HOST":             os.Getenv("DB_HOST"),
		"DB_PORT":             os.Getenv("DB_PORT"),
		"DB_USER":             os.Getenv("DB_USER"),
		"DB_PASSWORD":         os.Getenv("DB_PASSWORD"),
		"DB_NAME":             os.Getenv("DB_NAME"),
		"DB_SSL_MODE":         os.Getenv("DB_SSL_MODE"),
		"DB_MAX_OPEN_CONNS":   os.Getenv("DB_MAX_OPEN_CONNS"),
		"DB_MAX_IDLE_CONNS":   os.Getenv("DB_MAX_IDLE_CONNS"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "erp-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "erp", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	})

	t.Run("loads values from environment variables", func(t *testing.T) {
		clearEnv()
		os.Setenv("APP_NAME", "test-app")
		os.Setenv("APP_ENV", "testing")
		os.Setenv("APP_PORT", "9000")
		os.Setenv("DB_HOST", "testdb.local")
		os.Setenv("DB_PORT", "5433")
		os.Setenv("DB_USER", "testuser")
		os.Setenv("DB_PASSWORD", "testpass")
		os.Setenv("DB_NAME", "testdb")
		os.Setenv("DB_SSL_MODE", "require")
		os.Setenv("DB_MAX_OPEN_CONNS", "50")
		os.Setenv("DB_MAX_IDLE_CONNS", "10")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("DB_MAX_OPEN_CONNS", "10")
		os.Setenv("DB_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearEnv()
		os.Setenv("DB_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		// 0 is treated as "not set", so default (25) is used
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		clearEnv()
		os.Setenv("DB_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be negative")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"APP_ENV":     os.Getenv("APP_ENV"),
		"DB_PASSWORD": os.Getenv("DB_PASSWORD"),
		"DB_SSL_MODE": os.Getenv("DB_SSL_MODE"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	setValidProductionBase := func() {
		os.Setenv("APP_ENV", "production")
		os.Setenv("DB_PASSWORD", "secure-password")
		os.Setenv("DB_SSL_MODE", "require")
	}

	t.Run("requires database password in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("APP_ENV", "production")
		os.Setenv("DB_SSL_MODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_PASSWORD is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("APP_ENV", "production")
		os.Setenv("DB_PASSWORD", "secure-password")
		os.Setenv("DB_SSL_MODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be 'disable' in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestLoad_EventConfig(t *testing.T) {
	originalEnv := map[string]string{
		"EVENT_PROCESSOR_ENABLED":  os.Getenv("EVENT_PROCESSOR_ENABLED"),
		"EVENT_PROCESSOR_INTERVAL": os.Getenv("EVENT_PROCESSOR_INTERVAL"),
		"EVENT_MAX_RETRIES":        os.Getenv("EVENT_MAX_RETRIES"),
	}
	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	t.Run("loads default event processor settings", func(t *testing.T) {
		os.Unsetenv("EVENT_PROCESSOR_ENABLED")
		os.Unsetenv("EVENT_PROCESSOR_INTERVAL")
		os.Unsetenv("EVENT_MAX_RETRIES")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Event.ProcessorEnabled)
		assert.Equal(t, 5*time.Second, cfg.Event.PollInterval)
		assert.Equal(t, 5, cfg.Event.MaxRetries)
	})

	t.Run("loads event processor overrides", func(t *testing.T) {
		os.Setenv("EVENT_PROCESSOR_ENABLED", "false")
		os.Setenv("EVENT_PROCESSOR_INTERVAL", "1s")
		os.Setenv("EVENT_MAX_RETRIES", "10")

		cfg, err := Load()
		require.NoError(t, err)
		assert.False(t, cfg.Event.ProcessorEnabled)
		assert.Equal(t, time.Second, cfg.Event.PollInterval)
		assert.Equal(t, 10, cfg.Event.MaxRetries)
	})
}

func TestLoad_HTTPConfig(t *testing.T) {
	originalEnv := map[string]string{
		"HTTP_CORS_ORIGINS": os.Getenv("HTTP_CORS_ORIGINS"),
	}
	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	t.Run("defaults CORS origins to wildcard", func(t *testing.T) {
		os.Unsetenv("HTTP_CORS_ORIGINS")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"*"}, cfg.HTTP.CORSAllowOrigins)
	})

	t.Run("parses comma-separated CORS origins", func(t *testing.T) {
		os.Setenv("HTTP_CORS_ORIGINS", "https://a.example.com, https://b.example.com")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.HTTP.CORSAllowOrigins)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "pass%40word%23123")
	})

	t.Run("handles empty password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.NotEmpty(t, dsn)
	})
}

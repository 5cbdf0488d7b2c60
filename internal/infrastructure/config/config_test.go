package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	keys := []string{
		"FWD_APP_NAME",
		"FWD_APP_ENV",
		"FWD_APP_PORT",
		"FWD_DATABASE_HOST",
		"FWD_DATABASE_PORT",
		"FWD_DATABASE_USER",
		"FWD_DATABASE_PASSWORD",
		"FWD_DATABASE_DBNAME",
		"FWD_DATABASE_SSLMODE",
		"FWD_DATABASE_MAX_OPEN_CONNS",
		"FWD_DATABASE_MAX_IDLE_CONNS",
		"FWD_SCHEDULER_ENABLED",
		"FWD_SCHEDULER_JOB_TIMEOUT",
	}
	originalEnv := make(map[string]string, len(keys))
	for _, k := range keys {
		originalEnv[k] = os.Getenv(k)
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

		assert.Equal(t, "forwardops-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "forwardops", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, "0 2 * * *", cfg.Scheduler.AuditCronSchedule)
	})

	t.Run("loads values from environment variables with FWD prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("FWD_APP_NAME", "test-app")
		os.Setenv("FWD_APP_ENV", "testing")
		os.Setenv("FWD_APP_PORT", "9000")
		os.Setenv("FWD_DATABASE_HOST", "testdb.local")
		os.Setenv("FWD_DATABASE_PORT", "5433")
		os.Setenv("FWD_DATABASE_USER", "testuser")
		os.Setenv("FWD_DATABASE_PASSWORD", "testpass")
		os.Setenv("FWD_DATABASE_DBNAME", "testdb")
		os.Setenv("FWD_DATABASE_SSLMODE", "require")

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
	})

	t.Run("production requires password and ssl", func(t *testing.T) {
		clearEnv()
		os.Setenv("FWD_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "password")

		os.Setenv("FWD_DATABASE_PASSWORD", "secret")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")

		os.Setenv("FWD_DATABASE_SSLMODE", "require")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})

	t.Run("rejects idle conns exceeding open conns", func(t *testing.T) {
		clearEnv()
		os.Setenv("FWD_DATABASE_MAX_OPEN_CONNS", "5")
		os.Setenv("FWD_DATABASE_MAX_IDLE_CONNS", "10")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
	})
}

func TestDatabaseConfigDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.example.com",
		Port:     5432,
		User:     "app",
		Password: "p@ss word",
		DBName:   "forwardops",
		SSLMode:  "require",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.example.com:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// Special characters in the password must be escaped
	assert.NotContains(t, dsn, "p@ss word")
}

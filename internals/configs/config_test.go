package configs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormLogger "gorm.io/gorm/logger"
)

func TestLoadDefaults(t *testing.T) {
	// viper treats empty env values as unset
	for _, k := range []string{"PORT", "DB_SSLMODE", "DB_STATEMENT_TIMEOUT_MS", "CACHE_TTL", "CACHE_DIR"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "require", cfg.DB.SSLMode)
	assert.Equal(t, 3000, cfg.DB.StatementTimeoutMS)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Empty(t, cfg.Cache.Dir)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "training")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("LOG_JSON", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "training", cfg.DB.Name)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	assert.True(t, cfg.LogJSON)
}

func TestLoadMalformedValue(t *testing.T) {
	t.Setenv("CACHE_TTL", "soon")

	cfg, err := Load()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal config")
}

func TestDSN(t *testing.T) {
	d := DBConfig{Host: "h", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable", StatementTimeoutMS: 1500}
	assert.Equal(t,
		"postgres://u:p@h:5432/n?sslmode=disable&application_name=wecoza&options=-c%20statement_timeout=1500",
		d.DSN())
}

func TestGormLoggerLogMode(t *testing.T) {
	base := NewGormLogger().(*GormLogger)
	silent := base.LogMode(gormLogger.Silent).(*GormLogger)

	assert.Equal(t, gormLogger.Warn, base.LogLevel, "LogMode must not mutate the receiver")
	assert.Equal(t, gormLogger.Silent, silent.LogLevel)

	called := false
	silent.Trace(context.Background(), time.Now(), func() (string, int64) {
		called = true
		return "SELECT 1", 1
	}, errors.New("boom"))
	assert.False(t, called, "silent logger must not render SQL")
}

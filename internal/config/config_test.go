package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"SURVEY_ADDR", "SURVEY_REDIS_ADDR", "SURVEY_SESSION_TTL", "SURVEY_SHARE_SECRET", "SURVEY_SHARE_TTL", "SURVEY_BANK_PATH", "SURVEY_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 168*time.Hour, cfg.ShareTTL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("SURVEY_ADDR", ":9090")
	t.Setenv("SURVEY_REDIS_ADDR", "localhost:6379")
	t.Setenv("SURVEY_SESSION_TTL", "30m")
	t.Setenv("SURVEY_SHARE_TTL", "nonsense")
	t.Setenv("SURVEY_LOG_LEVEL", "debug")

	cfg := FromEnv()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 168*time.Hour, cfg.ShareTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadWithoutDotEnv(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	_, found, err := Load()
	assert.NoError(t, err)
	assert.False(t, found)
}

package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skili43/survey-tool/internal/utils"
)

// Config is the runtime configuration of the server.
type Config struct {
	Addr        string
	RedisAddr   string
	SessionTTL  time.Duration
	ShareSecret string
	ShareTTL    time.Duration
	BankPath    string
	LogLevel    string
	Commit      string
	BuildTime   string
}

// Load reads the environment, after loading an optional .env file from the
// working directory. The returned bool reports whether a .env file was found.
func Load() (Config, bool, error) {
	found := true
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, false, err
		}
		found = false
	}
	return FromEnv(), found, nil
}

// FromEnv builds a Config from the current environment.
func FromEnv() Config {
	return Config{
		Addr:        utils.SafeEnv("SURVEY_ADDR", ":8080"),
		RedisAddr:   utils.SafeEnv("SURVEY_REDIS_ADDR", ""),
		SessionTTL:  utils.DurationEnv("SURVEY_SESSION_TTL", 24*time.Hour),
		ShareSecret: utils.SafeEnv("SURVEY_SHARE_SECRET", ""),
		ShareTTL:    utils.DurationEnv("SURVEY_SHARE_TTL", 7*24*time.Hour),
		BankPath:    utils.SafeEnv("SURVEY_BANK_PATH", ""),
		LogLevel:    utils.SafeEnv("SURVEY_LOG_LEVEL", "info"),
		Commit:      os.Getenv("SURVEY_COMMIT"),
		BuildTime:   os.Getenv("SURVEY_BUILD_TIME"),
	}
}

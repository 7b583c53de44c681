package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"commitforge/internal/utils"
)

// Config is the process configuration, resolved once at startup from the
// environment (optionally seeded from a .env file at the project root).
type Config struct {
	DatabasePath    string
	DefaultModelKey string
	CacheTTL        time.Duration
	PromptMaxChars  int
	RatePerMinute   int
	RateBurst       int
	RateMaxWait     time.Duration
	SessionKey      string
}

// Load reads configuration from the environment. A missing .env file is not
// an error; explicit environment variables always win because godotenv never
// overwrites existing values.
func Load() (*Config, error) {
	_ = utils.LoadEnv()

	cfg := &Config{
		DatabasePath:    os.Getenv("COMMITFORGE_DB_PATH"),
		DefaultModelKey: getenvDefault("COMMITFORGE_DEFAULT_MODEL", "anthropic|claude-haiku-4-5"),
		CacheTTL:        5 * time.Minute,
		PromptMaxChars:  32 * 1024,
		RatePerMinute:   20,
		RateBurst:       3,
		RateMaxWait:     10 * time.Second,
		SessionKey:      os.Getenv("COMMITFORGE_SESSION_KEY"),
	}

	var err error
	if cfg.CacheTTL, err = durationEnv("COMMITFORGE_CACHE_TTL", cfg.CacheTTL); err != nil {
		return nil, err
	}
	if cfg.PromptMaxChars, err = intEnv("COMMITFORGE_PROMPT_MAX_CHARS", cfg.PromptMaxChars); err != nil {
		return nil, err
	}
	if cfg.RatePerMinute, err = intEnv("COMMITFORGE_RATE_PER_MINUTE", cfg.RatePerMinute); err != nil {
		return nil, err
	}
	if cfg.RateBurst, err = intEnv("COMMITFORGE_RATE_BURST", cfg.RateBurst); err != nil {
		return nil, err
	}
	if cfg.RateMaxWait, err = durationEnv("COMMITFORGE_RATE_MAX_WAIT", cfg.RateMaxWait); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

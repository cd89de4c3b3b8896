package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"bjj-foundation/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	TechniquesSource string
	FightsSource     string
	SnapshotPath     string
	ServerPort       string
	LogLevel         string

	// MaxCards caps rendered cards when not searching; 0 means unlimited.
	MaxCards       int
	SearchDebounce time.Duration
	FetchTimeout   time.Duration
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		TechniquesSource: getEnv("TECHNIQUES_SOURCE", "bjj_simple_processed.json"),
		FightsSource:     lookupEnv("FIGHTS_SOURCE", "fight_simple.json"),
		SnapshotPath:     getEnv("SNAPSHOT_PATH", ""),
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.MaxCards, err = getInt("MAX_CARDS", constants.DefaultMaxCards); err != nil {
		return nil, err
	}
	if cfg.MaxCards < 0 {
		return nil, fmt.Errorf("MAX_CARDS must not be negative, got %d", cfg.MaxCards)
	}
	if cfg.SearchDebounce, err = getDuration("SEARCH_DEBOUNCE", constants.DefaultSearchDebounce); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = getDuration("FETCH_TIMEOUT", constants.FetchTimeout); err != nil {
		return nil, err
	}

	if cfg.TechniquesSource == "" && cfg.SnapshotPath == "" {
		return nil, fmt.Errorf("TECHNIQUES_SOURCE or SNAPSHOT_PATH is required")
	}

	logger.Info().
		Str("techniques_source", cfg.TechniquesSource).
		Str("fights_source", cfg.FightsSource).
		Str("snapshot_path", cfg.SnapshotPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Int("max_cards", cfg.MaxCards).
		Dur("search_debounce", cfg.SearchDebounce).
		Dur("fetch_timeout", cfg.FetchTimeout).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// lookupEnv treats an explicitly empty variable as a value, so FIGHTS_SOURCE=""
// disables the secondary collection.
func lookupEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %s", key, d)
	}
	return d, nil
}

var Module = fx.Provide(Load)

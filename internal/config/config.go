package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	AppEnv         string   `env:"APP_ENV" envDefault:"development"`
	Port           string   `env:"PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"file"`
	ScoresFile    string `env:"SCORES_FILE" envDefault:"scores.json"`
	DatabaseURL   string `env:"DATABASE_URL"`
	RedisURL      string `env:"REDIS_URL"`

	GameName        string `env:"GAME_NAME" envDefault:"OSRSGuessr"`
	GameURL         string `env:"GAME_URL" envDefault:"https://www.osrsguessr.com/"`
	DailyPostCron   string `env:"DAILY_POST_CRON" envDefault:"0 12 * * *"`
	CronTZ          string `env:"CRON_TZ" envDefault:"Local"`
	LeaderboardSize int    `env:"LEADERBOARD_SIZE" envDefault:"10"`

	MinPoints      int64         `env:"MIN_POINTS" envDefault:"0"`
	MaxPoints      int64         `env:"MAX_POINTS" envDefault:"25000"`
	SubmitCooldown time.Duration `env:"SUBMIT_COOLDOWN" envDefault:"0s"`

	Location *time.Location `env:"-"`
}

func Load() (*Config, error) {
	return LoadWithOverrides(nil)
}

// LoadWithOverrides is Load with overrides taking precedence over the
// process environment and .env, keyed by variable name.
func LoadWithOverrides(overrides map[string]string) (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	environment := env.ToMap(os.Environ())
	for key, value := range overrides {
		environment[key] = value
	}

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environment}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.CronTZ)
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_TZ: %w", err)
	}
	cfg.Location = loc

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageFile:
		if c.ScoresFile == "" {
			return fmt.Errorf("SCORES_FILE is required for the %s storage driver", StorageFile)
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s storage driver", StoragePostgres)
		}
	case StorageMemory:
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.MinPoints > c.MaxPoints {
		return fmt.Errorf("MIN_POINTS (%d) is greater than MAX_POINTS (%d)", c.MinPoints, c.MaxPoints)
	}
	if c.LeaderboardSize < 1 {
		return fmt.Errorf("LEADERBOARD_SIZE must be positive, got %d", c.LeaderboardSize)
	}
	if c.SubmitCooldown < 0 {
		return fmt.Errorf("SUBMIT_COOLDOWN must not be negative")
	}
	return nil
}

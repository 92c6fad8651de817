package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"prod"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	MetricsAddr string `env:"METRICS_ADDR"`

	DBDriver string `env:"DB_DRIVER" envDefault:"mysql"`
	DBDSN    string `env:"DB_DSN" envDefault:"root:root@tcp(localhost:3306)/listings?charset=utf8mb4&loc=UTC"`

	RedisAddr string        `env:"REDIS_ADDR"`
	RedisPass string        `env:"REDIS_PASSWORD"`
	RedisDB   int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"15m"`

	FeedURL string `env:"FEED_URL" envDefault:"https://zoho.nordstern.ae/property_finder.xml"`
	FeedRPS int    `env:"FEED_RPS" envDefault:"5"`
	Workers int    `env:"INGEST_WORKERS" envDefault:"8"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	ImportTimeout  time.Duration `env:"IMPORT_TIMEOUT" envDefault:"5m"`
	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES" envDefault:"33554432"`
}

// Load reads an optional .env file, then the process environment.
// Variables already set in the environment win over .env entries.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	if c.RedisAddr == "" {
		log.Warn().Msg("REDIS_ADDR is empty; record cache disabled")
	}
	return c, nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.DBDriver) {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be mysql or sqlite, got %q", c.DBDriver)
	}
	if strings.TrimSpace(c.DBDSN) == "" {
		return errors.New("DB_DSN is required")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("INGEST_WORKERS must be positive, got %d", c.Workers)
	}
	if c.RequestTimeout <= 0 || c.ImportTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT and IMPORT_TIMEOUT must be positive")
	}
	return nil
}

func (c Config) IsDev() bool { return c.AppEnv == "dev" || c.AppEnv == "development" }

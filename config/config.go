package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	API         API
	Exchanges   Exchanges
	Ingest      Ingest
	Redis       Redis
	Cache       Cache
	GoogleDrive GoogleDrive
}

type API struct {
	Debug    bool          `env:"API_DEBUG" envDefault:"false"`
	Timeout  time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
	OpenFigi OpenFigi
	Yahoo    Yahoo
}

type OpenFigi struct {
	Url          string        `env:"OPENFIGI_API_URL" envDefault:"https://api.openfigi.com/v3"`
	ApiKey       string        `env:"OPENFIGI_API_KEY" envDefault:""`
	RateLimit    int           `env:"OPENFIGI_RATE_LIMIT" envDefault:"25"`
	RateInterval time.Duration `env:"OPENFIGI_RATE_INTERVAL" envDefault:"1m"`
}

type Yahoo struct {
	Url    string `env:"YAHOO_API_URL" envDefault:"https://query1.finance.yahoo.com"`
	Source string `env:"QUOTE_SOURCE" envDefault:"chart"`
}

type Exchanges struct {
	File string `env:"EXCHANGES_FILE" envDefault:"data/exchanges/exchanges.csv"`
}

type Ingest struct {
	IsinColumn string `env:"INGEST_ISIN_COLUMN" envDefault:"ISIN"`
	CashMarker string `env:"INGEST_CASH_MARKER" envDefault:"FLATEX"`
}

// Redis is optional: an empty host keeps the run cache in memory.
type Redis struct {
	Host     string `env:"REDIS_HOST" envDefault:""`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type Cache struct {
	Expiration time.Duration `env:"CACHE_EXPIRATION" envDefault:"1h"`
}

type GoogleDrive struct {
	CredentialsFile string        `env:"GOOGLE_DRIVE_CREDENTIALS_FILE" envDefault:""`
	FileTTL         time.Duration `env:"GOOGLE_DRIVE_FILE_TTL" envDefault:"168h"`
}

func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, err
	}

	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}

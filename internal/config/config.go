package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig   `envPrefix:"SERVER_"`
	Database DatabaseConfig `envPrefix:"DATABASE_"`
	SerpAPI  SerpAPIConfig  `envPrefix:"SERPAPI_"`
	Search   SearchConfig   `envPrefix:"SEARCH_"`
	Auth     AuthConfig     `envPrefix:"AUTH_"`
	Kafka    KafkaConfig    `envPrefix:"KAFKA_"`
}

type ServerConfig struct {
	Addr        string `env:"ADDR" envDefault:":8080"`
	CORSPattern string `env:"CORS_PATTERN" envDefault:"^https?://(localhost|127\\.0\\.0\\.1)(:[0-9]+)?$"`

	Pprof bool `env:"PPROF_ENABLED" envDefault:"false"`

	// Session watch sockets.
	PingInterval time.Duration `env:"WS_PING_INTERVAL" envDefault:"30s"`
	WriteTimeout time.Duration `env:"WS_WRITE_TIMEOUT" envDefault:"10s"`
	ReadTimeout  time.Duration `env:"WS_READ_TIMEOUT" envDefault:"60s"`
}

type DatabaseConfig struct {
	URI      string `env:"URI" envDefault:"mongodb://localhost:27017"`
	Database string `env:"DATABASE" envDefault:"shopping_search"`
}

// SerpAPIConfig holds the shopping-search provider settings. An empty APIKey
// is valid at startup; every search then resolves to fallback results.
type SerpAPIConfig struct {
	APIKey      string        `env:"API_KEY"`
	BaseURL     string        `env:"BASE_URL" envDefault:"https://serpapi.com"`
	Engine      string        `env:"ENGINE" envDefault:"google_shopping"`
	Location    string        `env:"LOCATION" envDefault:"United Kingdom"`
	Language    string        `env:"LANGUAGE" envDefault:"en"`
	Region      string        `env:"REGION" envDefault:"uk"`
	ResultCount int           `env:"RESULT_COUNT" envDefault:"20"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

type SearchConfig struct {
	CountryCode  string `env:"COUNTRY_CODE" envDefault:"UK"`
	CacheRegion  string `env:"CACHE_REGION" envDefault:"UK"`
	HistoryLimit int    `env:"HISTORY_LIMIT" envDefault:"10"`
}

type AuthConfig struct {
	JWTSecret string `env:"JWT_SECRET"`
}

type KafkaConfig struct {
	Enabled bool     `env:"ENABLED" envDefault:"false"`
	Brokers []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic   string   `env:"TOPIC" envDefault:"identity-events"`
	GroupID string   `env:"GROUP_ID" envDefault:"shopping-search"`
	Workers int      `env:"WORKERS" envDefault:"4"`
}

// Load reads a .env file when one exists, then parses the environment.
func Load() (*Config, error) {
	// a missing .env is the normal case outside local development
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) Validate() error {
	if c.SerpAPI.ResultCount <= 0 {
		return fmt.Errorf("SERPAPI_RESULT_COUNT must be > 0")
	}
	if c.Search.HistoryLimit <= 0 {
		return fmt.Errorf("SEARCH_HISTORY_LIMIT must be > 0")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS cannot be empty when kafka is enabled")
	}
	return nil
}

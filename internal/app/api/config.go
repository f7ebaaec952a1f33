package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	walletkafka "github.com/Apurer/dropship-order-service/internal/domains/wallet/adapters/kafka"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port           string        `env:"PORT" env-default:"8080"`
	PostgresDSN    string        `env:"POSTGRES_DSN"`
	MigrateOnStart bool          `env:"MIGRATE_ON_START" env-default:"false"`
	SessionTTL     time.Duration `env:"SESSION_TTL" env-default:"24h"`
	DevSessions    string        `env:"DEV_SESSIONS"`
	KafkaBrokers   []string      `env:"KAFKA_BROKERS" env-separator:","`
	KafkaTopic     string        `env:"KAFKA_WALLET_TOPIC"`
	Environment    string        `env:"ENVIRONMENT" env-default:"local"`
}

// LoadConfig reads an optional .env file, then the process environment, and
// validates the result.
func LoadConfig() (Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	cfg.PostgresDSN = strings.TrimSpace(cfg.PostgresDSN)
	cfg.KafkaBrokers = compact(cfg.KafkaBrokers)
	if cfg.KafkaTopic = strings.TrimSpace(cfg.KafkaTopic); cfg.KafkaTopic == "" {
		cfg.KafkaTopic = walletkafka.DefaultTopic
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks constraints cleanenv cannot express.
func (c Config) Validate() error {
	port, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("PORT must be a TCP port number, got %q", c.Port)
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.MigrateOnStart && c.PostgresDSN == "" {
		return errors.New("MIGRATE_ON_START requires POSTGRES_DSN")
	}
	if _, err := ParseDevSessions(c.DevSessions); err != nil {
		return fmt.Errorf("DEV_SESSIONS: %w", err)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + strings.TrimSpace(c.Port)
}

// DevSession is one DEV_SESSIONS entry. An empty Token asks for a freshly
// issued one.
type DevSession struct {
	Token      string
	CustomerID int64
}

// ParseDevSessions reads a comma separated list of "token=customerID" pairs
// or bare customer ids, e.g. "ops=0,42". Customer 0 is the operator identity.
func ParseDevSessions(raw string) ([]DevSession, error) {
	var sessions []DevSession
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		rawID := entry
		var token string
		if before, after, ok := strings.Cut(entry, "="); ok {
			if token = strings.TrimSpace(before); token == "" {
				return nil, fmt.Errorf("entry %q has an empty token", entry)
			}
			rawID = after
		}
		id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
		if err != nil || id < 0 {
			return nil, fmt.Errorf("entry %q has an invalid customer id", entry)
		}
		sessions = append(sessions, DevSession{Token: token, CustomerID: id})
	}
	return sessions, nil
}

func compact(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Package config loads service configuration from EDUREWARD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const devSigningKey = "dev-secret-key-change-in-production"

// Server captures process level configuration.
type Server struct {
	Addr            string        `env:"EDUREWARD_ADDR" envDefault:":8080"`
	Environment     string        `env:"EDUREWARD_ENV" envDefault:"dev"`
	LogLevel        string        `env:"EDUREWARD_LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"EDUREWARD_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	HTTP     HTTPConfig
	Auth     AuthConfig
	Ledger   LedgerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
}

// HTTPConfig bounds how long a client may hold a connection.
type HTTPConfig struct {
	ReadHeaderTimeout time.Duration `env:"EDUREWARD_HTTP_READ_HEADER_TIMEOUT" envDefault:"5s"`
	ReadTimeout       time.Duration `env:"EDUREWARD_HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout      time.Duration `env:"EDUREWARD_HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout       time.Duration `env:"EDUREWARD_HTTP_IDLE_TIMEOUT" envDefault:"60s"`
}

type AuthConfig struct {
	SigningKey string `env:"EDUREWARD_JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	Issuer     string `env:"EDUREWARD_JWT_ISSUER" envDefault:"edureward"`
	Audience   string `env:"EDUREWARD_JWT_AUDIENCE" envDefault:"edureward-api"`
}

// LedgerConfig selects the reward transfer backend. An empty URL uses the
// in-process pooled ledger, seeding DevPoolBalance of DevTokenRef into the pool.
type LedgerConfig struct {
	URL              string        `env:"EDUREWARD_LEDGER_URL"`
	APIKey           string        `env:"EDUREWARD_LEDGER_API_KEY"`
	Timeout          time.Duration `env:"EDUREWARD_LEDGER_TIMEOUT" envDefault:"5s"`
	PoolAccount      string        `env:"EDUREWARD_POOL_ACCOUNT" envDefault:"edureward-pool"`
	DevTokenRef      string        `env:"EDUREWARD_DEV_TOKEN_REF" envDefault:"EDU"`
	DevPoolBalance   string        `env:"EDUREWARD_DEV_POOL_BALANCE" envDefault:"1000000"`
	FailureThreshold int           `env:"EDUREWARD_LEDGER_FAILURE_THRESHOLD" envDefault:"5"`
	Cooldown         time.Duration `env:"EDUREWARD_LEDGER_COOLDOWN" envDefault:"30s"`
}

// PostgresConfig enables durable storage when DSN is set.
type PostgresConfig struct {
	DSN             string        `env:"EDUREWARD_DATABASE_URL"`
	MaxOpenConns    int           `env:"EDUREWARD_DB_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns    int           `env:"EDUREWARD_DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"EDUREWARD_DB_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// RedisConfig enables the shared admission lock when URL is set.
type RedisConfig struct {
	URL          string        `env:"EDUREWARD_REDIS_URL"`
	PoolSize     int           `env:"EDUREWARD_REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"EDUREWARD_REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"EDUREWARD_REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"EDUREWARD_REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"EDUREWARD_REDIS_WRITE_TIMEOUT" envDefault:"3s"`
	LockTTL      time.Duration `env:"EDUREWARD_ADMISSION_LOCK_TTL" envDefault:"30s"`
}

// KafkaConfig enables audit shipping when Brokers is set.
type KafkaConfig struct {
	Brokers           []string      `env:"EDUREWARD_KAFKA_BROKERS" envSeparator:","`
	ClientID          string        `env:"EDUREWARD_KAFKA_CLIENT_ID" envDefault:"edureward"`
	AuditTopic        string        `env:"EDUREWARD_KAFKA_AUDIT_TOPIC" envDefault:"edureward.audit"`
	Partitions        int32         `env:"EDUREWARD_KAFKA_PARTITIONS" envDefault:"3"`
	ReplicationFactor int16         `env:"EDUREWARD_KAFKA_REPLICATION" envDefault:"1"`
	Linger            time.Duration `env:"EDUREWARD_KAFKA_LINGER" envDefault:"5ms"`
	AuditBuffer       int           `env:"EDUREWARD_AUDIT_BUFFER" envDefault:"1024"`
}

// IsProduction reports whether dev defaults must be refused.
func (s Server) IsProduction() bool {
	return s.Environment == "production"
}

// FromEnv parses and validates configuration so main stays lean.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

func (s Server) Validate() error {
	if s.Auth.SigningKey == "" {
		return errors.New("EDUREWARD_JWT_SIGNING_KEY is required")
	}
	if s.IsProduction() && s.Auth.SigningKey == devSigningKey {
		return errors.New("EDUREWARD_JWT_SIGNING_KEY must be overridden in production")
	}
	if s.IsProduction() && s.Ledger.URL == "" {
		return errors.New("EDUREWARD_LEDGER_URL is required in production")
	}
	if s.Ledger.PoolAccount == "" {
		return errors.New("EDUREWARD_POOL_ACCOUNT is required")
	}
	return nil
}

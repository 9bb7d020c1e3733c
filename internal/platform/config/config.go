package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures the registry's runtime configuration. Built from the
// environment so main stays lean.
type Server struct {
	Addr string

	// PostgresDSN selects the durable store; empty means in-memory.
	PostgresDSN string

	// RedisURL enables the shared sequencer and the claim read cache.
	RedisURL string

	// KafkaBrokers enables the Kafka event sink; empty means events go to
	// the structured log.
	KafkaBrokers []string
	KafkaTopic   string

	JWTSigningKey string

	// MaxBytesInHash bounds proof length. The single configuration knob the
	// registry core itself requires.
	MaxBytesInHash int

	CacheTTL    time.Duration
	EventBuffer int
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	cfg := Server{
		Addr:           envOr("PROOFMARK_ADDR", ":8080"),
		PostgresDSN:    os.Getenv("PROOFMARK_POSTGRES_DSN"),
		RedisURL:       os.Getenv("PROOFMARK_REDIS_URL"),
		KafkaTopic:     envOr("PROOFMARK_KAFKA_TOPIC", "proofmark.claims"),
		JWTSigningKey:  os.Getenv("PROOFMARK_JWT_SIGNING_KEY"),
		MaxBytesInHash: envInt("PROOFMARK_MAX_BYTES_IN_HASH", 64),
		CacheTTL:       envDuration("PROOFMARK_CACHE_TTL", 5*time.Minute),
		EventBuffer:    envInt("PROOFMARK_EVENT_BUFFER", 1024),
	}

	if brokers := os.Getenv("PROOFMARK_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	if cfg.JWTSigningKey == "" {
		// Development default - must be overridden in production.
		cfg.JWTSigningKey = "dev-secret-key-change-in-production"
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

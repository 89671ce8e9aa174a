// Package config builds runtime configuration from the environment so main
// stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	strutil "refcert/pkg/platform/strings"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string

	PostgresDSN string

	Redis RedisConfig

	// KafkaBrokers empty means feedback falls back to the log sender.
	KafkaBrokers  []string
	FeedbackTopic string

	// FeedbackBuffer is the outbox capacity before jobs are dropped.
	FeedbackBuffer int
}

// RedisConfig carries connection settings for the active-attempt store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("REFCERT_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("REFCERT_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default; override in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	topic := os.Getenv("REFCERT_FEEDBACK_TOPIC")
	if topic == "" {
		topic = "referee.exam.feedback"
	}

	var brokers []string
	if raw := os.Getenv("REFCERT_KAFKA_BROKERS"); raw != "" {
		brokers = strutil.DedupeAndTrim(strings.Split(raw, ","))
	}

	return Server{
		Addr:           addr,
		JWTSigningKey:  jwtSigningKey,
		PostgresDSN:    os.Getenv("REFCERT_POSTGRES_DSN"),
		Redis:          redisFromEnv(),
		KafkaBrokers:   brokers,
		FeedbackTopic:  topic,
		FeedbackBuffer: intFromEnv("REFCERT_FEEDBACK_BUFFER", 256),
	}
}

func redisFromEnv() RedisConfig {
	return RedisConfig{
		URL:          os.Getenv("REFCERT_REDIS_URL"),
		PoolSize:     intFromEnv("REFCERT_REDIS_POOL_SIZE", 10),
		MinIdleConns: intFromEnv("REFCERT_REDIS_MIN_IDLE_CONNS", 2),
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

func intFromEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

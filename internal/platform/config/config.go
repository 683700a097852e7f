package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr string

	// InstitutionalDomain gates handle/roll-number derivation;
	// FallbackDomain is accepted for sign-in only.
	InstitutionalDomain string
	FallbackDomain      string

	JWTSigningKey string
	SessionTTL    time.Duration

	// RedisURL is optional; empty keeps user records in memory.
	RedisURL string
	// PostgresDSN is optional; empty serves the seed catalog from memory.
	PostgresDSN string

	// KafkaBrokers is optional; empty keeps audit events in memory.
	KafkaBrokers []string
	KafkaTopic   string

	// CheckoutURL is the payment collaborator's session endpoint.
	CheckoutURL string
	// WebhookSecretHash is the bcrypt hash of the shared secret the payment
	// collaborator presents on its completion callback.
	WebhookSecretHash string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:                envOr("UNITRADER_ADDR", ":8080"),
		InstitutionalDomain: envOr("UNITRADER_INSTITUTIONAL_DOMAIN", "iiitkottayam.ac.in"),
		FallbackDomain:      envOr("UNITRADER_FALLBACK_DOMAIN", "gmail.com"),
		JWTSigningKey:       envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		SessionTTL:          24 * time.Hour,
		RedisURL:            os.Getenv("UNITRADER_REDIS_URL"),
		PostgresDSN:         os.Getenv("UNITRADER_POSTGRES_DSN"),
		KafkaTopic:          envOr("UNITRADER_KAFKA_TOPIC", "unitrader.audit"),
		CheckoutURL:         os.Getenv("UNITRADER_CHECKOUT_URL"),
		WebhookSecretHash:   os.Getenv("UNITRADER_WEBHOOK_SECRET_HASH"),
	}
	if brokers := os.Getenv("UNITRADER_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	if ttl := os.Getenv("UNITRADER_SESSION_TTL"); ttl != "" {
		if parsed, err := time.ParseDuration(ttl); err == nil {
			cfg.SessionTTL = parsed
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	ViaCEP   ViaCEPConfig
	Session  SessionConfig
	Cart     CartConfig
	Kafka    KafkaConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Port string
}

// UpstreamConfig points at the platform REST API the edge fronts.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

type ViaCEPConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	CookieSecret string
	CookieTTL    time.Duration
}

type CartConfig struct {
	Secret string
}

type KafkaConfig struct {
	Brokers []string
	GroupID string
	Topics  []string
}

type LoggingConfig struct {
	Level     string
	Format    string
	Directory string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envOr("PORT", "8080"),
		},
		Upstream: UpstreamConfig{
			BaseURL: strings.TrimSpace(os.Getenv("API_BASE_URL")),
			Timeout: envDuration("API_TIMEOUT", 10*time.Second),
		},
		ViaCEP: ViaCEPConfig{
			BaseURL: envOr("VIA_CEP_BASE_URL", "https://viacep.com.br/ws"),
			Timeout: envDuration("VIA_CEP_TIMEOUT", 5*time.Second),
		},
		Session: SessionConfig{
			CookieSecret: strings.TrimSpace(os.Getenv("SESSION_COOKIE_SECRET")),
			CookieTTL:    envDuration("SESSION_COOKIE_TTL", 24*time.Hour),
		},
		Cart: CartConfig{
			Secret: strings.TrimSpace(os.Getenv("CART_SECRET")),
		},
		Kafka: KafkaConfig{
			Brokers: envList("KAFKA_BROKERS", "KAFKA_BROKER"),
			GroupID: envOr("KAFKA_GROUP_ID", "pratoja-edge"),
			Topics:  envList("KAFKA_TOPICS"),
		},
		Logging: LoggingConfig{
			Level:     envOr("LOG_LEVEL", "info"),
			Format:    envOr("LOG_FORMAT", "text"),
			Directory: envOr("LOG_DIR", "./logs"),
		},
	}

	if cfg.Upstream.BaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required")
	}
	if cfg.Session.CookieSecret == "" {
		return nil, fmt.Errorf("SESSION_COOKIE_SECRET is required")
	}
	if cfg.Cart.Secret == "" {
		return nil, fmt.Errorf("CART_SECRET is required")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

// envDuration accepts Go duration strings and plain second counts.
func envDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
		return parsed
	}
	if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}

// envList splits the first non-empty comma-separated variable among keys.
func envList(keys ...string) []string {
	for _, key := range keys {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			continue
		}
		parts := strings.Split(raw, ",")
		values := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				values = append(values, trimmed)
			}
		}
		if len(values) > 0 {
			return values
		}
	}
	return nil
}

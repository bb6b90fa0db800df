package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr     string
	LogLevel string

	// BackendBaseURL is the commerce backend serving session sync, token
	// refresh, customer profiles and orders.
	BackendBaseURL    string
	HTTPClientTimeout time.Duration

	// RenewalThreshold is the remaining validity below which the token
	// manager renews proactively.
	RenewalThreshold time.Duration

	// IdentityPollInterval is how often the signed-in account is re-read
	// from the identity provider to notice deletion or changes.
	IdentityPollInterval time.Duration

	// ProfileSource selects where extended user profile documents live:
	// "firestore" or "memory".
	ProfileSource string

	Redis    RedisConfig
	Firebase FirebaseConfig
}

// RedisConfig configures the optional Redis key/value backend.
type RedisConfig struct {
	URL          string
	Namespace    string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FirebaseConfig configures the identity provider and Firestore clients.
type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
}

// DefaultRenewalThreshold is the proactive renewal window.
const DefaultRenewalThreshold = 5 * time.Minute

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:              envOr("STOREFRONT_ADDR", ":8080"),
		LogLevel:          envOr("LOG_LEVEL", "info"),
		BackendBaseURL:    strings.TrimRight(envOr("BACKEND_BASE_URL", "http://localhost:9090"), "/"),
		HTTPClientTimeout: durationOr("HTTP_CLIENT_TIMEOUT", 10*time.Second),
		RenewalThreshold:  durationOr("TOKEN_RENEWAL_THRESHOLD", DefaultRenewalThreshold),
		ProfileSource:     envOr("PROFILE_SOURCE", "memory"),

		IdentityPollInterval: durationOr("IDENTITY_POLL_INTERVAL", time.Minute),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			Namespace:    envOr("REDIS_NAMESPACE", "storefront"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  durationOr("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationOr("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durationOr("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Firebase: FirebaseConfig{
			ProjectID:       firstNonEmpty(os.Getenv("FIREBASE_PROJECT_ID"), os.Getenv("GOOGLE_CLOUD_PROJECT")),
			CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		},
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// durationOr falls back to def when the variable is unset, unparsable or
// not positive.
func durationOr(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

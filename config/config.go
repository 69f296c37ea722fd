package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr      string
	APIBaseURL      string
	RequestTimeout  time.Duration
	QueryRetries    int
	QueryRetryDelay time.Duration
	CacheTTL        time.Duration
	RedisAddr       string // empty means in-memory cache
	LoginRatePerMin int
	Debug           bool
}

// Load reads configuration from the environment, letting a local .env
// file fill in gaps first.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		ListenAddr:      getenv("LISTEN_ADDR", ":8080"),
		APIBaseURL:      getenv("API_BASE_URL", "http://127.0.0.1:3000"),
		RequestTimeout:  getenvDuration("REQUEST_TIMEOUT", 2*time.Second),
		QueryRetries:    getenvInt("QUERY_RETRIES", 5),
		QueryRetryDelay: getenvDuration("QUERY_RETRY_DELAY", 1500*time.Millisecond),
		CacheTTL:        getenvDuration("CACHE_TTL", 5*time.Minute),
		RedisAddr:       getenv("REDIS_ADDR", ""),
		LoginRatePerMin: getenvInt("LOGIN_RATE_PER_MIN", 10),
		Debug:           getenv("DEBUG", "") != "",
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}

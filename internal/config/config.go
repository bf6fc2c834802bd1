package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr       string
	CORSOrigin string
	SessionTTL time.Duration
	// Redis - leave empty to run an embedded in-process instance
	RedisURL string
	// Meilisearch - leave MeiliURL empty to disable and use the in-memory scan
	MeiliURL       string
	MeiliMasterKey string
}

func Load() Config {
	// Missing .env is fine, env vars still apply.
	_ = godotenv.Load()

	return Config{
		Addr:           getenv("API_ADDR", ":8787"),
		CORSOrigin:     getenv("PRECINCT_CORS_ORIGIN", "*"),
		SessionTTL:     time.Duration(getenvInt("PRECINCT_SESSION_TTL_SECONDS", 86400)) * time.Second,
		RedisURL:       getenv("REDIS_URL", ""),
		MeiliURL:       getenv("MEILI_URL", ""),
		MeiliMasterKey: getenv("MEILI_MASTER_KEY", ""),
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

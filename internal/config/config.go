package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port        string
	DatabaseURL string
	GinMode     string

	SessionSecret string
	// JWTSecret verifies bearer tokens issued by the upstream identity service.
	JWTSecret   string
	CORSOrigins []string

	// Write throttling for votes, suggestions and spotlight toggles, per client.
	VoteRatePerMinute int
	VoteRateBurst     int

	// BackfillOnStart inserts missing author DECLARED votes once at boot.
	BackfillOnStart bool
}

func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=fashigram port=5432 sslmode=disable TimeZone=UTC"),
		GinMode:           getEnv("GIN_MODE", "debug"),
		SessionSecret:     getEnv("SESSION_SECRET", "secret_key_change_me"),
		JWTSecret:         getEnv("JWT_SECRET", "your-secret-key"),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		VoteRatePerMinute: getEnvInt("VOTE_RATE_PER_MINUTE", 60),
		VoteRateBurst:     getEnvInt("VOTE_RATE_BURST", 10),
		BackfillOnStart:   getEnvBool("BACKFILL_ON_START", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

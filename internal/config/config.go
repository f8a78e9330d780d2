// Package config loads runtime configuration from environment
// variables.  Required variables abort startup with a fatal log so a
// misconfigured deployment fails fast instead of limping along.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config carries every runtime setting the server needs.  Values map
// one to one onto environment variables; string fields hold hosts,
// names and secrets while int fields hold TTLs and cost factors.
type Config struct {
	Env            string // APP_ENV: dev, test or prod
	Port           string // APP_PORT: HTTP listen port
	DBUser         string // DB_USER
	DBPass         string // DB_PASS (may be empty)
	DBHost         string // DB_HOST
	DBPort         string // DB_PORT
	DBName         string // DB_NAME
	JWTSecret      string // JWT_SECRET: HS256 signing key
	AccessTTLMin   int    // ACCESS_TOKEN_TTL_MIN: access token lifetime in minutes
	RefreshTTLDays int    // REFRESH_TOKEN_TTL_DAYS: refresh token lifetime in days
	BcryptCost     int    // BCRYPT_COST: password hashing cost factor
}

// Load builds a Config from the process environment.  Every field
// except DBPass is required; a missing value terminates the process.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
	}
}

func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func mustInt(key string) int {
	n, err := strconv.Atoi(must(key))
	if err != nil {
		log.Fatalf("env var %s must be an integer: %v", key, err)
	}
	return n
}

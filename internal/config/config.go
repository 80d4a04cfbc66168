// Package config loads server settings from a .env file and the process
// environment.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs at startup.
type Config struct {
	Port      string
	DBPath    string
	JWTSecret []byte
	UploadDir string
}

// Load reads .env if present and falls back to process env, then defaults.
// Returns the config and whether JWT_SECRET was explicitly set; callers
// should warn when running on the default secret.
func Load() (Config, bool) {
	// A missing .env is fine; system env still applies.
	_ = godotenv.Load()

	secret, secretSet := os.LookupEnv("JWT_SECRET")
	if !secretSet || secret == "" {
		secret = "your-secret-key"
		secretSet = false
	}

	return Config{
		Port:      getenv("PORT", "5000"),
		DBPath:    getenv("DB_PATH", "taskhub.db"),
		JWTSecret: []byte(secret),
		UploadDir: getenv("UPLOAD_DIR", "uploads"),
	}, secretSet
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DBDSN          string
	MediaDir       string
	PublicBaseURL  string
	JWTSecret      string
	LogFile        string
	AllowedOrigins string
}

func Load() Config {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	cfg := Config{
		Port:           getenv("PORT", "4000"),
		DBDSN:          getenv("DB_DSN", "stitchmart.db"),
		MediaDir:       getenv("MEDIA_DIR", "./media"),
		PublicBaseURL:  getenv("PUBLIC_BASE_URL", "http://localhost:4000"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		LogFile:        getenv("LOG_FILE", "./stitchmart.log"),
		AllowedOrigins: getenv("ALLOWED_ORIGINS", "*"),
	}
	if cfg.JWTSecret == "" {
		log.Fatal("[config] JWT_SECRET is required")
	}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s LOG_FILE=%s", cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.LogFile)
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

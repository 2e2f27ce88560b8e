package config

import (
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/Huiyue420/line-store-bot/internal/auth"
)

type Config struct {
	HTTPAddr          string
	DataDir           string
	ChannelSecret     string
	ChannelToken      string
	AdminPasswordHash string // hex sha256
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads configuration from the environment (and .env if present).
// Channel credentials and admin credential material are required: there
// is deliberately no built-in default password to fall back on.
func Load() (Config, error) {
	_ = godotenv.Load() // load .env if it exists

	cfg := Config{
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		DataDir:           getenv("DATA_DIR", "data"),
		ChannelSecret:     os.Getenv("LINE_CHANNEL_SECRET"),
		ChannelToken:      os.Getenv("LINE_CHANNEL_ACCESS_TOKEN"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
	}

	if cfg.ChannelSecret == "" || cfg.ChannelToken == "" {
		return Config{}, errors.New("LINE_CHANNEL_SECRET and LINE_CHANNEL_ACCESS_TOKEN are required")
	}
	if cfg.AdminPasswordHash == "" {
		pw := os.Getenv("ADMIN_PASSWORD")
		if pw == "" {
			return Config{}, errors.New("set ADMIN_PASSWORD_HASH or ADMIN_PASSWORD")
		}
		cfg.AdminPasswordHash = auth.HashPassword(pw)
	}

	log.Printf("[config] HTTP_ADDR=%s", cfg.HTTPAddr)
	log.Printf("[config] DATA_DIR=%s", cfg.DataDir)
	return cfg, nil
}

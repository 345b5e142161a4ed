package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr  string
	DBPath      string
	PublicDir   string
	PlatformURL string
	PlatformKey string
	PoeTokenB   string
	PoeTokenLat string
}

func LoadConfig() Config {
	// Local dev convenience; a missing .env is fine.
	godotenv.Load()

	cfg := Config{}

	flag.StringVar(&cfg.ListenAddr, "addr", defaultAddr(), "Listen address")
	flag.StringVar(&cfg.DBPath, "db", envOrDefault("BOTHOST_DB", "bothost.db"), "SQLite request log path (empty disables)")
	flag.StringVar(&cfg.PublicDir, "public", envOrDefault("BOTHOST_PUBLIC", "public"), "Static assets directory")
	flag.StringVar(&cfg.PlatformURL, "platform-url", envOrDefault("BOTHOST_PLATFORM_URL", ""), "Bot platform URL for delegate calls")
	flag.StringVar(&cfg.PlatformKey, "platform-key", envOrDefault("BOTHOST_PLATFORM_KEY", ""), "Bot platform access key")
	flag.Parse()

	cfg.PoeTokenB = os.Getenv("POE_TOKEN_B")
	cfg.PoeTokenLat = os.Getenv("POE_TOKEN_LAT")

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultAddr() string {
	if v := os.Getenv("BOTHOST_ADDR"); v != "" {
		return v
	}
	// Railway, Render, etc. set PORT
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return ":8080"
}

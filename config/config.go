package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	// Payment gateway
	GatewayBaseURL string
	GatewayTimeout time.Duration

	// allow | reject: what to do when an invoice would drive stock negative
	StockPolicy string

	LogLevel  string
	LogFormat string
}

// App holds the loaded configuration. Defaults apply until Load() runs.
var App = defaultConfig()

func defaultConfig() *Config {
	return &Config{
		Port:           "8080",
		GatewayBaseURL: "https://api.razorpay.com/v1",
		GatewayTimeout: 15 * time.Second,
		StockPolicy:    "allow",
		LogLevel:       "info",
		LogFormat:      "console",
	}
}

func Load() *Config {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	cfg := defaultConfig()
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DatabaseURL = getEnv("DATABASE_URL", "")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.GatewayBaseURL = getEnv("GATEWAY_BASE_URL", cfg.GatewayBaseURL)
	cfg.StockPolicy = getEnv("STOCK_POLICY", cfg.StockPolicy)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)

	if s := getEnv("GATEWAY_TIMEOUT_SECONDS", ""); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			cfg.GatewayTimeout = time.Duration(n) * time.Second
		}
	}

	App = cfg
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

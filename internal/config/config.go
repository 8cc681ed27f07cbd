package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName       string
	AppEnv        string
	AppPort       string
	DatabaseURL   string
	RedisURL      string
	InboxCacheTTL time.Duration
	SubmitRateMax int
	SubmitRateWin time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PRAXIS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Praxis API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("inbox.cache_ttl", "30s")
	v.SetDefault("submit.rate_max", 30)
	v.SetDefault("submit.rate_window", "1m")

	ttl, err := time.ParseDuration(v.GetString("inbox.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid inbox cache ttl: %w", err)
	}

	rateWindow, err := time.ParseDuration(v.GetString("submit.rate_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid submit rate window: %w", err)
	}

	cfg := Config{
		AppName:       v.GetString("app.name"),
		AppEnv:        v.GetString("app.env"),
		AppPort:       v.GetString("app.port"),
		DatabaseURL:   v.GetString("database.url"),
		RedisURL:      v.GetString("redis.url"),
		InboxCacheTTL: ttl,
		SubmitRateMax: v.GetInt("submit.rate_max"),
		SubmitRateWin: rateWindow,
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database url must be provided")
	}

	if cfg.SubmitRateMax <= 0 {
		cfg.SubmitRateMax = 30
	}

	return cfg, nil
}

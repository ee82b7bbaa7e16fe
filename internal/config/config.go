package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the assessment API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	RedisURL          string
	NATSURL           string
	JWTSecret         string
	ReferenceCacheTTL time.Duration
	DraftSessionTTL   time.Duration
	CreatedSubject    string
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
	v.SetEnvPrefix("ATIS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "ATIS Assessment API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("reference.cache_ttl", "10m")
	v.SetDefault("draft.session_ttl", "2h")
	v.SetDefault("nats.created_subject", "assessments.created")

	cacheTTL, err := time.ParseDuration(v.GetString("reference.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid reference cache ttl: %w", err)
	}

	sessionTTL, err := time.ParseDuration(v.GetString("draft.session_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid draft session ttl: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		NATSURL:           v.GetString("nats.url"),
		JWTSecret:         v.GetString("jwt.secret"),
		ReferenceCacheTTL: cacheTTL,
		DraftSessionTTL:   sessionTTL,
		CreatedSubject:    v.GetString("nats.created_subject"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}

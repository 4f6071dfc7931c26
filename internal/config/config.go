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
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	NATSUrl                string
	JWTSecret              string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	ReviewerCacheTTL       time.Duration
	RankingCacheTTL        time.Duration
	ProgramCutoff          time.Time
	AIProvider             string
	OpenAIAPIKey           string
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
	v.SetEnvPrefix("TUIMIAN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Tuimian API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("cloudinary.folder", "tuimian/evidence")
	v.SetDefault("reviewer.cache_ttl", "5m")
	v.SetDefault("ranking.cache_ttl", "1m")
	v.SetDefault("program.cutoff", "2024-08-31")
	v.SetDefault("ai.provider", "")

	reviewerTTL, err := time.ParseDuration(v.GetString("reviewer.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid reviewer cache ttl: %w", err)
	}

	rankingTTL, err := time.ParseDuration(v.GetString("ranking.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ranking cache ttl: %w", err)
	}

	// The cutoff covers the whole configured day in UTC.
	cutoffDay, err := time.Parse("2006-01-02", v.GetString("program.cutoff"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid program cutoff date: %w", err)
	}
	cutoff := cutoffDay.Add(24*time.Hour - time.Millisecond)

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSUrl:                v.GetString("nats.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		ReviewerCacheTTL:       reviewerTTL,
		RankingCacheTTL:        rankingTTL,
		ProgramCutoff:          cutoff,
		AIProvider:             strings.ToLower(v.GetString("ai.provider")),
		OpenAIAPIKey:           v.GetString("openai_api_key"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}

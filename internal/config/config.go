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
	AppName                  string
	AppEnv                   string
	AppPort                  string
	DatabaseURL              string
	RedisURL                 string
	NATSURL                  string
	NATSSubject              string
	JWTSecret                string
	CloudinaryCloudName      string
	CloudinaryAPIKey         string
	CloudinaryAPISecret      string
	CloudinaryUploadFolder   string
	EvaluatorURL             string
	EvaluatorMode            string
	EvaluatorCallbackURL     string
	EvaluatorDispatchTimeout time.Duration
	WebhookSecret            string
	MaxUploadMB              int
	QueueMaxConcurrency      int
	QueueMaxRetries          int
	QueueBaseDelay           time.Duration
	SweepInterval            time.Duration
	SweepProcessingMax       time.Duration
	LeaderboardCacheTTL      time.Duration
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
	v.SetEnvPrefix("HACKEVAL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "HackEval API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("nats.subject", "hackeval.submissions")
	v.SetDefault("cloudinary.folder", "hackeval/ppt")
	v.SetDefault("evaluator.url", "https://ppteval.example.com/api/submit")
	v.SetDefault("evaluator.mode", "callback")
	v.SetDefault("evaluator.dispatch_timeout", "30s")
	v.SetDefault("upload.max_mb", 25)
	v.SetDefault("queue.max_concurrency", 3)
	v.SetDefault("queue.max_retries", 5)
	v.SetDefault("queue.base_delay", "2s")
	v.SetDefault("sweep.interval", "60s")
	v.SetDefault("sweep.processing_max", "15m")
	v.SetDefault("leaderboard.cache_ttl", "30s")

	baseDelay, err := parseDuration(v, "queue.base_delay")
	if err != nil {
		return Config{}, err
	}
	sweepInterval, err := parseDuration(v, "sweep.interval")
	if err != nil {
		return Config{}, err
	}
	sweepProcessingMax, err := parseDuration(v, "sweep.processing_max")
	if err != nil {
		return Config{}, err
	}
	leaderboardTTL, err := parseDuration(v, "leaderboard.cache_ttl")
	if err != nil {
		return Config{}, err
	}
	dispatchTimeout, err := parseDuration(v, "evaluator.dispatch_timeout")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:                  v.GetString("app.name"),
		AppEnv:                   v.GetString("app.env"),
		AppPort:                  v.GetString("app.port"),
		DatabaseURL:              v.GetString("database.url"),
		RedisURL:                 v.GetString("redis.url"),
		NATSURL:                  v.GetString("nats.url"),
		NATSSubject:              v.GetString("nats.subject"),
		JWTSecret:                v.GetString("jwt.secret"),
		CloudinaryCloudName:      v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:         v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:      v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder:   v.GetString("cloudinary.folder"),
		EvaluatorURL:             v.GetString("evaluator.url"),
		EvaluatorMode:            strings.ToLower(v.GetString("evaluator.mode")),
		EvaluatorCallbackURL:     v.GetString("evaluator.callback_url"),
		EvaluatorDispatchTimeout: dispatchTimeout,
		WebhookSecret:            v.GetString("evaluator.webhook_secret"),
		MaxUploadMB:              v.GetInt("upload.max_mb"),
		QueueMaxConcurrency:      v.GetInt("queue.max_concurrency"),
		QueueMaxRetries:          v.GetInt("queue.max_retries"),
		QueueBaseDelay:           baseDelay,
		SweepInterval:            sweepInterval,
		SweepProcessingMax:       sweepProcessingMax,
		LeaderboardCacheTTL:      leaderboardTTL,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.WebhookSecret == "" && cfg.EvaluatorMode != "sync" {
		return Config{}, fmt.Errorf("webhook secret must be provided in callback mode")
	}

	if cfg.QueueMaxConcurrency <= 0 {
		cfg.QueueMaxConcurrency = 3
	}

	if cfg.QueueMaxRetries < 0 {
		cfg.QueueMaxRetries = 5
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return parsed, nil
}

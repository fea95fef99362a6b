package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// JWTConfig defines the issuer, audience and secret used to verify bearer tokens.
type JWTConfig struct {
	Issuer   string
	Audience string
	Secret   []byte
}

// StorageConfig points at the S3 compatible bucket holding attachments.
type StorageConfig struct {
	Bucket        string
	Region        string
	Endpoint      string
	Prefix        string
	PublicBaseURL string
}

// RedisConfig configures the rendered report cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                   string
	MongoURI               string
	MongoDatabase          string
	Timeout                time.Duration
	TemplateCollection     string
	InspectionCollection   string
	CustomerCollection     string
	AddressCollection      string
	InstallationCollection string
	Timezone               string
	Location               *time.Location
	JWT                    JWTConfig
	AllowedOrigins         []string
	Storage                StorageConfig
	MaxUploadBytes         int64
	Redis                  RedisConfig
	LogLevel               string
	Logger                 *zap.Logger
}

// Load reads environment variables and returns a fully populated Config.
func Load() (Config, error) {
	secret := strings.TrimSpace(os.Getenv("AUTH_JWT_SECRET"))
	if secret == "" {
		return Config{}, errors.New("AUTH_JWT_SECRET must be configured")
	}

	timezone := envOrDefault("TIMEZONE", "Europe/Copenhagen")
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return Config{}, fmt.Errorf("invalid TIMEZONE %q: %w", timezone, err)
	}

	maxUpload := int64(10 << 20)
	if raw := strings.TrimSpace(os.Getenv("MAX_UPLOAD_BYTES")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			return Config{}, fmt.Errorf("invalid MAX_UPLOAD_BYTES %q", raw)
		}
		maxUpload = parsed
	}

	redisDB := 0
	if raw := strings.TrimSpace(os.Getenv("REDIS_DB")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return Config{}, fmt.Errorf("invalid REDIS_DB %q", raw)
		}
		redisDB = parsed
	}

	level := envOrDefault("LOG_LEVEL", "info")
	logger, err := NewLogger(level)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Addr:                   envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:               envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:          envOrDefault("MONGO_DB", "elkontrol"),
		Timeout:                durationOrDefault("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		TemplateCollection:     envOrDefault("TEMPLATE_COLLECTION", "templates"),
		InspectionCollection:   envOrDefault("INSPECTION_COLLECTION", "inspections"),
		CustomerCollection:     envOrDefault("CUSTOMER_COLLECTION", "customers"),
		AddressCollection:      envOrDefault("ADDRESS_COLLECTION", "addresses"),
		InstallationCollection: envOrDefault("INSTALLATION_COLLECTION", "installations"),
		Timezone:               timezone,
		Location:               location,
		JWT: JWTConfig{
			Issuer:   envOrDefault("AUTH_JWT_ISSUER", "elkontrol-auth"),
			Audience: strings.TrimSpace(os.Getenv("AUTH_JWT_AUDIENCE")),
			Secret:   []byte(secret),
		},
		AllowedOrigins: parseList("API_ALLOWED_ORIGINS", []string{"*"}),
		Storage: StorageConfig{
			Bucket:        envOrDefault("STORAGE_BUCKET", "elkontrol-attachments"),
			Region:        envOrDefault("STORAGE_REGION", "eu-north-1"),
			Endpoint:      strings.TrimSpace(os.Getenv("STORAGE_ENDPOINT")),
			Prefix:        strings.TrimSpace(os.Getenv("STORAGE_PREFIX")),
			PublicBaseURL: strings.TrimSpace(os.Getenv("STORAGE_PUBLIC_BASE_URL")),
		},
		MaxUploadBytes: maxUpload,
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
			TTL:      durationOrDefault("REPORT_CACHE_TTL", 24*time.Hour),
		},
		LogLevel: level,
		Logger:   logger,
	}

	cfg.Logger.Info("loaded config",
		zap.String("addr", cfg.Addr),
		zap.String("mongoDatabase", cfg.MongoDatabase),
		zap.String("storageBucket", cfg.Storage.Bucket),
		zap.Bool("reportCache", cfg.Redis.Addr != ""),
	)
	return cfg, nil
}

// NewLogger builds the production JSON logger at the given level.
func NewLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(parsed)
	zcfg.EncoderConfig.TimeKey = "time"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zcfg.Build()
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}

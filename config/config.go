package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv          string        `mapstructure:"APP_ENV" validate:"required,oneof=development staging production test"`
	Port            string        `mapstructure:"PORT" validate:"required,numeric"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT" validate:"required"`

	LogLevel  string `mapstructure:"LOG_LEVEL" validate:"required,oneof=debug info warn error dpanic panic fatal"`
	LogFormat string `mapstructure:"LOG_FORMAT" validate:"required,oneof=json console"`

	DatabaseURL string `mapstructure:"DATABASE_URL" validate:"required"`
	AutoMigrate bool   `mapstructure:"AUTO_MIGRATE"`

	// Token signing
	JWTSecret string        `mapstructure:"JWT_SECRET" validate:"required,min=32"`
	JWTIssuer string        `mapstructure:"JWT_ISSUER" validate:"required"`
	JWTTTL    time.Duration `mapstructure:"JWT_TTL" validate:"required"`

	BcryptCost             int  `mapstructure:"BCRYPT_COST" validate:"gte=4,lte=31"`
	AllowAdminRegistration bool `mapstructure:"ALLOW_ADMIN_REGISTRATION"`

	CORSAllowedOrigins []string `mapstructure:"-"`

	// Blob storage for résumé files
	StorageDriver     string `mapstructure:"STORAGE_DRIVER" validate:"required,oneof=local s3"`
	UploadDir         string `mapstructure:"UPLOAD_DIR" validate:"required_if=StorageDriver local"`
	S3Bucket          string `mapstructure:"S3_BUCKET" validate:"required_if=StorageDriver s3"`
	S3Region          string `mapstructure:"S3_REGION"`
	S3Endpoint        string `mapstructure:"S3_ENDPOINT"`
	S3AccessKeyID     string `mapstructure:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `mapstructure:"S3_SECRET_ACCESS_KEY"`

	MaxUploadBytes       int64 `mapstructure:"MAX_UPLOAD_BYTES" validate:"gte=1024"`
	ResumeListLimit      int   `mapstructure:"RESUME_LIST_LIMIT" validate:"gte=1,lte=1000"`
	ApplicationListLimit int   `mapstructure:"APPLICATION_LIST_LIMIT" validate:"gte=1,lte=1000"`
	MaxPageSize          int   `mapstructure:"MAX_PAGE_SIZE" validate:"gte=1,lte=1000"`

	// Redis is optional; rate limiting falls back to in-memory counters.
	RedisURL      string `mapstructure:"REDIS_URL"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	RateLimitWindow    time.Duration `mapstructure:"RATE_LIMIT_WINDOW" validate:"required"`
	RateLimitLogin     int           `mapstructure:"RATE_LIMIT_LOGIN" validate:"gte=1"`
	RateLimitRegister  int           `mapstructure:"RATE_LIMIT_REGISTER" validate:"gte=1"`
	RateLimitUpload    int           `mapstructure:"RATE_LIMIT_UPLOAD" validate:"gte=1"`
	RateLimitFailClose bool          `mapstructure:"RATE_LIMIT_FAIL_CLOSED"`

	ClamAVAddress string        `mapstructure:"CLAMAV_ADDRESS"`
	ClamAVTimeout time.Duration `mapstructure:"CLAMAV_TIMEOUT"`

	AMQPURL      string `mapstructure:"AMQP_URL"`
	AMQPExchange string `mapstructure:"AMQP_EXCHANGE"`
}

var validate = validator.New()

var defaults = map[string]any{
	"APP_ENV":                  "development",
	"PORT":                     "8000",
	"SHUTDOWN_TIMEOUT":         "10s",
	"LOG_LEVEL":                "info",
	"LOG_FORMAT":               "json",
	"AUTO_MIGRATE":             true,
	"JWT_ISSUER":               "job-portal",
	"JWT_TTL":                  "15m",
	"BCRYPT_COST":              12,
	"ALLOW_ADMIN_REGISTRATION": false,
	"CORS_ALLOWED_ORIGINS":     "*",
	"STORAGE_DRIVER":           "local",
	"UPLOAD_DIR":               "/tmp/uploads",
	"S3_REGION":                "us-east-1",
	"MAX_UPLOAD_BYTES":         10 << 20,
	"RESUME_LIST_LIMIT":        100,
	"APPLICATION_LIST_LIMIT":   100,
	"MAX_PAGE_SIZE":            100,
	"RATE_LIMIT_WINDOW":        "1m",
	"RATE_LIMIT_LOGIN":         5,
	"RATE_LIMIT_REGISTER":      10,
	"RATE_LIMIT_UPLOAD":        10,
	"RATE_LIMIT_FAIL_CLOSED":   false,
	"CLAMAV_TIMEOUT":           "30s",
	"AMQP_EXCHANGE":            "job_portal.events",
}

// keys without a default still have to be bound so Unmarshal sees them
var required = []string{
	"DATABASE_URL",
	"JWT_SECRET",
	"S3_BUCKET",
	"S3_ENDPOINT",
	"S3_ACCESS_KEY_ID",
	"S3_SECRET_ACCESS_KEY",
	"REDIS_URL",
	"REDIS_PASSWORD",
	"CLAMAV_ADDRESS",
	"AMQP_URL",
}

// LoadConfig reads .env (if present), environment variables and an optional
// config.yaml, applies defaults and validates the result.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for _, key := range required {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}
	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

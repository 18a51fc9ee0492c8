package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Storage drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverFile     = "file"
	DriverRedis    = "redis"
)

// Config is the root application configuration
type Config struct {
	App       AppConfig       `yaml:"app"`
	HTTP      HTTPConfig      `yaml:"http"`
	Storage   StorageConfig   `yaml:"storage"`
	AI        AIConfig        `yaml:"ai"`
	Admin     AdminConfig     `yaml:"admin"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

type AppConfig struct {
	Env      string `yaml:"env"       env:"APP_ENV"   env-default:"development"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"             env:"HTTP_ADDR"             env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"HTTP_READ_TIMEOUT"     env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"HTTP_WRITE_TIMEOUT"    env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
	AllowedOrigins  []string      `yaml:"allowed_origins"  env:"HTTP_ALLOWED_ORIGINS"  env-default:"http://localhost:3000"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" env:"HTTP_MAX_UPLOAD_BYTES" env-default:"10485760"`
}

// StorageConfig selects where topics are persisted
type StorageConfig struct {
	Driver      string `yaml:"driver"       env:"STORAGE_DRIVER" env-default:"sqlite"`
	SQLitePath  string `yaml:"sqlite_path"  env:"SQLITE_PATH"    env-default:"data/vocabmaster.db"`
	PostgresDSN string `yaml:"postgres_dsn" env:"DATABASE_URL"`
	DataDir     string `yaml:"data_dir"     env:"DATA_DIR"       env-default:"data/topics"`
	RedisURL    string `yaml:"redis_url"    env:"REDIS_URL"      env-default:"redis://localhost:6379/0"`
}

// AIConfig configures the OpenAI-compatible enrichment endpoint (Groq by default)
type AIConfig struct {
	BaseURL        string        `yaml:"base_url"        env:"AI_BASE_URL"        env-default:"https://api.groq.com/openai/v1"`
	APIKey         string        `yaml:"api_key"         env:"GROQ_API_KEY"`
	Model          string        `yaml:"model"           env:"AI_MODEL"           env-default:"llama-3.3-70b-versatile"`
	Temperature    float64       `yaml:"temperature"     env:"AI_TEMPERATURE"     env-default:"0.7"`
	Timeout        time.Duration `yaml:"timeout"         env:"AI_TIMEOUT"         env-default:"60s"`
	MaxAttempts    int           `yaml:"max_attempts"    env:"AI_MAX_ATTEMPTS"    env-default:"4"`
	InitialBackoff time.Duration `yaml:"initial_backoff" env:"AI_INITIAL_BACKOFF" env-default:"1s"`
	MaxBackoff     time.Duration `yaml:"max_backoff"     env:"AI_MAX_BACKOFF"     env-default:"10s"`
	CacheRedisURL  string        `yaml:"cache_redis_url" env:"AI_CACHE_REDIS_URL"`
	CacheTTL       time.Duration `yaml:"cache_ttl"       env:"AI_CACHE_TTL"       env-default:"720h"`
}

// AdminConfig guards topic management. Disabled opens the gate for everyone.
type AdminConfig struct {
	Username     string        `yaml:"username"      env:"ADMIN_USERNAME"      env-default:"admin"`
	PasswordHash string        `yaml:"password_hash" env:"ADMIN_PASSWORD_HASH"`
	JWTSecret    string        `yaml:"jwt_secret"    env:"ADMIN_JWT_SECRET"`
	TokenTTL     time.Duration `yaml:"token_ttl"     env:"ADMIN_TOKEN_TTL"     env-default:"24h"`
	Disabled     bool          `yaml:"disabled"      env:"ADMIN_AUTH_DISABLED" env-default:"false"`
}

type TelegramConfig struct {
	Token        string `yaml:"token"          env:"TELEGRAM_BOT_TOKEN"`
	AdminChatIDs string `yaml:"admin_chat_ids" env:"TELEGRAM_ADMIN_IDS"`
}

// SchedulerConfig controls the enrichment cache warmer
type SchedulerConfig struct {
	Enabled   bool          `yaml:"enabled"    env:"ENABLE_SCHEDULER"    env-default:"true"`
	Interval  time.Duration `yaml:"interval"   env:"SCHEDULER_INTERVAL"  env-default:"30m"`
	BatchSize int           `yaml:"batch_size" env:"SCHEDULER_BATCH"     env-default:"20"`
}

// Load reads .env (if present), then CONFIG_PATH yaml (if set), then the environment.
// Environment values win over yaml; env-default tags fill the rest.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.Storage.PostgresDSN == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	case DriverFile:
		if c.Storage.DataDir == "" {
			errs = append(errs, errors.New("DATA_DIR is required for the file driver"))
		}
	case DriverRedis:
		if c.Storage.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required for the redis driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver))
	}

	if c.AI.MaxAttempts < 1 {
		errs = append(errs, errors.New("AI_MAX_ATTEMPTS must be at least 1"))
	}
	if !c.Admin.Disabled && c.Admin.PasswordHash != "" && c.Admin.JWTSecret == "" {
		errs = append(errs, errors.New("ADMIN_JWT_SECRET is required when ADMIN_PASSWORD_HASH is set"))
	}
	if c.Scheduler.Enabled && c.Scheduler.Interval <= 0 {
		errs = append(errs, errors.New("SCHEDULER_INTERVAL must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.App.Env)
	return env == "prod" || env == "production"
}

// AdminIDs parses the comma-separated Telegram admin ids, skipping invalid entries
func (c TelegramConfig) AdminIDs() map[int64]bool {
	ids := make(map[int64]bool)
	for _, part := range strings.Split(c.AdminChatIDs, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.ParseInt(part, 10, 64); err == nil {
			ids[id] = true
		}
	}
	return ids
}

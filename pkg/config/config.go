package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "FRIDGE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Data      DataConfig
	Business  BusinessConfig
	Scheduler SchedulerConfig
	OpenAI    OpenAIConfig
	CORS      CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if _, _, err := cfg.Scheduler.DailyAtClock(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FRIDGE_APP_ENV" default:"dev"`
	Port         string `envconfig:"FRIDGE_APP_PORT" default:"3001"`
	LogLevel     string `envconfig:"FRIDGE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FRIDGE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type HTTPConfig struct {
	ReadTimeout     time.Duration `envconfig:"FRIDGE_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"FRIDGE_HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"FRIDGE_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
	MaxUploadMB     int           `envconfig:"FRIDGE_HTTP_MAX_UPLOAD_MB" default:"10"`
}

type DataConfig struct {
	ItemsFile         string `envconfig:"FRIDGE_DATA_ITEMS_FILE" default:"data/items.data.json"`
	NotificationsFile string `envconfig:"FRIDGE_DATA_NOTIFICATIONS_FILE" default:"data/notifications.data.json"`
}

type BusinessConfig struct {
	ExpiryWarningDays int `envconfig:"FRIDGE_EXPIRY_WARNING_DAYS" default:"3"`
	MaxExpiryPeriod   int `envconfig:"FRIDGE_MAX_EXPIRY_PERIOD" default:"365"`
}

type SchedulerConfig struct {
	// DailyAt is the local wall-clock time of the daily reconciliation run.
	DailyAt      string        `envconfig:"FRIDGE_SCHEDULER_DAILY_AT" default:"09:00"`
	CheckTimeout time.Duration `envconfig:"FRIDGE_SCHEDULER_CHECK_TIMEOUT" default:"1m"`
}

// DailyAtClock parses DailyAt into hour and minute components.
func (s SchedulerConfig) DailyAtClock() (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(s.DailyAt), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("scheduler daily time %q must be HH:MM", s.DailyAt)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("scheduler daily time %q has invalid hour", s.DailyAt)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("scheduler daily time %q has invalid minute", s.DailyAt)
	}
	return hour, minute, nil
}

type OpenAIConfig struct {
	APIKey         string        `envconfig:"FRIDGE_OPENAI_API_KEY"`
	Model          string        `envconfig:"FRIDGE_OPENAI_MODEL" default:"gpt-4o-mini"`
	BaseURL        string        `envconfig:"FRIDGE_OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	RequestTimeout time.Duration `envconfig:"FRIDGE_OPENAI_REQUEST_TIMEOUT" default:"45s"`
}

// Configured reports whether the vision feature can be used at all.
func (o OpenAIConfig) Configured() bool {
	return strings.TrimSpace(o.APIKey) != ""
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"FRIDGE_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	// Embedded zone database so PLANNER_TIMEZONE resolves in minimal images.
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Planner      PlannerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	ScheduleTTLMins int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines bearer token parameters.
type AuthConfig struct {
	Enabled               bool
	JWTSecret             string
	AccessTokenTTLMinutes int
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	WebhookURL         string
	ViolationThreshold int
}

// PlannerConfig holds scheduling defaults.
type PlannerConfig struct {
	Timezone     string
	RolePriority []string
	PresetFile   string
}

// DefaultRolePriority is used when neither PLANNER_ROLE_PRIORITY nor the
// preset names an order.
var DefaultRolePriority = []string{"Product Guide", "Lead", "Manager", "Associate"}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	tz := getEnv("PLANNER_TIMEZONE", "UTC")
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("invalid PLANNER_TIMEZONE: %w", err)
	}

	authEnabled := getEnvAsBool("AUTH_ENABLED", false)
	secret := os.Getenv("AUTH_JWT_SECRET")
	if authEnabled && secret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET is required when AUTH_ENABLED is set")
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "break-planner"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:            os.Getenv("REDIS_ADDR"),
			Password:        os.Getenv("REDIS_PASSWORD"),
			DB:              redisDB,
			ScheduleTTLMins: getEnvAsInt("REDIS_SCHEDULE_TTL_MINUTES", 24*60),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			Enabled:               authEnabled,
			JWTSecret:             secret,
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 12*60),
		},
		Notification: NotificationConfig{
			WebhookURL:         getEnv("NOTIFY_WEBHOOK_URL", ""),
			ViolationThreshold: getEnvAsInt("NOTIFY_VIOLATION_THRESHOLD", 1),
		},
		Planner: PlannerConfig{
			Timezone:     tz,
			RolePriority: getEnvAsList("PLANNER_ROLE_PRIORITY", nil),
			PresetFile:   os.Getenv("PLANNER_PRESET_FILE"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// ScheduleTTL returns how long cached schedules live.
func (r RedisConfig) ScheduleTTL() time.Duration {
	if r.ScheduleTTLMins <= 0 {
		return 0
	}
	return time.Duration(r.ScheduleTTLMins) * time.Minute
}

// Location returns the planner time zone. Load has already validated it.
func (p PlannerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ResolveRolePriority picks PLANNER_ROLE_PRIORITY when set, then the preset
// order, then DefaultRolePriority.
func (p PlannerConfig) ResolveRolePriority(preset []string) []string {
	switch {
	case len(p.RolePriority) > 0:
		return p.RolePriority
	case len(preset) > 0:
		return preset
	default:
		return append([]string(nil), DefaultRolePriority...)
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

// getEnvAsList splits a comma separated value, dropping blank entries.
func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}

package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"statusline/pkg/domain"
)

// Server captures process level configuration.
type Server struct {
	Addr             string
	DatabaseURL      string
	DBMaxOpenConns   int
	TransitionPolicy domain.TransitionPolicy
	LogLevel         slog.Level
	LogFormat        string
	ShutdownTimeout  time.Duration
	Redis            RedisConfig
	Kafka            KafkaConfig
}

// RedisConfig configures the activity log backend. An empty URL keeps the
// activity log in memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// ActivityMaxLen caps the events kept per project.
	ActivityMaxLen int64
}

// KafkaConfig configures activity fan-out. No brokers disables it.
type KafkaConfig struct {
	Brokers       []string
	ActivityTopic string
	ClientID      string
}

// FromEnv builds a Server config from environment variables so main stays
// lean. A .env file in the working directory is loaded first when present;
// variables already set in the environment win.
func FromEnv() (Server, error) {
	_ = godotenv.Load()
	return fromLookup(os.Getenv)
}

func fromLookup(getenv func(string) string) (Server, error) {
	env := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	var problems []string
	intVar := func(key string, fallback int) int {
		raw := env(key, "")
		if raw == "" {
			return fallback
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			problems = append(problems, key+" must be a non-negative integer")
			return fallback
		}
		return n
	}
	durationVar := func(key string, fallback time.Duration) time.Duration {
		raw := env(key, "")
		if raw == "" {
			return fallback
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			problems = append(problems, key+" must be a positive duration")
			return fallback
		}
		return d
	}

	policy, err := domain.ParseTransitionPolicy(env("TRANSITION_POLICY", ""))
	if err != nil {
		problems = append(problems, "TRANSITION_POLICY must be strict or permissive")
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(env("LOG_LEVEL", "info"))); err != nil {
		problems = append(problems, "LOG_LEVEL must be debug, info, warn or error")
	}

	format := strings.ToLower(env("LOG_FORMAT", "json"))
	if format != "json" && format != "text" {
		problems = append(problems, "LOG_FORMAT must be json or text")
	}

	cfg := Server{
		Addr:             env("STATUSLINE_ADDR", ":8080"),
		DatabaseURL:      env("DATABASE_URL", ""),
		DBMaxOpenConns:   intVar("DB_MAX_OPEN_CONNS", 25),
		TransitionPolicy: policy,
		LogLevel:         level,
		LogFormat:        format,
		ShutdownTimeout:  durationVar("SHUTDOWN_TIMEOUT", 10*time.Second),
		Redis: RedisConfig{
			URL:            env("REDIS_URL", ""),
			PoolSize:       intVar("REDIS_POOL_SIZE", 10),
			MinIdleConns:   intVar("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:    durationVar("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:    durationVar("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:   durationVar("REDIS_WRITE_TIMEOUT", 3*time.Second),
			ActivityMaxLen: int64(intVar("ACTIVITY_MAX_LEN", 1000)),
		},
		Kafka: KafkaConfig{
			Brokers:       splitList(env("KAFKA_BROKERS", "")),
			ActivityTopic: env("KAFKA_ACTIVITY_TOPIC", "statusline.activity"),
			ClientID:      env("KAFKA_CLIENT_ID", "statusline"),
		},
	}

	if len(problems) > 0 {
		return Server{}, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppURL                      string
	DatabaseDSN                 string
	DatabaseMaxOpenConns        int
	PreferencesPath             string
	RateLimit                   int
	RedisAddr                   string
	RedisReminderChannel        string
	ReminderPollIntervalSeconds int
	ReminderLeadMinutes         int
	ShutdownTimeoutSeconds      int
}

func Load() Config {
	cfg, err := load()
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

func load() (Config, error) {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")
	redisHost := getEnv("REDIS_HOST", "")
	redisPort := getEnv("REDIS_PORT", "6379")

	var errs []error
	cfg := Config{
		AppURL:                      fmt.Sprintf("%s:%s", appHost, appPort),
		DatabaseDSN:                 getEnv("DATABASE_DSN", "tasks.db"),
		DatabaseMaxOpenConns:        getEnvAsInt("DATABASE_MAX_OPEN_CONNS", 4, &errs),
		PreferencesPath:             getEnv("PREFERENCES_PATH", "preferences.json"),
		RateLimit:                   getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120, &errs),
		RedisReminderChannel:        getEnv("REDIS_REMINDER_CHANNEL", "task_reminders"),
		ReminderPollIntervalSeconds: getEnvAsInt("REMINDER_POLL_INTERVAL_SECONDS", 60, &errs),
		ReminderLeadMinutes:         getEnvAsInt("REMINDER_LEAD_MINUTES", 30, &errs),
		ShutdownTimeoutSeconds:      getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20, &errs),
	}
	if redisHost != "" {
		cfg.RedisAddr = fmt.Sprintf("%s:%s", redisHost, redisPort)
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.DatabaseDSN == "" {
		return errors.New("DATABASE_DSN must not be empty")
	}
	if cfg.DatabaseMaxOpenConns <= 0 {
		return errors.New("DATABASE_MAX_OPEN_CONNS must be greater than 0")
	}
	if cfg.PreferencesPath == "" {
		return errors.New("PREFERENCES_PATH must not be empty")
	}
	if cfg.RateLimit <= 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.ReminderPollIntervalSeconds <= 0 {
		return errors.New("REMINDER_POLL_INTERVAL_SECONDS must be greater than 0")
	}
	if cfg.ReminderLeadMinutes <= 0 {
		return errors.New("REMINDER_LEAD_MINUTES must be greater than 0")
	}
	if cfg.ShutdownTimeoutSeconds <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0")
	}
	return nil
}

func (c Config) PollInterval() time.Duration {
	return time.Duration(c.ReminderPollIntervalSeconds) * time.Second
}

func (c Config) ReminderLead() time.Duration {
	return time.Duration(c.ReminderLeadMinutes) * time.Minute
}

func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int, errs *[]error) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("invalid integer value for %s", key))
			return defaultVal
		}
		return i
	}
	return defaultVal
}

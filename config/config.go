package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Email     EmailConfig     `mapstructure:"email"`
	Checklist ChecklistConfig `mapstructure:"checklist"`
	Reminder  ReminderConfig  `mapstructure:"reminder"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port    string `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url"`
}

// DatabaseConfig MySQL connection settings
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Charset  string `mapstructure:"charset"`
}

// JWTConfig token signing settings
type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	ExpireHours int           `mapstructure:"expire_hours"`
	ExpireTime  time.Duration `mapstructure:"-"`
}

// EmailConfig SMTP settings
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// ChecklistConfig checklist seeding policy.
// ReseedWhenEmpty re-applies the event type template whenever an event has no
// items left; by default a checklist is seeded at most once per event.
type ChecklistConfig struct {
	ReseedWhenEmpty bool `mapstructure:"reseed_when_empty"`
}

// ReminderConfig daily reminder job
type ReminderConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// RateLimitConfig sign-in throttling
type RateLimitConfig struct {
	SignInAttempts int `mapstructure:"sign_in_attempts"`
	WindowSeconds  int `mapstructure:"window_seconds"`
}

// Window returns the rate limit window as a duration.
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

// LogConfig logging settings
type LogConfig struct {
	Level string `mapstructure:"level"`
}

var (
	// GlobalConfig the loaded configuration
	GlobalConfig *Config
)

// LoadConfig loads configuration.
// Precedence: environment (UTSAV_*) > external config file > embedded defaults.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("read embedded config: %w", err)
	}
	slog.Debug("loaded embedded default config")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			slog.Warn("could not read config file", "path", configPath, "error", err)
		} else {
			slog.Info("merged config file", "path", configPath)
		}
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/utsav")
		externalViper.AddConfigPath("$HOME/.utsav")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				slog.Warn("merge external config failed", "error", err)
			} else {
				slog.Info("merged config file", "path", externalViper.ConfigFileUsed())
			}
		}
	}

	v.SetEnvPrefix("UTSAV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.JWT.ExpireHours <= 0 {
		cfg.JWT.ExpireHours = 24
	}
	cfg.JWT.ExpireTime = time.Duration(cfg.JWT.ExpireHours) * time.Hour

	if cfg.RateLimit.SignInAttempts <= 0 {
		cfg.RateLimit.SignInAttempts = 10
	}
	if cfg.RateLimit.WindowSeconds <= 0 {
		cfg.RateLimit.WindowSeconds = 60
	}

	GlobalConfig = &cfg

	return &cfg, nil
}

// GetConfig returns the global configuration
func GetConfig() *Config {
	if GlobalConfig == nil {
		panic("config not loaded, call LoadConfig first")
	}
	return GlobalConfig
}

// SafeErrorMessage hides internal error details from clients in release mode.
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && GlobalConfig.Server.Mode == "release" {
		return fallback
	}
	return err.Error()
}

// PrintConfig logs the active configuration without secrets
func PrintConfig() {
	if GlobalConfig == nil {
		return
	}
	slog.Info("active config",
		"port", GlobalConfig.Server.Port,
		"mode", GlobalConfig.Server.Mode,
		"database", fmt.Sprintf("%s@%s:%s/%s",
			GlobalConfig.Database.Username,
			GlobalConfig.Database.Host,
			GlobalConfig.Database.Port,
			GlobalConfig.Database.DBName),
		"email", GlobalConfig.Email.Enabled,
		"reminder", GlobalConfig.Reminder.Enabled,
		"reseed_when_empty", GlobalConfig.Checklist.ReseedWhenEmpty,
	)
}

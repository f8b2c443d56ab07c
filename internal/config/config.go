package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database      DatabaseConfig      `mapstructure:"database" validate:"required"`
	Scheduler     SchedulerConfig     `mapstructure:"scheduler"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Log           LogConfig           `mapstructure:"log"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host" validate:"required,hostname|ip"`
	Port            int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	User            string `mapstructure:"user" validate:"required"`
	Password        string `mapstructure:"password"`
	Name            string `mapstructure:"name" validate:"required"`
	TLS             bool   `mapstructure:"tls"`
	MaxOpenConns    int    `mapstructure:"max_open_conns" validate:"min=0"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime" validate:"min=0"` // seconds
}

type SchedulerConfig struct {
	AnchorWeekday  string `mapstructure:"anchor_weekday" validate:"weekday"`
	MaxSessionSize int    `mapstructure:"max_session_size" validate:"min=1,max=100"`
}

type NotificationsConfig struct {
	WebhookURL   string        `mapstructure:"webhook_url" validate:"omitempty,url"`
	WebhookToken string        `mapstructure:"webhook_token"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// AnchorDay resolves the configured weekday name. Load has already validated
// the name, so unknown values only occur for hand-built configs.
func (c SchedulerConfig) AnchorDay() (time.Weekday, error) {
	day, ok := weekdays[strings.ToLower(c.AnchorWeekday)]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", c.AnchorWeekday)
	}
	return day, nil
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/lms")
	}

	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "lms")
	v.SetDefault("database.name", "lms")
	v.SetDefault("scheduler.anchor_weekday", "saturday")
	v.SetDefault("scheduler.max_session_size", 15)
	v.SetDefault("notifications.timeout", 10*time.Second)
	v.SetDefault("log.level", "info")

	// Bind secrets to environment variables only (not from config file)
	if err := v.BindEnv("database.password", "LMS_DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind LMS_DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("notifications.webhook_token", "LMS_WEBHOOK_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind LMS_WEBHOOK_TOKEN environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

const VERSION = "1.4"

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	SMTP        SMTPConfig
	Twilio      TwilioConfig
	Storage     StorageConfig
	Scheduler   SchedulerConfig
	Dispatch    DispatchConfig
	Environment string
	LogLevel    string
	Version     string
}

type ServerConfig struct {
	Port int
	Host string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// ConnectionString returns the postgres DSN for lib/pq
func (c DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string // E.164 number used for SMS
	CallerID   string // E.164 number presented on voice calls
}

type StorageConfig struct {
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string // optional, for S3-compatible stores
}

type SchedulerConfig struct {
	// Token expected in the X-Scheduler-Token header of the sweep
	// trigger. The sweep endpoint is meant for a time-based trigger,
	// not a human session.
	Token string
}

type DispatchConfig struct {
	WindowSize      int
	SweepWindowSize int
	WindowPause     time.Duration
}

// LoadOptions contains options for loading configuration
type LoadOptions struct {
	EnvFile string // Optional environment file to load (e.g., ".env", ".env.test")
}

// Load loads the configuration with default options
func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{EnvFile: ".env"})
}

// LoadWithOptions loads the configuration with the specified options
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "schoolcast")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SMTP_HOST", "localhost")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_FROM_EMAIL", "noreply@schoolcast.local")
	v.SetDefault("SMTP_FROM_NAME", "Schoolcast")
	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("DISPATCH_WINDOW_SIZE", 10)
	v.SetDefault("DISPATCH_SWEEP_WINDOW_SIZE", 50)
	v.SetDefault("DISPATCH_WINDOW_PAUSE_MS", 1000)
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")

	// Load the env file when present, but don't require it
	if opts.EnvFile != "" {
		if _, err := os.Stat(opts.EnvFile); err == nil {
			v.SetConfigFile(opts.EnvFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read env file %s: %w", opts.EnvFile, err)
			}
		}
	}

	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetInt("SERVER_PORT"),
			Host: v.GetString("SERVER_HOST"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		SMTP: SMTPConfig{
			Host:      v.GetString("SMTP_HOST"),
			Port:      v.GetInt("SMTP_PORT"),
			Username:  v.GetString("SMTP_USERNAME"),
			Password:  v.GetString("SMTP_PASSWORD"),
			FromEmail: v.GetString("SMTP_FROM_EMAIL"),
			FromName:  v.GetString("SMTP_FROM_NAME"),
		},
		Twilio: TwilioConfig{
			AccountSID: v.GetString("TWILIO_ACCOUNT_SID"),
			AuthToken:  v.GetString("TWILIO_AUTH_TOKEN"),
			FromNumber: v.GetString("TWILIO_FROM_NUMBER"),
			CallerID:   v.GetString("TWILIO_CALLER_ID"),
		},
		Storage: StorageConfig{
			Bucket:    v.GetString("STORAGE_BUCKET"),
			Region:    v.GetString("STORAGE_REGION"),
			AccessKey: v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: v.GetString("STORAGE_SECRET_KEY"),
			Endpoint:  v.GetString("STORAGE_ENDPOINT"),
		},
		Scheduler: SchedulerConfig{
			Token: v.GetString("SCHEDULER_TOKEN"),
		},
		Dispatch: DispatchConfig{
			WindowSize:      v.GetInt("DISPATCH_WINDOW_SIZE"),
			SweepWindowSize: v.GetInt("DISPATCH_SWEEP_WINDOW_SIZE"),
			WindowPause:     time.Duration(v.GetInt("DISPATCH_WINDOW_PAUSE_MS")) * time.Millisecond,
		},
		Environment: v.GetString("ENVIRONMENT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Version:     VERSION,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the loaded configuration for values that would only
// fail later at request time.
func (c *Config) Validate() error {
	if c.Scheduler.Token == "" {
		return fmt.Errorf("SCHEDULER_TOKEN is required")
	}
	if c.Dispatch.WindowSize <= 0 {
		return fmt.Errorf("DISPATCH_WINDOW_SIZE must be positive")
	}
	if c.Dispatch.SweepWindowSize <= 0 {
		return fmt.Errorf("DISPATCH_SWEEP_WINDOW_SIZE must be positive")
	}
	if c.Dispatch.WindowPause < 0 {
		return fmt.Errorf("DISPATCH_WINDOW_PAUSE_MS cannot be negative")
	}
	return nil
}

// IsDevelopment returns true when running in the development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true when running in the production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

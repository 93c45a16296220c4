package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// MinSigningKeyLength is the minimal length of the HS256 signing key in bytes.
const MinSigningKeyLength = 32

type (
	// Config represents an application configuration.
	Config struct {
		// The data source name (DSN) for connecting to the database.
		DSN string `yaml:"dsn" env:"DATABASE_URI"`
		// Subconfigs.
		HTTPServer HTTPServer `yaml:"http_server"`
		JWT        JWT        `yaml:"jwt"`
		Logger     Logger     `yaml:"logger"`
		Kafka      Kafka      `yaml:"kafka"`
		RateLimit  RateLimit  `yaml:"rate_limit"`
		// Cost of the password to hash. Must be in bcrypt bounds.
		PasswordHashCost int `yaml:"password_hash_cost" env:"PASSWORD_HASH_COST" env-default:"12"`
	}
	// Config for HTTP server.
	HTTPServer struct {
		// The server startup address.
		Address string `yaml:"run_address" env:"RUN_ADDRESS" env-default:"127.0.0.1:8080"`
		// Read header timeout.
		Timeout time.Duration `yaml:"timeout" env-default:"5s"`
		// Idle timeout.
		IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
		// Shutdown timeout.
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"30s"`
	}
	// Config for application's logger.
	Logger struct {
		// Path to store log files. Stdout if empty.
		Path string `yaml:"path" env:"LOG_PATH"`
		// Application logging level.
		Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
		// Log files details.
		MaxSizeMB  int `yaml:"max_size_mb" env-default:"100"`
		MaxBackups int `yaml:"max_backups" env-default:"3"`
		MaxAgeDays int `yaml:"max_age_days" env-default:"28"`
	}
	// Config for JWT.
	JWT struct {
		// JWT signing key.
		SigningKey string `yaml:"signing_key" env:"JWT_SIGNING_KEY"`
		// JWT expiration.
		Expiration time.Duration `yaml:"expiration" env:"JWT_EXPIRATION" env-default:"1h"`
	}
	// Config for order lifecycle events. Publishing is off without brokers.
	Kafka struct {
		Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
		Topic   string   `yaml:"topic" env:"KAFKA_ORDER_TOPIC" env-default:"orders"`
	}
	// Config for the authentication endpoints throttling.
	RateLimit struct {
		// Interval between two allowed requests of the same client.
		Interval time.Duration `yaml:"interval" env:"AUTH_RATE_INTERVAL" env-default:"1s"`
		// Burst of requests allowed at once.
		Burst int `yaml:"burst" env:"AUTH_RATE_BURST" env-default:"5"`
	}
)

// Validate checks the values that can not be defaulted.
func (c *Config) Validate() error {
	var err error

	if len(c.JWT.SigningKey) < MinSigningKeyLength {
		err = errors.Join(err, fmt.Errorf(
			"jwt signing key must be at least %d bytes", MinSigningKeyLength))
	}
	if c.PasswordHashCost < bcrypt.MinCost || c.PasswordHashCost > bcrypt.MaxCost {
		err = errors.Join(err, fmt.Errorf("password hash cost must be in [%d, %d]",
			bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.RateLimit.Burst < 1 {
		err = errors.Join(err, errors.New("rate limit burst must be positive"))
	}

	return err
}

// MustLoad returns an application configuration which is populated
// from the given configuration file, environment variables and flags.
func MustLoad() *Config {
	// Configuration yaml file path.
	configPath := flag.String("config", "./config/local.yml", "path to the config file")
	address := flag.String("a", "", "server startup address")
	dsn := flag.String("d", "", "server data source name")
	flag.Parse()

	// Variables from .env file do not override the real environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("failed to load .env file: %v", err)
	}

	var cfg Config

	// Load from YAML cfg file if it exists, otherwise from environment only.
	if _, err := os.Stat(*configPath); err == nil {
		if err = cleanenv.ReadConfig(*configPath, &cfg); err != nil {
			log.Fatalf("failed to read config file %s: %v", *configPath, err)
		}
	} else if err = cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("failed to read environment variables: %v", err)
	}

	// Flags take precedence.
	if *address != "" {
		cfg.HTTPServer.Address = *address
	}
	if *dsn != "" {
		cfg.DSN = *dsn
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	return &cfg
}

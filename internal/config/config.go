package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Notify    NotifyConfig    `yaml:"notify"`
	Leasing   LeasingConfig   `yaml:"leasing"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DBConfig selects the store. Path is used by sqlite, DSN by postgres.
type DBConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"`
}

// NotifyConfig configures event delivery. Empty broker settings disable that sink.
type NotifyConfig struct {
	BufferSize int          `yaml:"buffer_size"`
	RabbitMQ   RabbitConfig `yaml:"rabbitmq"`
	Redis      RedisConfig  `yaml:"redis"`
}

type RabbitConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

type RedisConfig struct {
	Addr   string `yaml:"addr"`
	Prefix string `yaml:"prefix"`
}

type LeasingConfig struct {
	// InitialStatus is ACTIVE or PENDING.
	InitialStatus string `yaml:"initial_status"`
	// ExpirySweepInterval of 0 disables the background expiry sweep.
	ExpirySweepInterval time.Duration `yaml:"expiry_sweep_interval"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Driver: "sqlite",
			Path:   "spacelease.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Notify: NotifyConfig{
			BufferSize: 256,
			RabbitMQ:   RabbitConfig{Exchange: "leasing.events"},
			Redis:      RedisConfig{Prefix: "spacelease"},
		},
		Leasing: LeasingConfig{
			InitialStatus:       "ACTIVE",
			ExpirySweepInterval: time.Hour,
		},
	}
}

// Load builds the configuration from defaults, an optional .env file, an
// optional YAML file named by LEASING_CONFIG_PATH, and LEASING_* variables,
// each layer overriding the previous one. A missing default .env is ignored;
// a missing explicit envPath is an error.
func Load(envPath ...string) (Config, error) {
	if len(envPath) > 0 {
		if err := godotenv.Load(envPath...); err != nil {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv("LEASING_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Host, "LEASING_SERVER_HOST")
	if err := setInt(&cfg.Server.Port, "LEASING_SERVER_PORT"); err != nil {
		return err
	}
	setString(&cfg.DB.Driver, "LEASING_DB_DRIVER")
	setString(&cfg.DB.Path, "LEASING_DB_PATH")
	setString(&cfg.DB.DSN, "LEASING_DB_DSN")
	setString(&cfg.Log.Level, "LEASING_LOG_LEVEL")
	setString(&cfg.Log.Format, "LEASING_LOG_FORMAT")
	setString(&cfg.Transport.Mode, "LEASING_TRANSPORT_MODE")
	if err := setInt(&cfg.Notify.BufferSize, "LEASING_NOTIFY_BUFFER_SIZE"); err != nil {
		return err
	}
	setString(&cfg.Notify.RabbitMQ.URL, "LEASING_RABBITMQ_URL")
	setString(&cfg.Notify.RabbitMQ.Exchange, "LEASING_RABBITMQ_EXCHANGE")
	setString(&cfg.Notify.Redis.Addr, "LEASING_REDIS_ADDR")
	setString(&cfg.Notify.Redis.Prefix, "LEASING_REDIS_PREFIX")
	setString(&cfg.Leasing.InitialStatus, "LEASING_INITIAL_STATUS")
	if raw := os.Getenv("LEASING_EXPIRY_SWEEP_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid LEASING_EXPIRY_SWEEP_INTERVAL: %w", err)
		}
		cfg.Leasing.ExpirySweepInterval = d
	}
	return nil
}

// Validate rejects unknown enum values and inconsistent settings.
func (c Config) Validate() error {
	switch c.DB.Driver {
	case "sqlite":
		if c.DB.Path == "" {
			return errors.New("db.path is required for sqlite")
		}
	case "postgres":
		if c.DB.DSN == "" {
			return errors.New("db.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("unknown db.driver %q", c.DB.Driver)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json", "color":
	default:
		return fmt.Errorf("unknown log.format %q", c.Log.Format)
	}
	switch c.Transport.Mode {
	case "http", "stdio":
	default:
		return fmt.Errorf("unknown transport.mode %q", c.Transport.Mode)
	}
	switch strings.ToUpper(c.Leasing.InitialStatus) {
	case "ACTIVE", "PENDING":
	default:
		return fmt.Errorf("unknown leasing.initial_status %q", c.Leasing.InitialStatus)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Leasing.ExpirySweepInterval < 0 {
		return errors.New("leasing.expiry_sweep_interval must not be negative")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = v
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

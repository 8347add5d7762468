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

// Environment variable names understood by Load.
const (
	EnvConfigFile        = "REMINDERS_CONFIG_FILE"
	EnvHTTPPort          = "REMINDERS_HTTP_PORT"
	EnvCompressorURL     = "REMINDERS_COMPRESSOR_URL"
	EnvCompressorAPIKey  = "REMINDERS_COMPRESSOR_API_KEY"
	EnvCompressorTimeout = "REMINDERS_COMPRESSOR_TIMEOUT"
	EnvSweepSchedule     = "REMINDERS_SWEEP_SCHEDULE"
	EnvLogLevel          = "REMINDERS_LOG_LEVEL"
	EnvLogFormat         = "REMINDERS_LOG_FORMAT"
)

// Config captures configuration values for the reminder service.
type Config struct {
	HTTPPort          int           `yaml:"http_port"`
	CompressorURL     string        `yaml:"compressor_url"`
	CompressorAPIKey  string        `yaml:"compressor_api_key"`
	CompressorTimeout time.Duration `yaml:"compressor_timeout"`
	// SweepSchedule is a cron spec for the background sweep. Empty disables it.
	SweepSchedule string `yaml:"sweep_schedule"`
	LogLevel      string `yaml:"log_level"`
	LogFormat     string `yaml:"log_format"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		HTTPPort:          8080,
		CompressorURL:     "https://api.scaledown.xyz",
		CompressorTimeout: 15 * time.Second,
		SweepSchedule:     "@every 1m",
		LogLevel:          "info",
		LogFormat:         "json",
	}
}

// Load resolves the configuration from, in increasing precedence, defaults,
// the YAML file named by path (or REMINDERS_CONFIG_FILE when path is empty),
// a .env file in the working directory and the process environment.
//
// A missing .env file is ignored. A named YAML file that does not exist is an
// error.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvConfigFile))
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	invalid := make([]string, 0, 3)

	if portValue := strings.TrimSpace(os.Getenv(EnvHTTPPort)); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, EnvHTTPPort)
		} else {
			cfg.HTTPPort = port
		}
	}

	if url := strings.TrimSpace(os.Getenv(EnvCompressorURL)); url != "" {
		cfg.CompressorURL = url
	}

	if key := strings.TrimSpace(os.Getenv(EnvCompressorAPIKey)); key != "" {
		cfg.CompressorAPIKey = key
	}

	if timeoutValue := strings.TrimSpace(os.Getenv(EnvCompressorTimeout)); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil || timeout <= 0 {
			invalid = append(invalid, EnvCompressorTimeout)
		} else {
			cfg.CompressorTimeout = timeout
		}
	}

	if schedule, ok := os.LookupEnv(EnvSweepSchedule); ok {
		cfg.SweepSchedule = strings.TrimSpace(schedule)
	}

	if level := strings.TrimSpace(os.Getenv(EnvLogLevel)); level != "" {
		cfg.LogLevel = level
	}

	if format := strings.TrimSpace(os.Getenv(EnvLogFormat)); format != "" {
		cfg.LogFormat = format
	}

	if cfg.HTTPPort <= 0 {
		invalid = append(invalid, "http_port")
	}
	if cfg.CompressorTimeout <= 0 {
		invalid = append(invalid, "compressor_timeout")
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid configuration values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// CompressionEnabled reports whether an API key is available for enrichment.
func (c Config) CompressionEnabled() bool {
	return strings.TrimSpace(c.CompressorAPIKey) != ""
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s does not exist", path)
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

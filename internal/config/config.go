package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel  string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTP      HTTP      `yaml:"http"`
	Telemetry Telemetry `yaml:"telemetry"`
	Bot       Bot       `yaml:"bot"`
}

type HTTP struct {
	Addr            string        `yaml:"addr" env:"HTTP_ADDR" env-default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown-timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type Telemetry struct {
	Enabled        bool   `yaml:"enabled" env:"OTEL_ENABLED" env-default:"false"`
	CollectorAddr  string `yaml:"collector-addr" env:"OTEL_COLLECTOR_ADDR" env-default:"otel-collector:4317"`
	ServiceName    string `yaml:"service-name" env:"OTEL_SERVICE_NAME" env-default:"tictactoe-engine"`
	ServiceVersion string `yaml:"service-version" env-default:"v0.1.0"`
	StdoutTraces   bool   `yaml:"stdout-traces" env:"OTEL_STDOUT_TRACES" env-default:"false"`
}

type Bot struct {
	DefaultDifficulty string        `yaml:"default-difficulty" env:"BOT_DEFAULT_DIFFICULTY" env-default:"hard"`
	MoveTimeout       time.Duration `yaml:"move-timeout" env:"BOT_MOVE_TIMEOUT" env-default:"2s"`
}

// Load reads the YAML file at path, then applies environment overrides and
// defaults. A missing file is not an error: the configuration then comes
// from the environment alone.
func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to read config from environment: %w", err)
		}
		return config, nil
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Package config loads spam filter settings from YAML, the environment and
// optional .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/spamfilter/pkg/spamfilter/internalerr"
)

// EnvPrefix prefixes every environment override, e.g. SPAMFILTER_MODEL_PATH.
const EnvPrefix = "SPAMFILTER"

// Config is the complete tool configuration.
type Config struct {
	Model     Model     `yaml:"model"`
	Training  Training  `yaml:"training"`
	Inference Inference `yaml:"inference"`
	Relay     Relay     `yaml:"relay"`
	Logging   Logging   `yaml:"logging"`
}

// Model locates the persisted artifact.
type Model struct {
	Path    string `yaml:"path" validate:"required_unless=Backend memory"`
	Backend string `yaml:"backend" validate:"oneof=file sqlite badger memory"`
}

// Training controls the training workflow.
type Training struct {
	Dataset     string  `yaml:"dataset" validate:"required"`
	Encoding    string  `yaml:"encoding" validate:"oneof=latin-1 utf-8"`
	StripHTML   bool    `yaml:"strip_html" split_words:"true"`
	TestSize    float64 `yaml:"test_size" split_words:"true" validate:"gte=0,lt=1"`
	Seed        int64   `yaml:"seed"`
	Alpha       float64 `yaml:"alpha" validate:"gt=0"`
	Stoplist    string  `yaml:"stoplist"`
	Interactive bool    `yaml:"interactive"`
}

// Inference controls the spam gate and the subprocess bridge.
type Inference struct {
	Threshold float64       `yaml:"threshold" validate:"gte=0,lte=1"`
	Timeout   time.Duration `yaml:"timeout" validate:"gt=0"`
	Command   string        `yaml:"command"`
}

// Relay configures the chat relay.
type Relay struct {
	Addr    string `yaml:"addr" validate:"required"`
	History int    `yaml:"history" validate:"gte=0"`
	ChatLog string `yaml:"chat_log" split_words:"true"`
}

// Logging selects the logrus level and formatter.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

// Default returns a configuration that runs against spam.csv in the
// working directory.
func Default() Config {
	return Config{
		Model: Model{
			Path:    "spam_nb_model.bin",
			Backend: "file",
		},
		Training: Training{
			Dataset:  "spam.csv",
			Encoding: "latin-1",
			TestSize: 0.20,
			Seed:     42,
			Alpha:    1.0,
		},
		Inference: Inference{
			Threshold: 0.80,
			Timeout:   3 * time.Second,
		},
		Relay: Relay{
			Addr:    "127.0.0.1:6001",
			History: 500,
			ChatLog: "chat_log.txt",
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

var validate = validator.New()

// Load builds the configuration in layers: defaults, then the YAML file at
// path (skipped when empty), then a .env file in the working directory if
// present, then SPAMFILTER_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: parse %s: %v", internalerr.ErrInvalidConfig, path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("%w: .env: %v", internalerr.ErrInvalidConfig, err)
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: environment: %v", internalerr.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	return nil
}

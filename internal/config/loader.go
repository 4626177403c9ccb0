package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goran-ethernal/BlockPipe/internal/common"
	pkgconfig "github.com/goran-ethernal/BlockPipe/pkg/config"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override secrets from the config file.
const (
	EnvDatabaseDSN  = "BLOCKPIPE_DATABASE_DSN"
	EnvQueueURL     = "BLOCKPIPE_QUEUE_URL"
	EnvQueueBrokers = "BLOCKPIPE_QUEUE_BROKERS"
	EnvSlackWebhook = "BLOCKPIPE_SLACK_WEBHOOK"
)

// decodeFunc parses raw file contents into a configuration.
type decodeFunc func(data []byte, v any) error

// decoders maps a lowercase file extension to the parser of its format.
var decoders = map[string]struct {
	format string
	decode decodeFunc
}{
	".yaml": {"YAML", yaml.Unmarshal},
	".yml":  {"YAML", yaml.Unmarshal},
	".json": {"JSON", json.Unmarshal},
	".toml": {"TOML", toml.Unmarshal},
}

// LoadFromFile loads configuration from a file, auto-detecting the format by extension.
// Supported formats: .yaml, .yml, .json, .toml
func LoadFromFile(path string) (*pkgconfig.Config, error) {
	ext := strings.ToLower(filepath.Ext(path))

	d, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported config file format: %s (supported: .yaml, .yml, .json, .toml)", ext)
	}

	return load(path, d.format, d.decode)
}

// LoadFromYAML loads configuration from a YAML file.
func LoadFromYAML(path string) (*pkgconfig.Config, error) {
	return load(path, "YAML", yaml.Unmarshal)
}

// LoadFromJSON loads configuration from a JSON file.
func LoadFromJSON(path string) (*pkgconfig.Config, error) {
	return load(path, "JSON", json.Unmarshal)
}

// LoadFromTOML loads configuration from a TOML file.
func LoadFromTOML(path string) (*pkgconfig.Config, error) {
	return load(path, "TOML", toml.Unmarshal)
}

func load(path, format string, decode decodeFunc) (*pkgconfig.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg pkgconfig.Config
	if err := decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s config: %w", format, err)
	}

	return processConfig(&cfg)
}

// LoadEnvFiles loads KEY=VALUE files into the process environment.
// Variables that are already set are left untouched. Missing files are ignored.
func LoadEnvFiles(paths ...string) error {
	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}

	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env files: %w", err)
	}

	return nil
}

// applyEnvOverrides replaces connection secrets with values from the environment.
func applyEnvOverrides(cfg *pkgconfig.Config) {
	if v := os.Getenv(EnvDatabaseDSN); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv(EnvQueueURL); v != "" {
		cfg.Queue.URL = v
	}
	if v := os.Getenv(EnvQueueBrokers); v != "" {
		cfg.Queue.Brokers = common.SplitCSV(v)
	}
	if v := os.Getenv(EnvSlackWebhook); v != "" {
		cfg.Alerts.SlackWebhookURL = v
	}
}

// processConfig applies overrides and defaults, then validates the configuration.
func processConfig(cfg *pkgconfig.Config) (*pkgconfig.Config, error) {
	applyEnvOverrides(cfg)

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

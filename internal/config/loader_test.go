package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goran-ethernal/BlockPipe/pkg/config"
	"github.com/stretchr/testify/require"
)

func TestLoadFromYAML(t *testing.T) {
	cfg, err := LoadFromYAML("../../config.example.yaml")
	require.NoError(t, err)

	validateConfig(t, cfg, "YAML")
	require.Equal(t, config.QueueKindAMQP, cfg.Queue.Kind)
	require.Equal(t, "debug", cfg.Logging.GetComponentLevel("writer"))
	require.NotNil(t, cfg.Database.Maintenance)
	require.True(t, cfg.Database.Maintenance.Enabled)
}

func TestLoadFromJSON(t *testing.T) {
	cfg, err := LoadFromJSON("../../config.example.json")
	require.NoError(t, err)

	validateConfig(t, cfg, "JSON")
	require.Equal(t, config.QueueKindKafka, cfg.Queue.Kind)
	require.Equal(t, []string{"localhost:9092"}, cfg.Queue.Brokers)
}

func TestLoadFromTOML(t *testing.T) {
	cfg, err := LoadFromTOML("../../config.example.toml")
	require.NoError(t, err)

	validateConfig(t, cfg, "TOML")
	require.Equal(t, config.DriverPostgres, cfg.Database.Driver)
	require.NotNil(t, cfg.API)
	require.Equal(t, 15*time.Second, cfg.API.ReadTimeout.Duration)
}

func TestLoadFromFile(t *testing.T) {
	for _, path := range []string{
		"../../config.example.yaml",
		"../../config.example.json",
		"../../config.example.toml",
	} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			cfg, err := LoadFromFile(path)
			require.NoError(t, err)
			validateConfig(t, cfg, path)
		})
	}
}

func TestLoadFromFile_UnsupportedFormat(t *testing.T) {
	_, err := LoadFromFile("config.txt")
	require.ErrorContains(t, err, "unsupported config file format")
}

func TestLoadFromFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  path: ./x.db\n"), 0o600))

	_, err := LoadFromFile(path)
	require.ErrorContains(t, err, "network.name is required")
}

func TestLoadFromFile_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte(
		EnvSlackWebhook+"=https://hooks.slack.test/T000\n"+
			EnvQueueBrokers+"=k1:9092, k2:9092\n",
	), 0o600))

	// godotenv never overrides variables that are already set
	t.Setenv(EnvSlackWebhook, "")
	require.NoError(t, os.Unsetenv(EnvSlackWebhook))
	t.Setenv(EnvQueueBrokers, "")
	require.NoError(t, os.Unsetenv(EnvQueueBrokers))

	require.NoError(t, LoadEnvFiles(envPath, filepath.Join(dir, "missing.env")))

	cfg, err := LoadFromFile("../../config.example.json")
	require.NoError(t, err)
	require.Equal(t, "https://hooks.slack.test/T000", cfg.Alerts.SlackWebhookURL)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Queue.Brokers)
}

// validateConfig checks that the loaded config has expected values
func validateConfig(t *testing.T, cfg *config.Config, format string) {
	t.Helper()

	require.Equal(t, "flow-mainnet", cfg.Network.Name, "[%s] network name", format)
	require.Equal(t, int64(1), cfg.Network.ID, "[%s] network id", format)
	require.Equal(t, uint64(1000), cfg.Listener.ChunkSize, "[%s] chunk size", format)
	require.Equal(t, 500*time.Millisecond, cfg.Listener.ChunkPause.Duration, "[%s] chunk pause", format)
	require.Equal(t, "blocks_writer", cfg.Queue.Names.Writer, "[%s] writer queue", format)
	require.Equal(t, 24*time.Hour, cfg.Monitor.DuplicatesInterval.Duration, "[%s] duplicates interval", format)

	// defaults
	require.Equal(t, uint64(10), cfg.Monitor.SyncGapThreshold, "[%s] sync threshold default", format)
	require.NotEmpty(t, cfg.Database.Synchronous, "[%s] synchronous default", format)
	require.NotNil(t, cfg.Logging, "[%s] logging default", format)
}

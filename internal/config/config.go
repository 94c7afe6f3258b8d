// Package config resolves planflow settings from defaults, an optional YAML
// file and PLANFLOW_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type StorageConfig struct {
	Backend  string `yaml:"backend"`
	Dir      string `yaml:"dir"`
	Bucket   string `yaml:"bucket"`
	Endpoint string `yaml:"endpoint"`
	// AttachmentPolicy is fail_open or fail_closed.
	AttachmentPolicy string `yaml:"attachment_policy"`
}

type SlackConfig struct {
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`
}

func (s SlackConfig) Enabled() bool {
	return s.Token != "" && s.Channel != ""
}

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Storage  StorageConfig  `yaml:"storage"`
	Slack    SlackConfig    `yaml:"slack"`
	// LogUseCases writes one structured line per workflow use case to stderr.
	LogUseCases bool `yaml:"log_use_cases"`
}

// DefaultConfig keeps everything under ~/.planflow with SQLite and local
// attachment storage.
func DefaultConfig() Config {
	base := ".planflow"
	if home, err := os.UserHomeDir(); err == nil {
		base = filepath.Join(home, ".planflow")
	}
	return Config{
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    filepath.Join(base, "planflow.db"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
		Storage: StorageConfig{
			Backend:          "local",
			Dir:              filepath.Join(base, "attachments"),
			AttachmentPolicy: "fail_open",
		},
	}
}

// LoadConfig builds the effective configuration. path names a YAML file;
// when empty PLANFLOW_CONFIG is consulted, and when that is empty too no
// file is read.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv("PLANFLOW_CONFIG")
	}
	if path != "" {
		if err := mergeFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	// Unmarshalling over the defaults keeps every key the file leaves out.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	setFromEnv(&cfg.Database.Driver, "PLANFLOW_DB_DRIVER")
	setFromEnv(&cfg.Database.DSN, "PLANFLOW_DB")
	setFromEnv(&cfg.Log.Level, "PLANFLOW_LOG_LEVEL")
	setFromEnv(&cfg.Log.Format, "PLANFLOW_LOG_FORMAT")
	setFromEnv(&cfg.Storage.Backend, "PLANFLOW_STORAGE_BACKEND")
	setFromEnv(&cfg.Storage.Dir, "PLANFLOW_STORAGE_DIR")
	setFromEnv(&cfg.Storage.Bucket, "PLANFLOW_STORAGE_BUCKET")
	setFromEnv(&cfg.Storage.Endpoint, "PLANFLOW_STORAGE_ENDPOINT")
	setFromEnv(&cfg.Storage.AttachmentPolicy, "PLANFLOW_ATTACHMENT_POLICY")
	setFromEnv(&cfg.Slack.Token, "PLANFLOW_SLACK_TOKEN")
	setFromEnv(&cfg.Slack.Channel, "PLANFLOW_SLACK_CHANNEL")
	if v := os.Getenv("PLANFLOW_LOG_USE_CASES"); v != "" {
		cfg.LogUseCases = v == "1" || v == "true"
	}
}

func setFromEnv(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

// Validate rejects values the rest of the program cannot act on.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "auto", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}

	switch c.Storage.Backend {
	case "local":
		if c.Storage.Dir == "" {
			return fmt.Errorf("storage dir is required for the local backend")
		}
	case "gcs":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage bucket is required for the gcs backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	switch c.Storage.AttachmentPolicy {
	case "fail_open", "fail_closed":
	default:
		return fmt.Errorf("unknown attachment policy %q", c.Storage.AttachmentPolicy)
	}
	return nil
}

package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/rileyhilliard/vantasys/internal/errors"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config with durations as strings, so the written
// file reads "1s" rather than nanosecond integers.
type fileConfig struct {
	Version   int             `yaml:"version"`
	API       fileAPI         `yaml:"api"`
	Dashboard fileDashboard   `yaml:"dashboard"`
	History   HistoryConfig   `yaml:"history"`
	Inspector InspectorConfig `yaml:"inspector"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
}

type fileAPI struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
	Timeout string `yaml:"timeout"`
}

type fileDashboard struct {
	FastInterval  string `yaml:"fast_interval"`
	SlowInterval  string `yaml:"slow_interval"`
	EventLogSize  int    `yaml:"event_log_size"`
	ServicesLimit int    `yaml:"services_limit"`
}

const fileHeader = `# vantasys configuration
# Environment overrides: VANTASYS_TOKEN, VANTASYS_API_BASE_URL, VANTASYS_SERVER_PORT, ...
`

// Marshal renders cfg as the YAML written by 'vantasys init'.
func Marshal(cfg *Config) ([]byte, error) {
	fc := fileConfig{
		Version: cfg.Version,
		API: fileAPI{
			BaseURL: cfg.API.BaseURL,
			Token:   cfg.API.Token,
			Timeout: cfg.API.Timeout.String(),
		},
		Dashboard: fileDashboard{
			FastInterval:  cfg.Dashboard.FastInterval.String(),
			SlowInterval:  cfg.Dashboard.SlowInterval.String(),
			EventLogSize:  cfg.Dashboard.EventLogSize,
			ServicesLimit: cfg.Dashboard.ServicesLimit,
		},
		History:   cfg.History,
		Inspector: cfg.Inspector,
		Server:    cfg.Server,
		Log:       cfg.Log,
	}

	var buf bytes.Buffer
	buf.WriteString(fileHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fc); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to encode config",
			"This is unexpected - please report it.")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to encode config",
			"This is unexpected - please report it.")
	}
	return buf.Bytes(), nil
}

// Save writes cfg to path, creating parent directories as needed.
// The file is private (0600) because it may hold the API token.
func Save(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot create config directory "+dir,
				"Check directory permissions")
		}
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write "+path,
			"Check file permissions")
	}
	return nil
}

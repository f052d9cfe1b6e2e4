package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .vantasys.yaml configuration file.
type Config struct {
	Version   int             `yaml:"version" mapstructure:"version"`
	API       APIConfig       `yaml:"api" mapstructure:"api"`
	Dashboard DashboardConfig `yaml:"dashboard" mapstructure:"dashboard"`
	History   HistoryConfig   `yaml:"history" mapstructure:"history"`
	Inspector InspectorConfig `yaml:"inspector" mapstructure:"inspector"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// APIConfig controls how the dashboard reaches the telemetry API.
type APIConfig struct {
	// BaseURL is the API root; endpoint paths like /cpu are appended to it.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Token is sent as X-API-Key. The server enforces it when non-empty.
	Token string `yaml:"token" mapstructure:"token"`

	// Timeout bounds each HTTP request. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// DashboardConfig controls polling cadence and display limits.
type DashboardConfig struct {
	// FastInterval is the period of the cpu/memory/sensors cycle.
	FastInterval time.Duration `yaml:"fast_interval" mapstructure:"fast_interval"`

	// SlowInterval is the period of the disk/network/process cycle.
	SlowInterval time.Duration `yaml:"slow_interval" mapstructure:"slow_interval"`

	// EventLogSize caps the activity log.
	EventLogSize int `yaml:"event_log_size" mapstructure:"event_log_size"`

	// ServicesLimit caps the rows shown in the services view.
	ServicesLimit int `yaml:"services_limit" mapstructure:"services_limit"`
}

// HistoryConfig sets the rolling buffer lengths.
type HistoryConfig struct {
	// Long is the analytics window (samples).
	Long int `yaml:"long" mapstructure:"long"`

	// Short is the inline sparkline window (samples).
	Short int `yaml:"short" mapstructure:"short"`
}

// InspectorConfig bounds the JSON tree renderer.
type InspectorConfig struct {
	// MaxArray is the longest array that is expanded; longer ones collapse.
	MaxArray int `yaml:"max_array" mapstructure:"max_array"`

	// MaxDepth stops recursion on pathological payloads.
	MaxDepth int `yaml:"max_depth" mapstructure:"max_depth"`
}

// ServerConfig controls `vantasys serve`.
type ServerConfig struct {
	Host            string   `yaml:"host" mapstructure:"host"`
	Port            int      `yaml:"port" mapstructure:"port"`
	RateLimit       float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
	Burst           int      `yaml:"burst" mapstructure:"burst"`
	ProcessLimit    int      `yaml:"process_limit" mapstructure:"process_limit"`
	ConnectionLimit int      `yaml:"connection_limit" mapstructure:"connection_limit"`
	AllowedOrigins  []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig controls where log lines go.
type LogConfig struct {
	// File receives log output. Empty means stderr for one-shot commands
	// and a file in the user cache dir for the dashboard.
	File string `yaml:"file" mapstructure:"file"`
}

// DefaultOrigins are the browser origins allowed by the server's CORS policy.
var DefaultOrigins = []string{
	"http://localhost:8000",
	"http://127.0.0.1:8000",
	"http://localhost:6767",
	"http://127.0.0.1:6767",
	"http://localhost",
	"http://127.0.0.1",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	origins := make([]string, len(DefaultOrigins))
	copy(origins, DefaultOrigins)

	return &Config{
		Version: CurrentConfigVersion,
		API: APIConfig{
			BaseURL: "http://127.0.0.1:6767/api",
		},
		Dashboard: DashboardConfig{
			FastInterval:  time.Second,
			SlowInterval:  5 * time.Second,
			EventLogSize:  50,
			ServicesLimit: 100,
		},
		History: HistoryConfig{
			Long:  300,
			Short: 40,
		},
		Inspector: InspectorConfig{
			MaxArray: 20,
			MaxDepth: 32,
		},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            6767,
			RateLimit:       50,
			Burst:           100,
			ProcessLimit:    20,
			ConnectionLimit: 100,
			AllowedOrigins:  origins,
		},
	}
}

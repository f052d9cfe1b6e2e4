package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rileyhilliard/vantasys/internal/errors"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but vantasys only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest vantasys release.")
	}

	checks := []struct {
		section string
		check   func() error
	}{
		{"api", func() error { return validateAPI(cfg.API) }},
		{"dashboard", func() error { return validateDashboard(cfg.Dashboard) }},
		{"history", func() error { return validateHistory(cfg.History) }},
		{"inspector", func() error { return validateInspector(cfg.Inspector) }},
		{"server", func() error { return validateServer(cfg.Server) }},
	}

	for _, c := range checks {
		if err := c.check(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
				fmt.Sprintf("Check the %s section in %s.", c.section, ConfigFileName))
		}
	}

	return nil
}

// validateAPI checks the client settings.
func validateAPI(api APIConfig) error {
	if api.BaseURL == "" {
		return fmt.Errorf("api.base_url is empty - set it to something like http://127.0.0.1:6767/api")
	}
	u, err := url.Parse(api.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url '%s' doesn't parse as a URL: %v", api.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url '%s' needs an http:// or https:// scheme", api.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url '%s' has no host", api.BaseURL)
	}
	if api.Timeout < 0 {
		return fmt.Errorf("api.timeout can't be negative - use 0 for no timeout")
	}
	return nil
}

// validateDashboard checks polling cadence and limits.
func validateDashboard(d DashboardConfig) error {
	if d.FastInterval <= 0 {
		return fmt.Errorf("dashboard.fast_interval needs to be positive (got %v)", d.FastInterval)
	}
	if d.SlowInterval <= 0 {
		return fmt.Errorf("dashboard.slow_interval needs to be positive (got %v)", d.SlowInterval)
	}
	if d.SlowInterval < d.FastInterval {
		return fmt.Errorf("dashboard.slow_interval (%v) is shorter than fast_interval (%v) - should be the other way around", d.SlowInterval, d.FastInterval)
	}
	if d.EventLogSize < 1 {
		return fmt.Errorf("dashboard.event_log_size needs to be at least 1 (got %d)", d.EventLogSize)
	}
	if d.ServicesLimit < 1 {
		return fmt.Errorf("dashboard.services_limit needs to be at least 1 (got %d)", d.ServicesLimit)
	}
	return nil
}

// validateHistory checks rolling buffer lengths.
func validateHistory(h HistoryConfig) error {
	if h.Long < 2 {
		return fmt.Errorf("history.long needs to be at least 2 samples (got %d)", h.Long)
	}
	if h.Short < 2 {
		return fmt.Errorf("history.short needs to be at least 2 samples (got %d)", h.Short)
	}
	return nil
}

// validateInspector checks tree renderer bounds.
func validateInspector(i InspectorConfig) error {
	if i.MaxArray < 0 {
		return fmt.Errorf("inspector.max_array can't be negative (got %d)", i.MaxArray)
	}
	if i.MaxDepth < 1 {
		return fmt.Errorf("inspector.max_depth needs to be at least 1 (got %d)", i.MaxDepth)
	}
	return nil
}

// validateServer checks `vantasys serve` settings.
func validateServer(s ServerConfig) error {
	if strings.TrimSpace(s.Host) == "" {
		return fmt.Errorf("server.host is empty - use 127.0.0.1 to listen locally")
	}
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("server.port needs to be 1-65535 (got %d)", s.Port)
	}
	if s.RateLimit <= 0 {
		return fmt.Errorf("server.rate_limit needs to be positive (got %v)", s.RateLimit)
	}
	if s.Burst < 1 {
		return fmt.Errorf("server.burst needs to be at least 1 (got %d)", s.Burst)
	}
	if s.ProcessLimit < 1 {
		return fmt.Errorf("server.process_limit needs to be at least 1 (got %d)", s.ProcessLimit)
	}
	if s.ConnectionLimit < 1 {
		return fmt.Errorf("server.connection_limit needs to be at least 1 (got %d)", s.ConnectionLimit)
	}
	for _, o := range s.AllowedOrigins {
		if strings.TrimSpace(o) == "" {
			return fmt.Errorf("server.allowed_origins has an empty entry - remove it")
		}
	}
	return nil
}

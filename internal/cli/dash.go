package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"golang.org/x/term"

	"github.com/rileyhilliard/vantasys/internal/api"
	"github.com/rileyhilliard/vantasys/internal/config"
	"github.com/rileyhilliard/vantasys/internal/errors"
	"github.com/rileyhilliard/vantasys/internal/jsontree"
	"github.com/rileyhilliard/vantasys/internal/logger"
	"github.com/rileyhilliard/vantasys/internal/monitor"
)

// healthTimeout bounds the startup health check; polling itself has no deadline.
const healthTimeout = 3 * time.Second

// DashOptions are the dash flags. Zero values defer to the config file.
type DashOptions struct {
	URL   string
	Token string
	Fast  time.Duration
	Slow  time.Duration
}

// dashCommand starts the TUI dashboard.
func dashCommand(opts DashOptions) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrConfig,
			"The dashboard needs an interactive terminal",
			"Use 'vantasys inspect' or 'vantasys ps' for scripted output.")
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	applyDashOptions(cfg, opts)
	if err := config.Validate(cfg); err != nil {
		return err
	}

	// Logging to the terminal would tear the alt screen.
	logPath := cfg.Log.File
	if logPath == "" {
		logPath = config.DefaultLogFile()
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot create log directory "+filepath.Dir(logPath),
			"Set log.file to a writable path")
	}
	logFile, err := logger.OpenFile(logPath)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot open log file "+logPath,
			"Set log.file to a writable path")
	}
	defer logFile.Close()
	defer logger.SetOutput(os.Stderr)

	log := logger.NewEnvLogger("[dash]")
	log.Info("dashboard starting against %s", cfg.API.BaseURL)

	client := newClient(cfg)
	checkAgent(context.Background(), client, log)

	zones := zone.New()
	defer zones.Close()

	model := monitor.NewModel(client, dashModelOptions(cfg, log, zones))

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Dashboard exited unexpectedly",
			fmt.Sprintf("See %s for details", logPath))
	}
	return nil
}

// applyDashOptions layers command-line flags over the config file.
func applyDashOptions(cfg *config.Config, opts DashOptions) {
	if opts.URL != "" {
		cfg.API.BaseURL = opts.URL
	}
	if opts.Token != "" {
		cfg.API.Token = opts.Token
	}
	if opts.Fast > 0 {
		cfg.Dashboard.FastInterval = opts.Fast
	}
	if opts.Slow > 0 {
		cfg.Dashboard.SlowInterval = opts.Slow
	}
}

func dashModelOptions(cfg *config.Config, log logger.Logger, zones *zone.Manager) monitor.Options {
	tree := jsontree.DefaultOptions()
	tree.MaxArray = cfg.Inspector.MaxArray
	tree.MaxDepth = cfg.Inspector.MaxDepth

	return monitor.Options{
		FastInterval:  cfg.Dashboard.FastInterval,
		SlowInterval:  cfg.Dashboard.SlowInterval,
		LongWindow:    cfg.History.Long,
		ShortWindow:   cfg.History.Short,
		EventLogSize:  cfg.Dashboard.EventLogSize,
		ServicesLimit: cfg.Dashboard.ServicesLimit,
		Tree:          tree,
		Endpoint:      cfg.API.BaseURL,
		Logger:        log,
		Zones:         zones,
	}
}

// checkAgent calls /health and logs which agent the dashboard is attached
// to. An unreachable agent is not fatal: the dashboard shows it offline and
// keeps polling.
func checkAgent(ctx context.Context, client *api.Client, log logger.Logger) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	h, err := client.Health(ctx)
	if err != nil {
		log.Warn("agent health check failed: %s", errors.Short(err))
		return false
	}
	log.Info("agent reports %s (version %s, mode %s)", h.Status, h.Version, h.Mode)
	return true
}

func newClient(cfg *config.Config) *api.Client {
	return api.New(cfg.API.BaseURL, api.WithToken(cfg.API.Token), api.WithTimeout(cfg.API.Timeout))
}

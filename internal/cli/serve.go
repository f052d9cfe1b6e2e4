package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rileyhilliard/vantasys/internal/config"
	"github.com/rileyhilliard/vantasys/internal/logger"
	"github.com/rileyhilliard/vantasys/internal/server"
	"github.com/rileyhilliard/vantasys/internal/ui"
)

// serveCommand runs the telemetry agent until interrupted.
func serveCommand(host string, port int) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}
	if host != "" {
		cfg.Server.Host = host
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	log := logger.NewEnvLogger("[serve]")
	collector := server.NewHostCollector(log)
	srv := server.New(collector, server.Options{
		Config:  cfg.Server,
		Token:   cfg.API.Token,
		Version: formatVersion(version),
		Logger:  log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go collector.ScanHardware(ctx)

	if path != "" {
		if err := config.Watch(path, func(c *config.Config) {
			srv.SetToken(c.API.Token)
		}); err != nil {
			log.Warn("config hot-reload disabled: %v", err)
		}
	}

	fmt.Print(ui.RenderHeader(ui.HeaderInfo{
		Version: formatVersion(version),
		Tagline: "telemetry agent",
		Details: serveDetails(srv.Addr(), path, cfg.API.Token != ""),
	}))

	return srv.Run(ctx)
}

func serveDetails(addr, configPath string, auth bool) []string {
	details := []string{"listening on http://" + addr}
	if configPath != "" {
		details = append(details, "config "+configPath)
	}
	if auth {
		details = append(details, "API key required")
	} else {
		details = append(details, "no API key set: anyone who can reach this port can read and kill processes")
	}
	return details
}

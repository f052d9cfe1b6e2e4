// Package server is the telemetry agent: a gin HTTP API over gopsutil that
// the dashboard polls.
package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/rileyhilliard/vantasys/internal/config"
	"github.com/rileyhilliard/vantasys/internal/errors"
	"github.com/rileyhilliard/vantasys/internal/logger"
)

// Mode is reported by /health.
const Mode = "omniscience"

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Config  config.ServerConfig
	Token   string
	Version string
	Logger  logger.Logger
}

// Server serves the telemetry API.
type Server struct {
	engine    *gin.Engine
	collector Collector
	cfg       config.ServerConfig
	version   string
	tokens    *TokenStore
	limiter   *RateLimiter
	log       logger.Logger
}

// New builds the router. Call Close to stop background work when the
// server is not started with Run.
func New(collector Collector, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}
	cfg := opts.Config
	defaults := config.DefaultConfig().Server
	if cfg.ProcessLimit <= 0 {
		cfg.ProcessLimit = defaults.ProcessLimit
	}
	if cfg.ConnectionLimit <= 0 {
		cfg.ConnectionLimit = defaults.ConnectionLimit
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaults.RateLimit
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaults.Burst
	}

	s := &Server{
		engine:    gin.New(),
		collector: collector,
		cfg:       cfg,
		version:   opts.Version,
		tokens:    NewTokenStore(opts.Token),
		limiter:   NewRateLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
		log:       log,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.engine
	r.Use(gin.Recovery(), RequestLogger(s.log), CORS(s.cfg.AllowedOrigins), SecurityHeaders())

	r.GET("/health", s.health)

	g := r.Group("/api", s.limiter.Middleware(), APIKeyAuth(s.tokens))
	g.GET("/cpu", s.cpu)
	g.GET("/memory", s.memory)
	g.GET("/sensors", s.sensors)
	g.GET("/system", s.system)
	g.GET("/disk", s.diskUsage)
	g.GET("/disk/detailed", s.disks)
	g.GET("/network", s.networkRate)
	g.GET("/network/detailed", s.network)
	g.GET("/network/connections", s.connections)
	g.GET("/processes", s.processes)
	g.GET("/services", s.services)
	g.GET("/process/:pid", s.processDetail)
	g.POST("/process/:pid/kill", s.kill)
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

// SetToken swaps the API key without restarting.
func (s *Server) SetToken(token string) {
	s.tokens.Set(token)
	s.log.Info("API token reloaded (auth %s)", enabledLabel(token != ""))
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// Run listens until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	defer s.Close()

	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return errors.WrapWithCode(err, errors.ErrServe,
				fmt.Sprintf("Couldn't listen on %s", srv.Addr),
				"Is another agent already running? Pick a free port with --port.")
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.WrapWithCode(err, errors.ErrServe, "Shutdown did not finish cleanly", "")
	}
	s.log.Info("server stopped")
	return nil
}

// Close releases background resources.
func (s *Server) Close() {
	s.limiter.Stop()
}

func enabledLabel(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}

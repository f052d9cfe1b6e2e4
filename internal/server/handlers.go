package server

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": s.version, "mode": Mode})
}

func (s *Server) cpu(c *gin.Context) {
	out, err := s.collector.CPU(c.Request.Context())
	s.respond(c, "cpu", out, err)
}

func (s *Server) memory(c *gin.Context) {
	out, err := s.collector.Memory(c.Request.Context())
	s.respond(c, "memory", out, err)
}

func (s *Server) sensors(c *gin.Context) {
	out, err := s.collector.Sensors(c.Request.Context())
	s.respond(c, "sensors", out, err)
}

func (s *Server) system(c *gin.Context) {
	out, err := s.collector.System(c.Request.Context())
	s.respond(c, "system", out, err)
}

func (s *Server) diskUsage(c *gin.Context) {
	out, err := s.collector.DiskUsage(c.Request.Context())
	s.respond(c, "disk", out, err)
}

func (s *Server) networkRate(c *gin.Context) {
	out, err := s.collector.NetworkRate(c.Request.Context())
	s.respond(c, "network", out, err)
}

func (s *Server) disks(c *gin.Context) {
	out, err := s.collector.Disks(c.Request.Context())
	s.respond(c, "disks", out, err)
}

func (s *Server) network(c *gin.Context) {
	out, err := s.collector.Network(c.Request.Context())
	s.respond(c, "network", out, err)
}

func (s *Server) processes(c *gin.Context) {
	limit, ok := queryLimit(c, s.cfg.ProcessLimit)
	if !ok {
		return
	}
	out, err := s.collector.Processes(c.Request.Context(), limit)
	s.respond(c, "processes", out, err)
}

func (s *Server) connections(c *gin.Context) {
	limit, ok := queryLimit(c, s.cfg.ConnectionLimit)
	if !ok {
		return
	}
	out, err := s.collector.Connections(c.Request.Context(), limit)
	s.respond(c, "connections", out, err)
}

func (s *Server) services(c *gin.Context) {
	out, err := s.collector.Services(c.Request.Context())
	s.respond(c, "services", out, err)
}

func (s *Server) processDetail(c *gin.Context) {
	pid, ok := pathPID(c)
	if !ok {
		return
	}
	out, err := s.collector.Process(c.Request.Context(), pid)
	if stderrors.Is(err, ErrProcessNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Process not found"})
		return
	}
	s.respond(c, "process", out, err)
}

func (s *Server) kill(c *gin.Context) {
	pid, ok := pathPID(c)
	if !ok {
		return
	}
	if err := s.collector.Kill(c.Request.Context(), pid); err != nil {
		s.log.Warn("kill %d: %v", pid, err)
		c.JSON(http.StatusBadRequest, gin.H{"detail": killDetail(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "terminated", "pid": pid})
}

func killDetail(err error) string {
	switch {
	case stderrors.Is(err, ErrProcessNotFound):
		return "Process not found"
	case stderrors.Is(err, ErrPermissionDenied):
		return "Permission denied"
	default:
		return "Failed to terminate"
	}
}

// respond writes out as JSON, or a 500 naming the failed collector.
func (s *Server) respond(c *gin.Context, what string, out interface{}, err error) {
	if err != nil {
		s.log.Error("collect %s: %v", what, err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to collect " + what})
		return
	}
	c.JSON(http.StatusOK, out)
}

func queryLimit(c *gin.Context, def int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "limit must be a positive integer"})
		return 0, false
	}
	return n, true
}

func pathPID(c *gin.Context) (int32, bool) {
	n, err := strconv.ParseInt(c.Param("pid"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "pid must be an integer"})
		return 0, false
	}
	return int32(n), true
}

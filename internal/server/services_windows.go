//go:build windows

package server

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/winservices"
	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/mgr"

	"github.com/rileyhilliard/vantasys/internal/api"
	"github.com/rileyhilliard/vantasys/internal/logger"
)

// listServices queries the service control manager. Services that cannot
// be opened (access denied on protected services) are skipped.
func listServices(ctx context.Context, log logger.Logger) ([]api.Service, error) {
	names, err := winservices.ListServices()
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	out := make([]api.Service, 0, len(names))
	for _, entry := range names {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s, err := winservices.NewService(entry.Name)
		if err != nil {
			log.Debug("open service %s: %v", entry.Name, err)
			continue
		}
		if err := s.GetServiceDetail(); err != nil {
			log.Debug("query service %s: %v", entry.Name, err)
			continue
		}

		row := api.Service{
			Name:        s.Name,
			DisplayName: s.Config.DisplayName,
			Status:      serviceState(s.Status.State),
			StartType:   startType(s.Config.StartType, s.Config.DelayedAutoStart),
			Username:    s.Config.ServiceStartName,
		}
		if s.Status.Pid > 0 {
			pid := int32(s.Status.Pid)
			row.PID = &pid
		}
		out = append(out, row)
	}
	return out, nil
}

func serviceState(state svc.State) string {
	switch state {
	case svc.Running:
		return "running"
	case svc.Stopped:
		return "stopped"
	case svc.StartPending:
		return "start_pending"
	case svc.StopPending:
		return "stop_pending"
	case svc.ContinuePending:
		return "continue_pending"
	case svc.PausePending:
		return "pause_pending"
	case svc.Paused:
		return "paused"
	default:
		return "unknown"
	}
}

func startType(t uint32, delayed bool) string {
	switch t {
	case mgr.StartAutomatic:
		if delayed {
			return "automatic_delayed"
		}
		return "automatic"
	case mgr.StartManual:
		return "manual"
	case mgr.StartDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

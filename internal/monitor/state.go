package monitor

import (
	"time"

	"github.com/rileyhilliard/vantasys/internal/api"
	"github.com/rileyhilliard/vantasys/internal/format"
)

// Connectivity is the link indicator driven by the fast cycle.
type Connectivity int

const (
	ConnUnknown Connectivity = iota
	ConnUp
	ConnDown
)

// String returns a human-readable connectivity label.
func (c Connectivity) String() string {
	switch c {
	case ConnUp:
		return "online"
	case ConnDown:
		return "offline"
	default:
		return "connecting"
	}
}

// AppState is everything the dashboard knows. Only Model.Update mutates
// it, one message at a time; fetch commands never touch it.
type AppState struct {
	Cache        *SnapshotCache
	History      *History
	Charts       *Charts
	Events       *EventLog
	Identity     *api.System
	Connectivity Connectivity
	View         View
	LastUpdate   time.Time

	// Rendered panels. Each is replaced by its renderer, never patched.
	CPU         CPUPanel
	Memory      MemoryPanel
	Sensors     SensorPanel
	Disks       []DiskCard
	Network     NetworkPanel
	Processes   []ProcessRow
	System      SystemPanel
	Analytics   AnalyticsPanel
	Connections ConnectionsPanel
	Services    ServicesPanel
}

// NewAppState builds empty state sized from the given windows.
func NewAppState(longWindow, shortWindow, eventLogSize int) *AppState {
	return &AppState{
		Cache:   NewSnapshotCache(),
		History: NewHistory(longWindow),
		Charts:  NewCharts(shortWindow),
		Events:  NewEventLog(eventLogSize),
		View:    ViewDashboard,
		Sensors: SensorPanel{Empty: true},
		Memory:  MemoryPanel{Modules: modulesPending},
	}
}

// NeedsIdentity reports whether the slow cycle should fetch /system:
// nothing cached yet, or the cached copy came back without GPUs.
func (s *AppState) NeedsIdentity() bool {
	return s.Identity == nil || len(s.Identity.GPU) == 0
}

// ExtrapolateUptime advances the cached uptime by one slow period and
// refreshes the uptime display. It is a no-op until an identity exists.
func (s *AppState) ExtrapolateUptime(period time.Duration) {
	if s.Identity == nil {
		return
	}
	s.Identity.UptimeSeconds += period.Seconds()
	s.System.Uptime = format.Uptime(s.Identity.UptimeSeconds)
}

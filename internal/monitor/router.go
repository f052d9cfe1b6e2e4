package monitor

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/vantasys/internal/api"
)

// View is the active dashboard screen.
type View int

const (
	ViewDashboard View = iota
	ViewAnalytics
	ViewHardware
	ViewServices
)

// Views lists every screen in tab order.
var Views = []View{ViewDashboard, ViewAnalytics, ViewHardware, ViewServices}

// String returns the lowercase view name.
func (v View) String() string {
	switch v {
	case ViewDashboard:
		return "dashboard"
	case ViewAnalytics:
		return "analytics"
	case ViewHardware:
		return "hardware"
	case ViewServices:
		return "services"
	default:
		return "unknown"
	}
}

// Title is the tab label.
func (v View) Title() string {
	switch v {
	case ViewDashboard:
		return "Dashboard"
	case ViewAnalytics:
		return "Analytics"
	case ViewHardware:
		return "Hardware"
	case ViewServices:
		return "Services"
	default:
		return "?"
	}
}

// Next and Prev cycle through Views.
func (v View) Next() View { return Views[(int(v)+1)%len(Views)] }
func (v View) Prev() View { return Views[(int(v)-1+len(Views))%len(Views)] }

func tabZoneID(v View) string {
	return "tab-" + v.String()
}

// Event log messages for on-demand fetches.
const (
	msgFetchConnections = "Fetching active connections..."
	msgFetchServices    = "Fetching Windows Services..."
	msgServicesFailed   = "Service Fetch Failed."

	connectionsFailed = "Failed to load"
	servicesEmpty     = "No services found (Check Permissions)."
	servicesFailed    = "Fetch Failed (Is backend running?)"
)

// ConnectionsPanel holds the hardware view's connection list.
type ConnectionsPanel struct {
	Loading bool
	Err     string
	Rows    []api.Connection
}

// ServicesPanel holds the services view's list.
type ServicesPanel struct {
	Loading bool
	Message string
	Rows    []api.Service
	Total   int
}

type connectionsMsg struct {
	rows []api.Connection
	err  error
}

type servicesMsg struct {
	rows []api.Service
	err  error
}

// Navigate switches the active view and logs it. Hardware and services
// are not covered by either polling cycle, so entering them returns a
// one-shot fetch; the other views return nil.
func (m *Model) Navigate(target View) tea.Cmd {
	s := m.state
	s.View = target
	s.Events.Add("Switched View: " + strings.ToUpper(target.String()))

	switch target {
	case ViewHardware:
		s.Events.Add(msgFetchConnections)
		s.Connections = ConnectionsPanel{Loading: true}
		return fetchConnectionsCmd(m.source)
	case ViewServices:
		s.Events.Add(msgFetchServices)
		s.Services = ServicesPanel{Loading: true}
		return fetchServicesCmd(m.source)
	}
	return nil
}

func fetchConnectionsCmd(src Source) tea.Cmd {
	return func() tea.Msg {
		rows, err := src.Connections(context.Background(), 0)
		return connectionsMsg{rows: rows, err: err}
	}
}

func fetchServicesCmd(src Source) tea.Cmd {
	return func() tea.Msg {
		rows, err := src.Services(context.Background())
		return servicesMsg{rows: rows, err: err}
	}
}

func (m *Model) applyConnections(msg connectionsMsg) {
	if msg.err != nil {
		m.log.Warn("connections fetch failed: %v", msg.err)
		m.state.Connections = ConnectionsPanel{Err: connectionsFailed}
		return
	}
	m.state.Connections = ConnectionsPanel{Rows: msg.rows}
	m.connTable = newConnectionsTable(msg.rows, m.width, m.bodyHeight())
}

func (m *Model) applyServices(msg servicesMsg) {
	s := m.state
	if msg.err != nil {
		m.log.Warn("services fetch failed: %v", msg.err)
		s.Services = ServicesPanel{Message: servicesFailed}
		s.Events.Add(msgServicesFailed)
		return
	}
	if len(msg.rows) == 0 {
		s.Services = ServicesPanel{Message: servicesEmpty}
		return
	}

	rows := msg.rows
	if limit := m.opts.ServicesLimit; limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	s.Services = ServicesPanel{Rows: rows, Total: len(msg.rows)}
	s.Events.Add(fmt.Sprintf("Loaded %d Services.", len(msg.rows)))
}

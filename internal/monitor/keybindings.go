package monitor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/vantasys/internal/api"
)

// keyMap holds every dashboard binding. It satisfies help.KeyMap.
type keyMap struct {
	Quit      key.Binding
	Help      key.Binding
	Refresh   key.Binding
	NextView  key.Binding
	PrevView  key.Binding
	Dashboard key.Binding
	Analytics key.Binding
	Hardware  key.Binding
	Services  key.Binding
	Up        key.Binding
	Down      key.Binding
	Inspect   key.Binding
	Close     key.Binding
	Terminate key.Binding

	InspectCPU     key.Binding
	InspectMemory  key.Binding
	InspectDisk    key.Binding
	InspectNetwork key.Binding
	InspectSystem  key.Binding
	InspectSensors key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		NextView:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		PrevView:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous view")),
		Dashboard: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "dashboard")),
		Analytics: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "analytics")),
		Hardware:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "hardware")),
		Services:  key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "services")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Inspect:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "inspect process")),
		Close:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Terminate: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "terminate process")),

		InspectCPU:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "inspect cpu")),
		InspectMemory:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "inspect memory")),
		InspectDisk:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "inspect disk")),
		InspectNetwork: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "inspect network")),
		InspectSystem:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "inspect system")),
		InspectSensors: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "inspect sensors")),
	}
}

// ShortHelp is the footer line.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Refresh, k.NextView, k.Inspect, k.Help}
}

// FullHelp is the help overlay, one column per group.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Quit, k.Help, k.Refresh, k.Close},
		{k.NextView, k.PrevView, k.Dashboard, k.Analytics, k.Hardware, k.Services},
		{k.Up, k.Down, k.Inspect, k.Terminate},
		{k.InspectCPU, k.InspectMemory, k.InspectDisk, k.InspectNetwork, k.InspectSystem, k.InspectSensors},
	}
}

// snapshotKind maps a snapshot-inspector key to its resource.
func (k keyMap) snapshotKind(msg tea.KeyMsg) (api.Kind, bool) {
	switch {
	case key.Matches(msg, k.InspectCPU):
		return api.KindCPU, true
	case key.Matches(msg, k.InspectMemory):
		return api.KindMemory, true
	case key.Matches(msg, k.InspectDisk):
		return api.KindDisk, true
	case key.Matches(msg, k.InspectNetwork):
		return api.KindNetwork, true
	case key.Matches(msg, k.InspectSystem):
		return api.KindSystem, true
	case key.Matches(msg, k.InspectSensors):
		return api.KindSensors, true
	}
	return 0, false
}

// HandleKeyMsg routes a key press. The terminate prompt sees keys first,
// then the help overlay, then the inspector, then the dashboard.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return tea.Quit
	}
	if m.inspector.confirm != nil {
		return m.updateConfirm(msg)
	}

	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return nil
	}
	if m.showHelp {
		if key.Matches(msg, m.keys.Close) {
			m.showHelp = false
		}
		return nil
	}

	if m.inspector.Open {
		return m.updateInspector(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		return m.refresh()

	case key.Matches(msg, m.keys.NextView):
		return m.Navigate(m.state.View.Next())
	case key.Matches(msg, m.keys.PrevView):
		return m.Navigate(m.state.View.Prev())
	case key.Matches(msg, m.keys.Dashboard):
		return m.Navigate(ViewDashboard)
	case key.Matches(msg, m.keys.Analytics):
		return m.Navigate(ViewAnalytics)
	case key.Matches(msg, m.keys.Hardware):
		return m.Navigate(ViewHardware)
	case key.Matches(msg, m.keys.Services):
		return m.Navigate(ViewServices)

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
		return nil
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
		return nil

	case key.Matches(msg, m.keys.Inspect):
		if m.state.View == ViewDashboard && m.selected < len(m.state.Processes) {
			return m.inspectProcess(m.state.Processes[m.selected].PID)
		}
		return nil
	}

	if kind, ok := m.keys.snapshotKind(msg); ok {
		m.inspectSnapshot(kind)
	}
	return nil
}

// moveSelection moves the cursor of whichever list the active view shows.
func (m *Model) moveSelection(delta int) {
	switch m.state.View {
	case ViewDashboard:
		m.selected += delta
		m.clampSelection()
	case ViewHardware:
		if delta < 0 {
			m.connTable.MoveUp(-delta)
		} else {
			m.connTable.MoveDown(delta)
		}
	case ViewServices:
		m.svcOffset += delta
		if max := len(m.state.Services.Rows) - 1; m.svcOffset > max {
			m.svcOffset = max
		}
		if m.svcOffset < 0 {
			m.svcOffset = 0
		}
	}
}

func (m *Model) clampSelection() {
	if n := len(m.state.Processes); m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// HandleMouseMsg turns clicks on tab labels and process rows into
// navigation and inspection.
func (m *Model) HandleMouseMsg(msg tea.MouseMsg) tea.Cmd {
	if m.zones == nil || m.inspector.Open || m.showHelp {
		return nil
	}
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return nil
	}

	for _, v := range Views {
		if z := m.zones.Get(tabZoneID(v)); z != nil && z.InBounds(msg) {
			return m.Navigate(v)
		}
	}
	if m.state.View == ViewDashboard {
		for i, r := range m.state.Processes {
			if z := m.zones.Get(processZoneID(r.PID)); z != nil && z.InBounds(msg) {
				m.selected = i
				return m.inspectProcess(r.PID)
			}
		}
	}
	return nil
}

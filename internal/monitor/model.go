package monitor

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/rileyhilliard/vantasys/internal/jsontree"
	"github.com/rileyhilliard/vantasys/internal/logger"
)

// Default polling periods.
const (
	DefaultFastInterval  = time.Second
	DefaultSlowInterval  = 5 * time.Second
	DefaultServicesLimit = 100
)

// Layout heights reserved around the body.
const (
	headerHeight = 2
	footerHeight = 1
	eventsHeight = 7
)

// Options configures a dashboard Model. Zero values take defaults.
type Options struct {
	FastInterval  time.Duration
	SlowInterval  time.Duration
	LongWindow    int
	ShortWindow   int
	EventLogSize  int
	ServicesLimit int
	Tree          jsontree.Options
	Endpoint      string
	Logger        logger.Logger
	// Zones enables mouse hit-testing. Nil disables it.
	Zones *zone.Manager
}

func (o Options) withDefaults() Options {
	if o.FastInterval <= 0 {
		o.FastInterval = DefaultFastInterval
	}
	if o.SlowInterval <= 0 {
		o.SlowInterval = DefaultSlowInterval
	}
	if o.LongWindow <= 0 {
		o.LongWindow = DefaultLongWindow
	}
	if o.ShortWindow <= 0 {
		o.ShortWindow = DefaultShortWindow
	}
	if o.EventLogSize <= 0 {
		o.EventLogSize = DefaultEventLogSize
	}
	if o.ServicesLimit <= 0 {
		o.ServicesLimit = DefaultServicesLimit
	}
	if o.Tree.MaxArray <= 0 && o.Tree.MaxDepth <= 0 && o.Tree.Indent == "" {
		o.Tree = jsontree.DefaultOptions()
	}
	if o.Logger == nil {
		o.Logger = logger.Noop()
	}
	return o
}

// Model is the Bubble Tea model for the telemetry dashboard.
type Model struct {
	source Source
	opts   Options
	log    logger.Logger
	zones  *zone.Manager

	state     *AppState
	inspector Inspector
	keys      keyMap
	help      help.Model
	connTable table.Model

	width     int
	height    int
	selected  int
	svcOffset int
	showHelp  bool
	quitting  bool
}

// NewModel creates a dashboard reading from src.
func NewModel(src Source, opts Options) Model {
	opts = opts.withDefaults()
	return Model{
		source:    src,
		opts:      opts,
		log:       opts.Logger,
		zones:     opts.Zones,
		state:     NewAppState(opts.LongWindow, opts.ShortWindow, opts.EventLogSize),
		keys:      defaultKeyMap(),
		help:      help.New(),
		connTable: newConnectionsTable(nil, 0, 0),
	}
}

// Init runs both cycles once and arms their timers.
func (m Model) Init() tea.Cmd {
	m.state.Events.Add("Dashboard started")
	return tea.Batch(
		fastCycleCmd(m.source),
		slowCycleCmd(m.source, true),
		fastTickCmd(m.opts.FastInterval),
		slowTickCmd(m.opts.SlowInterval),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.HandleKeyMsg(msg)

	case tea.MouseMsg:
		if m.inspector.Open && m.inspector.confirm == nil {
			var cmd tea.Cmd
			m.inspector.viewport, cmd = m.inspector.viewport.Update(msg)
			return m, cmd
		}
		return m, m.HandleMouseMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.connTable.SetWidth(msg.Width)
		m.connTable.SetHeight(m.bodyHeight())
		if m.inspector.Open {
			w, h := m.inspectorSize()
			m.inspector.viewport.Width = w
			m.inspector.viewport.Height = h
		}

	case fastTickMsg:
		return m, tea.Batch(fastTickCmd(m.opts.FastInterval), fastCycleCmd(m.source))

	case slowTickMsg:
		return m, tea.Batch(slowTickCmd(m.opts.SlowInterval), slowCycleCmd(m.source, m.state.NeedsIdentity()))

	case fastResultMsg:
		m.applyFast(msg)

	case slowResultMsg:
		m.applySlow(msg)

	case connectionsMsg:
		m.applyConnections(msg)

	case servicesMsg:
		m.applyServices(msg)

	case processDetailMsg:
		m.applyProcessDetail(msg)

	case killResultMsg:
		m.applyKill(msg)

	default:
		if m.inspector.confirm != nil {
			return m, m.updateConfirm(msg)
		}
	}

	return m, nil
}

// View renders the dashboard, or an overlay on top of it.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var out string
	switch {
	case m.showHelp:
		out = m.renderHelpOverlay()
	case m.inspector.Open:
		out = m.viewInspector()
	default:
		out = m.renderDashboard()
	}

	if m.zones != nil {
		return m.zones.Scan(out)
	}
	return out
}

// refresh runs both cycles now without touching the timers.
func (m *Model) refresh() tea.Cmd {
	m.state.Events.Add("Manual refresh")
	return tea.Batch(
		fastCycleCmd(m.source),
		slowCycleCmd(m.source, m.state.NeedsIdentity()),
	)
}

// mark wraps s in a mouse zone when zones are enabled.
func (m Model) mark(id, s string) string {
	if m.zones == nil {
		return s
	}
	return m.zones.Mark(id, s)
}

// bodyHeight is the row budget between header and event log.
func (m Model) bodyHeight() int {
	h := m.height - headerHeight - footerHeight - eventsHeight
	if m.height == 0 || h < 5 {
		return 5
	}
	return h
}

// State returns the live dashboard state.
func (m Model) State() *AppState {
	return m.state
}

// Inspector returns the inspector overlay state.
func (m Model) Inspector() Inspector {
	return m.inspector
}

// ActiveView returns the view currently shown.
func (m Model) ActiveView() View {
	return m.state.View
}

// Selected returns the index of the highlighted process row.
func (m Model) Selected() int {
	return m.selected
}

// Endpoint returns the API base URL shown in the header.
func (m Model) Endpoint() string {
	return m.opts.Endpoint
}

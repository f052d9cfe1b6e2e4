package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/rileyhilliard/vantasys/internal/api"
	"github.com/rileyhilliard/vantasys/internal/format"
	"github.com/rileyhilliard/vantasys/internal/ui"
)

const defaultWidth = 100

// Width breakpoints for the dashboard grid.
const (
	BreakpointTwoColumn  = 80
	BreakpointFourColumn = 160
)

// renderDashboard renders header, active view, event log and footer.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.state.View {
	case ViewAnalytics:
		b.WriteString(m.state.Analytics.View(m.viewWidth()))
	case ViewHardware:
		b.WriteString(m.renderHardware())
	case ViewServices:
		b.WriteString(m.renderServices())
	default:
		b.WriteString(m.renderGrid())
	}

	b.WriteString("\n")
	b.WriteString(m.renderEvents())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) viewWidth() int {
	if m.width == 0 {
		return defaultWidth
	}
	return m.width
}

// columns is how many panels fit side by side.
func (m Model) columns() int {
	switch w := m.viewWidth(); {
	case w >= BreakpointFourColumn:
		return 4
	case w >= BreakpointTwoColumn:
		return 2
	default:
		return 1
	}
}

// renderHeader renders the title, view tabs and link status.
func (m Model) renderHeader() string {
	s := m.state

	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("vantasys")

	tabs := make([]string, 0, len(Views))
	for i, v := range Views {
		label := fmt.Sprintf("%d %s", i+1, v.Title())
		style := TabStyle
		if v == s.View {
			style = TabActiveStyle
		}
		tabs = append(tabs, m.mark(tabZoneID(v), style.Render(label)))
	}

	host := "--"
	if s.Identity != nil && s.Identity.Hostname != "" {
		host = s.Identity.Hostname
	}

	status := ConnectivityIndicator(s.Connectivity) + " " +
		LabelStyle.Render(s.Connectivity.String()) +
		MutedStyle.Render(fmt.Sprintf(" | %s | %s", host, lastUpdateText(s.LastUpdate)))

	return HeaderStyle.Render(title+"  "+strings.Join(tabs, "")) + "  " + status
}

func lastUpdateText(t time.Time) string {
	if t.IsZero() {
		return "waiting for data"
	}
	switch secs := int(time.Since(t).Seconds()); secs {
	case 0:
		return "updated just now"
	case 1:
		return "updated 1s ago"
	default:
		return fmt.Sprintf("updated %ds ago", secs)
	}
}

// renderGrid lays out the dashboard panels in rows of up to four columns.
func (m Model) renderGrid() string {
	s := m.state
	cols := m.columns()
	width := m.viewWidth()
	colWidth := width/cols - 1

	model := ""
	if s.Identity != nil {
		model = s.Identity.Processor
	}

	panels := []string{
		s.CPU.View(colWidth, model),
		s.Memory.View(colWidth),
		s.Sensors.View(colWidth),
		s.System.View(colWidth),
	}

	var rows []string
	for i := 0; i < len(panels); i += cols {
		end := i + cols
		if end > len(panels) {
			end = len(panels)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, spaced(panels[i:end])...))
	}

	wide := width - 1
	if cols > 1 {
		wide = width/2 - 1
		rows = append(rows,
			lipgloss.JoinHorizontal(lipgloss.Top, spaced([]string{ViewDisks(s.Disks, wide), s.Network.View(wide)})...),
		)
	} else {
		rows = append(rows, ViewDisks(s.Disks, wide), s.Network.View(wide))
	}
	rows = append(rows, m.viewProcesses(width-1))

	return joinBlocks(rows...)
}

// spaced puts a one-column gutter after every block but the last.
func spaced(blocks []string) []string {
	out := make([]string, 0, len(blocks)*2)
	for i, b := range blocks {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, b)
	}
	return out
}

// renderHardware shows the full identity panel over the connections table.
func (m Model) renderHardware() string {
	width := m.viewWidth() - 1
	c := m.state.Connections

	var conn string
	switch {
	case c.Loading:
		conn = Section("Connections", "", []string{MutedStyle.Render(msgFetchConnections)}, width)
	case c.Err != "":
		conn = Section("Connections", "", []string{ErrorStyle.Render(c.Err)}, width)
	case len(c.Rows) == 0:
		conn = Section("Connections", "0", []string{MutedStyle.Render("No active connections")}, width)
	default:
		conn = Section("Connections", itoa(len(c.Rows)), splitLines(m.connTable.View()), width)
	}

	return joinBlocks(m.state.System.View(width), conn)
}

var connectionColumns = []ui.TableColumn{
	{Title: "PID", Width: 8},
	{Title: "PROCESS", Width: 20},
	{Title: "TYPE", Width: 6},
	{Title: "LOCAL", Width: 24},
	{Title: "REMOTE", Width: 24},
	{Title: "STATUS", Width: 12},
}

// connectionRow formats one connection. Unknown pid and name render as
// "-" and "?".
func connectionRow(c api.Connection) table.Row {
	pid := "-"
	if c.PID != nil {
		pid = fmt.Sprint(*c.PID)
	}
	name := c.ProcessName
	if name == "" {
		name = "?"
	}
	return table.Row{pid, name, c.Type, c.LocalAddr, c.RemoteAddr, c.Status}
}

// newConnectionsTable builds the focused bubbles table for the hardware view.
func newConnectionsTable(rows []api.Connection, width, height int) table.Model {
	tableRows := make([]table.Row, 0, len(rows))
	for _, c := range rows {
		tableRows = append(tableRows, connectionRow(c))
	}

	t := ui.NewTable(connectionColumns, tableRows)
	t.Focus()
	if height > 0 {
		t.SetHeight(height)
	}
	if width > 0 {
		t.SetWidth(width - 4)
	}
	return t
}

// renderServices renders the services table from the current scroll offset.
func (m Model) renderServices() string {
	width := m.viewWidth() - 1
	svc := m.state.Services

	switch {
	case svc.Loading:
		return Section("Services", "", []string{MutedStyle.Render(msgFetchServices)}, width)
	case svc.Message == servicesFailed:
		return Section("Services", "", []string{ErrorStyle.Render(svc.Message)}, width)
	case svc.Message != "":
		return Section("Services", "0", []string{MutedStyle.Render(svc.Message)}, width)
	}

	visible := m.bodyHeight() - 4
	if visible < 1 {
		visible = 1
	}
	start := m.svcOffset
	if start > len(svc.Rows) {
		start = len(svc.Rows)
	}
	end := start + visible
	if end > len(svc.Rows) {
		end = len(svc.Rows)
	}
	page := svc.Rows[start:end]

	rows := make([][]string, 0, len(page))
	for _, r := range page {
		pid := "-"
		if r.PID != nil {
			pid = fmt.Sprint(*r.PID)
		}
		rows = append(rows, []string{
			format.Truncate(r.DisplayName, 40),
			format.Truncate(r.Name, 24),
			strings.ToUpper(r.Status),
			r.StartType,
			pid,
		})
	}

	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorBorder)).
		Headers("DISPLAY NAME", "NAME", "STATUS", "START", "PID").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == ltable.HeaderRow {
				return base.Foreground(ColorAccent).Bold(true)
			}
			if col == 2 && row >= 0 && row < len(page) {
				return base.Foreground(serviceStatusColor(page[row].Status))
			}
			return base.Foreground(ColorTextSecondary)
		})

	value := fmt.Sprintf("%d-%d of %d", start+1, end, svc.Total)
	return Section("Services", value, splitLines(t.Render()), width)
}

func serviceStatusColor(status string) lipgloss.Color {
	if strings.EqualFold(status, "running") {
		return ColorHealthy
	}
	return ColorTextMuted
}

// renderEvents renders the newest event log entries.
func (m Model) renderEvents() string {
	width := m.viewWidth() - 1
	entries := m.state.Events.Entries()
	if max := eventsHeight - 2; len(entries) > max {
		entries = entries[:max]
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, EventStyle.Render(format.Truncate(e, width-4)))
	}
	if len(lines) == 0 {
		lines = append(lines, MutedStyle.Render("No events yet"))
	}
	return Section("Events", itoa(m.state.Events.Len()), lines, width)
}

// renderFooter renders the short key help.
func (m Model) renderFooter() string {
	return FooterStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

func splitLines(s string) []string {
	return strings.Split(s, "\n")
}

// joinBlocks stacks blocks vertically, left aligned.
func joinBlocks(blocks ...string) string {
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

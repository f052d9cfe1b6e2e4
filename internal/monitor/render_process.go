package monitor

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/vantasys/internal/api"
	"github.com/rileyhilliard/vantasys/internal/format"
)

const procNameLen = 18

// ProcessRow is one line of the top-process list.
type ProcessRow struct {
	PID  int32
	Name string
	CPU  string
}

// RenderProcesses builds one row per reported process, in API order.
func RenderProcesses(procs []api.Process) []ProcessRow {
	rows := make([]ProcessRow, 0, len(procs))
	for _, p := range procs {
		rows = append(rows, ProcessRow{
			PID:  p.PID,
			Name: format.Truncate(p.Name, procNameLen),
			CPU:  fmt.Sprintf("%.1f", p.CPUPercent),
		})
	}
	return rows
}

// processZoneID names the clickable zone for a process row.
func processZoneID(pid int32) string {
	return fmt.Sprintf("proc-%d", pid)
}

// viewProcesses renders the process list with the selected row highlighted.
// Rows are marked as mouse zones so a click opens the inspector.
func (m Model) viewProcesses(width int) string {
	rows := m.state.Processes
	if len(rows) == 0 {
		return Section("Processes", "0", []string{MutedStyle.Render("Waiting for process data...")}, width)
	}

	inner := width - 4
	header := LabelStyle.Render(fmt.Sprintf("%-*s %7s %7s", procNameLen, "NAME", "PID", "CPU%"))
	lines := []string{header}
	for i, r := range rows {
		text := fmt.Sprintf("%-*s %7d %6s%%", procNameLen, r.Name, r.PID, r.CPU)
		pad := inner - lenVisible(text)
		if pad > 0 {
			text += strings.Repeat(" ", pad)
		}
		if i == m.selected {
			text = SelectedRowStyle.Render(text)
		} else {
			text = ValueStyle.Render(text)
		}
		lines = append(lines, m.mark(processZoneID(r.PID), text))
	}
	return Section("Processes", itoa(len(rows)), lines, width)
}

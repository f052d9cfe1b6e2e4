package monitor

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/vantasys/internal/format"
)

// AnalyticsPanel is a copy of the long-window history taken when the
// analytics view was last refreshed.
type AnalyticsPanel struct {
	CPU    []float64
	Memory []float64
	NetIn  []float64
	NetOut []float64
}

// RenderAnalytics snapshots the long-window buffers.
func RenderAnalytics(h *History) AnalyticsPanel {
	return AnalyticsPanel{
		CPU:    h.CPU.Snapshot(),
		Memory: h.Memory.Snapshot(),
		NetIn:  h.NetIn.Snapshot(),
		NetOut: h.NetOut.Snapshot(),
	}
}

const analyticsGraphHeight = 4

// View renders the three long-window graphs.
func (p AnalyticsPanel) View(width int) string {
	if len(p.CPU) == 0 {
		return Section("Analytics", "", []string{MutedStyle.Render("Collecting history...")}, width)
	}

	inner := width - 4
	graph := func(title, value string, data []float64, scale Scale, color lipgloss.Color) string {
		lines := splitLines(RenderBrailleGraph(data, inner, analyticsGraphHeight, scale, color))
		return Section(title, value, lines, width)
	}

	return joinBlocks(
		graph("CPU History", format.Percent(last(p.CPU)), p.CPU, ScalePercent, ColorGraph),
		graph("Memory History", format.Percent(last(p.Memory)), p.Memory, ScalePercent, ColorGraphMem),
		graph("Download", format.Rate(last(p.NetIn)), p.NetIn, ScaleAuto, ColorGraphIn),
		graph("Upload", format.Rate(last(p.NetOut)), p.NetOut, ScaleAuto, ColorGraph),
	)
}

func last(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return data[len(data)-1]
}

package monitor

import (
	"fmt"

	"github.com/rileyhilliard/vantasys/internal/api"
	"github.com/rileyhilliard/vantasys/internal/format"
)

// modulesPending is shown until the API reports installed modules.
const modulesPending = "Analyzing..."

// MemoryPanel is the rendered memory card.
type MemoryPanel struct {
	Used      string
	Available string
	Fill      float64
	Modules   string
	Spark     []float64
}

// RenderMemory maps a /memory payload onto the memory card.
func RenderMemory(data *api.Memory, charts *Charts) MemoryPanel {
	p := MemoryPanel{
		Used:      format.Bytes(float64(data.Used)),
		Available: format.Bytes(float64(data.Available)),
		Fill:      data.Percent,
		Modules:   modulesPending,
	}
	if len(data.Modules) > 0 {
		p.Modules = fmt.Sprintf("%d Stick(s) Detected", len(data.Modules))
	}

	charts.Memory.Push(data.Percent)
	p.Spark = charts.Memory.Snapshot()
	return p
}

// View renders the memory card.
func (p MemoryPanel) View(width int) string {
	inner := width - 4
	used := p.Used
	if used == "" {
		used = "--"
	}

	lines := []string{
		LabelStyle.Render("Used ") + ValueStyle.Render(used) + LabelStyle.Render("  Free ") + ValueStyle.Render(p.Available),
		ProgressBar(inner, p.Fill, ColorGraphMem),
		RenderSparkline(p.Spark, inner, ScalePercent, ColorGraphMem),
		MutedStyle.Render(p.Modules),
	}
	return Section("Memory", format.Percent(p.Fill), lines, width)
}

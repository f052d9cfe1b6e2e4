package monitor

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/vantasys/internal/api"
	"github.com/rileyhilliard/vantasys/internal/format"
)

// CoreIndicator is one logical core in the core grid.
type CoreIndicator struct {
	Index   int
	Percent float64
	Hot     bool
}

// CPUPanel is the rendered CPU card.
type CPUPanel struct {
	Usage     float64
	Headline  string
	Hot       bool
	Cores     []CoreIndicator
	Socket    string
	Microcode string
	L2Cache   string
	L3Cache   string
	Spark     []float64
}

// RenderCPU maps a /cpu payload onto the CPU card. The core grid is rebuilt
// only when the logical core count changes; socket, microcode and cache
// fields the payload omits keep their previous values.
func RenderCPU(data *api.CPU, prev CPUPanel, charts *Charts) CPUPanel {
	p := prev
	p.Usage = data.UsagePercent
	p.Headline = format.Percent(data.UsagePercent)
	p.Hot = data.UsagePercent > CPUHotThreshold

	if len(prev.Cores) != data.CountLogical {
		p.Cores = make([]CoreIndicator, len(data.PerCoreUsage))
		for i := range p.Cores {
			p.Cores[i].Index = i
		}
	} else {
		p.Cores = append([]CoreIndicator(nil), prev.Cores...)
	}
	for i, v := range data.PerCoreUsage {
		if i >= len(p.Cores) {
			break
		}
		p.Cores[i].Percent = v
		p.Cores[i].Hot = v > CoreHotThreshold
	}

	if data.Socket != nil && *data.Socket != "" {
		p.Socket = *data.Socket
	}
	if data.Microcode != nil && *data.Microcode != "" {
		p.Microcode = *data.Microcode
	}
	if data.L2Cache != nil && *data.L2Cache != "" {
		p.L2Cache = *data.L2Cache
	}
	if data.L3Cache != nil && *data.L3Cache != "" {
		p.L3Cache = *data.L3Cache
	}

	charts.CPU.Push(data.UsagePercent)
	p.Spark = charts.CPU.Snapshot()
	return p
}

// View renders the CPU card at the given outer width.
func (p CPUPanel) View(width int, model string) string {
	inner := width - 4
	headline := HeadlineStyle.Render(p.Headline)
	if p.Hot {
		headline = HotStyle.Render(p.Headline)
	}
	if p.Headline == "" {
		headline = MutedStyle.Render("--")
	}

	lines := []string{
		headline + "  " + ProgressBar(inner-lenVisible(p.Headline)-2, p.Usage, HotColor(p.Hot, ColorGraph)),
		RenderSparkline(p.Spark, inner, ScalePercent, HotColor(p.Hot, ColorGraph)),
	}
	if len(p.Cores) > 0 {
		lines = append(lines, LabelStyle.Render(fmt.Sprintf("%d cores ", len(p.Cores)))+RenderCoreBars(p.Cores))
	}
	if model != "" {
		lines = append(lines, MutedStyle.Render(format.Truncate(model, inner)))
	}

	var specs []string
	for _, kv := range [][2]string{{"Socket", p.Socket}, {"uCode", p.Microcode}, {"L2", p.L2Cache}, {"L3", p.L3Cache}} {
		if kv[1] != "" {
			specs = append(specs, LabelStyle.Render(kv[0]+" ")+ValueStyle.Render(kv[1]))
		}
	}
	if len(specs) > 0 {
		lines = append(lines, strings.Join(specs, "  "))
	}

	return Section("CPU", p.Headline, lines, width)
}

func lenVisible(s string) int {
	return len([]rune(s))
}

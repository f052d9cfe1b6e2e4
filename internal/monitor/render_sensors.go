package monitor

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/vantasys/internal/api"
	"github.com/rileyhilliard/vantasys/internal/format"
)

const (
	maxSensorRows = 5
	noSensorData  = "No sensor data"
)

// SensorRow is one temperature line.
type SensorRow struct {
	Label string
	Value string
	Hot   bool
}

// SensorPanel is the rendered sensors card.
type SensorPanel struct {
	Rows    []SensorRow
	Battery string
	Empty   bool
}

// RenderSensors flattens every temperature group in payload order and keeps
// the first five readings.
func RenderSensors(data *api.Sensors) SensorPanel {
	temps := data.Temperatures.Flatten()
	if len(temps) == 0 && data.Battery == nil {
		return SensorPanel{Empty: true}
	}

	var p SensorPanel
	for i, r := range temps {
		if i == maxSensorRows {
			break
		}
		p.Rows = append(p.Rows, SensorRow{
			Label: r.Label,
			Value: format.Celsius(r.Current),
			Hot:   r.Current > SensorHotThreshold,
		})
	}

	if b := data.Battery; b != nil {
		p.Battery = fmt.Sprintf("Battery %s", format.Percent(b.Percent))
		if b.PowerPlugged != nil && *b.PowerPlugged {
			p.Battery += " (plugged)"
		} else if b.SecsLeft != nil && *b.SecsLeft > 0 {
			p.Battery += " " + format.Uptime(float64(*b.SecsLeft)) + " left"
		}
	}
	return p
}

// View renders the sensors card.
func (p SensorPanel) View(width int) string {
	inner := width - 4
	var lines []string
	if p.Empty {
		lines = append(lines, MutedStyle.Render(noSensorData))
	}
	for _, r := range p.Rows {
		value := ValueStyle.Render(r.Value)
		if r.Hot {
			value = HotStyle.Render(r.Value)
		}
		label := format.Truncate(r.Label, inner-lenVisible(r.Value)-1)
		pad := inner - lenVisible(label) - lenVisible(r.Value)
		if pad < 1 {
			pad = 1
		}
		lines = append(lines, LabelStyle.Render(label)+strings.Repeat(" ", pad)+value)
	}
	if p.Battery != "" {
		lines = append(lines, LabelStyle.Render(p.Battery))
	}
	return Section("Sensors", fmt.Sprintf("%d", len(p.Rows)), lines, width)
}

package monitor

import (
	"strings"

	"github.com/rileyhilliard/vantasys/internal/api"
	"github.com/rileyhilliard/vantasys/internal/format"
)

// SystemPanel is the rendered host identity.
type SystemPanel struct {
	Hostname    string
	OS          string
	Processor   string
	GPU         string
	Motherboard string
	BIOS        string
	Uptime      string
}

// RenderSystem maps an identity onto the panel. GPU and board lines are
// only replaced when the payload carries them.
func RenderSystem(sys *api.System, prev SystemPanel) SystemPanel {
	p := prev
	p.Hostname = sys.Hostname
	p.OS = strings.TrimSpace(sys.OSName + " " + sys.OSEdition)
	p.Processor = sys.Processor
	if p.Processor == "" {
		p.Processor = sys.MachineType
	}
	if len(sys.GPU) > 0 {
		p.GPU = sys.GPU[0].Name
	}
	if mb := sys.Motherboard; mb != nil {
		p.Motherboard = strings.TrimSpace(mb.Manufacturer + " " + mb.Product)
		p.BIOS = mb.BIOSVersion
	}
	p.Uptime = format.Uptime(sys.UptimeSeconds)
	return p
}

// View renders the identity panel.
func (p SystemPanel) View(width int) string {
	inner := width - 4
	if p.Hostname == "" {
		return Section("System", "", []string{MutedStyle.Render("Identifying host...")}, width)
	}

	var lines []string
	for _, kv := range [][2]string{
		{"Host", p.Hostname},
		{"OS", p.OS},
		{"CPU", p.Processor},
		{"GPU", p.GPU},
		{"Board", p.Motherboard},
		{"BIOS", p.BIOS},
	} {
		if kv[1] == "" {
			continue
		}
		label := LabelStyle.Render(padRight(kv[0], 6))
		lines = append(lines, label+ValueStyle.Render(format.Truncate(kv[1], inner-6)))
	}
	return Section("System", p.Uptime, lines, width)
}

func padRight(s string, n int) string {
	if pad := n - lenVisible(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

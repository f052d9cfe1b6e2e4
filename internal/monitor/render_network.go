package monitor

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/vantasys/internal/api"
	"github.com/rileyhilliard/vantasys/internal/format"
)

const (
	ifaceNameLen = 8
	noAddress    = "---"
)

// NetCard is one interface that is up.
type NetCard struct {
	Name string
	IP   string
	Rx   string
	Tx   string
}

// NetworkPanel is the rendered network section.
type NetworkPanel struct {
	Cards     []NetCard
	Down      string
	Up        string
	SparkDown []float64
	SparkUp   []float64
}

// RenderNetwork builds a card per interface that is up and pushes the
// global rates into the network sparklines. Down interfaces are omitted.
func RenderNetwork(data *api.Network, charts *Charts) NetworkPanel {
	var p NetworkPanel
	for _, iface := range data.Interfaces {
		if !iface.IsUp {
			continue
		}
		ip := iface.IPAddress
		if ip == "" {
			ip = noAddress
		}
		p.Cards = append(p.Cards, NetCard{
			Name: format.Truncate(iface.Name, ifaceNameLen),
			IP:   ip,
			Rx:   format.Bytes(float64(iface.BytesRecv)),
			Tx:   format.Bytes(float64(iface.BytesSent)),
		})
	}

	p.Down = format.Rate(data.GlobalRate.DownloadSpeed)
	p.Up = format.Rate(data.GlobalRate.UploadSpeed)

	charts.NetIn.Push(data.GlobalRate.DownloadSpeed)
	charts.NetOut.Push(data.GlobalRate.UploadSpeed)
	p.SparkDown = charts.NetIn.Snapshot()
	p.SparkUp = charts.NetOut.Snapshot()
	return p
}

const netCardWidth = 20

// View renders the network section.
func (p NetworkPanel) View(width int) string {
	inner := width - 4
	lines := []string{
		lipgloss.NewStyle().Foreground(ColorGraphIn).Render("↓ "+p.Down) + "  " +
			lipgloss.NewStyle().Foreground(ColorGraph).Render("↑ "+p.Up),
		RenderSparkline(p.SparkDown, inner, ScaleAuto, ColorGraphIn),
		RenderSparkline(p.SparkUp, inner, ScaleAuto, ColorGraph),
	}

	tiles := make([]string, 0, len(p.Cards))
	for _, c := range p.Cards {
		tile := lipgloss.JoinVertical(lipgloss.Left,
			ValueStyle.Bold(true).Render(c.Name),
			MutedStyle.Render(c.IP),
			lipgloss.NewStyle().Foreground(ColorGraphIn).Render("↓"+c.Rx)+" "+
				lipgloss.NewStyle().Foreground(ColorGraph).Render("↑"+c.Tx),
		)
		tiles = append(tiles, lipgloss.NewStyle().Width(netCardWidth).Render(tile))
	}
	lines = append(lines, gridRows(tiles, netCardWidth, inner)...)

	return Section("Network", itoa(len(p.Cards))+" up", lines, width)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/vantasys/internal/api"
	"github.com/rileyhilliard/vantasys/internal/format"
)

// DiskCard is one partition.
type DiskCard struct {
	Mountpoint string
	Free       string
	Percent    float64
}

// RenderDisks builds one card per partition.
func RenderDisks(data *api.Disks) []DiskCard {
	cards := make([]DiskCard, 0, len(data.Partitions))
	for _, p := range data.Partitions {
		cards = append(cards, DiskCard{
			Mountpoint: p.Mountpoint,
			Free:       format.Bytes(float64(p.Free)) + " Free",
			Percent:    p.Percent,
		})
	}
	return cards
}

// diskCardWidth is the outer width of one partition tile.
const diskCardWidth = 22

// ViewDisks lays partition tiles out in rows that fit width.
func ViewDisks(cards []DiskCard, width int) string {
	if len(cards) == 0 {
		return Section("Storage", "0", []string{MutedStyle.Render("Waiting for disk data...")}, width)
	}

	inner := width - 4
	tiles := make([]string, 0, len(cards))
	for _, c := range cards {
		tile := lipgloss.JoinVertical(lipgloss.Left,
			ValueStyle.Bold(true).Render(format.Truncate(c.Mountpoint, diskCardWidth-2)),
			MutedStyle.Render(c.Free),
			ProgressBar(diskCardWidth-2, c.Percent, MetricColor(c.Percent)),
		)
		tiles = append(tiles, lipgloss.NewStyle().Width(diskCardWidth).Render(tile))
	}

	return Section("Storage", itoa(len(cards)), gridRows(tiles, diskCardWidth, inner), width)
}

// gridRows packs equal-width tiles into rows and returns the rendered lines.
func gridRows(tiles []string, tileWidth, width int) []string {
	perRow := width / tileWidth
	if perRow < 1 {
		perRow = 1
	}
	var lines []string
	for i := 0; i < len(tiles); i += perRow {
		end := i + perRow
		if end > len(tiles) {
			end = len(tiles)
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top, tiles[i:end]...)
		lines = append(lines, strings.Split(row, "\n")...)
	}
	return lines
}

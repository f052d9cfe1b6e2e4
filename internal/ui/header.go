package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HeaderInfo contains information to display in the header.
type HeaderInfo struct {
	Version string
	Tagline string
	// Detail lines print muted under the tagline (listen address, config path).
	Details []string
}

// HeaderWidth is the default width of the header divider
const HeaderWidth = 50

// RenderHeader renders the branded banner printed when the agent starts.
func RenderHeader(info HeaderInfo) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Foreground(ColorNeonPink).Bold(true).Render("vantasys"))
	if info.Version != "" {
		b.WriteString(" ")
		b.WriteString(lipgloss.NewStyle().Foreground(ColorNeonCyan).Render(info.Version))
	}
	b.WriteString("\n")

	if info.Tagline != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(ColorSecondary).Render(info.Tagline))
		b.WriteString("\n")
	}
	for _, d := range info.Details {
		b.WriteString(MutedStyle.Render(d))
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().Foreground(ColorGlassBorder).Render(strings.Repeat("━", HeaderWidth)))
	b.WriteString("\n")
	return b.String()
}

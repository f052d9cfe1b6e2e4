package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderHeader(t *testing.T) {
	out := RenderHeader(HeaderInfo{
		Version: "v1.2.0",
		Tagline: "telemetry agent",
		Details: []string{"listening on 0.0.0.0:8000"},
	})

	assert.Contains(t, out, "vantasys")
	assert.Contains(t, out, "v1.2.0")
	assert.Contains(t, out, "telemetry agent")
	assert.Contains(t, out, "listening on 0.0.0.0:8000")
	assert.Contains(t, out, strings.Repeat("━", HeaderWidth))
}

func TestRenderHeader_Minimal(t *testing.T) {
	out := RenderHeader(HeaderInfo{})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 2)
}

package monitor

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Plain output so rendered text can be compared directly.
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		name   string
		val    float64
		minVal float64
		maxVal float64
		want   float64
	}{
		{name: "middle value", val: 50, minVal: 0, maxVal: 100, want: 0.5},
		{name: "min value", val: 0, minVal: 0, maxVal: 100, want: 0},
		{name: "max value", val: 100, minVal: 0, maxVal: 100, want: 1},
		{name: "equal min max returns 0.5", val: 50, minVal: 50, maxVal: 50, want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, normalizeValue(tt.val, tt.minVal, tt.maxVal), 0.001)
		})
	}
}

func TestClampInt(t *testing.T) {
	tests := []struct {
		name string
		val  int
		max  int
		want int
	}{
		{name: "within range", val: 5, max: 10, want: 5},
		{name: "at max", val: 10, max: 10, want: 10},
		{name: "over max", val: 15, max: 10, want: 10},
		{name: "negative clamped to zero", val: -5, max: 10, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clampInt(tt.val, tt.max))
		})
	}
}

func TestSeriesMax(t *testing.T) {
	assert.Equal(t, 1.0, seriesMax(nil))
	assert.Equal(t, 1.0, seriesMax([]float64{0, 0}))
	assert.Equal(t, 2048.0, seriesMax([]float64{10, 2048, 5}))
}

func TestResampleData(t *testing.T) {
	t.Run("empty data returns nil", func(t *testing.T) {
		assert.Nil(t, resampleData(nil, 10))
	})

	t.Run("same size is unchanged", func(t *testing.T) {
		data := []float64{1, 2, 3}
		assert.Equal(t, data, resampleData(data, 3))
	})

	t.Run("single value is repeated", func(t *testing.T) {
		assert.Equal(t, []float64{7, 7, 7, 7}, resampleData([]float64{7}, 4))
	})

	t.Run("downsampling keeps peaks", func(t *testing.T) {
		got := resampleData([]float64{1, 99, 2, 3, 4, 5}, 3)
		require.Len(t, got, 3)
		assert.Equal(t, 99.0, got[0])
	})

	t.Run("upsampling interpolates", func(t *testing.T) {
		got := resampleData([]float64{0, 10}, 3)
		assert.InDeltaSlice(t, []float64{0, 5, 10}, got, 0.001)
	})
}

func TestBlockFor(t *testing.T) {
	assert.Equal(t, '▁', blockFor(0))
	assert.Equal(t, '█', blockFor(1))
	assert.Equal(t, '█', blockFor(3))
	assert.Equal(t, '▁', blockFor(-1))
}

func TestRenderSparkline(t *testing.T) {
	t.Run("empty data renders nothing", func(t *testing.T) {
		assert.Empty(t, RenderSparkline(nil, 10, ScalePercent, ColorGraph))
	})

	t.Run("width is honoured", func(t *testing.T) {
		out := RenderSparkline([]float64{0, 50, 100}, 12, ScalePercent, ColorGraph)
		assert.Equal(t, 12, lipgloss.Width(out))
	})

	t.Run("percent scale pins range", func(t *testing.T) {
		out := RenderSparkline([]float64{100, 100}, 2, ScalePercent, ColorGraph)
		assert.Equal(t, "██", out)
		out = RenderSparkline([]float64{10, 10}, 2, ScalePercent, ColorGraph)
		assert.Equal(t, "▁▁", out)
	})

	t.Run("auto scale stretches to max", func(t *testing.T) {
		out := RenderSparkline([]float64{10, 10}, 2, ScaleAuto, ColorGraph)
		assert.Equal(t, "██", out)
	})
}

func TestRenderBrailleGraph(t *testing.T) {
	t.Run("empty inputs render nothing", func(t *testing.T) {
		assert.Empty(t, RenderBrailleGraph(nil, 10, 2, ScalePercent, ColorGraph))
		assert.Empty(t, RenderBrailleGraph([]float64{1}, 0, 2, ScalePercent, ColorGraph))
		assert.Empty(t, RenderBrailleGraph([]float64{1}, 10, 0, ScalePercent, ColorGraph))
	})

	t.Run("dimensions", func(t *testing.T) {
		data := make([]float64, 300)
		for i := range data {
			data[i] = float64(i % 100)
		}
		out := RenderBrailleGraph(data, 30, 4, ScalePercent, ColorGraph)
		lines := strings.Split(out, "\n")
		require.Len(t, lines, 4)
		for _, l := range lines {
			assert.Equal(t, 30, lipgloss.Width(l))
		}
	})

	t.Run("full series fills every dot", func(t *testing.T) {
		out := RenderBrailleGraph([]float64{100, 100}, 1, 1, ScalePercent, ColorGraph)
		assert.Equal(t, "⣿", out)
	})

	t.Run("short data is right aligned", func(t *testing.T) {
		out := RenderBrailleGraph([]float64{100, 100}, 3, 1, ScalePercent, ColorGraph)
		assert.Equal(t, "⠀⠀⣿", out)
	})
}

func TestRenderCoreBars(t *testing.T) {
	cores := []CoreIndicator{
		{Index: 0, Percent: 0},
		{Index: 1, Percent: 100, Hot: true},
	}
	assert.Equal(t, "▁█", RenderCoreBars(cores))
	assert.Empty(t, RenderCoreBars(nil))
}

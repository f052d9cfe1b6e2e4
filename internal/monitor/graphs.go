package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// A braille cell is a 2x4 dot grid starting at U+2800. Dots 1-3 and 7 form
// the left column, 4-6 and 8 the right; dot n sets bit n-1.
const brailleBase = '⠀'

// sparklineBlocks are block characters for 8-level vertical resolution (lowest to highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// brailleDots maps [row][col] to the bit offset within a braille cell.
var brailleDots = [4][2]uint8{
	{0, 3},
	{1, 4},
	{2, 5},
	{6, 7},
}

// Scale selects how a series is mapped onto graph height.
type Scale int

const (
	// ScalePercent pins the range to 0-100 and colors by severity.
	ScalePercent Scale = iota
	// ScaleAuto stretches 0..max(data) and uses the series color.
	ScaleAuto
)

// seriesMax returns the upper bound for an auto-scaled series.
func seriesMax(data []float64) float64 {
	maxVal := 0.0
	for _, v := range data {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		return 1
	}
	return maxVal
}

// normalizeValue converts a value to 0-1 range given min/max bounds.
func normalizeValue(val, minVal, maxVal float64) float64 {
	if maxVal > minVal {
		return (val - minVal) / (maxVal - minVal)
	}
	return 0.5
}

// clampInt clamps an integer to a range [0, maxVal].
func clampInt(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// RenderBrailleGraph plots data as a width x height braille area chart.
// Each cell holds two samples and four vertical levels; data longer than
// the graph is downsampled keeping peaks, shorter data is right-aligned.
func RenderBrailleGraph(data []float64, width, height int, scale Scale, color lipgloss.Color) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	maxVal := 100.0
	if scale == ScaleAuto {
		maxVal = seriesMax(data)
	}
	totalDots := height * 4
	targetPoints := width * 2

	resampled := data
	if len(data) > targetPoints {
		resampled = resampleData(data, targetPoints)
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = brailleBase
		}
	}
	colMaxValues := make([]float64, width)

	horizOffset := targetPoints - len(resampled)
	if horizOffset < 0 {
		horizOffset = 0
	}

	for i, val := range resampled {
		normalized := normalizeValue(val, 0, maxVal)
		dotHeight := clampInt(int(normalized*float64(totalDots)), totalDots)

		charCol := (i + horizOffset) / 2
		if charCol >= width {
			continue
		}
		if val > colMaxValues[charCol] {
			colMaxValues[charCol] = val
		}
		subCol := (i + horizOffset) % 2

		for dot := 0; dot < dotHeight; dot++ {
			row := height - 1 - (dot / 4)
			if row < 0 {
				continue
			}
			subRow := 3 - (dot % 4)
			grid[row][charCol] |= rune(1 << brailleDots[subRow][subCol])
		}
	}

	lines := make([]string, 0, height)
	for _, row := range grid {
		var lineBuilder strings.Builder
		for colIdx, char := range row {
			c := color
			if scale == ScalePercent {
				c = MetricColor(colMaxValues[colIdx])
			}
			lineBuilder.WriteString(lipgloss.NewStyle().Foreground(c).Render(string(char)))
		}
		lines = append(lines, lineBuilder.String())
	}

	return strings.Join(lines, "\n")
}

// RenderSparkline renders a one-row block sparkline of width cells.
func RenderSparkline(data []float64, width int, scale Scale, color lipgloss.Color) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}

	maxVal := 100.0
	if scale == ScaleAuto {
		maxVal = seriesMax(data)
	}
	resampled := resampleData(data, width)

	var result strings.Builder
	for _, val := range resampled {
		result.WriteRune(blockFor(normalizeValue(val, 0, maxVal)))
	}

	return lipgloss.NewStyle().Foreground(color).Render(result.String())
}

// blockFor picks the block glyph for a 0-1 level.
func blockFor(level float64) rune {
	idx := clampInt(int(level*float64(len(sparklineBlocks)-1)), len(sparklineBlocks)-1)
	return sparklineBlocks[idx]
}

// RenderCoreBars draws one block per core, its height the core's usage.
func RenderCoreBars(cores []CoreIndicator) string {
	var b strings.Builder
	for _, c := range cores {
		style := lipgloss.NewStyle().Foreground(HotColor(c.Hot, ColorGraph))
		b.WriteString(style.Render(string(blockFor(c.Percent / 100))))
	}
	return b.String()
}

// resampleData resamples data to the target size.
// When downsampling (compressing), uses max-based sampling to preserve peaks/spikes.
// When upsampling (expanding), uses linear interpolation.
func resampleData(data []float64, targetSize int) []float64 {
	if len(data) == 0 || targetSize <= 0 {
		return nil
	}

	if len(data) == targetSize {
		return data
	}

	result := make([]float64, targetSize)

	if len(data) == 1 {
		for i := range result {
			result[i] = data[0]
		}
		return result
	}

	if len(data) > targetSize {
		bucketSize := float64(len(data)) / float64(targetSize)
		for i := 0; i < targetSize; i++ {
			start := int(float64(i) * bucketSize)
			end := int(float64(i+1) * bucketSize)
			if end > len(data) {
				end = len(data)
			}
			if start >= end {
				start = end - 1
			}
			if start < 0 {
				start = 0
			}

			maxVal := data[start]
			for j := start + 1; j < end; j++ {
				if data[j] > maxVal {
					maxVal = data[j]
				}
			}
			result[i] = maxVal
		}
		return result
	}

	scale := float64(len(data)-1) / float64(targetSize-1)
	for i := 0; i < targetSize; i++ {
		pos := float64(i) * scale
		idx := int(pos)
		frac := pos - float64(idx)

		if idx >= len(data)-1 {
			result[i] = data[len(data)-1]
		} else {
			result[i] = data[idx]*(1-frac) + data[idx+1]*frac
		}
	}

	return result
}

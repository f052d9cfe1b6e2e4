// Package format turns raw telemetry numbers into display strings.
package format

import (
	"fmt"
	"math"
	"strconv"
)

var byteUnits = []string{"B", "KB", "MB", "GB", "TB"}

// Bytes formats a byte count with 1024-based units and at most one
// decimal place, dropping a trailing ".0": 1536 → "1.5 KB", 1024 → "1 KB".
func Bytes(n float64) string {
	if n == 0 || math.IsNaN(n) {
		return "0 B"
	}
	if n < 0 {
		return "-" + Bytes(-n)
	}

	i := 0
	for n >= 1024 && i < len(byteUnits)-1 {
		n /= 1024
		i++
	}

	v := math.Round(n*10) / 10
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + byteUnits[i]
}

// Rate formats a bytes-per-second value.
func Rate(bytesPerSecond float64) string {
	return Bytes(bytesPerSecond) + "/s"
}

// Uptime formats seconds as HH:MM:SS. Hours keep counting past 24.
func Uptime(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int64(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Percent rounds to a whole-number percentage for headline display.
func Percent(p float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(p)))
}

// Celsius formats a temperature reading with no decimals.
func Celsius(c float64) string {
	return fmt.Sprintf("%.0f°C", c)
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBytes(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"zero", 0, "0 B"},
		{"bytes", 512, "512 B"},
		{"one byte", 1, "1 B"},
		{"exact KB drops decimal", 1024, "1 KB"},
		{"fractional KB", 1536, "1.5 KB"},
		{"rounds to one decimal", 1024 * 1.26, "1.3 KB"},
		{"MB", 5 * 1024 * 1024, "5 MB"},
		{"GB", 1073741824, "1 GB"},
		{"TB", 2.5 * 1024 * 1024 * 1024 * 1024, "2.5 TB"},
		{"beyond TB stays in TB", 2048 * 1024 * 1024 * 1024 * 1024, "2048 TB"},
		{"sub-byte rate", 0.4, "0.4 B"},
		{"negative", -2048, "-2 KB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Bytes(tt.in))
		})
	}
}

func TestRate(t *testing.T) {
	assert.Equal(t, "0 B/s", Rate(0))
	assert.Equal(t, "1.5 MB/s", Rate(1.5*1024*1024))
}

func TestUptime(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{61, "00:01:01"},
		{3600, "01:00:00"},
		{90061, "25:01:01"},
		{5.9, "00:00:05"},
		{-3, "00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Uptime(tt.in))
		})
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "50%", Percent(50))
	assert.Equal(t, "50%", Percent(49.5))
	assert.Equal(t, "49%", Percent(49.4))
	assert.Equal(t, "100%", Percent(100))
}

func TestCelsius(t *testing.T) {
	assert.Equal(t, "45°C", Celsius(45))
	assert.Equal(t, "81°C", Celsius(80.6))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "abc", Truncate("abc", 8))
	assert.Equal(t, "verylong", Truncate("verylongname", 8))
	assert.Equal(t, "héllo", Truncate("héllowörld", 5))
}

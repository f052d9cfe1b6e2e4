package ui

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// syncBuffer guards a bytes.Buffer so the animation goroutine can write to it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNewSpinner(t *testing.T) {
	s := NewSpinner(&syncBuffer{}, "Fetching cpu")
	assert.Equal(t, "Fetching cpu", s.Label())
	assert.Equal(t, SpinnerPending, s.State())
}

func TestSpinnerSuccess(t *testing.T) {
	out := &syncBuffer{}
	s := NewSpinner(out, "Fetching cpu")

	s.Start()
	assert.Equal(t, SpinnerInProgress, s.State())
	time.Sleep(2 * spinnerInterval)
	s.Success()

	assert.Equal(t, SpinnerSuccess, s.State())
	text := out.String()
	assert.Contains(t, text, "Fetching cpu...")
	assert.True(t, strings.HasSuffix(text, "\n"), "final line is terminated: %q", text)
	assert.Contains(t, text, SymbolSuccess)
}

func TestSpinnerFail(t *testing.T) {
	out := &syncBuffer{}
	s := NewSpinner(out, "Fetching disk")

	s.Start()
	s.Fail()

	assert.Equal(t, SpinnerFailed, s.State())
	assert.Contains(t, out.String(), SymbolFail)
	assert.Contains(t, out.String(), "Fetching disk")
}

func TestSpinnerFinishWithoutStart(t *testing.T) {
	out := &syncBuffer{}
	s := NewSpinner(out, "idle")

	s.Success()

	assert.Equal(t, SpinnerSuccess, s.State())
	assert.Contains(t, out.String(), "0.00s")
}

func TestSpinnerDoubleStart(t *testing.T) {
	s := NewSpinner(&syncBuffer{}, "twice")
	s.Start()
	s.Start()
	s.Success()
	assert.Equal(t, SpinnerSuccess, s.State())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0.00s"},
		{50 * time.Millisecond, "0.05s"},
		{300 * time.Millisecond, "0.3s"},
		{1200 * time.Millisecond, "1.2s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d))
	}
}

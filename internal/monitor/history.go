package monitor

import "sync"

// Default window sizes, in samples.
const (
	DefaultLongWindow  = 300
	DefaultShortWindow = 40
)

// RollingBuffer is a fixed-length window of float64 samples. It starts
// full of zeros and every Push evicts the oldest value, so Len is constant.
type RollingBuffer struct {
	mu   sync.RWMutex
	data []float64
	head int // next write position, which is also the oldest value
}

// NewRollingBuffer creates a zero-filled buffer of n samples.
func NewRollingBuffer(n int) *RollingBuffer {
	if n <= 0 {
		n = 1
	}
	return &RollingBuffer{data: make([]float64, n)}
}

// Push evicts the oldest sample and appends v as the newest.
func (r *RollingBuffer) Push(v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[r.head] = v
	r.head = (r.head + 1) % len(r.data)
}

// Snapshot returns a copy of the window, oldest first.
func (r *RollingBuffer) Snapshot() []float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]float64, len(r.data))
	n := copy(out, r.data[r.head:])
	copy(out[n:], r.data[:r.head])
	return out
}

// Last returns the newest sample.
func (r *RollingBuffer) Last() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.data[(r.head-1+len(r.data))%len(r.data)]
}

// Len returns the window length.
func (r *RollingBuffer) Len() int {
	return len(r.data)
}

// Series is one set of the four tracked metrics.
type Series struct {
	CPU    *RollingBuffer
	Memory *RollingBuffer
	NetIn  *RollingBuffer
	NetOut *RollingBuffer
}

func newSeries(n int) Series {
	return Series{
		CPU:    NewRollingBuffer(n),
		Memory: NewRollingBuffer(n),
		NetIn:  NewRollingBuffer(n),
		NetOut: NewRollingBuffer(n),
	}
}

// History holds the long-window buffers that back the analytics graphs.
// The poller pushes into it when results are applied.
type History struct {
	Series
}

// NewHistory creates the long-window buffers.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultLongWindow
	}
	return &History{Series: newSeries(size)}
}

// Charts holds the short sparkline buffers drawn on dashboard panels.
// Renderers push into it.
type Charts struct {
	Series
}

// NewCharts creates the sparkline buffers.
func NewCharts(size int) *Charts {
	if size <= 0 {
		size = DefaultShortWindow
	}
	return &Charts{Series: newSeries(size)}
}

package monitor

import (
	"context"
	"encoding/json"
	"reflect"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/vantasys/internal/api"
	"github.com/rileyhilliard/vantasys/internal/logger"
	"github.com/stretchr/testify/require"
)

// fakeSource serves canned payloads and counts calls per endpoint.
type fakeSource struct {
	mu    sync.Mutex
	calls map[string]int

	cpu         *api.CPU
	memory      *api.Memory
	sensors     *api.Sensors
	system      *api.System
	disks       *api.Disks
	network     *api.Network
	processes   []api.Process
	connections []api.Connection
	services    []api.Service
	detail      json.RawMessage

	errs map[string]error
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		calls:   make(map[string]int),
		errs:    make(map[string]error),
		cpu:     &api.CPU{UsagePercent: 50, CountLogical: 4, PerCoreUsage: []float64{10, 20, 30, 40}},
		memory:  &api.Memory{Total: 16 << 30, Used: 8 << 30, Available: 8 << 30, Percent: 50},
		sensors: &api.Sensors{},
		system: &api.System{
			Hostname:      "atlas",
			OSName:        "Linux",
			Processor:     "AMD Ryzen 9",
			UptimeSeconds: 100,
		},
		disks: &api.Disks{Partitions: []api.Partition{
			{Device: "/dev/sda1", Mountpoint: "/", Total: 100 << 30, Free: 40 << 30, Percent: 60},
		}},
		network: &api.Network{
			Interfaces: []api.Interface{{Name: "eth0", IsUp: true, IPAddress: "10.0.0.2"}},
			GlobalRate: api.GlobalRate{DownloadSpeed: 2048, UploadSpeed: 512},
		},
		processes: []api.Process{
			{PID: 101, Name: "postgres", CPUPercent: 12.5},
			{PID: 202, Name: "nginx", CPUPercent: 3},
		},
		detail: json.RawMessage(`{"pid":101,"name":"postgres","cmdline":["postgres","-D","/data"]}`),
	}
}

func (f *fakeSource) hit(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.errs[name]
}

func (f *fakeSource) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeSource) fail(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[name] = err
}

func typed[T any](f *fakeSource, name string, v *T) (*T, json.RawMessage, error) {
	if err := f.hit(name); err != nil {
		return nil, nil, err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}
	return v, raw, nil
}

func (f *fakeSource) CPU(context.Context) (*api.CPU, json.RawMessage, error) {
	return typed(f, "cpu", f.cpu)
}

func (f *fakeSource) Memory(context.Context) (*api.Memory, json.RawMessage, error) {
	return typed(f, "memory", f.memory)
}

func (f *fakeSource) Sensors(context.Context) (*api.Sensors, json.RawMessage, error) {
	return typed(f, "sensors", f.sensors)
}

func (f *fakeSource) System(context.Context) (*api.System, json.RawMessage, error) {
	// Hand out a copy so uptime extrapolation can't leak back into the fixture.
	sys := *f.system
	return typed(f, "system", &sys)
}

func (f *fakeSource) Disks(context.Context) (*api.Disks, json.RawMessage, error) {
	return typed(f, "disks", f.disks)
}

func (f *fakeSource) Network(context.Context) (*api.Network, json.RawMessage, error) {
	return typed(f, "network", f.network)
}

func (f *fakeSource) Processes(context.Context, int) ([]api.Process, error) {
	if err := f.hit("processes"); err != nil {
		return nil, err
	}
	return f.processes, nil
}

func (f *fakeSource) Connections(context.Context, int) ([]api.Connection, error) {
	if err := f.hit("connections"); err != nil {
		return nil, err
	}
	return f.connections, nil
}

func (f *fakeSource) Services(context.Context) ([]api.Service, error) {
	if err := f.hit("services"); err != nil {
		return nil, err
	}
	return f.services, nil
}

func (f *fakeSource) Process(context.Context, int32) (json.RawMessage, error) {
	if err := f.hit("process"); err != nil {
		return nil, err
	}
	return f.detail, nil
}

func (f *fakeSource) Kill(context.Context, int32) error {
	return f.hit("kill")
}

// newTestModel builds a model over src with a capturing logger.
func newTestModel(src Source) (Model, *logger.BufferLogger) {
	log := logger.NewBufferLogger()
	m := NewModel(src, Options{Logger: log})
	return m, log
}

// runCmd executes cmd and returns its message. Batches are not expected.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

// step feeds msg to the model and returns the updated model.
func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

// settle runs cmd and feeds every message it produces back through Update,
// following batches, sequences and the commands Update returns, until the
// chain is exhausted. Commands that block (ticks, blinks) are dropped.
func settle(t *testing.T, m Model, cmd tea.Cmd) (Model, []tea.Msg) {
	t.Helper()
	var delivered []tea.Msg
	queue := []tea.Cmd{cmd}
	for n := 0; len(queue) > 0; n++ {
		require.Less(t, n, 200, "command chain did not settle")
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := runBounded(c)
		if msg == nil {
			continue
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if seq, ok := sequenceOf(msg); ok {
			queue = append(queue, seq...)
			continue
		}
		delivered = append(delivered, msg)
		var next tea.Cmd
		m, next = step(t, m, msg)
		queue = append(queue, next)
	}
	return m, delivered
}

func runBounded(cmd tea.Cmd) tea.Msg {
	out := make(chan tea.Msg, 1)
	go func() { out <- cmd() }()
	select {
	case msg := <-out:
		return msg
	case <-time.After(200 * time.Millisecond):
		return nil
	}
}

// sequenceOf unpacks tea.Sequence, whose message type is unexported.
func sequenceOf(msg tea.Msg) ([]tea.Cmd, bool) {
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Slice || v.Type().Elem() != reflect.TypeOf(tea.Cmd(nil)) {
		return nil, false
	}
	cmds := make([]tea.Cmd, v.Len())
	for i := range cmds {
		cmds[i] = v.Index(i).Interface().(tea.Cmd)
	}
	return cmds, true
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

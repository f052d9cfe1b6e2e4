package monitor

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/vantasys/internal/api"
	verrors "github.com/rileyhilliard/vantasys/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotInspector_NoData(t *testing.T) {
	m, _ := newTestModel(newFakeSource())

	m, cmd := step(t, m, keyPress("c"))
	assert.Nil(t, cmd)

	in := m.Inspector()
	require.True(t, in.Open)
	assert.Equal(t, "CPU Inspector", in.Title)
	assert.Equal(t, msgNoSnapshot, in.Body)
	assert.Contains(t, m.View(), msgNoSnapshot)
}

func TestSnapshotInspector_RendersCachedPayload(t *testing.T) {
	src := newFakeSource()
	m, _ := newTestModel(src)
	m, _ = step(t, m, runCmd(t, slowCycleCmd(src, true)))

	tests := []struct {
		key   string
		title string
		want  string
	}{
		{"d", "DISK Inspector", "mountpoint: /"},
		{"n", "NETWORK Inspector", "download_speed: 2048"},
		{"y", "SYSTEM Inspector", "hostname: atlas"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			mm, _ := step(t, m, keyPress(tt.key))
			in := mm.Inspector()
			require.True(t, in.Open)
			assert.Equal(t, tt.title, in.Title)
			assert.Empty(t, in.Err)
			assert.Contains(t, in.Body, tt.want)
		})
	}
}

func TestSnapshotInspector_CollapsesLongArrays(t *testing.T) {
	src := newFakeSource()
	cores := make([]float64, 32)
	src.cpu = &api.CPU{UsagePercent: 5, CountLogical: 32, PerCoreUsage: cores}
	m, _ := newTestModel(src)
	m, _ = step(t, m, runCmd(t, fastCycleCmd(src)))

	m, _ = step(t, m, keyPress("c"))
	assert.Contains(t, m.Inspector().Body, "per_core_usage: [Array(32)]")
}

func TestSnapshotInspector_EscCloses(t *testing.T) {
	m, _ := newTestModel(newFakeSource())
	m, _ = step(t, m, keyPress("t"))
	require.True(t, m.Inspector().Open)

	m, _ = step(t, m, keyPress("esc"))
	assert.False(t, m.Inspector().Open)
}

func TestProcessInspector_Flow(t *testing.T) {
	src := newFakeSource()
	m, _ := newTestModel(src)
	m, _ = step(t, m, runCmd(t, slowCycleCmd(src, true)))

	m, cmd := step(t, m, keyPress("enter"))
	in := m.Inspector()
	require.True(t, in.Open)
	assert.Equal(t, "Process Inspector [PID 101]", in.Title)
	assert.True(t, in.Loading)
	assert.Equal(t, "> Inspecting process 101", m.State().Events.Entries()[0])

	m, _ = step(t, m, runCmd(t, cmd))
	in = m.Inspector()
	assert.False(t, in.Loading)
	assert.True(t, in.Loaded)
	assert.Contains(t, in.Body, "name: postgres")
	assert.Contains(t, in.Body, "cmdline:")
	assert.Contains(t, m.View(), "x terminate")
}

func TestProcessInspector_StaleResultIgnored(t *testing.T) {
	m, _ := newTestModel(newFakeSource())
	m.inspectProcess(7)

	m, _ = step(t, m, processDetailMsg{pid: 8, raw: []byte(`{"pid":8}`)})
	in := m.Inspector()
	assert.True(t, in.Loading)
	assert.Equal(t, int32(7), in.PID)
}

func TestProcessInspector_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "api detail",
			err: verrors.WrapWithCode(&api.StatusError{StatusCode: 404, Body: `{"detail":"Process not found"}`},
				verrors.ErrFetch, "request failed", ""),
			want: "Error: Process not found",
		},
		{
			name: "bare status",
			err:  &api.StatusError{StatusCode: 502, Body: "bad gateway"},
			want: "Error: HTTP 502",
		},
		{
			name: "transport",
			err:  errors.New("connection refused"),
			want: "Error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(newFakeSource())
			m.inspectProcess(9)
			m, _ = step(t, m, processDetailMsg{pid: 9, err: tt.err})

			in := m.Inspector()
			assert.Equal(t, tt.want, in.Err)
			assert.False(t, in.Loaded)
		})
	}
}

func TestTerminate_RequiresLoadedProcess(t *testing.T) {
	m, _ := newTestModel(newFakeSource())

	m.inspectSnapshot(api.KindCPU)
	assert.Nil(t, m.startTerminate())
	assert.False(t, m.Inspector().Confirming())

	m.inspectProcess(5)
	assert.Nil(t, m.startTerminate(), "still loading")
	assert.False(t, m.Inspector().Confirming())
}

func TestTerminate_PromptEscCancels(t *testing.T) {
	src := newFakeSource()
	m, _ := newTestModel(src)
	m.inspectProcess(101)
	m, _ = step(t, m, processDetailMsg{pid: 101, raw: src.detail})

	m, _ = step(t, m, keyPress("x"))
	require.True(t, m.Inspector().Confirming())

	m, _ = step(t, m, keyPress("q"))
	assert.True(t, m.Inspector().Open, "keys go to the prompt, not the dashboard")

	m, _ = step(t, m, keyPress("esc"))
	assert.False(t, m.Inspector().Confirming())
	assert.True(t, m.Inspector().Open)
	assert.Zero(t, src.count("kill"))
}

func TestTerminate_ConfirmKillsAndCloses(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		wantKill bool
	}{
		{"accept with y", []string{"y"}, true},
		{"select terminate then enter", []string{"left", "enter"}, true},
		{"reject with n", []string{"n"}, false},
		{"enter on default cancels", []string{"enter"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newFakeSource()
			m, _ := newTestModel(src)
			m.inspectProcess(101)
			m, _ = step(t, m, processDetailMsg{pid: 101, raw: src.detail})

			m, cmd := step(t, m, keyPress("x"))
			require.True(t, m.Inspector().Confirming())
			m, _ = settle(t, m, cmd)

			for _, k := range tt.keys {
				m, cmd = step(t, m, keyPress(k))
				m, _ = settle(t, m, cmd)
			}

			assert.False(t, m.Inspector().Confirming())
			if tt.wantKill {
				assert.Equal(t, 1, src.count("kill"))
				assert.False(t, m.Inspector().Open)
				assert.Equal(t, "> Killed PID 101", m.State().Events.Entries()[0])
				return
			}
			assert.Zero(t, src.count("kill"))
			assert.True(t, m.Inspector().Open)
			assert.NotEqual(t, "> Killed PID 101", m.State().Events.Entries()[0])
		})
	}
}

func TestKillResult(t *testing.T) {
	t.Run("success closes overlay and logs", func(t *testing.T) {
		m, _ := newTestModel(newFakeSource())
		m.inspectProcess(101)

		m, _ = step(t, m, killResultMsg{pid: 101})
		assert.False(t, m.Inspector().Open)
		assert.Equal(t, "> Killed PID 101", m.State().Events.Entries()[0])
	})

	t.Run("failure keeps overlay open", func(t *testing.T) {
		m, log := newTestModel(newFakeSource())
		m.inspectProcess(101)
		before := m.State().Events.Len()

		m, _ = step(t, m, killResultMsg{pid: 101, err: errors.New("access denied")})
		assert.True(t, m.Inspector().Open)
		assert.Equal(t, before, m.State().Events.Len())
		assert.True(t, log.Contains("error", "terminate PID 101 failed"))
	})
}

func TestKillCmd_CallsSource(t *testing.T) {
	src := newFakeSource()
	msg := runCmd(t, killCmd(src, 101))
	assert.Equal(t, killResultMsg{pid: 101}, msg)
	assert.Equal(t, 1, src.count("kill"))
}

func TestInspector_WindowResize(t *testing.T) {
	m, _ := newTestModel(newFakeSource())
	m.inspectSnapshot(api.KindCPU)

	m, _ = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	w, h := m.inspectorSize()
	assert.Equal(t, 114, w)
	assert.Equal(t, 32, h)
	assert.Equal(t, w, m.inspector.viewport.Width)
}

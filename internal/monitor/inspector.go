package monitor

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/vantasys/internal/api"
	"github.com/rileyhilliard/vantasys/internal/errors"
	"github.com/rileyhilliard/vantasys/internal/jsontree"
)

type inspectorMode int

const (
	modeSnapshot inspectorMode = iota
	modeProcess
)

const (
	msgProcessLoading = "Fetching detailed process structure..."
	msgNoSnapshot     = "No data available to inspect."
	confirmKey        = "confirm"
)

// Inspector is the detail overlay. In process mode it owns a fetch of
// /process/{pid}; in snapshot mode it only reads the SnapshotCache.
type Inspector struct {
	Open    bool
	Mode    inspectorMode
	PID     int32
	Kind    api.Kind
	Title   string
	Loading bool
	Err     string
	Body    string
	Loaded  bool

	viewport viewport.Model
	confirm  *huh.Form
}

// Confirming reports whether the terminate prompt is showing.
func (i Inspector) Confirming() bool {
	return i.confirm != nil
}

type processDetailMsg struct {
	pid int32
	raw json.RawMessage
	err error
}

type killResultMsg struct {
	pid int32
	err error
}

func fetchProcessCmd(src Source, pid int32) tea.Cmd {
	return func() tea.Msg {
		raw, err := src.Process(context.Background(), pid)
		return processDetailMsg{pid: pid, raw: raw, err: err}
	}
}

func killCmd(src Source, pid int32) tea.Cmd {
	return func() tea.Msg {
		return killResultMsg{pid: pid, err: src.Kill(context.Background(), pid)}
	}
}

// inspectProcess opens the overlay for pid and starts its detail fetch.
func (m *Model) inspectProcess(pid int32) tea.Cmd {
	m.inspector = Inspector{
		Open:     true,
		Mode:     modeProcess,
		PID:      pid,
		Title:    fmt.Sprintf("Process Inspector [PID %d]", pid),
		Loading:  true,
		Body:     msgProcessLoading,
		viewport: m.newInspectorViewport(),
	}
	m.syncInspectorContent()
	m.state.Events.Add(fmt.Sprintf("Inspecting process %d", pid))
	return fetchProcessCmd(m.source, pid)
}

// inspectSnapshot opens the overlay on whatever is cached for kind.
func (m *Model) inspectSnapshot(kind api.Kind) {
	m.inspector = Inspector{
		Open:     true,
		Mode:     modeSnapshot,
		Kind:     kind,
		Title:    strings.ToUpper(kind.String()) + " Inspector",
		viewport: m.newInspectorViewport(),
	}
	m.state.Events.Add(fmt.Sprintf("Inspecting %s snapshot", kind))

	raw, ok := m.state.Cache.Get(kind)
	if !ok {
		m.inspector.Body = msgNoSnapshot
	} else if tree, err := m.renderTree(raw); err != nil {
		m.inspector.Err = "Error: " + err.Error()
	} else {
		m.inspector.Body = tree
	}
	m.syncInspectorContent()
}

func (m *Model) closeInspector() {
	m.inspector = Inspector{}
}

func (m *Model) applyProcessDetail(msg processDetailMsg) {
	in := &m.inspector
	if !in.Open || in.Mode != modeProcess || in.PID != msg.pid {
		return
	}
	in.Loading = false
	if msg.err != nil {
		in.Err = "Error: " + failureReason(msg.err)
		m.syncInspectorContent()
		return
	}
	tree, err := m.renderTree(msg.raw)
	if err != nil {
		in.Err = "Error: " + err.Error()
	} else {
		in.Body = tree
		in.Loaded = true
	}
	m.syncInspectorContent()
}

// applyKill closes the overlay and records the kill. A failed kill is
// logged and leaves the overlay open; it does not reach the event log.
func (m *Model) applyKill(msg killResultMsg) {
	if msg.err != nil {
		m.log.Error("terminate PID %d failed: %v", msg.pid, msg.err)
		return
	}
	if m.inspector.Open && m.inspector.Mode == modeProcess && m.inspector.PID == msg.pid {
		m.closeInspector()
	}
	m.state.Events.Add(fmt.Sprintf("Killed PID %d", msg.pid))
}

// startTerminate shows the confirm prompt for the inspected process.
func (m *Model) startTerminate() tea.Cmd {
	in := &m.inspector
	if in.Mode != modeProcess || !in.Loaded || in.confirm != nil {
		return nil
	}
	in.confirm = newKillConfirm(in.PID)
	return in.confirm.Init()
}

func newKillConfirm(pid int32) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key(confirmKey).
				Title("Terminate?").
				Description(fmt.Sprintf("PID %d will be killed.", pid)).
				Affirmative("Terminate").
				Negative("Cancel"),
		),
	).WithShowHelp(false)
}

// updateConfirm feeds msg to the terminate prompt and acts on its outcome.
func (m *Model) updateConfirm(msg tea.Msg) tea.Cmd {
	in := &m.inspector
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		in.confirm = nil
		return nil
	}

	model, cmd := in.confirm.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		in.confirm = f
	}

	switch in.confirm.State {
	case huh.StateCompleted:
		confirmed := in.confirm.GetBool(confirmKey)
		in.confirm = nil
		if confirmed {
			return killCmd(m.source, in.PID)
		}
		return nil
	case huh.StateAborted:
		in.confirm = nil
		return nil
	}
	return cmd
}

// updateInspector handles keys while the overlay is open and no prompt is up.
func (m *Model) updateInspector(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.String() == "esc":
		m.closeInspector()
		return nil
	case msg.String() == "x":
		return m.startTerminate()
	}
	var cmd tea.Cmd
	m.inspector.viewport, cmd = m.inspector.viewport.Update(msg)
	return cmd
}

var (
	treeKeyStyle   = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	treeValueStyle = lipgloss.NewStyle().Foreground(ColorTextPrimary)

	inspectorBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorAccent).
				Padding(0, 1)
)

func (m *Model) renderTree(raw json.RawMessage) (string, error) {
	node, err := jsontree.Parse(raw)
	if err != nil {
		return "", err
	}
	opts := m.opts.Tree
	opts.Key = func(s string) string { return treeKeyStyle.Render(s) }
	opts.Value = func(s string) string { return treeValueStyle.Render(s) }
	return jsontree.Render(node, opts), nil
}

func (m *Model) inspectorSize() (int, int) {
	w, h := m.width-6, m.height-8
	if m.width == 0 {
		w = 74
	}
	if m.height == 0 {
		h = 16
	}
	if w < 20 {
		w = 20
	}
	if h < 3 {
		h = 3
	}
	return w, h
}

func (m *Model) newInspectorViewport() viewport.Model {
	w, h := m.inspectorSize()
	return viewport.New(w, h)
}

func (m *Model) syncInspectorContent() {
	in := &m.inspector
	switch {
	case in.Err != "":
		in.viewport.SetContent(ErrorStyle.Render(in.Err))
	case in.Loading || in.Body == msgNoSnapshot:
		in.viewport.SetContent(MutedStyle.Render(in.Body))
	default:
		in.viewport.SetContent(in.Body)
	}
}

// viewInspector renders the overlay box.
func (m Model) viewInspector() string {
	in := m.inspector
	w, _ := m.inspectorSize()

	hints := []string{"esc close", "↑↓ scroll"}
	if in.Mode == modeProcess && in.Loaded {
		hints = append(hints, "x terminate")
	}

	parts := []string{
		CardTitleStyle.Render(in.Title),
		"",
		in.viewport.View(),
	}
	if in.confirm != nil {
		parts = append(parts, "", in.confirm.View())
	} else {
		parts = append(parts, "", MutedStyle.Render(strings.Join(hints, " · ")))
	}

	box := inspectorBoxStyle.Width(w + 2).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// failureReason turns a fetch error into a short operator-facing reason,
// preferring the API's own "detail" text when it sent one.
func failureReason(err error) string {
	var statusErr *api.StatusError
	if stderrors.As(err, &statusErr) {
		var body struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal([]byte(statusErr.Body), &body) == nil && body.Detail != "" {
			return body.Detail
		}
		return fmt.Sprintf("HTTP %d", statusErr.StatusCode)
	}
	return errors.Short(err)
}

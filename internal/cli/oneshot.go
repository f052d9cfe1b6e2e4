package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/rileyhilliard/vantasys/internal/api"
	"github.com/rileyhilliard/vantasys/internal/errors"
	"github.com/rileyhilliard/vantasys/internal/format"
	"github.com/rileyhilliard/vantasys/internal/jsontree"
	"github.com/rileyhilliard/vantasys/internal/ui"
)

// inspectCommand fetches one resource or process and prints it.
func inspectCommand(target string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	label, fetch, err := inspectFetcher(ctx, client, target)
	if err != nil {
		return err
	}

	raw, err := withSpinner(label, fetch)
	if err != nil {
		return err
	}

	if machineMode {
		return WriteJSONSuccess(os.Stdout, raw)
	}

	tree := jsontree.DefaultOptions()
	tree.MaxArray = cfg.Inspector.MaxArray
	tree.MaxDepth = cfg.Inspector.MaxDepth
	return printTree(os.Stdout, raw, tree)
}

// inspectFetcher resolves target to a spinner label and the request that
// fetches it: a positive integer is a pid, anything else a resource kind.
func inspectFetcher(ctx context.Context, client *api.Client, target string) (string, func() (json.RawMessage, error), error) {
	if pid, ok := parsePID(target); ok {
		return fmt.Sprintf("Fetching process %d", pid), func() (json.RawMessage, error) {
			return client.Process(ctx, pid)
		}, nil
	}
	kind, err := api.ParseKind(target)
	if err != nil {
		return "", nil, unknownTargetError(target, err)
	}
	return "Fetching " + kind.String(), func() (json.RawMessage, error) {
		return client.Fetch(ctx, kind)
	}, nil
}

// printTree renders raw with styled keys and values.
func printTree(w io.Writer, raw []byte, opts jsontree.Options) error {
	root, err := jsontree.Parse(raw)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrDecode,
			"The agent sent a payload that isn't valid JSON",
			"Check that --url points at a vantasys agent")
	}
	keyStyle := lipgloss.NewStyle().Foreground(ui.ColorNeonCyan)
	valueStyle := lipgloss.NewStyle().Foreground(ui.ColorPrimary)
	opts.Key = func(s string) string { return keyStyle.Render(s) }
	opts.Value = func(s string) string { return valueStyle.Render(s) }

	_, err = fmt.Fprintln(w, jsontree.Render(root, opts))
	return err
}

// psCommand prints the process list as a table.
func psCommand(limit int) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if limit <= 0 {
		limit = cfg.Server.ProcessLimit
	}
	client := newClient(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	procs, err := withSpinner("Fetching processes", func() ([]api.Process, error) {
		return client.Processes(ctx, limit)
	})
	if err != nil {
		return err
	}

	if machineMode {
		return WriteJSONSuccess(os.Stdout, procs)
	}
	fmt.Fprint(os.Stdout, renderProcessTable(procs))
	return nil
}

var processColumns = []ui.TableColumn{
	{Title: "PID", Width: 8},
	{Title: "NAME", Width: 28},
	{Title: "USER", Width: 14},
	{Title: "CPU", Width: 7},
	{Title: "MEM", Width: 7},
	{Title: "STATUS", Width: 10},
}

// renderProcessTable formats procs for the terminal. An empty list prints
// a muted notice instead of a bare header.
func renderProcessTable(procs []api.Process) string {
	if len(procs) == 0 {
		return ui.MutedStyle.Render("No processes reported.") + "\n"
	}
	rows := make([][]string, len(procs))
	for i, p := range procs {
		rows[i] = []string{
			fmt.Sprintf("%d", p.PID),
			format.Truncate(p.Name, 28),
			format.Truncate(p.Username, 14),
			fmt.Sprintf("%.1f%%", p.CPUPercent),
			fmt.Sprintf("%.1f%%", p.MemoryPercent),
			p.Status,
		}
	}
	return ui.RenderSimpleTable(processColumns, rows) + "\n"
}

// withSpinner runs fetch behind a spinner on stderr when stderr is a
// terminal and output is meant for humans.
func withSpinner[T any](label string, fetch func() (T, error)) (T, error) {
	if machineMode || !term.IsTerminal(int(os.Stderr.Fd())) {
		return fetch()
	}
	s := ui.NewSpinner(os.Stderr, label)
	s.Start()
	out, err := fetch()
	if err != nil {
		s.Fail()
	} else {
		s.Success()
	}
	return out, err
}

func unknownTargetError(target string, err error) error {
	kinds := make([]string, len(api.Kinds))
	for i, k := range api.Kinds {
		kinds[i] = k.String()
	}
	return errors.WrapWithCode(err, errors.ErrConfig,
		fmt.Sprintf("Don't know how to inspect %q", target),
		"Pass a process id or one of: "+strings.Join(kinds, ", "))
}

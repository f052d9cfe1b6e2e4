package monitor

import (
	"context"
	"encoding/json"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/vantasys/internal/api"
	"golang.org/x/sync/errgroup"
)

// Source is the telemetry API as the dashboard sees it. *api.Client
// satisfies it.
type Source interface {
	CPU(ctx context.Context) (*api.CPU, json.RawMessage, error)
	Memory(ctx context.Context) (*api.Memory, json.RawMessage, error)
	Sensors(ctx context.Context) (*api.Sensors, json.RawMessage, error)
	System(ctx context.Context) (*api.System, json.RawMessage, error)
	Disks(ctx context.Context) (*api.Disks, json.RawMessage, error)
	Network(ctx context.Context) (*api.Network, json.RawMessage, error)
	Processes(ctx context.Context, limit int) ([]api.Process, error)
	Connections(ctx context.Context, limit int) ([]api.Connection, error)
	Services(ctx context.Context) ([]api.Service, error)
	Process(ctx context.Context, pid int32) (json.RawMessage, error)
	Kill(ctx context.Context, pid int32) error
}

// fastTickMsg and slowTickMsg re-arm their own cycle.
type fastTickMsg time.Time
type slowTickMsg time.Time

// fastResultMsg is the joined outcome of one fast cycle. err is set when
// any of the three fetches failed, in which case nothing else is.
type fastResultMsg struct {
	cpu     *api.CPU
	memory  *api.Memory
	sensors *api.Sensors
	raw     map[api.Kind]json.RawMessage
	err     error
	at      time.Time
}

// slowResultMsg is the outcome of one slow cycle. The identity fetch is
// reported separately from the three-way join.
type slowResultMsg struct {
	system    *api.System
	systemRaw json.RawMessage
	systemErr error

	disks     *api.Disks
	network   *api.Network
	processes []api.Process
	raw       map[api.Kind]json.RawMessage
	err       error
}

func fastTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return fastTickMsg(t)
	})
}

func slowTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return slowTickMsg(t)
	})
}

// fastCycleCmd fetches cpu, memory and sensors concurrently and reports
// once all three settle. Runs are never cancelled; a stalled run simply
// overlaps the next one.
func fastCycleCmd(src Source) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var (
			g                       errgroup.Group
			cpu                     *api.CPU
			mem                     *api.Memory
			sens                    *api.Sensors
			cpuRaw, memRaw, sensRaw json.RawMessage
		)

		g.Go(func() (err error) {
			cpu, cpuRaw, err = src.CPU(ctx)
			return err
		})
		g.Go(func() (err error) {
			mem, memRaw, err = src.Memory(ctx)
			return err
		})
		g.Go(func() (err error) {
			sens, sensRaw, err = src.Sensors(ctx)
			return err
		})

		if err := g.Wait(); err != nil {
			return fastResultMsg{err: err, at: time.Now()}
		}
		return fastResultMsg{
			cpu:     cpu,
			memory:  mem,
			sensors: sens,
			raw: map[api.Kind]json.RawMessage{
				api.KindCPU:     cpuRaw,
				api.KindMemory:  memRaw,
				api.KindSensors: sensRaw,
			},
			at: time.Now(),
		}
	}
}

// slowCycleCmd optionally fetches the host identity first, then fetches
// disks, network and processes concurrently.
func slowCycleCmd(src Source, needIdentity bool) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var msg slowResultMsg

		if needIdentity {
			msg.system, msg.systemRaw, msg.systemErr = src.System(ctx)
		}

		var (
			g               errgroup.Group
			disks           *api.Disks
			network         *api.Network
			procs           []api.Process
			diskRaw, netRaw json.RawMessage
		)
		g.Go(func() (err error) {
			disks, diskRaw, err = src.Disks(ctx)
			return err
		})
		g.Go(func() (err error) {
			network, netRaw, err = src.Network(ctx)
			return err
		})
		g.Go(func() (err error) {
			procs, err = src.Processes(ctx, 0)
			return err
		})

		if err := g.Wait(); err != nil {
			msg.err = err
			return msg
		}
		msg.disks = disks
		msg.network = network
		msg.processes = procs
		msg.raw = map[api.Kind]json.RawMessage{
			api.KindDisk:    diskRaw,
			api.KindNetwork: netRaw,
		}
		return msg
	}
}

// applyFast commits a fast-cycle result. A failed cycle changes nothing
// but the connectivity indicator.
func (m *Model) applyFast(msg fastResultMsg) {
	if msg.err != nil {
		m.state.Connectivity = ConnDown
		m.log.Debug("fast cycle failed: %v", msg.err)
		return
	}

	s := m.state
	for kind, raw := range msg.raw {
		s.Cache.Put(kind, raw)
	}
	s.Connectivity = ConnUp
	s.LastUpdate = msg.at

	s.History.CPU.Push(msg.cpu.UsagePercent)
	s.History.Memory.Push(msg.memory.Percent)

	switch s.View {
	case ViewDashboard:
		s.CPU = RenderCPU(msg.cpu, s.CPU, s.Charts)
		s.Memory = RenderMemory(msg.memory, s.Charts)
		s.Sensors = RenderSensors(msg.sensors)
	case ViewAnalytics:
		s.Analytics = RenderAnalytics(s.History)
	}
}

// applySlow commits a slow-cycle result. Failures are logged only; the
// connectivity indicator belongs to the fast cycle.
func (m *Model) applySlow(msg slowResultMsg) {
	s := m.state

	if msg.systemErr != nil {
		m.log.Warn("identity fetch failed: %v", msg.systemErr)
	} else if msg.system != nil {
		s.Identity = msg.system
		s.Cache.Put(api.KindSystem, msg.systemRaw)
		s.System = RenderSystem(msg.system, s.System)
	}

	if msg.err != nil {
		m.log.Warn("slow cycle failed: %v", msg.err)
	} else {
		for kind, raw := range msg.raw {
			s.Cache.Put(kind, raw)
		}
		s.History.NetIn.Push(msg.network.GlobalRate.DownloadSpeed)
		s.History.NetOut.Push(msg.network.GlobalRate.UploadSpeed)

		if s.View == ViewDashboard {
			s.Disks = RenderDisks(msg.disks)
			s.Network = RenderNetwork(msg.network, s.Charts)
			s.Processes = RenderProcesses(msg.processes)
			m.clampSelection()
		}
	}

	s.ExtrapolateUptime(m.opts.SlowInterval)
}

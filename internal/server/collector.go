package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	gnet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/shirou/gopsutil/v4/sensors"

	"github.com/rileyhilliard/vantasys/internal/api"
	"github.com/rileyhilliard/vantasys/internal/logger"
)

var (
	// ErrProcessNotFound means the pid does not name a live process.
	ErrProcessNotFound = stderrors.New("process not found")
	// ErrPermissionDenied means the agent may not signal the process.
	ErrPermissionDenied = stderrors.New("permission denied")
)

// fallbackTemperature is reported when the platform exposes no sensors, so
// the dashboard panel always has a row to draw.
const fallbackTemperature = 45.0

// Collector produces every payload the API serves.
type Collector interface {
	CPU(ctx context.Context) (api.CPU, error)
	Memory(ctx context.Context) (api.Memory, error)
	Sensors(ctx context.Context) (api.Sensors, error)
	System(ctx context.Context) (api.System, error)
	DiskUsage(ctx context.Context) (api.DiskUsage, error)
	Disks(ctx context.Context) (api.Disks, error)
	NetworkRate(ctx context.Context) (api.GlobalRate, error)
	Network(ctx context.Context) (api.Network, error)
	Processes(ctx context.Context, limit int) ([]api.Process, error)
	Connections(ctx context.Context, limit int) ([]api.Connection, error)
	Services(ctx context.Context) ([]api.Service, error)
	Process(ctx context.Context, pid int32) (api.ProcessDetail, error)
	Kill(ctx context.Context, pid int32) error
}

// commandRunner runs an external probe and returns its stdout.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// HostCollector reads the local machine through gopsutil.
type HostCollector struct {
	log logger.Logger
	run commandRunner

	procMu sync.Mutex
	procs  map[int32]*process.Process

	netMu       sync.Mutex
	lastNetRecv uint64
	lastNetSent uint64
	lastNetAt   time.Time

	identMu  sync.Mutex
	identity *api.System
	cpuModel string
	cpuExtra cpuExtras

	hwMu  sync.RWMutex
	gpus  []api.GPU
	board *api.Motherboard
}

type cpuExtras struct {
	microcode string
	l3Cache   string
}

var _ Collector = (*HostCollector)(nil)

// NewHostCollector creates a collector for this machine.
func NewHostCollector(log logger.Logger) *HostCollector {
	if log == nil {
		log = logger.Noop()
	}
	return &HostCollector{
		log:   log,
		run:   runCommand,
		procs: make(map[int32]*process.Process),
	}
}

// ScanHardware probes slow hardware identity (GPUs, board). It shells out,
// so callers run it in the background; System reports whatever has been
// found so far.
func (h *HostCollector) ScanHardware(ctx context.Context) {
	gpus := h.detectGPUs(ctx)
	board := readMotherboard()

	h.hwMu.Lock()
	h.gpus = gpus
	h.board = board
	h.hwMu.Unlock()

	h.log.Debug("hardware scan: %d gpu(s), motherboard=%t", len(gpus), board != nil)
}

func (h *HostCollector) detectGPUs(ctx context.Context) []api.GPU {
	out, err := h.run(ctx, "nvidia-smi", "--query-gpu=name,driver_version,memory.total", "--format=csv,noheader,nounits")
	if err != nil {
		h.log.Debug("nvidia-smi unavailable: %v", err)
		return nil
	}
	gpus, err := ParseNvidiaSMI(string(out))
	if err != nil {
		h.log.Warn("nvidia-smi output: %v", err)
		return nil
	}
	return gpus
}

// CPU samples utilization since the previous call, so the first request
// after startup may read 0.
func (h *HostCollector) CPU(ctx context.Context) (api.CPU, error) {
	total, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return api.CPU{}, fmt.Errorf("cpu percent: %w", err)
	}
	perCore, err := cpu.PercentWithContext(ctx, 0, true)
	if err != nil {
		return api.CPU{}, fmt.Errorf("per-core percent: %w", err)
	}

	out := api.CPU{PerCoreUsage: perCore}
	if len(total) > 0 {
		out.UsagePercent = total[0]
	}
	out.CountLogical, _ = cpu.CountsWithContext(ctx, true)
	out.CountPhysical, _ = cpu.CountsWithContext(ctx, false)

	model, extras := h.cpuIdentity(ctx)
	out.ModelName = model
	if extras.microcode != "" {
		mc := extras.microcode
		out.Microcode = &mc
	}
	if extras.l3Cache != "" {
		l3 := extras.l3Cache
		out.L3Cache = &l3
	}

	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 && infos[0].Mhz > 0 {
		mhz := infos[0].Mhz
		out.FrequencyCurrent = &mhz
	}
	return out, nil
}

func (h *HostCollector) cpuIdentity(ctx context.Context) (string, cpuExtras) {
	h.identMu.Lock()
	defer h.identMu.Unlock()
	if h.cpuModel != "" {
		return h.cpuModel, h.cpuExtra
	}

	infos, err := cpu.InfoWithContext(ctx)
	if err != nil || len(infos) == 0 {
		return "", cpuExtras{}
	}
	h.cpuModel = strings.TrimSpace(infos[0].ModelName)
	h.cpuExtra = cpuExtras{
		microcode: infos[0].Microcode,
		l3Cache:   formatCacheSize(int64(infos[0].CacheSize)),
	}
	return h.cpuModel, h.cpuExtra
}

// formatCacheSize renders a size in KB the way hardware tools label caches.
func formatCacheSize(kb int64) string {
	switch {
	case kb <= 0:
		return ""
	case kb > 1024:
		return fmt.Sprintf("%d MB", kb/1024)
	default:
		return fmt.Sprintf("%d KB", kb)
	}
}

// Memory reports RAM and swap usage.
func (h *HostCollector) Memory(ctx context.Context) (api.Memory, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return api.Memory{}, fmt.Errorf("virtual memory: %w", err)
	}
	out := api.Memory{
		Total:     vm.Total,
		Available: vm.Available,
		Used:      vm.Used,
		Percent:   vm.UsedPercent,
	}
	if swap, err := mem.SwapMemoryWithContext(ctx); err == nil {
		out.SwapTotal = swap.Total
		out.SwapUsed = swap.Used
		out.SwapPercent = swap.UsedPercent
	}
	return out, nil
}

// Sensors groups temperatures by chip. Platforms without sensors get a
// single placeholder reading.
func (h *HostCollector) Sensors(ctx context.Context) (api.Sensors, error) {
	temps, err := sensors.TemperaturesWithContext(ctx)
	if err != nil && len(temps) == 0 {
		// Not an error for the API: most VMs and macOS expose nothing.
		h.log.Debug("temperatures: %v", err)
	}
	return api.Sensors{Temperatures: groupTemperatures(temps)}, nil
}

func groupTemperatures(temps []sensors.TemperatureStat) api.TemperatureGroups {
	var groups api.TemperatureGroups
	index := make(map[string]int)

	for _, t := range temps {
		chip, label := splitSensorKey(t.SensorKey)
		reading := api.TemperatureReading{Label: label, Current: t.Temperature}
		if t.High > 0 {
			high := t.High
			reading.High = &high
		}
		if t.Critical > 0 {
			crit := t.Critical
			reading.Critical = &crit
		}

		i, ok := index[chip]
		if !ok {
			i = len(groups)
			index[chip] = i
			groups = append(groups, api.TemperatureGroup{Name: chip})
		}
		groups[i].Readings = append(groups[i].Readings, reading)
	}

	if len(groups) == 0 {
		groups = api.TemperatureGroups{{
			Name:     "System",
			Readings: []api.TemperatureReading{{Label: "Package", Current: fallbackTemperature}},
		}}
	}
	return groups
}

// splitSensorKey turns "coretemp_core_0" into ("coretemp", "core_0").
func splitSensorKey(key string) (string, string) {
	chip, rest, found := strings.Cut(key, "_")
	if !found || rest == "" {
		return key, key
	}
	return chip, rest
}

// System returns host identity with a fresh uptime.
func (h *HostCollector) System(ctx context.Context) (api.System, error) {
	h.identMu.Lock()
	ident := h.identity
	h.identMu.Unlock()

	if ident == nil {
		info, err := host.InfoWithContext(ctx)
		if err != nil {
			return api.System{}, fmt.Errorf("host info: %w", err)
		}
		model, _ := h.cpuIdentity(ctx)
		ident = &api.System{
			Hostname:    info.Hostname,
			OSName:      osName(info),
			OSEdition:   info.PlatformFamily,
			OSVersion:   info.KernelVersion,
			Processor:   model,
			MachineType: info.KernelArch,
			BootTime:    float64(info.BootTime),
		}
		h.identMu.Lock()
		h.identity = ident
		h.identMu.Unlock()
	}

	out := *ident
	out.UptimeSeconds = time.Since(time.Unix(int64(out.BootTime), 0)).Seconds()

	h.hwMu.RLock()
	out.GPU = append([]api.GPU(nil), h.gpus...)
	out.Motherboard = h.board
	h.hwMu.RUnlock()
	return out, nil
}

func osName(info *host.InfoStat) string {
	name := strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
	if name == "" {
		return runtime.GOOS
	}
	return name
}

// DiskUsage reports the system volume. An unreadable volume is reported as
// "Unknown" with zero usage rather than failing the request.
func (h *HostCollector) DiskUsage(ctx context.Context) (api.DiskUsage, error) {
	path := systemVolume()
	usage, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		h.log.Warn("disk usage %s: %v", path, err)
		return api.DiskUsage{Device: "Unknown"}, nil
	}
	return api.DiskUsage{
		Total:   usage.Total,
		Used:    usage.Used,
		Free:    usage.Free,
		Percent: usage.UsedPercent,
		Device:  path,
	}, nil
}

func systemVolume() string {
	if runtime.GOOS == "windows" {
		return `C:\`
	}
	return "/"
}

// Disks lists mounted filesystems with usage. Mounts whose usage cannot be
// read (removable media, permission) are skipped.
func (h *HostCollector) Disks(ctx context.Context) (api.Disks, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return api.Disks{}, fmt.Errorf("partitions: %w", err)
	}

	out := api.Disks{Partitions: make([]api.Partition, 0, len(parts))}
	seen := make(map[string]bool)
	for _, p := range parts {
		if p.Mountpoint == "" || seen[p.Mountpoint] {
			continue
		}
		seen[p.Mountpoint] = true

		usage, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil || usage.Total == 0 {
			continue
		}
		out.Partitions = append(out.Partitions, api.Partition{
			Device:     p.Device,
			Mountpoint: p.Mountpoint,
			FSType:     p.Fstype,
			Total:      usage.Total,
			Used:       usage.Used,
			Free:       usage.Free,
			Percent:    usage.UsedPercent,
		})
	}
	return out, nil
}

// Network reports interfaces and host-wide throughput since the last call.
func (h *HostCollector) Network(ctx context.Context) (api.Network, error) {
	ifaces, err := gnet.InterfacesWithContext(ctx)
	if err != nil {
		return api.Network{}, fmt.Errorf("interfaces: %w", err)
	}
	counters, err := gnet.IOCountersWithContext(ctx, true)
	if err != nil {
		return api.Network{}, fmt.Errorf("io counters: %w", err)
	}

	byName := make(map[string]gnet.IOCountersStat, len(counters))
	for _, c := range counters {
		byName[c.Name] = c
	}

	out := api.Network{Interfaces: make([]api.Interface, 0, len(ifaces))}
	for _, iface := range ifaces {
		ctr := byName[iface.Name]
		out.Interfaces = append(out.Interfaces, api.Interface{
			Name:       iface.Name,
			IsUp:       hasFlag(iface.Flags, "up"),
			Speed:      linkSpeed(iface.Name),
			MTU:        iface.MTU,
			IPAddress:  firstIPv4(iface.Addrs),
			MACAddress: iface.HardwareAddr,
			BytesSent:  ctr.BytesSent,
			BytesRecv:  ctr.BytesRecv,
		})
	}

	out.GlobalRate = h.globalRate(counters, time.Now())
	return out, nil
}

// NetworkRate reports host-wide counters and throughput. It shares its
// baseline with Network, so either call advances the rate window.
func (h *HostCollector) NetworkRate(ctx context.Context) (api.GlobalRate, error) {
	counters, err := gnet.IOCountersWithContext(ctx, true)
	if err != nil {
		return api.GlobalRate{}, fmt.Errorf("io counters: %w", err)
	}
	return h.globalRate(counters, time.Now()), nil
}

// globalRate sums per-interface counters and derives throughput from the
// previous reading.
func (h *HostCollector) globalRate(counters []gnet.IOCountersStat, now time.Time) api.GlobalRate {
	var rate api.GlobalRate
	for _, c := range counters {
		rate.BytesSent += c.BytesSent
		rate.BytesRecv += c.BytesRecv
		rate.PacketsSent += c.PacketsSent
		rate.PacketsRecv += c.PacketsRecv
	}
	rate.DownloadSpeed, rate.UploadSpeed = h.computeNetworkRates(rate.BytesRecv, rate.BytesSent, now)
	return rate
}

func (h *HostCollector) computeNetworkRates(recv, sent uint64, now time.Time) (float64, float64) {
	h.netMu.Lock()
	defer h.netMu.Unlock()

	var inbound, outbound float64
	if !h.lastNetAt.IsZero() && now.After(h.lastNetAt) {
		elapsed := now.Sub(h.lastNetAt).Seconds()
		if recv >= h.lastNetRecv {
			inbound = float64(recv-h.lastNetRecv) / elapsed
		}
		if sent >= h.lastNetSent {
			outbound = float64(sent-h.lastNetSent) / elapsed
		}
	}
	h.lastNetRecv = recv
	h.lastNetSent = sent
	h.lastNetAt = now
	return inbound, outbound
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if f == want {
			return true
		}
	}
	return false
}

func firstIPv4(addrs gnet.InterfaceAddrList) string {
	for _, a := range addrs {
		ip, _, err := net.ParseCIDR(a.Addr)
		if err != nil {
			ip = net.ParseIP(a.Addr)
		}
		if ip != nil && ip.To4() != nil {
			return ip.String()
		}
	}
	return ""
}

// Processes returns the busiest processes first. CPU percentages are deltas
// against the previous listing, so each pid keeps its *process.Process.
func (h *HostCollector) Processes(ctx context.Context, limit int) ([]api.Process, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	h.procMu.Lock()
	defer h.procMu.Unlock()

	live := make(map[int32]bool, len(procs))
	out := make([]api.Process, 0, len(procs))
	for _, p := range procs {
		live[p.Pid] = true
		cached, ok := h.procs[p.Pid]
		if !ok {
			cached = p
			h.procs[p.Pid] = p
		}

		name, err := cached.NameWithContext(ctx)
		if err != nil {
			continue
		}
		cpuPct, _ := cached.PercentWithContext(ctx, 0)
		memPct, _ := cached.MemoryPercentWithContext(ctx)
		user, _ := cached.UsernameWithContext(ctx)

		out = append(out, api.Process{
			PID:           p.Pid,
			Name:          name,
			Username:      user,
			CPUPercent:    cpuPct,
			MemoryPercent: float64(memPct),
			Status:        processStatus(ctx, cached),
		})
	}

	for pid := range h.procs {
		if !live[pid] {
			delete(h.procs, pid)
		}
	}

	return topProcesses(out, limit), nil
}

// topProcesses sorts by cpu descending and keeps the first limit rows.
func topProcesses(procs []api.Process, limit int) []api.Process {
	sort.SliceStable(procs, func(i, j int) bool {
		return procs[i].CPUPercent > procs[j].CPUPercent
	})
	if limit > 0 && len(procs) > limit {
		procs = procs[:limit]
	}
	return procs
}

func processStatus(ctx context.Context, p *process.Process) string {
	status, err := p.StatusWithContext(ctx)
	if err != nil || len(status) == 0 {
		return "unknown"
	}
	return status[0]
}

// Connections lists inet sockets ordered by state.
func (h *HostCollector) Connections(ctx context.Context, limit int) ([]api.Connection, error) {
	conns, err := gnet.ConnectionsWithContext(ctx, "inet")
	if err != nil {
		return nil, fmt.Errorf("connections: %w", err)
	}

	sort.SliceStable(conns, func(i, j int) bool { return conns[i].Status < conns[j].Status })
	if limit > 0 && len(conns) > limit {
		conns = conns[:limit]
	}

	names := make(map[int32]string)
	out := make([]api.Connection, 0, len(conns))
	for _, c := range conns {
		row := api.Connection{
			Type:       socketType(c.Type),
			LocalAddr:  formatAddr(c.Laddr),
			RemoteAddr: formatAddr(c.Raddr),
			Status:     c.Status,
		}
		if c.Pid > 0 {
			pid := c.Pid
			row.PID = &pid
			name, ok := names[pid]
			if !ok {
				name = "?"
				if p, err := process.NewProcessWithContext(ctx, pid); err == nil {
					if n, err := p.NameWithContext(ctx); err == nil {
						name = n
					}
				}
				names[pid] = name
			}
			row.ProcessName = name
		}
		out = append(out, row)
	}
	return out, nil
}

func socketType(t uint32) string {
	if t == syscall.SOCK_STREAM {
		return "TCP"
	}
	return "UDP"
}

func formatAddr(a gnet.Addr) string {
	if a.IP == "" {
		return ""
	}
	return net.JoinHostPort(a.IP, strconv.FormatUint(uint64(a.Port), 10))
}

// Services lists OS services; only Windows has any.
func (h *HostCollector) Services(ctx context.Context) ([]api.Service, error) {
	return listServices(ctx, h.log)
}

// Process returns a detailed view of one pid.
func (h *HostCollector) Process(ctx context.Context, pid int32) (api.ProcessDetail, error) {
	p, err := lookupProcess(ctx, pid)
	if err != nil {
		return api.ProcessDetail{}, err
	}

	name, err := p.NameWithContext(ctx)
	if err != nil {
		return api.ProcessDetail{}, normalizeProcessErr(err)
	}
	out := api.ProcessDetail{
		PID:    pid,
		Name:   name,
		Status: processStatus(ctx, p),
	}
	out.Cmdline, _ = p.CmdlineSliceWithContext(ctx)
	if out.Cmdline == nil {
		out.Cmdline = []string{}
	}
	out.Cwd, _ = p.CwdWithContext(ctx)
	out.Username, _ = p.UsernameWithContext(ctx)
	if ms, err := p.CreateTimeWithContext(ctx); err == nil {
		out.CreateTime = float64(ms) / 1000
	}
	out.NumThreads, _ = p.NumThreadsWithContext(ctx)
	if fds, err := p.NumFDsWithContext(ctx); err == nil {
		out.NumFDs = &fds
	}

	out.MemoryInfo = map[string]uint64{}
	if mi, err := p.MemoryInfoWithContext(ctx); err == nil {
		out.MemoryInfo["rss"] = mi.RSS
		out.MemoryInfo["vms"] = mi.VMS
		out.MemoryInfo["swap"] = mi.Swap
	}
	return out, nil
}

// Kill asks the process to terminate (SIGTERM, or TerminateProcess on
// Windows).
func (h *HostCollector) Kill(ctx context.Context, pid int32) error {
	p, err := lookupProcess(ctx, pid)
	if err != nil {
		return err
	}
	if err := p.TerminateWithContext(ctx); err != nil {
		return normalizeProcessErr(err)
	}
	h.log.Info("terminated pid %d", pid)
	return nil
}

func lookupProcess(ctx context.Context, pid int32) (*process.Process, error) {
	if pid <= 0 {
		return nil, ErrProcessNotFound
	}
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return nil, normalizeProcessErr(err)
	}
	return p, nil
}

func normalizeProcessErr(err error) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, process.ErrorProcessNotRunning), stderrors.Is(err, os.ErrNotExist):
		return ErrProcessNotFound
	case stderrors.Is(err, os.ErrPermission):
		return ErrPermissionDenied
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "no such process"), strings.Contains(msg, "not found"):
		return ErrProcessNotFound
	case strings.Contains(msg, "permission denied"), strings.Contains(msg, "operation not permitted"),
		strings.Contains(msg, "access is denied"):
		return ErrPermissionDenied
	}
	return err
}

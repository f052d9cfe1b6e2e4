package server

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	gnet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/shirou/gopsutil/v4/sensors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/vantasys/internal/api"
	"github.com/rileyhilliard/vantasys/internal/logger"
)

func TestGroupTemperatures(t *testing.T) {
	temps := []sensors.TemperatureStat{
		{SensorKey: "coretemp_package_id_0", Temperature: 61, High: 80, Critical: 100},
		{SensorKey: "nvme_composite", Temperature: 38},
		{SensorKey: "coretemp_core_0", Temperature: 58},
		{SensorKey: "acpitz", Temperature: 27.8},
	}

	groups := groupTemperatures(temps)

	require.Len(t, groups, 3)
	assert.Equal(t, "coretemp", groups[0].Name)
	assert.Equal(t, "nvme", groups[1].Name)
	assert.Equal(t, "acpitz", groups[2].Name)

	core := groups[0].Readings
	require.Len(t, core, 2)
	assert.Equal(t, "package_id_0", core[0].Label)
	require.NotNil(t, core[0].High)
	assert.Equal(t, 80.0, *core[0].High)
	require.NotNil(t, core[0].Critical)
	assert.Equal(t, 100.0, *core[0].Critical)
	assert.Equal(t, "core_0", core[1].Label)
	assert.Nil(t, core[1].High)

	assert.Equal(t, "acpitz", groups[2].Readings[0].Label)
}

func TestGroupTemperatures_Fallback(t *testing.T) {
	groups := groupTemperatures(nil)

	require.Len(t, groups, 1)
	assert.Equal(t, "System", groups[0].Name)
	assert.Equal(t, []api.TemperatureReading{{Label: "Package", Current: 45.0}}, groups[0].Readings)
}

func TestSplitSensorKey(t *testing.T) {
	tests := []struct {
		key, chip, label string
	}{
		{"coretemp_core_0", "coretemp", "core_0"},
		{"acpitz", "acpitz", "acpitz"},
		{"trailing_", "trailing_", "trailing_"},
	}
	for _, tt := range tests {
		chip, label := splitSensorKey(tt.key)
		assert.Equal(t, tt.chip, chip, tt.key)
		assert.Equal(t, tt.label, label, tt.key)
	}
}

func TestComputeNetworkRates(t *testing.T) {
	h := NewHostCollector(nil)
	t0 := time.Unix(1000, 0)

	down, up := h.computeNetworkRates(1000, 500, t0)
	assert.Zero(t, down, "first sample has no baseline")
	assert.Zero(t, up)

	down, up = h.computeNetworkRates(5000, 2500, t0.Add(2*time.Second))
	assert.Equal(t, 2000.0, down)
	assert.Equal(t, 1000.0, up)

	// Counter reset (interface bounced) reads as zero, not negative.
	down, up = h.computeNetworkRates(10, 10, t0.Add(3*time.Second))
	assert.Zero(t, down)
	assert.Zero(t, up)

	// Same timestamp yields no rate.
	down, _ = h.computeNetworkRates(9000, 10, t0.Add(3*time.Second))
	assert.Zero(t, down)
}

func TestGlobalRate(t *testing.T) {
	h := NewHostCollector(nil)
	t0 := time.Unix(1000, 0)
	counters := []gnet.IOCountersStat{
		{Name: "eth0", BytesSent: 300, BytesRecv: 1000, PacketsSent: 3, PacketsRecv: 10},
		{Name: "lo", BytesSent: 200, BytesRecv: 200, PacketsSent: 2, PacketsRecv: 2},
	}

	first := h.globalRate(counters, t0)
	assert.Equal(t, api.GlobalRate{BytesSent: 500, BytesRecv: 1200, PacketsSent: 5, PacketsRecv: 12}, first)

	counters[0].BytesRecv += 2000
	counters[0].BytesSent += 1000
	second := h.globalRate(counters, t0.Add(2*time.Second))
	assert.Equal(t, 1000.0, second.DownloadSpeed)
	assert.Equal(t, 500.0, second.UploadSpeed)
	assert.Equal(t, uint64(3200), second.BytesRecv)
}

func TestHostCollector_DiskUsage(t *testing.T) {
	h := NewHostCollector(nil)

	got, err := h.DiskUsage(context.Background())

	require.NoError(t, err)
	if got.Device == "Unknown" {
		t.Skip("system volume not readable here")
	}
	assert.Equal(t, systemVolume(), got.Device)
	assert.NotZero(t, got.Total)
	assert.GreaterOrEqual(t, got.Total, got.Used)
}

func TestTopProcesses(t *testing.T) {
	procs := []api.Process{
		{PID: 1, CPUPercent: 0.5},
		{PID: 2, CPUPercent: 40},
		{PID: 3, CPUPercent: 12},
		{PID: 4, CPUPercent: 40},
	}

	top := topProcesses(procs, 3)

	require.Len(t, top, 3)
	assert.Equal(t, []int32{2, 4, 3}, []int32{top[0].PID, top[1].PID, top[2].PID})
	assert.Len(t, topProcesses([]api.Process{{PID: 1}}, 0), 1)
}

func TestFormatCacheSize(t *testing.T) {
	assert.Equal(t, "", formatCacheSize(0))
	assert.Equal(t, "512 KB", formatCacheSize(512))
	assert.Equal(t, "1024 KB", formatCacheSize(1024))
	assert.Equal(t, "32 MB", formatCacheSize(32768))
}

func TestFormatAddr(t *testing.T) {
	assert.Equal(t, "", formatAddr(gnet.Addr{}))
	assert.Equal(t, "127.0.0.1:6767", formatAddr(gnet.Addr{IP: "127.0.0.1", Port: 6767}))
	assert.Equal(t, "[::1]:443", formatAddr(gnet.Addr{IP: "::1", Port: 443}))
}

func TestSocketType(t *testing.T) {
	assert.Equal(t, "TCP", socketType(1))
	assert.Equal(t, "UDP", socketType(2))
}

func TestFirstIPv4(t *testing.T) {
	addrs := gnet.InterfaceAddrList{
		{Addr: "fe80::1/64"},
		{Addr: "192.168.1.20/24"},
		{Addr: "10.0.0.1/8"},
	}
	assert.Equal(t, "192.168.1.20", firstIPv4(addrs))
	assert.Equal(t, "", firstIPv4(gnet.InterfaceAddrList{{Addr: "::1/128"}}))
	assert.Equal(t, "", firstIPv4(nil))
}

func TestHasFlag(t *testing.T) {
	assert.True(t, hasFlag([]string{"broadcast", "up"}, "up"))
	assert.False(t, hasFlag([]string{"loopback"}, "up"))
}

func TestNormalizeProcessErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"not running", process.ErrorProcessNotRunning, ErrProcessNotFound},
		{"not exist", fmt.Errorf("open: %w", os.ErrNotExist), ErrProcessNotFound},
		{"permission", fmt.Errorf("kill: %w", os.ErrPermission), ErrPermissionDenied},
		{"esrch text", fmt.Errorf("no such process"), ErrProcessNotFound},
		{"eperm text", fmt.Errorf("operation not permitted"), ErrPermissionDenied},
		{"windows denied", fmt.Errorf("Access is denied."), ErrPermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeProcessErr(tt.err))
		})
	}

	other := fmt.Errorf("disk on fire")
	assert.Equal(t, other, normalizeProcessErr(other))
}

func TestLookupProcess_InvalidPID(t *testing.T) {
	_, err := lookupProcess(context.Background(), 0)
	assert.ErrorIs(t, err, ErrProcessNotFound)
	_, err = lookupProcess(context.Background(), -5)
	assert.ErrorIs(t, err, ErrProcessNotFound)
}

func TestHostCollector_SelfProcess(t *testing.T) {
	h := NewHostCollector(logger.NewBufferLogger())
	pid := int32(os.Getpid())

	detail, err := h.Process(context.Background(), pid)

	require.NoError(t, err)
	assert.Equal(t, pid, detail.PID)
	assert.NotEmpty(t, detail.Name)
	assert.NotNil(t, detail.Cmdline)
}

func TestHostCollector_ProcessesPrunesCache(t *testing.T) {
	h := NewHostCollector(nil)
	h.procs[-42] = &process.Process{Pid: -42}

	procs, err := h.Processes(context.Background(), 5)

	require.NoError(t, err)
	assert.LessOrEqual(t, len(procs), 5)
	assert.NotContains(t, h.procs, int32(-42))
}

func TestScanHardware_GPU(t *testing.T) {
	h := NewHostCollector(logger.NewBufferLogger())
	h.run = func(_ context.Context, name string, args ...string) ([]byte, error) {
		assert.Equal(t, "nvidia-smi", name)
		return []byte("NVIDIA GeForce RTX 4090, 550.54.14, 24564\n"), nil
	}

	h.ScanHardware(context.Background())

	h.hwMu.RLock()
	defer h.hwMu.RUnlock()
	require.Len(t, h.gpus, 1)
	assert.Equal(t, "NVIDIA GeForce RTX 4090", h.gpus[0].Name)
	assert.Equal(t, uint64(24564)*1024*1024, h.gpus[0].MemoryTotal)
}

func TestScanHardware_NoGPU(t *testing.T) {
	log := logger.NewBufferLogger()
	h := NewHostCollector(log)
	h.run = func(context.Context, string, ...string) ([]byte, error) {
		return nil, fmt.Errorf("exec: \"nvidia-smi\": executable file not found in $PATH")
	}

	h.ScanHardware(context.Background())

	assert.Empty(t, h.gpus)
	assert.True(t, log.Contains("debug", "nvidia-smi unavailable"))
}

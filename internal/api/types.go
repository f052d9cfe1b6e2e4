package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CPU is the /cpu payload.
type CPU struct {
	UsagePercent     float64   `json:"usage_percent"`
	PerCoreUsage     []float64 `json:"per_core_usage"`
	CountLogical     int       `json:"count_logical"`
	CountPhysical    int       `json:"count_physical"`
	FrequencyCurrent *float64  `json:"frequency_current,omitempty"`
	ModelName        string    `json:"model_name,omitempty"`
	Socket           *string   `json:"socket,omitempty"`
	Microcode        *string   `json:"microcode,omitempty"`
	L2Cache          *string   `json:"l2_cache,omitempty"`
	L3Cache          *string   `json:"l3_cache,omitempty"`
}

// RAMModule describes one installed memory stick.
type RAMModule struct {
	BankLabel    string `json:"bank_label"`
	Capacity     uint64 `json:"capacity"`
	Speed        int    `json:"speed"`
	Manufacturer string `json:"manufacturer"`
	PartNumber   string `json:"part_number"`
}

// Memory is the /memory payload.
type Memory struct {
	Total       uint64      `json:"total"`
	Available   uint64      `json:"available"`
	Used        uint64      `json:"used"`
	Percent     float64     `json:"percent"`
	SwapTotal   uint64      `json:"swap_total"`
	SwapUsed    uint64      `json:"swap_used"`
	SwapPercent float64     `json:"swap_percent"`
	Modules     []RAMModule `json:"modules,omitempty"`
}

// TemperatureReading is one sensor value inside a group.
type TemperatureReading struct {
	Label    string   `json:"label"`
	Current  float64  `json:"current"`
	High     *float64 `json:"high,omitempty"`
	Critical *float64 `json:"critical,omitempty"`
}

// TemperatureGroup is a named set of readings (one chip, one zone).
type TemperatureGroup struct {
	Name     string
	Readings []TemperatureReading
}

// TemperatureGroups is a JSON object of group name → readings that keeps
// the order the groups appear in, which a Go map would lose.
type TemperatureGroups []TemperatureGroup

// UnmarshalJSON decodes an object while preserving key order.
func (g *TemperatureGroups) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*g = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("temperatures: expected object, got %v", tok)
	}

	var out TemperatureGroups
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("temperatures: expected key, got %v", keyTok)
		}
		var readings []TemperatureReading
		if err := dec.Decode(&readings); err != nil {
			return fmt.Errorf("temperatures[%s]: %w", name, err)
		}
		out = append(out, TemperatureGroup{Name: name, Readings: readings})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*g = out
	return nil
}

// MarshalJSON encodes the groups as an object in slice order.
func (g TemperatureGroups) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, grp := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(grp.Name)
		if err != nil {
			return nil, err
		}
		readings := grp.Readings
		if readings == nil {
			readings = []TemperatureReading{}
		}
		val, err := json.Marshal(readings)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Flatten returns every reading across all groups, in order.
func (g TemperatureGroups) Flatten() []TemperatureReading {
	var out []TemperatureReading
	for _, grp := range g {
		out = append(out, grp.Readings...)
	}
	return out
}

// Battery is present only on machines that have one.
type Battery struct {
	Percent      float64 `json:"percent"`
	SecsLeft     *int64  `json:"secsleft,omitempty"`
	PowerPlugged *bool   `json:"power_plugged,omitempty"`
}

// Sensors is the /sensors payload.
type Sensors struct {
	Temperatures TemperatureGroups `json:"temperatures"`
	Battery      *Battery          `json:"battery,omitempty"`
}

// GPU is one graphics adapter.
type GPU struct {
	Name          string `json:"name"`
	DriverVersion string `json:"driver_version"`
	MemoryTotal   uint64 `json:"memory_total"`
}

// Motherboard carries board and firmware identity.
type Motherboard struct {
	Manufacturer string `json:"manufacturer"`
	Product      string `json:"product"`
	BIOSVersion  string `json:"bios_version"`
}

// System is the /system payload: slowly-changing host identity.
type System struct {
	Hostname      string       `json:"hostname"`
	OSName        string       `json:"os_name"`
	OSEdition     string       `json:"os_edition"`
	OSVersion     string       `json:"os_version"`
	Processor     string       `json:"processor"`
	MachineType   string       `json:"machine_type"`
	BootTime      float64      `json:"boot_time"`
	UptimeSeconds float64      `json:"uptime_seconds"`
	GPU           []GPU        `json:"gpu,omitempty"`
	Motherboard   *Motherboard `json:"motherboard,omitempty"`
}

// Partition is one mounted filesystem.
type Partition struct {
	Device     string  `json:"device"`
	Mountpoint string  `json:"mountpoint"`
	FSType     string  `json:"fstype"`
	Total      uint64  `json:"total"`
	Used       uint64  `json:"used"`
	Free       uint64  `json:"free"`
	Percent    float64 `json:"percent"`
}

// DiskUsage is the /disk payload: usage of the system volume.
type DiskUsage struct {
	Total   uint64  `json:"total"`
	Used    uint64  `json:"used"`
	Free    uint64  `json:"free"`
	Percent float64 `json:"percent"`
	Device  string  `json:"device"`
}

// Disks is the /disk/detailed payload.
type Disks struct {
	Partitions []Partition `json:"partitions"`
}

// Interface is one network interface.
type Interface struct {
	Name       string `json:"name"`
	IsUp       bool   `json:"is_up"`
	Speed      int    `json:"speed"`
	MTU        int    `json:"mtu"`
	IPAddress  string `json:"ip_address,omitempty"`
	MACAddress string `json:"mac_address,omitempty"`
	BytesSent  uint64 `json:"bytes_sent"`
	BytesRecv  uint64 `json:"bytes_recv"`
}

// GlobalRate is host-wide network traffic: lifetime counters plus
// throughput in bytes per second. It is also the /network payload.
type GlobalRate struct {
	BytesSent     uint64  `json:"bytes_sent"`
	BytesRecv     uint64  `json:"bytes_recv"`
	PacketsSent   uint64  `json:"packets_sent"`
	PacketsRecv   uint64  `json:"packets_recv"`
	UploadSpeed   float64 `json:"upload_speed"`
	DownloadSpeed float64 `json:"download_speed"`
}

// Network is the /network/detailed payload.
type Network struct {
	Interfaces []Interface `json:"interfaces"`
	GlobalRate GlobalRate  `json:"global_rate"`
}

// Process is one row of /processes.
type Process struct {
	PID           int32   `json:"pid"`
	Name          string  `json:"name"`
	Username      string  `json:"username,omitempty"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	Status        string  `json:"status"`
}

// Connection is one row of /network/connections.
type Connection struct {
	PID         *int32 `json:"pid"`
	ProcessName string `json:"process_name,omitempty"`
	Type        string `json:"type"`
	LocalAddr   string `json:"laddr"`
	RemoteAddr  string `json:"raddr"`
	Status      string `json:"status"`
}

// Service is one row of /services.
type Service struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Status      string `json:"status"`
	StartType   string `json:"start_type"`
	PID         *int32 `json:"pid,omitempty"`
	Username    string `json:"username,omitempty"`
}

// ProcessDetail is the /process/{pid} payload.
type ProcessDetail struct {
	PID        int32             `json:"pid"`
	Name       string            `json:"name"`
	Cmdline    []string          `json:"cmdline"`
	Cwd        string            `json:"cwd"`
	Username   string            `json:"username"`
	Status     string            `json:"status"`
	CreateTime float64           `json:"create_time"`
	MemoryInfo map[string]uint64 `json:"memory_info"`
	NumThreads int32             `json:"num_threads"`
	NumFDs     *int32            `json:"num_fds,omitempty"`
}

// KillResult is the /process/{pid}/kill payload.
type KillResult struct {
	Status string `json:"status"`
	PID    int32  `json:"pid"`
}

// Health is the /health payload.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Mode    string `json:"mode"`
}

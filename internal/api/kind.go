package api

import (
	"fmt"
	"strings"
)

// Kind names a resource the dashboard caches snapshots of.
type Kind int

const (
	KindCPU Kind = iota
	KindMemory
	KindDisk
	KindNetwork
	KindSystem
	KindSensors
)

// Kinds lists every cacheable resource kind in display order.
var Kinds = []Kind{KindCPU, KindMemory, KindDisk, KindNetwork, KindSystem, KindSensors}

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindCPU:
		return "cpu"
	case KindMemory:
		return "memory"
	case KindDisk:
		return "disk"
	case KindNetwork:
		return "network"
	case KindSystem:
		return "system"
	case KindSensors:
		return "sensors"
	default:
		return "unknown"
	}
}

// Path returns the endpoint the kind is fetched from.
func (k Kind) Path() string {
	switch k {
	case KindCPU:
		return "/cpu"
	case KindMemory:
		return "/memory"
	case KindDisk:
		return "/disk/detailed"
	case KindNetwork:
		return "/network/detailed"
	case KindSystem:
		return "/system"
	case KindSensors:
		return "/sensors"
	default:
		return ""
	}
}

// ParseKind maps a name like "cpu" or "Disk" to its Kind.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown resource kind %q (want one of cpu, memory, disk, network, system, sensors)", s)
}

//go:build linux

package server

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rileyhilliard/vantasys/internal/api"
)

var (
	dmiRoot     = "/sys/class/dmi/id"
	netClassDir = "/sys/class/net"
)

// readMotherboard reads board identity from DMI. Returns nil when the
// kernel does not expose it (containers, some ARM boards).
func readMotherboard() *api.Motherboard {
	board := &api.Motherboard{
		Manufacturer: readSysfs(filepath.Join(dmiRoot, "board_vendor")),
		Product:      readSysfs(filepath.Join(dmiRoot, "board_name")),
		BIOSVersion:  readSysfs(filepath.Join(dmiRoot, "bios_version")),
	}
	if board.Manufacturer == "" && board.Product == "" && board.BIOSVersion == "" {
		return nil
	}
	return board
}

// linkSpeed returns the negotiated link speed in Mb/s, 0 if unknown.
// Virtual and down interfaces report -1 or fail to read.
func linkSpeed(iface string) int {
	speed, err := strconv.Atoi(readSysfs(filepath.Join(netClassDir, iface, "speed")))
	if err != nil || speed < 0 {
		return 0
	}
	return speed
}

func readSysfs(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

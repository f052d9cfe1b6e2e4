package server

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rileyhilliard/vantasys/internal/api"
)

const mib = 1024 * 1024

// ParseNvidiaSMI parses adapters from nvidia-smi CSV output, one per line.
// Expected input is from:
//
//	nvidia-smi --query-gpu=name,driver_version,memory.total --format=csv,noheader,nounits
//
// Returns nil, nil when no GPU is present.
func ParseNvidiaSMI(output string) ([]api.GPU, error) {
	output = strings.TrimSpace(output)
	if output == "" {
		return nil, nil
	}

	lower := strings.ToLower(output)
	for _, marker := range []string{"no devices", "not found", "failed", "error"} {
		if strings.Contains(lower, marker) {
			return nil, nil
		}
	}

	var gpus []api.GPU
	for i, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < 3 {
			return nil, fmt.Errorf("line %d: expected 3 fields, got %d", i+1, len(fields))
		}

		gpu := api.GPU{
			Name:          strings.TrimSpace(fields[0]),
			DriverVersion: strings.TrimSpace(fields[1]),
		}
		if total := strings.TrimSpace(fields[2]); total != "" && total != "[N/A]" {
			n, err := strconv.ParseUint(total, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: memory total %q: %w", i+1, total, err)
			}
			gpu.MemoryTotal = n * mib
		}
		gpus = append(gpus, gpu)
	}
	return gpus, nil
}

// Package monitor implements the terminal telemetry dashboard.
//
// The dashboard polls a vantasys agent over HTTP and renders CPU, memory,
// sensor, disk, network, process and host identity panels.
//
// # Architecture
//
// The package uses the Bubble Tea framework (Model-Update-View):
//
//   - Model: holds AppState, the inspector overlay and layout
//   - Update: the only place state changes, one message at a time
//   - View: renders the current state to a string
//
// Fetches run as tea.Cmd goroutines and return result messages; they never
// touch AppState directly.
//
// # Polling
//
// Two independent cycles re-arm themselves:
//
//  1. fastTickMsg (default 1s) fetches /cpu, /memory and /sensors together.
//     A failure marks the link offline and changes nothing else.
//  2. slowTickMsg (default 5s) fetches /system when no identity with GPUs is
//     cached, then /disk/detailed, /network/detailed and /processes together.
//     Cached uptime advances by one period every slow tick.
//
// Every successful payload is kept verbatim in the SnapshotCache for the
// inspector.
//
// # History
//
// History holds 300-sample RollingBuffers for the analytics view; Charts
// holds 40-sample buffers for the inline sparklines.
//
// # Views
//
//	1 Dashboard  - panel grid, process list and event log
//	2 Analytics  - long-window graphs
//	3 Hardware   - identity detail and active connections (fetched on entry)
//	4 Services   - OS services (fetched on entry)
//
// # Inspector
//
// Enter on a process (or a click) opens the process inspector, which fetches
// /process/{pid} and can terminate the process after a confirm prompt.
// c, m, d, n, y and t open a snapshot inspector over the cached payload.
package monitor

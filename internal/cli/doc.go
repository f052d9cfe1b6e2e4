// Package cli implements the vantasys command-line interface.
//
// Each Cobra command parses its flags and hands off to a plain function
// (dashCommand, serveCommand, inspectCommand, psCommand, Init) that loads
// the config, applies flag overrides and does the work.
//
// # Command Structure
//
//	vantasys serve          - Run the telemetry agent on this machine
//	vantasys dash           - Live dashboard against an agent
//	vantasys inspect <what> - Print one resource or process as a tree
//	vantasys ps             - Print the busiest processes
//	vantasys init           - Create .vantasys.yaml config
//	vantasys completion     - Shell completion scripts
//
// # Flag Handling
//
// Global flags (--config, --verbose, --no-color) live on the root command.
// Flags left at their zero value defer to the config file, which itself
// falls back to defaults and VANTASYS_* environment variables.
//
// # Machine Output
//
// inspect and ps accept --json. Results and errors are then written to
// stdout as a JSONEnvelope so scripts never have to parse styled text.
package cli

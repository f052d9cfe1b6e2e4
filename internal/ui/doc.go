// Package ui provides the styled building blocks for vantasys CLI output:
// the shared color palette and symbols, Bubbles tables, a one-line fetch
// spinner and the agent banner.
//
// Use DisableColors() to switch to monochrome output (for --no-color).
package ui

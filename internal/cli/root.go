package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/vantasys/internal/config"
	"github.com/rileyhilliard/vantasys/internal/errors"
	"github.com/rileyhilliard/vantasys/internal/ui"
)

// Global flags
var (
	cfgFile string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "vantasys",
	Short: "Live system telemetry in your terminal",
	Long: `vantasys watches a machine's CPU, memory, sensors, disks, network,
processes and services.

Run 'vantasys serve' on the machine to watch, then 'vantasys dash' from any
terminal that can reach it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupGlobals()
	},
}

func init() {
	// Execute prints suggestions itself, once.
	rootCmd.DisableSuggestions = true
	rootCmd.SuggestionsMinimumDistance = 2

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .vantasys.yaml, then ~/.config/vantasys/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// setupGlobals applies the global flags before any command runs.
func setupGlobals() error {
	if noColor || os.Getenv("NO_COLOR") != "" {
		ui.DisableColors()
	}
	if verbose {
		os.Setenv("VANTASYS_DEBUG", "1")
	}

	envFiles := []string{".env"}
	if home, err := os.UserHomeDir(); err == nil {
		envFiles = append(envFiles, filepath.Join(home, config.GlobalConfigDir, ".env"))
	}
	if err := config.LoadEnvFiles(envFiles...); err != nil {
		return err
	}

	return nil
}

// loadConfig finds, loads and validates the config. A missing file is not
// an error: defaults with environment overrides apply.
func loadConfig() (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, "", err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// Execute runs the root command and exits with its status.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	if code, ok := errors.GetExitCode(err); ok {
		os.Exit(code)
	}

	if isUnknownCommandError(err) {
		fmt.Fprint(os.Stderr, unknownCommandMessage(err))
		os.Exit(2)
	}

	if machineMode {
		_ = WriteJSONFromError(os.Stdout, err)
	} else {
		fmt.Fprintln(os.Stderr, err.Error())
	}
	os.Exit(1)
}

// unknownCommandMessage is the error plus close command names and a help hint.
func unknownCommandMessage(err error) string {
	var b strings.Builder
	b.WriteString(err.Error() + "\n")
	if name := extractUnknownCommand(err); name != "" {
		if suggestions := rootCmd.SuggestionsFor(name); len(suggestions) > 0 {
			fmt.Fprintf(&b, "\nDid you mean:\n  %s\n", strings.Join(suggestions, "\n  "))
		}
	}
	b.WriteString("\nRun 'vantasys --help' for usage.\n")
	return b.String()
}

// isUnknownCommandError reports whether cobra rejected the arguments.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// extractUnknownCommand pulls "foo" out of `unknown command "foo" for "vantasys"`.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}

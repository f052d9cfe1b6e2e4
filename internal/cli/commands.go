package cli

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/vantasys/internal/errors"
)

// Command-specific flags
var (
	dashURLFlag   string
	dashTokenFlag string
	dashFastFlag  string
	dashSlowFlag  string
	serveHostFlag string
	servePortFlag int
	psLimitFlag   int
	initForce     bool
	initGlobal    bool
)

// dashCmd starts the TUI dashboard
var dashCmd = &cobra.Command{
	Use:     "dash",
	Aliases: []string{"monitor"},
	Short:   "Live telemetry dashboard",
	Long: `Start the interactive dashboard against a running agent.

CPU, memory and sensors refresh every second; disks, network and processes
every five. Views:

  1 Dashboard   live panels and top processes
  2 Analytics   five-minute CPU and memory history
  3 Hardware    identity and open network connections
  4 Services    OS services (Windows agents)

Keyboard shortcuts:
  tab / 1-4     Switch view
  up/k down/j   Move selection
  enter         Inspect selected process
  c m d n y t   Inspect cpu, memory, disk, network, system, sensors
  x             Terminate (inside the process inspector)
  r             Refresh now
  ?             Help
  q / Ctrl+C    Quit

Examples:
  vantasys dash
  vantasys dash --url http://10.0.0.5:6767/api --token s3cret
  vantasys dash --fast 2s --slow 10s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fast, err := parseInterval("fast", dashFastFlag)
		if err != nil {
			return err
		}
		slow, err := parseInterval("slow", dashSlowFlag)
		if err != nil {
			return err
		}
		return dashCommand(DashOptions{
			URL:   dashURLFlag,
			Token: dashTokenFlag,
			Fast:  fast,
			Slow:  slow,
		})
	},
}

// serveCmd runs the telemetry agent
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the telemetry agent",
	Long: `Serve this machine's telemetry over HTTP for 'vantasys dash'.

When api.token is set (or VANTASYS_TOKEN), every /api request must carry it
in the X-API-Key header. Editing the config file while the agent runs
reloads the token.

Examples:
  vantasys serve
  vantasys serve --host 0.0.0.0 --port 6767
  VANTASYS_TOKEN=s3cret vantasys serve`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCommand(serveHostFlag, servePortFlag)
	},
}

// inspectCmd prints one payload as a tree
var inspectCmd = &cobra.Command{
	Use:   "inspect <cpu|memory|disk|network|system|sensors|pid>",
	Short: "Print one resource or process as a tree",
	Long: `Fetch a resource once and print it the way the dashboard inspector does.

Examples:
  vantasys inspect cpu
  vantasys inspect network
  vantasys inspect 4242
  vantasys inspect system --json`,
	Args: cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return []string{"cpu", "memory", "disk", "network", "system", "sensors"}, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspectCommand(args[0])
	},
}

// psCmd prints the process table
var psCmd = &cobra.Command{
	Use:   "ps",
	Short: "List the busiest processes",
	Long: `Print the agent's process list, busiest first.

Examples:
  vantasys ps
  vantasys ps --limit 50
  vantasys ps --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return psCommand(psLimitFlag)
	},
}

// initCmd writes a config file with defaults
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .vantasys.yaml configuration",
	Long: `Write a config file holding every setting at its default.

Creates .vantasys.yaml in the current directory, or the global
~/.config/vantasys/config.yaml with --global.

Examples:
  vantasys init
  vantasys init --global
  vantasys init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := initPath(initGlobal)
		if err != nil {
			return err
		}
		return Init(InitOptions{Path: path, Overwrite: initForce})
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for vantasys.

Examples:
  # Bash
  vantasys completion bash > /etc/bash_completion.d/vantasys

  # Zsh
  vantasys completion zsh > "${fpath[1]}/_vantasys"

  # Fish
  vantasys completion fish > ~/.config/fish/completions/vantasys.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	dashCmd.Flags().StringVar(&dashURLFlag, "url", "", "agent API root (default from api.base_url)")
	dashCmd.Flags().StringVar(&dashTokenFlag, "token", "", "API key sent as X-API-Key")
	dashCmd.Flags().StringVar(&dashFastFlag, "fast", "", "cpu/memory/sensors refresh interval (e.g., 1s)")
	dashCmd.Flags().StringVar(&dashSlowFlag, "slow", "", "disk/network/process refresh interval (e.g., 5s)")

	serveCmd.Flags().StringVar(&serveHostFlag, "host", "", "listen address (default from server.host)")
	serveCmd.Flags().IntVar(&servePortFlag, "port", 0, "listen port (default from server.port)")

	inspectCmd.Flags().BoolVar(&machineMode, "json", false, "print the raw payload as JSON")

	psCmd.Flags().IntVarP(&psLimitFlag, "limit", "n", 0, "number of processes (default from server.process_limit)")
	psCmd.Flags().BoolVar(&machineMode, "json", false, "print JSON instead of a table")

	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config without asking")
	initCmd.Flags().BoolVar(&initGlobal, "global", false, "write ~/.config/vantasys/config.yaml")

	rootCmd.AddCommand(dashCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(psCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
}

// parseInterval parses a refresh interval flag. Empty means "use config".
func parseInterval(name, flag string) (time.Duration, error) {
	if flag == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid --%s interval", flag, name),
			"Try something like 1s, 500ms, or 5s.")
	}
	if d < 100*time.Millisecond {
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("--%s %s is too short", name, flag),
			"Minimum interval is 100ms to avoid hammering the agent")
	}
	return d, nil
}

// parsePID reports whether arg is a process id rather than a resource name.
func parsePID(arg string) (int32, bool) {
	n, err := strconv.ParseInt(arg, 10, 32)
	if err != nil || n <= 0 {
		return 0, false
	}
	return int32(n), true
}

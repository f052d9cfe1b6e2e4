package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCompletionRoot creates a fresh root command so generated scripts do
// not depend on global state.
func newCompletionRoot() *cobra.Command {
	root := &cobra.Command{Use: "vantasys", Short: "Live system telemetry in your terminal"}
	root.AddCommand(&cobra.Command{Use: "dash", Run: func(*cobra.Command, []string) {}})
	return root
}

func TestCompletionGeneration(t *testing.T) {
	tests := []struct {
		shell    string
		gen      func(*cobra.Command, *bytes.Buffer) error
		contains []string
	}{
		{
			shell:    "bash",
			gen:      func(c *cobra.Command, b *bytes.Buffer) error { return c.GenBashCompletion(b) },
			contains: []string{"# bash completion for vantasys", "__vantasys_debug"},
		},
		{
			shell:    "zsh",
			gen:      func(c *cobra.Command, b *bytes.Buffer) error { return c.GenZshCompletion(b) },
			contains: []string{"#compdef vantasys", "_vantasys()"},
		},
		{
			shell:    "fish",
			gen:      func(c *cobra.Command, b *bytes.Buffer) error { return c.GenFishCompletion(b, true) },
			contains: []string{"complete -c vantasys"},
		},
		{
			shell:    "powershell",
			gen:      func(c *cobra.Command, b *bytes.Buffer) error { return c.GenPowerShellCompletion(b) },
			contains: []string{"Register-ArgumentCompleter"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tt.gen(newCompletionRoot(), &buf))
			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestCompletionCmdValidArgs(t *testing.T) {
	assert.ElementsMatch(t, []string{"bash", "zsh", "fish", "powershell"}, completionCmd.ValidArgs)
	assert.Error(t, completionCmd.Args(completionCmd, []string{"tcsh"}))
	assert.NoError(t, completionCmd.Args(completionCmd, []string{"zsh"}))
}

func TestInspectCompletion(t *testing.T) {
	got, directive := inspectCmd.ValidArgsFunction(inspectCmd, nil, "")
	assert.Equal(t, []string{"cpu", "memory", "disk", "network", "system", "sensors"}, got)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)

	got, _ = inspectCmd.ValidArgsFunction(inspectCmd, []string{"cpu"}, "")
	assert.Empty(t, got)
}

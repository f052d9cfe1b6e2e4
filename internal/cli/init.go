package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/rileyhilliard/vantasys/internal/config"
	"github.com/rileyhilliard/vantasys/internal/errors"
	"github.com/rileyhilliard/vantasys/internal/ui"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Path           string // Where to write the config
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Never prompt; refuse to overwrite without Overwrite
}

// confirmOverwrite asks before replacing an existing file. Swapped in tests.
var confirmOverwrite = func(path string) (bool, error) {
	var overwrite bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", path)).
				Value(&overwrite),
		),
	)
	if err := form.Run(); err != nil {
		return false, err
	}
	return overwrite, nil
}

// Init writes a config file holding every default.
func Init(opts InitOptions) error {
	if opts.Path == "" {
		opts.Path = filepath.Join(".", config.ConfigFileName)
	}
	if !opts.NonInteractive && !term.IsTerminal(int(os.Stdin.Fd())) {
		opts.NonInteractive = true
	}

	if _, err := os.Stat(opts.Path); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", opts.Path),
				"Use --force to overwrite")
		}

		overwrite, err := confirmOverwrite(opts.Path)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := config.Save(opts.Path, config.DefaultConfig()); err != nil {
		return err
	}

	fmt.Printf("%s Wrote %s\n", ui.SuccessStyle.Render(ui.SymbolSuccess), opts.Path)
	fmt.Println(ui.MutedStyle.Render("  Set api.token (or VANTASYS_TOKEN) before exposing the agent beyond localhost."))
	return nil
}

// initPath picks the project or global config location.
func initPath(global bool) (string, error) {
	if !global {
		return filepath.Join(".", config.ConfigFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine home directory",
			"Set $HOME or write a project config without --global")
	}
	return filepath.Join(home, config.GlobalConfigDir, config.GlobalConfigFile), nil
}

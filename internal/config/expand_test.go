package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"bare tilde", "~", home},
		{"tilde path", "~/logs/vantasys.log", filepath.Join(home, "logs/vantasys.log")},
		{"absolute path untouched", "/var/log/vantasys.log", "/var/log/vantasys.log"},
		{"tilde user not supported", "~bob/x", "~bob/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandTilde(tt.in))
		})
	}
}

func TestExpand(t *testing.T) {
	t.Setenv("USER", "ada")
	home, _ := os.UserHomeDir()

	assert.Equal(t, "plain", Expand("plain"))
	assert.Equal(t, "/tmp/ada.log", Expand("/tmp/${USER}.log"))
	assert.Equal(t, home+"/x", Expand("${HOME}/x"))
	assert.Equal(t, "${UNKNOWN}", Expand("${UNKNOWN}"))
}

func TestDefaultLogFile(t *testing.T) {
	path := DefaultLogFile()

	assert.Equal(t, "vantasys.log", filepath.Base(path))
	assert.Equal(t, "vantasys", filepath.Base(filepath.Dir(path)))
}

package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/vantasys/internal/api"
	"github.com/rileyhilliard/vantasys/internal/config"
	"github.com/rileyhilliard/vantasys/internal/errors"
	"github.com/rileyhilliard/vantasys/internal/jsontree"
	"github.com/rileyhilliard/vantasys/internal/logger"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestParseInterval(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		want    time.Duration
		wantErr string
	}{
		{"empty defers to config", "", 0, ""},
		{"seconds", "2s", 2 * time.Second, ""},
		{"milliseconds", "250ms", 250 * time.Millisecond, ""},
		{"minimum", "100ms", 100 * time.Millisecond, ""},
		{"too short", "50ms", 0, "too short"},
		{"garbage", "fast", 0, "valid --fast interval"},
		{"bare number", "5", 0, "valid --fast interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseInterval("fast", tt.flag)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.True(t, errors.IsCode(err, errors.ErrConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePID(t *testing.T) {
	tests := []struct {
		arg    string
		want   int32
		wantOK bool
	}{
		{"4242", 4242, true},
		{"1", 1, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"cpu", 0, false},
		{"99999999999", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, ok := parsePID(tt.arg)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyDashOptions(t *testing.T) {
	t.Run("zero options keep config", func(t *testing.T) {
		cfg := config.DefaultConfig()
		applyDashOptions(cfg, DashOptions{})
		assert.Equal(t, config.DefaultConfig().API, cfg.API)
		assert.Equal(t, config.DefaultConfig().Dashboard, cfg.Dashboard)
	})

	t.Run("flags override", func(t *testing.T) {
		cfg := config.DefaultConfig()
		applyDashOptions(cfg, DashOptions{
			URL:   "http://10.0.0.5:6767/api",
			Token: "s3cret",
			Fast:  2 * time.Second,
			Slow:  10 * time.Second,
		})
		assert.Equal(t, "http://10.0.0.5:6767/api", cfg.API.BaseURL)
		assert.Equal(t, "s3cret", cfg.API.Token)
		assert.Equal(t, 2*time.Second, cfg.Dashboard.FastInterval)
		assert.Equal(t, 10*time.Second, cfg.Dashboard.SlowInterval)
	})
}

func TestDashModelOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Inspector.MaxArray = 5
	cfg.Inspector.MaxDepth = 4
	cfg.History.Long = 120
	zones := zone.New()
	defer zones.Close()

	opts := dashModelOptions(cfg, logger.Noop(), zones)

	assert.Equal(t, time.Second, opts.FastInterval)
	assert.Equal(t, 5*time.Second, opts.SlowInterval)
	assert.Equal(t, 120, opts.LongWindow)
	assert.Equal(t, 40, opts.ShortWindow)
	assert.Equal(t, 50, opts.EventLogSize)
	assert.Equal(t, 100, opts.ServicesLimit)
	assert.Equal(t, 5, opts.Tree.MaxArray)
	assert.Equal(t, 4, opts.Tree.MaxDepth)
	assert.Equal(t, cfg.API.BaseURL, opts.Endpoint)
	assert.Same(t, zones, opts.Zones)
}

func TestRenderProcessTable(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "No processes reported.\n", renderProcessTable(nil))
	})

	t.Run("rows", func(t *testing.T) {
		out := renderProcessTable([]api.Process{
			{PID: 4242, Name: "postgres", Username: "postgres", CPUPercent: 12.34, MemoryPercent: 3.5, Status: "running"},
			{PID: 1, Name: "init", Username: "root", Status: "sleeping"},
		})
		assert.Contains(t, out, "PID")
		assert.Contains(t, out, "STATUS")
		assert.Contains(t, out, "4242")
		assert.Contains(t, out, "postgres")
		assert.Contains(t, out, "12.3%")
		assert.Contains(t, out, "3.5%")
		assert.Contains(t, out, "sleeping")
		assert.True(t, strings.HasSuffix(out, "\n"))
	})

	t.Run("long names truncate", func(t *testing.T) {
		long := strings.Repeat("x", 60)
		out := renderProcessTable([]api.Process{{PID: 7, Name: long}})
		assert.NotContains(t, out, long)
	})
}

func TestPrintTree(t *testing.T) {
	t.Run("renders keys and values", func(t *testing.T) {
		var buf bytes.Buffer
		raw := []byte(`{"usage_percent":12.5,"load":{"avg1":0.5}}`)
		require.NoError(t, printTree(&buf, raw, jsontree.DefaultOptions()))
		assert.Contains(t, buf.String(), "usage_percent: 12.5")
		assert.Contains(t, buf.String(), "avg1: 0.5")
	})

	t.Run("collapses long arrays", func(t *testing.T) {
		var buf bytes.Buffer
		opts := jsontree.DefaultOptions()
		opts.MaxArray = 2
		require.NoError(t, printTree(&buf, []byte(`{"cores":[1,2,3]}`), opts))
		assert.Contains(t, buf.String(), "cores: [Array(3)]")
	})

	t.Run("invalid json", func(t *testing.T) {
		var buf bytes.Buffer
		err := printTree(&buf, []byte(`{not json`), jsontree.DefaultOptions())
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrDecode))
	})
}

func TestInspectFetcher(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()
	client := api.New(ts.URL + "/api")

	tests := []struct {
		target    string
		wantLabel string
		wantPath  string
	}{
		{"cpu", "Fetching cpu", "/api/cpu"},
		{"Disk", "Fetching disk", "/api/disk/detailed"},
		{"network", "Fetching network", "/api/network/detailed"},
		{"4242", "Fetching process 4242", "/api/process/4242"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			label, fetch, err := inspectFetcher(context.Background(), client, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLabel, label)

			raw, err := fetch()
			require.NoError(t, err)
			assert.JSONEq(t, `{"ok":true}`, string(raw))
			assert.Equal(t, tt.wantPath, gotPath)
		})
	}

	t.Run("unknown target", func(t *testing.T) {
		_, fetch, err := inspectFetcher(context.Background(), client, "gpu")
		require.Error(t, err)
		assert.Nil(t, fetch)
		assert.True(t, errors.IsCode(err, errors.ErrConfig))
		assert.Contains(t, err.Error(), "gpu")
	})
}

func TestWithSpinnerMachineMode(t *testing.T) {
	prev := machineMode
	machineMode = true
	t.Cleanup(func() { machineMode = prev })

	got, err := withSpinner("Fetching", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	_, err = withSpinner("Fetching", func() (int, error) { return 0, assert.AnError })
	assert.ErrorIs(t, err, assert.AnError)
}

func TestServeDetails(t *testing.T) {
	t.Run("with auth and config", func(t *testing.T) {
		got := serveDetails("127.0.0.1:6767", "/etc/vantasys.yaml", true)
		assert.Equal(t, []string{
			"listening on http://127.0.0.1:6767",
			"config /etc/vantasys.yaml",
			"API key required",
		}, got)
	})

	t.Run("open agent warns", func(t *testing.T) {
		got := serveDetails("0.0.0.0:6767", "", false)
		require.Len(t, got, 2)
		assert.Equal(t, "listening on http://0.0.0.0:6767", got[0])
		assert.Contains(t, got[1], "no API key set")
	})
}

func TestCheckAgent(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		var gotPath string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			_, _ = w.Write([]byte(`{"status":"ok","version":"v1.2.0","mode":"omniscience"}`))
		}))
		defer ts.Close()
		log := logger.NewBufferLogger()

		ok := checkAgent(context.Background(), api.New(ts.URL+"/api"), log)

		assert.True(t, ok)
		assert.Equal(t, "/health", gotPath)
		assert.True(t, log.Contains("info", "v1.2.0"))
	})

	t.Run("unreachable", func(t *testing.T) {
		ts := httptest.NewServer(http.NotFoundHandler())
		url := ts.URL
		ts.Close()
		log := logger.NewBufferLogger()

		ok := checkAgent(context.Background(), api.New(url+"/api"), log)

		assert.False(t, ok)
		assert.True(t, log.Contains("warn", "health check failed"))
	})
}

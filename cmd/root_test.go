package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/forecastctl/config"
	"github.com/s0up4200/forecastctl/forecast"
)

var fixtures = map[string]string{
	"/projects": `{"projects": [
		{"id": 7, "name": "Website", "client_id": 3, "tags": ["internal"], "archived": false},
		{"id": 8, "name": "Mobile", "tags": [], "archived": false},
		{"id": 9, "name": "Legacy", "tags": ["internal"], "archived": true}
	]}`,
	"/projects/7":   `{"project": {"id": 7, "name": "Website", "client_id": 3, "tags": ["internal"]}}`,
	"/clients":      `{"clients": [{"id": 3, "name": "Acme", "archived": false}]}`,
	"/people":       `{"people": [{"id": 1, "first_name": "Ada", "last_name": "Lovelace", "weekly_capacity": 144000, "roles": []}]}`,
	"/placeholders": `{"placeholders": [{"id": 2, "name": "New Hire", "roles": []}]}`,
	"/milestones":   `{"milestones": [{"id": 4, "name": "Launch", "date": "2024-03-08", "project_id": 7}]}`,
	"/assignments": `{"assignments": [
		{"id": 11, "project_id": 7, "person_id": 1, "start_date": "2024-03-04", "end_date": "2024-03-08", "allocation": 28800},
		{"id": 12, "project_id": 8, "placeholder_id": 2, "start_date": "2024-03-05", "end_date": "2024-03-05", "allocation": 14400}
	]}`,
}

// forecastServer serves the fixtures and records request URIs
type forecastServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []string
}

func newForecastServer(t *testing.T) *forecastServer {
	t.Helper()

	s := &forecastServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.URL.RequestURI())
		s.mu.Unlock()

		body, ok := fixtures[r.URL.Path]
		if !ok {
			http.Error(w, `{"errors":["not found"]}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *forecastServer) requested(path string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []string
	for _, r := range s.requests {
		if strings.HasPrefix(r, path) {
			out = append(out, r)
		}
	}
	return out
}

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := fmt.Sprintf(`forecast:
  access_token: test-token
  account_id: 123
  base_url: %s
filter:
  presets:
    internal:
      description: Internal work
      expression: hasTag("internal") and !archived
logging:
  level: error
  color: false
`, baseURL)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// resetFlags returns every flag to "not set" so runs do not leak into each other
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func runCLI(t *testing.T, server *forecastServer, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--config", writeConfig(t, server.URL)}, args...))
	t.Cleanup(func() { resetFlags(rootCmd) })

	err := rootCmd.ExecuteContext(context.Background())
	resetFlags(rootCmd)
	return out.String(), err
}

func TestProjectsCommand(t *testing.T) {
	server := newForecastServer(t)

	tests := []struct {
		name     string
		args     []string
		contains []string
		excludes []string
	}{
		{
			name:     "all",
			args:     []string{"projects"},
			contains: []string{"Website", "Mobile", "Legacy"},
		},
		{
			name:     "where",
			args:     []string{"projects", "--where", `name == "Mobile"`, "-o", "json"},
			contains: []string{`"name": "Mobile"`},
			excludes: []string{"Website", "Legacy"},
		},
		{
			name:     "preset",
			args:     []string{"projects", "--preset", "internal"},
			contains: []string{"Website"},
			excludes: []string{"Mobile", "Legacy"},
		},
		{
			name:     "jq",
			args:     []string{"projects", "--jq", `[.[] | select(.archived) | .id]`, "-o", "json"},
			contains: []string{"9"},
			excludes: []string{"Website"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, server, tt.args...)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}

	assert.NotEmpty(t, server.requested("/projects"))
}

func TestProjectCommand(t *testing.T) {
	server := newForecastServer(t)

	out, err := runCLI(t, server, "project", "7", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "name: Website")
	assert.Contains(t, out, "client_id: 3")
	assert.Equal(t, []string{"/projects/7"}, server.requested("/projects"))

	_, err = runCLI(t, server, "project", "seven")
	assert.ErrorContains(t, err, "invalid id")

	_, err = runCLI(t, server, "client", "99")
	var httpErr *forecast.HTTPError
	require.True(t, errors.As(err, &httpErr), "got %v", err)
	assert.True(t, httpErr.IsNotFound())
}

func TestAssignmentsCommand(t *testing.T) {
	server := newForecastServer(t)

	out, err := runCLI(t, server,
		"assignments", "--project", "7", "--from", "2024-03-01", "--to", "2024-03-31", "--state", "active",
		"--where", "!isPlaceholder", "--jq", ".[].id", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, "11\n", out)
	assert.Equal(t,
		[]string{"/assignments?project_id=7&start_date=2024-03-01&end_date=2024-03-31&state=active"},
		server.requested("/assignments"))

	_, err = runCLI(t, server, "assignments", "--state", "paused")
	assert.ErrorContains(t, err, "invalid state")

	_, err = runCLI(t, server, "assignments", "--from", "2024-03-31", "--to", "2024-03-01")
	assert.ErrorContains(t, err, "before")
}

func TestMilestonesCommand(t *testing.T) {
	server := newForecastServer(t)

	out, err := runCLI(t, server, "milestones")
	require.NoError(t, err)
	assert.Contains(t, out, "Launch")

	_, err = runCLI(t, server, "milestones", "--project", "7", "--project", "8")
	require.NoError(t, err)
	assert.Equal(t, []string{"/milestones", "/milestones?project_id=7%2C8"}, server.requested("/milestones"))
}

func TestScheduleCommand(t *testing.T) {
	server := newForecastServer(t)

	out, err := runCLI(t, server, "schedule", "--from", "2024-03-04", "--to", "2024-03-10")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "New Hire (placeholder)")
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "44h")

	out, err = runCLI(t, server, "schedule", "--from", "2024-03-04", "--totals", "--jq", `.[] | select(.assignee == "Ada Lovelace") | .capacity`)
	require.NoError(t, err)
	assert.Equal(t, "40\n", out)
}

func TestWhoAmIRequiresValidConfig(t *testing.T) {
	var out bytes.Buffer
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("forecast:\n  account_id: 1\n"), 0o600))
	t.Setenv("FORECAST_ACCESS_TOKEN", "")

	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"--config", path, "whoami"})
	t.Cleanup(func() { resetFlags(rootCmd) })

	err := rootCmd.ExecuteContext(context.Background())
	assert.ErrorContains(t, err, "access_token")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "forecastctl dev")
}

func TestNewFilterManager(t *testing.T) {
	manager, err := newFilterManager(config.FilterConfig{
		CacheSize: 4,
		Presets: map[string]config.PresetFilter{
			"internal": {Expression: `hasTag("internal")`},
			"big":      {Expression: `allocation > 4`},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"big", "internal"}, manager.ListFilters())

	_, err = newFilterManager(config.FilterConfig{
		CacheSize: 4,
		Presets:   map[string]config.PresetFilter{"broken": {Expression: `hasTag(`}},
	})
	assert.ErrorContains(t, err, "invalid filter preset")
}

func TestSetupLoggerWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "forecastctl.log")

	log, closer, err := setupLogger(config.LoggingConfig{
		Level:  "debug",
		Format: "json",
		File:   config.LogFileConfig{Path: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1},
	})
	require.NoError(t, err)
	require.NotNil(t, closer)

	log.Debug().Str("component", "test").Msg("written to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"written to file"`)
}

func TestSetupLoggerLevel(t *testing.T) {
	log, closer, err := setupLogger(config.LoggingConfig{Level: "warn", Format: "console"})
	require.NoError(t, err)
	assert.Nil(t, closer)
	assert.Equal(t, "warn", log.GetLevel().String())
}

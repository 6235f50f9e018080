package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const torontoResponse = `[{
	"lat": "43.6534817",
	"lon": "-79.3839347",
	"display_name": "Toronto, Ontario, Canada",
	"address": {"city": "Toronto", "state": "Ontario", "country": "Canada"}
}]`

// setupChain starts a fake Nominatim server and points the configured chain at it:
// "broken" always answers 503, "osm" knows Toronto only.
func setupChain(t *testing.T) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/broken", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Query().Get("q"), "Toronto") {
			_, _ = w.Write([]byte(torontoResponse))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	t.Cleanup(func() { filet.CleanUp(t) })
	file := filet.TmpFile(t, "", `
providers:
  - id: osm
    type: nominatim
    priority: 2
    endpoint: `+server.URL+`/search
    rate_limit: 100
  - id: broken
    type: nominatim
    priority: 1
    endpoint: `+server.URL+`/broken
    rate_limit: 100
`)

	t.Setenv("COMPASS_ENV", "development")
	t.Setenv("COMPASS_PROVIDERS_FILE", file.Name())
	t.Setenv("COMPASS_TRACING", "false")
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	err := root.ExecuteContext(t.Context())

	return stdout.String(), stderr.String(), err
}

func TestResolveCommand(t *testing.T) {
	setupChain(t)

	stdout, _, err := execute(t, "resolve", "Toronto,", "Ontario")

	require.NoError(t, err)
	var result models.GeoResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, "osm", result.ProviderID)
	assert.InDelta(t, 43.6534817, result.Latitude, 1e-9)
	assert.Equal(t, "Toronto", result.City)
}

func TestResolveCommand_Exhausted(t *testing.T) {
	setupChain(t)

	_, stderr, err := execute(t, "resolve", "Atlantis")

	require.Error(t, err)
	assert.Contains(t, stderr, "broken: provider unavailable")
	assert.Contains(t, stderr, "osm: provider returned no results")
}

func TestProvidersCommand(t *testing.T) {
	setupChain(t)

	stdout, _, err := execute(t, "providers")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.True(t, strings.HasPrefix(lines[1], "broken"))
	assert.True(t, strings.HasPrefix(lines[2], "osm"))
}

func TestBatchCommand(t *testing.T) {
	setupChain(t)

	dir := t.TempDir()
	input := filepath.Join(dir, "in.csv")
	output := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(input, []byte("id,city\n1,\"Toronto, Ontario\"\n2,Atlantis\n"), 0o600))

	_, stderr, err := execute(t, "batch", input, "--column", "city", "--output", output)

	require.NoError(t, err)
	assert.JSONEq(t, `{"total":2,"resolved":1,"failed":1}`, strings.TrimSpace(stderr))

	written, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(written), "1,\"Toronto, Ontario\",43.6534817,-79.3839347,\"Toronto, Ontario, Canada\",osm,\n")
	assert.Contains(t, string(written), "2,Atlantis,,,,,")
}

func TestResolveCommand_RequiresArgs(t *testing.T) {
	_, _, err := execute(t, "resolve")

	require.Error(t, err)
}

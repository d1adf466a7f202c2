package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeeroo struct {
	*httptest.Server
	submitted   map[string]any
	statusCalls atomic.Int32
}

func newFakeLeeroo(t *testing.T) *fakeLeeroo {
	f := &fakeLeeroo{}
	r := chi.NewRouter()
	r.Post("/authenticate/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("api_key") != "k1" {
			_, _ = w.Write([]byte(`{"detail":"unknown key"}`))
			return
		}
		_, _ = w.Write([]byte(`{"user_id":"u1"}`))
	})
	r.Post("/initialize_workflow_configs/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("seed_data")
		require.NoError(t, err)
		resp := map[string]any{
			"workflow_name": r.FormValue("workflow_name"),
			"budget":        json.Number(r.FormValue("budget")),
			"seed_file":     header.Filename,
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})
	r.Post("/submit_workflow/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&f.submitted))
		_, _ = w.Write([]byte(`{"workflow_runnning_state_id":"run-1"}`))
	})
	r.Post("/get_user_workflows/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"workflow_runnning_state_id":"run-1","workflow_name":"tickets"}]`))
	})
	r.Post("/get_workflow_status/", func(w http.ResponseWriter, r *http.Request) {
		if f.statusCalls.Add(1) < 3 {
			_, _ = w.Write([]byte(`{"workflow_node_status":{"train":"running"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"workflow_node_status":{"train":"Executed"}}`))
	})
	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Close)
	return f
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func TestWorkflowLifecycle(t *testing.T) {
	t.Setenv(APIKeyEnv, "")
	server := newFakeLeeroo(t)
	dir := t.TempDir()

	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, (&Config{Version: ConfigFormatVersion, ServerURL: server.URL, APIKey: "k1"}).WriteConfig(cfgPath))
	t.Cleanup(func() { configFile = "" })

	require.NoError(t, runCLI(t, "--config", cfgPath, "login"))
	cfg, err := ReadConfig(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "u1", cfg.UserID)

	seedPath := writeFile(t, dir, "seed.json", `[{"query":"q","response":"r"}]`)
	outPath := filepath.Join(dir, "wf.json")
	require.NoError(t, runCLI(t, "--config", cfgPath, "workflow", "init", "classify tickets",
		"--name", "tickets", "--seed", seedPath, "--budget", "3", "--out", outPath))

	workflowConfig, err := loadWorkflowConfig(outPath, false)
	require.NoError(t, err)
	assert.Equal(t, "tickets", workflowConfig["workflow_name"])
	assert.Equal(t, json.Number("3"), workflowConfig["budget"])
	assert.Equal(t, "seed.json", workflowConfig["seed_file"])

	require.NoError(t, runCLI(t, "--config", cfgPath, "workflow", "submit", outPath))
	assert.Equal(t, "u1", server.submitted["user_id"])
	assert.Equal(t, "k1", server.submitted["api_key"])
	assert.Equal(t, "tickets", server.submitted["workflow_name"])

	require.NoError(t, runCLI(t, "--config", cfgPath, "workflow", "list"))

	require.NoError(t, runCLI(t, "--config", cfgPath, "workflow", "status", "run-1", "--wait", "--interval", "1ms"))
	// three polls plus the final display
	assert.Equal(t, int32(4), server.statusCalls.Load())
}

func TestLoginInsecureServer(t *testing.T) {
	t.Setenv(APIKeyEnv, "")
	r := chi.NewRouter()
	r.Post("/authenticate/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user_id":"u1"}`))
	})
	server := httptest.NewTLSServer(r)
	defer server.Close()
	t.Cleanup(func() { configFile = "" })

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg := &Config{Version: ConfigFormatVersion, ServerURL: server.URL, APIKey: "k1"}
	require.NoError(t, cfg.WriteConfig(cfgPath))
	require.Error(t, runCLI(t, "--config", cfgPath, "login"))

	cfg.InsecureSkipVerify = true
	require.NoError(t, cfg.WriteConfig(cfgPath))
	require.NoError(t, runCLI(t, "--config", cfgPath, "login"))

	saved, err := ReadConfig(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "u1", saved.UserID)
	assert.True(t, saved.InsecureSkipVerify)
}

func TestWorkflowInitRejectsBadSeed(t *testing.T) {
	t.Setenv(APIKeyEnv, "")
	server := newFakeLeeroo(t)
	dir := t.TempDir()

	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, (&Config{Version: ConfigFormatVersion, ServerURL: server.URL, APIKey: "k1"}).WriteConfig(cfgPath))
	t.Cleanup(func() { configFile = "" })

	seedPath := writeFile(t, dir, "seed.json", `{"query":"q"}`)
	err := runCLI(t, "--config", cfgPath, "workflow", "init", "x", "--name", "n", "--seed", seedPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed data")
}

func TestCommandsRequireConfig(t *testing.T) {
	t.Setenv(APIKeyEnv, "")
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	t.Cleanup(func() { configFile = "" })

	err := runCLI(t, "--config", missing, "workflow", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leeroo config file not found")

	_, statErr := os.Stat(missing)
	assert.True(t, os.IsNotExist(statErr))
}

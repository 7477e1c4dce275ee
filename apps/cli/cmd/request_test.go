package cmd

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/fetchclient/packages/client"
	"github.com/abdul-hamid-achik/fetchclient/packages/core/config"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout and the exit code.
func execute(t *testing.T, args ...string) (string, int) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	if err == nil {
		return stdout.String(), ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return stdout.String(), ee.code
	}
	return stdout.String(), ExitUsageError
}

// resetFlags restores every flag in the command tree to its default so one
// run cannot leak values into the next.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func decodeOutput(t *testing.T, out string) map[string]any {
	t.Helper()
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	return got
}

func TestGetCommand_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"users": [{"id": "u1"}], "total": 1}`))
	}))
	defer server.Close()

	out, code := execute(t, "get", "/users", "--origin", server.URL, "-q", "page=2", "--request-id",
		"--capture", "first=users.0.id", "-o", "json", "--no-color")

	assert.Equal(t, ExitSuccess, code)
	got := decodeOutput(t, out)
	assert.Equal(t, true, got["succeeded"])
	assert.Equal(t, map[string]any{"first": "u1"}, got["captures"])
}

func TestPostCommand_ResponseFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "yes", r.Header.Get("X-Debug"))
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error": "bad"}`))
	}))
	defer server.Close()

	out, code := execute(t, "post", server.URL+"/users", "-d", `{"x": 1}`, "-H", "X-Debug: yes", "-o", "json")

	assert.Equal(t, ExitResponseFailure, code)
	got := decodeOutput(t, out)
	assert.Equal(t, false, got["succeeded"])
	assert.Equal(t, true, got["responseReceived"])
}

func TestDeleteCommand_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	out, code := execute(t, "delete", addr+"/users/1", "-o", "json")

	assert.Equal(t, ExitNetworkError, code)
	got := decodeOutput(t, out)
	assert.Equal(t, false, got["responseReceived"])
	assert.Contains(t, got, "networkError")
}

func TestGetCommand_SchemaFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "not-a-number"}`))
	}))
	defer server.Close()

	schemaPath := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{"type": "object", "properties": {"id": {"type": "integer"}}}`), 0644))

	out, code := execute(t, "get", server.URL, "--schema", schemaPath, "-o", "json")

	assert.Equal(t, ExitSchemaFailure, code)
	got := decodeOutput(t, out)
	assert.Len(t, got["schemaViolations"], 1)
}

func TestCSRFCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><meta name="csrf-token" content="tok-1"></head></html>`))
	}))
	defer server.Close()

	out, code := execute(t, "csrf", "--origin", server.URL)

	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "tok-1\n", out)
}

func TestRequestHeaders(t *testing.T) {
	headerFlags = nil
	t.Cleanup(func() { headerFlags = nil })

	headers, err := requestHeaders(config.DefaultConfig(), false)
	require.NoError(t, err)
	assert.Nil(t, headers)

	headerFlags = []string{"Authorization: Bearer abc"}
	headers, err = requestHeaders(config.DefaultConfig(), false)
	require.NoError(t, err)
	assert.Equal(t, client.Headers{
		"Accept":        "application/json",
		"Content-Type":  "application/json",
		"Authorization": "Bearer abc",
	}, headers)

	cfg := config.DefaultConfig()
	cfg.Headers = map[string]string{"Accept": "application/vnd.api+json"}
	headers, err = requestHeaders(cfg, true)
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.api+json", headers["Accept"])
	assert.NotContains(t, headers, "Content-Type")
	assert.Len(t, headers[RequestIDHeader], 36)

	headerFlags = []string{"no-colon"}
	_, err = requestHeaders(config.DefaultConfig(), false)
	assert.Error(t, err)
}

func TestReadBody(t *testing.T) {
	body, err := readBody(`{"a": [1, 2]}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": []any{float64(1), float64(2)}}, body)

	path := filepath.Join(t.TempDir(), "body.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"from": "file"}`), 0644))
	body, err = readBody("@" + path)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"from": "file"}, body)

	_, err = readBody(`{"a":`)
	assert.Error(t, err)
}

func TestParsePairs(t *testing.T) {
	pairs, err := parsePairs([]string{"a=1", "b=x=y", "c="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "x=y", "c": ""}, pairs)

	_, err = parsePairs([]string{"novalue"})
	assert.Error(t, err)
}

func TestExecute_FlagsDoNotCarryOver(t *testing.T) {
	var requestIDs []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestIDs = append(requestIDs, r.Header.Get(RequestIDHeader))
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	_, code := execute(t, "get", "/ping", "--origin", server.URL, "--request-id", "-H", "X-Debug: yes", "-o", "json")
	require.Equal(t, ExitSuccess, code)

	out, code := execute(t, "get", server.URL+"/ping")
	require.Equal(t, ExitSuccess, code)
	assert.NotContains(t, out, `"kind"`)

	_, code = execute(t, "get", "/ping")
	assert.Equal(t, ExitUsageError, code)

	require.Len(t, requestIDs, 2)
	assert.NotEmpty(t, requestIDs[0])
	assert.Empty(t, requestIDs[1])
	assert.Empty(t, headerFlags)
}

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"0s", 0, false},
		{"1ms", 1, false},
		{"1.5s", 1500, false},
		{"500us", 0, true},
		{"-1s", 0, true},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTimeout(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadSettings_TimeoutFlagOverridesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".fetchclient.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"timeout": 5000}`), 0644))

	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })
	configFlag = path

	cfg, err := loadSettings()
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Timeout)

	timeoutFlag = "0s"
	cfg, err = loadSettings()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Timeout)

	timeoutFlag = "250ms"
	cfg, err = loadSettings()
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.Timeout)

	timeoutFlag = "10us"
	_, err = loadSettings()
	assert.Error(t, err)
}

func TestGetCommand_JSONErrors(t *testing.T) {
	out, code := execute(t, "get", "/users", "-o", "json")

	assert.Equal(t, ExitUsageError, code)
	got := decodeOutput(t, out)
	assert.Contains(t, got["error"], "set --origin")
}

func TestCSRFCommand_JSONErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head></head></html>`))
	}))
	defer server.Close()

	out, code := execute(t, "csrf", "--origin", server.URL, "-o", "json")

	assert.Equal(t, ExitResponseFailure, code)
	got := decodeOutput(t, out)
	assert.Contains(t, got["error"], "csrf")
}

func TestVersionCommand(t *testing.T) {
	out, code := execute(t, "version")

	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, versionString()+"\n", out)
	assert.Contains(t, out, "fetchclient "+version)
}

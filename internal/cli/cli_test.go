package cli

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/broadinstitute/cromwell-tools/internal/app"
	"github.com/broadinstitute/cromwell-tools/internal/config"
	"github.com/broadinstitute/cromwell-tools/internal/logger"
	"github.com/broadinstitute/cromwell-tools/internal/mock"
	"github.com/broadinstitute/cromwell-tools/internal/service"
	"github.com/broadinstitute/cromwell-tools/internal/testserver"
	"github.com/broadinstitute/cromwell-tools/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testBuildInfo = models.NewAppBuildInfo("1.2.3", "2026-10-01", "abc123")

var cromwellEnvKeys = []string{
	"CROMWELL_CONFIG",
	"CROMWELL_SERVER_URL", "CROMWELL_SERVER_REQUEST_TIMEOUT",
	"CROMWELL_AUTH_USERNAME", "CROMWELL_AUTH_PASSWORD", "CROMWELL_AUTH_SECRETS_FILE",
	"CROMWELL_AUTH_SERVICE_ACCOUNT_KEY", "CROMWELL_AUTH_TOKEN", "CROMWELL_AUTH_MANAGED",
	"CROMWELL_WAIT_POLL_INTERVAL", "CROMWELL_WAIT_TIMEOUT",
	"CROMWELL_TOOLS_WOMTOOL_PATH", "CROMWELL_TOOLS_JAVA_PATH",
	"CROMWELL_LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range cromwellEnvKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, args []string, opts ...Option) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	opts = append([]Option{WithOutput(&stdout, &stderr)}, opts...)
	code := Execute(context.Background(), testBuildInfo, args, opts...)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func startServer(t *testing.T, opts ...testserver.Option) (*testserver.Server, string) {
	t.Helper()
	clearEnv(t)
	srv := testserver.New(opts...)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return srv, ts.URL
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSubmit(t *testing.T) {
	srv, url := startServer(t, testserver.WithBasicAuth("alice", "secret"))
	dir := t.TempDir()
	wdl := writeFile(t, dir, "main.wdl", "workflow main {}")
	inputs := writeFile(t, dir, "inputs.json", `{"main.x": 1}`)
	labelFile := writeFile(t, dir, "labels.yaml", "team: alpha\n")

	var copied string
	res := runCLI(t, []string{
		"--url", url, "--username", "alice", "--password", "secret",
		"submit", "-w", wdl, "-i", inputs,
		"--label-file", labelFile, "-l", "owner=bob",
		"--on-hold", "--copy-id",
	}, WithClipboard(func(s string) error {
		copied = s
		return nil
	}))

	require.Equal(t, app.ExitOK, res.code, res.stderr)
	subs := srv.Submissions()
	require.Len(t, subs, 1)
	assert.Equal(t, subs[0].ID, copied)
	assert.Contains(t, res.stderr, "Workflow submitted: "+subs[0].ID)
	assert.Contains(t, res.stdout, subs[0].ID)
	assert.Contains(t, res.stdout, "On Hold")

	assert.Equal(t, "alice", subs[0].Principal)
	assert.Equal(t, "workflow main {}", string(subs[0].Parts["workflowSource"]))
	assert.JSONEq(t, `{"main.x": 1}`, string(subs[0].Parts["workflowInputs"]))
	assert.JSONEq(t, `{"team": "alpha", "owner": "bob"}`, string(subs[0].Parts["labels"]))
	assert.Equal(t, "true", subs[0].Fields["workflowOnHold"])
}

func TestSubmit_Errors(t *testing.T) {
	dir := t.TempDir()
	wdl := writeFile(t, dir, "main.wdl", "workflow main {}")
	inputs := writeFile(t, dir, "inputs.json", `{}`)

	t.Run("bad label pair", func(t *testing.T) {
		srv, url := startServer(t)
		res := runCLI(t, []string{"--url", url, "submit", "-w", wdl, "-i", inputs, "-l", "no-separator"})
		assert.Equal(t, app.ExitValidationInput, res.code)
		assert.Empty(t, srv.Submissions())
	})

	t.Run("missing inputs", func(t *testing.T) {
		_, url := startServer(t)
		res := runCLI(t, []string{"--url", url, "submit", "-w", wdl})
		assert.Equal(t, app.ExitValidationInput, res.code)
	})

	t.Run("zip file without zip suffix", func(t *testing.T) {
		srv, url := startServer(t)
		deps := writeFile(t, dir, "tasks.wdl", "task t {}")
		res := runCLI(t, []string{"--url", url, "submit", "-w", wdl, "-i", inputs, "--zip-file", deps})
		assert.Equal(t, app.ExitValidationInput, res.code)
		assert.Empty(t, srv.Submissions())
	})

	t.Run("zip file and dependency files", func(t *testing.T) {
		srv, url := startServer(t)
		archive := writeFile(t, dir, "deps.zip", "PK")
		deps := writeFile(t, dir, "tasks.wdl", "task t {}")
		res := runCLI(t, []string{
			"--url", url, "submit", "-w", wdl, "-i", inputs, "--zip-file", archive, "--dependency", deps,
		})
		assert.Equal(t, app.ExitValidationInput, res.code)
		assert.Empty(t, srv.Submissions())
	})

	t.Run("clipboard failure is not fatal", func(t *testing.T) {
		_, url := startServer(t)
		res := runCLI(t, []string{"--url", url, "submit", "-w", wdl, "-i", inputs, "--copy-id"},
			WithClipboard(func(string) error { return assert.AnError }))
		assert.Equal(t, app.ExitOK, res.code, res.stderr)
		assert.Contains(t, res.stderr, "could not copy workflow id")
	})
}

func TestSubmit_SingleDependencyIsZipped(t *testing.T) {
	srv, url := startServer(t)
	dir := t.TempDir()
	wdl := writeFile(t, dir, "main.wdl", "import \"tasks.wdl\"\nworkflow main {}")
	inputs := writeFile(t, dir, "inputs.json", `{}`)
	deps := writeFile(t, dir, "tasks.wdl", "task t {}")

	res := runCLI(t, []string{"--url", url, "submit", "-w", wdl, "-i", inputs, "--dependency", deps})
	require.Equal(t, app.ExitOK, res.code, res.stderr)

	subs := srv.Submissions()
	require.Len(t, subs, 1)
	archive := subs[0].Parts["workflowDependencies"]
	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)
	require.Len(t, reader.File, 1)
	assert.Equal(t, "tasks.wdl", reader.File[0].Name)
}

func TestServiceAccountKey(t *testing.T) {
	key, err := testserver.NewServiceAccountKey("robot@example.iam.gserviceaccount.com")
	require.NoError(t, err)
	srv, url := startServer(t, testserver.WithServiceAccount(key.PublicKey))
	path, err := key.WriteFile(t.TempDir(), url+testserver.TokenPath)
	require.NoError(t, err)
	id := srv.AddWorkflow("busy", models.StatusRunning)

	res := runCLI(t, []string{"--url", url, "--service-account-key", path, "status", "-u", id})
	require.Equal(t, app.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Running")
	assert.Equal(t, 1, srv.TokensIssued())
	assert.Equal(t, []string{key.ClientEmail}, srv.Principals())
}

func TestWorkflowCalls(t *testing.T) {
	srv, url := startServer(t, testserver.WithBearerToken("t0k3n"))
	onHold := srv.AddWorkflow("held", models.StatusOnHold)
	running := srv.AddWorkflow("busy", models.StatusRunning)
	base := []string{"--url", url, "--token", "t0k3n"}

	res := runCLI(t, append(base, "status", "-u", running))
	require.Equal(t, app.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Running")

	res = runCLI(t, append(base, "release_hold", "-u", onHold))
	require.Equal(t, app.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Submitted")

	res = runCLI(t, append(base, "release_hold", "-u", onHold))
	assert.Equal(t, app.ExitGeneric, res.code)

	res = runCLI(t, append(base, "--json", "abort", "-u", running))
	require.Equal(t, app.ExitOK, res.code, res.stderr)
	var aborted models.WorkflowIDAndStatus
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &aborted))
	assert.Equal(t, models.WorkflowIDAndStatus{ID: running, Status: models.StatusAborting}, aborted)

	res = runCLI(t, append(base, "metadata", "-u", running))
	require.Equal(t, app.ExitOK, res.code, res.stderr)
	var metadata map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &metadata))
	assert.Equal(t, "busy", metadata["workflowName"])

	res = runCLI(t, append(base, "status", "-u", "00000000-0000-0000-0000-000000000000"))
	assert.Equal(t, app.ExitWorkflowNotFound, res.code)
	assert.Contains(t, res.stderr, "Error:")
}

func TestQuery(t *testing.T) {
	srv, url := startServer(t)
	running := srv.AddWorkflow("busy", models.StatusRunning)
	srv.AddWorkflow("done", models.StatusSucceeded)

	res := runCLI(t, []string{"--url", url, "query", "-f", "status=Running"})
	require.Equal(t, app.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, running)
	assert.Contains(t, res.stdout, "busy")
	assert.NotContains(t, res.stdout, "done")

	res = runCLI(t, []string{"--url", url, "--json", "query"})
	require.Equal(t, app.ExitOK, res.code, res.stderr)
	var resp models.QueryResponse
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	assert.Equal(t, 2, resp.TotalResultsCount)

	res = runCLI(t, []string{"--url", url, "query", "-f", "status"})
	assert.Equal(t, app.ExitValidationInput, res.code)
}

func TestHealthAndVersion(t *testing.T) {
	srv, url := startServer(t)

	res := runCLI(t, []string{"--url", url, "health"})
	require.Equal(t, app.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Engine Database")

	srv.SetHealth(models.HealthResponse{"PAPI": {OK: false, Messages: []string{"quota exceeded"}}})
	res = runCLI(t, []string{"--url", url, "--json", "health"})
	require.Equal(t, app.ExitOK, res.code, res.stderr)
	var health healthReport
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &health))
	assert.False(t, health.Healthy)

	res = runCLI(t, []string{"--url", url, "--json", "version"})
	require.Equal(t, app.ExitOK, res.code, res.stderr)
	var version versionReport
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &version))
	assert.Equal(t, "1.2.3", version.Client.Version)
	assert.Equal(t, "abc123", version.Client.Commit)
	assert.Equal(t, "86", version.Server)
}

func TestWait(t *testing.T) {
	t.Run("all succeeded", func(t *testing.T) {
		srv, url := startServer(t)
		a := srv.AddWorkflow("a", models.StatusSucceeded)
		b := srv.AddWorkflow("b", models.StatusSucceeded)

		res := runCLI(t, []string{"--url", url, "wait", a, b, "--poll-interval-seconds", "1"})
		require.Equal(t, app.ExitOK, res.code, res.stderr)
		assert.Contains(t, res.stdout, a)
		assert.Contains(t, res.stdout, b)
		assert.Equal(t, 1, srv.StatusCalls(a))
	})

	t.Run("failed workflow", func(t *testing.T) {
		srv, url := startServer(t)
		ok := srv.AddWorkflow("ok", models.StatusSucceeded)
		failed := srv.AddWorkflow("bad", models.StatusFailed)

		res := runCLI(t, []string{"--url", url, "wait", ok, failed})
		assert.Equal(t, app.ExitGeneric, res.code)
		assert.Contains(t, res.stdout, "Failed")
		assert.Contains(t, res.stderr, failed)
	})

	t.Run("timeout keeps partial result", func(t *testing.T) {
		srv, url := startServer(t)
		done := srv.AddWorkflow("done", models.StatusSucceeded)
		slow := srv.AddWorkflow("slow", models.StatusRunning)

		res := runCLI(t, []string{
			"--url", url, "--json", "wait", done, slow,
			"--timeout-minutes", "1", "--poll-interval-seconds", "120",
		})
		assert.Equal(t, app.ExitWaitTimeout, res.code)

		var report waitReport
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &report))
		assert.True(t, report.TimedOut)
		assert.Equal(t, models.StatusSucceeded, report.Workflows[done].Status)
		assert.Equal(t, models.StatusTimedOut, report.Workflows[slow].Status)
		assert.Equal(t, models.StatusRunning, report.Workflows[slow].LastReported)
	})

	t.Run("unknown workflow", func(t *testing.T) {
		_, url := startServer(t)
		res := runCLI(t, []string{"--url", url, "wait", "00000000-0000-0000-0000-000000000000"})
		assert.Equal(t, app.ExitWorkflowNotFound, res.code)
	})

	for name, flags := range map[string][]string{
		"zero timeout":           {"--timeout-minutes", "0"},
		"negative timeout":       {"--timeout-minutes", "-5"},
		"zero poll interval":     {"--poll-interval-seconds", "0"},
		"negative poll interval": {"--poll-interval-seconds", "-1"},
	} {
		t.Run(name, func(t *testing.T) {
			srv, url := startServer(t)
			id := srv.AddWorkflow("busy", models.StatusRunning)
			res := runCLI(t, append([]string{"--url", url, "wait", id}, flags...))
			assert.Equal(t, app.ExitValidationInput, res.code)
			assert.Zero(t, srv.StatusCalls(id))
		})
	}
}

func TestConfigurationErrors(t *testing.T) {
	t.Run("missing url", func(t *testing.T) {
		clearEnv(t)
		res := runCLI(t, []string{"status", "-u", "id"})
		assert.Equal(t, app.ExitConfig, res.code)
		assert.Contains(t, res.stderr, "server url is required")
	})

	t.Run("url from environment", func(t *testing.T) {
		srv, url := startServer(t)
		id := srv.AddWorkflow("env", models.StatusRunning)
		t.Setenv("CROMWELL_SERVER_URL", url)

		res := runCLI(t, []string{"status", "-u", id})
		assert.Equal(t, app.ExitOK, res.code, res.stderr)
	})

	t.Run("ambiguous credentials", func(t *testing.T) {
		_, url := startServer(t)
		res := runCLI(t, []string{"--url", url, "--token", "t", "--username", "u", "--password", "p", "health"})
		assert.Equal(t, app.ExitAmbiguousCredentials, res.code)
	})

	t.Run("missing credential file", func(t *testing.T) {
		_, url := startServer(t)
		res := runCLI(t, []string{"--url", url, "--service-account-key", filepath.Join(t.TempDir(), "none.json"), "health"})
		assert.Equal(t, app.ExitCredentialFile, res.code)
	})

	t.Run("rejected credentials", func(t *testing.T) {
		_, url := startServer(t, testserver.WithBasicAuth("alice", "secret"))
		res := runCLI(t, []string{"--url", url, "--username", "alice", "--password", "nope", "health"})
		assert.Equal(t, app.ExitAuthRejected, res.code)
	})

	t.Run("invalid log level", func(t *testing.T) {
		_, url := startServer(t)
		res := runCLI(t, []string{"--url", url, "--log-level", "loud", "health"})
		assert.Equal(t, app.ExitConfig, res.code)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		result   models.ValidationResult
		wantCode int
	}{
		{
			name:     "valid",
			result:   models.ValidationResult{Valid: true, Messages: []string{"Success!"}},
			wantCode: app.ExitOK,
		},
		{
			name:     "invalid",
			result:   models.ValidationResult{Valid: false, Messages: []string{"ERROR: Unexpected symbol"}},
			wantCode: app.ExitGeneric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			ctrl := gomock.NewController(t)
			validation := mock.NewMockValidationService(ctrl)
			validation.EXPECT().
				Validate(gomock.Any(), models.ValidationRequest{WorkflowPath: "main.wdl", WomtoolPath: "/opt/womtool.jar"}).
				Return(tt.result, nil)

			factory := func(cfg *config.ClientConfig, withServer bool, log *logger.Logger) (*service.Services, error) {
				assert.False(t, withServer)
				return &service.Services{ValidationService: validation}, nil
			}

			res := runCLI(t, []string{"validate", "-w", "main.wdl", "--womtool-path", "/opt/womtool.jar"},
				WithServicesFactory(factory))
			assert.Equal(t, tt.wantCode, res.code)
			assert.Contains(t, res.stdout, tt.result.Messages[0])
		})
	}

	t.Run("womtool not configured", func(t *testing.T) {
		clearEnv(t)
		res := runCLI(t, []string{"validate", "-w", "main.wdl"},
			WithServicesFactory(func(*config.ClientConfig, bool, *logger.Logger) (*service.Services, error) {
				return &service.Services{}, nil
			}))
		assert.Equal(t, app.ExitConfig, res.code)
	})
}

package service

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/broadinstitute/cromwell-tools/internal/logger"
	"github.com/broadinstitute/cromwell-tools/internal/utils"
	"github.com/broadinstitute/cromwell-tools/internal/validators"
	"github.com/broadinstitute/cromwell-tools/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManifestSvc(t *testing.T) *manifestService {
	t.Helper()
	return NewManifestService(utils.NewHTTPClient(5*time.Second), validators.NewSubmissionValidator(), logger.Nop()).(*manifestService)
}

func writeTestFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestManifest_Prepare_LocalFiles(t *testing.T) {
	dir := writeTestFiles(t, map[string]string{
		"main.wdl":     "version 1.0\nworkflow main {}",
		"inputs.json":  `{"main.x": 1}`,
		"inputs2.yaml": "main.y: two\n",
		"options.json": `{"read_from_cache": false}`,
		"labels.yml":   "project: alpha\n",
		"deps.zip":     "PK\x03\x04",
	})

	svc := newTestManifestSvc(t)
	req, err := svc.Prepare(context.Background(), models.SubmissionFiles{
		WorkflowSource:  filepath.Join(dir, "main.wdl"),
		Inputs:          []string{filepath.Join(dir, "inputs.json"), filepath.Join(dir, "inputs2.yaml")},
		Options:         filepath.Join(dir, "options.json"),
		Labels:          filepath.Join(dir, "labels.yml"),
		DependenciesZip: filepath.Join(dir, "deps.zip"),
		CollectionName:  "team",
		OnHold:          true,
		ValidateLabels:  true,
	})

	require.NoError(t, err)
	assert.Equal(t, "main.wdl", req.WorkflowSource.Name)
	require.Len(t, req.Inputs, 2)
	assert.JSONEq(t, `{"main.x": 1}`, string(req.Inputs[0].Content))
	assert.JSONEq(t, `{"main.y": "two"}`, string(req.Inputs[1].Content))
	assert.Equal(t, "inputs2.json", req.Inputs[1].Name)
	assert.JSONEq(t, `{"read_from_cache": false}`, string(req.Options.Content))
	assert.JSONEq(t, `{"project": "alpha"}`, string(req.Labels.Content))
	assert.Equal(t, []byte("PK\x03\x04"), req.Dependencies.Content)
	assert.Equal(t, "team", req.CollectionName)
	assert.True(t, req.OnHold)
	assert.True(t, req.ValidateLabels)
}

func TestManifest_Prepare_ZipsSeveralDependencies(t *testing.T) {
	dir := writeTestFiles(t, map[string]string{
		"main.wdl":  "workflow main {}",
		"in.json":   `{}`,
		"tasks.wdl": "task t {}",
		"utils.wdl": "task u {}",
	})

	svc := newTestManifestSvc(t)
	req, err := svc.Prepare(context.Background(), models.SubmissionFiles{
		WorkflowSource: filepath.Join(dir, "main.wdl"),
		Inputs:         []string{filepath.Join(dir, "in.json")},
		Dependencies:   []string{filepath.Join(dir, "tasks.wdl"), filepath.Join(dir, "utils.wdl")},
	})
	require.NoError(t, err)
	assert.Equal(t, dependenciesArchiveName, req.Dependencies.Name)

	archive, err := zip.NewReader(bytes.NewReader(req.Dependencies.Content), int64(len(req.Dependencies.Content)))
	require.NoError(t, err)

	contents := map[string]string{}
	for _, f := range archive.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		contents[f.Name] = string(data)
	}
	assert.Equal(t, map[string]string{"tasks.wdl": "task t {}", "utils.wdl": "task u {}"}, contents)
}

func TestManifest_Prepare_Remote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/wf/main.wdl":
			_, _ = io.WriteString(w, "workflow main {}")
		case "/wf/inputs.json":
			_, _ = io.WriteString(w, `{"main.x": 1}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	svc := newTestManifestSvc(t)
	req, err := svc.Prepare(context.Background(), models.SubmissionFiles{
		WorkflowSource: srv.URL + "/wf/main.wdl",
		Inputs:         []string{srv.URL + "/wf/inputs.json"},
	})

	require.NoError(t, err)
	assert.Equal(t, "main.wdl", req.WorkflowSource.Name)
	assert.Equal(t, "workflow main {}", string(req.WorkflowSource.Content))

	_, err = svc.Prepare(context.Background(), models.SubmissionFiles{
		WorkflowSource: srv.URL + "/wf/missing.wdl",
		Inputs:         []string{srv.URL + "/wf/inputs.json"},
	})
	require.ErrorIs(t, err, validators.ErrValidationInput)
}

func TestManifest_Prepare_ZipsSingleDependency(t *testing.T) {
	dir := writeTestFiles(t, map[string]string{
		"main.wdl":  "workflow main {}",
		"in.json":   `{}`,
		"tasks.wdl": "task t {}",
	})

	svc := newTestManifestSvc(t)
	req, err := svc.Prepare(context.Background(), models.SubmissionFiles{
		WorkflowSource: filepath.Join(dir, "main.wdl"),
		Inputs:         []string{filepath.Join(dir, "in.json")},
		Dependencies:   []string{filepath.Join(dir, "tasks.wdl")},
	})
	require.NoError(t, err)
	assert.Equal(t, dependenciesArchiveName, req.Dependencies.Name)

	archive, err := zip.NewReader(bytes.NewReader(req.Dependencies.Content), int64(len(req.Dependencies.Content)))
	require.NoError(t, err)
	require.Len(t, archive.File, 1)
	assert.Equal(t, "tasks.wdl", archive.File[0].Name)
}

func TestManifest_Prepare_InvalidInput(t *testing.T) {
	dir := writeTestFiles(t, map[string]string{
		"main.wdl":  "workflow main {}",
		"in.json":   `{}`,
		"bad.json":  "just some text",
		"tasks.wdl": "task t {}",
	})
	path := func(name string) string { return filepath.Join(dir, name) }

	tests := []struct {
		name  string
		files models.SubmissionFiles
	}{
		{"no workflow", models.SubmissionFiles{Inputs: []string{path("in.json")}}},
		{"no inputs", models.SubmissionFiles{WorkflowSource: path("main.wdl")}},
		{"missing file", models.SubmissionFiles{WorkflowSource: path("nope.wdl"), Inputs: []string{path("in.json")}}},
		{"unparseable inputs", models.SubmissionFiles{WorkflowSource: path("main.wdl"), Inputs: []string{path("bad.json")}}},
		{"non zip archive", models.SubmissionFiles{
			WorkflowSource: path("main.wdl"), Inputs: []string{path("in.json")}, DependenciesZip: path("tasks.wdl"),
		}},
		{"archive and files", models.SubmissionFiles{
			WorkflowSource: path("main.wdl"), Inputs: []string{path("in.json")},
			DependenciesZip: path("tasks.wdl"), Dependencies: []string{path("tasks.wdl")},
		}},
	}

	svc := newTestManifestSvc(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Prepare(context.Background(), tt.files)
			require.ErrorIs(t, err, validators.ErrValidationInput)
		})
	}
}

func TestRemoteName(t *testing.T) {
	assert.Equal(t, "main.wdl", remoteName("https://host/a/b/main.wdl?raw=true"))
	assert.Equal(t, "document", remoteName("https://host/"))
}

package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/broadinstitute/cromwell-tools/internal/logger"
	"github.com/broadinstitute/cromwell-tools/internal/mock"
	"github.com/broadinstitute/cromwell-tools/internal/validators"
	"github.com/broadinstitute/cromwell-tools/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestValidationSvc(t *testing.T, ctrl *gomock.Controller) (ValidationService, *mock.MockToolRunner) {
	t.Helper()
	runner := mock.NewMockToolRunner(ctrl)
	return NewValidationService(newTestManifestSvc(t), runner, "/usr/bin/java", logger.Nop()), runner
}

func TestValidationService_Valid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := writeTestFiles(t, map[string]string{
		"main.wdl":  `import "sub/tasks.wdl"`,
		"tasks.wdl": "task t {}",
	})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "deps.json"),
		[]byte(`{"sub/tasks.wdl": "`+filepath.Join(dir, "tasks.wdl")+`"}`), 0o644))

	svc, runner := newTestValidationSvc(t, ctrl)

	runner.EXPECT().
		Run(gomock.Any(), gomock.Any(), "/usr/bin/java", "-jar", "/opt/womtool.jar", "validate", "main.wdl").
		DoAndReturn(func(_ context.Context, workDir, _ string, _ ...string) ([]byte, int, error) {
			workflow, err := os.ReadFile(filepath.Join(workDir, "main.wdl"))
			assert.NoError(t, err)
			assert.Equal(t, `import "sub/tasks.wdl"`, string(workflow))

			dep, err := os.ReadFile(filepath.Join(workDir, "sub", "tasks.wdl"))
			assert.NoError(t, err)
			assert.Equal(t, "task t {}", string(dep))
			return []byte("Success!\n"), 0, nil
		})

	result, err := svc.Validate(context.Background(), models.ValidationRequest{
		WorkflowPath:     filepath.Join(dir, "main.wdl"),
		WomtoolPath:      "/opt/womtool.jar",
		DependenciesJSON: filepath.Join(dir, "deps.json"),
	})

	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, []string{"Success!"}, result.Messages)
}

func TestValidationService_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := writeTestFiles(t, map[string]string{"main.wdl": "workflow {"})
	svc, runner := newTestValidationSvc(t, ctrl)

	runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]byte("ERROR: Unexpected symbol\n\n  workflow {\n"), 1, nil)

	result, err := svc.Validate(context.Background(), models.ValidationRequest{
		WorkflowPath: filepath.Join(dir, "main.wdl"),
		WomtoolPath:  "/opt/womtool.jar",
	})

	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, []string{"ERROR: Unexpected symbol", "workflow {"}, result.Messages)
}

func TestValidationService_ToolUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := writeTestFiles(t, map[string]string{"main.wdl": "workflow w {}"})
	svc, runner := newTestValidationSvc(t, ctrl)

	runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, -1, errors.New("exec: \"java\": executable file not found in $PATH"))

	_, err := svc.Validate(context.Background(), models.ValidationRequest{
		WorkflowPath: filepath.Join(dir, "main.wdl"),
		WomtoolPath:  "/opt/womtool.jar",
	})

	require.ErrorIs(t, err, ErrToolUnavailable)
}

func TestValidationService_MissingPaths(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestValidationSvc(t, ctrl)

	_, err := svc.Validate(context.Background(), models.ValidationRequest{WorkflowPath: "main.wdl"})
	require.ErrorIs(t, err, validators.ErrValidationInput)
}

func TestWriteLocalized_StaysInsideDir(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, writeLocalized(dir, "../../escape.wdl", []byte("x")))

	_, err := os.Stat(filepath.Join(dir, "escape.wdl"))
	assert.NoError(t, err)
}

func TestExecRunner(t *testing.T) {
	runner := NewExecRunner()

	_, _, err := runner.Run(context.Background(), t.TempDir(), "cromwell-tools-no-such-binary")
	require.Error(t, err)
}

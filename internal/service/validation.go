package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/broadinstitute/cromwell-tools/internal/logger"
	"github.com/broadinstitute/cromwell-tools/internal/validators"
	"github.com/broadinstitute/cromwell-tools/models"
)

type validationService struct {
	manifests ManifestService
	runner    ToolRunner
	javaPath  string

	logger *logger.Logger
}

// NewValidationService creates a ValidationService that runs womtool with the
// java binary at javaPath. Workflow files are fetched through manifests.
func NewValidationService(manifests ManifestService, runner ToolRunner, javaPath string, logger *logger.Logger) ValidationService {
	if javaPath == "" {
		javaPath = "java"
	}
	return &validationService{manifests: manifests, runner: runner, javaPath: javaPath, logger: logger}
}

// Validate implements [ValidationService]. The workflow and every dependency
// are copied into a temporary directory so relative imports resolve the same
// way they do on the server.
func (s *validationService) Validate(ctx context.Context, req models.ValidationRequest) (models.ValidationResult, error) {
	if req.WorkflowPath == "" || req.WomtoolPath == "" {
		return models.ValidationResult{}, fmt.Errorf("%w: workflow and womtool paths are required", validators.ErrValidationInput)
	}

	dir, err := os.MkdirTemp("", "cromwell-tools-validate-")
	if err != nil {
		return models.ValidationResult{}, fmt.Errorf("error creating validation directory: %w", err)
	}
	defer os.RemoveAll(dir)

	workflow, err := s.manifests.Load(ctx, req.WorkflowPath)
	if err != nil {
		return models.ValidationResult{}, err
	}
	if err = writeLocalized(dir, workflow.Name, workflow.Content); err != nil {
		return models.ValidationResult{}, err
	}

	if req.DependenciesJSON != "" {
		if err = s.localizeDependencies(ctx, dir, req.DependenciesJSON); err != nil {
			return models.ValidationResult{}, err
		}
	}

	output, exitCode, err := s.runner.Run(ctx, dir, s.javaPath, "-jar", req.WomtoolPath, "validate", workflow.Name)
	if err != nil {
		return models.ValidationResult{}, fmt.Errorf("%w: %v", ErrToolUnavailable, err)
	}

	result := models.ValidationResult{Valid: exitCode == 0, Messages: outputLines(output)}
	s.logger.Debug().
		Str("workflow", workflow.Name).
		Int("exit_code", exitCode).
		Bool("valid", result.Valid).
		Msg("womtool finished")
	return result, nil
}

// localizeDependencies reads a JSON object mapping import names to locations
// and writes each dependency into dir under its import name.
func (s *validationService) localizeDependencies(ctx context.Context, dir, dependenciesJSON string) error {
	doc, err := s.manifests.Load(ctx, dependenciesJSON)
	if err != nil {
		return err
	}

	var dependencies map[string]string
	if err = json.Unmarshal(doc.Content, &dependencies); err != nil {
		return fmt.Errorf("%w: dependencies JSON %s: %v", validators.ErrValidationInput, dependenciesJSON, err)
	}

	for name, location := range dependencies {
		dep, err := s.manifests.Load(ctx, location)
		if err != nil {
			return err
		}
		if err = writeLocalized(dir, name, dep.Content); err != nil {
			return err
		}
	}
	return nil
}

// writeLocalized writes content to dir/name. Names may not leave dir.
func writeLocalized(dir, name string, content []byte) error {
	target := filepath.Join(dir, filepath.Clean(string(filepath.Separator)+name))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("error localizing %s: %w", name, err)
	}
	if err := os.WriteFile(target, content, 0o644); err != nil {
		return fmt.Errorf("error localizing %s: %w", name, err)
	}
	return nil
}

func outputLines(output []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(output), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

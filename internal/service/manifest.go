package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/broadinstitute/cromwell-tools/internal/logger"
	"github.com/broadinstitute/cromwell-tools/internal/utils"
	"github.com/broadinstitute/cromwell-tools/internal/validators"
	"github.com/broadinstitute/cromwell-tools/models"
	"sigs.k8s.io/yaml"
)

const dependenciesArchiveName = "dependencies.zip"

type manifestService struct {
	httpClient *utils.HTTPClient
	validator  validators.Validator

	logger *logger.Logger
}

// NewManifestService creates a ManifestService that downloads remote
// documents with httpClient.
func NewManifestService(httpClient *utils.HTTPClient, validator validators.Validator, logger *logger.Logger) ManifestService {
	return &manifestService{httpClient: httpClient, validator: validator, logger: logger}
}

func (m *manifestService) Prepare(ctx context.Context, files models.SubmissionFiles) (models.SubmissionRequest, error) {
	err := m.validator.Validate(ctx, files,
		validators.FieldWorkflowSource, validators.FieldInputs, validators.FieldDependencies)
	if err != nil {
		return models.SubmissionRequest{}, err
	}

	req := models.SubmissionRequest{
		CollectionName: files.CollectionName,
		OnHold:         files.OnHold,
		ValidateLabels: files.ValidateLabels,
	}

	if req.WorkflowSource, err = m.Load(ctx, files.WorkflowSource); err != nil {
		return models.SubmissionRequest{}, err
	}

	for _, location := range files.Inputs {
		input, err := m.loadJSON(ctx, location)
		if err != nil {
			return models.SubmissionRequest{}, err
		}
		req.Inputs = append(req.Inputs, input)
	}

	if files.Options != "" {
		if req.Options, err = m.loadJSON(ctx, files.Options); err != nil {
			return models.SubmissionRequest{}, err
		}
	}
	if files.Labels != "" {
		if req.Labels, err = m.loadJSON(ctx, files.Labels); err != nil {
			return models.SubmissionRequest{}, err
		}
	}

	if files.DependenciesZip != "" {
		req.Dependencies, err = m.Load(ctx, files.DependenciesZip)
	} else {
		req.Dependencies, err = m.dependencies(ctx, files.Dependencies)
	}
	if err != nil {
		return models.SubmissionRequest{}, err
	}

	return req, nil
}

// Load reads location from an http(s) URL or the local file system.
func (m *manifestService) Load(ctx context.Context, location string) (models.Document, error) {
	if isRemote(location) {
		m.logger.Debug().Str("url", location).Msg("downloading document")
		content, err := m.httpClient.Download(ctx, location)
		if err != nil {
			return models.Document{}, fmt.Errorf("%w: %v", validators.ErrValidationInput, err)
		}
		return models.Document{Name: remoteName(location), Content: content}, nil
	}

	content, err := os.ReadFile(location)
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: %v", validators.ErrValidationInput, err)
	}
	return models.Document{Name: filepath.Base(location), Content: content}, nil
}

// loadJSON loads a JSON or YAML document and returns it as JSON.
func (m *manifestService) loadJSON(ctx context.Context, location string) (models.Document, error) {
	doc, err := m.Load(ctx, location)
	if err != nil {
		return models.Document{}, err
	}

	if json.Valid(doc.Content) {
		return doc, nil
	}

	converted, err := yaml.YAMLToJSON(doc.Content)
	if err != nil || !isJSONObject(converted) {
		return models.Document{}, fmt.Errorf("%w: %s is neither a JSON nor a YAML document", validators.ErrValidationInput, location)
	}
	m.logger.Debug().Str("location", location).Msg("converted YAML document to JSON")
	return models.Document{Name: strings.TrimSuffix(doc.Name, path.Ext(doc.Name)) + ".json", Content: converted}, nil
}

// dependencies packs locations into the zip archive sent as
// workflowDependencies.
func (m *manifestService) dependencies(ctx context.Context, locations []string) (models.Document, error) {
	if len(locations) == 0 {
		return models.Document{}, nil
	}

	var buf bytes.Buffer
	archive := zip.NewWriter(&buf)
	for _, location := range locations {
		doc, err := m.Load(ctx, location)
		if err != nil {
			return models.Document{}, err
		}

		w, err := archive.Create(doc.Name)
		if err != nil {
			return models.Document{}, fmt.Errorf("error adding %s to dependencies archive: %w", doc.Name, err)
		}
		if _, err = w.Write(doc.Content); err != nil {
			return models.Document{}, fmt.Errorf("error adding %s to dependencies archive: %w", doc.Name, err)
		}
	}
	if err := archive.Close(); err != nil {
		return models.Document{}, fmt.Errorf("error closing dependencies archive: %w", err)
	}

	m.logger.Debug().Int("files", len(locations)).Msg("packed dependencies archive")
	return models.Document{Name: dependenciesArchiveName, Content: buf.Bytes()}, nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func remoteName(location string) string {
	u, err := url.Parse(location)
	if err != nil || path.Base(u.Path) == "/" || path.Base(u.Path) == "." {
		return "document"
	}
	return path.Base(u.Path)
}

func isJSONObject(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

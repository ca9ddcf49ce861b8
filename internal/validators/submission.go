package validators

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/broadinstitute/cromwell-tools/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldWorkflowSource targets the workflow definition document.
	FieldWorkflowSource = "workflow_source"

	// FieldInputs targets the list of input documents.
	FieldInputs = "inputs"

	// FieldLabels targets the labels document. Labels are only checked when
	// this field is requested or the request sets ValidateLabels.
	FieldLabels = "labels"

	FieldDependencies = "dependencies"
)

// maxLabelLength is the longest label key or value the server accepts.
const maxLabelLength = 63

var (
	labelKeyPattern   = regexp.MustCompile(`^[a-z]([-a-z0-9]*[a-z0-9])?$`)
	labelValuePattern = regexp.MustCompile(`^([a-z0-9]*[-a-z0-9]*[a-z0-9])?$`)
)

// SubmissionValidator checks submissions and wait requests locally.
type SubmissionValidator struct{}

func NewSubmissionValidator() Validator {
	return &SubmissionValidator{}
}

func (v *SubmissionValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.SubmissionRequest:
		return v.validateSubmission(value, fields...)
	case *models.SubmissionRequest:
		return v.validateSubmission(*value, fields...)

	case models.SubmissionFiles:
		return v.validateFiles(value, fields...)
	case *models.SubmissionFiles:
		return v.validateFiles(*value, fields...)

	case models.WaitOptions:
		return v.validateWaitOptions(value)
	case []string:
		if len(value) == 0 {
			return ErrNoWorkflowIDs
		}
		return nil

	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, obj)
	}
}

func (v *SubmissionValidator) validateSubmission(req models.SubmissionRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldWorkflowSource, FieldInputs}
		if req.ValidateLabels {
			fields = append(fields, FieldLabels)
		}
	}

	for _, field := range fields {
		switch field {
		case FieldWorkflowSource:
			if req.WorkflowSource.IsEmpty() {
				return ErrMissingWorkflowSource
			}
		case FieldInputs:
			if len(req.Inputs) == 0 {
				return ErrMissingInputs
			}
			for i, input := range req.Inputs {
				if input.IsEmpty() {
					return fmt.Errorf("%w: inputs document %d is empty", ErrMissingInputs, i+1)
				}
			}
		case FieldLabels:
			if err := ValidateLabels(req.Labels.Content); err != nil {
				return err
			}
		case FieldDependencies:
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}
	return nil
}

func (v *SubmissionValidator) validateFiles(files models.SubmissionFiles, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldWorkflowSource, FieldInputs}
	}

	for _, field := range fields {
		switch field {
		case FieldWorkflowSource:
			if strings.TrimSpace(files.WorkflowSource) == "" {
				return ErrMissingWorkflowSource
			}
		case FieldInputs:
			if len(files.Inputs) == 0 {
				return ErrMissingInputs
			}
			for _, input := range files.Inputs {
				if strings.TrimSpace(input) == "" {
					return fmt.Errorf("%w: empty inputs path", ErrMissingInputs)
				}
			}
		case FieldDependencies:
			if files.DependenciesZip == "" {
				continue
			}
			if len(files.Dependencies) > 0 {
				return fmt.Errorf("%w: give either a zip archive or dependency files, not both", ErrInvalidDependencies)
			}
			if !strings.HasSuffix(strings.ToLower(files.DependenciesZip), ".zip") {
				return fmt.Errorf("%w: dependencies archive must be a .zip file, got %s",
					ErrInvalidDependencies, files.DependenciesZip)
			}
		case FieldLabels:
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}
	return nil
}

func (v *SubmissionValidator) validateWaitOptions(opts models.WaitOptions) error {
	if opts.PollInterval <= 0 || opts.Timeout <= 0 {
		return ErrInvalidWaitOptions
	}
	return nil
}

// ValidateLabels checks that doc is a JSON object of string labels whose keys
// and values follow the server's label format. An empty doc is valid.
func ValidateLabels(doc []byte) error {
	if len(doc) == 0 {
		return nil
	}

	var labels map[string]string
	if err := json.Unmarshal(doc, &labels); err != nil {
		return fmt.Errorf("%w: labels must be a JSON object of strings: %v", ErrInvalidLabels, err)
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var problems []string
	for _, k := range keys {
		if len(k) > maxLabelLength || !labelKeyPattern.MatchString(k) {
			problems = append(problems, fmt.Sprintf("key %q must match %s and be at most %d characters",
				k, labelKeyPattern, maxLabelLength))
		}
		if val := labels[k]; len(val) > maxLabelLength || !labelValuePattern.MatchString(val) {
			problems = append(problems, fmt.Sprintf("value %q of %q must match %s and be at most %d characters",
				val, k, labelValuePattern, maxLabelLength))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidLabels, strings.Join(problems, "; "))
	}
	return nil
}

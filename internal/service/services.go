package service

import (
	"github.com/broadinstitute/cromwell-tools/internal/adapter"
	"github.com/broadinstitute/cromwell-tools/internal/logger"
	"github.com/broadinstitute/cromwell-tools/internal/utils"
	"github.com/broadinstitute/cromwell-tools/internal/validators"
)

type Services struct {
	WorkflowService   WorkflowService
	ManifestService   ManifestService
	ValidationService ValidationService
}

// NewServices wires the services. workflowAdapter may be nil for commands
// that never contact the server, in which case WorkflowService is nil too.
func NewServices(workflowAdapter adapter.WorkflowAdapter, httpClient *utils.HTTPClient, javaPath string, logger *logger.Logger) *Services {
	validator := validators.NewSubmissionValidator()
	manifestSvc := NewManifestService(httpClient, validator, logger)

	services := &Services{
		ManifestService:   manifestSvc,
		ValidationService: NewValidationService(manifestSvc, NewExecRunner(), javaPath, logger),
	}
	if workflowAdapter != nil {
		services.WorkflowService = NewWorkflowService(workflowAdapter, validator, logger)
	}
	return services
}

package service

import (
	"context"
	"time"

	"github.com/broadinstitute/cromwell-tools/internal/adapter"
	"github.com/broadinstitute/cromwell-tools/internal/logger"
	"github.com/broadinstitute/cromwell-tools/internal/validators"
	"github.com/broadinstitute/cromwell-tools/models"
)

// maxParallelPolls bounds the status calls in flight during one Wait
// iteration.
const maxParallelPolls = 16

type workflowService struct {
	adapter   adapter.WorkflowAdapter
	validator validators.Validator

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	logger *logger.Logger
}

// NewWorkflowService creates a WorkflowService that sends every call through
// workflowAdapter after validating local input with validator.
func NewWorkflowService(workflowAdapter adapter.WorkflowAdapter, validator validators.Validator, logger *logger.Logger) WorkflowService {
	return &workflowService{
		adapter:   workflowAdapter,
		validator: validator,
		now:       time.Now,
		sleep:     sleepContext,
		logger:    logger,
	}
}

func (s *workflowService) Submit(ctx context.Context, req models.SubmissionRequest) (models.WorkflowIDAndStatus, error) {
	if err := s.validator.Validate(ctx, req); err != nil {
		return models.WorkflowIDAndStatus{}, err
	}

	result, err := s.adapter.Submit(ctx, req)
	if err != nil {
		return models.WorkflowIDAndStatus{}, mapAdapterError(err)
	}

	s.logger.Info().
		Str("workflow_id", result.ID).
		Stringer("status", result.Status).
		Msg("workflow submitted")
	return result, nil
}

func (s *workflowService) Status(ctx context.Context, id string) (models.WorkflowIDAndStatus, error) {
	result, err := s.adapter.Status(ctx, id)
	return result, mapAdapterError(err)
}

func (s *workflowService) Abort(ctx context.Context, id string) (models.WorkflowIDAndStatus, error) {
	result, err := s.adapter.Abort(ctx, id)
	return result, mapAdapterError(err)
}

func (s *workflowService) ReleaseHold(ctx context.Context, id string) (models.WorkflowIDAndStatus, error) {
	result, err := s.adapter.ReleaseHold(ctx, id)
	return result, mapAdapterError(err)
}

func (s *workflowService) Metadata(ctx context.Context, id string) (models.RawJSON, error) {
	result, err := s.adapter.Metadata(ctx, id)
	return result, mapAdapterError(err)
}

func (s *workflowService) Query(ctx context.Context, params []models.QueryParam) (models.QueryResponse, error) {
	result, err := s.adapter.Query(ctx, params)
	return result, mapAdapterError(err)
}

func (s *workflowService) Health(ctx context.Context) (models.HealthResponse, error) {
	result, err := s.adapter.Health(ctx)
	return result, mapAdapterError(err)
}

func (s *workflowService) Version(ctx context.Context) (models.ServerVersion, error) {
	result, err := s.adapter.Version(ctx)
	return result, mapAdapterError(err)
}

// sleepContext pauses for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service holds the client-side business logic on top of the
// workflow server adapter: submission preparation and validation, the Wait
// polling loop, and local workflow validation through womtool.
package service

import (
	"context"

	"github.com/broadinstitute/cromwell-tools/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/services_mock.go -package=mock

// WorkflowService defines the operations on workflows hosted by the server.
// Errors returned by the adapter are translated to the sentinels in errors.go.
type WorkflowService interface {
	// Submit validates req locally and uploads it. No request is sent when
	// validation fails.
	Submit(ctx context.Context, req models.SubmissionRequest) (models.WorkflowIDAndStatus, error)

	Status(ctx context.Context, id string) (models.WorkflowIDAndStatus, error)
	Abort(ctx context.Context, id string) (models.WorkflowIDAndStatus, error)
	ReleaseHold(ctx context.Context, id string) (models.WorkflowIDAndStatus, error)
	Metadata(ctx context.Context, id string) (models.RawJSON, error)

	// Query forwards params unchanged and returns the raw result list.
	Query(ctx context.Context, params []models.QueryParam) (models.QueryResponse, error)

	Health(ctx context.Context) (models.HealthResponse, error)
	Version(ctx context.Context) (models.ServerVersion, error)

	// Wait polls the status of ids until all are terminal or opts.Timeout
	// elapses. On timeout the returned error is a *WaitTimeoutError and the
	// result still holds every collected status.
	Wait(ctx context.Context, ids []string, opts models.WaitOptions) (models.WaitResult, error)
}

// ManifestService turns user-supplied file references into a submission.
type ManifestService interface {
	// Prepare reads local files or downloads http(s) URLs referenced by
	// files. YAML documents are converted to JSON and several dependency
	// files are packed into one zip archive.
	Prepare(ctx context.Context, files models.SubmissionFiles) (models.SubmissionRequest, error)

	// Load reads one document from a local path or an http(s) URL.
	Load(ctx context.Context, location string) (models.Document, error)
}

// ValidationService validates workflow definitions without a server.
type ValidationService interface {
	// Validate runs womtool against the workflow and its imports.
	Validate(ctx context.Context, req models.ValidationRequest) (models.ValidationResult, error)
}

// ToolRunner runs an external program in dir and returns its combined output
// and exit code. err is non-nil only when the program could not be run.
type ToolRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (output []byte, exitCode int, err error)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport layer for the workflow server's REST
// API.
//
// The primary abstraction is [WorkflowAdapter], which decouples the service
// layer from HTTP. The package ships a resty-based implementation
// ([NewHTTPWorkflowAdapter]).
//
// Every call is a single attempt: failures are never retried here. Response
// status codes are mapped by mapHTTPError to the sentinel errors in errors.go
// so callers can classify failures with [errors.Is] (e.g. [ErrAuthRejected]
// for 401 and 403, [ErrTransientServer] for 5xx and connection failures).
package adapter

import (
	"context"
	"net/http"

	"github.com/broadinstitute/cromwell-tools/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/workflow_adapter_mock.go -package=mock

// Authorizer supplies the server base URL and the Authorization header of
// every request. *auth.Session implements it.
type Authorizer interface {
	// URL returns the server base URL without a trailing slash.
	URL() string

	// Authorize sets the authentication headers for one request. It may
	// refresh a cached token and therefore may fail.
	Authorize(ctx context.Context, header http.Header) error
}

// WorkflowAdapter defines communication with the workflow server.
// Implementations map transport-level failures to the sentinel values defined
// in this package.
type WorkflowAdapter interface {
	// Submit uploads a workflow as a multipart form to
	// POST /api/workflows/v1 and returns the assigned id and initial status.
	Submit(ctx context.Context, req models.SubmissionRequest) (models.WorkflowIDAndStatus, error)

	// Status returns the current status of the workflow id.
	// Returns [ErrWorkflowNotFound] (wrapped) if the server does not know id.
	Status(ctx context.Context, id string) (models.WorkflowIDAndStatus, error)

	// Abort requests that the workflow id be aborted.
	Abort(ctx context.Context, id string) (models.WorkflowIDAndStatus, error)

	// ReleaseHold starts a workflow submitted on hold.
	ReleaseHold(ctx context.Context, id string) (models.WorkflowIDAndStatus, error)

	// Metadata returns the raw metadata document of the workflow id.
	Metadata(ctx context.Context, id string) (models.RawJSON, error)

	// Query sends params unchanged to POST /api/workflows/v1/query and
	// returns the raw result list.
	Query(ctx context.Context, params []models.QueryParam) (models.QueryResponse, error)

	// Health returns the per-subsystem health of the server.
	Health(ctx context.Context) (models.HealthResponse, error)

	// Version returns the server version.
	Version(ctx context.Context) (models.ServerVersion, error)
}

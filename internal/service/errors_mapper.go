// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/broadinstitute/cromwell-tools/internal/adapter"
)

// mapAdapterError translates the adapter's transport error into a service
// error. Errors the adapter did not classify (context cancellation, token
// refresh failures) are returned unchanged.
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, adapter.ErrAuthRejected):
		return fmt.Errorf("%w: %s", ErrAuthRejected, extractBody(err, adapter.ErrAuthRejected))
	case errors.Is(err, adapter.ErrWorkflowNotFound):
		return fmt.Errorf("%w: %s", ErrWorkflowNotFound, extractBody(err, adapter.ErrWorkflowNotFound))
	case errors.Is(err, adapter.ErrTransientServer):
		return fmt.Errorf("%w: %s", ErrTransientServer, extractBody(err, adapter.ErrTransientServer))
	case errors.Is(err, adapter.ErrProtocol):
		return fmt.Errorf("%w: %s", ErrProtocol, extractBody(err, adapter.ErrProtocol))
	case errors.Is(err, adapter.ErrBadRequest):
		return fmt.Errorf("%w: %s", ErrServerRejected, extractBody(err, adapter.ErrBadRequest))
	case errors.Is(err, adapter.ErrUnexpectedStatus):
		return fmt.Errorf("%w: %s", ErrServerRejected, extractBody(err, adapter.ErrUnexpectedStatus))
	}

	return err
}

// extractBody removes the adapter sentinel text from err's message, leaving
// the operation and the server's response body.
func extractBody(err, sentinel error) string {
	msg := strings.Replace(err.Error(), sentinel.Error()+": ", "", 1)
	return strings.TrimSuffix(msg, ": "+sentinel.Error())
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app maps errors returned by the cromwell-tools packages to the
// process exit code and the hint printed by the CLI.
//
// Every error class has its own exit code so scripts can tell a rejected
// credential from a flaky server or a wait that ran out of time.
package app

import (
	"context"
	"errors"

	"github.com/broadinstitute/cromwell-tools/internal/auth"
	"github.com/broadinstitute/cromwell-tools/internal/config"
	"github.com/broadinstitute/cromwell-tools/internal/service"
	"github.com/broadinstitute/cromwell-tools/internal/validators"
)

// Exit codes returned by the binary.
const (
	ExitOK                   = 0
	ExitGeneric              = 1
	ExitAmbiguousCredentials = 2
	ExitCredentialFile       = 3
	ExitAuthRejected         = 4
	ExitWorkflowNotFound     = 5
	ExitTransientServer      = 6
	ExitProtocol             = 7
	ExitWaitTimeout          = 8
	ExitValidationInput      = 9
	ExitConfig               = 10
	ExitInterrupted          = 130
)

const (
	// MsgAmbiguousCredentials is shown when more than one credential source
	// is given or a username/password pair is incomplete.
	MsgAmbiguousCredentials = "provide exactly one of --username/--password, --secrets-file, --service-account-key or --token"

	// MsgCredentialFile is shown when a secrets file or service-account key
	// cannot be read or parsed.
	MsgCredentialFile = "check that the credential file exists and is a valid JSON document"

	// MsgAuthRejected is shown on 401/403 responses and token failures.
	MsgAuthRejected = "the server rejected the credentials"

	// MsgWorkflowNotFound is shown when the server does not know a workflow id.
	MsgWorkflowNotFound = "no workflow with this id exists on the server"

	// MsgTransientServer is shown on 5xx responses and connection failures.
	MsgTransientServer = "the server is temporarily unavailable, try again later"

	// MsgProtocol is shown when a successful response has an unusable body.
	MsgProtocol = "the server response could not be understood"

	// MsgWaitTimeout is shown when a wait ends with workflows still running.
	MsgWaitTimeout = "some workflows did not finish before the timeout"

	// MsgValidationInput is shown when a request is rejected locally before
	// anything is sent.
	MsgValidationInput = "the request is incomplete or malformed"

	// MsgConfig is shown for configuration errors.
	MsgConfig = "check the flags, the CROMWELL_* environment variables and the config file"

	MsgInterrupted = "interrupted"
)

// Failure is the user-facing description of an error.
type Failure struct {
	Code int
	Hint string
	Err  error
}

// Describe classifies err. A nil err yields ExitOK.
func Describe(err error) Failure {
	if err == nil {
		return Failure{Code: ExitOK}
	}

	var code int
	var hint string
	switch {
	case errors.Is(err, context.Canceled):
		code, hint = ExitInterrupted, MsgInterrupted
	case errors.Is(err, auth.ErrAmbiguousCredentials):
		code, hint = ExitAmbiguousCredentials, MsgAmbiguousCredentials
	case errors.Is(err, auth.ErrCredentialFile):
		code, hint = ExitCredentialFile, MsgCredentialFile
	case errors.Is(err, service.ErrAuthRejected), errors.Is(err, auth.ErrTokenRefresh):
		code, hint = ExitAuthRejected, MsgAuthRejected
	case errors.Is(err, service.ErrWorkflowNotFound):
		code, hint = ExitWorkflowNotFound, MsgWorkflowNotFound
	case errors.Is(err, service.ErrTransientServer):
		code, hint = ExitTransientServer, MsgTransientServer
	case errors.Is(err, service.ErrProtocol):
		code, hint = ExitProtocol, MsgProtocol
	case errors.Is(err, service.ErrWaitTimeout):
		code, hint = ExitWaitTimeout, MsgWaitTimeout
	case errors.Is(err, validators.ErrValidationInput):
		code, hint = ExitValidationInput, MsgValidationInput
	case errors.Is(err, auth.ErrInvalidServerURL), config.IsConfigError(err):
		code, hint = ExitConfig, MsgConfig
	default:
		code = ExitGeneric
	}

	return Failure{Code: code, Hint: hint, Err: err}
}

// ExitCode is shorthand for Describe(err).Code.
func ExitCode(err error) int {
	return Describe(err).Code
}

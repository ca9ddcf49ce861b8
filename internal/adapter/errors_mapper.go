package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// mapHTTPError converts a non-2xx response into a sentinel error. handleScoped
// marks calls addressing one workflow, for which 404 means the workflow is
// unknown.
func mapHTTPError(resp *resty.Response, handleScoped bool) error {
	code := resp.StatusCode()
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(code)
	}

	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: http %d: %s", ErrAuthRejected, code, body)
	case code == http.StatusNotFound && handleScoped:
		return fmt.Errorf("%w: %s", ErrWorkflowNotFound, body)
	case code == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, body)
	case code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: http %d: %s", ErrTransientServer, code, body)
	default:
		return fmt.Errorf("%w: http %d: %s", ErrUnexpectedStatus, code, body)
	}
}

// mapTransportError classifies a request that produced no response. The
// caller's own cancellation is returned unchanged; anything else is a
// connection-level failure and therefore transient.
func mapTransportError(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%w: %s: %v", ErrTransientServer, op, err)
}

// decodeBody unmarshals a 2xx body into dst.
func decodeBody(resp *resty.Response, dst any) error {
	if err := json.Unmarshal(resp.Body(), dst); err != nil {
		return fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	return nil
}

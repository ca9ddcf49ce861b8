package validators

import (
	"errors"
	"fmt"
)

// ErrValidationInput is the class of every error in this package: the user
// supplied input that cannot be sent to the server.
var ErrValidationInput = errors.New("invalid input")

var (
	ErrUnsupportedType = fmt.Errorf("%w: unsupported type for validation", ErrValidationInput)
	ErrUnknownField    = fmt.Errorf("%w: unknown field for validation", ErrValidationInput)

	ErrMissingWorkflowSource = fmt.Errorf("%w: workflow source is required", ErrValidationInput)
	ErrMissingInputs         = fmt.Errorf("%w: at least one inputs document is required", ErrValidationInput)
	ErrInvalidLabels         = fmt.Errorf("%w: invalid labels", ErrValidationInput)
	ErrInvalidDependencies   = fmt.Errorf("%w: invalid dependencies", ErrValidationInput)
	ErrNoWorkflowIDs         = fmt.Errorf("%w: no workflow ids given", ErrValidationInput)
	ErrInvalidWaitOptions    = fmt.Errorf("%w: poll interval and timeout must be positive", ErrValidationInput)
)

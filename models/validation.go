package models

// ValidationRequest describes a workflow validation run through the external
// womtool validator.
type ValidationRequest struct {
	// WorkflowPath is a local path or http(s) URL of the workflow file.
	WorkflowPath string
	// WomtoolPath is the path to the womtool jar.
	WomtoolPath string
	// DependenciesJSON is an optional path to a JSON object whose values are
	// paths or URLs of imported workflow files.
	DependenciesJSON string
}

// ValidationResult is the outcome reported by the validator.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Messages []string `json:"messages"`
}

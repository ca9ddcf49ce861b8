package models

// Document is one named part of a submission. Name is used as the file name
// of the multipart part; Content is the raw bytes sent to the server.
type Document struct {
	Name    string
	Content []byte
}

// IsEmpty reports whether the document carries no content.
func (d Document) IsEmpty() bool {
	return len(d.Content) == 0
}

// SubmissionRequest bundles everything sent to the server when a workflow
// is submitted. WorkflowSource and at least one entry of Inputs are
// mandatory; the rest is optional.
type SubmissionRequest struct {
	// WorkflowSource is the workflow definition (e.g. a WDL file).
	WorkflowSource Document

	// Inputs holds one or more JSON input documents. The first is sent as
	// workflowInputs, the following ones as workflowInputs_2, _3, ...
	Inputs []Document

	// Dependencies is a zip archive with imported workflow files.
	Dependencies Document

	// Options is the workflow options JSON document.
	Options Document

	// Labels is a JSON object of key/value labels attached to the workflow.
	Labels Document

	// CollectionName is the collection the workflow belongs to on managed
	// deployments. Empty means the field is not sent.
	CollectionName string

	// OnHold submits the workflow in "On Hold" status.
	OnHold bool

	// ValidateLabels enables the local label format check before upload.
	// It is never sent to the server.
	ValidateLabels bool
}

// SubmissionFiles references the local paths or http(s) URLs a
// SubmissionRequest is prepared from.
type SubmissionFiles struct {
	WorkflowSource string
	Inputs         []string

	// DependenciesZip is a ready zip archive of imported workflow files.
	DependenciesZip string
	// Dependencies are imported workflow files packed into one archive.
	// At most one of DependenciesZip and Dependencies may be set.
	Dependencies []string

	Options        string
	Labels         string
	CollectionName string
	OnHold         bool
	ValidateLabels bool
}

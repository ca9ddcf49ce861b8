package models

// WorkflowIDAndStatus is the body the server returns from submit, status,
// abort and releaseHold calls.
type WorkflowIDAndStatus struct {
	// ID is the server-assigned workflow handle. It is opaque to the client
	// and is the key for every handle-scoped call.
	ID string `json:"id"`

	// Status is the status reported by the server at the time of the call.
	Status WorkflowStatus `json:"status"`
}

// QueryParam is one {key: value} element of the query endpoint's request
// body. Keys are sent as given; the server ignores keys it does not know.
type QueryParam map[string]string

// QueryResponse is the body of the query endpoint. Results are kept raw
// because their shape depends on the requested additional fields.
type QueryResponse struct {
	Results           []RawJSON `json:"results"`
	TotalResultsCount int       `json:"totalResultsCount"`
}

package utils

import "github.com/google/uuid"

// WorkflowIDGenerator issues random workflow ids in the same format the
// workflow server uses (UUID version 4).
type WorkflowIDGenerator struct{}

func NewWorkflowIDGenerator() *WorkflowIDGenerator {
	return &WorkflowIDGenerator{}
}

func (g *WorkflowIDGenerator) Generate() string {
	return uuid.NewString()
}

// IsWorkflowID reports whether id parses as a UUID.
func IsWorkflowID(id string) bool {
	return uuid.Validate(id) == nil
}

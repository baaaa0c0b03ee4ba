// Package domain holds identifier primitives shared across modules.
package domain

import (
	"github.com/google/uuid"

	dErrors "onboard/pkg/domain-errors"
)

// WorkflowID identifies one in-flight sign-up workflow.
type WorkflowID uuid.UUID

// NewWorkflowID returns a fresh random identifier.
func NewWorkflowID() WorkflowID {
	return WorkflowID(uuid.New())
}

// ParseWorkflowID parses a non-nil UUID at a trust boundary.
func ParseWorkflowID(s string) (WorkflowID, error) {
	id, err := parseUUID(s, "workflow ID")
	if err != nil {
		return WorkflowID{}, err
	}
	return WorkflowID(id), nil
}

func (id WorkflowID) String() string {
	return uuid.UUID(id).String()
}

func (id WorkflowID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if id == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return id, nil
}

package audit

import "fmt"

// ValidationError reports invalid input on audit creation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// PreconditionError reports an operation attempted against an audit in
// a state that forbids it.
type PreconditionError struct {
	AuditID string
	Status  string
	Message string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("audit %s (%s): %s", e.AuditID, e.Status, e.Message)
}

package model

import "fmt"

// ValidationError reports a structurally malformed form or question.
// Writes carrying one are rejected at the request boundary.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

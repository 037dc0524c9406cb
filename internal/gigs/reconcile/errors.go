package reconcile

import "fmt"

// ValidationError reports a form row that cannot be written. It blocks the
// whole save and is surfaced inline next to the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

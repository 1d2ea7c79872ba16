// Package corpus expands the chapter tracking sheet into the ordered list of
// individual verse references that a schedule distributes.
package corpus

import "fmt"

// InputError reports a missing or malformed tracking sheet.
type InputError struct {
	Path    string
	Line    int
	Message string
	Cause   error
}

func (e *InputError) Error() string {
	loc := e.Path
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	if e.Cause != nil {
		return fmt.Sprintf("corpus input error at %s: %s: %v", loc, e.Message, e.Cause)
	}
	return fmt.Sprintf("corpus input error at %s: %s", loc, e.Message)
}

func (e *InputError) Unwrap() error {
	return e.Cause
}

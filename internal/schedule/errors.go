// Package schedule distributes the verse corpus across a date range and
// reads and writes the resulting schedule artifact.
package schedule

import (
	"fmt"
	"time"

	"github.com/jonathan/study-schedule/internal/types"
)

// RangeError is returned when a schedule range is empty or inverted.
type RangeError struct {
	Start time.Time
	End   time.Time
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid schedule range: start %s is after end %s",
		e.Start.Format(types.DateLayout), e.End.Format(types.DateLayout))
}

// ArtifactError reports a schedule artifact that could not be encoded or decoded.
type ArtifactError struct {
	Message string
	Line    int
	Cause   error
}

func (e *ArtifactError) Error() string {
	prefix := "schedule artifact error"
	if e.Line > 0 {
		prefix = fmt.Sprintf("schedule artifact error at line %d", e.Line)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *ArtifactError) Unwrap() error {
	return e.Cause
}

package assembly

import "fmt"

// CheckpointError is returned when progress after a row could not be
// persisted. The row is not counted as complete; the previous checkpoint
// stays valid.
type CheckpointError struct {
	Index int
	Cause error
}

func (e *CheckpointError) Error() string {
	return fmt.Sprintf("checkpoint error after row %d: %v", e.Index, e.Cause)
}

func (e *CheckpointError) Unwrap() error {
	return e.Cause
}

// FinalizeError is returned when the finished document could not be written.
// The checkpoint is kept so the next run finalizes without redoing rows.
type FinalizeError struct {
	Name  string
	Cause error
}

func (e *FinalizeError) Error() string {
	return fmt.Sprintf("failed to write final document %s: %v", e.Name, e.Cause)
}

func (e *FinalizeError) Unwrap() error {
	return e.Cause
}

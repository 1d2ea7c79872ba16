// Package types provides type definitions for structured data used throughout the study-schedule system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"time"
)

// DateLayout is the ISO 8601 calendar date layout used in every artifact.
const DateLayout = "2006-01-02"

// ScheduleRow is one calendar day's assignment.
type ScheduleRow struct {
	Date       time.Time        `json:"date" validate:"required"`
	Weekday    string           `json:"day_of_week" validate:"required"`
	References []VerseReference `json:"references" validate:"dive"`
	Count      int              `json:"count" validate:"min=0"`
}

// NewScheduleRow builds a row for date with the given references. The weekday
// name and count are derived.
func NewScheduleRow(date time.Time, refs []VerseReference) (ScheduleRow, error) {
	row := ScheduleRow{
		Date:       date,
		Weekday:    date.Weekday().String(),
		References: refs,
		Count:      len(refs),
	}
	if err := row.Validate(); err != nil {
		return ScheduleRow{}, err
	}
	return row, nil
}

// Validate checks the row invariants.
func (r ScheduleRow) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.Count != len(r.References) {
		return fmt.Errorf("schedule row %s: count %d does not match %d references",
			r.Date.Format(DateLayout), r.Count, len(r.References))
	}
	return nil
}

// ReferenceList returns the comma-space joined reference string for the row.
func (r ScheduleRow) ReferenceList() string {
	return JoinReferences(r.References)
}

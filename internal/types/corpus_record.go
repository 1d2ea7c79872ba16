// Package types provides type definitions for structured data used throughout the study-schedule system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// CorpusRecord is one row of the tracking sheet: a chapter and its verse count.
type CorpusRecord struct {
	DataType   string `json:"data_type"`
	Book       string `json:"book" validate:"required"`
	Chapter    int    `json:"chapter" validate:"min=1"`
	VerseCount int    `json:"verse_count" validate:"min=0"`
}

// Validate checks the record invariants.
func (r CorpusRecord) Validate() error {
	return validate.Struct(r)
}

// Package types provides type definitions for structured data used throughout the study-schedule system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// VerseEntry is one cleaned verse text returned by the text API.
type VerseEntry struct {
	Chapter int    `json:"chapter"`
	Verse   int    `json:"verse"`
	Text    string `json:"text"`
}

// Position returns the (chapter, verse) location of the entry.
func (e VerseEntry) Position() Position {
	return Position{Chapter: e.Chapter, Verse: e.Verse}
}

// FetchResult is the ordered list of verse entries for a reference string.
// It is never persisted.
type FetchResult struct {
	Entries []VerseEntry `json:"entries"`
}

// Package types provides type definitions for structured data used throughout the study-schedule system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// VerseReference locates a single verse: book, chapter and verse.
type VerseReference struct {
	Book    string `json:"book" validate:"required"`
	Chapter int    `json:"chapter" validate:"min=1"`
	Verse   int    `json:"verse" validate:"min=1"`
}

// NewVerseReference builds a validated VerseReference.
func NewVerseReference(book string, chapter, verse int) (VerseReference, error) {
	ref := VerseReference{Book: strings.TrimSpace(book), Chapter: chapter, Verse: verse}
	if err := ref.Validate(); err != nil {
		return VerseReference{}, err
	}
	return ref, nil
}

// Validate checks the reference invariants (non-empty book, chapter and verse >= 1).
func (r VerseReference) Validate() error {
	return validate.Struct(r)
}

// String renders the reference as "Book Chapter:Verse", e.g. "Genesis 1:1".
func (r VerseReference) String() string {
	return fmt.Sprintf("%s %d:%d", r.Book, r.Chapter, r.Verse)
}

// Position returns the (chapter, verse) location of the reference.
func (r VerseReference) Position() Position {
	return Position{Chapter: r.Chapter, Verse: r.Verse}
}

// ParseVerseReference parses "Book Chapter:Verse". The book may contain spaces
// ("Song of Songs 2:3", "I Samuel 1:1").
func ParseVerseReference(s string) (VerseReference, error) {
	s = strings.TrimSpace(s)
	idx := strings.LastIndex(s, " ")
	if idx <= 0 {
		return VerseReference{}, fmt.Errorf("invalid reference %q: missing book or location", s)
	}
	book, loc := s[:idx], s[idx+1:]

	chapterStr, verseStr, ok := strings.Cut(loc, ":")
	if !ok {
		return VerseReference{}, fmt.Errorf("invalid reference %q: location must be chapter:verse", s)
	}
	chapter, err := strconv.Atoi(chapterStr)
	if err != nil {
		return VerseReference{}, fmt.Errorf("invalid reference %q: bad chapter: %w", s, err)
	}
	verse, err := strconv.Atoi(verseStr)
	if err != nil {
		return VerseReference{}, fmt.Errorf("invalid reference %q: bad verse: %w", s, err)
	}
	ref, err := NewVerseReference(book, chapter, verse)
	if err != nil {
		return VerseReference{}, fmt.Errorf("invalid reference %q: %w", s, err)
	}
	return ref, nil
}

// SplitReferenceList splits a comma-joined reference list into trimmed,
// non-empty parts.
func SplitReferenceList(list string) []string {
	var parts []string
	for _, p := range strings.Split(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// JoinReferences renders references the way the schedule artifact stores them:
// comma-space joined.
func JoinReferences(refs []VerseReference) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}

// Position is a (chapter, verse) pair ordered chapter-first.
type Position struct {
	Chapter int
	Verse   int
}

// Less reports whether p sorts strictly before o.
func (p Position) Less(o Position) bool {
	if p.Chapter != o.Chapter {
		return p.Chapter < o.Chapter
	}
	return p.Verse < o.Verse
}

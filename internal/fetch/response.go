package fetch

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jonathan/study-schedule/internal/types"
)

// Shape identifies how a response carries its verse text.
type Shape int

const (
	// ShapeUnknown is any text field the parser does not understand.
	ShapeUnknown Shape = iota
	// ShapeSingle is one string holding a single verse.
	ShapeSingle
	// ShapeFlat is a list of verses within one chapter.
	ShapeFlat
	// ShapeNested is a list of chapters, each a list of verses.
	ShapeNested
)

func (s Shape) String() string {
	switch s {
	case ShapeSingle:
		return "single"
	case ShapeFlat:
		return "flat"
	case ShapeNested:
		return "nested"
	default:
		return "unknown"
	}
}

// Response is a decoded text API body. Exactly one of Single, Flat or Nested
// is meaningful, selected by Shape.
type Response struct {
	Shape        Shape
	StartChapter int
	StartVerse   int

	Single string
	Flat   []string
	Nested [][]string
}

// ShapeError reports a body whose text field has no recognized shape.
type ShapeError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ShapeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("unexpected %q field: %s: %v", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("unexpected %q field: %s", e.Field, e.Message)
}

func (e *ShapeError) Unwrap() error {
	return e.Cause
}

// Decode parses body and classifies its text field. The sections field gives
// the starting chapter and verse, each defaulting to 1.
func Decode(body []byte, field string) (Response, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return Response{}, &ShapeError{Field: field, Message: "body is not a JSON object", Cause: err}
	}

	resp := Response{StartChapter: 1, StartVerse: 1}
	if raw, ok := doc["sections"]; ok {
		var sections []int
		if err := json.Unmarshal(raw, &sections); err == nil {
			if len(sections) > 0 {
				resp.StartChapter = sections[0]
			}
			if len(sections) > 1 {
				resp.StartVerse = sections[1]
			}
		}
	}

	raw := bytes.TrimSpace(doc[field])
	if len(raw) == 0 {
		return resp, &ShapeError{Field: field, Message: "missing"}
	}

	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &resp.Single); err != nil {
			return resp, &ShapeError{Field: field, Message: "invalid string", Cause: err}
		}
		resp.Shape = ShapeSingle
		return resp, nil
	case '[':
		return decodeList(resp, raw, field)
	default:
		return resp, &ShapeError{Field: field, Message: fmt.Sprintf("unsupported value %s", truncate(raw, 40))}
	}
}

func decodeList(resp Response, raw json.RawMessage, field string) (Response, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return resp, &ShapeError{Field: field, Message: "invalid list", Cause: err}
	}
	if len(items) == 0 {
		return resp, &ShapeError{Field: field, Message: "empty list"}
	}

	first := bytes.TrimSpace(items[0])
	if len(first) > 0 && first[0] == '[' {
		resp.Shape = ShapeNested
		resp.Nested = make([][]string, 0, len(items))
		for _, item := range items {
			var chapter []string
			// chapters that are not lists of strings are skipped but keep their slot
			if err := json.Unmarshal(item, &chapter); err != nil {
				chapter = nil
			}
			resp.Nested = append(resp.Nested, chapter)
		}
		return resp, nil
	}

	resp.Shape = ShapeFlat
	resp.Flat = make([]string, 0, len(items))
	for i, item := range items {
		var verse string
		if err := json.Unmarshal(item, &verse); err != nil {
			return resp, &ShapeError{Field: field, Message: fmt.Sprintf("verse %d is not a string", i), Cause: err}
		}
		resp.Flat = append(resp.Flat, verse)
	}
	return resp, nil
}

// Entries numbers and cleans the verses of r.
func (r Response) Entries() []types.VerseEntry {
	var out []types.VerseEntry
	switch r.Shape {
	case ShapeSingle:
		out = append(out, types.VerseEntry{Chapter: r.StartChapter, Verse: r.StartVerse, Text: CleanMarkup(r.Single)})
	case ShapeFlat:
		for i, text := range r.Flat {
			out = append(out, types.VerseEntry{Chapter: r.StartChapter, Verse: r.StartVerse + i, Text: CleanMarkup(text)})
		}
	case ShapeNested:
		for ci, chapter := range r.Nested {
			for vi, text := range chapter {
				out = append(out, types.VerseEntry{Chapter: r.StartChapter + ci, Verse: vi + 1, Text: CleanMarkup(text)})
			}
		}
	}
	return out
}

// Parse decodes body and returns its cleaned verse entries.
func Parse(body []byte, field string) ([]types.VerseEntry, error) {
	resp, err := Decode(body, field)
	if err != nil {
		return nil, err
	}
	return resp.Entries(), nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

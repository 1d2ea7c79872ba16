package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jonathan/study-schedule/internal/types"
	"github.com/spf13/afero"
)

// DefaultDataType selects the scripture rows of the tracking sheet.
const DefaultDataType = "Bible"

// Column headers of the tracking sheet.
const (
	ColumnDataType   = "Data Type"
	ColumnBook       = "Book"
	ColumnChapter    = "Chapter"
	ColumnVerseCount = "Number of Verses or Mishnahs"
)

// Load reads the tracking sheet at path and returns the verse references of
// every row whose data type matches dataType.
func Load(fs afero.Fs, path, dataType string) ([]types.VerseReference, error) {
	f, err := fs.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &InputError{Path: path, Message: "tracking sheet not found", Cause: err}
		}
		return nil, &InputError{Path: path, Message: "failed to open tracking sheet", Cause: err}
	}
	defer func() { _ = f.Close() }()

	records, err := ReadRecords(f)
	if err != nil {
		var inputErr *InputError
		if errors.As(err, &inputErr) {
			inputErr.Path = path
		}
		return nil, err
	}
	return Build(records, dataType)
}

// ReadRecords parses tracking sheet rows. Columns are located by header name
// so extra or reordered columns are tolerated.
func ReadRecords(r io.Reader) ([]types.CorpusRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, &InputError{Message: "failed to read header", Cause: err}
	}
	cols, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	var records []types.CorpusRecord
	line := 1
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &InputError{Line: line, Message: "malformed row", Cause: err}
		}
		if isBlank(fields) {
			continue
		}

		rec, err := parseRecord(fields, cols)
		if err != nil {
			return nil, &InputError{Line: line, Message: "invalid record", Cause: err}
		}
		records = append(records, rec)
	}
	return records, nil
}

// Build expands the matching records into individual verse references in
// source order: every row contributes verses 1..VerseCount of its chapter.
func Build(records []types.CorpusRecord, dataType string) ([]types.VerseReference, error) {
	if dataType == "" {
		dataType = DefaultDataType
	}
	var refs []types.VerseReference
	for _, rec := range records {
		if rec.DataType != dataType {
			continue
		}
		for v := 1; v <= rec.VerseCount; v++ {
			ref, err := types.NewVerseReference(rec.Book, rec.Chapter, v)
			if err != nil {
				return nil, fmt.Errorf("build reference for %s %d: %w", rec.Book, rec.Chapter, err)
			}
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

type columnIndex struct {
	dataType, book, chapter, verseCount int
}

func locateColumns(header []string) (columnIndex, error) {
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}

	var cols columnIndex
	var missing []string
	lookup := func(name string, dst *int) {
		i, ok := idx[name]
		if !ok {
			missing = append(missing, name)
			return
		}
		*dst = i
	}
	lookup(ColumnDataType, &cols.dataType)
	lookup(ColumnBook, &cols.book)
	lookup(ColumnChapter, &cols.chapter)
	lookup(ColumnVerseCount, &cols.verseCount)

	if len(missing) > 0 {
		return cols, &InputError{Line: 1, Message: fmt.Sprintf("missing columns: %s", strings.Join(missing, ", "))}
	}
	return cols, nil
}

func parseRecord(fields []string, cols columnIndex) (types.CorpusRecord, error) {
	get := func(i int) string {
		if i < len(fields) {
			return strings.TrimSpace(fields[i])
		}
		return ""
	}

	chapter, err := strconv.Atoi(get(cols.chapter))
	if err != nil {
		return types.CorpusRecord{}, fmt.Errorf("chapter %q: %w", get(cols.chapter), err)
	}
	count, err := strconv.Atoi(get(cols.verseCount))
	if err != nil {
		return types.CorpusRecord{}, fmt.Errorf("verse count %q: %w", get(cols.verseCount), err)
	}

	rec := types.CorpusRecord{
		DataType:   get(cols.dataType),
		Book:       get(cols.book),
		Chapter:    chapter,
		VerseCount: count,
	}
	if err := rec.Validate(); err != nil {
		return types.CorpusRecord{}, err
	}
	return rec, nil
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

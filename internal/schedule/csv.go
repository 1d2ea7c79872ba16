package schedule

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/study-schedule/internal/types"
)

// Schedule CSV headers.
const (
	HeaderDate      = "Date"
	HeaderDayOfWeek = "Day of Week"
	HeaderRefs      = "Bible"
	HeaderCount     = "Bible Count"
)

// legacyDateLayout is accepted when reading older schedule sheets.
const legacyDateLayout = "1/2/2006"

// WriteCSV writes rows as the schedule table, one line per day.
func WriteCSV(w io.Writer, rows []types.ScheduleRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{HeaderDate, HeaderDayOfWeek, HeaderRefs, HeaderCount}); err != nil {
		return &ArtifactError{Message: "failed to write header", Cause: err}
	}
	for i, row := range rows {
		rec := []string{
			row.Date.Format(types.DateLayout),
			row.Weekday,
			row.ReferenceList(),
			strconv.Itoa(row.Count),
		}
		if err := cw.Write(rec); err != nil {
			return &ArtifactError{Message: "failed to write row", Line: i + 2, Cause: err}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return &ArtifactError{Message: "failed to flush schedule", Cause: err}
	}
	return nil
}

// ReadCSV parses a schedule table written by WriteCSV.
func ReadCSV(r io.Reader) ([]types.ScheduleRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, &ArtifactError{Message: "failed to read header", Cause: err}
	}
	cols := map[string]int{}
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, name := range []string{HeaderDate, HeaderRefs} {
		if _, ok := cols[name]; !ok {
			return nil, &ArtifactError{Message: fmt.Sprintf("missing column %q", name), Line: 1}
		}
	}

	var rows []types.ScheduleRow
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &ArtifactError{Message: "malformed row", Line: line, Cause: err}
		}

		field := func(name string) string {
			if i, ok := cols[name]; ok && i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}

		date, err := ParseDate(field(HeaderDate))
		if err != nil {
			return nil, &ArtifactError{Message: "invalid date", Line: line, Cause: err}
		}
		refs, err := parseReferences(field(HeaderRefs))
		if err != nil {
			return nil, &ArtifactError{Message: "invalid references", Line: line, Cause: err}
		}
		row, err := types.NewScheduleRow(date, refs)
		if err != nil {
			return nil, &ArtifactError{Message: "invalid row", Line: line, Cause: err}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseDate accepts ISO dates and the legacy M/D/YYYY layout.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(types.DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(legacyDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is neither YYYY-MM-DD nor M/D/YYYY", s)
	}
	return t, nil
}

func parseReferences(list string) ([]types.VerseReference, error) {
	parts := types.SplitReferenceList(list)
	refs := make([]types.VerseReference, 0, len(parts))
	for _, p := range parts {
		ref, err := types.ParseVerseReference(p)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

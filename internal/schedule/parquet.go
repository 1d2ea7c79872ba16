package schedule

import (
	"bytes"
	"io"

	"github.com/jonathan/study-schedule/internal/types"
	"github.com/parquet-go/parquet-go"
)

// parquetRow is the columnar layout of a schedule row.
type parquetRow struct {
	Date       string `parquet:"date"`
	DayOfWeek  string `parquet:"day_of_week"`
	References string `parquet:"references"`
	Count      int32  `parquet:"count"`
}

// WriteParquet writes rows as a single parquet file.
func WriteParquet(w io.Writer, rows []types.ScheduleRow) error {
	out := make([]parquetRow, len(rows))
	for i, row := range rows {
		out[i] = parquetRow{
			Date:       row.Date.Format(types.DateLayout),
			DayOfWeek:  row.Weekday,
			References: row.ReferenceList(),
			Count:      int32(row.Count),
		}
	}
	if err := parquet.Write(w, out); err != nil {
		return &ArtifactError{Message: "failed to write parquet schedule", Cause: err}
	}
	return nil
}

// ReadParquet decodes a parquet file produced by WriteParquet.
func ReadParquet(data []byte) ([]types.ScheduleRow, error) {
	in, err := parquet.Read[parquetRow](bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ArtifactError{Message: "failed to read parquet schedule", Cause: err}
	}

	rows := make([]types.ScheduleRow, 0, len(in))
	for i, pr := range in {
		date, err := ParseDate(pr.Date)
		if err != nil {
			return nil, &ArtifactError{Message: "invalid date", Line: i + 1, Cause: err}
		}
		refs, err := parseReferences(pr.References)
		if err != nil {
			return nil, &ArtifactError{Message: "invalid references", Line: i + 1, Cause: err}
		}
		row, err := types.NewScheduleRow(date, refs)
		if err != nil {
			return nil, &ArtifactError{Message: "invalid row", Line: i + 1, Cause: err}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

package schedule

import (
	"fmt"
	"time"

	"github.com/jonathan/study-schedule/internal/hebcal"
	"github.com/jonathan/study-schedule/internal/types"
)

// DayCount returns the number of calendar days in [start, end] inclusive.
func DayCount(start, end time.Time) int {
	s, e := hebcal.Midnight(start), hebcal.Midnight(end)
	return int(e.Sub(s).Hours()/24) + 1
}

// Assemble distributes refs across every day from start to end inclusive and
// returns one row per day in calendar order.
func Assemble(refs []types.VerseReference, start, end time.Time) ([]types.ScheduleRow, error) {
	start, end = hebcal.Midnight(start), hebcal.Midnight(end)
	if start.After(end) {
		return nil, &RangeError{Start: start, End: end}
	}

	days := DayCount(start, end)
	buckets := Distribute(refs, days)

	rows := make([]types.ScheduleRow, 0, days)
	for i, bucket := range buckets {
		row, err := types.NewScheduleRow(start.AddDate(0, 0, i), bucket)
		if err != nil {
			return nil, fmt.Errorf("assemble row %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Package feed renders a schedule as an iCalendar subscription feed with one
// all-day event per day.
package feed

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/jonathan/study-schedule/internal/schedule"
	"github.com/jonathan/study-schedule/internal/types"
)

// ProductID is the PRODID of every generated feed.
const ProductID = "-//Study Schedule//EN"

const dateValueLayout = "20060102"

// Emit renders rows as an iCalendar document. now stamps every event.
// Lines end in CRLF; text values are escaped and folded at 75 octets.
func Emit(rows []types.ScheduleRow, childName string, now time.Time) string {
	label := schedule.LabelFor(childName)
	summary := fmt.Sprintf("%s Schedule", strings.TrimSpace(childName))

	cal := ics.NewCalendar()
	cal.SetProductId(ProductID)
	cal.SetCalscale("GREGORIAN")

	for i, row := range rows {
		event := cal.AddEvent(EventUID(label, row.Date, i))
		event.SetDtStampTime(now.UTC())
		event.SetAllDayStartAt(row.Date)
		event.SetAllDayEndAt(row.Date.AddDate(0, 0, 1))
		event.SetSummary(summary)
		event.SetDescription("Learn: " + row.ReferenceList())
	}
	return cal.Serialize()
}

// EventUID returns the stable identifier of the event for row index on date.
func EventUID(label string, date time.Time, index int) string {
	return fmt.Sprintf("%s_%s_%d@study_schedule", label, date.Format(dateValueLayout), index)
}

// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/study-schedule/internal/assembly"
	"github.com/jonathan/study-schedule/internal/hebcal"
	"github.com/jonathan/study-schedule/internal/lexicon"
	"github.com/jonathan/study-schedule/internal/schedule"
	"github.com/jonathan/study-schedule/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	for _, line := range lines {
		// Truncate long lines
		if r := []rune(line); len(r) > boxWidth-4 {
			line = string(r[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func hebrewDate(d hebcal.HebrewDate) string {
	return fmt.Sprintf("%s %s %s", lexicon.HebrewNumeral(d.Day), lexicon.HebrewMonth(d.Month), lexicon.HebrewNumeral(d.Year%1000))
}

// PrintAnchors outputs the Hebrew birth date and the two anchor birthdays.
func (p *Printer) PrintAnchors(a hebcal.Anchors) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Birth:    %s  (%s)\n", a.Birth.Format(types.DateLayout), hebrewDate(a.BirthHebrew)))
	sb.WriteString(fmt.Sprintf("5th:      %s  (%s)\n", a.Fifth.Format(types.DateLayout), hebrewDate(a.FifthHebrew)))
	sb.WriteString(fmt.Sprintf("10th:     %s  (%s)\n", a.Tenth.Format(types.DateLayout), hebrewDate(a.TenthHebrew)))

	p.printBox("HEBREW BIRTHDAYS", sb.String())
}

// PrintRange outputs the planned schedule range.
func (p *Printer) PrintRange(r schedule.Range) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Start:    %s\n", r.Start.Format(types.DateLayout)))
	sb.WriteString(fmt.Sprintf("End:      %s\n", r.End.Format(types.DateLayout)))
	sb.WriteString(fmt.Sprintf("Days:     %d\n", schedule.DayCount(r.Start, r.End)))
	switch {
	case r.CustomStart:
		sb.WriteString("Source:   custom start date\n")
	case r.IgnoredCustomStart:
		sb.WriteString("Source:   5th birthday (custom start ignored)\n")
	default:
		sb.WriteString("Source:   5th birthday\n")
	}

	p.printBox("SCHEDULE RANGE", sb.String())
}

// PrintSchedulePreview outputs the first rows of a schedule.
func (p *Printer) PrintSchedulePreview(rows []types.ScheduleRow) {
	if len(rows) == 0 {
		p.printBox("SCHEDULE PREVIEW", "(empty schedule)")
		return
	}

	var sb strings.Builder

	total := 0
	for _, row := range rows {
		total += row.Count
	}
	sb.WriteString(fmt.Sprintf("Days: %d    Verses: %d\n\n", len(rows), total))

	count := min(len(rows), maxItemsToShow)
	for i := 0; i < count; i++ {
		row := rows[i]
		refs := row.ReferenceList()
		if refs == "" {
			refs = "-"
		}
		sb.WriteString(fmt.Sprintf("  %s %-9s %s\n", row.Date.Format(types.DateLayout), row.Weekday, refs))
	}
	if len(rows) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(rows)-maxItemsToShow))
	}

	p.printBox("SCHEDULE PREVIEW", sb.String())
}

// PrintRunSummary outputs the outcome of a document assembly run.
func (p *Printer) PrintRunSummary(r *assembly.Result, elapsed time.Duration) {
	if r == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("State:        %s\n", r.State))
	sb.WriteString(fmt.Sprintf("Rows:         %d / %d\n", r.ResumedFrom+r.RowsProcessed, r.TotalRows))
	if r.ResumedFrom > 0 {
		sb.WriteString(fmt.Sprintf("Resumed from: row %d\n", r.ResumedFrom+1))
	}
	sb.WriteString(fmt.Sprintf("Session:      %s\n", r.SessionID))
	if r.Location != "" {
		sb.WriteString(fmt.Sprintf("Output:       %s\n", r.Location))
	}
	sb.WriteString(fmt.Sprintf("Elapsed:      %s\n", elapsed.Round(time.Millisecond)))

	p.printBox("DOCUMENT RUN", sb.String())
}

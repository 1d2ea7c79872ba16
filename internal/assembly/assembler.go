// Package assembly builds the study document row by row, persisting a
// checkpoint after every row so an interrupted run resumes where it stopped.
package assembly

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/study-schedule/internal/artifacts"
	"github.com/jonathan/study-schedule/internal/checkpoint"
	"github.com/jonathan/study-schedule/internal/fetch"
	"github.com/jonathan/study-schedule/internal/hebcal"
	"github.com/jonathan/study-schedule/internal/logging"
	"github.com/jonathan/study-schedule/internal/rendering"
	"github.com/jonathan/study-schedule/internal/types"
)

// State is the lifecycle state of an assembly run.
type State int

const (
	// StateFresh means no checkpoint was found.
	StateFresh State = iota
	// StateResuming means a checkpoint with completed rows was found.
	StateResuming
	// StateRunning means rows are being processed.
	StateRunning
	// StateDone means the final document was written and the checkpoint cleared.
	StateDone
	// StateSuspended means the run stopped early; the checkpoint remains.
	StateSuspended
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "FRESH"
	case StateResuming:
		return "RESUMING"
	case StateRunning:
		return "RUNNING"
	case StateDone:
		return "DONE"
	case StateSuspended:
		return "SUSPENDED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// FinalNameLayout names the finished document after its generation time.
const FinalNameLayout = "output_20060102_150405.tex"

// Sink receives the finished document.
type Sink interface {
	Write(ctx context.Context, name string, data []byte, contentType string) error
	Location(name string) string
}

// Options wires an Assembler's collaborators.
type Options struct {
	Store    checkpoint.Store
	Fetcher  fetch.Fetcher
	Bridge   hebcal.Bridge
	Sink     Sink
	Progress Progress
	Logger   *slog.Logger
	// Now defaults to time.Now.
	Now  func() time.Time
	Font string
}

// Result summarizes an assembly run.
type Result struct {
	State State
	// ResumedFrom is the first row processed in this run.
	ResumedFrom   int
	RowsProcessed int
	TotalRows     int
	SessionID     uuid.UUID
	ArtifactName  string
	Location      string
}

// Assembler is the checkpointed document pipeline.
type Assembler struct {
	store    checkpoint.Store
	fetcher  fetch.Fetcher
	bridge   hebcal.Bridge
	sink     Sink
	progress Progress
	logger   *slog.Logger
	now      func() time.Time
	font     string

	state State
}

// New validates opts and returns an Assembler.
func New(opts Options) (*Assembler, error) {
	if opts.Store == nil || opts.Fetcher == nil || opts.Bridge == nil || opts.Sink == nil {
		return nil, errors.New("assembly: store, fetcher, bridge and sink are required")
	}
	a := &Assembler{
		store:    opts.Store,
		fetcher:  opts.Fetcher,
		bridge:   opts.Bridge,
		sink:     opts.Sink,
		progress: opts.Progress,
		logger:   logging.Component(opts.Logger, "assembly"),
		now:      opts.Now,
		font:     opts.Font,
	}
	if a.progress == nil {
		a.progress = NoProgress{}
	}
	if a.now == nil {
		a.now = time.Now
	}
	return a, nil
}

// State returns the state reached by the last Run.
func (a *Assembler) State() State {
	return a.state
}

// Run assembles the document for rows under key. Rows up to the
// checkpointed index are skipped. Cancelling ctx suspends the run at the
// current row; that row is redone next time.
func (a *Assembler) Run(ctx context.Context, key string, rows []types.ScheduleRow) (*Result, error) {
	fp := Fingerprint(rows)
	doc, last, session, err := a.restore(ctx, key, fp)
	if err != nil {
		return nil, err
	}
	result := &Result{
		State:       a.state,
		ResumedFrom: last + 1,
		TotalRows:   len(rows),
		SessionID:   session,
	}
	log := a.logger.With("key", key, "session_id", session.String())
	log.Info("starting assembly", "state", a.state.String(), "from_row", last+1, "rows", len(rows))

	a.state = StateRunning
	a.progress.Start(len(rows), min(last+1, len(rows)))

	var b strings.Builder
	b.WriteString(doc)
	for i := last + 1; i < len(rows); i++ {
		if err := ctx.Err(); err != nil {
			return a.suspend(result, log, i, err)
		}

		block, err := a.formatRow(ctx, rows[i])
		if err != nil {
			return a.suspend(result, log, i, err)
		}
		b.WriteString(block)

		st := &checkpoint.State{
			Key:         key,
			LastIndex:   i,
			Document:    b.String(),
			Fingerprint: fp,
			SessionID:   session,
			UpdatedAt:   a.now().UTC(),
		}
		if err := a.store.Save(ctx, st); err != nil {
			a.progress.Finish(false)
			a.state = StateSuspended
			result.State = a.state
			log.Error("checkpoint write failed", "row", i, "error", err)
			return result, &CheckpointError{Index: i, Cause: err}
		}
		result.RowsProcessed++
		a.progress.Advance()
		log.Debug("row complete", "row", i, "date", rows[i].Date.Format(types.DateLayout), "refs", rows[i].Count)
	}

	b.WriteString(rendering.Closing)
	name := a.now().Format(FinalNameLayout)
	if err := a.sink.Write(ctx, name, []byte(b.String()), artifacts.ContentTypeTeX); err != nil {
		a.progress.Finish(false)
		a.state = StateSuspended
		result.State = a.state
		log.Error("final document write failed, keeping checkpoint", "name", name, "error", err)
		return result, &FinalizeError{Name: name, Cause: err}
	}
	a.progress.Finish(true)

	if err := a.store.Clear(ctx, key); err != nil {
		log.Warn("failed to clear checkpoint after completion", "error", err)
	}

	a.state = StateDone
	result.State = a.state
	result.ArtifactName = name
	result.Location = a.sink.Location(name)
	log.Info("document complete", "location", result.Location, "rows_processed", result.RowsProcessed)
	return result, nil
}

// Fingerprint identifies a row set by its length and date range. A
// checkpoint is only resumed against rows with the same fingerprint.
func Fingerprint(rows []types.ScheduleRow) string {
	if len(rows) == 0 {
		return "n=0"
	}
	return fmt.Sprintf("n=%d;first=%s;last=%s", len(rows),
		rows[0].Date.Format(types.DateLayout), rows[len(rows)-1].Date.Format(types.DateLayout))
}

// restore loads the checkpoint for key, or seeds a fresh document. A
// checkpoint written for a different row set is discarded; the first row
// saved overwrites it. Checkpoints without a fingerprint are trusted.
func (a *Assembler) restore(ctx context.Context, key, fp string) (string, int, uuid.UUID, error) {
	st, err := a.store.Load(ctx, key)
	switch {
	case errors.Is(err, checkpoint.ErrNoCheckpoint):
		st = nil
	case err != nil:
		return "", 0, uuid.Nil, fmt.Errorf("load checkpoint %s: %w", key, err)
	}

	if st != nil && st.Fingerprint != "" && st.Fingerprint != fp {
		a.logger.Warn("checkpoint was built from a different schedule, starting fresh",
			"key", key, "checkpoint_fingerprint", st.Fingerprint, "fingerprint", fp, "last_row", st.LastIndex)
		st = nil
	}

	if st != nil && st.LastIndex > checkpoint.NoRow {
		a.state = StateResuming
		session := st.SessionID
		if session == uuid.Nil {
			session = uuid.New()
		}
		return st.Document, st.LastIndex, session, nil
	}

	preamble, err := rendering.Preamble(a.font)
	if err != nil {
		return "", 0, uuid.Nil, err
	}
	a.state = StateFresh
	return preamble, checkpoint.NoRow, uuid.New(), nil
}

func (a *Assembler) suspend(result *Result, log *slog.Logger, row int, cause error) (*Result, error) {
	a.progress.Finish(false)
	a.state = StateSuspended
	result.State = a.state
	log.Warn("assembly suspended", "row", row, "rows_processed", result.RowsProcessed, "error", cause)
	return result, cause
}

// formatRow renders one day: its headers and, when it has references, the
// fetched verses.
func (a *Assembler) formatRow(ctx context.Context, row types.ScheduleRow) (string, error) {
	title, toc := rendering.DateTitle(row.Date, a.bridge.ToHebrew(row.Date))
	display := rendering.DisplayReference(row.References)

	var b strings.Builder
	b.WriteString(rendering.RowHeader(title, toc, display))

	if len(row.References) > 0 {
		res, err := a.fetcher.Fetch(ctx, row.ReferenceList())
		if err != nil {
			return "", err
		}
		a.logger.Debug("fetched verses", "refs", row.Count, "entries", len(res.Entries))
		b.WriteString(FormatVerses(row.References, res.Entries))
		b.WriteString(rendering.EndVerses())
	}

	b.WriteString(rendering.EndRow())
	return b.String(), nil
}

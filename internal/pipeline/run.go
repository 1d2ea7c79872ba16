// Package pipeline provides the high-level orchestration for building a study
// schedule and its document.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/jonathan/study-schedule/internal/artifacts"
	"github.com/jonathan/study-schedule/internal/assembly"
	"github.com/jonathan/study-schedule/internal/checkpoint"
	"github.com/jonathan/study-schedule/internal/config"
	"github.com/jonathan/study-schedule/internal/corpus"
	"github.com/jonathan/study-schedule/internal/db"
	"github.com/jonathan/study-schedule/internal/feed"
	"github.com/jonathan/study-schedule/internal/fetch"
	"github.com/jonathan/study-schedule/internal/hebcal"
	"github.com/jonathan/study-schedule/internal/logging"
	"github.com/jonathan/study-schedule/internal/observability"
	"github.com/jonathan/study-schedule/internal/pipeline/steps"
	"github.com/jonathan/study-schedule/internal/schedule"
	"github.com/jonathan/study-schedule/internal/schemas"
	"github.com/jonathan/study-schedule/internal/types"
	rootschemas "github.com/jonathan/study-schedule/schemas"
)

// RunOptions holds configuration for running the pipeline. Nil collaborators
// are built from Config.
type RunOptions struct {
	Config config.Config

	Out    io.Writer
	Logger *slog.Logger
	Fs     afero.Fs
	Bridge hebcal.Bridge
	Now    func() time.Time

	Sink     *artifacts.Sink
	Store    checkpoint.Store
	Fetcher  fetch.Fetcher
	Progress assembly.Progress
}

// ScheduleResult holds the outputs of the schedule step.
type ScheduleResult struct {
	Key      string
	Range    schedule.Range
	Rows     []types.ScheduleRow
	Metadata schedule.Metadata
}

// Result collects what each executed step produced.
type Result struct {
	RunID    uuid.UUID
	Steps    []string
	Anchors  *hebcal.Anchors
	Schedule *ScheduleResult
	Document *assembly.Result
}

// runner carries the resolved collaborators of one invocation.
type runner struct {
	opts    RunOptions
	cfg     config.Config
	out     io.Writer
	logger  *slog.Logger
	printer *observability.Printer
	result  *Result

	database *db.DB
}

// RunPipeline computes anchors, builds the schedule and assembles the
// document in one invocation.
func RunPipeline(ctx context.Context, opts RunOptions) (*Result, error) {
	return execute(ctx, opts, steps.Document, nil)
}

// RunSchedule computes anchors and writes the schedule artifacts.
func RunSchedule(ctx context.Context, opts RunOptions) (*Result, error) {
	return execute(ctx, opts, steps.Schedule, nil)
}

// RunDocument assembles the document from a schedule written by an earlier
// run.
func RunDocument(ctx context.Context, opts RunOptions) (*Result, error) {
	return execute(ctx, opts, steps.Document, map[string]bool{steps.Anchors: true, steps.Schedule: true})
}

// ComputeAnchors returns the Hebrew birthday anchors for cfg.BirthDate.
func ComputeAnchors(cfg config.Config, bridge hebcal.Bridge) (hebcal.Anchors, error) {
	birth, err := cfg.Birth()
	if err != nil {
		return hebcal.Anchors{}, err
	}
	if bridge == nil {
		bridge = hebcal.NewCalendar()
	}
	return hebcal.ComputeAnchors(bridge, birth), nil
}

func execute(ctx context.Context, opts RunOptions, target string, satisfied map[string]bool) (*Result, error) {
	r := newRunner(opts)
	ctx = logging.WithRunID(ctx, r.result.RunID.String())

	plan, err := steps.Resolve(target, satisfied)
	if err != nil {
		return nil, err
	}

	if r.opts.Sink == nil {
		sink, err := artifacts.Open(ctx, r.cfg.OutputURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open output %s: %w", r.cfg.OutputURL, err)
		}
		defer func() { _ = sink.Close() }()
		r.opts.Sink = sink
	}
	defer r.closeDatabase()

	completed := map[string]bool{}
	for name := range satisfied {
		completed[name] = true
	}

	r.logger.Info("pipeline started", "target", target, "steps", len(plan))
	for i, step := range plan {
		if err := steps.ValidateDependencies(completed, step.Name); err != nil {
			return r.result, err
		}
		fmt.Fprintf(r.out, "Step %d/%d: %s...\n", i+1, len(plan), step.Description)

		start := time.Now()
		if err := r.runStep(ctx, step.Name); err != nil {
			r.logger.Error("step failed", "step", step.Name, "error", err)
			return r.result, fmt.Errorf("%s step failed: %w", step.Name, err)
		}
		r.logger.Info("step complete", "step", step.Name, "duration_ms", time.Since(start).Milliseconds())

		completed[step.Name] = true
		r.result.Steps = append(r.result.Steps, step.Name)
	}

	fmt.Fprintf(r.out, "Pipeline complete.\n")
	return r.result, nil
}

func newRunner(opts RunOptions) *runner {
	runID := uuid.New()
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Bridge == nil {
		opts.Bridge = hebcal.NewCalendar()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	cfg := opts.Config.MergeWithDefaults(config.Defaults())

	return &runner{
		opts:    opts,
		cfg:     cfg,
		out:     opts.Out,
		logger:  logging.Component(opts.Logger, "pipeline").With("run_id", runID.String()),
		printer: observability.NewPrinter(opts.Out),
		result:  &Result{RunID: runID},
	}
}

func (r *runner) runStep(ctx context.Context, name string) error {
	switch name {
	case steps.Anchors:
		return r.anchors()
	case steps.Schedule:
		return r.schedule(ctx)
	case steps.Document:
		return r.document(ctx)
	default:
		return fmt.Errorf("unknown step: %s", name)
	}
}

func (r *runner) anchors() error {
	a, err := ComputeAnchors(r.cfg, r.opts.Bridge)
	if err != nil {
		return err
	}
	r.result.Anchors = &a
	r.logger.Info("anchors computed",
		"birth", a.Birth.Format(types.DateLayout),
		"fifth", a.Fifth.Format(types.DateLayout),
		"tenth", a.Tenth.Format(types.DateLayout))
	if r.cfg.Verbose {
		r.printer.PrintAnchors(a)
	}
	return nil
}

func (r *runner) schedule(ctx context.Context) error {
	if r.cfg.CorpusPath == "" {
		return &config.ValidationError{Field: "corpus_path", Message: "is required to build a schedule"}
	}
	anchors := *r.result.Anchors

	customStart, err := r.cfg.CustomStart()
	if err != nil {
		return err
	}
	rng, err := schedule.PlanRange(anchors, r.opts.Now(), customStart)
	if err != nil {
		return err
	}
	if rng.IgnoredCustomStart {
		r.logger.Warn("child is younger than the minimum custom start age; using the fifth birthday",
			"start_date", r.cfg.StartDate, "min_age", schedule.MinCustomStartAge)
	}

	refs, err := corpus.Load(r.opts.Fs, r.cfg.CorpusPath, r.cfg.DataType)
	if err != nil {
		return err
	}
	rows, err := schedule.Assemble(refs, rng.Start, rng.End)
	if err != nil {
		return err
	}
	r.logger.Info("schedule assembled", "verses", len(refs), "days", len(rows),
		"start", rng.Start.Format(types.DateLayout), "end", rng.End.Format(types.DateLayout))
	if r.cfg.Verbose {
		r.printer.PrintRange(rng)
		r.printer.PrintSchedulePreview(rows)
	}

	key := schedule.Key(r.cfg.ChildName, anchors.Birth)
	meta := schedule.Metadata{
		CSVPath:  schedule.CSVName(key),
		FeedPath: schedule.FeedName(key),
		Child:    r.cfg.ChildName,
		RunID:    r.result.RunID.String(),
	}
	sink := r.opts.Sink

	var csvBuf bytes.Buffer
	if err := schedule.WriteCSV(&csvBuf, rows); err != nil {
		return err
	}
	if err := sink.Write(ctx, meta.CSVPath, csvBuf.Bytes(), artifacts.ContentTypeCSV); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "  Schedule written to %s\n", sink.Location(meta.CSVPath))

	ics := feed.Emit(rows, r.cfg.ChildName, r.opts.Now())
	if err := sink.Write(ctx, meta.FeedPath, []byte(ics), artifacts.ContentTypeICS); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "  Calendar feed written to %s\n", sink.Location(meta.FeedPath))

	if r.cfg.ScheduleParquet {
		meta.ParquetPath = schedule.ParquetName(key)
		var pqBuf bytes.Buffer
		if err := schedule.WriteParquet(&pqBuf, rows); err != nil {
			return err
		}
		if err := sink.Write(ctx, meta.ParquetPath, pqBuf.Bytes(), artifacts.ContentTypeParquet); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "  Parquet copy written to %s\n", sink.Location(meta.ParquetPath))
	}

	metaJSON, err := schedule.EncodeMetadata(meta)
	if err != nil {
		return err
	}
	if err := sink.Write(ctx, schedule.MetadataName, metaJSON, artifacts.ContentTypeJSON); err != nil {
		return err
	}

	r.result.Schedule = &ScheduleResult{Key: key, Range: rng, Rows: rows, Metadata: meta}
	return nil
}

func (r *runner) document(ctx context.Context) error {
	key, rows, err := r.loadSchedule(ctx)
	if err != nil {
		return err
	}

	store, err := r.checkpointStore(ctx)
	if err != nil {
		return err
	}
	if r.database != nil {
		if err := r.database.CreateRun(ctx, r.result.RunID, r.cfg.ChildName, key); err != nil {
			r.logger.Warn("failed to record run", "error", err)
		}
	}

	fetcher := r.opts.Fetcher
	if fetcher == nil {
		fetcher = r.textClient()
	}
	progress := r.opts.Progress
	if progress == nil {
		progress = assembly.NewBarProgress(r.out)
	}

	a, err := assembly.New(assembly.Options{
		Store:    store,
		Fetcher:  fetcher,
		Bridge:   r.opts.Bridge,
		Sink:     r.opts.Sink,
		Progress: progress,
		Logger:   r.logger,
		Now:      r.opts.Now,
		Font:     r.cfg.Font,
	})
	if err != nil {
		return err
	}

	start := time.Now()
	res, runErr := a.Run(ctx, key, rows)
	r.result.Document = res
	r.recordRun(res, runErr)
	if r.cfg.Verbose {
		r.printer.PrintRunSummary(res, time.Since(start))
	}
	if runErr != nil {
		return runErr
	}
	fmt.Fprintf(r.out, "  Document written to %s\n", res.Location)
	return nil
}

// loadSchedule finds the schedule to assemble: the one built in this run,
// the configured key, or the latest hand-off record.
func (r *runner) loadSchedule(ctx context.Context) (string, []types.ScheduleRow, error) {
	if s := r.result.Schedule; s != nil {
		return s.Key, s.Rows, nil
	}
	sink := r.opts.Sink

	key := schedule.KeyFromName(r.cfg.Schedule)
	if key == "" {
		data, err := sink.Read(ctx, schedule.MetadataName)
		if err != nil {
			if errors.Is(err, artifacts.ErrNotFound) {
				return "", nil, &schedule.ArtifactError{Message: "no schedule found; run the schedule step first or pass a schedule key", Cause: err}
			}
			return "", nil, err
		}
		var doc map[string]any
		if err := json.Unmarshal(data, &doc); err != nil {
			return "", nil, &schedule.ArtifactError{Message: "failed to decode metadata", Cause: err}
		}
		if err := schemas.ValidateDocument(rootschemas.Metadata, doc); err != nil {
			return "", nil, &schedule.ArtifactError{Message: "invalid metadata", Cause: err}
		}
		meta, err := schedule.DecodeMetadata(data)
		if err != nil {
			return "", nil, err
		}
		key = schedule.KeyFromName(path.Base(meta.CSVPath))
	}

	data, err := sink.Read(ctx, schedule.CSVName(key))
	if err != nil {
		return "", nil, err
	}
	rows, err := schedule.ReadCSV(bytes.NewReader(data))
	if err != nil {
		return "", nil, err
	}
	r.logger.Info("schedule loaded", "key", key, "rows", len(rows))
	return key, rows, nil
}

func (r *runner) checkpointStore(ctx context.Context) (checkpoint.Store, error) {
	if r.opts.Store != nil {
		return r.opts.Store, nil
	}

	switch r.cfg.CheckpointBackend {
	case config.BackendPostgres:
		database, err := db.Connect(ctx, r.cfg.DSN())
		if err != nil {
			return nil, err
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, err
		}
		r.database = database
		if r.cfg.Verbose {
			fmt.Fprintf(r.out, "[VERBOSE] Connected to database\n")
		}
		return checkpoint.NewPostgresStore(database), nil
	default:
		return checkpoint.NewFileStore(r.opts.Fs, r.cfg.CheckpointDir)
	}
}

func (r *runner) textClient() *fetch.Client {
	retry := fetch.DefaultRetryConfig()
	retry.MaxAttempts = r.cfg.MaxAttempts
	retry.InitialBackoff = r.cfg.Backoff()

	return fetch.NewClient(&fetch.Options{
		Endpoint:          r.cfg.TextAPIURL,
		TextField:         r.cfg.TextField,
		Timeout:           r.cfg.Timeout(),
		Retry:             retry,
		RequestsPerSecond: r.cfg.RequestsPerSecond,
		Logger:            r.logger,
	})
}

func (r *runner) recordRun(res *assembly.Result, runErr error) {
	if r.database == nil {
		return
	}
	status := db.RunStatusFailed
	switch {
	case res != nil && res.State == assembly.StateDone:
		status = db.RunStatusDone
	case res != nil && res.State == assembly.StateSuspended:
		status = db.RunStatusSuspended
	}
	// The run context may already be cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.database.CompleteRun(ctx, r.result.RunID, status); err != nil {
		r.logger.Warn("failed to complete run record", "status", status, "error", err, "run_error", runErr)
	}
}

func (r *runner) closeDatabase() {
	if r.database != nil {
		r.database.Close()
	}
}

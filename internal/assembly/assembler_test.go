package assembly

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/study-schedule/internal/checkpoint"
	"github.com/jonathan/study-schedule/internal/hebcal"
	"github.com/jonathan/study-schedule/internal/rendering"
	"github.com/jonathan/study-schedule/internal/schedule"
	"github.com/jonathan/study-schedule/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 9, 1, 8, 30, 5, 0, time.UTC)

// fakeFetcher serves one entry per reference and can cancel a context after
// a number of calls.
type fakeFetcher struct {
	mu          sync.Mutex
	calls       int
	cancelAfter int
	cancel      context.CancelFunc
}

func (f *fakeFetcher) Fetch(_ context.Context, refList string) (types.FetchResult, error) {
	f.mu.Lock()
	f.calls++
	if f.cancel != nil && f.calls == f.cancelAfter {
		f.cancel()
	}
	f.mu.Unlock()

	var res types.FetchResult
	for _, s := range types.SplitReferenceList(refList) {
		ref, err := types.ParseVerseReference(s)
		if err != nil {
			return res, err
		}
		res.Entries = append(res.Entries, types.VerseEntry{
			Chapter: ref.Chapter,
			Verse:   ref.Verse,
			Text:    "text of " + s,
		})
	}
	return res, nil
}

type memSink struct {
	files map[string]string
	fail  error
}

func newMemSink() *memSink { return &memSink{files: map[string]string{}} }

func (s *memSink) Write(_ context.Context, name string, data []byte, _ string) error {
	if s.fail != nil {
		return s.fail
	}
	s.files[name] = string(data)
	return nil
}

func (s *memSink) Location(name string) string { return "mem://" + name }

// flakyStore fails the Nth save.
type flakyStore struct {
	*checkpoint.MemoryStore
	failOn int
	saves  int
}

func (s *flakyStore) Save(ctx context.Context, st *checkpoint.State) error {
	s.saves++
	if s.saves == s.failOn {
		return errors.New("disk full")
	}
	return s.MemoryStore.Save(ctx, st)
}

func buildRows(t *testing.T, days int, specs ...string) []types.ScheduleRow {
	t.Helper()
	refs := make([]types.VerseReference, len(specs))
	for i, s := range specs {
		r, err := types.ParseVerseReference(s)
		require.NoError(t, err)
		refs[i] = r
	}
	start := time.Date(2024, 10, 4, 0, 0, 0, 0, time.UTC)
	rows, err := schedule.Assemble(refs, start, start.AddDate(0, 0, days-1))
	require.NoError(t, err)
	return rows
}

func newAssembler(t *testing.T, store checkpoint.Store, f *fakeFetcher, sink *memSink) *Assembler {
	t.Helper()
	a, err := New(Options{
		Store:   store,
		Fetcher: f,
		Bridge:  hebcal.NewCalendar(),
		Sink:    sink,
		Now:     func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return a
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
}

func TestRun_FreshTwoDays(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	sink := newMemSink()
	a := newAssembler(t, store, &fakeFetcher{}, sink)

	res, err := a.Run(context.Background(), "key", buildRows(t, 2, "Genesis 1:1", "Genesis 1:2"))
	require.NoError(t, err)

	assert.Equal(t, StateDone, res.State)
	assert.Equal(t, StateDone, a.State())
	assert.Equal(t, 2, res.RowsProcessed)
	assert.Equal(t, 0, res.ResumedFrom)
	assert.Equal(t, "output_20240901_083005.tex", res.ArtifactName)
	assert.Equal(t, "mem://output_20240901_083005.tex", res.Location)

	doc := sink.files[res.ArtifactName]
	preamble, err := rendering.Preamble("")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(doc, preamble))
	assert.True(t, strings.HasSuffix(doc, "\\vspace{1em}\n\\end{document}"))
	assert.Equal(t, 2, strings.Count(doc, "\\section*{"))
	assert.Equal(t, 2, strings.Count(doc, "\\textsuperscript{"))
	assert.Contains(t, doc, "text of Genesis 1:2")

	_, err = store.Load(context.Background(), "key")
	assert.ErrorIs(t, err, checkpoint.ErrNoCheckpoint)
	assert.Equal(t, 2, store.Saves())
}

func TestRun_EmptyRowHasOnlyHeader(t *testing.T) {
	f := &fakeFetcher{}
	a := newAssembler(t, checkpoint.NewMemoryStore(), f, newMemSink())

	rows := buildRows(t, 1)
	block, err := a.formatRow(context.Background(), rows[0])
	require.NoError(t, err)

	assert.Equal(t, 0, f.calls)
	assert.Contains(t, block, "\\subsection*{תנ\"ך: לא זמין}")
	assert.NotContains(t, block, "\\textsuperscript")
	assert.NotContains(t, block, "\\par\n")
	assert.True(t, strings.HasSuffix(block, "\\vspace{1em}\n"))
}

func TestRun_ResumeMatchesFromScratch(t *testing.T) {
	specs := []string{"Ruth 1:1", "Ruth 1:2", "Ruth 1:3", "Ruth 1:4", "Ruth 1:5", "Ruth 1:6", "Ruth 2:1"}
	rows := buildRows(t, 5, specs...)

	scratchSink := newMemSink()
	scratch := newAssembler(t, checkpoint.NewMemoryStore(), &fakeFetcher{}, scratchSink)
	want, err := scratch.Run(context.Background(), "key", rows)
	require.NoError(t, err)

	store := checkpoint.NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	interrupted := newAssembler(t, store, &fakeFetcher{cancelAfter: 3, cancel: cancel}, newMemSink())

	res, err := interrupted.Run(ctx, "key", rows)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateSuspended, res.State)
	assert.Equal(t, 3, res.RowsProcessed)

	st, err := store.Load(context.Background(), "key")
	require.NoError(t, err)
	assert.Equal(t, 2, st.LastIndex)
	assert.Equal(t, Fingerprint(rows), st.Fingerprint)

	resumeSink := newMemSink()
	resumed := newAssembler(t, store, &fakeFetcher{}, resumeSink)
	got, err := resumed.Run(context.Background(), "key", rows)
	require.NoError(t, err)
	assert.Equal(t, StateDone, got.State)
	assert.Equal(t, 3, got.ResumedFrom)
	assert.Equal(t, 2, got.RowsProcessed)
	assert.Equal(t, st.SessionID, got.SessionID)

	assert.Equal(t, scratchSink.files[want.ArtifactName], resumeSink.files[got.ArtifactName])
}

func TestRun_CheckpointFailureIsFatal(t *testing.T) {
	store := &flakyStore{MemoryStore: checkpoint.NewMemoryStore(), failOn: 2}
	sink := newMemSink()
	a := newAssembler(t, store, &fakeFetcher{}, sink)

	res, err := a.Run(context.Background(), "key", buildRows(t, 3, "Ruth 1:1", "Ruth 1:2", "Ruth 1:3"))
	var cpErr *CheckpointError
	require.ErrorAs(t, err, &cpErr)
	assert.Equal(t, 1, cpErr.Index)
	assert.Equal(t, StateSuspended, res.State)
	assert.Empty(t, sink.files)

	st, err := store.Load(context.Background(), "key")
	require.NoError(t, err)
	assert.Equal(t, 0, st.LastIndex)
}

func TestRun_FinalWriteFailureKeepsCheckpoint(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	sink := newMemSink()
	sink.fail = errors.New("bucket unavailable")
	rows := buildRows(t, 2, "Ruth 1:1", "Ruth 1:2")

	f := &fakeFetcher{}
	res, err := newAssembler(t, store, f, sink).Run(context.Background(), "key", rows)
	var finErr *FinalizeError
	require.ErrorAs(t, err, &finErr)
	assert.Equal(t, StateSuspended, res.State)

	st, err := store.Load(context.Background(), "key")
	require.NoError(t, err)
	assert.Equal(t, 1, st.LastIndex)

	sink.fail = nil
	f2 := &fakeFetcher{}
	res, err = newAssembler(t, store, f2, sink).Run(context.Background(), "key", rows)
	require.NoError(t, err)
	assert.Equal(t, StateDone, res.State)
	assert.Equal(t, 0, res.RowsProcessed)
	assert.Equal(t, 0, f2.calls)
	assert.Contains(t, sink.files[res.ArtifactName], "text of Ruth 1:2")
}

func TestRun_CheckpointWithoutRowsStartsFresh(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), &checkpoint.State{Key: "key", LastIndex: checkpoint.NoRow, Document: "stale"}))

	sink := newMemSink()
	res, err := newAssembler(t, store, &fakeFetcher{}, sink).Run(context.Background(), "key", buildRows(t, 1, "Ruth 1:1"))
	require.NoError(t, err)
	assert.Equal(t, 0, res.ResumedFrom)
	assert.NotContains(t, sink.files[res.ArtifactName], "stale")
}

func TestRun_CheckpointFromOtherRowsStartsFresh(t *testing.T) {
	specs := []string{"Ruth 1:1", "Ruth 1:2", "Ruth 1:3", "Ruth 1:4"}
	oldRows := buildRows(t, 4, specs...)
	newRows := buildRows(t, 3, specs...)

	store := checkpoint.NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, err := newAssembler(t, store, &fakeFetcher{cancelAfter: 2, cancel: cancel}, newMemSink()).Run(ctx, "key", oldRows)
	require.ErrorIs(t, err, context.Canceled)
	stale, err := store.Load(context.Background(), "key")
	require.NoError(t, err)
	require.Equal(t, 1, stale.LastIndex)

	scratchSink := newMemSink()
	want, err := newAssembler(t, checkpoint.NewMemoryStore(), &fakeFetcher{}, scratchSink).Run(context.Background(), "key", newRows)
	require.NoError(t, err)

	sink := newMemSink()
	f := &fakeFetcher{}
	got, err := newAssembler(t, store, f, sink).Run(context.Background(), "key", newRows)
	require.NoError(t, err)
	assert.Equal(t, StateDone, got.State)
	assert.Equal(t, 0, got.ResumedFrom)
	assert.Equal(t, 3, got.RowsProcessed)
	assert.Equal(t, 3, f.calls)
	assert.NotEqual(t, stale.SessionID, got.SessionID)
	assert.Equal(t, scratchSink.files[want.ArtifactName], sink.files[got.ArtifactName])
}

func TestRun_CheckpointWithoutFingerprintResumes(t *testing.T) {
	rows := buildRows(t, 2, "Ruth 1:1", "Ruth 1:2")
	preamble, err := rendering.Preamble("")
	require.NoError(t, err)

	store := checkpoint.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), &checkpoint.State{Key: "key", LastIndex: 0, Document: preamble + "first day\n"}))

	sink := newMemSink()
	res, err := newAssembler(t, store, &fakeFetcher{}, sink).Run(context.Background(), "key", rows)
	require.NoError(t, err)
	assert.Equal(t, 1, res.ResumedFrom)
	assert.Equal(t, 1, res.RowsProcessed)
	assert.Contains(t, sink.files[res.ArtifactName], "first day\n")
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, "n=0", Fingerprint(nil))
	assert.Equal(t, "n=3;first=2024-10-04;last=2024-10-06", Fingerprint(buildRows(t, 3, "Ruth 1:1")))
	assert.NotEqual(t, Fingerprint(buildRows(t, 3)), Fingerprint(buildRows(t, 4)))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "FRESH", StateFresh.String())
	assert.Equal(t, "RESUMING", StateResuming.String())
	assert.Equal(t, "SUSPENDED", StateSuspended.String())
	assert.Equal(t, "State(9)", State(9).String())
}

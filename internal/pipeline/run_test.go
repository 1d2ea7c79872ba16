package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/study-schedule/internal/artifacts"
	"github.com/jonathan/study-schedule/internal/assembly"
	"github.com/jonathan/study-schedule/internal/checkpoint"
	"github.com/jonathan/study-schedule/internal/config"
	"github.com/jonathan/study-schedule/internal/hebcal"
	"github.com/jonathan/study-schedule/internal/pipeline/steps"
	"github.com/jonathan/study-schedule/internal/rendering"
	"github.com/jonathan/study-schedule/internal/schedule"
	"github.com/jonathan/study-schedule/internal/types"
)

const trackingSheet = "Data Type,Book,Chapter,Number of Verses or Mishnahs\n" +
	"Bible,Genesis,1,3\n" +
	"Mishnah,Berakhot,1,5\n" +
	"Bible,Genesis,2,2\n"

type stubFetcher struct {
	calls int
}

func (f *stubFetcher) Fetch(_ context.Context, refList string) (types.FetchResult, error) {
	f.calls++
	var res types.FetchResult
	for i := range strings.Split(refList, ", ") {
		res.Entries = append(res.Entries, types.VerseEntry{Chapter: 1, Verse: i + 1, Text: "בראשית"})
	}
	return res, nil
}

func fixedNow() time.Time {
	return time.Date(2024, 12, 1, 9, 30, 0, 0, time.UTC)
}

func newOptions(t *testing.T, sink *artifacts.Sink) (RunOptions, *bytes.Buffer) {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/sheet.csv", []byte(trackingSheet), 0644))

	var out bytes.Buffer
	return RunOptions{
		Config: config.Config{
			ChildName:  "Avi Cohen",
			BirthDate:  "2015-01-01",
			StartDate:  "2024-12-20",
			CorpusPath: "/data/sheet.csv",
		},
		Out:      &out,
		Fs:       fs,
		Now:      fixedNow,
		Sink:     sink,
		Store:    checkpoint.NewMemoryStore(),
		Fetcher:  &stubFetcher{},
		Progress: assembly.NoProgress{},
	}, &out
}

func openMemSink(t *testing.T) *artifacts.Sink {
	t.Helper()
	sink, err := artifacts.Open(context.Background(), "mem://")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sink.Close() })
	return sink
}

func TestRunPipeline_EndToEnd(t *testing.T) {
	ctx := context.Background()
	sink := openMemSink(t)
	opts, out := newOptions(t, sink)

	res, err := RunPipeline(ctx, opts)
	require.NoError(t, err)

	assert.Equal(t, []string{steps.Anchors, steps.Schedule, steps.Document}, res.Steps)
	assert.Contains(t, out.String(), "Step 1/3: Computing Hebrew birthdays...")
	assert.Contains(t, out.String(), "Step 3/3: Assembling LaTeX document...")

	require.NotNil(t, res.Anchors)
	require.NotNil(t, res.Schedule)
	sched := res.Schedule
	assert.Equal(t, "study_schedule_Avi_Cohen_2015-01-01", sched.Key)
	assert.True(t, sched.Range.CustomStart)
	assert.Equal(t, res.Anchors.Tenth, sched.Range.End)
	assert.Len(t, sched.Rows, schedule.DayCount(sched.Range.Start, sched.Range.End))

	total := 0
	for _, row := range sched.Rows {
		total += row.Count
	}
	assert.Equal(t, 5, total, "only Bible rows are scheduled")

	for _, name := range []string{schedule.CSVName(sched.Key), schedule.FeedName(sched.Key), schedule.MetadataName} {
		ok, err := sink.Exists(ctx, name)
		require.NoError(t, err)
		assert.True(t, ok, "%s should be written", name)
	}
	ok, err := sink.Exists(ctx, schedule.ParquetName(sched.Key))
	require.NoError(t, err)
	assert.False(t, ok, "parquet is opt-in")

	require.NotNil(t, res.Document)
	assert.Equal(t, assembly.StateDone, res.Document.State)
	assert.Equal(t, fixedNow().Format(assembly.FinalNameLayout), res.Document.ArtifactName)

	doc, err := sink.Read(ctx, res.Document.ArtifactName)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(doc), rendering.Closing))
	assert.Contains(t, string(doc), "בראשית")
}

func TestRunSchedule_ThenDocument(t *testing.T) {
	ctx := context.Background()
	sink := openMemSink(t)

	opts, _ := newOptions(t, sink)
	opts.Config.ScheduleParquet = true
	sres, err := RunSchedule(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{steps.Anchors, steps.Schedule}, sres.Steps)
	assert.Nil(t, sres.Document)

	data, err := sink.Read(ctx, schedule.ParquetName(sres.Schedule.Key))
	require.NoError(t, err)
	pqRows, err := schedule.ReadParquet(data)
	require.NoError(t, err)
	assert.Len(t, pqRows, len(sres.Schedule.Rows))

	docOpts, out := newOptions(t, sink)
	docOpts.Config = config.Config{}
	dres, err := RunDocument(ctx, docOpts)
	require.NoError(t, err)
	assert.Equal(t, []string{steps.Document}, dres.Steps)
	assert.Contains(t, out.String(), "Step 1/1: Assembling LaTeX document...")
	require.NotNil(t, dres.Document)
	assert.Equal(t, assembly.StateDone, dres.Document.State)
	assert.Equal(t, len(sres.Schedule.Rows), dres.Document.TotalRows)
}

func TestRunDocument_ExplicitKey(t *testing.T) {
	ctx := context.Background()
	sink := openMemSink(t)

	opts, _ := newOptions(t, sink)
	sres, err := RunSchedule(ctx, opts)
	require.NoError(t, err)

	docOpts, _ := newOptions(t, sink)
	docOpts.Config.Schedule = schedule.CSVName(sres.Schedule.Key)
	dres, err := RunDocument(ctx, docOpts)
	require.NoError(t, err)
	assert.Equal(t, len(sres.Schedule.Rows), dres.Document.TotalRows)
}

func TestRunDocument_NoSchedule(t *testing.T) {
	opts, _ := newOptions(t, openMemSink(t))

	_, err := RunDocument(context.Background(), opts)
	var artErr *schedule.ArtifactError
	require.ErrorAs(t, err, &artErr)
	assert.ErrorIs(t, err, artifacts.ErrNotFound)
}

func TestRunSchedule_RequiresCorpus(t *testing.T) {
	opts, _ := newOptions(t, openMemSink(t))
	opts.Config.CorpusPath = ""

	_, err := RunSchedule(context.Background(), opts)
	var cfgErr *config.ValidationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "corpus_path", cfgErr.Field)
}

func TestRunSchedule_MissingBirthDate(t *testing.T) {
	opts, _ := newOptions(t, openMemSink(t))
	opts.Config.BirthDate = ""

	res, err := RunSchedule(context.Background(), opts)
	require.Error(t, err)
	assert.Empty(t, res.Steps)
}

func TestComputeAnchors(t *testing.T) {
	a, err := ComputeAnchors(config.Config{BirthDate: "2015-01-01"}, nil)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), a.Birth)
	assert.Equal(t, a.BirthHebrew.Year+hebcal.StartAnniversary, a.FifthHebrew.Year)
	assert.Equal(t, a.BirthHebrew.Year+hebcal.EndAnniversary, a.TenthHebrew.Year)
	assert.True(t, a.Fifth.Before(a.Tenth))

	_, err = ComputeAnchors(config.Config{BirthDate: "01/01/2015"}, nil)
	assert.Error(t, err)
}

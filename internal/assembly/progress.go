package assembly

import (
	"io"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Progress reports row completion.
type Progress interface {
	// Start begins reporting total rows, completed of which are already done.
	Start(total, completed int)
	// Advance marks one more row complete.
	Advance()
	// Finish stops reporting; done is false when the run suspended.
	Finish(done bool)
}

// NoProgress discards progress updates.
type NoProgress struct{}

func (NoProgress) Start(int, int) {}
func (NoProgress) Advance()       {}
func (NoProgress) Finish(bool)    {}

// BarProgress draws a terminal progress bar.
type BarProgress struct {
	out   io.Writer
	p     *mpb.Progress
	bar   *mpb.Bar
	total int64
}

// NewBarProgress returns a bar writing to out.
func NewBarProgress(out io.Writer) *BarProgress {
	return &BarProgress{out: out}
}

const barName = "Building LaTeX"

func (b *BarProgress) Start(total, completed int) {
	b.total = int64(total)
	b.p = mpb.New(mpb.WithWidth(64), mpb.WithOutput(b.out))
	b.bar = b.p.New(b.total,
		mpb.BarStyle().Lbound("╢").Filler("█").Tip("█").Padding("░").Rbound("╟"),
		mpb.PrependDecorators(
			decor.Name(barName, decor.WC{W: len(barName) + 1, C: decor.DindentRight}),
			decor.CountersNoUnit("%d / %d", decor.WC{W: 12}),
		),
		mpb.AppendDecorators(
			decor.OnAbort(
				decor.OnComplete(decor.Percentage(decor.WC{W: 5}), "Complete"),
				"Suspended",
			),
		),
	)
	b.bar.SetCurrent(int64(completed))
}

func (b *BarProgress) Advance() {
	if b.bar != nil {
		b.bar.Increment()
	}
}

func (b *BarProgress) Finish(done bool) {
	if b.bar == nil {
		return
	}
	switch {
	case done && b.total > 0:
		b.bar.SetCurrent(b.total)
	case done:
		b.bar.SetTotal(-1, true)
	default:
		b.bar.Abort(false)
	}
	b.p.Wait()
	b.bar, b.p = nil, nil
}

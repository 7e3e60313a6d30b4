package fileio

import (
	"io"

	"github.com/vbauerster/mpb/v4"
	"github.com/vbauerster/mpb/v4/decor"
)

// Progress reports the transfer of cache misses.
type Progress interface {
	Track(name string, size int64) Tracker
	Wait()
}

type Tracker interface {
	Wrap(r io.Reader) io.Reader
	// Done must be called once the transfer ends, successfully or not.
	Done(err error)
}

type NoProgress struct{}

func (NoProgress) Track(string, int64) Tracker { return noTracker{} }
func (NoProgress) Wait()                       {}

type noTracker struct{}

func (noTracker) Wrap(r io.Reader) io.Reader { return r }
func (noTracker) Done(error)                 {}

// BarProgress draws one mpb bar per download of known size.
type BarProgress struct {
	p *mpb.Progress
}

func NewBarProgress(w io.Writer) *BarProgress {
	return &BarProgress{p: mpb.New(mpb.WithOutput(w), mpb.WithWidth(40))}
}

func (b *BarProgress) Track(name string, size int64) Tracker {
	if size <= 0 {
		return noTracker{}
	}
	bar := b.p.AddBar(size,
		mpb.PrependDecorators(decor.Name(name)),
		mpb.AppendDecorators(decor.CountersKibiByte("% .1f / % .1f")),
	)
	return &barTracker{bar: bar}
}

func (b *BarProgress) Wait() {
	b.p.Wait()
}

type barTracker struct {
	bar *mpb.Bar
}

func (t *barTracker) Wrap(r io.Reader) io.Reader {
	return t.bar.ProxyReader(r)
}

func (t *barTracker) Done(error) {
	// completes short or failed transfers so Wait never blocks on them
	t.bar.SetTotal(t.bar.Current(), true)
}

// Package progress reports per-unit pipeline progress on the terminal.
package progress

import (
	"io"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Reporter receives one Increment per processed unit
type Reporter interface {
	Increment()
	// Finish flushes the output once all work is done
	Finish()
}

type nop struct{}

func (nop) Increment() {}
func (nop) Finish()    {}

// Nop returns a reporter that discards all updates
func Nop() Reporter {
	return nop{}
}

// Bar renders a single mpb progress bar
type Bar struct {
	p   *mpb.Progress
	bar *mpb.Bar
}

// NewBar creates a bar for total units. A zero total yields Nop since an
// empty bar would never complete.
func NewBar(w io.Writer, total int, label string) Reporter {
	if total <= 0 {
		return Nop()
	}

	p := mpb.New(mpb.WithOutput(w), mpb.WithWidth(40))
	bar := p.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(label, decor.WC{C: decor.DindentRight | decor.DextraSpace}),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(
			decor.OnComplete(decor.Percentage(), "done"),
		),
	)
	return &Bar{p: p, bar: bar}
}

// Increment implements Reporter
func (b *Bar) Increment() {
	b.bar.Increment()
}

// Finish implements Reporter. An incomplete bar is aborted so Wait returns.
func (b *Bar) Finish() {
	if !b.bar.Completed() {
		b.bar.Abort(false)
	}
	b.p.Wait()
}

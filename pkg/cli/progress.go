package cli

import (
	"io"
	"os"
	"time"

	"github.com/vbauerster/mpb"
	"github.com/vbauerster/mpb/decor"
	"golang.org/x/term"
)

const defaultWidth = 80

// ColumnProgress shows a bar counting scanned columns.
type ColumnProgress struct {
	p       *mpb.Progress
	bar     *mpb.Bar
	start   time.Time
	total   int64
	scanned int64
}

// NewColumnProgress renders on stderr, sized to the terminal.
func NewColumnProgress(name string, columns int64) *ColumnProgress {
	width, _, err := term.GetSize(int(os.Stderr.Fd()))
	if err != nil || width <= 0 {
		width = defaultWidth
	}
	return newColumnProgress(os.Stderr, width, name, columns)
}

func newColumnProgress(w io.Writer, width int, name string, columns int64) *ColumnProgress {
	c := &ColumnProgress{
		p:     mpb.New(mpb.WithWidth(width), mpb.WithOutput(w)),
		start: time.Now(),
		total: columns,
	}
	// A bar with nothing to count never completes.
	if columns > 0 {
		c.bar = c.p.AddBar(columns,
			mpb.AppendDecorators(decor.AverageETA(decor.ET_STYLE_GO)),
			mpb.PrependDecorators(decor.Name(name)),
			mpb.PrependDecorators(decor.CountersNoUnit("%d/%d", decor.WCSyncSpace)),
			mpb.BarRemoveOnComplete(),
		)
	}
	return c
}

// Done advances the bar by one column. It fits the per-column hooks of the
// profile and missing packages.
func (c *ColumnProgress) Done(string) {
	if c.bar == nil {
		return
	}
	c.scanned++
	c.bar.IncrBy(1, time.Since(c.start))
}

// Wait blocks until the bar is rendered. A scan that stopped early aborts
// the bar instead.
func (c *ColumnProgress) Wait() {
	if c.bar != nil && c.scanned < c.total {
		c.p.Abort(c.bar, true)
	}
	c.p.Wait()
}

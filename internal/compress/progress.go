package compress

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// Progress receives incremental parsed/written record counts during a
// compress run. Add is called with the count of new records since the
// last call, not a running total.
type Progress interface {
	Add(n int)
}

// noopProgress discards updates; used when a caller doesn't attach a
// reporter.
type noopProgress struct{}

func (noopProgress) Add(int) {}

// barProgress adapts schollz/progressbar/v3 to the Progress interface. The
// bar runs indeterminate (total -1) since the total record count isn't
// known until the parser reaches EOF.
type barProgress struct {
	bar *progressbar.ProgressBar
}

// NewBar returns a Progress backed by an indeterminate spinner writing to
// w, with the given description.
func NewBar(w io.Writer, description string) Progress {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	return &barProgress{bar: bar}
}

func (p *barProgress) Add(n int) {
	p.bar.Add(n)
}

// Finish sets a terminal description on the bar, matching the original
// CLI's final "wrote N entries" message.
func (p *barProgress) Finish(description string) {
	p.bar.Describe(description)
	p.bar.Finish()
}

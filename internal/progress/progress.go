// Package progress reports the advance of a fetch run on the terminal.
// Every tile reaching a terminal state counts, no matter whether it was
// saved, skipped or failed for good.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/schollz/progressbar/v3"

	"github.com/willie68/go_tilefetch/internal/model"
)

// Failure records a tile whose retry budget ran out.
type Failure struct {
	Tile model.Tile
	Err  error
}

// Reporter drives the progress bar and collects the terminal failures for
// the report after the run.
type Reporter struct {
	out      io.Writer
	bar      *progressbar.ProgressBar
	saved    atomic.Uint64
	skipped  atomic.Uint64
	failed   atomic.Uint64
	mu       sync.Mutex
	failures []Failure
}

// NewReporter creates a reporter for the given total tile count writing to
// out, os.Stderr if nil.
func NewReporter(total uint64, out io.Writer) *Reporter {
	if out == nil {
		out = os.Stderr
	}
	bar := progressbar.NewOptions64(int64(total),
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("fetching tiles"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "#",
			SaucerPadding: "-",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Reporter{
		out: out,
		bar: bar,
	}
}

// Done records the terminal state of one tile and advances the bar.
func (r *Reporter) Done(tile model.Tile, res model.Result, err error) {
	switch res {
	case model.Saved:
		r.saved.Add(1)
	case model.Skipped:
		r.skipped.Add(1)
	case model.Failed:
		r.failed.Add(1)
		r.mu.Lock()
		r.failures = append(r.failures, Failure{Tile: tile, Err: err})
		r.mu.Unlock()
	}
	_ = r.bar.Add(1)
}

// Finish clears the bar, replays all failures one line each and prints the
// summary counts.
func (r *Reporter) Finish() {
	_ = r.bar.Finish()

	r.mu.Lock()
	failures := r.failures
	r.mu.Unlock()
	for _, f := range failures {
		fmt.Fprintf(r.out, "failed fetching tile %dx%dx%d: %v\n", f.Tile.Z, f.Tile.X, f.Tile.Y, f.Err)
	}
	fmt.Fprintf(r.out, "done: %d saved, %d skipped, %d failed\n",
		r.saved.Load(), r.skipped.Load(), r.failed.Load())
}

// Saved returns the number of tiles saved so far.
func (r *Reporter) Saved() uint64 { return r.saved.Load() }

// Skipped returns the number of tiles skipped so far.
func (r *Reporter) Skipped() uint64 { return r.skipped.Load() }

// Failed returns the number of tiles terminally failed so far.
func (r *Reporter) Failed() uint64 { return r.failed.Load() }

// Failures returns the recorded terminal failures.
func (r *Reporter) Failures() []Failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Failure(nil), r.failures...)
}

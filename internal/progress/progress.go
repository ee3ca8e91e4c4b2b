// Package progress provides progress indicators for long-running operations,
// such as re-embedding bookmarks imported during sync.
package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/mkrebs/marksync/internal/logging"
	"github.com/mkrebs/marksync/internal/ui"
)

// Bar wraps progressbar functionality with integration to marksync's UI and
// logging. When the bar is not shown (piped output, colors off, debug
// logging), progress is reported at debug level instead.
type Bar struct {
	bar     *progressbar.ProgressBar
	enabled bool
	desc    string
}

// Options configures the progress bar behavior.
type Options struct {
	// Max is the maximum value for the progress bar (total steps).
	Max int64
	// Description is the prefix text shown before the progress bar.
	Description string
	// Writer is the output destination. Defaults to os.Stderr.
	Writer io.Writer
}

// New creates a new progress bar with the given options.
func New(opts Options) *Bar {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}

	b := &Bar{
		enabled: shouldShowProgress(opts.Writer),
		desc:    opts.Description,
	}

	if !b.enabled {
		logging.Debug(fmt.Sprintf("%s started", opts.Description),
			logging.Count(int(opts.Max)))
		return b
	}

	b.bar = progressbar.NewOptions64(
		opts.Max,
		progressbar.OptionSetDescription(opts.Description),
		progressbar.OptionSetWriter(opts.Writer),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(opts.Writer, "\n")
		}),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionEnableColorCodes(ui.IsColorEnabled()),
	)

	return b
}

// Simple creates a progress bar with just a total and a description.
func Simple(max int64, description string) *Bar {
	return New(Options{Max: max, Description: description})
}

// Add increments the progress bar by n steps.
func (b *Bar) Add(n int) error {
	if !b.enabled {
		return nil
	}
	return b.bar.Add(n)
}

// Describe updates the progress bar description.
func (b *Bar) Describe(desc string) {
	b.desc = desc
	if !b.enabled {
		return
	}
	b.bar.Describe(desc)
}

// Finish completes the progress bar and logs completion.
func (b *Bar) Finish() error {
	if !b.enabled {
		logging.Debug(fmt.Sprintf("%s completed", b.desc))
		return nil
	}
	return b.bar.Finish()
}

// Clear removes the progress bar from the terminal.
func (b *Bar) Clear() error {
	if !b.enabled {
		return nil
	}
	return b.bar.Clear()
}

// shouldShowProgress determines if progress bars should be displayed.
// Progress is disabled when not writing to a terminal, when colors are off
// (NO_COLOR, --no-color), or at debug level so bars do not interleave with
// log lines.
func shouldShowProgress(w io.Writer) bool {
	if !ui.IsColorEnabled() {
		return false
	}

	if f, ok := w.(*os.File); ok {
		if !term.IsTerminal(int(f.Fd())) {
			return false
		}
	}

	if logging.Default().Enabled(context.Background(), logging.LevelDebug) {
		return false
	}

	return true
}

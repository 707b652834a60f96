package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/suiterun/packages/core/runner"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// DefaultProgressInterval is the minimum spacing between progress log lines
// when no terminal is attached
const DefaultProgressInterval = 2 * time.Second

// Progress is a runner.Observer reporting how many tests have finished. On a
// terminal it draws a progress bar; otherwise it writes throttled log lines.
type Progress struct {
	writer      io.Writer
	log         logrus.FieldLogger
	interactive bool
	interval    time.Duration

	mu        sync.Mutex
	bar       *progressbar.ProgressBar
	sometimes *rate.Sometimes
	total     int
	done      int
	failed    int
}

type ProgressOption func(*Progress)

// ProgressWithInteractive forces the progress bar on or off
func ProgressWithInteractive(interactive bool) ProgressOption {
	return func(p *Progress) {
		p.interactive = interactive
	}
}

// ProgressWithInterval sets the spacing of progress log lines
func ProgressWithInterval(d time.Duration) ProgressOption {
	return func(p *Progress) {
		p.interval = d
	}
}

// NewProgress creates a progress observer writing to w
func NewProgress(w io.Writer, log logrus.FieldLogger, opts ...ProgressOption) *Progress {
	if w == nil {
		w = os.Stderr
	}
	p := &Progress{
		writer:      w,
		log:         log,
		interactive: IsTerminal(w),
		interval:    DefaultProgressInterval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IsTerminal reports whether w is a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Progress) describe() string {
	return color.CyanString("Running tests: ") +
		color.GreenString("[done: %d/%d", p.done, p.total) +
		" | " +
		color.RedString("failed: %d]", p.failed)
}

func (p *Progress) RunStarted(runID string, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.done = 0
	p.failed = 0
	p.sometimes = &rate.Sometimes{First: 1, Interval: p.interval}

	if !p.interactive {
		if p.log != nil {
			p.log.Infof("Running %d tests", total)
		}
		return
	}

	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(p.describe()),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func (p *Progress) TestFinished(result *runner.TestResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	if result.Failed() || !result.Recorded {
		p.failed++
	}

	if p.bar != nil {
		p.bar.Describe(p.describe())
		_ = p.bar.Set(p.done)
		return
	}

	if p.log != nil && p.sometimes != nil {
		done, total := p.done, p.total
		p.sometimes.Do(func() {
			p.log.Infof("Progress: %d/%d tests finished", done, total)
		})
	}
}

func (p *Progress) RunFinished(summary *runner.Summary) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		_ = p.bar.Finish()
		p.bar = nil
		return
	}

	if p.log != nil {
		p.log.Infof("Finished %d tests in %dms", summary.Total, summary.Duration.Milliseconds())
	}
}

// Done returns how many tests have finished in the current run
func (p *Progress) Done() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

func (p *Progress) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fmt.Sprintf("%d/%d", p.done, p.total)
}

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// ProgressReporter reports progress for long-running operations.
type ProgressReporter interface {
	Start(total int64)
	Update(current int64)
	Finish()
	Error(err error)

	// Printf writes a line to w without tearing the bar.
	Printf(w io.Writer, format string, args ...any)
}

// SimpleProgress implements a simple text-based progress bar.
type SimpleProgress struct {
	mu      sync.Mutex
	total   int64
	current int64
	started time.Time
	writer  io.Writer
	unit    string
}

// NewProgressReporter creates a new progress reporter that writes to w.
// If w is nil, it defaults to os.Stderr. When w is a file that is not a
// terminal the bar is suppressed and only errors are written, so redirected
// output stays free of carriage returns.
func NewProgressReporter(w io.Writer) ProgressReporter {
	if w == nil {
		w = os.Stderr
	}
	if f, ok := w.(*os.File); ok && !IsTerminal(f) {
		return &quietProgress{writer: w}
	}
	return &SimpleProgress{
		writer: w,
		unit:   "files",
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Start initializes the progress reporter with the total number of items.
func (p *SimpleProgress) Start(total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.current = 0
	p.started = time.Now()

	p.render()
}

// Update updates the current progress.
func (p *SimpleProgress) Update(current int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = current
	p.render()
}

// Finish marks the progress as complete.
func (p *SimpleProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.total == 0 {
		return
	}
	p.current = p.total
	p.render()
	fmt.Fprintln(p.writer)
}

// Error reports an error during progress.
func (p *SimpleProgress) Error(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.writer, "\n✗ Error: %v\n", err)
}

// Printf clears the bar, writes the line to w and redraws the bar below it.
func (p *SimpleProgress) Printf(w io.Writer, format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.total > 0 {
		fmt.Fprintf(p.writer, "\r\033[K")
	}
	fmt.Fprintf(w, format, args...)
	p.render()
}

func (p *SimpleProgress) render() {
	if p.total == 0 {
		return
	}

	percent := float64(p.current) / float64(p.total) * 100
	barWidth := 40
	filled := int(float64(barWidth) * percent / 100)

	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	fmt.Fprintf(p.writer, "\rProgress: [%s] %.1f%% (%d/%d %s) %s",
		bar, percent, p.current, p.total, p.unit, time.Since(p.started).Round(time.Second))
}

// quietProgress is used when the output is not a terminal.
type quietProgress struct {
	writer io.Writer
}

func (q *quietProgress) Start(int64)  {}
func (q *quietProgress) Update(int64) {}
func (q *quietProgress) Finish()      {}

func (q *quietProgress) Printf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}

func (q *quietProgress) Error(err error) {
	fmt.Fprintf(q.writer, "✗ Error: %v\n", err)
}

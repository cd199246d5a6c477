// Package progress renders a single-line terminal progress bar for batch
// work. It is deliberately small: one tracker, one line, redrawn in place.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
)

// Tracker tracks the progress of a batch and redraws its bar on every
// update. All methods are safe for concurrent use, although the expected
// caller is a single sequential loop.
type Tracker struct {
	mu sync.Mutex

	totalUnits     int64
	completedUnits int64
	startTime      time.Time

	unit       string // noun for the final line, e.g. "documents"
	unitSymbol string // short symbol after counts, e.g. "docs"
	message    string

	writer          io.Writer
	refreshInterval time.Duration
	isActive        bool
	isDone          bool

	barWidth      int
	completedChar string
	remainingChar string
	leftBracket   string
	rightBracket  string

	percentColor text.Colors
	barColor     text.Colors
	statsColor   text.Colors
	timeColor    text.Colors
	messageColor text.Colors
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithUnit sets the unit noun and its short symbol.
func WithUnit(name, symbol string) Option {
	return func(pt *Tracker) {
		pt.unit = name
		pt.unitSymbol = symbol
	}
}

// WithWriter sets the destination of the rendered bar.
func WithWriter(writer io.Writer) Option {
	return func(pt *Tracker) {
		pt.writer = writer
	}
}

// WithMessage sets the label drawn in front of the bar.
func WithMessage(message string) Option {
	return func(pt *Tracker) {
		pt.message = message
	}
}

// WithRefreshInterval sets how often the bar is redrawn while idle, so the
// elapsed time keeps ticking during a long job.
func WithRefreshInterval(interval time.Duration) Option {
	return func(pt *Tracker) {
		pt.refreshInterval = interval
	}
}

// WithBarStyle sets the bar's width and characters.
func WithBarStyle(width int, completedChar, remainingChar, leftBracket, rightBracket string) Option {
	return func(pt *Tracker) {
		pt.barWidth = width
		pt.completedChar = completedChar
		pt.remainingChar = remainingChar
		pt.leftBracket = leftBracket
		pt.rightBracket = rightBracket
	}
}

// NewTracker creates a tracker over totalUnits units.
func NewTracker(totalUnits int64, options ...Option) *Tracker {
	now := time.Now()
	pt := &Tracker{
		totalUnits:      totalUnits,
		startTime:       now,
		unit:            "items",
		unitSymbol:      "items",
		message:         "progress",
		writer:          os.Stderr,
		refreshInterval: time.Second,
		barWidth:        40,
		completedChar:   "█",
		remainingChar:   "░",
		leftBracket:     "[",
		rightBracket:    "]",
		percentColor:    text.Colors{text.FgHiWhite},
		barColor:        text.Colors{text.FgCyan},
		statsColor:      text.Colors{text.FgYellow},
		timeColor:       text.Colors{text.FgGreen},
		messageColor:    text.Colors{text.FgWhite},
	}
	for _, option := range options {
		option(pt)
	}
	return pt
}

// Start begins tracking and the periodic redraw.
func (pt *Tracker) Start() {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	pt.isActive = true
	pt.startTime = time.Now()
	pt.render()

	go pt.refreshLoop()
}

// refreshLoop redraws the bar while the tracker is active so that elapsed
// time and ETA stay current even when no unit completes for a while.
func (pt *Tracker) refreshLoop() {
	ticker := time.NewTicker(pt.refreshInterval)
	defer ticker.Stop()

	for range ticker.C {
		pt.mu.Lock()
		if !pt.isActive {
			pt.mu.Unlock()
			return
		}
		pt.render()
		pt.mu.Unlock()
	}
}

// Update sets the number of completed units.
func (pt *Tracker) Update(completedUnits int64) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	if !pt.isActive || pt.isDone {
		return
	}
	pt.completedUnits = completedUnits
	if pt.completedUnits >= pt.totalUnits {
		pt.isDone = true
	}
	pt.render()
}

// Increment adds delta completed units.
func (pt *Tracker) Increment(delta int64) {
	pt.mu.Lock()
	current := pt.completedUnits
	pt.mu.Unlock()
	pt.Update(current + delta)
}

// SetMessage replaces the label drawn in front of the bar.
func (pt *Tracker) SetMessage(message string) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	pt.message = message
	if pt.isActive {
		pt.render()
	}
}

// Stop halts tracking where it stands, leaving the bar as is. Used when a
// batch is cut short.
func (pt *Tracker) Stop() {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	pt.isActive = false
	pt.render()
	fmt.Fprintln(pt.writer)
}

// Done fills the bar, stops tracking, and prints a closing line with the
// total count and elapsed time.
func (pt *Tracker) Done() {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	pt.isDone = true
	pt.isActive = false
	if pt.totalUnits > 0 && pt.completedUnits < pt.totalUnits {
		pt.completedUnits = pt.totalUnits
	}
	pt.render()

	elapsed := time.Since(pt.startTime)
	fmt.Fprintf(pt.writer, "\nprocessed %d %s in %s\n",
		pt.completedUnits, pt.unit, formatDuration(elapsed))
}

// GetPercentage returns the completion percentage.
func (pt *Tracker) GetPercentage() float64 {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	if pt.totalUnits <= 0 {
		return 0
	}
	return float64(pt.completedUnits) / float64(pt.totalUnits) * 100
}

// IsDone reports whether every unit completed.
func (pt *Tracker) IsDone() bool {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	return pt.isDone
}

// eta estimates the remaining time from the overall average pace. Caller
// holds the lock.
func (pt *Tracker) eta() time.Duration {
	if pt.isDone || pt.completedUnits <= 0 || pt.totalUnits <= pt.completedUnits {
		return 0
	}
	elapsed := time.Since(pt.startTime)
	perUnit := elapsed / time.Duration(pt.completedUnits)
	return perUnit * time.Duration(pt.totalUnits-pt.completedUnits)
}

// render redraws the bar line. Caller holds the lock.
func (pt *Tracker) render() {
	if pt.writer == nil {
		return
	}

	var percent float64
	if pt.totalUnits > 0 {
		percent = float64(pt.completedUnits) / float64(pt.totalUnits) * 100
	}

	var builder strings.Builder
	builder.WriteString("\x1b[K") // clear to end of line
	builder.WriteString("\r")

	if pt.message != "" {
		builder.WriteString(pt.messageColor.Sprint(pt.message))
		builder.WriteString(": ")
	}

	builder.WriteString(pt.percentColor.Sprint(fmt.Sprintf("%.1f%%", percent)))
	builder.WriteString(" ")

	builder.WriteString(pt.leftBracket)
	completedWidth := 0
	if pt.totalUnits > 0 {
		completedWidth = int(float64(pt.barWidth) * float64(pt.completedUnits) / float64(pt.totalUnits))
		if completedWidth > pt.barWidth {
			completedWidth = pt.barWidth
		}
	}
	if completedWidth > 0 {
		builder.WriteString(pt.barColor.Sprint(strings.Repeat(pt.completedChar, completedWidth)))
	}
	if remaining := pt.barWidth - completedWidth; remaining > 0 {
		builder.WriteString(strings.Repeat(pt.remainingChar, remaining))
	}
	builder.WriteString(pt.rightBracket)
	builder.WriteString(" ")

	builder.WriteString(pt.statsColor.Sprint(
		fmt.Sprintf("%d/%d %s", pt.completedUnits, pt.totalUnits, pt.unitSymbol)))
	builder.WriteString(" ")

	builder.WriteString(pt.timeColor.Sprint(
		fmt.Sprintf("elapsed: %s", formatDuration(time.Since(pt.startTime)))))

	if eta := pt.eta(); eta > 0 {
		builder.WriteString(" ")
		builder.WriteString(pt.timeColor.Sprint(fmt.Sprintf("eta: %s", formatDuration(eta))))
	}

	fmt.Fprint(pt.writer, builder.String())
}

// formatDuration renders a duration in the shortest readable form.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", h, m, s)
}

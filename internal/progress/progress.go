// Package progress draws a single-line progress bar on stderr.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	defaultWidth = 40
	minInterval  = 100 * time.Millisecond
)

// Bar is a throttled progress bar. It is safe for concurrent use.
type Bar struct {
	mu          sync.Mutex
	total       int
	current     int
	width       int
	startTime   time.Time
	lastUpdate  time.Time
	output      io.Writer
	enabled     bool
	finished    bool
	description string
	now         func() time.Time
}

// NewBar creates a bar writing to stderr.
func NewBar(total int, description string) *Bar {
	now := time.Now()
	return &Bar{
		total:       total,
		width:       defaultWidth,
		startTime:   now,
		output:      os.Stderr,
		enabled:     true,
		description: description,
		now:         time.Now,
	}
}

// SetOutput redirects the bar.
func (b *Bar) SetOutput(w io.Writer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.output = w
}

// Disable turns the bar into a no-op.
func (b *Bar) Disable() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enabled = false
}

// Enabled reports whether the bar draws anything.
func (b *Bar) Enabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.enabled
}

// Track records done out of total. Its signature matches the loader's
// progress callback so it can be passed directly.
func (b *Bar) Track(done, total int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.total = total
	b.current = done
	b.render(false)
}

// Increment advances the bar by one.
func (b *Bar) Increment() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current++
	b.render(false)
}

// Finish draws the final state and ends the line. Further calls are no-ops.
func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.enabled || b.finished {
		return
	}
	b.finished = true
	b.render(true)
	fmt.Fprint(b.output, "\n")
}

func (b *Bar) render(force bool) {
	if !b.enabled || b.finished && !force {
		return
	}
	now := b.now()
	if !force && b.current < b.total && now.Sub(b.lastUpdate) < minInterval {
		return
	}
	b.lastUpdate = now

	var ratio float64
	if b.total > 0 {
		ratio = float64(b.current) / float64(b.total)
		if ratio > 1 {
			ratio = 1
		}
	}
	filled := int(float64(b.width) * ratio)
	bar := strings.Repeat("=", filled)
	if filled < b.width {
		bar += ">" + strings.Repeat(" ", b.width-filled-1)
	}

	var sb strings.Builder
	sb.WriteString("\r")
	if b.description != "" {
		sb.WriteString(b.description)
		sb.WriteString(" ")
	}
	fmt.Fprintf(&sb, "[%s] %d/%d (%.1f%%) %s", bar, b.current, b.total, ratio*100, formatDuration(now.Sub(b.startTime)))
	fmt.Fprint(b.output, sb.String())
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm%ds", minutes, seconds)
}

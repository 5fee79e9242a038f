// Package output provides progress display for scan operations
package output

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jhaxce/originprobe/internal/colors"
)

const progressInterval = 200 * time.Millisecond

// Progress renders a single self-overwriting status line on stderr. The
// counters are read from the scanner; Progress never owns them.
type Progress struct {
	out       io.Writer
	enabled   bool
	total     atomic.Uint64
	startTime time.Time

	scanned  func() uint64
	excluded func() uint64
	matches  func() uint64

	mu   sync.Mutex
	done chan struct{}
	wg   sync.WaitGroup
}

// NewProgress creates a progress display. A disabled one is a no-op.
func NewProgress(out io.Writer, enabled bool) *Progress {
	return &Progress{
		out:     out,
		enabled: enabled,
	}
}

// SetTotal sets the number of addresses the scan will handle
func (p *Progress) SetTotal(total uint64) {
	p.total.Store(total)
}

// Start begins periodic rendering until Stop
func (p *Progress) Start(scanned, excluded, matches func() uint64) {
	if !p.enabled {
		return
	}

	p.scanned = scanned
	p.excluded = excluded
	p.matches = matches
	p.startTime = time.Now()
	p.done = make(chan struct{})

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()

		for {
			select {
			case <-p.done:
				return
			case <-ticker.C:
				p.Display()
			}
		}
	}()
}

// Display shows the current progress
func (p *Progress) Display() {
	if !p.enabled || p.scanned == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprint(p.out, "\r"+p.line())
}

func (p *Progress) line() string {
	total := p.total.Load()
	if total == 0 {
		return ""
	}

	scanned := p.scanned()
	elapsed := time.Since(p.startTime).Seconds()
	percent := math.Min(float64(scanned)/float64(total)*100, 100)
	rate := 0.0
	if elapsed > 0 {
		rate = float64(scanned) / elapsed
	}

	// Progress bar (30 characters wide)
	barWidth := 30
	filledWidth := int(float64(barWidth) * percent / 100)
	bar := strings.Repeat("█", filledWidth) + strings.Repeat("░", barWidth-filledWidth)

	line := fmt.Sprintf("%s %s | %s/%s IPs",
		colors.Cyan("["+bar+"]"),
		colors.Bold(fmt.Sprintf("%.1f%%", percent)),
		colors.Green(scanned), colors.Bold(total),
	)

	if p.excluded != nil {
		if excluded := p.excluded(); excluded > 0 {
			line += fmt.Sprintf(" | %s excluded", colors.Yellow(excluded))
		}
	}
	if p.matches != nil {
		if found := p.matches(); found > 0 {
			line += fmt.Sprintf(" | %s found", colors.Green(found))
		}
	}

	line += fmt.Sprintf(" | %s | ETA: %s",
		colors.Magenta(fmt.Sprintf("%.0f IPs/s", rate)),
		colors.Yellow(calculateETA(total, scanned, rate)),
	)
	return line
}

// Clear clears the progress line
func (p *Progress) Clear() {
	if !p.enabled {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprint(p.out, "\r\033[K")
}

// Stop ends rendering and leaves the cursor on a clean line
func (p *Progress) Stop() {
	if !p.enabled || p.done == nil {
		return
	}

	close(p.done)
	p.wg.Wait()
	p.done = nil
	p.Clear()
}

// calculateETA calculates estimated time of arrival
func calculateETA(total, scanned uint64, rate float64) string {
	if scanned == 0 || rate == 0 || scanned >= total {
		return "--"
	}

	return formatDuration(float64(total-scanned) / rate)
}

// formatDuration formats a duration in seconds to human-readable format
func formatDuration(seconds float64) string {
	if seconds < 60 {
		return fmt.Sprintf("%.0fs", seconds)
	} else if seconds < 3600 {
		return fmt.Sprintf("%.0fm%.0fs", math.Floor(seconds/60), math.Mod(seconds, 60))
	}
	return fmt.Sprintf("%.0fh%.0fm", math.Floor(seconds/3600), math.Mod(seconds/60, 60))
}

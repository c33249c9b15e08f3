package ui

import (
	"sync"
	"time"
)

// ProgressTracker holds build progress shared between the renderer and
// the bubbletea model. It is safe for concurrent use.
type ProgressTracker struct {
	mu          sync.RWMutex
	stage       Stage
	current     int
	total       int
	currentFile string
	startTime   time.Time
	skipped     []ErrorEvent
	warnings    []ErrorEvent
}

// ProgressStats is a snapshot of current progress.
type ProgressStats struct {
	Stage       Stage
	Current     int
	Total       int
	Progress    float64
	CurrentFile string
	SkipCount   int
	WarnCount   int
	Elapsed     time.Duration
}

// NewProgressTracker creates a tracker in the resolving stage.
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{
		stage:     StageResolving,
		startTime: time.Now(),
	}
}

// SetStage transitions to a new stage, resetting counters.
func (p *ProgressTracker) SetStage(stage Stage, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stage = stage
	p.total = total
	p.current = 0
	p.currentFile = ""
}

// Update records progress within the current stage.
func (p *ProgressTracker) Update(current int, file string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = current
	if p.total > 0 && p.current > p.total {
		p.current = p.total
	}
	p.currentFile = file
}

// AddError records a skipped file or warning.
func (p *ProgressTracker) AddError(event ErrorEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if event.IsWarn {
		p.warnings = append(p.warnings, event)
	} else {
		p.skipped = append(p.skipped, event)
	}
}

// Stats returns a snapshot of progress.
func (p *ProgressTracker) Stats() ProgressStats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var pct float64
	if p.total > 0 {
		pct = float64(p.current) / float64(p.total)
	}
	return ProgressStats{
		Stage:       p.stage,
		Current:     p.current,
		Total:       p.total,
		Progress:    pct,
		CurrentFile: p.currentFile,
		SkipCount:   len(p.skipped),
		WarnCount:   len(p.warnings),
		Elapsed:     time.Since(p.startTime),
	}
}

// Warnings returns a copy of the recorded warnings.
func (p *ProgressTracker) Warnings() []ErrorEvent {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]ErrorEvent(nil), p.warnings...)
}

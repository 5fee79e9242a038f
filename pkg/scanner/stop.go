package scanner

import "sync/atomic"

// StopSignal is the scan-wide stop flag plus the shared counters. One
// instance spans every range of an invocation and is never reset.
type StopSignal struct {
	stopped  atomic.Bool
	matches  atomic.Uint64
	progress atomic.Uint64
	excluded atomic.Uint64
}

// NewStopSignal creates an unset stop signal
func NewStopSignal() *StopSignal {
	return &StopSignal{}
}

// Set raises the flag. Safe to call concurrently and more than once.
func (s *StopSignal) Set() {
	s.stopped.Store(true)
}

// IsSet reports whether the flag has been raised
func (s *StopSignal) IsSet() bool {
	return s.stopped.Load()
}

func (s *StopSignal) AddMatch() uint64 {
	return s.matches.Add(1)
}

func (s *StopSignal) Matches() uint64 {
	return s.matches.Load()
}

// AddProgress counts one address as handled, probed or excluded
func (s *StopSignal) AddProgress() uint64 {
	return s.progress.Add(1)
}

func (s *StopSignal) Progress() uint64 {
	return s.progress.Load()
}

func (s *StopSignal) AddExcluded() uint64 {
	return s.excluded.Add(1)
}

func (s *StopSignal) Excluded() uint64 {
	return s.excluded.Load()
}

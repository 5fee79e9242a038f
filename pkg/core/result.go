// Package core provides result types for scan operations
package core

import (
	"fmt"
	"net/netip"
	"time"
)

// OutcomeKind tags the result of a single probe
type OutcomeKind int

const (
	OutcomeNoResponse OutcomeKind = iota
	OutcomeTimedOut
	OutcomeRefused
	OutcomePartialMatch // status matched, content did not
	OutcomeMatch
)

// String returns the outcome name used in reports and logs
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeTimedOut:
		return "timeout"
	case OutcomeRefused:
		return "refused"
	case OutcomePartialMatch:
		return "partial"
	case OutcomeMatch:
		return "match"
	default:
		return "no-response"
	}
}

// MarshalText lets the kind appear by name in JSON output
func (k OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name written by MarshalText
func (k *OutcomeKind) UnmarshalText(text []byte) error {
	for kind := OutcomeNoResponse; kind <= OutcomeMatch; kind++ {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown outcome kind %q", text)
}

// Outcome is the immutable verdict for one probed address
type Outcome struct {
	Kind     OutcomeKind   `json:"kind"`
	Addr     netip.Addr    `json:"ip"`
	Status   int           `json:"status,omitempty"`   // set for match and partial
	Evidence string        `json:"evidence,omitempty"` // text matched by the content pattern
	Elapsed  time.Duration `json:"elapsed"`
	Err      error         `json:"-"` // transport cause, diagnostic only
}

// IsMatch reports whether the outcome satisfied every match condition
func (o Outcome) IsMatch() bool {
	return o.Kind == OutcomeMatch
}

// RangeError records a range that was skipped because it did not parse
type RangeError struct {
	Range string `json:"range"`
	Error string `json:"error"`
}

// ScanResult represents the complete result of a scan operation
type ScanResult struct {
	Domain    string    `json:"domain"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	// Matches in completion order across all ranges
	Matches []Outcome `json:"matches"`

	SkippedRanges []RangeError `json:"skipped_ranges,omitempty"`

	Summary ScanSummary `json:"summary"`
}

// ScanSummary contains summary statistics
type ScanSummary struct {
	RangesTotal   int           `json:"ranges_total"`
	RangesScanned int           `json:"ranges_scanned"`
	TotalIPs      uint64        `json:"total_ips"`
	ScannedIPs    uint64        `json:"scanned_ips"`
	ExcludedIPs   uint64        `json:"excluded_ips,omitempty"`
	MatchCount    uint64        `json:"match_count"`
	Stopped       bool          `json:"stopped"` // ended early on a find or interrupt
	Duration      time.Duration `json:"duration"`
}

// NewScanResult creates a new scan result
func NewScanResult(domain string) *ScanResult {
	return &ScanResult{
		Domain:    domain,
		StartTime: time.Now(),
		Matches:   make([]Outcome, 0),
	}
}

// AddMatches appends matches from one range in the order they completed
func (sr *ScanResult) AddMatches(matches []Outcome) {
	sr.Matches = append(sr.Matches, matches...)
	sr.Summary.MatchCount = uint64(len(sr.Matches))
}

// SkipRange records a range that could not be scanned
func (sr *ScanResult) SkipRange(r string, err error) {
	sr.SkippedRanges = append(sr.SkippedRanges, RangeError{Range: r, Error: err.Error()})
}

// Finalize stamps the end time and duration
func (sr *ScanResult) Finalize() {
	sr.EndTime = time.Now()
	sr.Summary.Duration = sr.EndTime.Sub(sr.StartTime)
}

// MatchIPs returns the matched addresses as strings
func (sr *ScanResult) MatchIPs() []string {
	ips := make([]string, 0, len(sr.Matches))
	for _, m := range sr.Matches {
		ips = append(ips, m.Addr.String())
	}
	return ips
}

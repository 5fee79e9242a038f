// Package scanner drives probes over IPv4 ranges with bounded concurrency
// and a scan-wide stop signal.
package scanner

import (
	"context"
	"net/netip"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jhaxce/originprobe/pkg/core"
	"github.com/jhaxce/originprobe/pkg/ip"
)

// Options configures a scan
type Options struct {
	MaxConcurrent int
	StopOnFind    bool
	Rate          int // probes per second across the whole scan, 0 = unlimited
	Exclude       *ip.ExcludeSet
}

// Hooks lets the caller observe a scan as it runs. Every hook is optional.
// OnOutcome is called from probe goroutines and must be safe for
// concurrent use.
type Hooks struct {
	OnPlan    func(ranges []ip.IPRange, totalIPs uint64)
	OnRange   func(r ip.IPRange, index, count int)
	OnOutcome func(core.Outcome)
}

// Scanner runs ranges in order against a prober
type Scanner struct {
	prober  Prober
	opts    Options
	hooks   Hooks
	stop    *StopSignal
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// New creates a scanner. The stop signal lives as long as the scanner, so
// a match in one range suppresses every later range.
func New(prober Prober, opts Options, hooks Hooks, logger zerolog.Logger) *Scanner {
	s := &Scanner{
		prober: prober,
		opts:   opts,
		hooks:  hooks,
		stop:   NewStopSignal(),
		logger: logger,
	}

	if opts.Rate > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.Rate), 1)
	}

	return s
}

// Stop returns the scan-wide stop signal
func (s *Scanner) Stop() *StopSignal {
	return s.stop
}

// Scan probes every address of every range in input order. Ranges that do
// not parse are logged and skipped. With StopOnFind the scan ends after the
// first range that produced a match; cancelling ctx ends it after in-flight
// probes drain.
func (s *Scanner) Scan(ctx context.Context, domain string, ranges []string) *core.ScanResult {
	result := core.NewScanResult(domain)
	result.Summary.RangesTotal = len(ranges)

	parsed := make([]ip.IPRange, 0, len(ranges))
	var totalIPs uint64
	for _, r := range ranges {
		ipRange, err := ip.ParseCIDRRange(r)
		if err != nil {
			s.logger.Warn().Err(err).Str("range", r).Msg("skipping range")
			result.SkipRange(r, err)
			continue
		}
		parsed = append(parsed, *ipRange)
		totalIPs += ipRange.Count()
	}
	result.Summary.TotalIPs = totalIPs

	if s.hooks.OnPlan != nil {
		s.hooks.OnPlan(parsed, totalIPs)
	}

	for i, r := range parsed {
		if ctx.Err() != nil || s.stop.IsSet() {
			break
		}

		if s.hooks.OnRange != nil {
			s.hooks.OnRange(r, i, len(parsed))
		}
		s.logger.Debug().Str("range", r.String()).Uint64("ips", r.Count()).Msg("scanning range")

		matches := s.dispatcher().run(ctx, ip.NewIterator(r).All())
		result.AddMatches(matches)
		result.Summary.RangesScanned++

		if s.opts.StopOnFind && len(result.Matches) > 0 {
			break
		}
	}

	s.finish(ctx, result)
	return result
}

// ScanSingle probes one address without range expansion
func (s *Scanner) ScanSingle(ctx context.Context, domain string, addr netip.Addr) *core.ScanResult {
	result := core.NewScanResult(domain)
	result.Summary.TotalIPs = 1

	single := *ip.SingleRange(addr)
	if s.hooks.OnPlan != nil {
		s.hooks.OnPlan([]ip.IPRange{single}, 1)
	}

	matches := s.dispatcher().run(ctx, func(yield func(netip.Addr) bool) {
		yield(addr)
	})
	result.AddMatches(matches)

	s.finish(ctx, result)
	return result
}

func (s *Scanner) dispatcher() *dispatcher {
	return &dispatcher{
		prober:        s.prober,
		stop:          s.stop,
		maxConcurrent: s.opts.MaxConcurrent,
		stopOnFind:    s.opts.StopOnFind,
		limiter:       s.limiter,
		exclude:       s.opts.Exclude,
		onOutcome:     s.hooks.OnOutcome,
		logger:        s.logger,
	}
}

func (s *Scanner) finish(ctx context.Context, result *core.ScanResult) {
	excluded := s.stop.Excluded()
	result.Summary.ExcludedIPs = excluded
	result.Summary.ScannedIPs = s.stop.Progress() - excluded
	result.Summary.Stopped = s.stop.IsSet() || ctx.Err() != nil
	result.Finalize()
}

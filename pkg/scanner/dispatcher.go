package scanner

import (
	"context"
	"iter"
	"net/netip"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/jhaxce/originprobe/pkg/core"
	"github.com/jhaxce/originprobe/pkg/ip"
	"github.com/jhaxce/originprobe/pkg/probe"
)

// Prober runs a single probe. *probe.Prober satisfies it.
type Prober interface {
	Probe(ctx context.Context, addr netip.Addr, stop probe.Stopper) core.Outcome
}

// dispatcher runs probes for one address sequence with at most
// maxConcurrent in flight. Once the stop signal is set no new probe is
// admitted; outstanding probes are left to finish.
type dispatcher struct {
	prober        Prober
	stop          *StopSignal
	maxConcurrent int
	stopOnFind    bool
	limiter       *rate.Limiter
	exclude       *ip.ExcludeSet
	onOutcome     func(core.Outcome)
	logger        zerolog.Logger
}

// run returns the matches in the order they completed
func (d *dispatcher) run(ctx context.Context, addrs iter.Seq[netip.Addr]) []core.Outcome {
	var (
		mu      sync.Mutex
		matches []core.Outcome
		wg      sync.WaitGroup
	)

	sem := semaphore.NewWeighted(int64(max(d.maxConcurrent, 1)))

	for addr := range addrs {
		if d.stop.IsSet() {
			break
		}

		if d.exclude.Contains(addr) {
			d.stop.AddExcluded()
			d.stop.AddProgress()
			d.logger.Debug().Str("ip", addr.String()).Msg("excluded")
			continue
		}

		if d.limiter != nil {
			if err := d.limiter.Wait(ctx); err != nil {
				break
			}
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		// A probe that finished while we waited may have found a match
		if d.stop.IsSet() {
			sem.Release(1)
			break
		}

		wg.Add(1)
		go func(addr netip.Addr) {
			defer wg.Done()
			defer sem.Release(1)

			out := d.prober.Probe(ctx, addr, d.stop)
			d.stop.AddProgress()

			if out.IsMatch() {
				mu.Lock()
				matches = append(matches, out)
				mu.Unlock()

				d.stop.AddMatch()
				if d.stopOnFind {
					d.stop.Set()
				}
			}

			if d.onOutcome != nil {
				d.onOutcome(out)
			}
		}(addr)
	}

	wg.Wait()

	return matches
}

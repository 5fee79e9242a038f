// Package sysinfo probes host capacity once at startup and derives the
// default probe concurrency and timeout from it.
package sysinfo

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

const gib = 1 << 30

// Capability describes the host as seen at startup
type Capability struct {
	CPUs     int
	TotalRAM uint64 // bytes
}

// RAMGiB returns total memory in GiB
func (c Capability) RAMGiB() float64 {
	return float64(c.TotalRAM) / gib
}

// String renders the capability for the startup banner
func (c Capability) String() string {
	return fmt.Sprintf("%d CPU cores, %.1f GB RAM", c.CPUs, c.RAMGiB())
}

// Tuning is the concurrency/timeout pair fed to the scanner
type Tuning struct {
	Concurrency int
	Timeout     time.Duration
}

type probeDeps struct {
	countsWithContext func(context.Context, bool) (int, error)
	virtualMemory     func(context.Context) (*mem.VirtualMemoryStat, error)
}

type option func(*probeDeps)

// Detect reads the CPU count and total RAM. A failed CPU count falls back
// to runtime.NumCPU; failed memory detection reports zero, which selects the
// most conservative tier.
func Detect(ctx context.Context) Capability {
	return detect(ctx)
}

func detect(ctx context.Context, opts ...option) Capability {
	deps := probeDeps{
		countsWithContext: cpu.CountsWithContext,
		virtualMemory:     mem.VirtualMemoryWithContext,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	var c Capability

	if n, err := deps.countsWithContext(ctx, true); err == nil && n > 0 {
		c.CPUs = n
	} else {
		c.CPUs = runtime.NumCPU()
	}

	if vm, err := deps.virtualMemory(ctx); err == nil && vm != nil {
		c.TotalRAM = vm.Total
	}

	return c
}

// Recommend maps capability to tuning by RAM tier:
//
//	>= 16 GB  10000 concurrent, 300ms
//	>=  8 GB   5000 concurrent, 500ms
//	>=  4 GB   2000 concurrent, 500ms
//	else       1000 concurrent, 1000ms
//
// CPU count is informational only.
func Recommend(c Capability) Tuning {
	ram := c.RAMGiB()

	switch {
	case ram >= 16:
		return Tuning{Concurrency: 10000, Timeout: 300 * time.Millisecond}
	case ram >= 8:
		return Tuning{Concurrency: 5000, Timeout: 500 * time.Millisecond}
	case ram >= 4:
		return Tuning{Concurrency: 2000, Timeout: 500 * time.Millisecond}
	default:
		return Tuning{Concurrency: 1000, Timeout: 1000 * time.Millisecond}
	}
}

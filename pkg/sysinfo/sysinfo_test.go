package sysinfo

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/stretchr/testify/assert"
)

func withCounts(fn func(context.Context, bool) (int, error)) option {
	return func(d *probeDeps) {
		d.countsWithContext = fn
	}
}

func withMemory(fn func(context.Context) (*mem.VirtualMemoryStat, error)) option {
	return func(d *probeDeps) {
		d.virtualMemory = fn
	}
}

func TestRecommendTiers(t *testing.T) {
	tests := []struct {
		name string
		ram  uint64
		want Tuning
	}{
		{name: "32GB", ram: 32 * gib, want: Tuning{10000, 300 * time.Millisecond}},
		{name: "16GB", ram: 16 * gib, want: Tuning{10000, 300 * time.Millisecond}},
		{name: "just under 16GB", ram: 16*gib - 1, want: Tuning{5000, 500 * time.Millisecond}},
		{name: "8GB", ram: 8 * gib, want: Tuning{5000, 500 * time.Millisecond}},
		{name: "4GB", ram: 4 * gib, want: Tuning{2000, 500 * time.Millisecond}},
		{name: "2GB", ram: 2 * gib, want: Tuning{1000, time.Second}},
		{name: "unknown", ram: 0, want: Tuning{1000, time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recommend(Capability{CPUs: 4, TotalRAM: tt.ram})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecommendIgnoresCPU(t *testing.T) {
	a := Recommend(Capability{CPUs: 1, TotalRAM: 8 * gib})
	b := Recommend(Capability{CPUs: 64, TotalRAM: 8 * gib})
	assert.Equal(t, a, b)
}

func TestDetect(t *testing.T) {
	t.Parallel()

	c := detect(context.Background(),
		withCounts(func(context.Context, bool) (int, error) { return 8, nil }),
		withMemory(func(context.Context) (*mem.VirtualMemoryStat, error) {
			return &mem.VirtualMemoryStat{Total: 16 * gib}, nil
		}),
	)

	assert.Equal(t, 8, c.CPUs)
	assert.Equal(t, uint64(16*gib), c.TotalRAM)
	assert.Equal(t, "8 CPU cores, 16.0 GB RAM", c.String())
}

func TestDetectFallbacks(t *testing.T) {
	t.Parallel()

	c := detect(context.Background(),
		withCounts(func(context.Context, bool) (int, error) { return 0, errors.New("no cpuinfo") }),
		withMemory(func(context.Context) (*mem.VirtualMemoryStat, error) {
			return nil, errors.New("no meminfo")
		}),
	)

	assert.Equal(t, runtime.NumCPU(), c.CPUs)
	assert.Zero(t, c.TotalRAM)
	assert.Equal(t, Tuning{1000, time.Second}, Recommend(c))
}

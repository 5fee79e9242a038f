// Package ip provides IP range iteration utilities
package ip

import (
	"iter"
	"net/netip"
)

// Iterator walks one or more ranges in ascending order, range by range.
// It is not safe for concurrent use; the dispatcher pulls from it on a
// single goroutine.
type Iterator struct {
	ranges     []IPRange
	current    uint32
	rangeIndex int
	totalIPs   uint64
}

// NewIterator creates a new IP range iterator
func NewIterator(ranges ...IPRange) *Iterator {
	total := uint64(0)
	for _, r := range ranges {
		total += r.Count()
	}

	it := &Iterator{
		ranges:   ranges,
		totalIPs: total,
	}
	it.Reset()

	return it
}

// TotalIPs returns the total number of IPs in all ranges
func (it *Iterator) TotalIPs() uint64 {
	return it.totalIPs
}

// Next returns the next address and false once the sequence is exhausted
func (it *Iterator) Next() (netip.Addr, bool) {
	n, ok := it.NextUint32()
	if !ok {
		return netip.Addr{}, false
	}
	return FromUint32(n), true
}

// NextUint32 returns the next IP as uint32
// Returns 0 and false when iteration is complete
func (it *Iterator) NextUint32() (uint32, bool) {
	if it.rangeIndex >= len(it.ranges) {
		return 0, false
	}

	currentRange := &it.ranges[it.rangeIndex]
	ip := it.current

	// Compare before incrementing so 255.255.255.255 does not wrap
	if it.current < currentRange.End {
		it.current++
	} else {
		it.rangeIndex++
		if it.rangeIndex < len(it.ranges) {
			it.current = it.ranges[it.rangeIndex].Start
		}
	}

	return ip, true
}

// HasNext checks if there are more IPs to iterate
func (it *Iterator) HasNext() bool {
	return it.rangeIndex < len(it.ranges)
}

// Reset rewinds the iterator to the first address
func (it *Iterator) Reset() {
	it.rangeIndex = 0
	if len(it.ranges) > 0 {
		it.current = it.ranges[0].Start
	}
}

// All returns a fresh sequence over every address, independent of the
// iterator's own position.
func (it *Iterator) All() iter.Seq[netip.Addr] {
	return func(yield func(netip.Addr) bool) {
		walk := NewIterator(it.ranges...)
		for {
			addr, ok := walk.Next()
			if !ok || !yield(addr) {
				return
			}
		}
	}
}

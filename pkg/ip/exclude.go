package ip

import (
	"bufio"
	"fmt"
	"net/netip"
	"os"
	"strings"

	"go4.org/netipx"
)

// ExcludeSet holds addresses that must never be probed, typically the edge
// ranges of the CDN the target sits behind.
type ExcludeSet struct {
	set *netipx.IPSet
}

// NewExcludeSet builds a set from CIDRs or single addresses
func NewExcludeSet(entries []string) (*ExcludeSet, error) {
	var b netipx.IPSetBuilder

	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if isSkippable(entry) {
			continue
		}

		if strings.Contains(entry, "/") {
			r, err := ParseCIDRRange(entry)
			if err != nil {
				return nil, fmt.Errorf("exclude: %w", err)
			}
			b.AddRange(netipx.IPRangeFrom(FromUint32(r.Start), FromUint32(r.End)))
			continue
		}

		addr, err := ParseIP(entry)
		if err != nil {
			return nil, fmt.Errorf("exclude: %w", err)
		}
		b.Add(addr)
	}

	set, err := b.IPSet()
	if err != nil {
		return nil, fmt.Errorf("exclude: %w", err)
	}
	return &ExcludeSet{set: set}, nil
}

// LoadExcludeFile reads exclusion entries from a file using the same
// comment rules as range files. Unlike range files every entry must parse.
func LoadExcludeFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open exclude file: %w", err)
	}
	defer file.Close()

	var entries []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !isSkippable(line) {
			entries = append(entries, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading exclude file: %w", err)
	}
	return entries, nil
}

// Contains reports whether addr is excluded. A nil set excludes nothing.
func (s *ExcludeSet) Contains(addr netip.Addr) bool {
	if s == nil || s.set == nil {
		return false
	}
	return s.set.Contains(addr)
}

// Prefixes returns the minimal CIDR cover of the set
func (s *ExcludeSet) Prefixes() []netip.Prefix {
	if s == nil || s.set == nil {
		return nil
	}
	return s.set.Prefixes()
}

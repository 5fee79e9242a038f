// Package ip provides IP address parsing and CIDR range expansion
package ip

import (
	"fmt"
	"net/netip"
	"strings"

	"go4.org/netipx"

	"github.com/jhaxce/originprobe/pkg/core"
)

// ParseIP parses a single IPv4 address
func ParseIP(ipStr string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(strings.TrimSpace(ipStr))
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %q", core.ErrInvalidIP, ipStr)
	}
	addr = addr.Unmap()
	if !addr.Is4() {
		return netip.Addr{}, fmt.Errorf("%w: %q is not IPv4", core.ErrInvalidIP, ipStr)
	}
	return addr, nil
}

// ToUint32 converts an IPv4 address to uint32 for range operations
func ToUint32(addr netip.Addr) uint32 {
	b := addr.As4()
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// FromUint32 converts a uint32 back to an IPv4 address
func FromUint32(n uint32) netip.Addr {
	return netip.AddrFrom4([4]byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)})
}

// IPRange is an inclusive IPv4 range kept as uint32 values for cheap iteration
type IPRange struct {
	Start uint32
	End   uint32
	CIDR  string // source notation, for reporting
}

// ParseCIDRRange parses CIDR notation into the range covering the whole
// network, network and broadcast addresses included. Host bits in the
// address part are ignored, so 10.0.0.7/30 covers 10.0.0.4 - 10.0.0.7.
func ParseCIDRRange(cidr string) (*IPRange, error) {
	cidr = strings.TrimSpace(cidr)

	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", core.ErrInvalidCIDR, cidr, err)
	}
	if !prefix.Addr().Is4() {
		return nil, fmt.Errorf("%w: %q: only IPv4 CIDR is supported", core.ErrInvalidCIDR, cidr)
	}

	prefix = prefix.Masked()
	return &IPRange{
		Start: ToUint32(prefix.Addr()),
		End:   ToUint32(netipx.PrefixLastIP(prefix)),
		CIDR:  cidr,
	}, nil
}

// SingleRange returns the one-address range for addr
func SingleRange(addr netip.Addr) *IPRange {
	n := ToUint32(addr)
	return &IPRange{Start: n, End: n, CIDR: addr.String() + "/32"}
}

// Count returns the number of IPs in the range
func (r *IPRange) Count() uint64 {
	return uint64(r.End-r.Start) + 1
}

// Contains checks if an IP (as uint32) is within the range
func (r *IPRange) Contains(ip uint32) bool {
	return ip >= r.Start && ip <= r.End
}

// String returns the range in CIDR notation when known, start-end otherwise
func (r *IPRange) String() string {
	if r.CIDR != "" {
		return r.CIDR
	}
	return FromUint32(r.Start).String() + "-" + FromUint32(r.End).String()
}

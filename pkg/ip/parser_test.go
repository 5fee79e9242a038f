package ip

import (
	"errors"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhaxce/originprobe/pkg/core"
)

func TestToUint32(t *testing.T) {
	tests := []struct {
		name string
		ip   string
		want uint32
	}{
		{name: "Valid IPv4", ip: "192.168.1.1", want: 3232235777},
		{name: "Zero IP", ip: "0.0.0.0", want: 0},
		{name: "Max IP", ip: "255.255.255.255", want: 4294967295},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToUint32(netip.MustParseAddr(tt.ip))
			if got != tt.want {
				t.Errorf("ToUint32() = %v, want %v", got, tt.want)
			}
			if back := FromUint32(got).String(); back != tt.ip {
				t.Errorf("FromUint32() = %v, want %v", back, tt.ip)
			}
		})
	}
}

func TestParseIP(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "Valid", input: "10.0.0.1"},
		{name: "Surrounding space", input: " 10.0.0.1 "},
		{name: "IPv6", input: "::1", wantErr: true},
		{name: "Out of range octet", input: "999.0.0.1", wantErr: true},
		{name: "Garbage", input: "not-an-ip", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseIP(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrInvalidIP)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseCIDRRange(t *testing.T) {
	tests := []struct {
		name      string
		cidr      string
		wantStart string
		wantEnd   string
		wantCount uint64
		wantErr   bool
	}{
		{
			name:      "Slash 24 includes network and broadcast",
			cidr:      "192.168.1.0/24",
			wantStart: "192.168.1.0",
			wantEnd:   "192.168.1.255",
			wantCount: 256,
		},
		{
			name:      "Slash 30",
			cidr:      "10.0.0.0/30",
			wantStart: "10.0.0.0",
			wantEnd:   "10.0.0.3",
			wantCount: 4,
		},
		{
			name:      "Slash 32",
			cidr:      "10.0.0.5/32",
			wantStart: "10.0.0.5",
			wantEnd:   "10.0.0.5",
			wantCount: 1,
		},
		{
			name:      "Host bits are masked",
			cidr:      "10.0.0.7/30",
			wantStart: "10.0.0.4",
			wantEnd:   "10.0.0.7",
			wantCount: 4,
		},
		{
			name:      "Whole space",
			cidr:      "0.0.0.0/0",
			wantStart: "0.0.0.0",
			wantEnd:   "255.255.255.255",
			wantCount: 1 << 32,
		},
		{name: "Octet out of range", cidr: "999.0.0.0/8", wantErr: true},
		{name: "Missing prefix", cidr: "10.0.0.0", wantErr: true},
		{name: "Prefix too long", cidr: "10.0.0.0/33", wantErr: true},
		{name: "IPv6", cidr: "2001:db8::/32", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseCIDRRange(tt.cidr)
			if tt.wantErr {
				assert.True(t, errors.Is(err, core.ErrInvalidCIDR), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, FromUint32(r.Start).String())
			assert.Equal(t, tt.wantEnd, FromUint32(r.End).String())
			assert.Equal(t, tt.wantCount, r.Count())
			assert.Equal(t, tt.cidr, r.String())
		})
	}
}

func TestSingleRange(t *testing.T) {
	r := SingleRange(netip.MustParseAddr("203.0.113.9"))
	assert.Equal(t, uint64(1), r.Count())
	assert.Equal(t, "203.0.113.9/32", r.String())
	assert.True(t, r.Contains(ToUint32(netip.MustParseAddr("203.0.113.9"))))
	assert.False(t, r.Contains(ToUint32(netip.MustParseAddr("203.0.113.10"))))
}

func TestIPRangeStringWithoutCIDR(t *testing.T) {
	r := &IPRange{
		Start: ToUint32(netip.MustParseAddr("10.0.0.1")),
		End:   ToUint32(netip.MustParseAddr("10.0.0.9")),
	}
	assert.Equal(t, "10.0.0.1-10.0.0.9", r.String())
}

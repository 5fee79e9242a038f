package ip

import (
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhaxce/originprobe/pkg/core"
)

func TestExcludeSet(t *testing.T) {
	set, err := NewExcludeSet([]string{"104.16.0.0/13", "10.0.0.2", "# comment", ""})
	require.NoError(t, err)

	tests := []struct {
		addr string
		want bool
	}{
		{"104.16.0.1", true},
		{"104.23.255.255", true},
		{"104.24.0.0", false},
		{"10.0.0.2", true},
		{"10.0.0.3", false},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.want, set.Contains(netip.MustParseAddr(tt.addr)))
		})
	}

	assert.Len(t, set.Prefixes(), 2)
}

func TestExcludeSetInvalid(t *testing.T) {
	_, err := NewExcludeSet([]string{"10.0.0.0/99"})
	assert.ErrorIs(t, err, core.ErrInvalidCIDR)

	_, err = NewExcludeSet([]string{"10.0.0"})
	assert.ErrorIs(t, err, core.ErrInvalidIP)
}

func TestNilExcludeSet(t *testing.T) {
	var set *ExcludeSet
	assert.False(t, set.Contains(netip.MustParseAddr("10.0.0.1")))
	assert.Nil(t, set.Prefixes())
}

func TestLoadExcludeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclude.txt")
	require.NoError(t, os.WriteFile(path, []byte("# cdn\n104.16.0.0/13\n\n// single\n1.1.1.1\n"), 0644))

	entries, err := LoadExcludeFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"104.16.0.0/13", "1.1.1.1"}, entries)
}

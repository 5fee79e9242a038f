package waf

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderRangesAreValidIPv4(t *testing.T) {
	for _, p := range providers {
		for _, cidr := range p.Ranges {
			prefix, err := netip.ParsePrefix(cidr)
			require.NoError(t, err, "%s: %s", p.ID, cidr)
			assert.True(t, prefix.Addr().Is4(), "%s: %s", p.ID, cidr)
			assert.Equal(t, prefix.Masked(), prefix, "%s: %s has host bits", p.ID, cidr)
		}
	}
}

func TestGetProvider(t *testing.T) {
	assert.Equal(t, "cloudflare", GetProvider("Cloudflare").ID)
	assert.Equal(t, "fastly", GetProvider(" fastly ").ID)
	assert.Nil(t, GetProvider("akamai-unknown"))
	assert.Equal(t, []string{"cloudflare", "fastly"}, ListProviders())
}

func TestRanges(t *testing.T) {
	cf, err := Ranges([]string{"cloudflare"})
	require.NoError(t, err)
	assert.Contains(t, cf, "104.16.0.0/13")
	assert.NotContains(t, cf, "151.101.0.0/16")

	all, err := Ranges([]string{"all"})
	require.NoError(t, err)
	assert.Len(t, all, len(providers[0].Ranges)+len(providers[1].Ranges))

	_, err = Ranges([]string{"nope"})
	assert.Error(t, err)

	none, err := Ranges(nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

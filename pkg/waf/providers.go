// Package waf holds the published edge ranges of common CDN/WAF providers.
// Edge addresses answer for any Host header, so they are excluded from
// origin scans on request.
package waf

import (
	"fmt"
	"slices"
	"strings"
)

// Provider represents a WAF/CDN provider with their IP ranges
type Provider struct {
	Name   string
	ID     string
	Ranges []string // IPv4 CIDR notation
}

// Published IPv4 edge ranges
var providers = []Provider{
	{
		Name: "Cloudflare",
		ID:   "cloudflare",
		Ranges: []string{
			"173.245.48.0/20", "103.21.244.0/22", "103.22.200.0/22", "103.31.4.0/22",
			"141.101.64.0/18", "108.162.192.0/18", "190.93.240.0/20", "188.114.96.0/20",
			"197.234.240.0/22", "198.41.128.0/17", "162.158.0.0/15", "104.16.0.0/13",
			"104.24.0.0/14", "172.64.0.0/13", "131.0.72.0/22",
		},
	},
	{
		Name: "Fastly",
		ID:   "fastly",
		Ranges: []string{
			"23.235.32.0/20", "43.249.72.0/22", "103.244.50.0/24", "103.245.222.0/23",
			"103.245.224.0/24", "104.156.80.0/20", "140.248.64.0/18", "140.248.128.0/17",
			"146.75.0.0/17", "151.101.0.0/16", "157.52.64.0/18", "167.82.0.0/17",
			"167.82.128.0/20", "167.82.160.0/20", "167.82.224.0/20", "172.111.64.0/18",
			"185.31.16.0/22", "199.27.72.0/21", "199.232.0.0/16",
		},
	},
}

// GetProvider returns a provider by ID or name (case-insensitive)
func GetProvider(name string) *Provider {
	name = strings.ToLower(strings.TrimSpace(name))
	for i := range providers {
		if providers[i].ID == name || strings.ToLower(providers[i].Name) == name {
			return &providers[i]
		}
	}
	return nil
}

// ListProviders returns a list of all provider IDs
func ListProviders() []string {
	ids := make([]string, 0, len(providers))
	for _, p := range providers {
		ids = append(ids, p.ID)
	}
	slices.Sort(ids)
	return ids
}

// Ranges returns the combined ranges of the named providers. "all" selects
// every provider.
func Ranges(names []string) ([]string, error) {
	var ranges []string
	for _, name := range names {
		if strings.EqualFold(strings.TrimSpace(name), "all") {
			ranges = ranges[:0]
			for _, p := range providers {
				ranges = append(ranges, p.Ranges...)
			}
			return ranges, nil
		}

		p := GetProvider(name)
		if p == nil {
			return nil, fmt.Errorf("unknown provider %q (known: %s)", name, strings.Join(ListProviders(), ", "))
		}
		ranges = append(ranges, p.Ranges...)
	}
	return ranges, nil
}

package probe

import (
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/jhaxce/originprobe/internal/version"
)

// Browser User-Agent presets selectable by name with --user-agent
var userAgentPresets = map[string]string{
	"chrome-windows":  "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"chrome-mac":      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"chrome-linux":    "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"chrome-android":  "Mozilla/5.0 (Linux; Android 14) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.6778.135 Mobile Safari/537.36",
	"firefox-windows": "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:133.0) Gecko/20100101 Firefox/133.0",
	"firefox-mac":     "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:133.0) Gecko/20100101 Firefox/133.0",
	"firefox-linux":   "Mozilla/5.0 (X11; Linux x86_64; rv:133.0) Gecko/20100101 Firefox/133.0",
	"safari-mac":      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.2 Safari/605.1.15",
	"safari-ios":      "Mozilla/5.0 (iPhone; CPU iPhone OS 18_2 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.2 Mobile/15E148 Safari/604.1",
	"edge-windows":    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36 Edg/131.0.0.0",
	"edge-mac":        "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36 Edg/131.0.0.0",
}

// Browser families map to the presets whose name starts with the family
var browserFamilies = []string{"chrome", "firefox", "safari", "edge"}

// ResolveUserAgent turns the --user-agent value into the header value.
// Empty or "default" yields the tool's own agent, "random" picks any preset,
// a family name ("chrome") picks one of its presets, a preset name picks
// that preset, and anything else is sent verbatim.
//
// Resolution happens once per scan so every probe sends identical bytes.
func ResolveUserAgent(value string) string {
	key := strings.ToLower(strings.TrimSpace(value))

	switch {
	case key == "" || key == "default":
		return version.UserAgent()
	case key == "random":
		return pick(presetNames(""))
	case slices.Contains(browserFamilies, key):
		return pick(presetNames(key + "-"))
	}

	if ua, ok := userAgentPresets[key]; ok {
		return ua
	}
	return value
}

// PresetNames lists the selectable preset names in sorted order
func PresetNames() []string {
	return presetNames("")
}

func presetNames(prefix string) []string {
	var names []string
	for name := range userAgentPresets {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

func pick(names []string) string {
	return userAgentPresets[names[rand.IntN(len(names))]]
}

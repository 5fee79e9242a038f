package probe

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// Dialer opens the TCP connection for a probe
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// NewDialer returns a direct dialer, or a SOCKS5 dialer when proxyURL is
// set. Accepted forms: socks5://[user:pass@]host[:port] and socks5h://...
// The default SOCKS port is 1080.
func NewDialer(proxyURL string, timeout time.Duration) (Dialer, error) {
	direct := &net.Dialer{Timeout: timeout}
	if proxyURL == "" {
		return direct, nil
	}

	if !strings.Contains(proxyURL, "://") {
		proxyURL = "socks5://" + proxyURL
	}

	u, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL: %w", err)
	}

	switch u.Scheme {
	case "socks5", "socks5h":
	default:
		return nil, fmt.Errorf("unsupported proxy scheme %q: only socks5 is supported", u.Scheme)
	}

	if u.Port() == "" {
		u.Host = net.JoinHostPort(u.Hostname(), "1080")
	}

	d, err := proxy.FromURL(u, direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	cd, ok := d.(proxy.ContextDialer)
	if !ok {
		return nil, fmt.Errorf("SOCKS5 dialer does not support contexts")
	}
	return cd, nil
}

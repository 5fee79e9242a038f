// Package probe performs single connect/send/read/classify cycles against
// candidate origin addresses.
package probe

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jhaxce/originprobe/pkg/core"
)

// Read buffer sizes. Status-line-only probes need far less data.
const (
	smallBufferSize = 512
	largeBufferSize = 8192
)

// Config is the immutable per-scan probe configuration shared by every
// probe. The request bytes are built once so every probe sends identical
// bytes.
type Config struct {
	Domain     string
	Port       int
	Method     string
	StatusCode int
	Pattern    *regexp.Regexp
	Request    []byte
	Timeout    time.Duration
	BufferSize int
	UserAgent  string

	statusNeedle string
	buffers      sync.Pool
}

// NewConfig validates the request-related fields of cfg and builds the
// probe configuration. cfg.Timeout must already be resolved.
func NewConfig(cfg *core.Config) (*Config, error) {
	if cfg == nil {
		return nil, core.ErrInvalidConfig
	}

	method := strings.ToUpper(strings.TrimSpace(cfg.HTTPMethod))
	if method == "" {
		method = core.MethodHEAD
	}
	switch method {
	case core.MethodHEAD, core.MethodGET, core.MethodPOST:
	default:
		return nil, fmt.Errorf("%w: %q (expected HEAD, GET or POST)", core.ErrInvalidMethod, cfg.HTTPMethod)
	}

	for _, h := range cfg.Headers {
		if !strings.Contains(h, ":") {
			return nil, fmt.Errorf("%w: %q (expected 'Header: Value')", core.ErrInvalidHeader, h)
		}
		if strings.ContainsAny(h, "\r\n") {
			return nil, fmt.Errorf("%w: %q contains a line break", core.ErrInvalidHeader, h)
		}
	}

	var pattern *regexp.Regexp
	if cfg.ContentMatch != "" {
		var err error
		pattern, err = regexp.Compile(cfg.ContentMatch)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrInvalidPattern, err)
		}
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("%w: timeout must be positive", core.ErrInvalidConfig)
	}

	port := cfg.Port
	if port == 0 {
		port = 80
	}

	ua := ResolveUserAgent(cfg.UserAgent)

	c := &Config{
		Domain:       cfg.Domain,
		Port:         port,
		Method:       method,
		StatusCode:   cfg.StatusCode,
		Pattern:      pattern,
		Timeout:      cfg.Timeout,
		UserAgent:    ua,
		statusNeedle: " " + strconv.Itoa(cfg.StatusCode) + " ",
	}
	c.Request = BuildRequest(method, cfg.Domain, cfg.Headers, ua, cfg.PostBody)

	c.BufferSize = smallBufferSize
	if pattern != nil || method == core.MethodGET {
		c.BufferSize = largeBufferSize
	}
	size := c.BufferSize
	c.buffers.New = func() any {
		b := make([]byte, size)
		return &b
	}

	return c, nil
}

// BuildRequest renders the raw HTTP/1.1 request sent by every probe.
// Headers must already be validated. The body is only sent for POST.
func BuildRequest(method, domain string, headers []string, userAgent, body string) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "%s / HTTP/1.1\r\nHost: %s\r\n", method, domain)
	if method == core.MethodPOST {
		fmt.Fprintf(&b, "Content-Length: %d\r\n", len(body))
	}
	for _, h := range headers {
		b.WriteString(h)
		b.WriteString("\r\n")
	}
	b.WriteString("Connection: close\r\n")
	fmt.Fprintf(&b, "User-Agent: %s\r\n", userAgent)
	b.WriteString("\r\n")
	if method == core.MethodPOST {
		b.WriteString(body)
	}

	return b.Bytes()
}

// StatusMatches reports whether text contains the configured status code
// surrounded by single spaces, as in "HTTP/1.1 202 Accepted". The same
// digits elsewhere in the headers also match.
func (c *Config) StatusMatches(text string) bool {
	return strings.Contains(text, c.statusNeedle)
}

// ContentMatches reports whether the pattern matches anywhere in text.
// Without a pattern every response matches.
func (c *Config) ContentMatches(text string) bool {
	return c.Pattern == nil || c.Pattern.MatchString(text)
}

func (c *Config) getBuffer() *[]byte {
	return c.buffers.Get().(*[]byte)
}

func (c *Config) putBuffer(b *[]byte) {
	c.buffers.Put(b)
}

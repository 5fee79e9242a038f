// Package ip provides host name validation utilities
package ip

import (
	"fmt"
	"strings"
)

// ValidateDomain checks that a host name is safe to place in a Host header.
// An optional :port suffix is allowed.
func ValidateDomain(domain string) error {
	if domain == "" {
		return fmt.Errorf("domain is empty")
	}

	if strings.ContainsAny(domain, " \t\r\n/") {
		return fmt.Errorf("domain contains invalid characters")
	}

	host := domain
	if i := strings.LastIndexByte(domain, ':'); i >= 0 {
		host = domain[:i]
	}

	if strings.HasPrefix(host, "-") || strings.HasSuffix(host, "-") {
		return fmt.Errorf("domain cannot start or end with hyphen")
	}

	if strings.HasPrefix(host, ".") || strings.HasSuffix(host, ".") {
		return fmt.Errorf("domain cannot start or end with dot")
	}

	if len(host) > 253 {
		return fmt.Errorf("domain exceeds maximum length (253)")
	}

	return nil
}

// SanitizeDomain strips a URL scheme and trailing slash from domain input.
// The www. prefix is kept: the Host header must name the exact vhost.
func SanitizeDomain(domain string) string {
	domain = strings.TrimSpace(domain)
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimSuffix(domain, "/")
	return strings.ToLower(domain)
}

// Package core provides core types and error definitions
package core

import "errors"

// Configuration errors. Any of these is fatal and is reported before the
// first probe is sent.
var (
	// ErrNoDomain is returned when no target host name is specified
	ErrNoDomain = errors.New("domain is required")

	// ErrNoRanges is returned when no range source is specified
	ErrNoRanges = errors.New("no IP ranges specified")

	// ErrConflictingSources is returned when more than one range source is given
	ErrConflictingSources = errors.New("only one of --ranges, --ip-file or --single-ip may be used")

	// ErrInvalidMethod is returned for HTTP methods other than HEAD, GET and POST
	ErrInvalidMethod = errors.New("unsupported HTTP method")

	// ErrInvalidHeader is returned when a custom header has no colon separator
	ErrInvalidHeader = errors.New("invalid header format")

	// ErrInvalidPattern is returned when the content-match regex does not compile
	ErrInvalidPattern = errors.New("invalid regex pattern")

	// ErrInvalidCIDR is returned when CIDR notation is invalid
	ErrInvalidCIDR = errors.New("invalid CIDR notation")

	// ErrInvalidIP is returned when IP address is invalid
	ErrInvalidIP = errors.New("invalid IP address")

	// ErrEmptyRangeFile is returned when a range file holds no valid CIDR
	ErrEmptyRangeFile = errors.New("no valid IP ranges found")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Package core provides core types and configuration for originprobe
package core

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported HTTP methods
const (
	MethodHEAD = "HEAD"
	MethodGET  = "GET"
	MethodPOST = "POST"
)

// Config holds all configuration for originprobe
type Config struct {
	// Target configuration
	Domain string `yaml:"domain" json:"domain"`
	Port   int    `yaml:"port" json:"port"`

	// Range sources (exactly one is used)
	Ranges    []string `yaml:"ranges" json:"ranges"`
	RangeFile string   `yaml:"ip_file" json:"ip_file"`
	SingleIP  string   `yaml:"single_ip" json:"single_ip"`

	// Addresses never probed
	Exclude     []string `yaml:"exclude" json:"exclude"`
	ExcludeFile string   `yaml:"exclude_file" json:"exclude_file"`
	ExcludeCDN  []string `yaml:"exclude_cdn" json:"exclude_cdn"` // provider IDs, or "all"

	// HTTP configuration
	HTTPMethod   string   `yaml:"method" json:"method"`
	StatusCode   int      `yaml:"status_code" json:"status_code"`
	ContentMatch string   `yaml:"content_match" json:"content_match"`
	PostBody     string   `yaml:"post_body" json:"post_body"`
	Headers      []string `yaml:"headers" json:"headers"`
	UserAgent    string   `yaml:"user_agent" json:"user_agent"`
	Proxy        string   `yaml:"proxy" json:"proxy"` // socks5://host:port

	// Performance. Zero Timeout or Workers means auto-detect.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
	Workers int           `yaml:"workers" json:"workers"`
	Rate    int           `yaml:"rate" json:"rate"` // probes per second, 0 = unlimited

	StopOnFind bool `yaml:"stop_on_find" json:"stop_on_find"`

	// Output configuration
	OutputFile string       `yaml:"output_file" json:"output_file"`
	Format     OutputFormat `yaml:"format" json:"format"`
	Quiet      bool         `yaml:"quiet" json:"quiet"`
	Verbose    bool         `yaml:"verbose" json:"verbose"`
	NoColor    bool         `yaml:"no_color" json:"no_color"`
	NoProgress bool         `yaml:"no_progress" json:"no_progress"`
	LogFile    string       `yaml:"log_file" json:"log_file"`
}

// OutputFormat represents the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Port:       80,
		HTTPMethod: MethodHEAD,
		StatusCode: 202,
		StopOnFind: true,
		Format:     FormatText,
	}
}

// Validate checks the parts of the configuration that do not need
// compiling. Method, header and pattern syntax are checked when the probe
// configuration is built.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Domain) == "" {
		return ErrNoDomain
	}

	sources := 0
	if len(c.Ranges) > 0 {
		sources++
	}
	if c.RangeFile != "" {
		sources++
	}
	if c.SingleIP != "" {
		sources++
	}
	if sources == 0 {
		return ErrNoRanges
	}
	if sources > 1 {
		return ErrConflictingSources
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	if c.StatusCode < 100 || c.StatusCode > 999 {
		return fmt.Errorf("%w: status code %d out of range", ErrInvalidConfig, c.StatusCode)
	}
	if c.Workers < 0 || c.Timeout < 0 || c.Rate < 0 {
		return fmt.Errorf("%w: workers, timeout and rate must not be negative", ErrInvalidConfig)
	}

	switch c.Format {
	case FormatText, FormatJSON:
	case "":
		c.Format = FormatText
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// MergeWithCLI copies every value the user set on the command line over the
// file configuration. changed reports whether a flag was given explicitly.
func (c *Config) MergeWithCLI(cli *Config, changed func(flag string) bool) {
	if cli.Domain != "" {
		c.Domain = cli.Domain
	}
	if changed("port") {
		c.Port = cli.Port
	}
	if changed("ranges") {
		c.Ranges = cli.Ranges
	}
	if changed("ip-file") {
		c.RangeFile = cli.RangeFile
	}
	if changed("single-ip") {
		c.SingleIP = cli.SingleIP
	}
	if changed("exclude") {
		c.Exclude = cli.Exclude
	}
	if changed("exclude-file") {
		c.ExcludeFile = cli.ExcludeFile
	}
	if changed("exclude-cdn") {
		c.ExcludeCDN = cli.ExcludeCDN
	}
	if changed("method") {
		c.HTTPMethod = cli.HTTPMethod
	}
	if changed("status-code") {
		c.StatusCode = cli.StatusCode
	}
	if changed("content-match") {
		c.ContentMatch = cli.ContentMatch
	}
	if changed("post-body") {
		c.PostBody = cli.PostBody
	}
	if changed("header") {
		c.Headers = cli.Headers
	}
	if changed("user-agent") {
		c.UserAgent = cli.UserAgent
	}
	if changed("proxy") {
		c.Proxy = cli.Proxy
	}
	if changed("timeout") {
		c.Timeout = cli.Timeout
	}
	if changed("workers") {
		c.Workers = cli.Workers
	}
	if changed("rate") {
		c.Rate = cli.Rate
	}
	if changed("stop-on-find") {
		c.StopOnFind = cli.StopOnFind
	}
	if changed("output") {
		c.OutputFile = cli.OutputFile
	}
	if changed("format") {
		c.Format = cli.Format
	}
	if changed("log-file") {
		c.LogFile = cli.LogFile
	}
	// Switches only ever turn on from the command line
	c.Quiet = c.Quiet || cli.Quiet
	c.Verbose = c.Verbose || cli.Verbose
	c.NoColor = c.NoColor || cli.NoColor
	c.NoProgress = c.NoProgress || cli.NoProgress
}

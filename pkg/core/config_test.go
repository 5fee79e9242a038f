package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, 80, c.Port)
	assert.Equal(t, MethodHEAD, c.HTTPMethod)
	assert.Equal(t, 202, c.StatusCode)
	assert.True(t, c.StopOnFind)
	assert.Zero(t, c.Timeout, "timeout is auto-detected when unset")
	assert.Zero(t, c.Workers, "workers are auto-detected when unset")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:   "ranges",
			mutate: func(c *Config) { c.Ranges = []string{"10.0.0.0/24"} },
		},
		{
			name:   "range file",
			mutate: func(c *Config) { c.RangeFile = "ips.txt" },
		},
		{
			name:   "single ip",
			mutate: func(c *Config) { c.SingleIP = "10.0.0.1" },
		},
		{
			name:    "no domain",
			mutate:  func(c *Config) { c.Domain = ""; c.Ranges = []string{"10.0.0.0/24"} },
			wantErr: ErrNoDomain,
		},
		{
			name:    "no source",
			mutate:  func(c *Config) {},
			wantErr: ErrNoRanges,
		},
		{
			name: "two sources",
			mutate: func(c *Config) {
				c.Ranges = []string{"10.0.0.0/24"}
				c.SingleIP = "10.0.0.1"
			},
			wantErr: ErrConflictingSources,
		},
		{
			name: "bad port",
			mutate: func(c *Config) {
				c.Ranges = []string{"10.0.0.0/24"}
				c.Port = 70000
			},
			wantErr: ErrInvalidConfig,
		},
		{
			name: "bad format",
			mutate: func(c *Config) {
				c.Ranges = []string{"10.0.0.0/24"}
				c.Format = "xml"
			},
			wantErr: ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			c.Domain = "example.com"
			tt.mutate(c)

			err := c.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "originprobe.yaml")
	content := `domain: example.com
method: GET
status_code: 200
timeout: 750ms
workers: 64
ranges:
  - 10.0.0.0/24
  - 10.0.1.0/24
headers:
  - "X-Forwarded-For: 127.0.0.1"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	c, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "example.com", c.Domain)
	assert.Equal(t, MethodGET, c.HTTPMethod)
	assert.Equal(t, 200, c.StatusCode)
	assert.Equal(t, 750*time.Millisecond, c.Timeout)
	assert.Equal(t, 64, c.Workers)
	assert.Equal(t, []string{"10.0.0.0/24", "10.0.1.0/24"}, c.Ranges)
	assert.Len(t, c.Headers, 1)
	// Defaults survive for keys the file leaves out
	assert.Equal(t, 80, c.Port)
	assert.True(t, c.StopOnFind)
}

func TestLoadFromFile_Errors(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/originprobe.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: [1, 2"), 0644))
	_, err = LoadFromFile(path)
	assert.Error(t, err)
}

func TestMergeWithCLI(t *testing.T) {
	file := DefaultConfig()
	file.Domain = "file.example"
	file.Workers = 100
	file.HTTPMethod = MethodGET
	file.Ranges = []string{"10.0.0.0/24"}

	cli := DefaultConfig()
	cli.Domain = "cli.example"
	cli.Workers = 5
	cli.HTTPMethod = MethodHEAD // default value, flag not given
	cli.Verbose = true

	changed := map[string]bool{"workers": true}
	file.MergeWithCLI(cli, func(name string) bool { return changed[name] })

	assert.Equal(t, "cli.example", file.Domain)
	assert.Equal(t, 5, file.Workers)
	assert.Equal(t, MethodGET, file.HTTPMethod, "unchanged flags keep the file value")
	assert.Equal(t, []string{"10.0.0.0/24"}, file.Ranges)
	assert.True(t, file.Verbose)
}

func TestOutcomeKind_String(t *testing.T) {
	assert.Equal(t, "match", OutcomeMatch.String())
	assert.Equal(t, "partial", OutcomePartialMatch.String())
	assert.Equal(t, "timeout", OutcomeTimedOut.String())
	assert.Equal(t, "refused", OutcomeRefused.String())
	assert.Equal(t, "no-response", OutcomeNoResponse.String())
}

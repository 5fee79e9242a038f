// Package output provides result formatting functionality
package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jhaxce/originprobe/internal/colors"
	"github.com/jhaxce/originprobe/pkg/core"
	"github.com/jhaxce/originprobe/pkg/ip"
)

const rule = "═══════════════════════════════════════════════════════════════"

// Header describes the scan for the startup banner
type Header struct {
	Domain       string
	Port         int
	Method       string
	StatusCode   int
	ContentMatch string
	Workers      int
	Timeout      time.Duration
	Rate         int
	StopOnFind   bool
	Capability   string // auto-detected host capacity, empty when tuning was explicit
	Proxy        string
	Excluded     int // number of exclusion prefixes
}

// Formatter renders findings and summaries as text or JSON
type Formatter struct {
	format core.OutputFormat
}

// NewFormatter creates a new result formatter
func NewFormatter(format core.OutputFormat) *Formatter {
	if format == "" {
		format = core.FormatText
	}
	return &Formatter{format: format}
}

// Format returns the output format
func (f *Formatter) Format() core.OutputFormat {
	return f.format
}

// FormatHeader formats the scan banner. JSON output has no banner.
func (f *Formatter) FormatHeader(h Header) string {
	if f.format != core.FormatText {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(colors.Cyan(rule) + "\n")
	sb.WriteString(colors.Bold("Origin Discovery") + "\n")
	sb.WriteString(colors.Cyan(rule) + "\n")

	fmt.Fprintf(&sb, "%s Target: %s (port %d)\n", colors.Bold("[*]"), colors.Green(h.Domain), h.Port)
	fmt.Fprintf(&sb, "%s Match: %s / status %d", colors.Bold("[*]"), h.Method, h.StatusCode)
	if h.ContentMatch != "" {
		fmt.Fprintf(&sb, " / content %q", h.ContentMatch)
	}
	sb.WriteString("\n")

	if h.Capability != "" {
		fmt.Fprintf(&sb, "%s System: %s\n", colors.Blue("[i]"), h.Capability)
	}
	fmt.Fprintf(&sb, "%s Workers: %s | Timeout: %s", colors.Bold("[*]"), colors.Magenta(h.Workers), colors.Magenta(h.Timeout))
	if h.Rate > 0 {
		fmt.Fprintf(&sb, " | Rate: %s/s", colors.Magenta(h.Rate))
	}
	sb.WriteString("\n")

	if h.Proxy != "" {
		fmt.Fprintf(&sb, "%s Proxy: %s\n", colors.Bold("[*]"), h.Proxy)
	}
	if h.Excluded > 0 {
		fmt.Fprintf(&sb, "%s Excluding %d prefixes\n", colors.Yellow("[S]"), h.Excluded)
	}
	if h.StopOnFind {
		fmt.Fprintf(&sb, "%s Stopping at the first match\n", colors.Bold("[*]"))
	}
	sb.WriteString(colors.Cyan(rule) + "\n")

	return sb.String()
}

// FormatRange formats the line announcing a range
func (f *Formatter) FormatRange(r ip.IPRange, index, count int) string {
	if f.format != core.FormatText {
		return ""
	}
	return fmt.Sprintf("%s Scanning range %d/%d: %s (%d IPs)",
		colors.Cyan("[>]"), index+1, count, colors.Bold(r.String()), r.Count())
}

// FormatMatch formats a single finding
func (f *Formatter) FormatMatch(o core.Outcome) string {
	if f.format == core.FormatJSON {
		data, _ := json.Marshal(o)
		return string(data)
	}

	msg := fmt.Sprintf("%s FOUND: %s (Status: %d", colors.Green("[+]"), colors.Bold(o.Addr.String()), o.Status)
	if o.Evidence != "" {
		msg += fmt.Sprintf(", Content matched: %s", colors.Cyan(fmt.Sprintf("%q", o.Evidence)))
	}
	msg += ")"
	if o.Elapsed > 0 {
		msg += fmt.Sprintf(" [%s]", o.Elapsed.Round(time.Millisecond))
	}
	return msg
}

// FormatResult formats the complete scan result
func (f *Formatter) FormatResult(result *core.ScanResult) string {
	if f.format == core.FormatJSON {
		data, _ := json.MarshalIndent(result, "", "  ")
		return string(data) + "\n"
	}
	return f.formatTextSummary(result)
}

// formatTextSummary formats summary in text format
func (f *Formatter) formatTextSummary(result *core.ScanResult) string {
	summary := result.Summary

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(colors.Cyan(rule) + "\n")
	sb.WriteString(colors.Bold("Scan Results Summary") + "\n")
	sb.WriteString(colors.Cyan(rule) + "\n")

	if len(result.Matches) > 0 {
		fmt.Fprintf(&sb, "%s Origin candidates: %s\n", colors.Green("[+]"), colors.Green(len(result.Matches)))
		for _, m := range result.Matches {
			fmt.Fprintf(&sb, "    %s\n", colors.Green(m.Addr.String()))
		}
	} else {
		fmt.Fprintf(&sb, "%s No origin found\n", colors.Red("[-]"))
	}

	fmt.Fprintf(&sb, "%s Ranges: %d/%d scanned\n", colors.Bold("[*]"), summary.RangesScanned, summary.RangesTotal)
	for _, s := range result.SkippedRanges {
		fmt.Fprintf(&sb, "%s Skipped range %s: %s\n", colors.Yellow("[!]"), s.Range, s.Error)
	}
	fmt.Fprintf(&sb, "%s Total Scanned: %s\n", colors.Bold("[*]"), colors.Bold(summary.ScannedIPs))

	if summary.ExcludedIPs > 0 {
		fmt.Fprintf(&sb, "%s Excluded: %s\n", colors.Yellow("[S]"), colors.Yellow(summary.ExcludedIPs))
	}

	fmt.Fprintf(&sb, "%s Duration: %s\n", colors.Blue("[T]"), colors.Blue(fmt.Sprintf("%.2fs", summary.Duration.Seconds())))

	if summary.Duration.Seconds() > 0 {
		rate := float64(summary.ScannedIPs) / summary.Duration.Seconds()
		fmt.Fprintf(&sb, "%s Scan Rate: %s\n", colors.Magenta("[R]"), colors.Magenta(fmt.Sprintf("%.2f IPs/s", rate)))
	}

	if summary.Stopped {
		fmt.Fprintf(&sb, "%s Scan stopped early\n", colors.Yellow("[!]"))
	}

	sb.WriteString(colors.Cyan(rule) + "\n")

	return sb.String()
}

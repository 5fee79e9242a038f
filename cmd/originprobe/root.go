package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jhaxce/originprobe/internal/version"
	"github.com/jhaxce/originprobe/pkg/core"
	"github.com/jhaxce/originprobe/pkg/probe"
	"github.com/jhaxce/originprobe/pkg/waf"
)

var (
	cli        = *core.DefaultConfig()
	configFile string
	timeoutMs  int
	format     string
)

type flagGroup struct {
	title string
	flags []string
}

var helpGroups = []flagGroup{
	{"RANGES", []string{"ranges", "ip-file", "single-ip", "exclude", "exclude-file", "exclude-cdn"}},
	{"REQUEST", []string{"method", "status-code", "content-match", "post-body", "header", "user-agent"}},
	{"CONNECTION", []string{"port", "proxy", "timeout", "workers", "rate"}},
	{"SCAN", []string{"stop-on-find"}},
	{"OUTPUT", []string{"output", "format", "no-color", "no-progress", "quiet", "verbose", "log-file"}},
	{"CONFIGURATION", []string{"config", "version"}},
}

var rootCmd = &cobra.Command{
	Use:     "originprobe <domain> [flags]",
	Short:   "Find origin servers hiding behind a CDN",
	Version: version.Version,
	Long: `originprobe sends a request carrying the target's Host header to every
address of the given IPv4 ranges and reports the addresses that answer with
the expected status code (and, optionally, matching content). Those are the
likely origin servers behind the CDN.`,
	Example: `  originprobe example.com -r 203.0.113.0/24
  originprobe example.com -r 198.51.100.0/24,203.0.113.0/24 --stop-on-find=false
  originprobe example.com -f ranges.txt -m GET --status-code 200 -c "backend-id"
  originprobe example.com --single-ip 203.0.113.7 -v
  originprobe example.com -f ranges.txt --exclude-file cloudflare.txt -o report.json --format json
  originprobe --config scan.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(cmd.Flags(), args)
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return run(ctx, cfg)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.Flags()

	// Ranges
	f.StringSliceVarP(&cli.Ranges, "ranges", "r", nil, "Comma-separated CIDR ranges to scan")
	f.StringVarP(&cli.RangeFile, "ip-file", "f", "", "File with one CIDR range per line (# and // comments)")
	f.StringVar(&cli.SingleIP, "single-ip", "", "Probe a single address")
	f.StringSliceVar(&cli.Exclude, "exclude", nil, "CIDRs or addresses never to probe")
	f.StringVar(&cli.ExcludeFile, "exclude-file", "", "File of CIDRs or addresses never to probe")
	f.StringSliceVar(&cli.ExcludeCDN, "exclude-cdn", nil, "Skip known CDN edge ranges: "+strings.Join(waf.ListProviders(), ", ")+" or all")

	// Request
	f.StringVarP(&cli.HTTPMethod, "method", "m", cli.HTTPMethod, "HTTP method: HEAD, GET or POST")
	f.IntVar(&cli.StatusCode, "status-code", cli.StatusCode, "Status code that marks a match")
	f.StringVarP(&cli.ContentMatch, "content-match", "c", "", "Regex the response must also match")
	f.StringVar(&cli.PostBody, "post-body", "", "Request body for POST")
	f.StringArrayVarP(&cli.Headers, "header", "H", nil, "Custom header 'Name: Value' (repeatable)")
	f.StringVar(&cli.UserAgent, "user-agent", "", "User-Agent: default, random, a browser family, a preset name or a literal string")

	// Connection
	f.IntVarP(&cli.Port, "port", "p", cli.Port, "Destination port (plain HTTP)")
	f.StringVar(&cli.Proxy, "proxy", "", "SOCKS5 proxy URL (socks5://[user:pass@]host:port)")
	f.IntVarP(&timeoutMs, "timeout", "t", 0, "Per-probe timeout in milliseconds (default: auto)")
	f.IntVarP(&cli.Workers, "workers", "w", 0, "Maximum concurrent probes (default: auto)")
	f.IntVar(&cli.Rate, "rate", 0, "Maximum probes per second")

	// Scan
	f.BoolVar(&cli.StopOnFind, "stop-on-find", cli.StopOnFind, "Stop after the first range that yields a match")

	// Output
	f.StringVarP(&cli.OutputFile, "output", "o", "", "Write a report to this file")
	f.StringVar(&format, "format", string(core.FormatText), "Output format: text, json")
	f.BoolVar(&cli.NoColor, "no-color", false, "Disable colored output")
	f.BoolVar(&cli.NoProgress, "no-progress", false, "Disable the progress line")
	f.BoolVarP(&cli.Quiet, "quiet", "q", false, "Only print findings")
	f.BoolVarP(&cli.Verbose, "verbose", "v", false, "Log every probe outcome")
	f.StringVar(&cli.LogFile, "log-file", "", "Also write JSON diagnostics to this file")

	// Configuration
	f.StringVar(&configFile, "config", "", "YAML configuration file; flags override it")

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		w := os.Stderr
		fmt.Fprintf(w, "%s %s\n\n%s\n\nUsage:\n  %s\n", version.AppName, cmd.Version, cmd.Long, cmd.UseLine())
		fmt.Fprintf(w, "\nExamples:\n%s\n", cmd.Example)
		fmt.Fprintf(w, "\nFlags:\n")
		for _, g := range helpGroups {
			fmt.Fprintf(w, "\n%s:\n", g.title)
			for _, name := range g.flags {
				if f := cmd.Flags().Lookup(name); f != nil {
					fmt.Fprintln(w, formatFlag(f))
				}
			}
		}
		fmt.Fprintf(w, "\nUser-Agent presets: %s\n", strings.Join(probe.PresetNames(), ", "))
		fmt.Fprintf(w, "\n%s\n\n", version.Repository)
	})
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildConfig merges the config file, if any, with the flags the user set
func buildConfig(flags *pflag.FlagSet, args []string) (*core.Config, error) {
	cfg := core.DefaultConfig()
	if configFile != "" {
		var err error
		cfg, err = core.LoadFromFile(configFile)
		if err != nil {
			return nil, err
		}
	}

	if len(args) > 0 {
		cli.Domain = args[0]
	}
	cli.Timeout = time.Duration(timeoutMs) * time.Millisecond
	cli.Format = core.OutputFormat(strings.ToLower(format))

	cfg.MergeWithCLI(&cli, flags.Changed)
	return cfg, nil
}

func formatFlag(f *pflag.Flag) string {
	var left string
	if f.Shorthand != "" {
		left = fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	} else {
		left = fmt.Sprintf("    --%s", f.Name)
	}

	typ := f.Value.Type()
	if typ != "bool" {
		left += " " + typ
	}

	// Pad to fixed column width for aligned descriptions.
	const col = 32
	for len(left) < col {
		left += " "
	}

	right := f.Usage
	def := f.DefValue
	if def != "" && def != "false" && def != "0" && def != "[]" {
		right += fmt.Sprintf(" (default %s)", def)
	}

	return "   " + left + right
}

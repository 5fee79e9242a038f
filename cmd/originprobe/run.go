package main

import (
	"context"
	"fmt"
	"net/netip"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/jhaxce/originprobe/internal/colors"
	"github.com/jhaxce/originprobe/pkg/core"
	"github.com/jhaxce/originprobe/pkg/ip"
	"github.com/jhaxce/originprobe/pkg/logger"
	"github.com/jhaxce/originprobe/pkg/output"
	"github.com/jhaxce/originprobe/pkg/probe"
	"github.com/jhaxce/originprobe/pkg/scanner"
	"github.com/jhaxce/originprobe/pkg/sysinfo"
	"github.com/jhaxce/originprobe/pkg/waf"
)

// detectCapability is swapped in tests
var detectCapability = sysinfo.Detect

// targets is the resolved range source: either ranges or a single address
type targets struct {
	ranges []string
	single netip.Addr
}

// run validates cfg, then scans. Every configuration error is returned
// before the first probe is sent.
func run(ctx context.Context, cfg *core.Config) error {
	colors.Init(colors.ShouldUseColors(cfg.NoColor, os.Stdout))

	if err := logger.Init(logger.Config{
		Debug:   cfg.Verbose,
		Quiet:   cfg.Quiet,
		NoColor: cfg.NoColor,
		File:    cfg.LogFile,
	}); err != nil {
		return err
	}
	log := logger.WithComponent("cli")

	cfg.Domain = ip.SanitizeDomain(cfg.Domain)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := ip.ValidateDomain(cfg.Domain); err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidConfig, err)
	}

	tgt, err := resolveTargets(cfg, log)
	if err != nil {
		return err
	}

	exclude, err := buildExcludeSet(cfg)
	if err != nil {
		return err
	}

	capability := applyAutoTune(ctx, cfg)

	probeCfg, err := probe.NewConfig(cfg)
	if err != nil {
		return err
	}
	dialer, err := probe.NewDialer(cfg.Proxy, cfg.Timeout)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidConfig, err)
	}
	prober := probe.New(probeCfg, dialer, logger.WithComponent("probe"))

	formatter := output.NewFormatter(cfg.Format)
	writer, err := output.NewWriter(os.Stdout, cfg.OutputFile, formatter, cfg.Quiet)
	if err != nil {
		return err
	}
	defer writer.Close()

	showProgress := !cfg.NoProgress && !cfg.Quiet && !cfg.Verbose &&
		cfg.Format == core.FormatText && term.IsTerminal(int(os.Stderr.Fd()))
	progress := output.NewProgress(os.Stderr, showProgress)
	writer.SetBeforeOutput(progress.Clear)

	writer.WriteHeader(output.Header{
		Domain:       cfg.Domain,
		Port:         probeCfg.Port,
		Method:       probeCfg.Method,
		StatusCode:   probeCfg.StatusCode,
		ContentMatch: cfg.ContentMatch,
		Workers:      cfg.Workers,
		Timeout:      cfg.Timeout,
		Rate:         cfg.Rate,
		StopOnFind:   cfg.StopOnFind,
		Capability:   capability,
		Proxy:        cfg.Proxy,
		Excluded:     len(exclude.Prefixes()),
	})

	s := scanner.New(prober, scanner.Options{
		MaxConcurrent: cfg.Workers,
		StopOnFind:    cfg.StopOnFind,
		Rate:          cfg.Rate,
		Exclude:       exclude,
	}, scanner.Hooks{
		OnPlan: func(_ []ip.IPRange, total uint64) {
			progress.SetTotal(total)
		},
		OnRange: writer.WriteRange,
		OnOutcome: func(o core.Outcome) {
			if o.IsMatch() {
				writer.WriteMatch(o)
			}
		},
	}, logger.WithComponent("scanner"))

	stop := s.Stop()
	progress.Start(stop.Progress, stop.Excluded, stop.Matches)

	var result *core.ScanResult
	if tgt.single.IsValid() {
		result = s.ScanSingle(ctx, cfg.Domain, tgt.single)
	} else {
		result = s.Scan(ctx, cfg.Domain, tgt.ranges)
	}
	progress.Stop()

	if ctx.Err() != nil {
		log.Warn().Msg("interrupted, reporting partial results")
	}

	return writer.WriteResult(result)
}

// resolveTargets picks the configured range source. Command-line ranges
// are only fatal when none of them parse; the scanner skips the rest.
func resolveTargets(cfg *core.Config, log zerolog.Logger) (targets, error) {
	switch {
	case cfg.SingleIP != "":
		addr, err := ip.ParseIP(cfg.SingleIP)
		if err != nil {
			return targets{}, err
		}
		return targets{single: addr}, nil

	case cfg.RangeFile != "":
		ranges, err := ip.LoadRangeFile(cfg.RangeFile, func(lineNum int, line string, err error) {
			log.Warn().Int("line", lineNum).Str("range", line).Err(err).Msg("skipping invalid range")
		})
		if err != nil {
			return targets{}, err
		}
		return targets{ranges: ranges}, nil

	default:
		var firstErr error
		valid := 0
		for _, r := range cfg.Ranges {
			if _, err := ip.ParseCIDRRange(r); err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			valid++
		}
		if valid == 0 {
			if firstErr == nil {
				firstErr = core.ErrNoRanges
			}
			return targets{}, firstErr
		}
		return targets{ranges: cfg.Ranges}, nil
	}
}

func buildExcludeSet(cfg *core.Config) (*ip.ExcludeSet, error) {
	entries := append([]string(nil), cfg.Exclude...)
	if len(cfg.ExcludeCDN) > 0 {
		cdn, err := waf.Ranges(cfg.ExcludeCDN)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrInvalidConfig, err)
		}
		entries = append(entries, cdn...)
	}
	if cfg.ExcludeFile != "" {
		fromFile, err := ip.LoadExcludeFile(cfg.ExcludeFile)
		if err != nil {
			return nil, err
		}
		entries = append(entries, fromFile...)
	}
	return ip.NewExcludeSet(entries)
}

// applyAutoTune fills a missing timeout or worker count from the host
// capacity tiers. It returns the capacity description, or "" when both
// values were given explicitly.
func applyAutoTune(ctx context.Context, cfg *core.Config) string {
	if cfg.Timeout > 0 && cfg.Workers > 0 {
		return ""
	}

	capability := detectCapability(ctx)
	tuning := sysinfo.Recommend(capability)

	if cfg.Timeout == 0 {
		cfg.Timeout = tuning.Timeout
	}
	if cfg.Workers == 0 {
		cfg.Workers = tuning.Concurrency
	}

	logger.Debug().
		Int("cpus", capability.CPUs).
		Float64("ram_gb", capability.RAMGiB()).
		Int("workers", cfg.Workers).
		Dur("timeout", cfg.Timeout).
		Msg("auto-tuned")

	return capability.String()
}

package probe

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhaxce/originprobe/pkg/core"
)

// Stopper is the read side of the scan-wide stop signal
type Stopper interface {
	IsSet() bool
}

// Prober runs probes with a fixed configuration
type Prober struct {
	config *Config
	dialer Dialer
	logger zerolog.Logger
}

// New creates a prober. A nil dialer dials directly.
func New(config *Config, dialer Dialer, logger zerolog.Logger) *Prober {
	if dialer == nil {
		dialer = &net.Dialer{Timeout: config.Timeout}
	}
	return &Prober{
		config: config,
		dialer: dialer,
		logger: logger,
	}
}

// Config returns the prober's configuration
func (p *Prober) Config() *Config {
	return p.config
}

// Probe performs one connect/send/read/classify cycle against addr.
// Transport failures never escape: they are folded into the outcome and
// logged at debug level.
func (p *Prober) Probe(ctx context.Context, addr netip.Addr, stop Stopper) core.Outcome {
	start := time.Now()
	out := core.Outcome{Kind: core.OutcomeNoResponse, Addr: addr}

	if stop != nil && stop.IsSet() {
		return out
	}

	target := net.JoinHostPort(addr.String(), strconv.Itoa(p.config.Port))
	log := p.logger.With().Str("ip", addr.String()).Logger()
	log.Debug().Msgf("Scanning %s", target)

	finish := func(kind core.OutcomeKind, err error) core.Outcome {
		out.Kind = kind
		out.Err = err
		out.Elapsed = time.Since(start)
		return out
	}

	dialCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	conn, err := p.dialer.DialContext(dialCtx, "tcp", target)
	cancel()
	if err != nil {
		kind := classifyDialError(err)
		log.Debug().Err(err).Str("outcome", kind.String()).Msg("connection failed")
		return finish(kind, err)
	}
	defer conn.Close()

	if tcp, ok := conn.(*net.TCPConn); ok {
		_ = tcp.SetNoDelay(true)
	}

	_ = conn.SetWriteDeadline(time.Now().Add(p.config.Timeout))
	if _, err := conn.Write(p.config.Request); err != nil {
		log.Debug().Err(err).Msg("failed to write request")
		return finish(core.OutcomeNoResponse, err)
	}

	buf := p.config.getBuffer()
	defer p.config.putBuffer(buf)

	_ = conn.SetReadDeadline(time.Now().Add(p.config.Timeout))
	n, err := conn.Read(*buf)
	if n == 0 {
		if isTimeout(err) {
			log.Debug().Msg("read timeout")
			return finish(core.OutcomeTimedOut, err)
		}
		log.Debug().Err(err).Msg("empty response")
		return finish(core.OutcomeNoResponse, err)
	}

	text := strings.ToValidUTF8(string((*buf)[:n]), "�")

	if !p.config.StatusMatches(text) {
		return finish(core.OutcomeNoResponse, nil)
	}
	out.Status = p.config.StatusCode

	if !p.config.ContentMatches(text) {
		log.Debug().Msgf("returned %d but content didn't match", p.config.StatusCode)
		return finish(core.OutcomePartialMatch, nil)
	}

	if p.config.Pattern != nil {
		out.Evidence = p.config.Pattern.FindString(text)
	}
	return finish(core.OutcomeMatch, nil)
}

func classifyDialError(err error) core.OutcomeKind {
	switch {
	case isTimeout(err):
		return core.OutcomeTimedOut
	case errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ENETUNREACH):
		return core.OutcomeRefused
	default:
		return core.OutcomeNoResponse
	}
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

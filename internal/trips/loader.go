package trips

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/tartampluch/go-ninety/internal/config"
	"github.com/tartampluch/go-ninety/internal/engine"
)

// SourceConfig contains all parameters required to read a trip list.
type SourceConfig struct {
	Mode      string // config.SourceModeLocal or config.SourceModeWeb
	LocalPath string // Path to a .yaml, .json or .ics file
	WebURL    string // HTTP(S) URL of the same formats
	WebUser   string // HTTP Basic Auth Username
	WebPass   string // HTTP Basic Auth Password
}

// Loader reads, decodes and validates trips from the configured source.
type Loader struct {
	Fetcher Fetcher // Required for web mode only.
}

// NewLoader returns a Loader using the real HTTP fetcher.
func NewLoader() *Loader {
	return &Loader{Fetcher: NewHTTPFetcher()}
}

// Load returns the trips of cfg in source order.
// Context errors are returned as-is so callers can tell cancellation from bad data.
func (l *Loader) Load(ctx context.Context, cfg SourceConfig) ([]engine.Trip, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompTrips,
		config.LogKeyMode, cfg.Mode,
	)

	// 1. Acquire Data Stream
	reader, err := l.acquireStream(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w", config.ErrTripsRead, err)
	}
	defer func() { _ = reader.Close() }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(reader)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w", config.ErrTripsRead, err)
	}

	// 2. Decode & Validate
	list, err := Decode(raw, sourceName(cfg))
	if err != nil {
		return nil, err
	}
	if err := Validate(list); err != nil {
		return nil, err
	}

	log.Info(config.MsgTripsLoaded,
		config.LogKeyTrips, len(list),
		config.LogKeyDuration, time.Since(start).Milliseconds())
	return list, nil
}

// acquireStream opens the appropriate data source based on configuration.
func (l *Loader) acquireStream(ctx context.Context, cfg SourceConfig) (io.ReadCloser, error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(cfg.LocalPath)
	case config.SourceModeWeb:
		if cfg.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if l.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return l.Fetcher.Fetch(ctx, cfg.WebURL, cfg.WebUser, cfg.WebPass)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
}

// sourceName is the path used as a format hint.
func sourceName(cfg SourceConfig) string {
	if cfg.Mode == config.SourceModeWeb {
		if u, err := url.Parse(cfg.WebURL); err == nil {
			return u.Path
		}
		return cfg.WebURL
	}
	return cfg.LocalPath
}

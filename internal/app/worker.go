package app

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tartampluch/go-ninety/internal/config"
)

// backgroundWorker manages the periodic refresh schedule and reacts to trips file edits.
func (a *App) backgroundWorker(ctx context.Context) {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	a.refreshLogged(ctx)

	interval := time.Duration(a.Settings.RefreshInterval()) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Nil channels block forever, which disables the watcher cases.
	var (
		fileEvents <-chan fsnotify.Event
		watchErrs  <-chan error
		debounce   <-chan time.Time
	)
	watched := ""
	if w, path := a.newWatcher(log); w != nil {
		defer func() { _ = w.Close() }()
		fileEvents, watchErrs, watched = w.Events, w.Errors, path
	}

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, interval)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return

		case <-ticker.C:
			a.refreshLogged(ctx)

		case ev, ok := <-fileEvents:
			if !ok {
				fileEvents = nil
				continue
			}
			if isTripsChange(ev, watched) {
				// Editors often write in several steps.
				debounce = time.After(config.WatchDebounce)
			}

		case <-debounce:
			debounce = nil
			log.Info(config.MsgFileChanged, config.LogKeyFile, watched)
			a.refreshLogged(ctx)

		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			log.Warn(config.ErrWatchFailed, config.LogKeyError, err)
		}
	}
}

// newWatcher watches the directory of a local trips file, so atomic saves (rename over) are seen.
// It returns nil when the source is not local or the watch cannot be set up.
func (a *App) newWatcher(log *slog.Logger) (*fsnotify.Watcher, string) {
	if a.Settings.Source.Mode != config.SourceModeLocal {
		return nil, ""
	}
	path := a.Settings.ResolvedLocalPath()
	if path == "" {
		return nil, ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		log.Warn(config.ErrWatchFailed, config.LogKeyFile, path, config.LogKeyError, err)
		return nil, ""
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn(config.ErrWatchFailed, config.LogKeyFile, abs, config.LogKeyError, err)
		return nil, ""
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		log.Warn(config.ErrWatchFailed, config.LogKeyFile, abs, config.LogKeyError, err)
		return nil, ""
	}

	log.Info(config.MsgWatching, config.LogKeyFile, abs)
	return w, abs
}

func isTripsChange(ev fsnotify.Event, path string) bool {
	if filepath.Clean(ev.Name) != path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

// refreshLogged runs Refresh and logs failures; the previous snapshot stays published.
func (a *App) refreshLogged(ctx context.Context) {
	if err := a.Refresh(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		slog.Error(config.ErrRefreshFailed,
			config.LogKeyComponent, config.CompWorker,
			config.LogKeyError, err)
	}
}

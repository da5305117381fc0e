// Package app wires the trip source, the window engine, the feed generator and the server together.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tartampluch/go-ninety/internal/calendar"
	"github.com/tartampluch/go-ninety/internal/config"
	"github.com/tartampluch/go-ninety/internal/engine"
	"github.com/tartampluch/go-ninety/internal/server"
	"github.com/tartampluch/go-ninety/internal/trips"
	"github.com/tartampluch/go-ninety/internal/ui"
	"github.com/zalando/go-keyring"
)

// Ledger is one evaluation of the trip list against a reference day.
type Ledger struct {
	Today   engine.Date
	Trips   []engine.Trip
	Rows    []engine.DayRecord
	Summary engine.Summary
}

// App holds the application state and dependencies.
type App struct {
	Settings   *config.Settings
	Loader     *trips.Loader
	Generator  *calendar.Generator
	Server     *server.LedgerServer
	Clock      engine.Clock
	Translator *ui.Translator

	// Today pins the reference day. The zero value follows Clock.
	Today engine.Date

	// refreshMu serializes refreshes between the worker and manual calls.
	refreshMu sync.Mutex
}

// New builds an App with the production loader, generator and server.
func New(settings *config.Settings, clock engine.Clock) *App {
	tr := ui.NewTranslator(settings.Language)
	return &App{
		Settings: settings,
		Loader:   trips.NewLoader(),
		Generator: &calendar.Generator{
			Clock:         clock,
			FormatSummary: tr.EventSummary,
		},
		Server:     server.NewLedgerServer(settings.ServerPort),
		Clock:      clock,
		Translator: tr,
	}
}

// SourceConfig assembles the trip source from settings and the keyring.
func (a *App) SourceConfig() trips.SourceConfig {
	src := a.Settings.Source
	cfg := trips.SourceConfig{
		Mode:      src.Mode,
		LocalPath: a.Settings.ResolvedLocalPath(),
		WebURL:    src.WebURL,
		WebUser:   src.WebUser,
	}

	if cfg.Mode == config.SourceModeWeb && cfg.WebUser != "" {
		if p, err := keyring.Get(config.KeyringService, cfg.WebUser); err == nil {
			cfg.WebPass = p
		} else {
			slog.Debug(config.MsgPassFail,
				config.LogKeyUser, cfg.WebUser,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompApp)
		}
	}

	return cfg
}

// StorePassword saves the web source password for user in the OS keyring.
func StorePassword(user, pass string) error {
	if user == "" {
		return errors.New(config.ErrUserRequired)
	}
	if err := keyring.Set(config.KeyringService, user, pass); err != nil {
		return fmt.Errorf("%s: %w", config.ErrKeyringSet, err)
	}
	return nil
}

func (a *App) today() engine.Date {
	if !a.Today.IsZero() {
		return a.Today
	}
	return engine.Today(a.Clock)
}

// Load reads the trips and evaluates them for the reference day.
// Trips are ordered by start date so ledger columns read left to right.
func (a *App) Load(ctx context.Context) (Ledger, error) {
	list, err := a.Loader.Load(ctx, a.SourceConfig())
	if err != nil {
		return Ledger{}, err
	}
	trips.SortByStart(list)

	today := a.today()
	rows := engine.BuildRows(list, today)

	slog.Debug(config.MsgRowsBuilt,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyDate, today.String(),
		config.LogKeyRows, len(rows))

	return Ledger{
		Today:   today,
		Trips:   list,
		Rows:    rows,
		Summary: engine.Summarize(list, rows, today),
	}, nil
}

// Refresh executes the pipeline (Load -> Build -> Generate) and publishes the result.
func (a *App) Refresh(ctx context.Context) error {
	a.refreshMu.Lock()
	defer a.refreshMu.Unlock()

	start := time.Now()
	log := slog.With(config.LogKeyComponent, config.CompApp)
	log.InfoContext(ctx, config.MsgRefreshStarted)

	ledger, err := a.Load(ctx)
	if err != nil {
		return err
	}

	ics, err := a.Generator.Generate(ctx, ledger.Trips, ledger.Rows, a.Settings.ReminderTrigger())
	if err != nil {
		return err
	}

	a.Server.Update(server.Snapshot{
		ICS:     ics,
		Trips:   ledger.Trips,
		Rows:    ledger.Rows,
		Summary: ledger.Summary,
	})

	s := ledger.Summary
	if s.Level == engine.LevelOver {
		log.Warn(config.MsgOverLimit,
			config.LogKeyTodayCnt, s.TodayCount,
			config.LogKeyPeak, s.Peak)
	}
	log.Info(config.MsgRefreshDone,
		config.LogKeyTrips, len(ledger.Trips),
		config.LogKeyTodayCnt, s.TodayCount,
		config.LogKeyRemaining, s.Remaining,
		config.LogKeyPeak, s.Peak,
		config.LogKeyDuration, time.Since(start).Milliseconds())
	return nil
}

// Run serves the feed and keeps it fresh until ctx is cancelled or the server fails.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.backgroundWorker(ctx)
	}()

	err := a.Server.Start(ctx)
	cancel()
	wg.Wait()
	return err
}

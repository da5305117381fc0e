package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/tartampluch/go-ninety/internal/config"
	"github.com/tartampluch/go-ninety/internal/engine"
)

// Snapshot is everything the server publishes for one refresh.
type Snapshot struct {
	ICS     []byte
	Trips   []engine.Trip
	Rows    []engine.DayRecord
	Summary engine.Summary
}

// cacheItem stores a snapshot and its metadata for HTTP caching.
type cacheItem struct {
	snap         Snapshot
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// LedgerServer serves the iCalendar feed and the JSON ledger.
type LedgerServer struct {
	// cache uses atomic.Pointer for lock-free reads.
	// Reads happen on every request, writes only on refresh.
	cache atomic.Pointer[cacheItem]
	Port  string
}

// NewLedgerServer creates a new instance of the server.
func NewLedgerServer(port string) *LedgerServer {
	return &LedgerServer{
		Port: port,
	}
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *LedgerServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Handler returns the full HTTP stack: CORS in front of the gin router.
func (s *LedgerServer) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodHead},
	})
	return c.Handler(s.router())
}

func (s *LedgerServer) router() *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(recovery(), requestLogger())
	r.NoMethod(methodNotAllowed)

	readOnly(r, config.RouteRoot, s.handleCalendar)
	readOnly(r, config.RouteCalendar, s.handleCalendar)
	readOnly(r, config.RouteHealth, s.handleHealth)

	api := r.Group(config.RouteAPI)
	readOnly(api, config.RouteRows, s.handleRows)
	readOnly(api, config.RouteSummary, s.handleSummary)

	return r
}

// readOnly registers h for GET and HEAD; gin does not derive HEAD from GET.
func readOnly(r gin.IRoutes, path string, h gin.HandlerFunc) {
	r.GET(path, h)
	r.HEAD(path, h)
}

// Update atomically replaces the served snapshot.
func (s *LedgerServer) Update(snap Snapshot) {
	hash := sha256.Sum256(snap.ICS)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	item := &cacheItem{
		snap:         snap,
		etag:         etag,
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	}

	// Readers see either the old or the new complete item, never a partial state.
	s.cache.Store(item)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(snap.ICS),
		config.LogKeyRows, len(snap.Rows),
		config.LogKeyETag, etag,
	)
}

// Ready reports whether a snapshot has been published.
func (s *LedgerServer) Ready() bool {
	return s.cache.Load() != nil
}

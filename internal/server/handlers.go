package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tartampluch/go-ninety/internal/config"
	"github.com/tartampluch/go-ninety/internal/engine"
)

// load returns the current snapshot, or answers 503 and returns nil.
// API routes get the JSON error envelope, the feed a plain text body.
func (s *LedgerServer) load(c *gin.Context, asJSON bool) *cacheItem {
	item := s.cache.Load()
	if item != nil {
		return item
	}

	c.Header(config.HeaderRetryAfter, config.RetryAfterSeconds)
	if asJSON {
		abortWithError(c, http.StatusServiceUnavailable, config.ErrCodeUnavailable, config.HTTPMsgInitializing)
	} else {
		c.String(http.StatusServiceUnavailable, config.HTTPMsgInitializing)
	}
	return nil
}

// handleCalendar serves the ICS content with HTTP caching support.
func (s *LedgerServer) handleCalendar(c *gin.Context) {
	item := s.load(c, false)
	if item == nil {
		return
	}

	c.Header(config.HeaderContentType, config.MimeTextCalendar)
	c.Header(config.HeaderXContentType, config.MimeNoSniff)
	c.Header(config.HeaderCacheControl, config.CacheControlPrivate)
	c.Header(config.HeaderETag, item.etag)
	c.Header(config.HeaderLastModified, item.lastModified)

	if notModified(c.Request, item) {
		c.Status(http.StatusNotModified)
		return
	}

	c.Status(http.StatusOK)
	if c.Request.Method == http.MethodGet {
		if _, err := c.Writer.Write(item.snap.ICS); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

// notModified evaluates If-None-Match, then If-Modified-Since.
func notModified(r *http.Request, item *cacheItem) bool {
	if match := r.Header.Get(config.HeaderIfNoneMatch); match != "" {
		return match == item.etag
	}

	since := r.Header.Get(config.HeaderIfModifiedSince)
	if since == "" {
		return false
	}
	clientTime, err := time.Parse(http.TimeFormat, since)
	if err != nil {
		return false
	}
	serverTime, err := time.Parse(http.TimeFormat, item.lastModified)
	if err != nil {
		return false
	}
	// Server content not newer than the client cache.
	return !serverTime.After(clientTime)
}

// handleRows returns the ledger, optionally narrowed with ?from=&to= (inclusive).
func (s *LedgerServer) handleRows(c *gin.Context) {
	from, ok := queryDate(c, config.QueryFrom)
	if !ok {
		return
	}
	to, ok := queryDate(c, config.QueryTo)
	if !ok {
		return
	}

	item := s.load(c, true)
	if item == nil {
		return
	}

	rows := make([]engine.DayRecord, 0, len(item.snap.Rows))
	for _, r := range item.snap.Rows {
		if !from.IsZero() && r.Date.Before(from) {
			continue
		}
		if !to.IsZero() && r.Date.After(to) {
			continue
		}
		rows = append(rows, r)
	}

	trips := item.snap.Trips
	if trips == nil {
		trips = []engine.Trip{}
	}

	c.Header(config.HeaderCacheControl, config.CacheControlPrivate)
	c.JSON(http.StatusOK, gin.H{
		config.JSONKeyRows:  rows,
		config.JSONKeyTrips: trips,
	})
}

func (s *LedgerServer) handleSummary(c *gin.Context) {
	item := s.load(c, true)
	if item == nil {
		return
	}
	c.Header(config.HeaderCacheControl, config.CacheControlPrivate)
	c.JSON(http.StatusOK, item.snap.Summary)
}

func (s *LedgerServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		config.JSONKeyStatus: config.HTTPStatusOK,
		config.JSONKeyReady:  s.Ready(),
	})
}

// queryDate reads an optional YYYY-MM-DD parameter. On a malformed value it answers 400.
func queryDate(c *gin.Context, key string) (engine.Date, bool) {
	raw := c.Query(key)
	if raw == "" {
		return engine.Date{}, true
	}
	d, err := engine.ParseDate(raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, config.ErrCodeBadRequest, config.ErrBadQueryDate+": "+key)
		return engine.Date{}, false
	}
	return d, true
}

// abortWithError writes the JSON error envelope.
func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		config.JSONKeyError: gin.H{
			config.JSONKeyCode:    code,
			config.JSONKeyMessage: message,
		},
	})
}

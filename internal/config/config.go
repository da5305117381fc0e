package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-Ninety/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Ninety"
	AppID             = "com.github.tartampluch.go-ninety"
	KeyringService    = "com.github.tartampluch.go-ninety"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	SettingsFileName  = "settings.yaml"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
	ExitCodeUsage   = 2
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for sensitive files like logs.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	// Used for creating secure cache directories.
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags, Commands & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagConfig       = "config"
	FlagToday        = "today"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stdout"
	FlagDescConfig   = "Path to the settings YAML file (defaults to the user config dir)"
	FlagDescToday    = "Override the reference date (YYYY-MM-DD)"
	MsgVersionOutput = "%s version %s (%s/%s)\n"

	CmdLedger      = "ledger"
	CmdSummary     = "summary"
	CmdServe       = "serve"
	CmdSetPassword = "set-password"

	MsgUsage = `usage: go-ninety [flags] [command]

commands:
  ledger        print the day-by-day rolling ledger (default)
  summary       print peak, today's count and remaining days
  serve         serve the iCalendar feed and JSON API, refreshing in the background
  set-password  read the web source password from stdin and store it in the keyring

flags:
`
)

// -----------------------------------------------------------------------------
// Rolling Window Rules
// -----------------------------------------------------------------------------

const (
	// WindowDays is the length of the rolling window, inclusive of the reference day.
	WindowDays = 180

	// MaxStayDays is the number of days allowed inside any rolling window.
	MaxStayDays = 90

	// RangeLeadDays is shown before the earliest trip.
	RangeLeadDays = 7

	// EmptyRangeHalfDays is the half-width of the view around today when there are no trips.
	EmptyRangeHalfDays = 90

	// Status level thresholds (strictly greater than).
	LevelCautionAbove     = 75
	LevelApproachingAbove = 85

	// MaxTrips caps the size of a trip list accepted at the loading boundary.
	MaxTrips = 15
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyColDate       = "col_date"
	TKeyColCount      = "col_count"
	TKeyLblPeak       = "lbl_peak"
	TKeyLblToday      = "lbl_today"
	TKeyLblRemaining  = "lbl_remaining"
	TKeyLblLevel      = "lbl_level"
	TKeyLblOverDays   = "lbl_over_days"
	TKeyLblNoTrips    = "lbl_no_trips"
	TKeyLevelSafe     = "level_safe"
	TKeyLevelCaution  = "level_caution"
	TKeyLevelApproach = "level_approaching"
	TKeyLevelOver     = "level_over"
	TKeyEvtTrip       = "event_trip"       // Requires Label
	TKeyEvtLeave      = "event_leave"      // Requires Label
	TKeyEvtOverLimit  = "event_over_limit" // Requires Peak
	TKeyPromptPass    = "prompt_password"
	TKeyPassStored    = "msg_password_stored"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeWeb        = "web"
	SourceModeLocal      = "local"
	DefaultPort          = "18090"
	DefaultRefreshMin    = 60
	DefaultLanguage      = "en"
	DefaultReminderValue = 1
	UIDSalt              = "go-ninety-v1-" // Salt for deterministic UID generation
	DefaultTripsFile     = "trips.yaml"
)

// ISO8601 Duration Components for Reminders
const (
	ISOPeriodPrefix   = "P"
	ISONegativePrefix = "-P"
	ISODay            = "D"
	ISOHour           = "H"
	ISOMinute         = "M"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Ninety//Engine//EN"
	ICalCalName   = "Rolling 90/180"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "goninety"
	ICalBegin     = "BEGIN:VCALENDAR"

	// iCal Fields
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTEnd       = "DTEND"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"
	PropCategories  = "CATEGORIES"

	CategoryTrip  = "TRIP"
	CategoryLeave = "WINDOW-EXIT"
	CategoryOver  = "OVER-LIMIT"

	DefaultICalRefresh = 1 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	DateFormatISO   = "2006-01-02"
	DateFormatBasic = "20060102"
	DateFormatShort = "2 Jan"
	DateFormatLong  = "2 Jan 2006"
	DateRangeSep    = " – "

	// Limits
	MinPort = 1
	MaxPort = 65535

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s|%s"
	FormatUID       = "%s-%s@%s"

	// File Extensions
	ExtICS = ".ics"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	WatchDebounce       = 200 * time.Millisecond
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 16 * 1024 * 1024 // 16MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	AddrSeparator       = ":"

	RouteRoot     = "/"
	RouteCalendar = "/calendar.ics"
	RouteHealth   = "/health"
	RouteAPI      = "/api/v1"
	RouteRows     = "/rows"
	RouteSummary  = "/summary"

	QueryFrom = "from"
	QueryTo   = "to"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderAccept          = "Accept"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"
	HeaderOrigin          = "Origin"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	AcceptTrips         = "application/yaml, application/json;q=0.9, text/calendar;q=0.9, text/plain;q=0.5"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// JSON envelope keys
	JSONKeyRows    = "rows"
	JSONKeyTrips   = "trips"
	JSONKeyError   = "error"
	JSONKeyCode    = "code"
	JSONKeyMessage = "message"
	JSONKeyStatus  = "status"
	JSONKeyReady   = "ready"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrLocalPathEmpty   = "configuration error: local path is empty"
	ErrWebURLEmpty      = "configuration error: web URL is empty"
	ErrFetcherMissing   = "internal error: network fetcher is not initialized"
	ErrModeUnsupport    = "configuration error: unsupported source mode"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrPortNumber       = "server port must be a number"
	ErrPortRange        = "server port must be between 1 and 65535"
	ErrIntervalRange    = "refresh interval must not be negative"
	ErrReminderUnit     = "reminder unit must be one of d, h, m"
	ErrReminderDir      = "reminder direction must be before or after"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrRequestBuild     = "failed to create request"
	ErrNetwork          = "network error during fetch"
	ErrHTTPStatus       = "server returned unexpected status"
	ErrTooLarge         = "trips document exceeds the size limit"
	ErrTripsRead        = "failed to read trips"
	ErrTripsDecode      = "failed to decode trips"
	ErrICalDecode       = "failed to decode iCalendar trips"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrInvalidTrip      = "invalid trip"
	ErrTooManyTrips     = "too many trips"
	ErrTripLabel        = "label is required"
	ErrTripDates        = "end date must be on or after start date"
	ErrTripNoStart      = "start date is missing"
	ErrDateParse        = "unable to parse date"
	ErrSettingsRead     = "failed to read settings"
	ErrSettingsDecode   = "failed to decode settings"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrConfigDir        = "could not determine user config dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrRefreshFailed    = "refresh failed"
	ErrWatchFailed      = "failed to watch trips file"
	ErrKeyringSet       = "failed to store password in keyring"
	ErrUserRequired     = "source.web_user is required to store a password"
	ErrUnknownCommand   = "unknown command"
	ErrRender           = "failed to render output"
	ErrBadQueryDate     = "query date must be YYYY-MM-DD"
	ErrInternal         = "An unexpected error occurred"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnavailable  = "NOT_READY"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Ledger initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPStatusOK        = "ok"
)

// -----------------------------------------------------------------------------
// Fallbacks & Messages
// -----------------------------------------------------------------------------

const (
	FallbackTripLabel    = "Trip %d"
	FallbackTripSummary  = "Trip: %s"
	FallbackLeaveSummary = "%s leaves the window"
	FallbackOverSummary  = "Over the 90-day limit (peak %d)"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgRefreshStarted = "Refresh started"
	MsgRefreshDone    = "Refresh finished"
	MsgWorkerStart    = "Background worker started"
	MsgWorkerStop     = "Worker stopping due to context cancellation"
	MsgWatching       = "Watching trips file for changes"
	MsgFileChanged    = "Trips file changed"
	MsgAppStop        = "Application stopped gracefully"
	MsgSkippedEvent   = "Skipping iCalendar event without a usable date"
	MsgGenSuccess     = "Calendar generation successful"
	MsgAppStarting    = "Starting application"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgCacheUpdated   = "Ledger snapshot updated"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgPassFail       = "Password retrieval failed (might be empty)"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgTripsLoaded    = "Trips loaded"
	MsgFetchStart     = "Downloading trips"
	MsgFetchStatus    = "Trips server returned an error status"
	MsgFetchOK        = "Trips download started"
	MsgSettingsMiss   = "Settings file not found, using defaults"
	MsgRowsBuilt      = "Ledger rows built"
	MsgOverLimit      = "Rolling count exceeds the limit"
	MsgHTTPRequest    = "HTTP request"
	MsgPanicRecovered = "Recovered from handler panic"
)

// -----------------------------------------------------------------------------
// Reminder Units & Directions
// -----------------------------------------------------------------------------

const (
	UnitDays    = "d"
	UnitHours   = "h"
	UnitMinutes = "m"
	DirBefore   = "before"
	DirAfter    = "after"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeySize      = "content_length"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyInterval  = "interval"
	LogKeyUser      = "user"
	LogKeyTrips     = "trips"
	LogKeyRows      = "rows"
	LogKeyEvents    = "events"
	LogKeyPeak      = "peak"
	LogKeyTodayCnt  = "today_count"
	LogKeyRemaining = "remaining"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyDate      = "date"
	LogKeyCount     = "count"
	LogKeyOp        = "op"
	LogKeyMethod    = "method"
	LogKeyPath      = "path"
	LogKeyDuration  = "duration_ms"
	LogKeyPanic     = "panic"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyBuilt   = "built"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompApp      = "app"
	CompEngine   = "engine"
	CompCalendar = "calendar"
	CompServer   = "server"
	CompFetcher  = "fetcher"
	CompTrips    = "trips"
	CompWorker   = "worker"
	CompMain     = "main"
	CompI18n     = "i18n"
	CompConfig   = "config"
)

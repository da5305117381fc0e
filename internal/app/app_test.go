package app_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-ninety/internal/app"
	"github.com/tartampluch/go-ninety/internal/config"
	"github.com/tartampluch/go-ninety/internal/engine"
	"github.com/tartampluch/go-ninety/internal/trips"
	"github.com/zalando/go-keyring"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	keyring.MockInit()
	os.Exit(m.Run())
}

// -----------------------------------------------------------------------------
// Mocks & Helpers
// -----------------------------------------------------------------------------

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error) {
	args := m.Called(ctx, url, user, pass)
	if r := args.Get(0); r != nil {
		return r.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

var fixedNow = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

const tenDayTrip = `trips:
  - id: lis
    label: Lisbon
    start_date: 2024-01-01
    end_date: 2024-01-10
`

func localSettings(t *testing.T, content string) *config.Settings {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.DefaultTripsFile)
	require.NoError(t, os.WriteFile(path, []byte(content), config.FilePermUserRW))

	s := config.DefaultSettings()
	s.Source.Mode = config.SourceModeLocal
	s.Source.LocalPath = path
	return s
}

func summaryOf(t *testing.T, a *app.App) engine.Summary {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, config.RouteAPI+config.RouteSummary, nil)
	w := httptest.NewRecorder()
	a.Server.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var s engine.Summary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&s))
	return s
}

// -----------------------------------------------------------------------------
// Source Configuration
// -----------------------------------------------------------------------------

func TestSourceConfig_PasswordFromKeyring(t *testing.T) {
	s := config.DefaultSettings()
	s.Source = config.SourceSettings{Mode: config.SourceModeWeb, WebURL: "https://example.com/trips.ics", WebUser: "alice"}
	a := app.New(s, MockClock{CurrentTime: fixedNow})

	cfg := a.SourceConfig()
	assert.Empty(t, cfg.WebPass, "No secret stored yet")

	require.NoError(t, app.StorePassword("alice", "s3cret"))
	cfg = a.SourceConfig()
	assert.Equal(t, config.SourceModeWeb, cfg.Mode)
	assert.Equal(t, "alice", cfg.WebUser)
	assert.Equal(t, "s3cret", cfg.WebPass)
}

func TestSourceConfig_LocalSkipsKeyring(t *testing.T) {
	require.NoError(t, app.StorePassword("bob", "hunter2"))

	s := config.DefaultSettings()
	s.Source.WebUser = "bob"
	a := app.New(s, MockClock{CurrentTime: fixedNow})

	assert.Empty(t, a.SourceConfig().WebPass)
}

func TestStorePassword_RequiresUser(t *testing.T) {
	err := app.StorePassword("", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrUserRequired)
}

// -----------------------------------------------------------------------------
// Pipeline
// -----------------------------------------------------------------------------

func TestLoad_SortsAndSummarizes(t *testing.T) {
	content := `trips:
  - label: Later
    start_date: 2024-03-01
    end_date: 2024-03-02
  - label: Earlier
    start_date: 2024-01-01
    end_date: 2024-01-10
`
	a := app.New(localSettings(t, content), MockClock{CurrentTime: fixedNow})

	ledger, err := a.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, ledger.Trips, 2)
	assert.Equal(t, "Earlier", ledger.Trips[0].Label)
	assert.Equal(t, engine.DateOf(fixedNow), ledger.Today)
	assert.Equal(t, 10, ledger.Summary.TodayCount)
	assert.Equal(t, 80, ledger.Summary.Remaining)
	assert.Equal(t, engine.DisplayRange(ledger.Trips, ledger.Today).Days(), len(ledger.Rows))
}

func TestLoad_TodayOverride(t *testing.T) {
	a := app.New(localSettings(t, tenDayTrip), MockClock{CurrentTime: fixedNow})
	override, err := engine.ParseDate("2024-01-05")
	require.NoError(t, err)
	a.Today = override

	ledger, err := a.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, ledger.Summary.TodayCount)
}

func TestRefresh_PublishesSnapshot(t *testing.T) {
	a := app.New(localSettings(t, tenDayTrip), MockClock{CurrentTime: fixedNow})
	assert.False(t, a.Server.Ready())

	require.NoError(t, a.Refresh(context.Background()))
	require.True(t, a.Server.Ready())

	req := httptest.NewRequest(http.MethodGet, config.RouteCalendar, nil)
	w := httptest.NewRecorder()
	a.Server.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "SUMMARY:Trip: Lisbon")

	assert.Equal(t, 10, summaryOf(t, a).TodayCount)
}

func TestRefresh_Web(t *testing.T) {
	s := config.DefaultSettings()
	s.Source = config.SourceSettings{Mode: config.SourceModeWeb, WebURL: "https://example.com/trips.yaml", WebUser: "carol"}
	require.NoError(t, app.StorePassword("carol", "pw"))

	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, s.Source.WebURL, "carol", "pw").
		Return(io.NopCloser(strings.NewReader(tenDayTrip)), nil)

	a := app.New(s, MockClock{CurrentTime: fixedNow})
	a.Loader = &trips.Loader{Fetcher: fetcher}

	require.NoError(t, a.Refresh(context.Background()))
	assert.Equal(t, 1, summaryOf(t, a).Trips)
	fetcher.AssertExpectations(t)
}

func TestRefresh_FailureKeepsPreviousSnapshot(t *testing.T) {
	s := localSettings(t, tenDayTrip)
	a := app.New(s, MockClock{CurrentTime: fixedNow})
	require.NoError(t, a.Refresh(context.Background()))

	require.NoError(t, os.WriteFile(s.Source.LocalPath, []byte("trips: ["), config.FilePermUserRW))
	err := a.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrTripsDecode)

	assert.Equal(t, 10, summaryOf(t, a).TodayCount, "Last good snapshot is still served")
}

// -----------------------------------------------------------------------------
// Worker
// -----------------------------------------------------------------------------

// TestRun_RefreshesOnFileChange drives the full loop: initial refresh, file watch, shutdown.
func TestRun_RefreshesOnFileChange(t *testing.T) {
	s := localSettings(t, tenDayTrip)
	s.ServerPort = "18097"
	a := app.New(s, MockClock{CurrentTime: fixedNow})

	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() { errChan <- a.Run(ctx) }()

	require.Eventually(t, a.Server.Ready, 3*time.Second, 20*time.Millisecond, "Initial refresh did not publish")
	assert.Equal(t, 1, summaryOf(t, a).Trips)

	updated := tenDayTrip + `  - id: rom
    label: Rome
    start_date: 2023-12-20
    end_date: 2023-12-22
`
	require.NoError(t, os.WriteFile(s.Source.LocalPath, []byte(updated), config.FilePermUserRW))

	assert.Eventually(t, func() bool {
		return summaryOf(t, a).Trips == 2
	}, 5*time.Second, 50*time.Millisecond, "File change was not picked up")

	cancel()
	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}

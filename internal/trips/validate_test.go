package trips_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-ninety/internal/config"
	"github.com/tartampluch/go-ninety/internal/engine"
	"github.com/tartampluch/go-ninety/internal/trips"
)

func TestValidate(t *testing.T) {
	ok := engine.Trip{Label: "Lisbon", Start: date(t, "2024-01-01"), End: date(t, "2024-01-10")}

	tests := []struct {
		name    string
		trip    engine.Trip
		wantErr string
	}{
		{"Valid", ok, ""},
		{"SingleDay", engine.Trip{Label: "x", Start: date(t, "2024-01-01"), End: date(t, "2024-01-01")}, ""},
		{"BlankLabel", engine.Trip{Label: "   ", Start: ok.Start, End: ok.End}, config.ErrTripLabel},
		{"NoStart", engine.Trip{Label: "x", End: ok.End}, config.ErrTripNoStart},
		{"EndBeforeStart", engine.Trip{Label: "x", Start: ok.End, End: ok.Start}, config.ErrTripDates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := trips.Validate([]engine.Trip{tt.trip})
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, trips.ErrInvalidTrip)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	list := []engine.Trip{
		{Label: "", Start: date(t, "2024-01-01"), End: date(t, "2024-01-02")},
		{Label: "ok", Start: date(t, "2024-02-01"), End: date(t, "2024-02-02")},
		{Label: "late", Start: date(t, "2024-03-05"), End: date(t, "2024-03-01")},
	}

	err := trips.Validate(list)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "#1")
	assert.NotContains(t, err.Error(), "#2")
	assert.Contains(t, err.Error(), "#3")
}

func TestValidate_TooManyTrips(t *testing.T) {
	list := make([]engine.Trip, 0, config.MaxTrips+1)
	start := date(t, "2024-01-01")
	for i := range config.MaxTrips {
		day := start.AddDays(i * 10)
		list = append(list, engine.Trip{Label: fmt.Sprintf("trip %d", i), Start: day, End: day})
	}
	require.NoError(t, trips.Validate(list))

	list = append(list, engine.Trip{Label: "one more", Start: start, End: start})
	err := trips.Validate(list)
	require.Error(t, err)
	assert.ErrorIs(t, err, trips.ErrTooManyTrips)
	assert.NotErrorIs(t, err, trips.ErrInvalidTrip)
}

func TestSortByStart_Stable(t *testing.T) {
	list := []engine.Trip{
		{ID: "c", Start: date(t, "2024-05-01")},
		{ID: "a1", Start: date(t, "2024-01-01")},
		{ID: "b", Start: date(t, "2024-03-01")},
		{ID: "a2", Start: date(t, "2024-01-01")},
	}

	trips.SortByStart(list)

	ids := make([]string, len(list))
	for i, tr := range list {
		ids[i] = tr.ID
	}
	assert.Equal(t, []string{"a1", "a2", "b", "c"}, ids)
}

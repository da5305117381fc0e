package engine_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-ninety/internal/engine"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		count int
		want  engine.Level
	}{
		{0, engine.LevelSafe},
		{75, engine.LevelSafe},
		{76, engine.LevelCaution},
		{85, engine.LevelCaution},
		{86, engine.LevelApproaching},
		{90, engine.LevelApproaching},
		{91, engine.LevelOver},
		{180, engine.LevelOver},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, engine.LevelFor(tt.count), "count %d", tt.count)
		})
	}
}

func TestSummarize(t *testing.T) {
	trips := []engine.Trip{
		trip(t, "A", "2024-01-01", "2024-01-05"),
		trip(t, "B", "2024-01-04", "2024-01-08"),
	}
	today := d(t, "2024-01-06")
	rows := engine.BuildRows(trips, today)

	s := engine.Summarize(trips, rows, today)

	assert.Equal(t, today, s.Today)
	assert.Equal(t, 2, s.Trips)
	assert.Equal(t, 8, s.Peak)
	assert.Equal(t, d(t, "2024-01-08"), s.PeakDate, "first day reaching the peak")
	assert.Equal(t, 6, s.TodayCount)
	assert.Equal(t, 84, s.Remaining)
	assert.Equal(t, engine.LevelSafe, s.Level)
	assert.Zero(t, s.OverLimitDays)
}

func TestSummarize_TodayOutsideRows(t *testing.T) {
	trips := []engine.Trip{trip(t, "A", "2030-01-01", "2030-01-10")}
	today := d(t, "2024-01-01")

	s := engine.Summarize(trips, engine.BuildRows(trips, today), today)

	assert.Equal(t, 0, s.TodayCount)
	assert.Equal(t, 90, s.Remaining)
	assert.Equal(t, 10, s.Peak)
}

func TestSummarize_OverLimit(t *testing.T) {
	// 100 consecutive days: counts 91..100 on the last ten days, then 10 tail days above 90.
	long := trip(t, "L", "2024-01-01", "2024-04-09")
	require.Equal(t, 100, long.Days())
	today := long.End
	rows := engine.BuildRows([]engine.Trip{long}, today)

	s := engine.Summarize([]engine.Trip{long}, rows, today)

	assert.Equal(t, 100, s.Peak)
	assert.Equal(t, 100, s.TodayCount)
	assert.Equal(t, 0, s.Remaining, "remaining never goes negative")
	assert.Equal(t, engine.LevelOver, s.Level)
	// Days 91..100 of the trip, then the plateau until the trip starts dropping out:
	// day 100 + 80 tail days keep all 100 days counted, after which it decays to 90.
	assert.Equal(t, 10+80+9, s.OverLimitDays)

	runs := engine.OverLimitRuns(rows)
	require.Len(t, runs, 1)
	assert.Equal(t, long.Start.AddDays(90), runs[0].Range.Start)
	assert.Equal(t, 100, runs[0].Peak)
	assert.Equal(t, s.OverLimitDays, runs[0].Range.Days())
}

func TestOverLimitRuns_Separate(t *testing.T) {
	rows := []engine.DayRecord{
		{Date: d(t, "2024-01-01"), RollingCount: 91},
		{Date: d(t, "2024-01-02"), RollingCount: 92},
		{Date: d(t, "2024-01-03"), RollingCount: 90},
		{Date: d(t, "2024-01-04"), RollingCount: 95},
	}

	runs := engine.OverLimitRuns(rows)

	require.Len(t, runs, 2)
	assert.Equal(t, engine.DateRange{Start: d(t, "2024-01-01"), End: d(t, "2024-01-02")}, runs[0].Range)
	assert.Equal(t, 92, runs[0].Peak)
	assert.Equal(t, engine.DateRange{Start: d(t, "2024-01-04"), End: d(t, "2024-01-04")}, runs[1].Range)
	assert.Empty(t, engine.OverLimitRuns(rows[2:3]))
}

func TestDayRecord_JSON(t *testing.T) {
	rec := engine.DayRecord{
		Date:          d(t, "2024-01-05"),
		RollingCount:  5,
		IsToday:       true,
		States:        []engine.State{engine.StateActive, engine.StateTail, engine.StateDropping, engine.StateNone},
		Contributions: []int{5, 3, 1, 0},
	}

	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"date": "2024-01-05",
		"rolling_count": 5,
		"is_today": true,
		"states": ["active", "tail", "dropping", "none"],
		"contributions": [5, 3, 1, 0]
	}`, string(raw))

	var back engine.DayRecord
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, rec, back)

	var bad engine.State
	assert.Error(t, bad.UnmarshalText([]byte("gone")))
}

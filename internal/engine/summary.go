package engine

import (
	"fmt"

	"github.com/tartampluch/go-ninety/internal/config"
)

// Level grades a rolling count against the limit.
type Level uint8

const (
	LevelSafe Level = iota
	LevelCaution
	LevelApproaching
	LevelOver
)

var levelNames = [...]string{
	LevelSafe:        "safe",
	LevelCaution:     "caution",
	LevelApproaching: "approaching",
	LevelOver:        "over",
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("Level(%d)", uint8(l))
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(b []byte) error {
	for i, name := range levelNames {
		if name == string(b) {
			*l = Level(i)
			return nil
		}
	}
	return fmt.Errorf("unknown level %q", b)
}

// LevelFor grades a rolling count.
func LevelFor(count int) Level {
	switch {
	case count > config.MaxStayDays:
		return LevelOver
	case count > config.LevelApproachingAbove:
		return LevelApproaching
	case count > config.LevelCautionAbove:
		return LevelCaution
	default:
		return LevelSafe
	}
}

// Summary is the headline view of a ledger.
type Summary struct {
	Today         Date  `json:"today"`
	Trips         int   `json:"trips"`
	Peak          int   `json:"peak"`
	PeakDate      Date  `json:"peak_date"`
	TodayCount    int   `json:"today_count"`
	Remaining     int   `json:"remaining"`
	Level         Level `json:"level"`
	OverLimitDays int   `json:"over_limit_days"`
}

// Summarize computes the peak over rows and the standing for today.
// Today's count is computed directly, so it is right even when today lies outside the rows.
func Summarize(trips []Trip, rows []DayRecord, today Date) Summary {
	s := Summary{
		Today:      today,
		Trips:      len(trips),
		TodayCount: RollingCount(today, trips),
	}
	for _, r := range rows {
		if r.RollingCount > s.Peak {
			s.Peak = r.RollingCount
			s.PeakDate = r.Date
		}
		if r.RollingCount > config.MaxStayDays {
			s.OverLimitDays++
		}
	}
	s.Remaining = max(0, config.MaxStayDays-s.TodayCount)
	s.Level = LevelFor(s.TodayCount)
	return s
}

// OverLimitRun is a maximal run of consecutive rows above the limit.
type OverLimitRun struct {
	Range DateRange `json:"range"`
	Peak  int       `json:"peak"`
}

// OverLimitRuns groups consecutive rows whose count exceeds the limit.
// rows must be ascending and gap-free, as BuildRows returns them.
func OverLimitRuns(rows []DayRecord) []OverLimitRun {
	var runs []OverLimitRun
	var cur *OverLimitRun
	for _, r := range rows {
		if r.RollingCount <= config.MaxStayDays {
			cur = nil
			continue
		}
		if cur == nil {
			runs = append(runs, OverLimitRun{Range: DateRange{Start: r.Date, End: r.Date}})
			cur = &runs[len(runs)-1]
		}
		cur.Range.End = r.Date
		cur.Peak = max(cur.Peak, r.RollingCount)
	}
	return runs
}

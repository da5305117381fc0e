package engine

import "github.com/tartampluch/go-ninety/internal/config"

// DayRecord is the accounting for one calendar day.
// States and Contributions are index-aligned with the trips the rows were built from.
type DayRecord struct {
	Date          Date    `json:"date"`
	RollingCount  int     `json:"rolling_count"`
	IsToday       bool    `json:"is_today"`
	States        []State `json:"states"`
	Contributions []int   `json:"contributions"`
}

// DisplayRange returns the days worth showing: a week before the first trip up to a full
// window after the last one, or today ± 90 days when there are no trips.
// An inverted trip widens the range through both of its dates, so Start <= End always holds.
func DisplayRange(trips []Trip, today Date) DateRange {
	if len(trips) == 0 {
		return DateRange{
			Start: today.AddDays(-config.EmptyRangeHalfDays),
			End:   today.AddDays(config.EmptyRangeHalfDays),
		}
	}

	minStart, maxEnd := trips[0].Start, trips[0].End
	for _, t := range trips {
		for _, d := range [2]Date{t.Start, t.End} {
			if d.Before(minStart) {
				minStart = d
			}
			if d.After(maxEnd) {
				maxEnd = d
			}
		}
	}

	return DateRange{
		Start: minStart.AddDays(-config.RangeLeadDays),
		End:   maxEnd.AddDays(config.WindowDays),
	}
}

// RollingCount returns how many distinct days of the window [date-179, date] fall inside
// at least one trip. Overlapping trips count once.
func RollingCount(date Date, trips []Trip) int {
	return rollingCount(date.ordinal(), spansOf(trips))
}

// TripContribution returns how many days of the window ending on date belong to trip,
// regardless of other trips.
func TripContribution(date Date, trip Trip) int {
	return contribution(date.ordinal(), spanOf(trip))
}

// Classify returns the state of trip relative to the window ending on date.
// An inverted trip is always StateNone.
func Classify(date Date, trip Trip) State {
	return classify(date.ordinal(), spanOf(trip))
}

// BuildRows produces one DayRecord per day of DisplayRange(trips, today), in ascending order.
// It does not retain or modify trips; equal inputs give deep-equal outputs.
func BuildRows(trips []Trip, today Date) []DayRecord {
	r := DisplayRange(trips, today)
	spans := spansOf(trips)
	rows := make([]DayRecord, 0, r.Days())

	day := r.Start
	for o := r.Start.ordinal(); o <= r.End.ordinal(); o++ {
		rec := DayRecord{
			Date:          day,
			RollingCount:  rollingCount(o, spans),
			IsToday:       day == today,
			States:        make([]State, len(spans)),
			Contributions: make([]int, len(spans)),
		}
		for i, s := range spans {
			rec.States[i] = classify(o, s)
			rec.Contributions[i] = contribution(o, s)
		}
		rows = append(rows, rec)
		day = day.AddDays(1)
	}
	return rows
}

func windowStart(day int) int {
	return day - (config.WindowDays - 1)
}

// rollingCount scans the window day by day. Trip counts are small, so the scan is exact and
// cheap enough; it defines the semantics any faster variant must reproduce.
func rollingCount(day int, spans []span) int {
	count := 0
	for d := windowStart(day); d <= day; d++ {
		for _, s := range spans {
			if s.covers(d) {
				count++
				break
			}
		}
	}
	return count
}

func contribution(day int, s span) int {
	lo := max(windowStart(day), s.first)
	hi := min(day, s.last)
	if lo > hi {
		return 0
	}
	return hi - lo + 1
}

func classify(day int, s span) State {
	switch {
	case s.empty():
		return StateNone
	case s.covers(day):
		return StateActive
	case day > s.last && day <= s.last+config.WindowDays-1:
		// Dropping wins over tail once the first day has left the window.
		if day >= s.first+config.WindowDays {
			return StateDropping
		}
		return StateTail
	default:
		return StateNone
	}
}

package engine

import "github.com/tartampluch/go-ninety/internal/config"

// Trip is a closed date interval spent inside the area.
// ID, Label and ColorIndex are opaque to the engine and only travel with the trip.
type Trip struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Start      Date   `json:"start_date"`
	End        Date   `json:"end_date"`
	ColorIndex int    `json:"color_index"`
}

// Inverted reports whether End is before Start. Such a trip covers no day.
func (t Trip) Inverted() bool {
	return t.End.Before(t.Start)
}

// Contains reports whether d lies within [Start, End].
func (t Trip) Contains(d Date) bool {
	return !d.Before(t.Start) && !d.After(t.End)
}

// Days is the inclusive length of the trip.
func (t Trip) Days() int {
	return DateRange{Start: t.Start, End: t.End}.Days()
}

// ExitDate is the first day on which the trip no longer counts in any window.
func (t Trip) ExitDate() Date {
	return t.End.AddDays(config.WindowDays)
}

// span is a trip reduced to day ordinals; first > last means empty.
type span struct {
	first, last int
}

func spanOf(t Trip) span {
	return span{first: t.Start.ordinal(), last: t.End.ordinal()}
}

func spansOf(trips []Trip) []span {
	spans := make([]span, len(trips))
	for i, t := range trips {
		spans[i] = spanOf(t)
	}
	return spans
}

func (s span) empty() bool        { return s.first > s.last }
func (s span) covers(day int) bool { return day >= s.first && day <= s.last }

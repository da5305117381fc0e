// Package ui renders the ledger for terminals and localizes user-facing text.
package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tartampluch/go-ninety/internal/config"
	"github.com/tartampluch/go-ninety/internal/engine"
)

// -----------------------------------------------------------------------------
// Date Formatting
// -----------------------------------------------------------------------------

// FormatShort renders "24 Feb".
func FormatShort(d engine.Date) string {
	return d.Format(config.DateFormatShort)
}

// FormatLong renders "24 Feb 2025".
func FormatLong(d engine.Date) string {
	return d.Format(config.DateFormatLong)
}

// FormatRange renders an inclusive range, dropping the repeated year when both ends share it.
func FormatRange(r engine.DateRange) string {
	switch {
	case r.Start == r.End:
		return FormatLong(r.Start)
	case r.Start.Year() == r.End.Year():
		return FormatShort(r.Start) + config.DateRangeSep + FormatLong(r.End)
	default:
		return FormatLong(r.Start) + config.DateRangeSep + FormatLong(r.End)
	}
}

// -----------------------------------------------------------------------------
// Ledger Table
// -----------------------------------------------------------------------------

// RenderLedger writes one line per row: a status pill, the date, the rolling count and one cell per trip.
// rows must come from engine.BuildRows over the same trips.
func RenderLedger(w io.Writer, trips []engine.Trip, rows []engine.DayRecord, tr *Translator) error {
	r := lipgloss.NewRenderer(w)
	st := newStyles(r)
	var b strings.Builder

	if len(trips) == 0 {
		b.WriteString(tr.Msg(config.TKeyLblNoTrips))
		b.WriteByte('\n')
		return flush(w, &b)
	}

	dateCol := r.NewStyle().Width(dateColWidth)
	countCol := r.NewStyle().Width(countColWidth).Align(lipgloss.Right)
	tripCol := r.NewStyle().Width(tripColWidth)

	header := []string{
		defaultMarker,
		dateCol.Render(truncate(tr.Msg(config.TKeyColDate), dateColWidth)),
		countCol.Render(truncate(tr.Msg(config.TKeyColCount), countColWidth)),
	}
	for _, t := range trips {
		header = append(header, tripCol.Render(truncate(t.Label, tripColWidth)))
	}
	b.WriteString(st.header.Render(strings.Join(header, " ")))
	b.WriteByte('\n')

	year := 0
	for _, row := range rows {
		if row.Date.Year() != year {
			year = row.Date.Year()
			b.WriteString(st.year.Render("── " + strconv.Itoa(year)))
			b.WriteByte('\n')
		}

		marker := defaultMarker
		if row.RollingCount > 0 {
			marker = st.level(engine.LevelFor(row.RollingCount)).Render(pillMarker)
		}

		cells := []string{
			marker,
			dateCol.Render(FormatShort(row.Date)),
			countCol.Render(strconv.Itoa(row.RollingCount)),
		}
		for i := range trips {
			cells = append(cells, tripCol.Render(tripCell(row.States[i], row.Contributions[i])))
		}

		line := strings.Join(cells, " ")
		if row.IsToday {
			line = st.today.Render(line) + " " + todayMarker
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	return flush(w, &b)
}

// tripCell is the glyph for the state followed by the contribution, or blank.
func tripCell(state engine.State, contribution int) string {
	glyph := glyphFor(state)
	if glyph == "" {
		return ""
	}
	return glyph + " " + strconv.Itoa(contribution)
}

// -----------------------------------------------------------------------------
// Summary
// -----------------------------------------------------------------------------

// RenderSummary writes the headline figures, one labelled line each.
func RenderSummary(w io.Writer, s engine.Summary, tr *Translator) error {
	r := lipgloss.NewRenderer(w)
	st := newStyles(r)
	label := r.NewStyle().Width(labelWidth)
	var b strings.Builder

	line := func(key, value string) {
		b.WriteString(label.Render(tr.Msg(key)))
		b.WriteString(value)
		b.WriteByte('\n')
	}

	peak := strconv.Itoa(s.Peak)
	if !s.PeakDate.IsZero() {
		peak += " (" + FormatLong(s.PeakDate) + ")"
	}

	line(config.TKeyLblToday, fmt.Sprintf("%d (%s)", s.TodayCount, FormatLong(s.Today)))
	line(config.TKeyLblRemaining, strconv.Itoa(s.Remaining))
	line(config.TKeyLblLevel, st.level(s.Level).Render(pillMarker+" "+tr.LevelName(s.Level)))
	line(config.TKeyLblPeak, peak)
	line(config.TKeyLblOverDays, strconv.Itoa(s.OverLimitDays))

	return flush(w, &b)
}

func flush(w io.Writer, b *strings.Builder) error {
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("%s: %w", config.ErrRender, err)
	}
	return nil
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

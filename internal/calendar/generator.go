// Package calendar publishes the trips and the rolling ledger as an iCalendar feed.
package calendar

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-ninety/internal/config"
	"github.com/tartampluch/go-ninety/internal/engine"
)

// EventKind tells the summary formatter which event it is labelling.
type EventKind string

const (
	KindTrip      EventKind = "trip"
	KindLeave     EventKind = "leave"
	KindOverLimit EventKind = "over"
)

// Generator turns trips and ledger rows into an iCalendar document.
type Generator struct {
	Clock engine.Clock // Interface for time mocking.

	// FormatSummary allows the UI to inject localized strings into the feed.
	// peak is only meaningful for KindOverLimit.
	FormatSummary func(kind EventKind, label string, peak int) string
}

// Generate builds the feed. rows are usually the output of engine.BuildRows for the same trips.
// reminderTrigger is an ISO8601 duration ("-P1D"); empty disables alarms.
func (g *Generator) Generate(ctx context.Context, trips []engine.Trip, rows []engine.DayRecord, reminderTrigger string) ([]byte, error) {
	cal := ical.NewCalendar()

	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(g.Clock.Now().UTC())

	var events []*ical.Event
	seen := make(map[string]bool, len(trips))

	for _, t := range trips {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// An inverted trip is empty and never counts.
		if t.Inverted() {
			continue
		}
		// Identical trips would publish identical UIDs.
		uidBase := uidFor(t.ID, t.Label, t.Start, t.End)
		if seen[uidBase] {
			continue
		}
		seen[uidBase] = true

		trip := g.newEvent(KindTrip, uidBase, t.Label, 0, engine.DateRange{Start: t.Start, End: t.End})
		events = append(events, trip)

		exit := t.ExitDate()
		leave := g.newEvent(KindLeave, uidBase, t.Label, 0, engine.DateRange{Start: exit, End: exit})
		events = append(events, leave)
	}

	overRuns := engine.OverLimitRuns(rows)
	for _, run := range overRuns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		uidBase := uidFor(string(KindOverLimit), "", run.Range.Start, run.Range.End)
		over := g.newEvent(KindOverLimit, uidBase, "", run.Peak, run.Range)
		if reminderTrigger != "" {
			summary, _ := over.Props.Text(config.PropSummary)
			addAlarm(over, reminderTrigger, summary)
		}
		events = append(events, over)
	}

	log := slog.With(config.LogKeyComponent, config.CompCalendar)

	// A valid but empty VCALENDAR keeps clients from flagging the feed as broken.
	if len(events) == 0 {
		log.Info(config.MsgGenSuccess, config.LogKeyEvents, 0)
		return []byte(config.StubVCalendar), nil
	}

	for _, e := range events {
		e.Props.Set(dtStampProp)
		cal.Children = append(cal.Children, e.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	log.Info(config.MsgGenSuccess,
		config.LogKeyEvents, len(events),
		config.LogKeyCount, len(overRuns))
	return buf.Bytes(), nil
}

// newEvent creates an all-day event covering r (DTEND is exclusive).
func (g *Generator) newEvent(kind EventKind, uidBase, label string, peak int, r engine.DateRange) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, uidBase, kind, config.ICalDomain))
	event.Props.SetText(config.PropSummary, g.summary(kind, label, peak))
	event.Props.SetText(config.PropCategories, categoryOf(kind))

	dtStartProp := ical.NewProp(config.PropDTStart)
	dtStartProp.SetDate(r.Start.Time())
	event.Props.Set(dtStartProp)

	dtEndProp := ical.NewProp(config.PropDTEnd)
	dtEndProp.SetDate(r.End.AddDays(1).Time())
	event.Props.Set(dtEndProp)

	return event
}

func (g *Generator) summary(kind EventKind, label string, peak int) string {
	if g.FormatSummary != nil {
		return g.FormatSummary(kind, label, peak)
	}
	switch kind {
	case KindLeave:
		return fmt.Sprintf(config.FallbackLeaveSummary, label)
	case KindOverLimit:
		return fmt.Sprintf(config.FallbackOverSummary, peak)
	default:
		return fmt.Sprintf(config.FallbackTripSummary, label)
	}
}

func categoryOf(kind EventKind) string {
	switch kind {
	case KindLeave:
		return config.CategoryLeave
	case KindOverLimit:
		return config.CategoryOver
	default:
		return config.CategoryTrip
	}
}

// uidFor derives a stable UID base so refreshes do not duplicate events in clients.
// Trips without an ID fall back to their label.
func uidFor(id, label string, start, end engine.Date) string {
	if id == "" {
		id = label
	}
	input := fmt.Sprintf(config.FormatHashInput, id, start.Format(config.DateFormatISO), end.Format(config.DateFormatISO), config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash[:config.UIDHashLength])
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}

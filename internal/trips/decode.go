package trips

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-ninety/internal/config"
	"github.com/tartampluch/go-ninety/internal/engine"
	"gopkg.in/yaml.v3"
)

// tripRecord is the on-disk trip shape. Dates stay strings so that both quoted and
// unquoted YAML dates decode the same way.
type tripRecord struct {
	ID         string `yaml:"id"`
	Label      string `yaml:"label"`
	Start      string `yaml:"start_date"`
	End        string `yaml:"end_date"`
	ColorIndex int    `yaml:"color_index"`
}

type tripsDocument struct {
	Trips []tripRecord `yaml:"trips"`
}

// Decode turns a trips document into trips. The format is iCalendar when name ends in .ics
// or the content starts with BEGIN:VCALENDAR, YAML otherwise (JSON is valid YAML).
func Decode(raw []byte, name string) ([]engine.Trip, error) {
	trimmed := bytes.TrimSpace(raw)
	if strings.EqualFold(filepath.Ext(name), config.ExtICS) || bytes.HasPrefix(trimmed, []byte(config.ICalBegin)) {
		return decodeICS(bytes.NewReader(raw))
	}
	return decodeYAML(raw)
}

// decodeYAML accepts either {trips: [...]} or a bare list.
func decodeYAML(raw []byte) ([]engine.Trip, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrTripsDecode, err)
	}
	if len(root.Content) == 0 {
		return []engine.Trip{}, nil
	}

	var records []tripRecord
	body := root.Content[0]
	if body.Kind == yaml.SequenceNode {
		if err := body.Decode(&records); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrTripsDecode, err)
		}
	} else {
		var doc tripsDocument
		if err := body.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrTripsDecode, err)
		}
		records = doc.Trips
	}

	out := make([]engine.Trip, 0, len(records))
	for i, rec := range records {
		t, err := rec.toTrip()
		if err != nil {
			return nil, fmt.Errorf("%w #%d: %w", ErrInvalidTrip, i+1, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func (rec tripRecord) toTrip() (engine.Trip, error) {
	if rec.Start == "" {
		return engine.Trip{}, errors.New(config.ErrTripNoStart)
	}
	start, err := engine.ParseDate(rec.Start)
	if err != nil {
		return engine.Trip{}, err
	}
	// A single-day trip may omit its end date.
	end := start
	if rec.End != "" {
		if end, err = engine.ParseDate(rec.End); err != nil {
			return engine.Trip{}, err
		}
	}
	return engine.Trip{
		ID:         rec.ID,
		Label:      strings.TrimSpace(rec.Label),
		Start:      start,
		End:        end,
		ColorIndex: rec.ColorIndex,
	}, nil
}

// decodeICS maps every VEVENT of every calendar in r to a trip.
func decodeICS(r io.Reader) ([]engine.Trip, error) {
	dec := ical.NewDecoder(r)
	out := []engine.Trip{}

	for {
		cal, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrICalDecode, err)
		}

		for _, ev := range cal.Events() {
			t, ok := tripFromEvent(ev)
			if !ok {
				uid, _ := ev.Props.Text(ical.PropUID)
				slog.Warn(config.MsgSkippedEvent,
					config.LogKeyComponent, config.CompTrips,
					config.LogKeyKey, uid)
				continue
			}
			if t.Label == "" {
				t.Label = fmt.Sprintf(config.FallbackTripLabel, len(out)+1)
			}
			out = append(out, t)
		}
	}
	return out, nil
}

// tripFromEvent reads DTSTART/DTEND. An all-day DTEND is exclusive, so the last day is DTEND-1;
// a date-time DTEND counts its own day. Without DTEND the trip lasts one day.
func tripFromEvent(ev ical.Event) (engine.Trip, bool) {
	startProp := ev.Props.Get(ical.PropDateTimeStart)
	if startProp == nil {
		return engine.Trip{}, false
	}
	startTime, err := startProp.DateTime(time.UTC)
	if err != nil {
		return engine.Trip{}, false
	}
	start := engine.DateOf(startTime)

	end := start
	if endProp := ev.Props.Get(ical.PropDateTimeEnd); endProp != nil {
		if endTime, err := endProp.DateTime(time.UTC); err == nil {
			end = engine.DateOf(endTime)
			if isDateValue(endProp) {
				end = end.AddDays(-1)
			}
			if end.Before(start) {
				end = start
			}
		}
	}

	summary, _ := ev.Props.Text(ical.PropSummary)
	uid, _ := ev.Props.Text(ical.PropUID)

	return engine.Trip{
		ID:    uid,
		Label: strings.TrimSpace(summary),
		Start: start,
		End:   end,
	}, true
}

func isDateValue(p *ical.Prop) bool {
	return p.Params.Get(ical.ParamValue) == string(ical.ValueDate) || len(p.Value) == len(config.DateFormatBasic)
}

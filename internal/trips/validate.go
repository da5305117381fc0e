package trips

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tartampluch/go-ninety/internal/config"
	"github.com/tartampluch/go-ninety/internal/engine"
)

// Sentinel errors for the editing boundary. The engine itself never validates.
var (
	ErrInvalidTrip  = errors.New(config.ErrInvalidTrip)
	ErrTooManyTrips = errors.New(config.ErrTooManyTrips)
)

// Validate reports every malformed trip (missing label, missing start, end before start)
// and lists longer than config.MaxTrips.
func Validate(list []engine.Trip) error {
	var errs []error
	if len(list) > config.MaxTrips {
		errs = append(errs, fmt.Errorf("%w: %d > %d", ErrTooManyTrips, len(list), config.MaxTrips))
	}
	for i, t := range list {
		if err := validateTrip(t); err != nil {
			errs = append(errs, fmt.Errorf("%w #%d (%s): %w", ErrInvalidTrip, i+1, t.Label, err))
		}
	}
	return errors.Join(errs...)
}

func validateTrip(t engine.Trip) error {
	switch {
	case strings.TrimSpace(t.Label) == "":
		return errors.New(config.ErrTripLabel)
	case t.Start.IsZero():
		return errors.New(config.ErrTripNoStart)
	case t.Inverted():
		return errors.New(config.ErrTripDates)
	default:
		return nil
	}
}

// SortByStart orders trips by start date in place, keeping the relative order of ties.
func SortByStart(list []engine.Trip) {
	slices.SortStableFunc(list, func(a, b engine.Trip) int {
		return a.Start.Compare(b.Start)
	})
}

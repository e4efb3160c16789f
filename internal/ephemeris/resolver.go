package ephemeris

import (
	"errors"
	"fmt"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/planetelements"

	"tarot-bot/internal/models"
)

// ErrOutOfRange is returned for instants the orbital model does not cover.
var ErrOutOfRange = errors.New("date outside the supported ephemeris range")

// ResolveAt accepts instants from rangeStart to rangeEnd inclusive.
var (
	rangeStart = time.Date(1800, time.January, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd   = time.Date(2100, time.December, 31, 23, 59, 59, 0, time.UTC)
)

// Resolver computes geocentric zodiac placements for the tracked bodies.
// It keeps no state and is safe for concurrent use.
type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve returns one Position per tracked body, Sun first and Saturn last.
func (r *Resolver) Resolve(q models.BirthQuery) ([]Position, error) {
	return r.ResolveAt(q.Time())
}

// ResolveAt is Resolve for an arbitrary instant.
func (r *Resolver) ResolveAt(t time.Time) ([]Position, error) {
	t = t.UTC()
	if t.Before(rangeStart) || t.After(rangeEnd) {
		return nil, fmt.Errorf("%w: %s (supported %s .. %s)", ErrOutOfRange,
			t.Format("2006-01-02 15:04"), rangeStart.Format("2006-01-02"), rangeEnd.Format("2006-01-02"))
	}

	jde := julianEphemerisDay(t)
	longitudes := [len(bodies)]float64{
		Sun:     sunLongitude(jde),
		Moon:    moonLongitude(jde),
		Mercury: planetLongitude(planetelements.Mercury, jde),
		Venus:   planetLongitude(planetelements.Venus, jde),
		Mars:    planetLongitude(planetelements.Mars, jde),
		Jupiter: planetLongitude(planetelements.Jupiter, jde),
		Saturn:  planetLongitude(planetelements.Saturn, jde),
	}

	positions := make([]Position, len(bodies))
	for i, body := range bodies {
		positions[i] = NewPosition(body, longitudes[i])
	}
	return positions, nil
}

// julianEphemerisDay treats UTC as dynamical time; the difference (about a
// minute) is far below sign precision.
func julianEphemerisDay(t time.Time) float64 {
	return julian.TimeToJD(t)
}

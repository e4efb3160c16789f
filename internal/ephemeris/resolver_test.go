package ephemeris

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarot-bot/internal/models"
)

func TestResolveInvariants(t *testing.T) {
	r := NewResolver()
	q, err := models.ParseBirthQuery("12.03.1995, 14:45, Moscow")
	require.NoError(t, err)

	first, err := r.Resolve(q)
	require.NoError(t, err)
	second, err := r.Resolve(q)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, first, 7)

	wantOrder := []string{"Sun", "Moon", "Mercury", "Venus", "Mars", "Jupiter", "Saturn"}
	for i, p := range first {
		assert.Equal(t, wantOrder[i], p.Body.Name)
		assert.GreaterOrEqual(t, p.Degree, 0.0)
		assert.Less(t, p.Degree, 30.0)
		assert.GreaterOrEqual(t, p.Sign.Index, 0)
		assert.LessOrEqual(t, p.Sign.Index, 11)
	}

	// A week and a half before the equinox the Sun is late in Pisces.
	assert.Equal(t, "Pisces", first[Sun].Sign.Name)
	assert.InDelta(t, 21.5, first[Sun].Degree, 1.0)
}

func TestResolveJ2000Epoch(t *testing.T) {
	positions, err := NewResolver().ResolveAt(time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.InDelta(t, 280.4, positions[Sun].Longitude, 0.1)
	assert.Equal(t, "Capricorn", positions[Sun].Sign.Name)
	assert.InDelta(t, 223.3, positions[Moon].Longitude, 0.5)
	assert.Equal(t, "Scorpio", positions[Moon].Sign.Name)
	assert.Equal(t, "Aries", positions[Jupiter].Sign.Name)
	assert.Equal(t, "Taurus", positions[Saturn].Sign.Name)
}

func TestResolveSweepStaysInRange(t *testing.T) {
	r := NewResolver()
	start := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 300; i++ {
		at := start.Add(time.Duration(i) * 2923 * time.Hour)
		positions, err := r.ResolveAt(at)
		require.NoError(t, err, at)
		for _, p := range positions {
			require.GreaterOrEqual(t, p.Longitude, 0.0)
			require.Less(t, p.Longitude, 360.0)
			require.Less(t, p.Degree, 30.0)
		}
	}
}

func TestResolveOutOfRange(t *testing.T) {
	r := NewResolver()
	for _, text := range []string{"31.12.1799, 23:59, Paris", "01.01.1700, 12:00, Paris", "01.01.2101, 00:00, Paris"} {
		q, err := models.ParseBirthQuery(text)
		require.NoError(t, err)

		_, err = r.Resolve(q)
		assert.True(t, errors.Is(err, ErrOutOfRange), text)
	}
}

func TestResolveRangeEdges(t *testing.T) {
	r := NewResolver()
	for _, at := range []time.Time{rangeStart, rangeEnd, time.Date(2052, 6, 1, 12, 0, 0, 0, time.UTC)} {
		positions, err := r.ResolveAt(at)
		require.NoError(t, err, at)
		assert.Len(t, positions, 7)
	}
}

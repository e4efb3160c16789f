package ephemeris

import (
	"fmt"
	"math"
	"strings"
)

// Position is the placement of one body at the queried instant.
type Position struct {
	Body      Body
	Longitude float64 // ecliptic longitude, [0, 360)
	Sign      Sign
	Degree    float64 // degrees within Sign, [0, 30)
}

// NewPosition places a body at the given ecliptic longitude.
func NewPosition(body Body, longitude float64) Position {
	lon := normalize(longitude)
	idx := int(lon / 30)
	if idx > 11 {
		idx = 11
	}
	return Position{
		Body:      body,
		Longitude: lon,
		Sign:      signs[idx],
		Degree:    lon - float64(idx)*30,
	}
}

func (p Position) String() string {
	return fmt.Sprintf("%s: %.1f° in %s", p.Body.Name, p.Degree, p.Sign.Name)
}

// Localized renders the line used in chart prompts.
func (p Position) Localized() string {
	return fmt.Sprintf("%s: %.1f° в знаке %s", p.Body.Display, p.Degree, p.Sign.Display)
}

// FormatPositions joins the localized lines, one body per line.
func FormatPositions(positions []Position) string {
	lines := make([]string, len(positions))
	for i, p := range positions {
		lines[i] = p.Localized()
	}
	return strings.Join(lines, "\n")
}

func normalize(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// -1e-15 + 360 rounds to 360.
	if deg >= 360 {
		deg = 0
	}
	return deg
}

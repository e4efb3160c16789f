package ephemeris

import (
	"math"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/kepler"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/planetelements"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"
)

// generalPrecession is the precession in ecliptic longitude, degrees per Julian century.
const generalPrecession = 5029.0966 / 3600

// lightTimePerAU is the light travel time over one astronomical unit, in days.
const lightTimePerAU = 0.0057755183

// toJ2000 refers a longitude measured from the mean equinox of date to the
// J2000 equinox, in degrees.
func toJ2000(lon unit.Angle, jde float64) float64 {
	return lon.Deg() - generalPrecession*base.J2000Century(jde)
}

func sunLongitude(jde float64) float64 {
	s, _ := solar.True(base.J2000Century(jde))
	return toJ2000(s, jde)
}

func moonLongitude(jde float64) float64 {
	λ, _, _ := moonposition.Position(jde)
	return toJ2000(λ, jde)
}

type vec3 struct{ x, y, z float64 }

func (v vec3) sub(o vec3) vec3 { return vec3{v.x - o.x, v.y - o.y, v.z - o.z} }

func (v vec3) norm() float64 { return math.Sqrt(v.x*v.x + v.y*v.y + v.z*v.z) }

// heliocentric returns the planet's position in AU from its mean orbit,
// ecliptic and mean equinox of date.
func heliocentric(planet int, jde float64) vec3 {
	var el planetelements.Elements
	planetelements.Mean(planet, jde, &el)

	M := unit.Angle(math.Remainder((el.Lon - el.Peri).Rad(), 2*math.Pi))
	E := kepler.Kepler3(el.Ecc, M)
	ν := kepler.True(E, el.Ecc)
	r := kepler.Radius(E, el.Ecc, el.Axis)

	// Argument of latitude.
	u := (ν + el.Peri - el.Node).Rad()
	sΩ, cΩ := math.Sincos(el.Node.Rad())
	su, cu := math.Sincos(u)
	si, ci := math.Sincos(el.Inc.Rad())

	return vec3{
		x: r * (cΩ*cu - sΩ*su*ci),
		y: r * (sΩ*cu + cΩ*su*ci),
		z: r * su * si,
	}
}

// planetLongitude returns the geocentric J2000 longitude of planet in degrees,
// corrected for light time.
func planetLongitude(planet int, jde float64) float64 {
	earth := heliocentric(planetelements.Earth, jde)
	d := heliocentric(planet, jde).sub(earth)
	d = heliocentric(planet, jde-lightTimePerAU*d.norm()).sub(earth)

	lon := unit.Angle(math.Atan2(d.y, d.x))
	return toJ2000(lon, jde)
}

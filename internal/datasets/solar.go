package datasets

import (
	"fmt"
	"math"
	"strings"
)

// Orientation is a compass direction of a surface, clockwise from north.
type Orientation int

// Orientations in the order used by scenario records.
const (
	North Orientation = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

//nolint:gochecknoglobals // Fixed lookup table.
var orientationNames = [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// String returns the short compass name.
func (o Orientation) String() string {
	if o < North || o > NorthWest {
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
	return orientationNames[o]
}

// ParseOrientation accepts a compass name such as "SE", case-insensitively.
func ParseOrientation(s string) (Orientation, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for i, name := range orientationNames {
		if upper == name {
			return Orientation(i), nil
		}
	}
	return North, fmt.Errorf("unknown orientation %q", s)
}

// Valid reports whether o is one of the eight compass points.
func (o Orientation) Valid() bool { return o >= North && o <= NorthWest }

// solarDeclination is the monthly solar declination in degrees.
//
//nolint:gochecknoglobals // Fixed methodology tables.
var solarDeclination = [12]float64{-20.7, -12.8, -1.8, 9.8, 18.8, 23.1, 21.2, 13.7, 2.9, -8.7, -18.4, -23.0}

// inclinedSurfaceK holds k1..k9 for the five orientation classes N, NE/NW,
// E/W, SE/SW and S.
//
//nolint:gochecknoglobals // Fixed methodology tables.
var inclinedSurfaceK = [5][9]float64{
	{26.3, -38.5, 14.8, -16.5, 27.3, -11.9, -1.06, 0.0872, -0.191},
	{0.165, -3.68, 3.0, 6.38, -4.53, -0.405, -4.38, 4.89, -1.99},
	{1.44, -2.36, 1.07, -0.514, 1.89, -1.64, -0.542, -0.757, 0.604},
	{-2.95, 2.89, 1.17, 5.67, -3.54, -4.28, -2.72, -0.25, 3.07},
	{-0.66, -0.106, 2.93, 3.63, -0.374, -7.4, -2.71, -0.991, 4.59},
}

// orientationClass folds the eight compass points onto the five k columns.
func orientationClass(o Orientation) int {
	switch o {
	case North:
		return 0
	case NorthEast, NorthWest:
		return 1
	case East, West:
		return 2
	case SouthEast, SouthWest:
		return 3
	default:
		return 4
	}
}

// SolarDeclination returns the declination for month m (0–11) in degrees.
func SolarDeclination(m int) float64 {
	return solarDeclination[m]
}

// SolarRadiationOnSurface returns the mean solar flux in W/m² on a surface of
// the given orientation and tilt (degrees from horizontal) for month m.
func SolarRadiationOnSurface(r Region, o Orientation, tiltDegrees float64, m int) float64 {
	k := inclinedSurfaceK[orientationClass(o)]
	s := math.Sin(tiltDegrees * math.Pi / 360) // sin(p/2)
	s2 := s * s
	s3 := s2 * s

	a := k[0]*s3 + k[1]*s2 + k[2]*s
	b := k[3]*s3 + k[4]*s2 + k[5]*s
	c := k[6]*s3 + k[7]*s2 + k[8]*s + 1

	cosLatDec := math.Cos((Latitude(r) - solarDeclination[m]) * math.Pi / 180)
	factor := a*cosLatDec*cosLatDec + b*cosLatDec + c

	return HorizontalSolar(r, m) * factor
}

// AnnualSolarRadiation returns the annual solar energy in kWh/m² on a surface.
func AnnualSolarRadiation(r Region, o Orientation, tiltDegrees float64) float64 {
	total := 0.0
	for m := range 12 {
		total += SolarRadiationOnSurface(r, o, tiltDegrees, m) * 0.024 * float64(DaysInMonth(m))
	}
	return total
}

//nolint:gochecknoglobals // Fixed calendar.
var daysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysInMonth returns the methodology day count for month m (0–11).
func DaysInMonth(m int) int {
	return daysInMonth[m]
}

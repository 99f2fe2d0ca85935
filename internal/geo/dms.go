// Package geo carries the map projection handling: proj.4 construction,
// packed DMS angles and geographic bounds resolution.
package geo

import "math"

// DegToDMS packs decimal degrees into the DDDMMMSSS.SS angle form used by
// the projection parameter array: sign * (deg*1e6 + min*1e3 + sec).
func DegToDMS(deg float64) float64 {
	sign := 1.0
	if deg < 0 {
		sign = -1.0
		deg = -deg
	}

	d := math.Floor(deg)
	rem := (deg - d) * 60.0
	m := math.Floor(rem)
	s := (rem - m) * 60.0

	// Guard against 60.0 seconds from floating point carry.
	if s >= 60.0-1e-9 {
		s = 0
		m++
	}
	if m >= 60 {
		m = 0
		d++
	}

	return sign * (d*1000000.0 + m*1000.0 + s)
}

// DMSToDeg unpacks a packed DDDMMMSSS.SS angle into decimal degrees.
func DMSToDeg(dms float64) float64 {
	sign := 1.0
	if dms < 0 {
		sign = -1.0
		dms = -dms
	}

	d := math.Floor(dms / 1000000.0)
	dms -= d * 1000000.0
	m := math.Floor(dms / 1000.0)
	s := dms - m*1000.0

	return sign * (d + m/60.0 + s/3600.0)
}

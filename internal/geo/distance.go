// Package geo computes surface distances for the check-in geofence.
package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// EarthRadiusMeters is the mean Earth radius used by Distance.
const EarthRadiusMeters = 6371000.0

// MaxCheckInDistance is the default geofence radius in meters.
const MaxCheckInDistance = 50.0

var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Latitude  float64
	Longitude float64
}

func (p Point) validate() error {
	if math.IsNaN(p.Latitude) || math.IsNaN(p.Longitude) ||
		math.IsInf(p.Latitude, 0) || math.IsInf(p.Longitude, 0) {
		return fmt.Errorf("%w: (%v, %v) is not finite", ErrInvalidCoordinate, p.Latitude, p.Longitude)
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidCoordinate, p.Latitude)
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidCoordinate, p.Longitude)
	}
	return nil
}

// Distance returns the great-circle (haversine) distance between a and b in
// meters, measured on a sphere of EarthRadiusMeters.
func Distance(a, b Point) (float64, error) {
	if err := a.validate(); err != nil {
		return 0, err
	}
	if err := b.validate(); err != nil {
		return 0, err
	}

	// orb measures on the equatorial radius; haversine is linear in the radius.
	d := orbgeo.DistanceHaversine(a.orb(), b.orb()) * EarthRadiusMeters / orb.EarthRadius
	if math.IsNaN(d) {
		return 0, fmt.Errorf("%w: no distance between (%v, %v) and (%v, %v)",
			ErrInvalidCoordinate, a.Latitude, a.Longitude, b.Latitude, b.Longitude)
	}
	return d, nil
}

func (p Point) orb() orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}

package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"p9e.in/leakwatch/models"
)

// ValidateCoordinate checks lat/lng ranges.
func ValidateCoordinate(c models.Coordinates) error {
	// Latitude must be between -90 and 90
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %.6f is out of valid range [-90, 90]", c.Lat)
	}

	// Longitude must be between -180 and 180
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("longitude %.6f is out of valid range [-180, 180]", c.Lng)
	}

	return nil
}

// ToPoint converts to an orb point (lng, lat order).
func ToPoint(c models.Coordinates) orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

// ParseBBox parses "minLng,minLat,maxLng,maxLat".
func ParseBBox(s string) (orb.Bound, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return orb.Bound{}, errors.New("bbox must be minLng,minLat,maxLng,maxLat")
	}

	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return orb.Bound{}, fmt.Errorf("bbox value %d: %w", i, err)
		}
		v[i] = f
	}

	min := models.Coordinates{Lng: v[0], Lat: v[1]}
	max := models.Coordinates{Lng: v[2], Lat: v[3]}
	for _, c := range []models.Coordinates{min, max} {
		if err := ValidateCoordinate(c); err != nil {
			return orb.Bound{}, err
		}
	}
	if min.Lng > max.Lng || min.Lat > max.Lat {
		return orb.Bound{}, errors.New("bbox min corner must not exceed max corner")
	}

	return orb.Bound{Min: ToPoint(min), Max: ToPoint(max)}, nil
}

// LeaksToFeatureCollection renders leaks as GeoJSON points. When bound is
// non-nil only leaks inside it are included.
func LeaksToFeatureCollection(leaks []models.Leak, bound *orb.Bound) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i := range leaks {
		l := &leaks[i]
		pt := ToPoint(l.Point())
		if bound != nil && !bound.Contains(pt) {
			continue
		}

		f := geojson.NewFeature(pt)
		f.ID = l.ID
		f.Properties["id"] = l.ID
		f.Properties["title"] = l.Title
		f.Properties["location"] = l.Location
		f.Properties["status"] = l.Status
		f.Properties["leakType"] = l.LeakType
		f.Properties["severity"] = l.Severity
		f.Properties["isValidated"] = l.IsValidated
		fc.Append(f)
	}
	return fc
}

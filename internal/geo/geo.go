// Package geo computes crow-flies distances between coordinates.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius used by Distance.
const EarthRadiusKm = 6371.0

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat  float64 `json:"lat" yaml:"lat"`
	Long float64 `json:"long" yaml:"long"`
}

// Valid reports whether p holds finite, in-range coordinates.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Long) || math.IsInf(p.Lat, 0) || math.IsInf(p.Long, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Long >= -180 && p.Long <= 180
}

func (p Point) String() string {
	return fmt.Sprintf("%.5f, %.5f", p.Lat, p.Long)
}

// Distance returns the great-circle distance between a and b in kilometers,
// rounded to one decimal place. NaN coordinates yield NaN.
func Distance(a, b Point) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLong := radians(b.Long - a.Long)
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)

	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Pow(math.Sin(dLong/2), 2)*math.Cos(lat1)*math.Cos(lat2)
	d := 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
	return math.Round(d*10) / 10
}

// FormatKm renders a distance for display.
func FormatKm(d float64) string {
	if math.IsNaN(d) {
		return "? km"
	}
	return fmt.Sprintf("%.1f km", d)
}

func radians(deg float64) float64 { return deg * math.Pi / 180.0 }

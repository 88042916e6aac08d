package spatial

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"smartroad-be/models"
)

// ServiceArea is the region the map is locked to (Telangana).
var ServiceArea = orb.Bound{
	Min: orb.Point{77.0, 15.8},
	Max: orb.Point{81.3, 19.6},
}

// DefaultCenter is Hyderabad, the initial map center.
var DefaultCenter = models.Position{17.385, 78.4867}

// ToPoint converts a [lat, lng] position into an orb point (lng, lat).
func ToPoint(p models.Position) orb.Point {
	return orb.Point{p.Lng(), p.Lat()}
}

// InServiceArea reports whether p falls inside ServiceArea.
func InServiceArea(p models.Position) bool {
	return ServiceArea.Contains(ToPoint(p))
}

// Distance is the haversine distance between a and b in meters.
func Distance(a, b models.Position) float64 {
	return geo.DistanceHaversine(ToPoint(a), ToPoint(b))
}

// DistanceToPath returns the shortest distance in meters from p to the polyline.
// Segments are measured on a local equirectangular projection centered on p,
// which is accurate to well under a meter at hazard-radius scale.
func DistanceToPath(p models.Position, path []models.Position) float64 {
	switch len(path) {
	case 0:
		return math.Inf(1)
	case 1:
		return Distance(p, path[0])
	}

	best := math.Inf(1)
	for i := 0; i+1 < len(path); i++ {
		if d := distanceToSegment(p, path[i], path[i+1]); d < best {
			best = d
		}
	}
	return best
}

// Near reports whether p lies within radius meters of the polyline. A padded
// bounding box rejects far points before any segment math.
func Near(p models.Position, path []models.Position, radius float64) bool {
	if len(path) == 0 {
		return false
	}
	if !geo.BoundPad(PathBound(path), radius).Contains(ToPoint(p)) {
		return false
	}
	return DistanceToPath(p, path) <= radius
}

// PathLength is the haversine length of the polyline in meters.
func PathLength(path []models.Position) float64 {
	return geo.LengthHaversine(toLineString(path))
}

// PathBound is the bounding box of the polyline.
func PathBound(path []models.Position) orb.Bound {
	return toLineString(path).Bound()
}

func toLineString(path []models.Position) orb.LineString {
	ls := make(orb.LineString, len(path))
	for i, p := range path {
		ls[i] = ToPoint(p)
	}
	return ls
}

func distanceToSegment(p, a, b models.Position) float64 {
	lat0 := p.Lat() * math.Pi / 180
	kx := math.Cos(lat0) * orb.EarthRadius * math.Pi / 180
	ky := orb.EarthRadius * math.Pi / 180

	ax, ay := (a.Lng()-p.Lng())*kx, (a.Lat()-p.Lat())*ky
	bx, by := (b.Lng()-p.Lng())*kx, (b.Lat()-p.Lat())*ky

	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	t := 0.0
	if lenSq > 0 {
		t = -(ax*dx + ay*dy) / lenSq
		t = math.Max(0, math.Min(1, t))
	}
	cx, cy := ax+t*dx, ay+t*dy
	return math.Hypot(cx, cy)
}

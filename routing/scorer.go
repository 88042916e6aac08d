package routing

import (
	"math"

	"smartroad-be/models"
	"smartroad-be/spatial"
)

const (
	maxSafety        = 5.0
	safetyPerPenalty = 0.25
)

// Scorer rates candidate routes against verified hazards.
type Scorer struct {
	radiusMeters float64
}

// NewScorer creates a scorer that counts hazards within radiusMeters of a route.
func NewScorer(radiusMeters float64) *Scorer {
	return &Scorer{radiusMeters: radiusMeters}
}

// Score turns a candidate into a Route with its hazard penalty and safety rating.
// Only verified hazards count.
func (s *Scorer) Score(c Candidate, hazards []models.IssueReport) models.Route {
	route := models.Route{
		Geometry:        c.Geometry,
		DistanceMeters:  c.DistanceMeters,
		DurationSeconds: c.DurationSeconds,
		DurationMinutes: int(math.Round(c.DurationSeconds / 60)),
	}

	for _, h := range hazards {
		if h.Status != models.Verified {
			continue
		}
		if !spatial.Near(h.Position, c.Geometry, s.radiusMeters) {
			continue
		}
		route.HazardCount++
		route.HazardPenalty += h.Type.Weight()
		route.Hazards = append(route.Hazards, h.ID)
	}

	route.Safety = SafetyRating(route.HazardPenalty)
	return route
}

// SafetyRating maps a hazard penalty onto the 0-5 scale, one decimal.
func SafetyRating(penalty float64) float64 {
	rating := maxSafety - penalty*safetyPerPenalty
	rating = math.Max(0, math.Min(maxSafety, rating))
	return math.Round(rating*10) / 10
}

// pickFastest returns the index of the shortest route by duration, breaking
// ties by lower penalty.
func pickFastest(routes []models.Route) int {
	best := 0
	for i := 1; i < len(routes); i++ {
		r, b := routes[i], routes[best]
		if r.DurationSeconds < b.DurationSeconds ||
			(r.DurationSeconds == b.DurationSeconds && r.HazardPenalty < b.HazardPenalty) {
			best = i
		}
	}
	return best
}

// pickSafest returns the index of the route with the lowest penalty, breaking
// ties by duration.
func pickSafest(routes []models.Route) int {
	best := 0
	for i := 1; i < len(routes); i++ {
		r, b := routes[i], routes[best]
		if r.HazardPenalty < b.HazardPenalty ||
			(r.HazardPenalty == b.HazardPenalty && r.DurationSeconds < b.DurationSeconds) {
			best = i
		}
	}
	return best
}

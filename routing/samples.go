package routing

import (
	"smartroad-be/models"
	"smartroad-be/spatial"
)

// Sample trip used when the routing API cannot answer. These are the demo
// routes across central Hyderabad.
var (
	sampleStart = models.Position{17.385044, 78.486671}
	sampleEnd   = models.Position{17.4, 78.5}
)

func sampleCandidates() []Candidate {
	fastest := []models.Position{
		{17.385044, 78.486671},
		{17.392, 78.49},
		{17.4, 78.5},
	}
	safest := []models.Position{
		{17.385044, 78.486671},
		{17.382, 78.495},
		{17.378, 78.505},
		{17.372, 78.515},
	}
	return []Candidate{
		{Geometry: fastest, DistanceMeters: spatial.PathLength(fastest), DurationSeconds: 18 * 60},
		{Geometry: safest, DistanceMeters: spatial.PathLength(safest), DurationSeconds: 22 * 60},
	}
}

package models

// Route is one candidate path between two points, scored against known hazards.
type Route struct {
	Geometry        []Position `json:"geometry"`
	DistanceMeters  float64    `json:"distanceMeters"`
	DurationSeconds float64    `json:"durationSeconds"`
	DurationMinutes int        `json:"timeMin"`
	HazardCount     int        `json:"hazardCount"`
	HazardPenalty   float64    `json:"hazardPenalty"`
	Safety          float64    `json:"safety"`
	Hazards         []string   `json:"hazards,omitempty"`
}

// RouteComparison is the fastest vs safest answer for a trip.
type RouteComparison struct {
	From         Position `json:"from"`
	To           Position `json:"to"`
	Fastest      Route    `json:"fastest"`
	Safest       Route    `json:"safest"`
	Alternatives []Route  `json:"alternatives"`
	Fallback     bool     `json:"fallback"`
}

// Place is a geocoding suggestion.
type Place struct {
	DisplayName string   `json:"displayName"`
	Position    Position `json:"position"`
	Type        string   `json:"type,omitempty"`
	Importance  float64  `json:"importance,omitempty"`
}

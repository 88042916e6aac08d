package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// HazardType enum
type HazardType string

const (
	Pothole      HazardType = "pothole"
	Crack        HazardType = "crack"
	Construction HazardType = "construction"
	Flood        HazardType = "flood"
	LowLight     HazardType = "lowlight"
	Accident     HazardType = "accident"
	SpeedBreaker HazardType = "speedbreaker"
	Blockage     HazardType = "blockage"
	Debris       HazardType = "debris"
	Signal       HazardType = "signal"
	Signage      HazardType = "signage"
)

// ReportStatus enum
type ReportStatus string

const (
	Pending  ReportStatus = "pending"
	Verified ReportStatus = "verified"
	Rejected ReportStatus = "rejected"
)

// HazardInfo describes how a hazard type is labelled, drawn and weighed.
type HazardInfo struct {
	Type   HazardType `json:"type"`
	Label  string     `json:"label"`
	Color  string     `json:"color"`
	Weight float64    `json:"weight"`
}

const unknownHazardColor = "#111827"

var hazardTypes = []HazardInfo{
	{Type: Pothole, Label: "Pothole", Color: "#ef4444", Weight: 1.0},
	{Type: Crack, Label: "Crack", Color: "#f97316", Weight: 0.5},
	{Type: Construction, Label: "Road Construction", Color: "#f59e0b", Weight: 1.5},
	{Type: Flood, Label: "Flood", Color: "#3b82f6", Weight: 2.0},
	{Type: LowLight, Label: "Low Light", Color: "#6b7280", Weight: 1.0},
	{Type: Accident, Label: "Accident", Color: "#e11d48", Weight: 2.0},
	{Type: SpeedBreaker, Label: "Speed Breaker", Color: "#10b981", Weight: 0.5},
	{Type: Blockage, Label: "Blockage", Color: "#9333ea", Weight: 2.0},
	{Type: Debris, Label: "Debris", Color: "#14b8a6", Weight: 1.0},
	{Type: Signal, Label: "Faulty Signal", Color: "#dc2626", Weight: 1.0},
	{Type: Signage, Label: "Missing Signage", Color: "#8b5cf6", Weight: 0.5},
}

// HazardTypes returns every known hazard type in display order.
func HazardTypes() []HazardInfo {
	out := make([]HazardInfo, len(hazardTypes))
	copy(out, hazardTypes)
	return out
}

func lookupHazard(t HazardType) (HazardInfo, bool) {
	for _, h := range hazardTypes {
		if h.Type == t {
			return h, true
		}
	}
	return HazardInfo{}, false
}

func (t HazardType) Valid() bool {
	_, ok := lookupHazard(t)
	return ok
}

// Color is the map marker color for the type.
func (t HazardType) Color() string {
	if h, ok := lookupHazard(t); ok {
		return h.Color
	}
	return unknownHazardColor
}

// Weight is the route penalty contributed by one hazard of this type.
func (t HazardType) Weight() float64 {
	if h, ok := lookupHazard(t); ok {
		return h.Weight
	}
	return 1.0
}

func (s ReportStatus) Valid() bool {
	switch s {
	case Pending, Verified, Rejected:
		return true
	}
	return false
}

// Position is a [lat, lng] pair, latitude first.
type Position [2]float64

func (p Position) Lat() float64 { return p[0] }
func (p Position) Lng() float64 { return p[1] }

// UnmarshalJSON requires exactly two numbers. A fixed-size array would
// silently zero-fill null, [] or [lat].
func (p *Position) UnmarshalJSON(data []byte) error {
	var coords []float64
	if err := json.Unmarshal(data, &coords); err != nil {
		return fmt.Errorf("position must be [lat, lng]: %w", err)
	}
	if len(coords) != 2 {
		return fmt.Errorf("position must be [lat, lng], got %d values", len(coords))
	}
	p[0], p[1] = coords[0], coords[1]
	return nil
}

// Valid reports whether p is a real coordinate.
func (p Position) Valid() bool {
	return p[0] >= -90 && p[0] <= 90 && p[1] >= -180 && p[1] <= 180
}

// IssueReport represents a road hazard reported by a user
type IssueReport struct {
	ID         string       `bson:"_id" json:"id"`
	Type       HazardType   `bson:"type" json:"type"`
	Status     ReportStatus `bson:"status" json:"status"`
	Position   Position     `bson:"position" json:"position"`
	PhotoURL   *string      `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	CreatedAt  int64        `bson:"createdAt" json:"createdAt"`
	ReportedBy string       `bson:"reportedBy,omitempty" json:"reportedBy,omitempty"`
	ReviewedBy string       `bson:"reviewedBy,omitempty" json:"reviewedBy,omitempty"`
	ReviewedAt *int64       `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
}

// Public strips reporter and reviewer identities for anonymous readers.
func (r IssueReport) Public() IssueReport {
	r.ReportedBy = ""
	r.ReviewedBy = ""
	r.ReviewedAt = nil
	return r
}

// ReportFilter narrows a report listing. Zero values match everything.
type ReportFilter struct {
	Statuses   []ReportStatus
	Type       HazardType
	ReportedBy string
	Page       int
	Limit      int
}

// ReportCounts summarizes the collection for the admin dashboard.
type ReportCounts struct {
	Total    int64                `json:"total"`
	Pending  int64                `json:"pending"`
	Verified int64                `json:"verified"`
	Rejected int64                `json:"rejected"`
	ByType   map[HazardType]int64 `json:"byType"`
}

// UnixMillis converts t to the createdAt representation.
func UnixMillis(t time.Time) int64 {
	return t.UnixMilli()
}

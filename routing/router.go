// Package routing compares candidate driving routes by travel time and by
// proximity to verified road hazards.
package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"smartroad-be/models"
)

// Candidate is one unscored route returned by a Router.
type Candidate struct {
	Geometry        []models.Position
	DistanceMeters  float64
	DurationSeconds float64
}

// Router finds driving routes between two points.
type Router interface {
	Routes(ctx context.Context, from, to models.Position) ([]Candidate, error)
}

// Waypoint is a trip endpoint given either as coordinates or as free text.
type Waypoint struct {
	Position *models.Position
	Query    string
}

// UnmarshalJSON accepts a [lat, lng] array or a place name string.
func (w *Waypoint) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return fmt.Errorf("waypoint must be [lat, lng] or a place name, got null")
	}

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var pos models.Position
		if err := json.Unmarshal(trimmed, &pos); err != nil {
			return err
		}
		if !pos.Valid() {
			return fmt.Errorf("invalid coordinates %v", pos)
		}
		w.Position = &pos
		w.Query = ""
		return nil
	}

	var query string
	if err := json.Unmarshal(trimmed, &query); err != nil {
		return fmt.Errorf("waypoint must be [lat, lng] or a place name")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return fmt.Errorf("waypoint place name is empty")
	}
	w.Position = nil
	w.Query = query
	return nil
}

// IsZero reports whether the waypoint was never set.
func (w Waypoint) IsZero() bool {
	return w.Position == nil && w.Query == ""
}

// Package geocode resolves place names to coordinates and back.
package geocode

import (
	"context"

	"smartroad-be/models"
)

// Geocoder looks places up by free text or by coordinate.
type Geocoder interface {
	// Search returns up to limit suggestions for a partial place name.
	Search(ctx context.Context, query string, limit int) ([]models.Place, error)

	// Reverse describes the place at p. A zero Place means nothing was found.
	Reverse(ctx context.Context, p models.Position) (models.Place, error)
}

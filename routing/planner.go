package routing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"smartroad-be/apperrors"
	"smartroad-be/geocode"
	"smartroad-be/models"
	"smartroad-be/observability"
	"smartroad-be/store"
)

// Planner resolves trip endpoints, fetches candidate routes and picks the
// fastest and the safest among them.
type Planner struct {
	router   Router
	geocoder geocode.Geocoder
	reports  store.ReportStore
	scorer   *Scorer
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewPlanner wires a planner. geocoder may be nil, in which case text
// waypoints resolve to the sample trip endpoints.
func NewPlanner(router Router, geocoder geocode.Geocoder, reports store.ReportStore, scorer *Scorer, metrics *observability.Metrics, logger *slog.Logger) *Planner {
	return &Planner{
		router:   router,
		geocoder: geocoder,
		reports:  reports,
		scorer:   scorer,
		metrics:  metrics,
		logger:   logger,
	}
}

// Compare scores every candidate route between from and to. When the router
// fails or finds nothing, the sample routes are scored instead and the result
// is marked as a fallback.
func (p *Planner) Compare(ctx context.Context, from, to Waypoint) (*models.RouteComparison, error) {
	if from.IsZero() || to.IsZero() {
		return nil, apperrors.BadRequest("both from and to are required", nil)
	}

	start := p.resolve(ctx, from, sampleStart)
	end := p.resolve(ctx, to, sampleEnd)

	hazards, _, err := p.reports.ListReports(ctx, models.ReportFilter{
		Statuses: []models.ReportStatus{models.Verified},
	})
	if err != nil {
		return nil, fmt.Errorf("load verified hazards: %w", err)
	}

	fallback := false
	candidates, err := p.router.Routes(ctx, start, end)
	if err == nil && len(candidates) == 0 {
		err = errors.New("no routes returned")
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p.logger.Warn("routing unavailable, using sample routes", "error", err)
		candidates = sampleCandidates()
		fallback = true
	}

	routes := make([]models.Route, len(candidates))
	for i, c := range candidates {
		routes[i] = p.scorer.Score(c, hazards)
	}

	p.metrics.RouteComparisons.WithLabelValues(strconv.FormatBool(fallback)).Inc()

	return &models.RouteComparison{
		From:         start,
		To:           end,
		Fastest:      routes[pickFastest(routes)],
		Safest:       routes[pickSafest(routes)],
		Alternatives: routes,
		Fallback:     fallback,
	}, nil
}

// resolve turns a waypoint into coordinates. Place names that cannot be
// geocoded fall back to def.
func (p *Planner) resolve(ctx context.Context, w Waypoint, def models.Position) models.Position {
	if w.Position != nil {
		return *w.Position
	}
	if p.geocoder == nil {
		return def
	}

	places, err := p.geocoder.Search(ctx, w.Query, 1)
	if err != nil {
		p.logger.Warn("geocoding waypoint failed", "query", w.Query, "error", err)
		return def
	}
	if len(places) == 0 {
		p.logger.Info("waypoint not found, using default", "query", w.Query)
		return def
	}
	return places[0].Position
}

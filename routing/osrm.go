package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"smartroad-be/models"
	"smartroad-be/observability"
)

// OSRMClient implements Router against an OSRM HTTP server.
type OSRMClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewOSRMClient creates an OSRM routing client.
func NewOSRMClient(baseURL, userAgent string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *OSRMClient {
	return &OSRMClient{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
		logger:     logger,
	}
}

// Routes asks OSRM for the best driving route and its alternatives.
func (c *OSRMClient) Routes(ctx context.Context, from, to models.Position) ([]Candidate, error) {
	reqURL := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?alternatives=true&overview=full&geometries=geojson",
		c.baseURL, from.Lng(), from.Lat(), to.Lng(), to.Lat())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues("osrm").Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("osrm", "error").Inc()
		return nil, fmt.Errorf("osrm request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.metrics.UpstreamRequests.WithLabelValues("osrm", "error").Inc()
		return nil, fmt.Errorf("osrm API error: status %d: %s", resp.StatusCode, body)
	}

	var result routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("osrm", "error").Inc()
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if result.Code != "Ok" {
		c.metrics.UpstreamRequests.WithLabelValues("osrm", "error").Inc()
		return nil, fmt.Errorf("osrm returned code %q: %s", result.Code, result.Message)
	}

	candidates := make([]Candidate, 0, len(result.Routes))
	for i, r := range result.Routes {
		geometry, ok := r.positions()
		if !ok {
			c.logger.Warn("skipping osrm route without line geometry", "index", i)
			continue
		}
		candidates = append(candidates, Candidate{
			Geometry:        geometry,
			DistanceMeters:  r.Distance,
			DurationSeconds: r.Duration,
		})
	}

	outcome := "success"
	if len(candidates) == 0 {
		outcome = "empty"
	}
	c.metrics.UpstreamRequests.WithLabelValues("osrm", outcome).Inc()
	return candidates, nil
}

// OSRM API response types.

type routeResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Routes  []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Geometry *geojson.Geometry `json:"geometry"`
	Distance float64           `json:"distance"`
	Duration float64           `json:"duration"`
}

// positions flips the GeoJSON [lng, lat] line into [lat, lng] positions.
func (r osrmRoute) positions() ([]models.Position, bool) {
	if r.Geometry == nil {
		return nil, false
	}
	ls, ok := r.Geometry.Geometry().(orb.LineString)
	if !ok || len(ls) < 2 {
		return nil, false
	}
	out := make([]models.Position, len(ls))
	for i, pt := range ls {
		out[i] = models.Position{pt.Lat(), pt.Lon()}
	}
	return out, true
}

package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"smartroad-be/models"
	"smartroad-be/observability"
	"smartroad-be/spatial"
)

// Client implements Geocoder using the Nominatim API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Nominatim geocoding client.
func NewClient(baseURL, userAgent string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
		logger:     logger,
	}
}

// Search runs a forward lookup biased to the service area.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]models.Place, error) {
	b := spatial.ServiceArea
	params := url.Values{
		"q":       {query},
		"format":  {"jsonv2"},
		"limit":   {strconv.Itoa(limit)},
		"viewbox": {fmt.Sprintf("%.4f,%.4f,%.4f,%.4f", b.Min.Lon(), b.Max.Lat(), b.Max.Lon(), b.Min.Lat())},
	}

	var results []place
	found, err := c.get(ctx, "/search", params, &results)
	if err != nil || !found {
		return nil, err
	}

	places := make([]models.Place, 0, len(results))
	for _, r := range results {
		p, ok := r.toPlace()
		if !ok {
			c.logger.Debug("skipping nominatim result with bad coordinates", "display_name", r.DisplayName)
			continue
		}
		places = append(places, p)
	}
	c.observeOutcome(len(places) > 0)
	return places, nil
}

// Reverse describes the place at p.
func (c *Client) Reverse(ctx context.Context, p models.Position) (models.Place, error) {
	params := url.Values{
		"lat":    {strconv.FormatFloat(p.Lat(), 'f', 6, 64)},
		"lon":    {strconv.FormatFloat(p.Lng(), 'f', 6, 64)},
		"format": {"jsonv2"},
	}

	var result place
	found, err := c.get(ctx, "/reverse", params, &result)
	if err != nil || !found {
		return models.Place{}, err
	}

	// Nominatim answers 200 with an "error" field when nothing is there.
	if result.Error != "" {
		c.observeOutcome(false)
		return models.Place{}, nil
	}
	out, ok := result.toPlace()
	c.observeOutcome(ok)
	if !ok {
		return models.Place{}, nil
	}
	return out, nil
}

// get performs the request and decodes JSON into v. found is false when the
// body was empty.
func (c *Client) get(ctx context.Context, path string, params url.Values, v any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues("nominatim").Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("nominatim", "error").Inc()
		return false, fmt.Errorf("nominatim request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.metrics.UpstreamRequests.WithLabelValues("nominatim", "error").Inc()
		return false, fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		if err == io.EOF {
			c.observeOutcome(false)
			return false, nil
		}
		c.metrics.UpstreamRequests.WithLabelValues("nominatim", "error").Inc()
		return false, fmt.Errorf("decode response: %w", err)
	}
	return true, nil
}

func (c *Client) observeOutcome(found bool) {
	outcome := "success"
	if !found {
		outcome = "empty"
	}
	c.metrics.UpstreamRequests.WithLabelValues("nominatim", outcome).Inc()
}

// Nominatim API response types. Coordinates arrive as strings.

type place struct {
	DisplayName string  `json:"display_name"`
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	Type        string  `json:"type"`
	Importance  float64 `json:"importance"`
	Error       string  `json:"error"`
}

func (p place) toPlace() (models.Place, bool) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return models.Place{}, false
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return models.Place{}, false
	}
	pos := models.Position{lat, lon}
	if !pos.Valid() {
		return models.Place{}, false
	}
	return models.Place{
		DisplayName: p.DisplayName,
		Position:    pos,
		Type:        p.Type,
		Importance:  p.Importance,
	}, true
}

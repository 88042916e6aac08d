package geocode

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartroad-be/models"
	"smartroad-be/observability"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
	testUserAgent     = "smartroad-test/1.0"
)

func testClient(baseURL string, timeout time.Duration) *Client {
	return NewClient(baseURL, testUserAgent, timeout, observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_Search_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "charminar", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		assert.Equal(t, "77.0000,19.6000,81.3000,15.8000", r.URL.Query().Get("viewbox"))
		assert.Equal(t, testUserAgent, r.Header.Get("User-Agent"))

		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`[
			{"display_name":"Charminar, Hyderabad","lat":"17.3616","lon":"78.4747","type":"attraction","importance":0.61},
			{"display_name":"Broken","lat":"north","lon":"78.1"}
		]`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	places, err := c.Search(context.Background(), "charminar", 5)
	require.NoError(t, err)

	require.Len(t, places, 1)
	assert.Equal(t, "Charminar, Hyderabad", places[0].DisplayName)
	assert.Equal(t, models.Position{17.3616, 78.4747}, places[0].Position)
	assert.Equal(t, "attraction", places[0].Type)
	assert.Equal(t, 0.61, places[0].Importance)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.UpstreamRequests.WithLabelValues("nominatim", "success")))
}

func TestClient_Search_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	places, err := c.Search(context.Background(), "nowhere at all", 5)
	require.NoError(t, err)
	assert.Empty(t, places)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.UpstreamRequests.WithLabelValues("nominatim", "empty")))
}

func TestClient_Search_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`blocked`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	_, err := c.Search(context.Background(), "charminar", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.UpstreamRequests.WithLabelValues("nominatim", "error")))
}

func TestClient_Search_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL, 50*time.Millisecond)
	_, err := c.Search(context.Background(), "charminar", 5)
	require.Error(t, err)
}

func TestClient_Reverse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "17.385000", r.URL.Query().Get("lat"))
		assert.Equal(t, "78.486700", r.URL.Query().Get("lon"))

		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"display_name":"Abids, Hyderabad","lat":"17.3850","lon":"78.4867","type":"suburb"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	result, err := c.Reverse(context.Background(), models.Position{17.385, 78.4867})
	require.NoError(t, err)
	assert.Equal(t, "Abids, Hyderabad", result.DisplayName)
	assert.Equal(t, "suburb", result.Type)
}

func TestClient_Reverse_UnableToGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"error":"Unable to geocode"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	result, err := c.Reverse(context.Background(), models.Position{0, 0})
	require.NoError(t, err)
	assert.Empty(t, result.DisplayName)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, 72*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "mongo", cfg.StoreDriver)
	assert.Equal(t, "smartroad", cfg.MongoDatabase)
	assert.True(t, cfg.SeedDemoData)
	assert.True(t, cfg.EnforceServiceArea)
	assert.Equal(t, 20, cfg.ReportDailyLimit)
	assert.Equal(t, 150.0, cfg.HazardRadiusMeters)
	assert.Equal(t, "https://router.project-osrm.org", cfg.OSRMBaseURL)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.NominatimBaseURL)
	assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 1000, cfg.GeocodeCacheSize)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "road-reports", cfg.KafkaReportsTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("GO_ENV", "production")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("SEED_DEMO_DATA", "false")
	t.Setenv("REPORT_DAILY_LIMIT", "5")
	t.Setenv("HAZARD_RADIUS_METERS", "75.5")
	t.Setenv("OSRM_BASE_URL", "http://osrm.local/")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.SeedDemoData)
	assert.Equal(t, 5, cfg.ReportDailyLimit)
	assert.Equal(t, 75.5, cfg.HazardRadiusMeters)
	assert.Equal(t, "http://osrm.local", cfg.OSRMBaseURL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		msg  string
	}{
		{name: "missing secret", env: map[string]string{"STORE_DRIVER": "memory"}, msg: "JWT_SECRET"},
		{name: "missing mongo uri", env: map[string]string{"JWT_SECRET": testSecret}, msg: "MONGODB_URI"},
		{name: "unknown driver", env: map[string]string{"JWT_SECRET": testSecret, "STORE_DRIVER": "sqlite"}, msg: "STORE_DRIVER"},
		{name: "bad timeout", env: map[string]string{"JWT_SECRET": testSecret, "STORE_DRIVER": "memory", "UPSTREAM_TIMEOUT": "soon"}, msg: "UPSTREAM_TIMEOUT"},
		{name: "bad limit", env: map[string]string{"JWT_SECRET": testSecret, "STORE_DRIVER": "memory", "REPORT_DAILY_LIMIT": "-1"}, msg: "REPORT_DAILY_LIMIT"},
		{name: "bad radius", env: map[string]string{"JWT_SECRET": testSecret, "STORE_DRIVER": "memory", "HAZARD_RADIUS_METERS": "0"}, msg: "HAZARD_RADIUS_METERS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			t.Setenv("MONGODB_URI", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

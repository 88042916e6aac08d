package store

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartroad-be/models"
	"smartroad-be/spatial"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSampleReports(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	reports := SampleReports(now)

	require.Len(t, reports, 20)
	seen := map[string]bool{}
	for _, r := range reports {
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
		assert.Equal(t, models.Verified, r.Status)
		assert.True(t, r.Type.Valid())
		assert.True(t, spatial.InServiceArea(r.Position), r.ID)
		assert.Less(t, r.CreatedAt, models.UnixMillis(now))
	}
	assert.Equal(t, models.UnixMillis(now.Add(-24*time.Hour)), reports[0].CreatedAt)
}

func TestSeed_OnlyIntoEmptyStore(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := NewMemoryStore()

	require.NoError(t, Seed(ctx, s, now, discardLogger()))
	counts, err := s.CountReports(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(20), counts.Verified)

	admin, err := s.FindUserByEmail(ctx, "admin@smartroad.in")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.ComparePassword("Admin@123"))

	user5, err := s.FindUserByEmail(ctx, "user5@smartroad.in")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user5.Role)

	// a second run leaves reports alone and keeps account ids stable
	require.NoError(t, Seed(ctx, s, now, discardLogger()))
	counts, err = s.CountReports(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(20), counts.Total)

	again, err := s.FindUserByEmail(ctx, "admin@smartroad.in")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)
}

func TestDemoAccounts(t *testing.T) {
	accounts := DemoAccounts()
	require.Len(t, accounts, 6)
	assert.Equal(t, models.RoleAdmin, accounts[0].Role)
	assert.Equal(t, "user3@smartroad.in", accounts[3].Email)
}

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartroad-be/apperrors"
	"smartroad-be/models"
)

func newReport(id string, typ models.HazardType, status models.ReportStatus, createdAt int64) *models.IssueReport {
	return &models.IssueReport{
		ID:        id,
		Type:      typ,
		Status:    status,
		Position:  models.Position{17.385, 78.4867},
		CreatedAt: createdAt,
	}
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	photo := "https://img.example/p.jpg"
	r := newReport("r1", models.Pothole, models.Pending, 100)
	r.PhotoURL = &photo
	require.NoError(t, s.CreateReport(ctx, r))

	got, err := s.GetReport(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, models.Pothole, got.Type)
	assert.Equal(t, photo, *got.PhotoURL)

	// returned reports are copies
	*got.PhotoURL = "changed"
	again, err := s.GetReport(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, photo, *again.PhotoURL)

	err = s.CreateReport(ctx, r)
	assert.True(t, apperrors.Is(err, "CONFLICT"))

	_, err = s.GetReport(ctx, "missing")
	assert.True(t, apperrors.Is(err, "NOT_FOUND"))
}

func TestMemoryStore_ListFiltersAndPages(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateReport(ctx, newReport("a", models.Pothole, models.Verified, 100)))
	require.NoError(t, s.CreateReport(ctx, newReport("b", models.Flood, models.Pending, 300)))
	require.NoError(t, s.CreateReport(ctx, newReport("c", models.Pothole, models.Rejected, 200)))
	require.NoError(t, s.CreateReport(ctx, newReport("d", models.Pothole, models.Pending, 400)))

	all, total, err := s.ListReports(ctx, models.ReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Equal(t, []string{"d", "b", "c", "a"}, ids(all))

	open, total, err := s.ListReports(ctx, models.ReportFilter{Statuses: []models.ReportStatus{models.Pending, models.Verified}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []string{"d", "b", "a"}, ids(open))

	potholes, _, err := s.ListReports(ctx, models.ReportFilter{Type: models.Pothole, Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(potholes))

	empty, total, err := s.ListReports(ctx, models.ReportFilter{Page: 5, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.Equal(t, int64(4), total)
}

func TestMemoryStore_UpdateReportStatus(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateReport(ctx, newReport("r1", models.Flood, models.Pending, 100)))

	updated, err := s.UpdateReportStatus(ctx, "r1", models.Pending, models.Verified, "admin@smartroad.in", 500)
	require.NoError(t, err)
	assert.Equal(t, models.Verified, updated.Status)
	assert.Equal(t, "admin@smartroad.in", updated.ReviewedBy)
	require.NotNil(t, updated.ReviewedAt)
	assert.Equal(t, int64(500), *updated.ReviewedAt)

	_, err = s.UpdateReportStatus(ctx, "r1", models.Pending, models.Rejected, "admin@smartroad.in", 600)
	assert.True(t, apperrors.Is(err, "CONFLICT"))

	_, err = s.UpdateReportStatus(ctx, "nope", models.Pending, models.Rejected, "admin@smartroad.in", 600)
	assert.True(t, apperrors.Is(err, "NOT_FOUND"))
}

func TestMemoryStore_CountReports(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateReport(ctx, newReport("a", models.Pothole, models.Verified, 1)))
	require.NoError(t, s.CreateReport(ctx, newReport("b", models.Pothole, models.Pending, 2)))
	require.NoError(t, s.CreateReport(ctx, newReport("c", models.Flood, models.Rejected, 3)))

	counts, err := s.CountReports(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts.Total)
	assert.Equal(t, int64(1), counts.Pending)
	assert.Equal(t, int64(1), counts.Verified)
	assert.Equal(t, int64(1), counts.Rejected)
	assert.Equal(t, int64(2), counts.ByType[models.Pothole])
	assert.Equal(t, int64(1), counts.ByType[models.Flood])
}

func TestMemoryStore_Users(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	u := &models.User{ID: "u1", Email: "User1@SmartRoad.in", Password: "hash", Role: models.RoleUser}
	require.NoError(t, s.CreateUser(ctx, u))
	assert.Equal(t, "user1@smartroad.in", u.Email)

	err := s.CreateUser(ctx, &models.User{ID: "u2", Email: "user1@smartroad.in"})
	assert.True(t, apperrors.Is(err, "CONFLICT"))

	byEmail, err := s.FindUserByEmail(ctx, "USER1@smartroad.in")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.ID)

	byID, err := s.FindUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "user1@smartroad.in", byID.Email)

	_, err = s.FindUserByID(ctx, "u9")
	assert.True(t, apperrors.Is(err, "NOT_FOUND"))

	// upsert keeps the original id
	replacement := &models.User{ID: "u3", Email: "user1@smartroad.in", Password: "new", Role: models.RoleAdmin}
	require.NoError(t, s.UpsertUser(ctx, replacement))
	assert.Equal(t, "u1", replacement.ID)

	stored, err := s.FindUserByEmail(ctx, "user1@smartroad.in")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, stored.Role)
	assert.Equal(t, "new", stored.Password)
}

func TestNormalizePage(t *testing.T) {
	page, limit := NormalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	page, limit = NormalizePage(3, 500)
	assert.Equal(t, 3, page)
	assert.Equal(t, 10, limit)

	_, limit = NormalizePage(1, 100)
	assert.Equal(t, 100, limit)
}

func ids(reports []models.IssueReport) []string {
	out := make([]string, len(reports))
	for i, r := range reports {
		out[i] = r.ID
	}
	return out
}

func TestMemoryStore_ListByReporter(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	mine := newReport("mine", models.Crack, models.Pending, 100)
	mine.ReportedBy = "user1@smartroad.in"
	theirs := newReport("theirs", models.Crack, models.Pending, 200)
	theirs.ReportedBy = "user2@smartroad.in"
	require.NoError(t, s.CreateReport(ctx, mine))
	require.NoError(t, s.CreateReport(ctx, theirs))

	got, total, err := s.ListReports(ctx, models.ReportFilter{ReportedBy: "user1@smartroad.in"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []string{"mine"}, ids(got))
}

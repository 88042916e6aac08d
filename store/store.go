// Package store persists hazard reports and user accounts.
package store

import (
	"context"

	"smartroad-be/models"
)

// ReportStore holds the flat collection of issue reports.
type ReportStore interface {
	CreateReport(ctx context.Context, report *models.IssueReport) error
	GetReport(ctx context.Context, id string) (*models.IssueReport, error)
	// ListReports returns matching reports newest first and the total match count.
	ListReports(ctx context.Context, filter models.ReportFilter) ([]models.IssueReport, int64, error)
	// UpdateReportStatus moves a report from one status to another. It fails with a
	// CONFLICT error when the report is no longer in the from status.
	UpdateReportStatus(ctx context.Context, id string, from, to models.ReportStatus, reviewer string, at int64) (*models.IssueReport, error)
	CountReports(ctx context.Context) (models.ReportCounts, error)
	// SeedReports inserts reports only when the collection is empty.
	SeedReports(ctx context.Context, reports []models.IssueReport) (int, error)
}

// UserStore holds login accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	// UpsertUser creates or replaces the account with the same email.
	UpsertUser(ctx context.Context, user *models.User) error
}

// Store is the full persistence surface used by the API.
type Store interface {
	ReportStore
	UserStore
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

const (
	defaultLimit = 10
	maxLimit     = 100
)

// NormalizePage clamps page and limit the way the listing endpoints expect.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	return page, limit
}

func matchesFilter(r *models.IssueReport, f models.ReportFilter) bool {
	if f.Type != "" && r.Type != f.Type {
		return false
	}
	if f.ReportedBy != "" && r.ReportedBy != f.ReportedBy {
		return false
	}
	if len(f.Statuses) == 0 {
		return true
	}
	for _, s := range f.Statuses {
		if r.Status == s {
			return true
		}
	}
	return false
}

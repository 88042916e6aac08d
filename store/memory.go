package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"smartroad-be/apperrors"
	"smartroad-be/models"
)

// MemoryStore keeps everything in process memory. Last write wins.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]models.IssueReport
	users   map[string]models.User // keyed by lowercased email
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		reports: make(map[string]models.IssueReport),
		users:   make(map[string]models.User),
	}
}

func (s *MemoryStore) CreateReport(_ context.Context, report *models.IssueReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.reports[report.ID]; exists {
		return apperrors.Conflict("report already exists")
	}
	s.reports[report.ID] = cloneReport(*report)
	return nil
}

func (s *MemoryStore) GetReport(_ context.Context, id string) (*models.IssueReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports[id]
	if !ok {
		return nil, apperrors.NotFound("report", nil)
	}
	out := cloneReport(r)
	return &out, nil
}

func (s *MemoryStore) ListReports(_ context.Context, filter models.ReportFilter) ([]models.IssueReport, int64, error) {
	s.mu.RLock()
	matched := make([]models.IssueReport, 0, len(s.reports))
	for _, r := range s.reports {
		if matchesFilter(&r, filter) {
			matched = append(matched, cloneReport(r))
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt != matched[j].CreatedAt {
			return matched[i].CreatedAt > matched[j].CreatedAt
		}
		return matched[i].ID < matched[j].ID
	})

	total := int64(len(matched))
	if filter.Limit <= 0 {
		return matched, total, nil
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * filter.Limit
	if start >= len(matched) {
		return []models.IssueReport{}, total, nil
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (s *MemoryStore) UpdateReportStatus(_ context.Context, id string, from, to models.ReportStatus, reviewer string, at int64) (*models.IssueReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reports[id]
	if !ok {
		return nil, apperrors.NotFound("report", nil)
	}
	if r.Status != from {
		return nil, apperrors.Conflict("report is already " + string(r.Status))
	}

	r.Status = to
	r.ReviewedBy = reviewer
	r.ReviewedAt = &at
	s.reports[id] = r

	out := cloneReport(r)
	return &out, nil
}

func (s *MemoryStore) CountReports(_ context.Context) (models.ReportCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := models.ReportCounts{ByType: make(map[models.HazardType]int64)}
	for _, r := range s.reports {
		counts.Total++
		switch r.Status {
		case models.Pending:
			counts.Pending++
		case models.Verified:
			counts.Verified++
		case models.Rejected:
			counts.Rejected++
		}
		counts.ByType[r.Type]++
	}
	return counts, nil
}

func (s *MemoryStore) SeedReports(_ context.Context, reports []models.IssueReport) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.reports) > 0 {
		return 0, nil
	}
	for _, r := range reports {
		s.reports[r.ID] = cloneReport(r)
	}
	return len(reports), nil
}

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.Email = strings.ToLower(user.Email)
	key := user.Email
	if _, exists := s.users[key]; exists {
		return apperrors.Conflict("user with this email already exists")
	}
	s.users[key] = *user
	return nil
}

func (s *MemoryStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[strings.ToLower(email)]
	if !ok {
		return nil, apperrors.NotFound("user", nil)
	}
	return &u, nil
}

func (s *MemoryStore) FindUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, apperrors.NotFound("user", nil)
}

func (s *MemoryStore) UpsertUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.Email = strings.ToLower(user.Email)
	key := user.Email
	if existing, ok := s.users[key]; ok {
		user.ID = existing.ID
		user.CreatedAt = existing.CreatedAt
	}
	s.users[key] = *user
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close(context.Context) error { return nil }

func cloneReport(r models.IssueReport) models.IssueReport {
	if r.PhotoURL != nil {
		v := *r.PhotoURL
		r.PhotoURL = &v
	}
	if r.ReviewedAt != nil {
		v := *r.ReviewedAt
		r.ReviewedAt = &v
	}
	return r
}

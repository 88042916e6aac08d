package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"smartroad-be/models"
)

// DemoAccount is a seeded login.
type DemoAccount struct {
	Email    string
	Password string
	Role     models.Role
}

// DemoAccounts returns the admin and demo user logins created on first start.
func DemoAccounts() []DemoAccount {
	accounts := []DemoAccount{
		{Email: "admin@smartroad.in", Password: "Admin@123", Role: models.RoleAdmin},
	}
	for i := 1; i <= 5; i++ {
		accounts = append(accounts, DemoAccount{
			Email:    fmt.Sprintf("user%d@smartroad.in", i),
			Password: "User@123",
			Role:     models.RoleUser,
		})
	}
	return accounts
}

type seedPoint struct {
	id  string
	typ models.HazardType
	lat float64
	lng float64
	age time.Duration
}

// Verified sample hazards around Hyderabad, the outer ring road, Khammam and Vikarabad.
var seedPoints = []seedPoint{
	{"hyd-1", models.Pothole, 17.385, 78.4867, 24 * time.Hour},
	{"hyd-2", models.Construction, 17.4005, 78.485, 2 * time.Hour},
	{"hyd-3", models.Flood, 17.395, 78.5, time.Hour},
	{"hyd-4", models.LowLight, 17.38, 78.47, 30 * time.Minute},
	{"orr-1", models.Pothole, 17.45, 78.4, 90 * time.Minute},
	{"orr-2", models.Accident, 17.33, 78.6, 45 * time.Minute},
	{"hyd-5", models.Crack, 17.41, 78.51, 2500 * time.Second},
	{"hyd-6", models.SpeedBreaker, 17.37, 78.49, 2200 * time.Second},
	{"hyd-7", models.Blockage, 17.39, 78.475, 2000 * time.Second},
	{"hyd-8", models.Debris, 17.36, 78.505, 1800 * time.Second},
	{"hyd-9", models.Signal, 17.43, 78.49, 1500 * time.Second},
	{"hyd-10", models.Signage, 17.35, 78.52, 1200 * time.Second},
	{"hyd-11", models.Pothole, 17.442, 78.391, 1100 * time.Second},
	{"hyd-12", models.Accident, 17.429, 78.408, 900 * time.Second},
	{"hyd-13", models.Construction, 17.365, 78.548, 800 * time.Second},
	{"hyd-14", models.Flood, 17.33, 78.52, 700 * time.Second},
	{"rr-3", models.SpeedBreaker, 17.5, 78.35, 600 * time.Second},
	{"rr-4", models.Blockage, 17.29, 78.62, 500 * time.Second},
	{"khm-1", models.Signage, 17.247, 80.151, 400 * time.Second},
	{"kdm-1", models.Debris, 17.26, 78.27, 300 * time.Second},
}

// SampleReports builds the verified seed reports with ages relative to now.
func SampleReports(now time.Time) []models.IssueReport {
	out := make([]models.IssueReport, len(seedPoints))
	for i, p := range seedPoints {
		out[i] = models.IssueReport{
			ID:        p.id,
			Type:      p.typ,
			Status:    models.Verified,
			Position:  models.Position{p.lat, p.lng},
			CreatedAt: models.UnixMillis(now.Add(-p.age)),
		}
	}
	return out
}

// Seed loads the sample reports into an empty store and upserts the demo accounts.
func Seed(ctx context.Context, s Store, now time.Time, logger *slog.Logger) error {
	n, err := s.SeedReports(ctx, SampleReports(now))
	if err != nil {
		return fmt.Errorf("seed reports: %w", err)
	}
	if n > 0 {
		logger.Info("seeded sample reports", "count", n)
	}

	for _, acct := range DemoAccounts() {
		user := &models.User{
			ID:        uuid.NewString(),
			Email:     acct.Email,
			Password:  acct.Password,
			Role:      acct.Role,
			CreatedAt: now,
		}
		if err := user.HashPassword(); err != nil {
			return fmt.Errorf("hash demo password: %w", err)
		}
		if err := s.UpsertUser(ctx, user); err != nil {
			return fmt.Errorf("seed account %s: %w", acct.Email, err)
		}
	}
	logger.Info("demo accounts ready", "count", len(DemoAccounts()))
	return nil
}

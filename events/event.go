// Package events publishes report lifecycle events for downstream consumers.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"smartroad-be/models"
)

// Event types emitted over the life of a report.
const (
	ReportCreated  = "report.created"
	ReportVerified = "report.verified"
	ReportRejected = "report.rejected"
)

// ReportEvent is the message body published for each lifecycle change.
type ReportEvent struct {
	ID         string             `json:"id"`
	EventType  string             `json:"event_type"`
	Report     models.IssueReport `json:"report"`
	Actor      string             `json:"actor,omitempty"`
	OccurredAt time.Time          `json:"occurred_at"`
}

// NewReportEvent stamps an event for report with a fresh id.
func NewReportEvent(eventType string, report models.IssueReport, actor string, at time.Time) ReportEvent {
	return ReportEvent{
		ID:         uuid.NewString(),
		EventType:  eventType,
		Report:     report,
		Actor:      actor,
		OccurredAt: at.UTC(),
	}
}

// ReviewEventType maps a review outcome to its event type.
func ReviewEventType(status models.ReportStatus) string {
	if status == models.Rejected {
		return ReportRejected
	}
	return ReportVerified
}

// Publisher sends report events somewhere.
type Publisher interface {
	Publish(ctx context.Context, event ReportEvent) error
	Close() error
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ReportEvent) error { return nil }
func (NoopPublisher) Close() error                               { return nil }

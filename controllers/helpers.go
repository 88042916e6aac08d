package controllers

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"smartroad-be/events"
	"smartroad-be/middlewares"
)

func currentEmail(c *gin.Context) string {
	return c.GetString(middlewares.ContextEmail)
}

// publish sends a report event. Failures are logged and never fail the request.
func publish(ctx context.Context, publisher events.Publisher, logger *slog.Logger, event events.ReportEvent) {
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("report event not published",
			"event_type", event.EventType,
			"report_id", event.Report.ID,
			"error", err,
		)
	}
}

package controllers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"

	"smartroad-be/apperrors"
	"smartroad-be/events"
	"smartroad-be/models"
	"smartroad-be/observability"
	"smartroad-be/response"
	"smartroad-be/store"
)

// AdminController serves the review dashboard.
type AdminController struct {
	reports   store.ReportStore
	publisher events.Publisher
	metrics   *observability.Metrics
	clock     clockwork.Clock
	logger    *slog.Logger
}

func NewAdminController(reports store.ReportStore, publisher events.Publisher, metrics *observability.Metrics, clock clockwork.Clock, logger *slog.Logger) *AdminController {
	return &AdminController{
		reports:   reports,
		publisher: publisher,
		metrics:   metrics,
		clock:     clock,
		logger:    logger,
	}
}

// ListReports returns all reports with optional status and type filters.
// status accepts a comma separated list.
func (ac *AdminController) ListReports(c *gin.Context) {
	filter, err := parseAdminFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	reports, total, err := ac.reports.ListReports(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewPaginated(nonNil(reports), total, filter.Page, filter.Limit))
}

// Stats summarizes the collection.
func (ac *AdminController) Stats(c *gin.Context) {
	counts, err := ac.reports.CountReports(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// Verify marks a pending report as verified.
func (ac *AdminController) Verify(c *gin.Context) {
	ac.review(c, models.Verified)
}

// Reject marks a pending report as rejected.
func (ac *AdminController) Reject(c *gin.Context) {
	ac.review(c, models.Rejected)
}

func (ac *AdminController) review(c *gin.Context, to models.ReportStatus) {
	ctx := c.Request.Context()
	reviewer := currentEmail(c)
	now := ac.clock.Now()

	report, err := ac.reports.UpdateReportStatus(ctx, c.Param("id"), models.Pending, to, reviewer, models.UnixMillis(now))
	if err != nil {
		response.Error(c, err)
		return
	}

	ac.metrics.ReportsReviewed.WithLabelValues(string(to)).Inc()
	publish(ctx, ac.publisher, ac.logger, events.NewReportEvent(events.ReviewEventType(to), *report, reviewer, now))
	ac.logger.Info("report reviewed", "report_id", report.ID, "status", to, "reviewer", reviewer)

	c.JSON(http.StatusOK, report)
}

// MapReports is the admin map layer: everything except rejected reports.
func (ac *AdminController) MapReports(c *gin.Context) {
	reports, total, err := ac.reports.ListReports(c.Request.Context(), models.ReportFilter{
		Statuses: []models.ReportStatus{models.Pending, models.Verified},
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": nonNil(reports), "total": total})
}

func parseAdminFilter(c *gin.Context) (models.ReportFilter, error) {
	var filter models.ReportFilter

	if raw := c.Query("status"); raw != "" && raw != "all" {
		for _, s := range strings.Split(raw, ",") {
			status := models.ReportStatus(strings.TrimSpace(s))
			if !status.Valid() {
				return filter, apperrors.BadRequest("Unknown status "+string(status), nil)
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	if t := c.Query("type"); t != "" {
		filter.Type = models.HazardType(t)
		if !filter.Type.Valid() {
			return filter, apperrors.BadRequest("Unknown hazard type", nil)
		}
	}

	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	filter.Page, filter.Limit = store.NormalizePage(page, limit)
	return filter, nil
}

package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"smartroad-be/apperrors"
	"smartroad-be/events"
	"smartroad-be/models"
	"smartroad-be/observability"
	"smartroad-be/response"
	"smartroad-be/spatial"
	"smartroad-be/store"
)

// ReportController serves hazard report submission and the public map feed.
type ReportController struct {
	reports            store.ReportStore
	publisher          events.Publisher
	metrics            *observability.Metrics
	clock              clockwork.Clock
	enforceServiceArea bool
	logger             *slog.Logger
}

func NewReportController(reports store.ReportStore, publisher events.Publisher, metrics *observability.Metrics, clock clockwork.Clock, enforceServiceArea bool, logger *slog.Logger) *ReportController {
	return &ReportController{
		reports:            reports,
		publisher:          publisher,
		metrics:            metrics,
		clock:              clock,
		enforceServiceArea: enforceServiceArea,
		logger:             logger,
	}
}

// CreateReport handles the creation of a new hazard report. Reports always
// start out pending.
func (rc *ReportController) CreateReport(c *gin.Context) {
	var input struct {
		Type     models.HazardType `json:"type" binding:"required,hazardtype"`
		Position *models.Position  `json:"position" binding:"required,latlng"`
		PhotoURL *string           `json:"photoUrl" binding:"omitempty,max=2048"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, err)
		return
	}
	if rc.enforceServiceArea && !spatial.InServiceArea(*input.Position) {
		response.Error(c, apperrors.BadRequest("Position is outside the service area", nil))
		return
	}
	if input.PhotoURL != nil && *input.PhotoURL == "" {
		input.PhotoURL = nil
	}

	report := models.IssueReport{
		ID:         uuid.NewString(),
		Type:       input.Type,
		Status:     models.Pending,
		Position:   *input.Position,
		PhotoURL:   input.PhotoURL,
		CreatedAt:  models.UnixMillis(rc.clock.Now()),
		ReportedBy: currentEmail(c),
	}

	ctx := c.Request.Context()
	if err := rc.reports.CreateReport(ctx, &report); err != nil {
		response.Error(c, err)
		return
	}

	rc.metrics.ReportsCreated.WithLabelValues(string(report.Type)).Inc()
	publish(ctx, rc.publisher, rc.logger, events.NewReportEvent(events.ReportCreated, report, report.ReportedBy, rc.clock.Now()))
	rc.logger.Info("report created", "report_id", report.ID, "type", report.Type)

	c.JSON(http.StatusCreated, report)
}

// ListVerified is the public map feed: verified reports only.
func (rc *ReportController) ListVerified(c *gin.Context) {
	filter := models.ReportFilter{Statuses: []models.ReportStatus{models.Verified}}
	if t := c.Query("type"); t != "" {
		filter.Type = models.HazardType(t)
		if !filter.Type.Valid() {
			response.Error(c, apperrors.BadRequest("Unknown hazard type", nil))
			return
		}
	}

	reports, total, err := rc.reports.ListReports(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": publicViews(reports), "total": total})
}

// ListMine returns every report the caller submitted, whatever its status.
func (rc *ReportController) ListMine(c *gin.Context) {
	reports, total, err := rc.reports.ListReports(c.Request.Context(), models.ReportFilter{ReportedBy: currentEmail(c)})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": nonNil(reports), "total": total})
}

// GetReport retrieves a single verified report. Pending and rejected
// reports are only visible through /mine and the admin routes.
func (rc *ReportController) GetReport(c *gin.Context) {
	report, err := rc.reports.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if report.Status != models.Verified {
		response.Error(c, apperrors.NotFound("report", nil))
		return
	}
	c.JSON(http.StatusOK, report.Public())
}

// HazardTypes lists the selectable hazard types with their marker colors.
func HazardTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"types": models.HazardTypes()})
}

const (
	mapZoom        = 10
	mapTileURL     = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	mapAttribution = `&copy; <a href="https://www.openstreetmap.org/" rel="noreferrer" target="_blank">OpenStreetMap</a> contributors`
)

// MapConfig tells map clients where to center and which region to lock to.
func MapConfig(c *gin.Context) {
	b := spatial.ServiceArea
	c.JSON(http.StatusOK, gin.H{
		"center": spatial.DefaultCenter,
		"zoom":   mapZoom,
		"bounds": [2]models.Position{
			{b.Min.Lat(), b.Min.Lon()},
			{b.Max.Lat(), b.Max.Lon()},
		},
		"maxBoundsViscosity": 1.0,
		"tileUrl":            mapTileURL,
		"attribution":        mapAttribution,
	})
}

func publicViews(reports []models.IssueReport) []models.IssueReport {
	out := make([]models.IssueReport, len(reports))
	for i, r := range reports {
		out[i] = r.Public()
	}
	return out
}

func nonNil(reports []models.IssueReport) []models.IssueReport {
	if reports == nil {
		return []models.IssueReport{}
	}
	return reports
}

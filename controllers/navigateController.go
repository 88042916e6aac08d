package controllers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"smartroad-be/apperrors"
	"smartroad-be/geocode"
	"smartroad-be/models"
	"smartroad-be/response"
	"smartroad-be/routing"
)

const (
	minSearchRunes    = 3
	maxSearchResults  = 5
	maxSearchQueryLen = 200
)

// NavigateController serves place search and the fastest vs safest comparison.
type NavigateController struct {
	geocoder geocode.Geocoder
	planner  *routing.Planner
	logger   *slog.Logger
}

func NewNavigateController(geocoder geocode.Geocoder, planner *routing.Planner, logger *slog.Logger) *NavigateController {
	return &NavigateController{geocoder: geocoder, planner: planner, logger: logger}
}

// Search suggests places for a partial query. Short queries and upstream
// failures both yield an empty list.
func (nc *NavigateController) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if utf8.RuneCountInString(q) < minSearchRunes {
		c.JSON(http.StatusOK, gin.H{"results": []models.Place{}})
		return
	}
	if len(q) > maxSearchQueryLen {
		response.Error(c, apperrors.BadRequest("Query is too long", nil))
		return
	}

	places, err := nc.geocoder.Search(c.Request.Context(), q, maxSearchResults)
	if err != nil {
		nc.logger.Warn("place search failed", "query", q, "error", err)
		places = nil
	}
	if places == nil {
		places = []models.Place{}
	}
	c.JSON(http.StatusOK, gin.H{"results": places})
}

// Reverse describes the place at lat/lng.
func (nc *NavigateController) Reverse(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	pos := models.Position{lat, lng}
	if errLat != nil || errLng != nil || !pos.Valid() {
		response.Error(c, apperrors.BadRequest("lat and lng must be valid coordinates", nil))
		return
	}

	place, err := nc.geocoder.Reverse(c.Request.Context(), pos)
	if err != nil {
		response.Error(c, apperrors.Unavailable("Geocoding service unavailable", err))
		return
	}
	if place.DisplayName == "" {
		response.Error(c, apperrors.NotFound("Place", nil))
		return
	}
	c.JSON(http.StatusOK, gin.H{"place": place})
}

// CompareRoutes returns the fastest and the safest route between two points.
func (nc *NavigateController) CompareRoutes(c *gin.Context) {
	var input struct {
		From routing.Waypoint `json:"from"`
		To   routing.Waypoint `json:"to"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := nc.planner.Compare(c.Request.Context(), input.From, input.To)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

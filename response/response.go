// Package response writes JSON bodies for API handlers.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"smartroad-be/apperrors"
)

// Paginated is the body of list endpoints.
type Paginated struct {
	Items      any   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// NewPaginated computes the page count for a listing.
func NewPaginated(items any, total int64, page, pageSize int) Paginated {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}
	return Paginated{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// Error aborts the request with the JSON form of err. Unknown errors are
// logged and reported as a generic 500.
func Error(c *gin.Context, err error) {
	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) {
		abort(c, http.StatusBadRequest, "VALIDATION_ERROR", validationMessage(validationErr))
		return
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		abort(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}

	status := apperrors.StatusOf(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "path", c.FullPath(), "status", status, "error", err)
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		abort(c, status, appErr.Code, appErr.Message)
		return
	}
	abort(c, status, "INTERNAL_ERROR", "Something went wrong")
}

// BindError reports a request binding failure. Decoder errors that are not
// validation or JSON errors still count as a bad request.
func BindError(c *gin.Context, err error) {
	var validationErr validator.ValidationErrors
	var appErr *apperrors.AppError
	if errors.As(err, &validationErr) || errors.As(err, &appErr) {
		Error(c, err)
		return
	}
	abort(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message, "code": code})
}

func validationMessage(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		field := strings.ToLower(err.Field())
		switch err.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", field, err.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, err.Param()))
		case "hazardtype":
			msgs = append(msgs, field+" is not a known hazard type")
		case "latlng":
			msgs = append(msgs, field+" must be valid [lat, lng] coordinates")
		case "url":
			msgs = append(msgs, field+" must be a valid URL")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}

package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartroad-be/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func run(t *testing.T, fn func(c *gin.Context)) (int, map[string]string) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	fn(c)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestError_AppError(t *testing.T) {
	code, body := run(t, func(c *gin.Context) {
		Error(c, apperrors.NotFound("Report", nil))
	})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.Equal(t, "Report not found", body["error"])
}

func TestError_WrappedAppErrorKeepsStatus(t *testing.T) {
	code, body := run(t, func(c *gin.Context) {
		Error(c, fmt.Errorf("update status: %w", apperrors.New("RATE_LIMITED", "Slow down", http.StatusTooManyRequests, nil)))
	})
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "RATE_LIMITED", body["code"])
	assert.Equal(t, "Slow down", body["error"])
}

func TestError_Unknown(t *testing.T) {
	code, body := run(t, func(c *gin.Context) {
		Error(c, errors.New("disk on fire"))
	})
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Something went wrong", body["error"])
}

func TestError_Validation(t *testing.T) {
	type input struct {
		Email    string `validate:"required,email"`
		Password string `validate:"min=6"`
	}
	err := validator.New().Struct(input{Password: "abc"})
	require.Error(t, err)

	code, body := run(t, func(c *gin.Context) { Error(c, err) })
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	assert.Equal(t, "email is required; password must be at least 6 characters", body["error"])
}

func TestBindError_Decoder(t *testing.T) {
	code, body := run(t, func(c *gin.Context) { BindError(c, errors.New("EOF")) })
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "BAD_REQUEST", body["code"])
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2}, 21, 3, 10)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 0, NewPaginated(nil, 0, 1, 10).TotalPages)
}

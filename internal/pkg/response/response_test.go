package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(t *testing.T, fn func(c *gin.Context)) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	fn(c)
	// gin buffers statuses set via c.Status until the handler chain
	// completes; flush so the recorder sees them.
	c.Writer.WriteHeaderNow()

	var body map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestOKWrapsSlices(t *testing.T) {
	rec, body := record(t, func(c *gin.Context) {
		OK(c, []string{"a", "b"})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{"a", "b"}, body["data"])
}

func TestOKPassesObjectsThrough(t *testing.T) {
	rec, body := record(t, func(c *gin.Context) {
		OK(c, gin.H{"email": "a@example.com"})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@example.com", body["email"])
	assert.NotContains(t, body, "data")
}

func TestPagedEnvelope(t *testing.T) {
	rec, body := record(t, func(c *gin.Context) {
		Paged(c, []int{1, 2, 3}, Pagination{
			Total: 3, CurrentPage: 1, TotalPage: 1, Size: 10,
		})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["data"], 3)

	pg, ok := body["pagination"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(3), pg["total"])
	assert.Equal(t, false, pg["has_next_page"])
}

func TestErrorEnvelopeShape(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(c *gin.Context)
		status  int
		message string
	}{
		{"bad request", func(c *gin.Context) { BadRequest(c, "email is required") },
			http.StatusBadRequest, "email is required"},
		{"unauthorized", func(c *gin.Context) { Unauthorized(c) },
			http.StatusUnauthorized, "authentication required"},
		{"not found", func(c *gin.Context) { NotFound(c) },
			http.StatusNotFound, "not found"},
		{"conflict", func(c *gin.Context) { Conflict(c, "slug already exists") },
			http.StatusConflict, "slug already exists"},
		{"internal", func(c *gin.Context) { InternalError(c, errors.New("boom")) },
			http.StatusInternalServerError, "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := record(t, tt.fn)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, float64(0), body["ok"])
			assert.Equal(t, float64(tt.status), body["code"])
			assert.Equal(t, tt.message, body["message"])
		})
	}
}

func TestNoContentHasEmptyBody(t *testing.T) {
	rec, _ := record(t, NoContent)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

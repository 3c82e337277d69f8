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

	"github.com/nekogravitycat/padel-booking-backend/internal/pkg/apperror"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func render(err error) (*httptest.ResponseRecorder, *gin.Context) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Error(c, err)
	return w, c
}

func TestErrorAppError(t *testing.T) {
	w, c := render(apperror.New(http.StatusNotFound, "resource not found"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"resource not found"}`, w.Body.String())
	assert.Empty(t, c.Errors)
}

func TestErrorWithFields(t *testing.T) {
	err := apperror.New(http.StatusConflict, "taken").With("occupied_slot_ids", []int64{3, 7})
	w, _ := render(err)

	require.Equal(t, http.StatusConflict, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "taken", body["error"])
	assert.Equal(t, []any{float64(3), float64(7)}, body["occupied_slot_ids"])
}

func TestErrorUnavailableSetsRetryAfter(t *testing.T) {
	w, c := render(apperror.New(http.StatusServiceUnavailable, "retry"))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Len(t, c.Errors, 1)
}

func TestErrorInternalHidesCause(t *testing.T) {
	w, c := render(errors.New("pq: connection refused to 10.0.0.3"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	require.Len(t, c.Errors, 1)
	assert.Contains(t, c.Errors.String(), "connection refused")
}

func TestNewPageResponseNeverNull(t *testing.T) {
	resp := NewPageResponse[int](nil, 1, 20, 0)
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"page":1,"page_size":20,"total":0}`, string(data))
}

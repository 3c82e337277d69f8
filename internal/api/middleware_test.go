package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/padel-booking-backend/internal/auth"
	"github.com/stretchr/testify/assert"
)

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	run := func(setup gin.HandlerFunc) int {
		r := gin.New()
		r.GET("/admin", setup, RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, run(func(c *gin.Context) {}))
	assert.Equal(t, http.StatusForbidden, run(func(c *gin.Context) { auth.SetIdentity(c, 2, "u@club.es", false) }))
	assert.Equal(t, http.StatusOK, run(func(c *gin.Context) { auth.SetIdentity(c, 1, "a@club.es", true) }))
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"https://a.es", "https://b.es"}, splitOrigins(" https://a.es, ,https://b.es "))
	assert.Empty(t, splitOrigins(""))
}

package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers availability, quote and reservation routes.
// idempotency wraps POST /reservations and may be nil.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware, idempotency gin.HandlerFunc) {
	authed := g.Group("", authMiddleware)
	{
		authed.GET("/availability", h.AvailabilityAll)
		authed.GET("/availability/:resource_id", h.Availability)
		authed.POST("/quote", h.Quote)
		authed.GET("/me/reservations", h.ListMine)
	}

	group := g.Group("/reservations", authMiddleware)
	{
		if idempotency != nil {
			group.POST("", idempotency, h.Create)
		} else {
			group.POST("", h.Create)
		}
		group.GET("/:id", h.Get)
		group.DELETE("/:id", h.Delete)
		group.GET("", adminMiddleware, h.List)
	}
}

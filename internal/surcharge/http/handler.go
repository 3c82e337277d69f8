package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/padel-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/padel-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/padel-booking-backend/internal/surcharge"
)

type Handler struct {
	service surcharge.Service
}

func NewHandler(service surcharge.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]SurchargeResponse, len(list))
	for i, s := range list {
		items[i] = NewResponse(s)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	s, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewResponse(s))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	s, err := h.service.Create(c.Request.Context(), surcharge.CreateRequest{
		Name:   body.Name,
		Amount: *body.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewResponse(s))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	s, err := h.service.Update(c.Request.Context(), uri.ID, surcharge.UpdateRequest{
		Name:   body.Name,
		Amount: body.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewResponse(s))
}

func (h *Handler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.ID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

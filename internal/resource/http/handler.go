package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/padel-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/padel-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/padel-booking-backend/internal/resource"
)

type Handler struct {
	service resource.Service
}

func NewHandler(service resource.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var req ListResourcesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	filter := resource.Filter{
		Name:      req.Name,
		Covered:   req.Covered,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.NormalizedSortOrder("ASC"),
	}

	resources, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ResourceResponse, len(resources))
	for i, r := range resources {
		items[i] = NewResponse(r)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	if err := body.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.service.Create(c.Request.Context(), resource.CreateRequest{
		Name:      body.Name,
		Covered:   body.Covered,
		Capacity:  body.Capacity,
		BasePrice: *body.BasePrice,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewResponse(res))
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	res, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(res))
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

	if err := body.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.service.Update(c.Request.Context(), uri.ID, resource.UpdateRequest{
		Name:      body.Name,
		Covered:   body.Covered,
		Capacity:  body.Capacity,
		BasePrice: body.BasePrice,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(res))
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

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/padel-booking-backend/internal/auth"
	"github.com/nekogravitycat/padel-booking-backend/internal/booking"
	"github.com/nekogravitycat/padel-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/padel-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/padel-booking-backend/internal/reservation"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

func identity(c *gin.Context) booking.Identity {
	return booking.Identity{UserID: auth.GetUserID(c), IsAdmin: auth.IsAdmin(c)}
}

// Create books slots for the authenticated user.
func (h *Handler) Create(c *gin.Context) {
	var body CreateReservationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	date, err := request.ParseDate(body.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.service.Book(c.Request.Context(), booking.BookRequest{
		UserID:     auth.GetUserID(c),
		ResourceID: body.ResourceID,
		Date:       date,
		SlotIDs:    body.SlotIDs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewReservationResponse(res))
}

// Quote prices a booking without committing it.
func (h *Handler) Quote(c *gin.Context) {
	var body QuoteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	date, err := request.ParseDate(body.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	b, err := h.service.Quote(c.Request.Context(), booking.QuoteRequest{
		ResourceID: body.ResourceID,
		Date:       date,
		SlotIDs:    body.SlotIDs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewQuoteResponse(body.ResourceID, date, b))
}

func (h *Handler) Availability(c *gin.Context) {
	var uri AvailabilityURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var query AvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	date, err := request.ParseDate(query.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	a, err := h.service.Availability(c.Request.Context(), uri.ResourceID, date)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewAvailabilityResponse(a, date))
}

func (h *Handler) AvailabilityAll(c *gin.Context) {
	var query AvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	date, err := request.ParseDate(query.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	all, err := h.service.AvailabilityAll(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]AvailabilityResponse, len(all))
	for i := range all {
		items[i] = NewAvailabilityResponse(&all[i], date)
	}

	c.JSON(http.StatusOK, gin.H{"date": request.FormatDate(date), "items": items})
}

// ListMine lists the authenticated user's reservations.
func (h *Handler) ListMine(c *gin.Context) {
	var req ListReservationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	filter, err := req.Filter()
	if err != nil {
		response.Error(c, err)
		return
	}

	list, total, err := h.service.ListMine(c.Request.Context(), identity(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(toResponses(list), req.Page, req.PageSize, total))
}

// List lists every reservation. Access Control: Admin only.
func (h *Handler) List(c *gin.Context) {
	var req ListReservationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	filter, err := req.Filter()
	if err != nil {
		response.Error(c, err)
		return
	}

	list, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(toResponses(list), req.Page, req.PageSize, total))
}

// Get returns a reservation to its owner or an admin. Others get 404.
func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	res, err := h.service.Get(c.Request.Context(), identity(c), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(res))
}

// Delete cancels a reservation, freeing its slots.
func (h *Handler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	if err := h.service.Cancel(c.Request.Context(), identity(c), req.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func toResponses(list []*reservation.Reservation) []ReservationResponse {
	items := make([]ReservationResponse, len(list))
	for i, r := range list {
		items[i] = NewReservationResponse(r)
	}
	return items
}

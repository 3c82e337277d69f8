package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/padel-booking-backend/internal/auth"
	"github.com/nekogravitycat/padel-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/padel-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/padel-booking-backend/internal/user"
)

type UserHandler struct {
	userService user.Service
	jwtManager  *auth.JWTManager
}

func NewHandler(userService user.Service, jwtManager *auth.JWTManager) *UserHandler {
	return &UserHandler{
		userService: userService,
		jwtManager:  jwtManager,
	}
}

// Register creates a player account. Email and dni must be unused.
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	u, err := h.userService.Register(c.Request.Context(), user.RegisterRequest{
		Email:    req.Email,
		Name:     req.Name,
		DNI:      req.DNI,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, MeResponse{User: NewUserResponse(u)})
}

// Login authenticates a user using email and password.
// On success, it returns a JWT access token and the user profile.
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	u, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.jwtManager.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		User:        NewUserResponse(u),
	})
}

// Me retrieves the profile of the currently authenticated user.
func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.userService.GetByID(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, MeResponse{User: NewUserResponse(u)})
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), auth.GetUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// List retrieves a paginated list of users with optional filtering.
// Access Control: Admin only.
func (h *UserHandler) List(c *gin.Context) {
	var req ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	filter := user.Filter{
		Email:     req.Email,
		Name:      req.Name,
		DNI:       req.DNI,
		IsAdmin:   req.IsAdmin,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.NormalizedSortOrder("DESC"),
	}

	users, total, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]UserResponse, len(users))
	for i, u := range users {
		items[i] = NewUserResponse(u)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

// Get retrieves a specific user by their ID.
// Access Control: Admin only.
func (h *UserHandler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	u, err := h.userService.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, MeResponse{User: NewUserResponse(u)})
}

// Update modifies specific attributes of a user.
// Access Control: Admin only.
func (h *UserHandler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateUserRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid body", err)
		return
	}

	u, err := h.userService.Update(c.Request.Context(), uri.ID, user.UpdateRequest{
		Name:    body.Name,
		DNI:     body.DNI,
		IsAdmin: body.IsAdmin,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, MeResponse{User: NewUserResponse(u)})
}

// Delete removes a user together with their reservations.
// Access Control: Admin only.
func (h *UserHandler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	if err := h.userService.Delete(c.Request.Context(), auth.GetUserID(c), req.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

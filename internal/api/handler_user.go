package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/Ibragim-Gadzhiev/TeamHomework/internal/user"
	"github.com/Ibragim-Gadzhiev/TeamHomework/pkg/middleware"
	"github.com/Ibragim-Gadzhiev/TeamHomework/pkg/models"

	"github.com/gin-gonic/gin"
)

// UserHandler binds the user lifecycle service to HTTP.
type UserHandler struct {
	Service *user.Service
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *user.Service) *UserHandler {
	return &UserHandler{Service: svc}
}

// CreateUser godoc
// @Summary      Create a new user
// @Description  Creates a new user and publishes a create event
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      models.CreateUserRequest  true  "Create user request"
// @Success      201      {object}  models.UserResponse
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /api/users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)
	log.Printf("[API] CreateUser correlation_id=%s", correlationID)

	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	resp, err := h.Service.Create(c.Request.Context(), req, correlationID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetUser godoc
// @Summary      Get a user by ID
// @Description  Returns a single user
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  models.UserResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListUsers godoc
// @Summary      List all users
// @Description  Returns all users, newest first
// @Tags         users
// @Produce      json
// @Success      200  {array}   models.UserResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /api/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	resp, err := h.Service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateUser godoc
// @Summary      Partially update a user
// @Description  Applies the fields present in the patch; omitted fields are untouched
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id       path      int                       true  "User ID"
// @Param        request  body      models.UpdateUserRequest  true  "Update user request"
// @Success      200      {object}  models.UserResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /api/users/{id} [patch]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	log.Printf("[API] UpdateUser id=%d correlation_id=%s", id, middleware.GetCorrelationID(c))

	var patch models.UpdateUserRequest
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeBindingError(c, err)
		return
	}

	resp, err := h.Service.Update(c.Request.Context(), id, patch)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteUser godoc
// @Summary      Delete a user
// @Description  Deletes a user and publishes a delete event
// @Tags         users
// @Param        id   path  int  true  "User ID"
// @Success      204
// @Failure      404  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}
	log.Printf("[API] DeleteUser id=%d correlation_id=%s", id, correlationID)

	if err := h.Service.Delete(c.Request.Context(), id, correlationID); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		// A non-numeric id can never exist
		writeError(c, user.ErrNotFound)
		return 0, false
	}
	return id, true
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/serh11pashkov/resumebuilder/internal/auth"
	"github.com/serh11pashkov/resumebuilder/internal/dto"
	"github.com/serh11pashkov/resumebuilder/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler handles user profile endpoints.
type UserHandler struct {
	svc *service.UserService
	log *zap.Logger
}

// NewUserHandler returns a new UserHandler.
func NewUserHandler(svc *service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

// Me godoc
// @Summary      Current user profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.MessageResponse
// @Router       /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	claims := auth.ClaimsFromContext(c)
	u, err := h.svc.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, dto.MessageResponse{Message: "user not found"})
			return
		}
		h.log.Error("get profile failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, userToResponse(u))
}

// UpdateMe godoc
// @Summary      Update current user profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.UpdateUserRequest  true  "Profile changes"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.MessageResponse
// @Failure      401   {object}  dto.MessageResponse
// @Router       /users/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: err.Error()})
		return
	}
	claims := auth.ClaimsFromContext(c)
	u, err := h.svc.UpdateEmail(c.Request.Context(), claims.UserID, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, dto.MessageResponse{Message: "user not found"})
			return
		}
		h.log.Error("update profile failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: "failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, userToResponse(u))
}

// UpdatePassword godoc
// @Summary      Change the current user's password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.ChangePasswordRequest  true  "Current and new password"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.MessageResponse
// @Failure      401   {object}  dto.MessageResponse
// @Router       /users/me/password [put]
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: err.Error()})
		return
	}
	claims := auth.ClaimsFromContext(c)
	err := h.svc.ChangePassword(c.Request.Context(), claims.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrWrongPassword) {
			c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: "current password is incorrect"})
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, dto.MessageResponse{Message: "user not found"})
			return
		}
		h.log.Error("change password failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: "failed to change password"})
		return
	}
	h.log.Info("password changed", zap.Int64("user_id", claims.UserID))
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "password updated successfully"})
}

// List godoc
// @Summary      List all users (admin)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ListUsersResponse
// @Failure      401  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.MessageResponse
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.log.Error("list users failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: "failed to list users"})
		return
	}
	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, userToResponse(u))
	}
	c.JSON(http.StatusOK, dto.ListUsersResponse{Items: items})
}

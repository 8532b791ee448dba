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

// AuthHandler handles signin, signup and signout.
type AuthHandler struct {
	userSvc *service.UserService
	tokens  *auth.Manager
	revoked *auth.RevocationStore
	log     *zap.Logger
}

// NewAuthHandler returns a new AuthHandler.
func NewAuthHandler(userSvc *service.UserService, tokens *auth.Manager, revoked *auth.RevocationStore, log *zap.Logger) *AuthHandler {
	return &AuthHandler{userSvc: userSvc, tokens: tokens, revoked: revoked, log: log}
}

// Signin godoc
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  dto.JwtResponse
// @Failure      400   {object}  dto.MessageResponse
// @Failure      401   {object}  dto.MessageResponse
// @Failure      500   {object}  dto.MessageResponse
// @Router       /auth/signin [post]
func (h *AuthHandler) Signin(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: err.Error()})
		return
	}
	user, err := h.userSvc.ValidateCredentials(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.log.Info("signin rejected", zap.String("username", req.Username))
			c.JSON(http.StatusUnauthorized, dto.MessageResponse{Message: "invalid username or password"})
			return
		}
		h.log.Error("signin failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: "login failed"})
		return
	}
	token, err := h.tokens.CreateAccess(user)
	if err != nil {
		h.log.Error("token issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: "login failed"})
		return
	}
	h.log.Info("signin ok", zap.Int64("user_id", user.ID), zap.Strings("roles", user.Roles))
	c.JSON(http.StatusOK, dto.JwtResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Roles:       user.Roles,
	})
}

// Signup godoc
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SignupRequest  true  "Account details"
// @Success      201   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.MessageResponse
// @Failure      409   {object}  dto.MessageResponse
// @Failure      500   {object}  dto.MessageResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: err.Error()})
		return
	}
	user, err := h.userSvc.Register(c.Request.Context(), req.Username, req.Email, req.Password, req.Roles)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: "username and password required"})
			return
		}
		if errors.Is(err, service.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, dto.MessageResponse{Message: "username already taken"})
			return
		}
		h.log.Error("signup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: "registration failed"})
		return
	}
	h.log.Info("signup ok", zap.Int64("user_id", user.ID), zap.Strings("roles", user.Roles))
	c.JSON(http.StatusCreated, dto.MessageResponse{Message: "user registered successfully"})
}

// Signout godoc
// @Summary      Sign out (revoke the presented token)
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  dto.MessageResponse
// @Router       /auth/signout [post]
func (h *AuthHandler) Signout(c *gin.Context) {
	claims := auth.ClaimsFromContext(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, dto.MessageResponse{Message: "authorization required"})
		return
	}
	if err := h.revoked.Revoke(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		h.log.Error("signout revoke failed", zap.Error(err))
	}
	c.Status(http.StatusNoContent)
}

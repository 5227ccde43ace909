package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/netgrid/backend/internal/core"
	"github.com/netgrid/backend/internal/model"
)

type AuthHandler struct {
	core *core.Core
}

func NewAuthHandler(c *core.Core) *AuthHandler {
	return &AuthHandler{core: c}
}

// Login godoc
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Username and password"
// @Success 200 {object} model.LoginResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	token, role, err := h.core.Login(req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.LoginResponse{Token: token, Role: role})
}

// Logout godoc
// @Summary Logout
// @Tags auth
// @Produce json
// @Success 200 {object} model.AuthLogoutResponse
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := GetAuthToken(c); token != "" {
		h.core.Logout(token)
	}
	c.JSON(http.StatusOK, model.AuthLogoutResponse{Status: "logged_out"})
}

// Verify godoc
// @Summary Verify the bearer token
// @Tags auth
// @Produce json
// @Success 200 {object} model.VerifyResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/auth/verify [get]
func (h *AuthHandler) Verify(c *gin.Context) {
	token := GetAuthToken(c)
	if token == "" {
		// Bypass and token-less callers hold the middleware-granted role.
		c.JSON(http.StatusOK, model.VerifyResponse{Role: GetAuthRole(c)})
		return
	}
	role, err := h.core.VerifyToken(token)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.VerifyResponse{Role: role})
}

// Renew godoc
// @Summary Exchange the bearer token for a fresh one
// @Tags auth
// @Produce json
// @Success 200 {object} model.RenewResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/auth/renew [post]
func (h *AuthHandler) Renew(c *gin.Context) {
	token := GetAuthToken(c)
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bearer token required"})
		return
	}
	newToken, user, err := h.core.RenewToken(token)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.RenewResponse{Token: newToken, User: user.Public()})
}

// CLILogin godoc
// @Summary Login for non-interactive tooling callers
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Username and password"
// @Success 200 {object} model.LoginResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/auth/cli/login [post]
func (h *AuthHandler) CLILogin(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	token, err := h.core.CLILogin(req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.LoginResponse{Token: token})
}

// CLISession godoc
// @Summary Check whether the CLI session is live
// @Tags auth
// @Produce json
// @Success 200 {object} model.StatusResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/auth/cli/session [get]
func (h *AuthHandler) CLISession(c *gin.Context) {
	if err := h.core.CheckCLITokenExist(); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "ok"})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, core.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, core.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
	}
}

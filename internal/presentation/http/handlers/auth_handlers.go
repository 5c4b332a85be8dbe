package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ming0627/bellyfed-new-sub002/internal/application/container"
	"github.com/ming0627/bellyfed-new-sub002/internal/application/services"
)

// AuthHandlers serves dashboard authentication.
type AuthHandlers struct {
	container *container.Container
}

// NewAuthHandlers creates the handler group.
func NewAuthHandlers(c *container.Container) *AuthHandlers {
	return &AuthHandlers{container: c}
}

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

// PostLogin handles POST /api/v1/auth/login.
func (h *AuthHandlers) PostLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.container.AuthService.Login(req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

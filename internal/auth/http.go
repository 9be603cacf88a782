package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts authentication endpoints under /auth.
func RegisterRoutes(router *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", handler.login)
		authGroup.POST("/refresh", handler.refresh)
	}
}

type httpHandler struct {
	service *Service
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *httpHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	userID, ok := h.service.Authenticate(c.Request.Context(), req.Email, req.Password)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "invalid_credentials",
			"message": "Invalid email or password.",
		})
		return
	}

	pair, err := h.service.IssueTokens(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "token_issuance_failed",
			"message": "Failed to issue tokens.",
		})
		return
	}

	c.JSON(http.StatusOK, pair)
}

func (h *httpHandler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	pair, err := h.service.Refresh(req.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_token",
				"message": "Invalid or expired refresh token.",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "token_issuance_failed",
			"message": "Failed to issue tokens.",
		})
		return
	}

	c.JSON(http.StatusOK, pair)
}

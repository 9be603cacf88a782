package catalog

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nursan/golistings/internal/storage"
)

// RegisterRoutes mounts the catalog endpoints onto the group.
func RegisterRoutes(group *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	group.GET("/cities", handler.listCities)
	group.GET("/categories", handler.listCategories)
}

type httpHandler struct {
	service *Service
}

func (h *httpHandler) listCities(c *gin.Context) {
	cities, err := h.service.ListCities(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cities)
}

func (h *httpHandler) listCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrUpstreamUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream_unavailable", "message": "Store service unavailable."})
	case errors.Is(err, storage.ErrRequestFailed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "request_failed", "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Unexpected failure."})
	}
}

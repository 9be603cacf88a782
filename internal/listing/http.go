package listing

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nursan/golistings/internal/storage"
)

// RegisterPublicRoutes mounts read-only listing endpoints onto the group.
func RegisterPublicRoutes(group *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	group.GET("/listings", handler.listListings)
	group.GET("/listings/:listingID", handler.getListing)
}

// RegisterPrivateRoutes mounts mutating listing endpoints onto the group.
// Callers are expected to gate the group with the auth middleware.
func RegisterPrivateRoutes(group *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	group.POST("/listings", handler.createListing)
	group.PATCH("/listings/:listingID", handler.updateListing)
	group.DELETE("/listings/:listingID", handler.deleteListing)
}

type httpHandler struct {
	service *Service
}

type createListingRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
}

type updateListingRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
}

func (h *httpHandler) listListings(c *gin.Context) {
	listings, err := h.service.ListListings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, listings)
}

func (h *httpHandler) getListing(c *gin.Context) {
	listing, err := h.service.GetListing(c.Request.Context(), c.Param("listingID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

func (h *httpHandler) createListing(c *gin.Context) {
	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	listing, err := h.service.CreateListing(c.Request.Context(), CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, listing)
}

func (h *httpHandler) updateListing(c *gin.Context) {
	var req updateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	listing, err := h.service.UpdateListing(c.Request.Context(), c.Param("listingID"), UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

func (h *httpHandler) deleteListing(c *gin.Context) {
	listing, err := h.service.DeleteListing(c.Request.Context(), c.Param("listingID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrListingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "Listing not found."})
	case errors.Is(err, storage.ErrUpstreamUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream_unavailable", "message": "Store service unavailable."})
	case errors.Is(err, storage.ErrRequestFailed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "request_failed", "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Unexpected failure."})
	}
}

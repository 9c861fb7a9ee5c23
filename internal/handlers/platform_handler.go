package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studenthub/marketplace-service/internal/services"
	"github.com/studenthub/marketplace-service/internal/utils"
)

// PlatformHandler serves the unauthenticated platform endpoints: public
// settings, social links, and newsletter signup.
type PlatformHandler struct {
	BaseHandler
	admin services.AdminService
}

func NewPlatformHandler(admin services.AdminService, logger utils.Logger) *PlatformHandler {
	return &PlatformHandler{
		BaseHandler: NewBaseHandler(logger),
		admin:       admin,
	}
}

// PublicSettings returns the public subset of platform settings
// @Summary Get public settings
// @Tags platform
// @Produce json
// @Success 200 {object} services.PublicSettings
// @Router /settings [get]
func (h *PlatformHandler) PublicSettings(c *gin.Context) {
	settings, err := h.admin.GetPublicSettings(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// SocialLinks returns the platform's social media links
// @Summary Get social links
// @Tags platform
// @Produce json
// @Success 200 {object} models.SocialLinks
// @Router /social [get]
func (h *PlatformHandler) SocialLinks(c *gin.Context) {
	links, err := h.admin.GetSocialLinks(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, links)
}

// Subscribe adds an email to the newsletter list
// @Summary Subscribe to newsletter
// @Tags platform
// @Accept json
// @Produce json
// @Success 201 {object} models.Subscriber
// @Failure 400 {object} ErrorResponse "Invalid email"
// @Failure 409 {object} ErrorResponse "Already subscribed"
// @Router /subscribe [post]
func (h *PlatformHandler) Subscribe(c *gin.Context) {
	h.LogRequest(c, "Newsletter signup")

	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request format",
			Details: err.Error(),
		})
		return
	}

	subscriber, err := h.admin.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subscriber)
}

// Unsubscribe removes an email from the newsletter list
// @Summary Unsubscribe from newsletter
// @Tags platform
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse "Not subscribed"
// @Router /subscribe [delete]
func (h *PlatformHandler) Unsubscribe(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request format",
			Details: err.Error(),
		})
		return
	}

	if err := h.admin.Unsubscribe(c.Request.Context(), req.Email); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unsubscribed"})
}

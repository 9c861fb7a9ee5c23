package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/studenthub/marketplace-service/internal/services"
	"github.com/studenthub/marketplace-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	service    services.AuthService
	uploadsDir string
}

func NewAuthHandler(service services.AuthService, logger utils.Logger, uploadsDir string) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		uploadsDir:  uploadsDir,
	}
}

// Register creates a new account
// @Summary Register a new account
// @Description Register a student, instructor, or invite-only admin account. Accepts multipart form data with an optional profilePic image.
// @Tags auth
// @Accept mpfd
// @Produce json
// @Success 201 {object} services.AuthResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 403 {object} ErrorResponse "Invalid invite code"
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	h.LogRequest(c, "Registering account")

	var req services.RegisterRequest
	if err := bindJSONOrForm(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request format",
			Details: err.Error(),
		})
		return
	}

	var avatarURL *string
	if url, err := saveUploadedImage(c, "profilePic", h.uploadsDir, ""); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	} else if url != "" {
		avatarURL = &url
	}

	resp, err := h.service.Register(c.Request.Context(), &req, avatarURL)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login authenticates an account
// @Summary Sign in
// @Description Exchange email and password for a bearer token. An optional role hint rejects sign-in through the wrong portal.
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} services.AuthResponse
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Failure 403 {object} ErrorResponse "Role mismatch"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	h.LogRequest(c, "Signing in")

	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request format",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated account
// @Summary Get current profile
// @Tags auth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	user, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile edits the authenticated account
// @Summary Update current profile
// @Description Update profile fields. Accepts multipart form data with an optional profilePic image.
// @Tags auth
// @Accept mpfd
// @Produce json
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Router /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	h.LogRequest(c, "Updating profile")

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateProfileRequest
	if err := bindJSONOrForm(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request format",
			Details: err.Error(),
		})
		return
	}

	var avatarURL *string
	if url, err := saveUploadedImage(c, "profilePic", h.uploadsDir, ""); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	} else if url != "" {
		avatarURL = &url
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, &req, avatarURL)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ChangePassword replaces the account password
// @Summary Change password
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse "Current password incorrect"
// @Router /auth/change-password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	h.LogRequest(c, "Changing password")

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request format",
			Details: err.Error(),
		})
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// bindJSONOrForm binds a JSON body or a multipart/urlencoded form into
// req, depending on the request content type. Endpoints that take file
// uploads accept both so API clients are not forced into multipart.
func bindJSONOrForm(c *gin.Context, req interface{}) error {
	contentType := c.GetHeader("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		return c.ShouldBindJSON(req)
	}
	return c.ShouldBind(req)
}

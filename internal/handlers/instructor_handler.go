package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/studenthub/marketplace-service/internal/repositories"
	"github.com/studenthub/marketplace-service/internal/services"
	"github.com/studenthub/marketplace-service/internal/utils"
)

type InstructorHandler struct {
	BaseHandler
	service services.InstructorService
}

func NewInstructorHandler(service services.InstructorService, logger utils.Logger) *InstructorHandler {
	return &InstructorHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// List returns the public instructor directory
// @Summary List instructors
// @Tags instructors
// @Produce json
// @Param q query string false "Search by name"
// @Param expertise query string false "Filter by expertise"
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 12, max: 50)"
// @Success 200 {object} services.InstructorListResponse
// @Router /instructors [get]
func (h *InstructorHandler) List(c *gin.Context) {
	h.LogRequest(c, "Listing instructors")

	filters := repositories.InstructorFilters{
		Sort: c.Query("sort"),
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		filters.Query = &q
	}
	if expertise := strings.TrimSpace(c.Query("expertise")); expertise != "" {
		filters.Expertise = &expertise
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filters.Page = page
	}
	if pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "0")); err == nil {
		filters.PageSize = pageSize
	}

	resp, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Get returns one instructor profile with aggregate counts
// @Summary Get instructor
// @Tags instructors
// @Produce json
// @Param id path int true "Instructor ID"
// @Success 200 {object} services.InstructorResponse
// @Failure 404 {object} ErrorResponse "Instructor not found"
// @Router /instructors/{id} [get]
func (h *InstructorHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	instructor, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, instructor)
}

// Dashboard returns business metrics for the authenticated instructor
// @Summary Get instructor dashboard
// @Tags instructors
// @Produce json
// @Success 200 {object} services.InstructorDashboard
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /instructors/me/dashboard [get]
func (h *InstructorHandler) Dashboard(c *gin.Context) {
	h.LogRequest(c, "Getting instructor dashboard")

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	dashboard, err := h.service.Dashboard(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// OwnCourses returns every course the authenticated instructor teaches
// @Summary Get own courses
// @Tags instructors
// @Produce json
// @Success 200 {array} models.Course
// @Router /instructors/me/courses [get]
func (h *InstructorHandler) OwnCourses(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	courses, err := h.service.OwnCourses(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// RecentEnrollments returns the latest signups across the instructor's courses
// @Summary Get recent enrollments
// @Tags instructors
// @Produce json
// @Param limit query int false "Max entries (default: 10)"
// @Success 200 {array} models.Enrollment
// @Router /instructors/me/enrollments [get]
func (h *InstructorHandler) RecentEnrollments(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	enrollments, err := h.service.RecentEnrollments(c.Request.Context(), userID, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollments)
}

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/studenthub/marketplace-service/internal/models"
	"github.com/studenthub/marketplace-service/internal/repositories"
	"github.com/studenthub/marketplace-service/internal/services"
	"github.com/studenthub/marketplace-service/internal/utils"
	"github.com/studenthub/marketplace-service/internal/validator"
)

type CourseHandler struct {
	BaseHandler
	catalog    services.CatalogService
	enrollment services.EnrollmentService
	uploadsDir string
}

func NewCourseHandler(catalog services.CatalogService, enrollment services.EnrollmentService, logger utils.Logger, uploadsDir string) *CourseHandler {
	return &CourseHandler{
		BaseHandler: NewBaseHandler(logger),
		catalog:     catalog,
		enrollment:  enrollment,
		uploadsDir:  uploadsDir,
	}
}

// ===== CATALOG ENDPOINTS =====

// List returns the public course catalog
// @Summary List courses
// @Description Browse the catalog with optional text search, category, level, instructor filter, sorting, and pagination
// @Tags courses
// @Produce json
// @Param q query string false "Search in title and description"
// @Param category query string false "Filter by category"
// @Param level query string false "Filter by level: beginner, intermediate, advanced"
// @Param instructorId query int false "Filter by instructor id"
// @Param sort query string false "Sort by: rating, popular, price-asc, price-desc, newest (default: newest)"
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 9, max: 50)"
// @Success 200 {object} services.CourseListResponse
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	h.LogRequest(c, "Listing courses")

	filters := parseCourseFilters(c)

	resp, err := h.catalog.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Get returns one course with instructor aggregates
// @Summary Get course details
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} services.CourseResponse
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	course, err := h.catalog.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// Create publishes a new course for the authenticated instructor
// @Summary Create course
// @Description Create a course. Accepts multipart form data with an optional thumbnail image; schedule and lesson arrays are sent as JSON-encoded form fields.
// @Tags courses
// @Accept mpfd
// @Produce json
// @Success 201 {object} models.Course
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 403 {object} ErrorResponse "Insufficient permissions"
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	h.LogRequest(c, "Creating course")

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.CourseCreateRequest
	if err := bindJSONOrForm(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request format",
			Details: err.Error(),
		})
		return
	}

	if !strings.HasPrefix(c.GetHeader("Content-Type"), "application/json") {
		if err := bindCourseFormArrays(c, &req.ZoomSchedule, &req.ClassroomSchedule, &req.Lessons); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
			return
		}
	}

	thumbnailURL, err := saveUploadedImage(c, "thumbnail", h.uploadsDir, "courses")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	course, err := h.catalog.Create(c.Request.Context(), userID, &req, thumbnailURL)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

// Update edits a course owned by the caller
// @Summary Update course
// @Description Update course fields. Instructors can edit their own courses; admins can edit any.
// @Tags courses
// @Accept mpfd
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} models.Course
// @Failure 403 {object} ErrorResponse "Permission denied"
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /courses/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	h.LogRequest(c, "Updating course")

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	courseID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CourseUpdateRequest
	if err := bindJSONOrForm(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request format",
			Details: err.Error(),
		})
		return
	}

	if !strings.HasPrefix(c.GetHeader("Content-Type"), "application/json") {
		if err := bindCourseFormArrays(c, &req.ZoomSchedule, &req.ClassroomSchedule, &req.Lessons); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
			return
		}
	}

	thumbnailURL, err := saveUploadedImage(c, "thumbnail", h.uploadsDir, "courses")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	course, err := h.catalog.Update(c.Request.Context(), userID, h.currentUserRole(c), courseID, &req, thumbnailURL)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// Delete removes a course owned by the caller
// @Summary Delete course
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} ErrorResponse "Permission denied"
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	h.LogRequest(c, "Deleting course")

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	courseID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalog.Delete(c.Request.Context(), userID, h.currentUserRole(c), courseID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Course deleted"})
}

// Recommended returns popular courses the student is not enrolled in
// @Summary Get recommended courses
// @Tags courses
// @Produce json
// @Success 200 {array} models.Course
// @Router /courses/recommended [get]
func (h *CourseHandler) Recommended(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	courses, err := h.catalog.Recommended(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// Content returns the lessons and meeting links of an enrolled course
// @Summary Get course content
// @Description Full course payload including lessons and live-session links. Requires an active enrollment.
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} models.Course
// @Failure 403 {object} ErrorResponse "Not enrolled"
// @Router /courses/{id}/learn [get]
func (h *CourseHandler) Content(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	courseID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	course, err := h.catalog.Content(c.Request.Context(), userID, courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// ===== ENROLLMENT ENDPOINTS =====

// Enroll enrolls the authenticated student in a course
// @Summary Enroll in course
// @Tags enrollments
// @Produce json
// @Param id path int true "Course ID"
// @Success 201 {object} models.Enrollment
// @Failure 404 {object} ErrorResponse "Course not found"
// @Failure 409 {object} ErrorResponse "Already enrolled"
// @Router /courses/{id}/enroll [post]
func (h *CourseHandler) Enroll(c *gin.Context) {
	h.LogRequest(c, "Enrolling in course")

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	courseID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	enrollment, err := h.enrollment.Enroll(c.Request.Context(), userID, courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}

// Unenroll removes the authenticated student's enrollment
// @Summary Unenroll from course
// @Tags enrollments
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse "Not enrolled"
// @Router /courses/{id}/unenroll [delete]
func (h *CourseHandler) Unenroll(c *gin.Context) {
	h.LogRequest(c, "Unenrolling from course")

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	courseID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.enrollment.Unenroll(c.Request.Context(), userID, courseID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Enrollment removed"})
}

// CheckEnrollment reports whether the student is enrolled
// @Summary Check enrollment
// @Tags enrollments
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} services.EnrollmentCheckResponse
// @Router /courses/enrolled/check/{courseId} [get]
func (h *CourseHandler) CheckEnrollment(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	courseID, ok := h.parseIDParam(c, "courseId")
	if !ok {
		return
	}

	resp, err := h.enrollment.Check(c.Request.Context(), userID, courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// MyCourses returns the student's enrolled courses with progress
// @Summary Get my courses
// @Tags enrollments
// @Produce json
// @Success 200 {array} services.EnrolledCourse
// @Router /courses/enrolled/my-courses [get]
func (h *CourseHandler) MyCourses(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	courses, err := h.enrollment.MyCourses(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// ===== HELPERS =====

func parseCourseFilters(c *gin.Context) repositories.CourseFilters {
	filters := repositories.CourseFilters{
		Sort: c.Query("sort"),
	}

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		filters.Query = &q
	}
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		filters.Category = &category
	}
	if rawLevel := strings.TrimSpace(c.Query("level")); rawLevel != "" {
		level := models.CourseLevel(rawLevel)
		filters.Level = &level
	}
	rawInstructor := c.Query("instructorId")
	if rawInstructor == "" {
		rawInstructor = c.Query("instructor")
	}
	if rawInstructor != "" {
		if id, err := strconv.ParseUint(rawInstructor, 10, 32); err == nil && id > 0 {
			instructorID := uint(id)
			filters.InstructorID = &instructorID
		}
	}

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filters.Page = page
	}
	if pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "0")); err == nil {
		filters.PageSize = pageSize
	}

	return filters
}

// bindCourseFormArrays decodes the JSON-encoded array fields a
// multipart course form carries alongside the thumbnail upload.
func bindCourseFormArrays(c *gin.Context, zoom, classroom *[]validator.ScheduleEntryRequest, lessons *[]validator.LessonRequest) error {
	if raw := c.PostForm("zoomSchedule"); raw != "" {
		if err := json.Unmarshal([]byte(raw), zoom); err != nil {
			return fmt.Errorf("invalid zoomSchedule field: %w", err)
		}
	}
	if raw := c.PostForm("classroomSchedule"); raw != "" {
		if err := json.Unmarshal([]byte(raw), classroom); err != nil {
			return fmt.Errorf("invalid classroomSchedule field: %w", err)
		}
	}
	if raw := c.PostForm("lessons"); raw != "" {
		if err := json.Unmarshal([]byte(raw), lessons); err != nil {
			return fmt.Errorf("invalid lessons field: %w", err)
		}
	}
	return nil
}

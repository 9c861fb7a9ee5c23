package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/studenthub/marketplace-service/internal/services"
	"github.com/studenthub/marketplace-service/internal/utils"
)

type AdminHandler struct {
	BaseHandler
	admin  services.AdminService
	report services.ReportService
}

func NewAdminHandler(admin services.AdminService, report services.ReportService, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler: NewBaseHandler(logger),
		admin:       admin,
		report:      report,
	}
}

// ===== DASHBOARD ENDPOINTS =====

// Stats returns platform-wide totals
// @Summary Get admin statistics
// @Tags admin
// @Produce json
// @Success 200 {object} services.AdminStats
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	h.LogRequest(c, "Getting admin stats")

	stats, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Revenue returns total revenue and enrollment counts
// @Summary Get revenue summary
// @Tags admin
// @Produce json
// @Success 200 {object} services.RevenueSummary
// @Router /admin/revenue [get]
func (h *AdminHandler) Revenue(c *gin.Context) {
	summary, err := h.admin.Revenue(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// UserGrowth returns a 12-month registration series
// @Summary Get user growth
// @Description Twelve zero-filled monthly buckets of account registrations, labelled with short month names
// @Tags admin
// @Produce json
// @Success 200 {array} services.MonthlyPoint
// @Router /admin/user-growth [get]
func (h *AdminHandler) UserGrowth(c *gin.Context) {
	series, err := h.admin.UserGrowth(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, series)
}

// MonthlyRevenue returns a 12-month revenue series
// @Summary Get monthly revenue
// @Tags admin
// @Produce json
// @Success 200 {array} services.MonthlyPoint
// @Router /admin/revenue/monthly [get]
func (h *AdminHandler) MonthlyRevenue(c *gin.Context) {
	series, err := h.admin.MonthlyRevenue(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, series)
}

// ActivityFeed returns the newest registrations, courses, and enrollments
// @Summary Get activity feed
// @Tags admin
// @Produce json
// @Param limit query int false "Max entries (default: 4, max: 50)"
// @Success 200 {array} services.ActivityItem
// @Router /admin/activity [get]
func (h *AdminHandler) ActivityFeed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	feed, err := h.admin.ActivityFeed(c.Request.Context(), limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, feed)
}

// MonthlyActiveUsers returns distinct users active in the last 30 days
// @Summary Get monthly active users
// @Tags admin
// @Produce json
// @Success 200 {object} services.MonthlyActiveResponse
// @Router /admin/active-users [get]
func (h *AdminHandler) MonthlyActiveUsers(c *gin.Context) {
	resp, err := h.admin.MonthlyActiveUsers(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ===== USER MANAGEMENT ENDPOINTS =====

// ListUsers returns every account
// @Summary List users
// @Tags admin
// @Produce json
// @Success 200 {array} models.User
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	h.LogRequest(c, "Listing users")

	users, err := h.admin.ListUsers(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// ListCourses returns every course with its instructor
// @Summary List all courses
// @Tags admin
// @Produce json
// @Success 200 {array} models.Course
// @Router /admin/courses [get]
func (h *AdminHandler) ListCourses(c *gin.Context) {
	courses, err := h.admin.ListCourses(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// UpdateUser edits an account's name, email, or role
// @Summary Update user
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} ErrorResponse "User not found"
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Router /admin/users/{id} [put]
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	h.LogRequest(c, "Updating user")

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.AdminUserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request format",
			Details: err.Error(),
		})
		return
	}

	user, err := h.admin.UpdateUser(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser removes an account
// @Summary Delete user
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	h.LogRequest(c, "Deleting user")

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.admin.DeleteUser(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// ===== SETTINGS ENDPOINTS =====

// GetSettings returns the full platform settings record
// @Summary Get platform settings
// @Tags admin
// @Produce json
// @Success 200 {object} models.Setting
// @Router /admin/settings [get]
func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.admin.GetSettings(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateSettings applies a partial settings update
// @Summary Update platform settings
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} models.Setting
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Router /admin/settings [put]
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	h.LogRequest(c, "Updating platform settings")

	var req services.SettingsUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request format",
			Details: err.Error(),
		})
		return
	}

	settings, err := h.admin.UpdateSettings(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// ===== NEWSLETTER ENDPOINTS =====

// ListSubscribers returns every newsletter subscriber
// @Summary List subscribers
// @Tags admin
// @Produce json
// @Success 200 {array} models.Subscriber
// @Router /admin/subscribers [get]
func (h *AdminHandler) ListSubscribers(c *gin.Context) {
	subscribers, err := h.admin.ListSubscribers(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subscribers)
}

// RemoveSubscriber deletes a newsletter subscriber
// @Summary Remove subscriber
// @Tags admin
// @Produce json
// @Param email path string true "Subscriber email"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse "Not subscribed"
// @Router /admin/subscribers/{email} [delete]
func (h *AdminHandler) RemoveSubscriber(c *gin.Context) {
	h.LogRequest(c, "Removing subscriber")

	email := c.Param("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid email parameter"})
		return
	}

	if err := h.admin.Unsubscribe(c.Request.Context(), email); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscriber removed"})
}

// ===== REPORT ENDPOINTS =====

// UsersReport downloads the user listing
// @Summary Download users report
// @Tags admin
// @Produce text/csv
// @Param format query string false "csv (default) or xlsx"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse "Unsupported format"
// @Router /admin/reports/users [get]
func (h *AdminHandler) UsersReport(c *gin.Context) {
	h.serveReport(c, h.report.UsersReport)
}

// RevenueReport downloads per-enrollment revenue rows
// @Summary Download revenue report
// @Tags admin
// @Produce text/csv
// @Param format query string false "csv (default) or xlsx"
// @Success 200 {file} file
// @Router /admin/reports/revenue [get]
func (h *AdminHandler) RevenueReport(c *gin.Context) {
	h.serveReport(c, h.report.RevenueReport)
}

// CoursePerformanceReport downloads per-course enrollment and revenue totals
// @Summary Download course performance report
// @Tags admin
// @Produce text/csv
// @Param format query string false "csv (default) or xlsx"
// @Success 200 {file} file
// @Router /admin/reports/courses [get]
func (h *AdminHandler) CoursePerformanceReport(c *gin.Context) {
	h.serveReport(c, h.report.CoursePerformanceReport)
}

// serveReport runs a report generator and streams the result as a file
// download.
func (h *AdminHandler) serveReport(c *gin.Context, generate func(ctx context.Context, format string) (*services.Report, error)) {
	h.LogRequest(c, "Generating report", "format", c.Query("format"))

	report, err := generate(c.Request.Context(), c.Query("format"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	c.Data(http.StatusOK, report.ContentType, report.Data)
}

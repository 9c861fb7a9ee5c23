package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/studenthub/marketplace-service/internal/models"
	"github.com/studenthub/marketplace-service/internal/repositories"
	"github.com/studenthub/marketplace-service/internal/services"
	"github.com/studenthub/marketplace-service/internal/utils"
)

// Auth endpoints share one fixed-window budget per client IP.
const (
	authRateLimit  = 5
	authRateWindow = 15 * time.Minute
)

type HandlerManager struct {
	authHandler       *AuthHandler
	courseHandler     *CourseHandler
	instructorHandler *InstructorHandler
	adminHandler      *AdminHandler
	platformHandler   *PlatformHandler
	authMiddleware    *JWTAuthMiddleware
	rateLimiter       *RateLimiter

	serviceManager services.ServiceManager
	uploadsDir     string
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	userRepo repositories.UserRepository,
	redisClient *redis.Client,
	uploadsDir string,
) *HandlerManager {
	return &HandlerManager{
		authHandler:       NewAuthHandler(serviceManager.Auth(), logger, uploadsDir),
		courseHandler:     NewCourseHandler(serviceManager.Catalog(), serviceManager.Enrollment(), logger, uploadsDir),
		instructorHandler: NewInstructorHandler(serviceManager.Instructor(), logger),
		adminHandler:      NewAdminHandler(serviceManager.Admin(), serviceManager.Report(), logger),
		platformHandler:   NewPlatformHandler(serviceManager.Admin(), logger),
		authMiddleware:    NewJWTAuthMiddleware(serviceManager.Auth(), userRepo),
		rateLimiter:       NewRateLimiter(redisClient, logger),
		serviceManager:    serviceManager,
		uploadsDir:        uploadsDir,
	}
}

// SetupRoutes registers the full API surface. Role requirements are
// declared here, next to each route, instead of inside handlers.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.HealthCheck)
	router.Static("/uploads", hm.uploadsDir)

	authRequired := hm.authMiddleware.AuthMiddleware()

	// Auth routes
	auth := router.Group("/auth")
	{
		limited := hm.rateLimiter.Limit(authRateLimit, authRateWindow)
		auth.POST("/register", limited, hm.authHandler.Register)
		auth.POST("/login", limited, hm.authHandler.Login)

		auth.GET("/me", authRequired, hm.authHandler.Me)
		auth.PUT("/profile", authRequired, hm.authHandler.UpdateProfile)
		auth.PUT("/change-password", authRequired, hm.authHandler.ChangePassword)
	}

	api := router.Group("/api")
	{
		// Public platform endpoints
		api.GET("/social", hm.platformHandler.SocialLinks)
		api.GET("/public-settings", hm.platformHandler.PublicSettings)
		api.POST("/subscribe", hm.platformHandler.Subscribe)
		api.DELETE("/subscribe", hm.platformHandler.Unsubscribe)

		// Course catalog and enrollment routes
		courses := api.Group("/courses")
		{
			courses.GET("", hm.courseHandler.List)
			courses.GET("/:id", hm.courseHandler.Get)

			courses.GET("/recommended", authRequired, hm.courseHandler.Recommended)
			courses.GET("/:id/learn", authRequired, hm.courseHandler.Content)

			courses.POST("", authRequired, hm.authMiddleware.RequireRoleMiddleware(models.RoleInstructor), hm.courseHandler.Create)
			courses.PUT("/:id", authRequired, hm.authMiddleware.RequireRoleMiddleware(models.RoleInstructor), hm.courseHandler.Update)
			courses.DELETE("/:id", authRequired, hm.authMiddleware.RequireRoleMiddleware(models.RoleInstructor), hm.courseHandler.Delete)

			courses.POST("/:id/enroll", authRequired, hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.courseHandler.Enroll)
			courses.DELETE("/:id/unenroll", authRequired, hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.courseHandler.Unenroll)
			courses.GET("/enrolled/check/:courseId", authRequired, hm.courseHandler.CheckEnrollment)
			courses.GET("/enrolled/my-courses", authRequired, hm.courseHandler.MyCourses)
		}

		// Instructor directory and dashboard routes
		instructors := api.Group("/instructors")
		{
			instructors.GET("", hm.instructorHandler.List)
			instructors.GET("/:id", hm.instructorHandler.Get)

			instructorOnly := hm.authMiddleware.RequireRoleMiddleware(models.RoleInstructor)
			instructors.GET("/dashboard/stats", authRequired, instructorOnly, hm.instructorHandler.Dashboard)
			instructors.GET("/courses", authRequired, instructorOnly, hm.instructorHandler.OwnCourses)
			instructors.GET("/enrollments/recent", authRequired, instructorOnly, hm.instructorHandler.RecentEnrollments)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(authRequired, hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			admin.GET("/stats", hm.adminHandler.Stats)
			admin.GET("/revenue", hm.adminHandler.Revenue)
			admin.GET("/user-growth", hm.adminHandler.UserGrowth)
			admin.GET("/revenue/monthly", hm.adminHandler.MonthlyRevenue)
			admin.GET("/activity", hm.adminHandler.ActivityFeed)
			admin.GET("/monthly-active", hm.adminHandler.MonthlyActiveUsers)

			admin.GET("/users", hm.adminHandler.ListUsers)
			admin.PUT("/users/:id", hm.adminHandler.UpdateUser)
			admin.DELETE("/users/:id", hm.adminHandler.DeleteUser)
			admin.GET("/courses", hm.adminHandler.ListCourses)

			admin.GET("/settings", hm.adminHandler.GetSettings)
			admin.PUT("/settings", hm.adminHandler.UpdateSettings)
			admin.PUT("/social", hm.adminHandler.UpdateSettings)

			admin.GET("/subscribers", hm.adminHandler.ListSubscribers)
			admin.DELETE("/subscribers/:email", hm.adminHandler.RemoveSubscriber)

			admin.GET("/reports/users", hm.adminHandler.UsersReport)
			admin.GET("/reports/revenue", hm.adminHandler.RevenueReport)
			admin.GET("/reports/courses", hm.adminHandler.CoursePerformanceReport)
		}
	}
}

// HealthCheck reports service and dependency health
// @Summary Health check
// @Tags platform
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

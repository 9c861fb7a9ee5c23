package services

import (
	"context"
	"time"

	"github.com/studenthub/marketplace-service/internal/models"
	"github.com/studenthub/marketplace-service/internal/repositories"
	"github.com/studenthub/marketplace-service/internal/validator"
)

// ===== REQUEST DTOs =====

// Use business validator types
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type UpdateProfileRequest = validator.UpdateProfileRequest
type ChangePasswordRequest = validator.ChangePasswordRequest
type CourseCreateRequest = validator.CourseCreateRequest
type CourseUpdateRequest = validator.CourseUpdateRequest
type AdminUserUpdateRequest = validator.AdminUserUpdateRequest
type SettingsUpdateRequest = validator.SettingsUpdateRequest

// ===== AUTH DTOs =====

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// TokenClaims is what the auth middleware gets back from a verified
// bearer token.
type TokenClaims struct {
	UserID uint            `json:"userId"`
	Role   models.UserRole `json:"role"`
}

// ===== CATALOG DTOs =====

type CourseResponse struct {
	*models.Course
	InstructorCourseCount  int64 `json:"instructorCourses"`
	InstructorStudentCount int64 `json:"instructorStudents"`
}

type CourseListResponse struct {
	Courses  []*CourseResponse `json:"courses"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

// ===== ENROLLMENT DTOs =====

// EnrolledCourse is a catalog course plus the student's enrollment
// info. Progress fields are synthesized until lesson tracking exists.
type EnrolledCourse struct {
	*models.Course
	EnrolledAt       time.Time `json:"enrolledAt"`
	Progress         int       `json:"progress"`
	CompletedLessons int       `json:"completedLessons"`
	TotalLessons     int       `json:"totalLessons"`
}

type EnrollmentCheckResponse struct {
	IsEnrolled bool `json:"isEnrolled"`
}

// ===== INSTRUCTOR DTOs =====

type InstructorResponse struct {
	*models.User
	CourseCount  int64 `json:"courseCount"`
	StudentCount int64 `json:"studentCount"`
}

type InstructorListResponse struct {
	Instructors []*InstructorResponse `json:"instructors"`
	Total       int64                 `json:"total"`
	Page        int                   `json:"page"`
	PageSize    int                   `json:"pageSize"`
}

type InstructorDashboard struct {
	TotalCourses     int64   `json:"totalCourses"`
	TotalStudents    int64   `json:"totalStudents"`
	TotalEnrollments int64   `json:"totalEnrollments"`
	AverageRating    float64 `json:"averageRating"`
	TotalRevenue     float64 `json:"totalRevenue"`
}

// ===== ADMIN DTOs =====

type AdminStats struct {
	TotalUsers       int64   `json:"totalUsers"`
	TotalCourses     int64   `json:"totalCourses"`
	TotalInstructors int64   `json:"totalInstructors"`
	RecentSignups    int64   `json:"recentSignups"`
	TotalRevenue     float64 `json:"totalRevenue"`
}

type RevenueSummary struct {
	TotalRevenue     float64 `json:"totalRevenue"`
	TotalEnrollments int64   `json:"totalEnrollments"`
}

// MonthlyPoint is one bucket of a 12-month series. Month is the short
// English name; buckets group by calendar month across years.
type MonthlyPoint struct {
	Month string  `json:"month"`
	Count int64   `json:"count"`
	Total float64 `json:"total"`
}

type ActivityItem struct {
	Type        string    `json:"type"` // "user" | "course" | "enrollment"
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

type MonthlyActiveResponse struct {
	ActiveUsers int `json:"activeUsers"`
}

// PublicSettings is the unauthenticated subset of platform settings.
type PublicSettings struct {
	PlatformName    string       `json:"platformName"`
	MaintenanceMode bool         `json:"maintenanceMode"`
	Theme           models.Theme `json:"theme"`
}

// Report is a generated download: CSV or XLSX bytes plus the headers
// the handler needs to serve it.
type Report struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest, avatarURL *string) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	VerifyToken(tokenString string) (*TokenClaims, error)

	GetProfile(ctx context.Context, userID uint) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uint, req *UpdateProfileRequest, avatarURL *string) (*models.User, error)
	ChangePassword(ctx context.Context, userID uint, req *ChangePasswordRequest) error
}

type CatalogService interface {
	List(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error)
	GetByID(ctx context.Context, id uint) (*CourseResponse, error)

	Create(ctx context.Context, instructorID uint, req *CourseCreateRequest, thumbnailURL string) (*models.Course, error)
	Update(ctx context.Context, userID uint, role models.UserRole, courseID uint, req *CourseUpdateRequest, thumbnailURL string) (*models.Course, error)
	Delete(ctx context.Context, userID uint, role models.UserRole, courseID uint) error

	// Recommended returns popular courses the student has not enrolled
	// in yet.
	Recommended(ctx context.Context, studentID uint) ([]*models.Course, error)

	// Content returns the full course, lessons and meeting links
	// included, for a student who is enrolled.
	Content(ctx context.Context, studentID uint, courseID uint) (*models.Course, error)
}

type EnrollmentService interface {
	Enroll(ctx context.Context, studentID, courseID uint) (*models.Enrollment, error)
	Unenroll(ctx context.Context, studentID, courseID uint) error
	Check(ctx context.Context, studentID, courseID uint) (*EnrollmentCheckResponse, error)
	MyCourses(ctx context.Context, studentID uint) ([]*EnrolledCourse, error)
}

type InstructorService interface {
	List(ctx context.Context, filters repositories.InstructorFilters) (*InstructorListResponse, error)
	GetByID(ctx context.Context, id uint) (*InstructorResponse, error)

	Dashboard(ctx context.Context, instructorID uint) (*InstructorDashboard, error)
	OwnCourses(ctx context.Context, instructorID uint) ([]*models.Course, error)
	RecentEnrollments(ctx context.Context, instructorID uint, limit int) ([]*models.Enrollment, error)
}

type AdminService interface {
	Stats(ctx context.Context) (*AdminStats, error)
	Revenue(ctx context.Context) (*RevenueSummary, error)
	UserGrowth(ctx context.Context) ([]MonthlyPoint, error)
	MonthlyRevenue(ctx context.Context) ([]MonthlyPoint, error)
	ActivityFeed(ctx context.Context, limit int) ([]ActivityItem, error)
	MonthlyActiveUsers(ctx context.Context) (*MonthlyActiveResponse, error)

	ListUsers(ctx context.Context) ([]*models.User, error)
	ListCourses(ctx context.Context) ([]*models.Course, error)
	UpdateUser(ctx context.Context, id uint, req *AdminUserUpdateRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id uint) error

	GetSettings(ctx context.Context) (*models.Setting, error)
	UpdateSettings(ctx context.Context, req *SettingsUpdateRequest) (*models.Setting, error)
	GetPublicSettings(ctx context.Context) (*PublicSettings, error)
	GetSocialLinks(ctx context.Context) (*models.SocialLinks, error)

	ListSubscribers(ctx context.Context) ([]*models.Subscriber, error)
	Subscribe(ctx context.Context, email string) (*models.Subscriber, error)
	Unsubscribe(ctx context.Context, email string) error
}

// ReportService generates admin downloads. Format is "csv" or "xlsx".
type ReportService interface {
	UsersReport(ctx context.Context, format string) (*Report, error)
	RevenueReport(ctx context.Context, format string) (*Report, error)
	CoursePerformanceReport(ctx context.Context, format string) (*Report, error)
}

// ServiceManager wires every service behind one handle for handlers.
type ServiceManager interface {
	Auth() AuthService
	Catalog() CatalogService
	Enrollment() EnrollmentService
	Instructor() InstructorService
	Admin() AdminService
	Report() ReportService

	HealthCheck(ctx context.Context) error
}

package repositories

import (
	"context"
	"time"

	"github.com/studenthub/marketplace-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type CourseFilters struct {
	Query        *string             `json:"q"`
	Category     *string             `json:"category"`
	Level        *models.CourseLevel `json:"level"`
	InstructorID *uint               `json:"instructor_id"`
	Sort         string              `json:"sort"` // "rating", "popular", "price-asc", "price-desc", "newest"
	Page         int                 `json:"page"`
	PageSize     int                 `json:"page_size"`
}

type InstructorFilters struct {
	Query     *string `json:"q"`
	Expertise *string `json:"expertise"`
	Sort      string  `json:"sort"` // "rating", "newest"
	Page      int     `json:"page"`
	PageSize  int     `json:"page_size"`
}

// ===== SHARED STATISTICS STRUCTS =====

// InstructorAggregate carries the per-instructor counts the catalog
// shows on course cards: how many courses they teach and how many
// distinct students are enrolled across those courses.
type InstructorAggregate struct {
	InstructorID uint  `json:"instructor_id"`
	CourseCount  int64 `json:"course_count"`
	StudentCount int64 `json:"student_count"`
}

type MonthlyCount struct {
	Month int   `json:"month"` // 1..12, calendar month across all years
	Count int64 `json:"count"`
}

type MonthlyAmount struct {
	Month int     `json:"month"`
	Total float64 `json:"total"`
}

// ===== REPORT ROW STRUCTS =====

type RevenueReportRow struct {
	Course  string    `json:"course"`
	Price   float64   `json:"price"`
	Student string    `json:"student"`
	Date    time.Time `json:"date"`
}

type CoursePerformanceRow struct {
	Course           string  `json:"course"`
	Price            float64 `json:"price"`
	TotalEnrollments int64   `json:"totalEnrollments"`
	TotalRevenue     float64 `json:"totalRevenue"`
}

// ===== REPOSITORY INTERFACES =====

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context) ([]*models.User, error)
	ListInstructors(ctx context.Context, filters InstructorFilters) ([]*models.User, int64, error)
	GetInstructor(ctx context.Context, id uint) (*models.User, error)

	CountByRole(ctx context.Context, role models.UserRole) (int64, error)
}

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filters CourseFilters) ([]*models.Course, int64, error)
	ListAll(ctx context.Context) ([]*models.Course, error)
	ListByInstructor(ctx context.Context, instructorID uint) ([]*models.Course, error)
	ListExcluding(ctx context.Context, excludeIDs []uint, limit int) ([]*models.Course, error)
	IDsByInstructor(ctx context.Context, instructorID uint) ([]uint, error)

	// InstructorAggregates computes course and distinct-student counts
	// for a batch of instructors in two grouped queries, instead of two
	// queries per listed course.
	InstructorAggregates(ctx context.Context, instructorIDs []uint) (map[uint]InstructorAggregate, error)
	AverageRating(ctx context.Context, instructorID uint) (float64, error)

	// IncrementEnrollments applies an atomic relative update to the
	// denormalized counter. Callers run it in the same transaction as
	// the enrollment insert or delete.
	IncrementEnrollments(ctx context.Context, courseID uint, delta int) error
}

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Get(ctx context.Context, studentID, courseID uint) (*models.Enrollment, error)
	Exists(ctx context.Context, studentID, courseID uint) (bool, error)
	Delete(ctx context.Context, id uint) error

	ListByStudent(ctx context.Context, studentID uint) ([]*models.Enrollment, error)
	CourseIDsByStudent(ctx context.Context, studentID uint) ([]uint, error)
	CountByCourses(ctx context.Context, courseIDs []uint) (int64, error)
	DistinctStudentCount(ctx context.Context, courseIDs []uint) (int64, error)
	RevenueByCourses(ctx context.Context, courseIDs []uint) (float64, error)
	RecentByCourses(ctx context.Context, courseIDs []uint, limit int) ([]*models.Enrollment, error)
}

type SettingsRepository interface {
	// Get returns the singleton settings row, creating it with defaults
	// on first access.
	Get(ctx context.Context) (*models.Setting, error)
	Update(ctx context.Context, setting *models.Setting) error

	Subscribers(ctx context.Context) ([]*models.Subscriber, error)
	AddSubscriber(ctx context.Context, email string) (*models.Subscriber, error)
	RemoveSubscriber(ctx context.Context, email string) error
}

type DashboardRepository interface {
	TotalUsers(ctx context.Context) (int64, error)
	TotalCourses(ctx context.Context) (int64, error)
	TotalInstructors(ctx context.Context) (int64, error)
	TotalEnrollments(ctx context.Context) (int64, error)
	RecentSignups(ctx context.Context, days int) (int64, error)

	TotalRevenue(ctx context.Context) (float64, error)
	MonthlyUserGrowth(ctx context.Context) ([]MonthlyCount, error)
	MonthlyRevenue(ctx context.Context) ([]MonthlyAmount, error)

	RecentUsers(ctx context.Context, limit int) ([]*models.User, error)
	RecentCourses(ctx context.Context, limit int) ([]*models.Course, error)
	RecentEnrollments(ctx context.Context, limit int) ([]*models.Enrollment, error)

	// Monthly-active is the union of users who registered and students
	// who enrolled inside the window.
	UserIDsRegisteredSince(ctx context.Context, since time.Time) ([]uint, error)
	StudentIDsEnrolledSince(ctx context.Context, since time.Time) ([]uint, error)

	RevenueReport(ctx context.Context) ([]RevenueReportRow, error)
	CoursePerformanceReport(ctx context.Context) ([]CoursePerformanceRow, error)
}

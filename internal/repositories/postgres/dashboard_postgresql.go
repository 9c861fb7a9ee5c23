package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/studenthub/marketplace-service/internal/models"
	"github.com/studenthub/marketplace-service/internal/repositories"
)

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) repositories.DashboardRepository {
	return &dashboardRepository{db: db}
}

// ===== PLATFORM TOTALS =====

func (r *dashboardRepository) TotalUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to get total users: %w", err)
	}
	return count, nil
}

func (r *dashboardRepository) TotalCourses(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to get total courses: %w", err)
	}
	return count, nil
}

func (r *dashboardRepository) TotalInstructors(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", models.RoleInstructor).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to get total instructors: %w", err)
	}
	return count, nil
}

func (r *dashboardRepository) TotalEnrollments(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to get total enrollments: %w", err)
	}
	return count, nil
}

func (r *dashboardRepository) RecentSignups(ctx context.Context, days int) (int64, error) {
	var count int64
	startDate := time.Now().AddDate(0, 0, -days)
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("created_at >= ?", startDate).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to get recent signups: %w", err)
	}
	return count, nil
}

// ===== REVENUE =====

func (r *dashboardRepository) TotalRevenue(ctx context.Context) (float64, error) {
	var result struct {
		Total float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("status = ?", models.EnrollmentPaid).
		Select("COALESCE(SUM(amount), 0) as total").
		Scan(&result).Error
	if err != nil {
		return 0, fmt.Errorf("failed to get total revenue: %w", err)
	}
	return result.Total, nil
}

// MonthlyUserGrowth groups registrations by calendar month across all
// years, matching what the admin growth chart has always shown.
func (r *dashboardRepository) MonthlyUserGrowth(ctx context.Context) ([]repositories.MonthlyCount, error) {
	var rows []repositories.MonthlyCount
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("EXTRACT(MONTH FROM created_at)::int as month, COUNT(*) as count").
		Group("month").
		Order("month ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user growth: %w", err)
	}
	return rows, nil
}

func (r *dashboardRepository) MonthlyRevenue(ctx context.Context) ([]repositories.MonthlyAmount, error) {
	var rows []repositories.MonthlyAmount
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("status = ?", models.EnrollmentPaid).
		Select("EXTRACT(MONTH FROM created_at)::int as month, COALESCE(SUM(amount), 0) as total").
		Group("month").
		Order("month ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly revenue: %w", err)
	}
	return rows, nil
}

// ===== ACTIVITY FEED =====

func (r *dashboardRepository) RecentUsers(ctx context.Context, limit int) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get recent users: %w", err)
	}
	return users, nil
}

func (r *dashboardRepository) RecentCourses(ctx context.Context, limit int) ([]*models.Course, error) {
	var courses []*models.Course
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get recent courses: %w", err)
	}
	return courses, nil
}

func (r *dashboardRepository) RecentEnrollments(ctx context.Context, limit int) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Course").
		Order("created_at DESC").
		Limit(limit).
		Find(&enrollments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get recent enrollments: %w", err)
	}
	return enrollments, nil
}

// ===== MONTHLY ACTIVE =====

func (r *dashboardRepository) UserIDsRegisteredSince(ctx context.Context, since time.Time) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("created_at >= ?", since).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get registered user ids: %w", err)
	}
	return ids, nil
}

func (r *dashboardRepository) StudentIDsEnrolledSince(ctx context.Context, since time.Time) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("created_at >= ?", since).
		Distinct().
		Pluck("student_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get enrolled student ids: %w", err)
	}
	return ids, nil
}

// ===== REPORTS =====

func (r *dashboardRepository) RevenueReport(ctx context.Context) ([]repositories.RevenueReportRow, error) {
	var rows []repositories.RevenueReportRow
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Select("courses.title as course, courses.price as price, users.name as student, enrollments.created_at as date").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Joins("JOIN users ON users.id = enrollments.student_id").
		Where("enrollments.status = ?", models.EnrollmentPaid).
		Order("enrollments.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to build revenue report: %w", err)
	}
	return rows, nil
}

func (r *dashboardRepository) CoursePerformanceReport(ctx context.Context) ([]repositories.CoursePerformanceRow, error) {
	var rows []repositories.CoursePerformanceRow
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Select("courses.title as course, courses.price as price, COUNT(*) as total_enrollments, COALESCE(SUM(enrollments.amount), 0) as total_revenue").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Group("courses.id, courses.title, courses.price").
		Order("total_revenue DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to build course performance report: %w", err)
	}
	return rows, nil
}

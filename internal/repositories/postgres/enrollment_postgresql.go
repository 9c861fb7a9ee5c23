package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/studenthub/marketplace-service/internal/models"
	"github.com/studenthub/marketplace-service/internal/repositories"
)

type EnrollmentPostgreSQL struct {
	db *gorm.DB
}

func NewEnrollmentPostgreSQL(db *gorm.DB) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{db: db}
}

// Create inserts an enrollment. The (student_id, course_id) unique index
// turns a concurrent duplicate into gorm.ErrDuplicatedKey rather than a
// second row.
func (e *EnrollmentPostgreSQL) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now()
	}
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentPaid
	}
	if err := e.db.WithContext(ctx).Create(enrollment).Error; err != nil {
		return err
	}
	return nil
}

func (e *EnrollmentPostgreSQL) Get(ctx context.Context, studentID, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := e.db.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (e *EnrollmentPostgreSQL) Exists(ctx context.Context, studentID, courseID uint) (bool, error) {
	var count int64
	err := e.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}
	return count > 0, nil
}

func (e *EnrollmentPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := e.db.WithContext(ctx).Delete(&models.Enrollment{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete enrollment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (e *EnrollmentPostgreSQL) ListByStudent(ctx context.Context, studentID uint) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	err := e.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Preload("Course").
		Preload("Course.Instructor").
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return enrollments, nil
}

func (e *EnrollmentPostgreSQL) CourseIDsByStudent(ctx context.Context, studentID uint) ([]uint, error) {
	var ids []uint
	err := e.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("student_id = ?", studentID).
		Pluck("course_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get enrolled course ids: %w", err)
	}
	return ids, nil
}

func (e *EnrollmentPostgreSQL) CountByCourses(ctx context.Context, courseIDs []uint) (int64, error) {
	if len(courseIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := e.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id IN ?", courseIDs).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count enrollments: %w", err)
	}
	return count, nil
}

func (e *EnrollmentPostgreSQL) DistinctStudentCount(ctx context.Context, courseIDs []uint) (int64, error) {
	if len(courseIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := e.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id IN ?", courseIDs).
		Distinct("student_id").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count distinct students: %w", err)
	}
	return count, nil
}

func (e *EnrollmentPostgreSQL) RevenueByCourses(ctx context.Context, courseIDs []uint) (float64, error) {
	if len(courseIDs) == 0 {
		return 0, nil
	}
	var total float64
	err := e.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id IN ? AND status = ?", courseIDs, models.EnrollmentPaid).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return total, nil
}

func (e *EnrollmentPostgreSQL) RecentByCourses(ctx context.Context, courseIDs []uint, limit int) ([]*models.Enrollment, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}
	var enrollments []*models.Enrollment
	err := e.db.WithContext(ctx).
		Where("course_id IN ?", courseIDs).
		Preload("Student").
		Preload("Course").
		Order("created_at DESC").
		Limit(limit).
		Find(&enrollments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent enrollments: %w", err)
	}
	return enrollments, nil
}

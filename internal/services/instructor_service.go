package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/studenthub/marketplace-service/internal/models"
	"github.com/studenthub/marketplace-service/internal/repositories"
)

const (
	defaultInstructorPageSize = 12
	maxInstructorPageSize     = 50
	defaultRecentEnrollments  = 10
)

type instructorService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewInstructorService(repo repositories.Repository, logger *slog.Logger) InstructorService {
	return &instructorService{repo: repo, logger: logger}
}

func (s *instructorService) List(ctx context.Context, filters repositories.InstructorFilters) (*InstructorListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = defaultInstructorPageSize
	}
	if filters.PageSize > maxInstructorPageSize {
		filters.PageSize = maxInstructorPageSize
	}

	instructors, total, err := s.repo.User().ListInstructors(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list instructors: %w", err)
	}

	ids := make([]uint, len(instructors))
	for i, instructor := range instructors {
		ids[i] = instructor.ID
	}

	aggregates := map[uint]repositories.InstructorAggregate{}
	if len(ids) > 0 {
		aggregates, err = s.repo.Course().InstructorAggregates(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load instructor aggregates: %w", err)
		}
	}

	responses := make([]*InstructorResponse, len(instructors))
	for i, instructor := range instructors {
		agg := aggregates[instructor.ID]
		responses[i] = &InstructorResponse{
			User:         instructor,
			CourseCount:  agg.CourseCount,
			StudentCount: agg.StudentCount,
		}
	}

	return &InstructorListResponse{
		Instructors: responses,
		Total:       total,
		Page:        filters.Page,
		PageSize:    filters.PageSize,
	}, nil
}

func (s *instructorService) GetByID(ctx context.Context, id uint) (*InstructorResponse, error) {
	instructor, err := s.repo.User().GetInstructor(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInstructorNotFound
		}
		return nil, fmt.Errorf("failed to load instructor: %w", err)
	}

	aggregates, err := s.repo.Course().InstructorAggregates(ctx, []uint{id})
	if err != nil {
		return nil, fmt.Errorf("failed to load instructor aggregates: %w", err)
	}

	agg := aggregates[id]
	return &InstructorResponse{
		User:         instructor,
		CourseCount:  agg.CourseCount,
		StudentCount: agg.StudentCount,
	}, nil
}

func (s *instructorService) Dashboard(ctx context.Context, instructorID uint) (*InstructorDashboard, error) {
	courseIDs, err := s.repo.Course().IDsByInstructor(ctx, instructorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course ids: %w", err)
	}

	students, err := s.repo.Enrollment().DistinctStudentCount(ctx, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count students: %w", err)
	}
	enrollments, err := s.repo.Enrollment().CountByCourses(ctx, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count enrollments: %w", err)
	}
	revenue, err := s.repo.Enrollment().RevenueByCourses(ctx, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	rating, err := s.repo.Course().AverageRating(ctx, instructorID)
	if err != nil {
		return nil, fmt.Errorf("failed to average rating: %w", err)
	}

	return &InstructorDashboard{
		TotalCourses:     int64(len(courseIDs)),
		TotalStudents:    students,
		TotalEnrollments: enrollments,
		AverageRating:    rating,
		TotalRevenue:     revenue,
	}, nil
}

func (s *instructorService) OwnCourses(ctx context.Context, instructorID uint) ([]*models.Course, error) {
	courses, err := s.repo.Course().ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

func (s *instructorService) RecentEnrollments(ctx context.Context, instructorID uint, limit int) ([]*models.Enrollment, error) {
	if limit < 1 {
		limit = defaultRecentEnrollments
	}

	courseIDs, err := s.repo.Course().IDsByInstructor(ctx, instructorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course ids: %w", err)
	}

	enrollments, err := s.repo.Enrollment().RecentByCourses(ctx, courseIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent enrollments: %w", err)
	}
	return enrollments, nil
}

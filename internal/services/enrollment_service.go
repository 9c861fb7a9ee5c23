package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/studenthub/marketplace-service/internal/events"
	"github.com/studenthub/marketplace-service/internal/models"
	"github.com/studenthub/marketplace-service/internal/repositories"
)

type enrollmentService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewEnrollmentService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Enroll creates the enrollment and bumps the course counter in one
// transaction, so the denormalized count never drifts from the rows.
func (s *enrollmentService) Enroll(ctx context.Context, studentID, courseID uint) (*models.Enrollment, error) {
	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}

	enrolled, err := s.repo.Enrollment().Exists(ctx, studentID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if enrolled {
		return nil, ErrAlreadyEnrolled
	}

	enrollment := &models.Enrollment{
		StudentID: studentID,
		CourseID:  courseID,
		Amount:    course.Price,
		Status:    models.EnrollmentPaid,
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Enrollment().Create(ctx, enrollment); err != nil {
			if repositories.IsDuplicateError(err) {
				return ErrAlreadyEnrolled
			}
			return fmt.Errorf("failed to create enrollment: %w", err)
		}
		return txRepo.Course().IncrementEnrollments(ctx, courseID, 1)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.NewEvent(events.TypeEnrollmentCreated, events.EnrollmentEvent{
		EnrollmentID: enrollment.ID,
		StudentID:    studentID,
		CourseID:     courseID,
		Amount:       enrollment.Amount,
	}))

	s.logger.Info("Student enrolled", "student_id", studentID, "course_id", courseID)
	enrollment.Course = *course
	return enrollment, nil
}

func (s *enrollmentService) Unenroll(ctx context.Context, studentID, courseID uint) error {
	enrollment, err := s.repo.Enrollment().Get(ctx, studentID, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotEnrolled
		}
		return fmt.Errorf("failed to load enrollment: %w", err)
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Enrollment().Delete(ctx, enrollment.ID); err != nil {
			// A concurrent unenroll may have removed the row between
			// the lookup and the delete.
			if repositories.IsNotFoundError(err) {
				return ErrNotEnrolled
			}
			return fmt.Errorf("failed to delete enrollment: %w", err)
		}
		return txRepo.Course().IncrementEnrollments(ctx, courseID, -1)
	})
	if err != nil {
		return err
	}

	s.publishEvent(ctx, events.NewEvent(events.TypeEnrollmentDeleted, events.EnrollmentEvent{
		EnrollmentID: enrollment.ID,
		StudentID:    studentID,
		CourseID:     courseID,
		Amount:       enrollment.Amount,
	}))

	s.logger.Info("Student unenrolled", "student_id", studentID, "course_id", courseID)
	return nil
}

func (s *enrollmentService) Check(ctx context.Context, studentID, courseID uint) (*EnrollmentCheckResponse, error) {
	enrolled, err := s.repo.Enrollment().Exists(ctx, studentID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	return &EnrollmentCheckResponse{IsEnrolled: enrolled}, nil
}

func (s *enrollmentService) MyCourses(ctx context.Context, studentID uint) ([]*EnrolledCourse, error) {
	enrollments, err := s.repo.Enrollment().ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	courses := make([]*EnrolledCourse, len(enrollments))
	for i, enrollment := range enrollments {
		course := enrollment.Course

		// Lesson tracking does not exist yet, so progress numbers are
		// synthesized for the dashboard mock-up.
		totalLessons := len(course.Lessons)
		if totalLessons == 0 {
			totalLessons = 8 + rng.Intn(13)
		}
		completed := rng.Intn(totalLessons + 1)

		courses[i] = &EnrolledCourse{
			Course:           &course,
			EnrolledAt:       enrollment.EnrolledAt,
			Progress:         completed * 100 / totalLessons,
			CompletedLessons: completed,
			TotalLessons:     totalLessons,
		}
	}
	return courses, nil
}

func (s *enrollmentService) publishEvent(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event", "event_type", event.Type, "error", err)
	}
}

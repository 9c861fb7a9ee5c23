package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/studenthub/marketplace-service/internal/events"
	"github.com/studenthub/marketplace-service/internal/models"
	"github.com/studenthub/marketplace-service/internal/repositories"
	"github.com/studenthub/marketplace-service/internal/validator"
	"gorm.io/datatypes"
)

const (
	defaultCataloguePageSize = 9
	maxCataloguePageSize     = 50
	recommendedCourseLimit   = 6
)

type catalogService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewCatalogService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) CatalogService {
	return &catalogService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

func (s *catalogService) List(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = defaultCataloguePageSize
	}
	if filters.PageSize > maxCataloguePageSize {
		filters.PageSize = maxCataloguePageSize
	}

	courses, total, err := s.repo.Course().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	responses, err := s.enrich(ctx, courses)
	if err != nil {
		return nil, err
	}

	return &CourseListResponse{
		Courses:  responses,
		Total:    total,
		Page:     filters.Page,
		PageSize: filters.PageSize,
	}, nil
}

func (s *catalogService) GetByID(ctx context.Context, id uint) (*CourseResponse, error) {
	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}

	responses, err := s.enrich(ctx, []*models.Course{course})
	if err != nil {
		return nil, err
	}
	return responses[0], nil
}

// enrich attaches per-instructor course and student counts to course
// cards using one batched aggregate query for the whole page.
func (s *catalogService) enrich(ctx context.Context, courses []*models.Course) ([]*CourseResponse, error) {
	instructorIDs := make([]uint, 0, len(courses))
	seen := make(map[uint]bool)
	for _, course := range courses {
		if !seen[course.InstructorID] {
			seen[course.InstructorID] = true
			instructorIDs = append(instructorIDs, course.InstructorID)
		}
	}

	aggregates := map[uint]repositories.InstructorAggregate{}
	if len(instructorIDs) > 0 {
		var err error
		aggregates, err = s.repo.Course().InstructorAggregates(ctx, instructorIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load instructor aggregates: %w", err)
		}
	}

	responses := make([]*CourseResponse, len(courses))
	for i, course := range courses {
		agg := aggregates[course.InstructorID]
		responses[i] = &CourseResponse{
			Course:                 course,
			InstructorCourseCount:  agg.CourseCount,
			InstructorStudentCount: agg.StudentCount,
		}
	}
	return responses, nil
}

func (s *catalogService) Create(ctx context.Context, instructorID uint, req *CourseCreateRequest, thumbnailURL string) (*models.Course, error) {
	s.logger.Info("Creating course", "instructor_id", instructorID, "title", req.Title)

	if errs := s.validator.GetBusinessValidator().ValidateCourseCreate(req); len(errs) > 0 {
		return nil, errs
	}

	instructor, err := s.repo.User().GetInstructor(ctx, instructorID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInstructorNotFound
		}
		return nil, fmt.Errorf("failed to load instructor: %w", err)
	}

	zoomSchedule, err := marshalSchedule(req.ZoomSchedule)
	if err != nil {
		return nil, err
	}
	classroomSchedule, err := marshalSchedule(req.ClassroomSchedule)
	if err != nil {
		return nil, err
	}

	course := &models.Course{
		Title:             req.Title,
		Description:       req.Description,
		Category:          req.Category,
		Level:             req.Level,
		Price:             req.Price,
		InstructorID:      instructor.ID,
		Thumbnail:         thumbnailURL,
		ZoomSchedule:      zoomSchedule,
		ClassroomSchedule: classroomSchedule,
	}
	if req.ZoomLink != nil {
		course.ZoomLink = *req.ZoomLink
	}
	if req.ClassroomLink != nil {
		course.ClassroomLink = *req.ClassroomLink
	}
	for _, lesson := range req.Lessons {
		course.Lessons = append(course.Lessons, models.Lesson{
			Title:    lesson.Title,
			VideoURL: lesson.VideoURL,
			Duration: lesson.Duration,
		})
	}

	if err := s.repo.Course().Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.publishEvent(ctx, events.NewEvent(events.TypeCourseCreated, events.CourseEvent{
		CourseID:     course.ID,
		Title:        course.Title,
		InstructorID: course.InstructorID,
		Price:        course.Price,
	}))

	return course, nil
}

func (s *catalogService) Update(ctx context.Context, userID uint, role models.UserRole, courseID uint, req *CourseUpdateRequest, thumbnailURL string) (*models.Course, error) {
	if errs := s.validator.GetBusinessValidator().ValidateCourseUpdate(req); len(errs) > 0 {
		return nil, errs
	}

	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}

	if role != models.RoleAdmin && course.InstructorID != userID {
		return nil, NewPermissionError(userID, courseID, "course", "update", "not the course owner")
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Category != nil {
		course.Category = *req.Category
	}
	if req.Level != nil {
		course.Level = *req.Level
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.ZoomLink != nil {
		course.ZoomLink = *req.ZoomLink
	}
	if req.ClassroomLink != nil {
		course.ClassroomLink = *req.ClassroomLink
	}
	if thumbnailURL != "" {
		course.Thumbnail = thumbnailURL
	}

	// Schedules and lessons are replaced wholesale when present.
	if req.ZoomSchedule != nil {
		course.ZoomSchedule, err = marshalSchedule(req.ZoomSchedule)
		if err != nil {
			return nil, err
		}
	}
	if req.ClassroomSchedule != nil {
		course.ClassroomSchedule, err = marshalSchedule(req.ClassroomSchedule)
		if err != nil {
			return nil, err
		}
	}
	if req.Lessons != nil {
		lessons := make([]models.Lesson, len(req.Lessons))
		for i, lesson := range req.Lessons {
			lessons[i] = models.Lesson{
				CourseID: course.ID,
				Title:    lesson.Title,
				VideoURL: lesson.VideoURL,
				Duration: lesson.Duration,
			}
		}
		course.Lessons = lessons
	}

	if err := s.repo.Course().Update(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	return course, nil
}

func (s *catalogService) Delete(ctx context.Context, userID uint, role models.UserRole, courseID uint) error {
	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to load course: %w", err)
	}

	if role != models.RoleAdmin && course.InstructorID != userID {
		return NewPermissionError(userID, courseID, "course", "delete", "not the course owner")
	}

	if err := s.repo.Course().Delete(ctx, courseID); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	s.publishEvent(ctx, events.NewEvent(events.TypeCourseDeleted, events.CourseEvent{
		CourseID:     course.ID,
		Title:        course.Title,
		InstructorID: course.InstructorID,
		Price:        course.Price,
	}))

	s.logger.Info("Course deleted", "course_id", courseID, "deleted_by", userID)
	return nil
}

func (s *catalogService) Recommended(ctx context.Context, studentID uint) ([]*models.Course, error) {
	enrolledIDs, err := s.repo.Enrollment().CourseIDsByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load enrollments: %w", err)
	}

	courses, err := s.repo.Course().ListExcluding(ctx, enrolledIDs, recommendedCourseLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendations: %w", err)
	}
	return courses, nil
}

func (s *catalogService) Content(ctx context.Context, studentID uint, courseID uint) (*models.Course, error) {
	enrolled, err := s.repo.Enrollment().Exists(ctx, studentID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if !enrolled {
		return nil, NewPermissionError(studentID, courseID, "course", "learn", "not enrolled")
	}

	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	return course, nil
}

func marshalSchedule(entries []validator.ScheduleEntryRequest) (datatypes.JSON, error) {
	if entries == nil {
		return nil, nil
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to encode schedule: %w", err)
	}
	return datatypes.JSON(payload), nil
}

func (s *catalogService) publishEvent(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event", "event_type", event.Type, "error", err)
	}
}

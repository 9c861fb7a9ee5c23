package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studenthub/marketplace-service/internal/events"
	"github.com/studenthub/marketplace-service/internal/models"
)

func seedStudentAndCourse(repo *fakeRepository) (*models.User, *models.Course) {
	instructor := repo.addUser(models.User{Name: "Inge", Email: "inge@example.com", Role: models.RoleInstructor})
	student := repo.addUser(models.User{Name: "Stig", Email: "stig@example.com", Role: models.RoleStudent})
	course := repo.addCourse(models.Course{
		Title: "Go from scratch", Description: "d", Category: "Programming",
		Level: models.LevelBeginner, Price: 49.99, InstructorID: instructor.ID,
	})
	return student, course
}

func TestEnrollmentService_Enroll(t *testing.T) {
	ctx := context.Background()

	t.Run("enrolling stores the row and bumps the counter", func(t *testing.T) {
		repo := newFakeRepository()
		publisher := events.NewMockEventPublisher(testLogger())
		svc := NewEnrollmentService(repo, publisher, testLogger())
		student, course := seedStudentAndCourse(repo)

		enrollment, err := svc.Enroll(ctx, student.ID, course.ID)
		require.NoError(t, err)

		assert.Equal(t, course.Price, enrollment.Amount)
		assert.Equal(t, models.EnrollmentPaid, enrollment.Status)

		stored, err := repo.Course().GetByID(ctx, course.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.Enrollments)

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.TypeEnrollmentCreated, published[0].Type)
	})

	t.Run("double enrollment is rejected and counter stays put", func(t *testing.T) {
		repo := newFakeRepository()
		svc := NewEnrollmentService(repo, events.NewMockEventPublisher(testLogger()), testLogger())
		student, course := seedStudentAndCourse(repo)

		_, err := svc.Enroll(ctx, student.ID, course.ID)
		require.NoError(t, err)

		_, err = svc.Enroll(ctx, student.ID, course.ID)
		assert.ErrorIs(t, err, ErrAlreadyEnrolled)

		stored, err := repo.Course().GetByID(ctx, course.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.Enrollments)
	})

	t.Run("enrolling in a missing course is not found", func(t *testing.T) {
		repo := newFakeRepository()
		svc := NewEnrollmentService(repo, events.NewMockEventPublisher(testLogger()), testLogger())
		student, _ := seedStudentAndCourse(repo)

		_, err := svc.Enroll(ctx, student.ID, 404)
		assert.ErrorIs(t, err, ErrCourseNotFound)
	})
}

func TestEnrollmentService_Unenroll(t *testing.T) {
	ctx := context.Background()

	t.Run("unenrolling removes the row and decrements the counter", func(t *testing.T) {
		repo := newFakeRepository()
		publisher := events.NewMockEventPublisher(testLogger())
		svc := NewEnrollmentService(repo, publisher, testLogger())
		student, course := seedStudentAndCourse(repo)

		_, err := svc.Enroll(ctx, student.ID, course.ID)
		require.NoError(t, err)

		err = svc.Unenroll(ctx, student.ID, course.ID)
		require.NoError(t, err)

		stored, err := repo.Course().GetByID(ctx, course.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, stored.Enrollments)

		check, err := svc.Check(ctx, student.ID, course.ID)
		require.NoError(t, err)
		assert.False(t, check.IsEnrolled)
	})

	t.Run("unenrolling without an enrollment fails", func(t *testing.T) {
		repo := newFakeRepository()
		svc := NewEnrollmentService(repo, events.NewMockEventPublisher(testLogger()), testLogger())
		student, course := seedStudentAndCourse(repo)

		err := svc.Unenroll(ctx, student.ID, course.ID)
		assert.ErrorIs(t, err, ErrNotEnrolled)
	})

	t.Run("losing a concurrent unenroll is not enrolled, not an internal error", func(t *testing.T) {
		repo := newFakeRepository()
		svc := NewEnrollmentService(repo, events.NewMockEventPublisher(testLogger()), testLogger())
		student, course := seedStudentAndCourse(repo)

		enrollment, err := svc.Enroll(ctx, student.ID, course.ID)
		require.NoError(t, err)

		// A competing request deletes the row after the lookup but
		// before this request's transaction runs.
		repo.beforeTransaction = func() {
			repo.beforeTransaction = nil
			require.NoError(t, repo.Enrollment().Delete(ctx, enrollment.ID))
		}

		err = svc.Unenroll(ctx, student.ID, course.ID)
		assert.ErrorIs(t, err, ErrNotEnrolled)

		stored, err := repo.Course().GetByID(ctx, course.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.Enrollments, "loser must not decrement the counter")
	})
}

func TestEnrollmentService_Check(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	svc := NewEnrollmentService(repo, events.NewMockEventPublisher(testLogger()), testLogger())
	student, course := seedStudentAndCourse(repo)

	check, err := svc.Check(ctx, student.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, check.IsEnrolled)

	_, err = svc.Enroll(ctx, student.ID, course.ID)
	require.NoError(t, err)

	check, err = svc.Check(ctx, student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, check.IsEnrolled)
}

func TestEnrollmentService_MyCourses(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	svc := NewEnrollmentService(repo, events.NewMockEventPublisher(testLogger()), testLogger())
	student, course := seedStudentAndCourse(repo)

	_, err := svc.Enroll(ctx, student.ID, course.ID)
	require.NoError(t, err)

	courses, err := svc.MyCourses(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, courses, 1)

	enrolled := courses[0]
	assert.Equal(t, course.ID, enrolled.ID)
	assert.False(t, enrolled.EnrolledAt.IsZero())

	// Progress numbers are synthetic but must stay internally coherent.
	assert.GreaterOrEqual(t, enrolled.TotalLessons, 1)
	assert.GreaterOrEqual(t, enrolled.CompletedLessons, 0)
	assert.LessOrEqual(t, enrolled.CompletedLessons, enrolled.TotalLessons)
	assert.GreaterOrEqual(t, enrolled.Progress, 0)
	assert.LessOrEqual(t, enrolled.Progress, 100)
}

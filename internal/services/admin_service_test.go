package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studenthub/marketplace-service/internal/cache"
	"github.com/studenthub/marketplace-service/internal/models"
	"github.com/studenthub/marketplace-service/internal/validator"
)

// A nil redis client degrades the cache manager to pass-through, so
// these tests exercise the uncached paths deterministically.
func newTestAdminService(repo *fakeRepository) AdminService {
	return NewAdminService(repo, cache.NewCacheManager(nil), testLogger(), validator.New())
}

func seedMarketplace(repo *fakeRepository) {
	instructor := repo.addUser(models.User{Name: "Inge", Email: "inge@example.com", Role: models.RoleInstructor})
	alice := repo.addUser(models.User{Name: "Alice", Email: "alice@example.com", Role: models.RoleStudent})
	bob := repo.addUser(models.User{Name: "Bob", Email: "bob@example.com", Role: models.RoleStudent})

	course := repo.addCourse(models.Course{
		Title: "Go services", Description: "d", Category: "Programming",
		Level: models.LevelBeginner, Price: 50, InstructorID: instructor.ID,
	})
	repo.addEnrollment(models.Enrollment{StudentID: alice.ID, CourseID: course.ID, Amount: 50, Status: models.EnrollmentPaid})
	repo.addEnrollment(models.Enrollment{StudentID: bob.ID, CourseID: course.ID, Amount: 50, Status: models.EnrollmentPaid})
}

func TestAdminService_Stats(t *testing.T) {
	repo := newFakeRepository()
	seedMarketplace(repo)
	svc := newTestAdminService(repo)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalCourses)
	assert.Equal(t, int64(1), stats.TotalInstructors)
	assert.Equal(t, int64(3), stats.RecentSignups)
	assert.Equal(t, float64(100), stats.TotalRevenue)
}

func TestAdminService_Revenue(t *testing.T) {
	repo := newFakeRepository()
	seedMarketplace(repo)
	svc := newTestAdminService(repo)

	revenue, err := svc.Revenue(context.Background())
	require.NoError(t, err)

	assert.Equal(t, float64(100), revenue.TotalRevenue)
	assert.Equal(t, int64(2), revenue.TotalEnrollments)
}

func TestAdminService_UserGrowth(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestAdminService(repo)

	march := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	repo.addUser(models.User{Name: "A", Email: "a@example.com", Role: models.RoleStudent, CreatedAt: march})
	repo.addUser(models.User{Name: "B", Email: "b@example.com", Role: models.RoleStudent, CreatedAt: march})

	series, err := svc.UserGrowth(context.Background())
	require.NoError(t, err)
	require.Len(t, series, 12)

	assert.Equal(t, "Jan", series[0].Month)
	assert.Equal(t, "Mar", series[2].Month)
	assert.Equal(t, int64(2), series[2].Count)
	assert.Equal(t, int64(0), series[0].Count)
}

func TestAdminService_ActivityFeed(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestAdminService(repo)

	base := time.Now().Add(-time.Hour)
	instructor := repo.addUser(models.User{Name: "Inge", Email: "inge@example.com", Role: models.RoleInstructor, CreatedAt: base})
	student := repo.addUser(models.User{Name: "Stig", Email: "stig@example.com", Role: models.RoleStudent, CreatedAt: base.Add(time.Minute)})
	course := repo.addCourse(models.Course{
		Title: "Go services", Description: "d", Category: "c",
		Level: models.LevelBeginner, InstructorID: instructor.ID, CreatedAt: base.Add(2 * time.Minute),
	})
	repo.addEnrollment(models.Enrollment{
		StudentID: student.ID, CourseID: course.ID, Amount: 10,
		CreatedAt: base.Add(3 * time.Minute), EnrolledAt: base.Add(3 * time.Minute),
	})

	t.Run("items are merged newest first", func(t *testing.T) {
		items, err := svc.ActivityFeed(context.Background(), 10)
		require.NoError(t, err)
		require.Len(t, items, 4)

		assert.Equal(t, "enrollment", items[0].Type)
		assert.Contains(t, items[0].Description, "Stig")
		assert.Contains(t, items[0].Description, "Go services")
		for i := 1; i < len(items); i++ {
			assert.False(t, items[i].Timestamp.After(items[i-1].Timestamp))
		}
	})

	t.Run("limit truncates and zero falls back to the default", func(t *testing.T) {
		items, err := svc.ActivityFeed(context.Background(), 2)
		require.NoError(t, err)
		assert.Len(t, items, 2)

		items, err = svc.ActivityFeed(context.Background(), 0)
		require.NoError(t, err)
		assert.Len(t, items, 4)
	})
}

func TestAdminService_MonthlyActiveUsers(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestAdminService(repo)

	old := time.Now().AddDate(0, -3, 0)
	recent := time.Now().AddDate(0, 0, -2)

	// Registered recently and also enrolled: counted once.
	active := repo.addUser(models.User{Name: "A", Email: "a@example.com", Role: models.RoleStudent, CreatedAt: recent})
	repo.addUser(models.User{Name: "B", Email: "b@example.com", Role: models.RoleStudent, CreatedAt: recent})
	dormant := repo.addUser(models.User{Name: "C", Email: "c@example.com", Role: models.RoleStudent, CreatedAt: old})
	instructor := repo.addUser(models.User{Name: "I", Email: "i@example.com", Role: models.RoleInstructor, CreatedAt: old})

	course := repo.addCourse(models.Course{
		Title: "T", Description: "d", Category: "c",
		Level: models.LevelBeginner, InstructorID: instructor.ID,
	})
	repo.addEnrollment(models.Enrollment{StudentID: active.ID, CourseID: course.ID, EnrolledAt: recent})
	_ = dormant

	resp, err := svc.MonthlyActiveUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, resp.ActiveUsers)
}

func TestAdminService_UserManagement(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	svc := newTestAdminService(repo)

	user := repo.addUser(models.User{Name: "Stig", Email: "stig@example.com", Role: models.RoleStudent})
	repo.addUser(models.User{Name: "Other", Email: "other@example.com", Role: models.RoleStudent})

	t.Run("role promotion", func(t *testing.T) {
		role := models.RoleInstructor
		updated, err := svc.UpdateUser(ctx, user.ID, &AdminUserUpdateRequest{Role: &role})
		require.NoError(t, err)
		assert.Equal(t, models.RoleInstructor, updated.Role)
	})

	t.Run("email conflict", func(t *testing.T) {
		email := "other@example.com"
		_, err := svc.UpdateUser(ctx, user.ID, &AdminUserUpdateRequest{Email: &email})
		assert.ErrorIs(t, err, ErrEmailInUse)
	})

	t.Run("delete then not found", func(t *testing.T) {
		require.NoError(t, svc.DeleteUser(ctx, user.ID))
		assert.ErrorIs(t, svc.DeleteUser(ctx, user.ID), ErrUserNotFound)
	})
}

func TestAdminService_Settings(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	svc := newTestAdminService(repo)

	t.Run("first read creates defaults", func(t *testing.T) {
		setting, err := svc.GetSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, "StudentHub", setting.PlatformName)
		assert.Equal(t, models.ThemeLight, setting.Theme)
	})

	t.Run("partial update keeps untouched fields", func(t *testing.T) {
		name := "CourseTown"
		theme := models.ThemeDark
		updated, err := svc.UpdateSettings(ctx, &SettingsUpdateRequest{PlatformName: &name, Theme: &theme})
		require.NoError(t, err)

		assert.Equal(t, "CourseTown", updated.PlatformName)
		assert.Equal(t, models.ThemeDark, updated.Theme)
		assert.True(t, updated.Notifications)
	})

	t.Run("public view hides smtp details", func(t *testing.T) {
		public, err := svc.GetPublicSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, "CourseTown", public.PlatformName)
		assert.Equal(t, models.ThemeDark, public.Theme)
	})

	t.Run("social links come from settings columns", func(t *testing.T) {
		facebook := "https://facebook.com/coursetown"
		_, err := svc.UpdateSettings(ctx, &SettingsUpdateRequest{SocialFacebook: &facebook})
		require.NoError(t, err)

		links, err := svc.GetSocialLinks(ctx)
		require.NoError(t, err)
		assert.Equal(t, facebook, links.Facebook)
	})
}

func TestAdminService_Newsletter(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	svc := newTestAdminService(repo)

	t.Run("subscribe then duplicate conflicts", func(t *testing.T) {
		subscriber, err := svc.Subscribe(ctx, "reader@example.com")
		require.NoError(t, err)
		assert.Equal(t, "reader@example.com", subscriber.Email)

		_, err = svc.Subscribe(ctx, "reader@example.com")
		assert.ErrorIs(t, err, ErrAlreadySubscribed)
	})

	t.Run("invalid email fails validation", func(t *testing.T) {
		_, err := svc.Subscribe(ctx, "not-an-email")
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
	})

	t.Run("unsubscribe removes the row", func(t *testing.T) {
		require.NoError(t, svc.Unsubscribe(ctx, "reader@example.com"))
		assert.ErrorIs(t, svc.Unsubscribe(ctx, "reader@example.com"), ErrSubscriberMissing)

		subscribers, err := svc.ListSubscribers(ctx)
		require.NoError(t, err)
		assert.Empty(t, subscribers)
	})
}

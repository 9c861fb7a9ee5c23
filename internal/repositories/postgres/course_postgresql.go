package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/studenthub/marketplace-service/internal/cache"
	"github.com/studenthub/marketplace-service/internal/models"
	"github.com/studenthub/marketplace-service/internal/repositories"
)

type CoursePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewCoursePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.CourseRepository {
	return &CoursePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// Create inserts a course and invalidates catalog caches.
func (c *CoursePostgreSQL) Create(ctx context.Context, course *models.Course) error {
	if err := c.db.WithContext(ctx).Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	cache.InvalidateCourseCache(ctx, c.cacheManager, course.ID, course.InstructorID)
	return nil
}

// GetByID retrieves a course with its instructor, cached.
func (c *CoursePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	cacheKey := fmt.Sprintf("id:%d", id)
	var course models.Course

	err := c.cacheManager.Course.CacheOrExecute(ctx, cacheKey, &course, cache.CourseCacheConfig.TTL, func() (interface{}, error) {
		var dbCourse models.Course
		err := c.db.WithContext(ctx).
			Preload("Instructor").
			Preload("Lessons").
			First(&dbCourse, id).Error
		if err != nil {
			return nil, err
		}
		return &dbCourse, nil
	})
	if err != nil {
		return nil, err
	}

	return &course, nil
}

func (c *CoursePostgreSQL) Update(ctx context.Context, course *models.Course) error {
	if err := c.db.WithContext(ctx).Save(course).Error; err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	cache.InvalidateCourseCache(ctx, c.cacheManager, course.ID, course.InstructorID)
	return nil
}

func (c *CoursePostgreSQL) Delete(ctx context.Context, id uint) error {
	result := c.db.WithContext(ctx).Delete(&models.Course{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete course: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.InvalidateCourseCache(ctx, c.cacheManager, id, 0)
	return nil
}

// cachedCourseList is the cache payload for one catalog page.
type cachedCourseList struct {
	Courses []*models.Course `json:"courses"`
	Total   int64            `json:"total"`
}

func courseListCacheKey(filters repositories.CourseFilters) string {
	q, category, level, instructorID := "", "", "", uint(0)
	if filters.Query != nil {
		q = *filters.Query
	}
	if filters.Category != nil {
		category = *filters.Category
	}
	if filters.Level != nil {
		level = string(*filters.Level)
	}
	if filters.InstructorID != nil {
		instructorID = *filters.InstructorID
	}
	return fmt.Sprintf("list:%s|%s|%s|%d|%s|%d|%d",
		q, category, level, instructorID, filters.Sort, filters.Page, filters.PageSize)
}

// List applies catalog filters, sorting and offset pagination, cached
// per page under the list:* prefix that course writes invalidate. The
// full filtered count is computed alongside the page, offset-style:
// page N re-executes the filtered query.
func (c *CoursePostgreSQL) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	var cached cachedCourseList
	err := c.cacheManager.Course.CacheOrExecute(ctx, courseListCacheKey(filters), &cached, cache.CourseCacheConfig.TTL, func() (interface{}, error) {
		courses, total, err := c.listUncached(ctx, filters)
		if err != nil {
			return nil, err
		}
		return &cachedCourseList{Courses: courses, Total: total}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return cached.Courses, cached.Total, nil
}

func (c *CoursePostgreSQL) listUncached(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	query := c.db.WithContext(ctx).Model(&models.Course{})

	if filters.Query != nil && *filters.Query != "" {
		query = query.Where("title ILIKE ?", "%"+*filters.Query+"%")
	}
	if filters.Category != nil && *filters.Category != "" {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.Level != nil && *filters.Level != "" {
		query = query.Where("level = ?", *filters.Level)
	}
	if filters.InstructorID != nil && *filters.InstructorID != 0 {
		query = query.Where("instructor_id = ?", *filters.InstructorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	switch filters.Sort {
	case "rating":
		query = query.Order("rating DESC")
	case "popular":
		query = query.Order("enrollments DESC")
	case "price-asc":
		query = query.Order("price ASC")
	case "price-desc":
		query = query.Order("price DESC")
	default:
		query = query.Order("created_at DESC")
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	pageSize := filters.PageSize
	if pageSize < 1 {
		pageSize = 12
	}

	var courses []*models.Course
	err := query.
		Preload("Instructor").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&courses).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}

	return courses, total, nil
}

func (c *CoursePostgreSQL) ListAll(ctx context.Context) ([]*models.Course, error) {
	var courses []*models.Course
	err := c.db.WithContext(ctx).
		Preload("Instructor").
		Order("created_at DESC").
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list all courses: %w", err)
	}
	return courses, nil
}

func (c *CoursePostgreSQL) ListByInstructor(ctx context.Context, instructorID uint) ([]*models.Course, error) {
	var courses []*models.Course
	err := c.db.WithContext(ctx).
		Where("instructor_id = ?", instructorID).
		Order("created_at DESC").
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list instructor courses: %w", err)
	}
	return courses, nil
}

// ListExcluding returns the most popular, best rated courses the given
// IDs are not part of. Used for recommendations.
func (c *CoursePostgreSQL) ListExcluding(ctx context.Context, excludeIDs []uint, limit int) ([]*models.Course, error) {
	query := c.db.WithContext(ctx).Preload("Instructor")
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}

	var courses []*models.Course
	err := query.
		Order("enrollments DESC").
		Order("rating DESC").
		Limit(limit).
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recommended courses: %w", err)
	}
	return courses, nil
}

func (c *CoursePostgreSQL) IDsByInstructor(ctx context.Context, instructorID uint) ([]uint, error) {
	var ids []uint
	err := c.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("instructor_id = ?", instructorID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get instructor course ids: %w", err)
	}
	return ids, nil
}

// InstructorAggregates resolves course and distinct-student counts for
// a set of instructors with one grouped query each, replacing the
// per-course lookups the catalog would otherwise issue.
func (c *CoursePostgreSQL) InstructorAggregates(ctx context.Context, instructorIDs []uint) (map[uint]repositories.InstructorAggregate, error) {
	result := make(map[uint]repositories.InstructorAggregate, len(instructorIDs))
	if len(instructorIDs) == 0 {
		return result, nil
	}

	var courseCounts []struct {
		InstructorID uint
		Count        int64
	}
	err := c.db.WithContext(ctx).
		Model(&models.Course{}).
		Select("instructor_id, COUNT(*) as count").
		Where("instructor_id IN ?", instructorIDs).
		Group("instructor_id").
		Scan(&courseCounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count instructor courses: %w", err)
	}

	var studentCounts []struct {
		InstructorID uint
		Count        int64
	}
	err = c.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Select("courses.instructor_id, COUNT(DISTINCT enrollments.student_id) as count").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("courses.instructor_id IN ?", instructorIDs).
		Group("courses.instructor_id").
		Scan(&studentCounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count instructor students: %w", err)
	}

	for _, id := range instructorIDs {
		result[id] = repositories.InstructorAggregate{InstructorID: id}
	}
	for _, row := range courseCounts {
		agg := result[row.InstructorID]
		agg.CourseCount = row.Count
		result[row.InstructorID] = agg
	}
	for _, row := range studentCounts {
		agg := result[row.InstructorID]
		agg.StudentCount = row.Count
		result[row.InstructorID] = agg
	}

	return result, nil
}

func (c *CoursePostgreSQL) AverageRating(ctx context.Context, instructorID uint) (float64, error) {
	var result struct {
		AvgRating float64
	}
	err := c.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("instructor_id = ?", instructorID).
		Select("COALESCE(AVG(rating), 0) as avg_rating").
		Scan(&result).Error
	if err != nil {
		return 0, fmt.Errorf("failed to get average rating: %w", err)
	}
	return result.AvgRating, nil
}

// IncrementEnrollments updates the denormalized counter relative to its
// stored value so concurrent writers cannot lose updates.
func (c *CoursePostgreSQL) IncrementEnrollments(ctx context.Context, courseID uint, delta int) error {
	result := c.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ?", courseID).
		UpdateColumn("enrollments", gorm.Expr("enrollments + ?", delta))
	if result.Error != nil {
		return fmt.Errorf("failed to update enrollment counter: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.SafeDelete(ctx, c.cacheManager.Course, fmt.Sprintf("id:%d", courseID))
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Course, "list:*")
	return nil
}

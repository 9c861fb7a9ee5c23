package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/studenthub/marketplace-service/internal/cache"
	"github.com/studenthub/marketplace-service/internal/models"
	"github.com/studenthub/marketplace-service/internal/repositories"
)

type UserPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewUserPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.UserRepository {
	return &UserPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (u *UserPostgreSQL) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	if err := u.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, u.cacheManager.Instructor, "list:*")
	return nil
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(email)).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailTaken checks whether an email is used by any user other than
// excludeID. Pass 0 to consider all users.
func (u *UserPostgreSQL) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	var count int64
	query := u.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", strings.ToLower(email))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

func (u *UserPostgreSQL) Update(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	if err := u.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, u.cacheManager.Instructor, "list:*")
	return nil
}

// Delete removes the user record only. Courses and enrollments owned by
// the user are not cascade-deleted.
func (u *UserPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := u.db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.SafeInvalidatePattern(ctx, u.cacheManager.Instructor, "list:*")
	return nil
}

func (u *UserPostgreSQL) List(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := u.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (u *UserPostgreSQL) ListInstructors(ctx context.Context, filters repositories.InstructorFilters) ([]*models.User, int64, error) {
	query := u.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", models.RoleInstructor)

	if filters.Query != nil && *filters.Query != "" {
		query = query.Where("name ILIKE ?", "%"+*filters.Query+"%")
	}
	if filters.Expertise != nil && *filters.Expertise != "" {
		query = query.Where("expertise = ?", *filters.Expertise)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count instructors: %w", err)
	}

	// Directory default is top-rated first.
	if filters.Sort == "newest" {
		query = query.Order("created_at DESC")
	} else {
		query = query.Order("rating DESC")
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	pageSize := filters.PageSize
	if pageSize < 1 {
		pageSize = 12
	}

	var instructors []*models.User
	err := query.
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&instructors).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list instructors: %w", err)
	}

	return instructors, total, nil
}

// GetInstructor resolves a user who can author courses. Admins qualify
// alongside instructors, so an admin-created course resolves its owner.
func (u *UserPostgreSQL) GetInstructor(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).
		Where("id = ? AND role IN ?", id, []models.UserRole{models.RoleInstructor, models.RoleAdmin}).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) CountByRole(ctx context.Context, role models.UserRole) (int64, error) {
	var count int64
	err := u.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", role).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count users by role: %w", err)
	}
	return count, nil
}

package postgres

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/studenthub/marketplace-service/internal/models"
	"github.com/studenthub/marketplace-service/internal/repositories"
)

type SettingsPostgreSQL struct {
	db *gorm.DB
}

func NewSettingsPostgreSQL(db *gorm.DB) repositories.SettingsRepository {
	return &SettingsPostgreSQL{db: db}
}

// Get returns the settings singleton, creating the row with column
// defaults on first access. FirstOrCreate on the fixed primary key
// makes concurrent first reads converge on one row.
func (s *SettingsPostgreSQL) Get(ctx context.Context) (*models.Setting, error) {
	var setting models.Setting
	err := s.db.WithContext(ctx).
		Where(models.Setting{ID: models.SettingsRowID}).
		FirstOrCreate(&setting).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return &setting, nil
}

func (s *SettingsPostgreSQL) Update(ctx context.Context, setting *models.Setting) error {
	setting.ID = models.SettingsRowID
	if err := s.db.WithContext(ctx).Save(setting).Error; err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func (s *SettingsPostgreSQL) Subscribers(ctx context.Context) ([]*models.Subscriber, error) {
	var subscribers []*models.Subscriber
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&subscribers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	return subscribers, nil
}

// AddSubscriber appends a newsletter subscriber. The unique index on
// email reports an existing subscription as gorm.ErrDuplicatedKey.
func (s *SettingsPostgreSQL) AddSubscriber(ctx context.Context, email string) (*models.Subscriber, error) {
	subscriber := &models.Subscriber{
		SettingID: models.SettingsRowID,
		Email:     strings.ToLower(email),
	}
	if err := s.db.WithContext(ctx).Create(subscriber).Error; err != nil {
		return nil, err
	}
	return subscriber, nil
}

func (s *SettingsPostgreSQL) RemoveSubscriber(ctx context.Context, email string) error {
	result := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(email)).
		Delete(&models.Subscriber{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete subscriber: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

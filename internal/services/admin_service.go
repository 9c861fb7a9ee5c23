package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/studenthub/marketplace-service/internal/cache"
	"github.com/studenthub/marketplace-service/internal/models"
	"github.com/studenthub/marketplace-service/internal/repositories"
	"github.com/studenthub/marketplace-service/internal/validator"
)

const (
	recentSignupWindowDays  = 7
	activeUserWindowDays    = 30
	defaultActivityFeedSize = 4
	maxActivityFeedSize     = 50
)

var monthNames = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

type adminService struct {
	repo         repositories.Repository
	cacheManager *cache.CacheManager
	logger       *slog.Logger
	validator    *validator.Validator
}

func NewAdminService(repo repositories.Repository, cacheManager *cache.CacheManager, logger *slog.Logger, validator *validator.Validator) AdminService {
	return &adminService{
		repo:         repo,
		cacheManager: cacheManager,
		logger:       logger,
		validator:    validator,
	}
}

// ===== DASHBOARD AGGREGATES =====

func (s *adminService) Stats(ctx context.Context) (*AdminStats, error) {
	var stats AdminStats
	err := s.cacheManager.Stats.CacheOrExecute(ctx, "admin:overview", &stats, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		return s.computeStats(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *adminService) computeStats(ctx context.Context) (*AdminStats, error) {
	dashboard := s.repo.Dashboard()

	totalUsers, err := dashboard.TotalUsers(ctx)
	if err != nil {
		return nil, err
	}
	totalCourses, err := dashboard.TotalCourses(ctx)
	if err != nil {
		return nil, err
	}
	totalInstructors, err := dashboard.TotalInstructors(ctx)
	if err != nil {
		return nil, err
	}
	recentSignups, err := dashboard.RecentSignups(ctx, recentSignupWindowDays)
	if err != nil {
		return nil, err
	}
	totalRevenue, err := dashboard.TotalRevenue(ctx)
	if err != nil {
		return nil, err
	}

	return &AdminStats{
		TotalUsers:       totalUsers,
		TotalCourses:     totalCourses,
		TotalInstructors: totalInstructors,
		RecentSignups:    recentSignups,
		TotalRevenue:     totalRevenue,
	}, nil
}

func (s *adminService) Revenue(ctx context.Context) (*RevenueSummary, error) {
	total, err := s.repo.Dashboard().TotalRevenue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	enrollments, err := s.repo.Dashboard().TotalEnrollments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count enrollments: %w", err)
	}
	return &RevenueSummary{
		TotalRevenue:     total,
		TotalEnrollments: enrollments,
	}, nil
}

// UserGrowth returns a fixed 12-bucket series, one per calendar month,
// with zero-filled months included.
func (s *adminService) UserGrowth(ctx context.Context) ([]MonthlyPoint, error) {
	counts, err := s.repo.Dashboard().MonthlyUserGrowth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load user growth: %w", err)
	}

	series := emptyMonthlySeries()
	for _, bucket := range counts {
		if bucket.Month >= 1 && bucket.Month <= 12 {
			series[bucket.Month-1].Count = bucket.Count
		}
	}
	return series, nil
}

func (s *adminService) MonthlyRevenue(ctx context.Context) ([]MonthlyPoint, error) {
	amounts, err := s.repo.Dashboard().MonthlyRevenue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly revenue: %w", err)
	}

	series := emptyMonthlySeries()
	for _, bucket := range amounts {
		if bucket.Month >= 1 && bucket.Month <= 12 {
			series[bucket.Month-1].Total = bucket.Total
		}
	}
	return series, nil
}

func emptyMonthlySeries() []MonthlyPoint {
	series := make([]MonthlyPoint, 12)
	for i := range series {
		series[i].Month = monthNames[i]
	}
	return series
}

// ActivityFeed merges recent signups, course launches and enrollments
// into one stream, newest first.
func (s *adminService) ActivityFeed(ctx context.Context, limit int) ([]ActivityItem, error) {
	if limit < 1 {
		limit = defaultActivityFeedSize
	}
	if limit > maxActivityFeedSize {
		limit = maxActivityFeedSize
	}

	dashboard := s.repo.Dashboard()

	users, err := dashboard.RecentUsers(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent users: %w", err)
	}
	courses, err := dashboard.RecentCourses(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent courses: %w", err)
	}
	enrollments, err := dashboard.RecentEnrollments(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent enrollments: %w", err)
	}

	items := make([]ActivityItem, 0, len(users)+len(courses)+len(enrollments))
	for _, user := range users {
		items = append(items, ActivityItem{
			Type:        "user",
			Description: fmt.Sprintf("New %s registered: %s", user.Role, user.Name),
			Timestamp:   user.CreatedAt,
		})
	}
	for _, course := range courses {
		items = append(items, ActivityItem{
			Type:        "course",
			Description: fmt.Sprintf("New course published: %s", course.Title),
			Timestamp:   course.CreatedAt,
		})
	}
	for _, enrollment := range enrollments {
		items = append(items, ActivityItem{
			Type:        "enrollment",
			Description: fmt.Sprintf("%s enrolled in %s", enrollment.Student.Name, enrollment.Course.Title),
			Timestamp:   enrollment.CreatedAt,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// MonthlyActiveUsers counts the union of users who registered and
// students who enrolled in the last 30 days.
func (s *adminService) MonthlyActiveUsers(ctx context.Context) (*MonthlyActiveResponse, error) {
	since := time.Now().AddDate(0, 0, -activeUserWindowDays)

	registered, err := s.repo.Dashboard().UserIDsRegisteredSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load registered users: %w", err)
	}
	enrolled, err := s.repo.Dashboard().StudentIDsEnrolledSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load enrolled students: %w", err)
	}

	active := make(map[uint]struct{}, len(registered)+len(enrolled))
	for _, id := range registered {
		active[id] = struct{}{}
	}
	for _, id := range enrolled {
		active[id] = struct{}{}
	}

	return &MonthlyActiveResponse{ActiveUsers: len(active)}, nil
}

// ===== USER MANAGEMENT =====

func (s *adminService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.repo.User().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *adminService) ListCourses(ctx context.Context) ([]*models.Course, error) {
	courses, err := s.repo.Course().ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

func (s *adminService) UpdateUser(ctx context.Context, id uint, req *AdminUserUpdateRequest) (*models.User, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			taken, err := s.repo.User().EmailTaken(ctx, email, id)
			if err != nil {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			if taken {
				return nil, ErrEmailInUse
			}
			user.Email = email
		}
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		user.Role = *req.Role
	}

	if err := s.repo.User().Update(ctx, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("User updated by admin", "user_id", id)
	return user, nil
}

func (s *adminService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.repo.User().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("User deleted by admin", "user_id", id)
	return nil
}

// ===== PLATFORM SETTINGS =====

func (s *adminService) GetSettings(ctx context.Context) (*models.Setting, error) {
	setting, err := s.repo.Settings().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return setting, nil
}

func (s *adminService) UpdateSettings(ctx context.Context, req *SettingsUpdateRequest) (*models.Setting, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	setting, err := s.repo.Settings().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	if req.PlatformName != nil {
		setting.PlatformName = *req.PlatformName
	}
	if req.MaintenanceMode != nil {
		setting.MaintenanceMode = *req.MaintenanceMode
	}
	if req.Theme != nil {
		setting.Theme = *req.Theme
	}
	if req.SMTPHost != nil {
		setting.SMTPHost = *req.SMTPHost
	}
	if req.SMTPPort != nil {
		setting.SMTPPort = *req.SMTPPort
	}
	if req.EmailFrom != nil {
		setting.EmailFrom = *req.EmailFrom
	}
	if req.Notifications != nil {
		setting.Notifications = *req.Notifications
	}
	if req.SocialFacebook != nil {
		setting.SocialFacebook = *req.SocialFacebook
	}
	if req.SocialTwitter != nil {
		setting.SocialTwitter = *req.SocialTwitter
	}
	if req.SocialInstagram != nil {
		setting.SocialInstagram = *req.SocialInstagram
	}
	if req.SocialLinkedIn != nil {
		setting.SocialLinkedIn = *req.SocialLinkedIn
	}

	if err := s.repo.Settings().Update(ctx, setting); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	s.logger.Info("Platform settings updated")
	return setting, nil
}

func (s *adminService) GetPublicSettings(ctx context.Context) (*PublicSettings, error) {
	setting, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	return &PublicSettings{
		PlatformName:    setting.PlatformName,
		MaintenanceMode: setting.MaintenanceMode,
		Theme:           setting.Theme,
	}, nil
}

func (s *adminService) GetSocialLinks(ctx context.Context) (*models.SocialLinks, error) {
	setting, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	links := setting.Social()
	return &links, nil
}

// ===== NEWSLETTER =====

func (s *adminService) ListSubscribers(ctx context.Context) ([]*models.Subscriber, error) {
	subscribers, err := s.repo.Settings().Subscribers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	return subscribers, nil
}

func (s *adminService) Subscribe(ctx context.Context, email string) (*models.Subscriber, error) {
	req := validator.SubscribeRequest{Email: email}
	if errs := s.validator.Validate(&req); len(errs) > 0 {
		return nil, errs
	}

	subscriber, err := s.repo.Settings().AddSubscriber(ctx, email)
	if err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrAlreadySubscribed
		}
		return nil, fmt.Errorf("failed to add subscriber: %w", err)
	}
	return subscriber, nil
}

func (s *adminService) Unsubscribe(ctx context.Context, email string) error {
	if err := s.repo.Settings().RemoveSubscriber(ctx, email); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSubscriberMissing
		}
		return fmt.Errorf("failed to remove subscriber: %w", err)
	}
	return nil
}

package services

import (
	"context"
	"log/slog"

	"github.com/studenthub/marketplace-service/internal/cache"
	"github.com/studenthub/marketplace-service/internal/events"
	"github.com/studenthub/marketplace-service/internal/repositories"
	"github.com/studenthub/marketplace-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager.
type ServiceManagerConfig struct {
	Auth AuthConfig
}

type serviceManager struct {
	repo         repositories.Repository
	cacheManager *cache.CacheManager
	publisher    events.EventPublisher
	logger       *slog.Logger
	validator    *validator.Validator

	authService       AuthService
	catalogService    CatalogService
	enrollmentService EnrollmentService
	instructorService InstructorService
	adminService      AdminService
	reportService     ReportService
}

// NewServiceManager wires every service with its shared dependencies.
func NewServiceManager(repo repositories.Repository, cacheManager *cache.CacheManager, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator, config ServiceManagerConfig) ServiceManager {
	sm := &serviceManager{
		repo:         repo,
		cacheManager: cacheManager,
		publisher:    publisher,
		logger:       logger,
		validator:    validator,
	}

	sm.authService = NewAuthService(repo, publisher, logger, validator, config.Auth)
	sm.catalogService = NewCatalogService(repo, publisher, logger, validator)
	sm.enrollmentService = NewEnrollmentService(repo, publisher, logger)
	sm.instructorService = NewInstructorService(repo, logger)
	sm.adminService = NewAdminService(repo, cacheManager, logger, validator)
	sm.reportService = NewReportService(repo, logger)

	logger.Info("Service manager initialized")
	return sm
}

func (sm *serviceManager) Auth() AuthService             { return sm.authService }
func (sm *serviceManager) Catalog() CatalogService       { return sm.catalogService }
func (sm *serviceManager) Enrollment() EnrollmentService { return sm.enrollmentService }
func (sm *serviceManager) Instructor() InstructorService { return sm.instructorService }
func (sm *serviceManager) Admin() AdminService           { return sm.adminService }
func (sm *serviceManager) Report() ReportService         { return sm.reportService }

// HealthCheck verifies the dependencies services rely on.
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	return sm.repo.Ping(ctx)
}

package repositories

import "context"

// Repository aggregates the per-domain repository interfaces behind a
// single handle that services depend on.
type Repository interface {
	User() UserRepository
	Course() CourseRepository
	Enrollment() EnrollmentRepository
	Settings() SettingsRepository
	Dashboard() DashboardRepository

	// WithTransaction runs fn against a repository bound to a single
	// database transaction. Returning an error rolls everything back.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}

// RepositoryManager owns repository lifecycle: connection checks on
// startup, health probes, graceful shutdown.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

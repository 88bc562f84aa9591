package repositories

import "context"

// Repository aggregates every domain repository behind one handle
type Repository interface {
	// Account domain
	User() UserRepository

	// Content domain
	Video() VideoRepository
	Comment() CommentRepository
	Material() MaterialRepository

	// Task domain
	Task() TaskRepository
	Submission() SubmissionRepository

	// Communication domain
	Message() MessageRepository
	Notification() NotificationRepository

	// Dashboard domain
	Dashboard() DashboardRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	"github.com/mancera-edu/classroom-service/internal/cache"
	"github.com/mancera-edu/classroom-service/internal/events"
	"github.com/mancera-edu/classroom-service/internal/repositories"
	"github.com/mancera-edu/classroom-service/internal/storage"
	"github.com/mancera-edu/classroom-service/internal/validator"
)

// ServiceManagerConfig carries external dependencies into the services.
type ServiceManagerConfig struct {
	DB             *gorm.DB
	Repo           repositories.Repository
	Sessions       *cache.SessionStore
	Store          *storage.LocalStore
	EventPublisher events.EventPublisher
	Logger         *slog.Logger
	Validator      *validator.Validator
}

// serviceManager implements ServiceManager
type serviceManager struct {
	config ServiceManagerConfig

	authService         AuthService
	userService         UserService
	videoService        VideoService
	materialService     MaterialService
	taskService         TaskService
	submissionService   SubmissionService
	messageService      MessageService
	notificationService NotificationService
	dashboardService    DashboardService
	exportService       ExportService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager with all dependencies.
func NewServiceManager(config ServiceManagerConfig) ServiceManager {
	return &serviceManager{config: config}
}

func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if sm.config.Repo == nil {
		return fmt.Errorf("repository is required")
	}
	if sm.config.EventPublisher == nil {
		return fmt.Errorf("event publisher is required")
	}

	cfg := sm.config

	sm.notificationService = NewNotificationService(cfg.Repo, cfg.EventPublisher, cfg.Logger)
	sm.authService = NewAuthService(cfg.Repo, cfg.Sessions, cfg.EventPublisher, cfg.Logger, cfg.Validator)
	sm.userService = NewUserService(cfg.Repo, cfg.Sessions, cfg.Logger, cfg.Validator)
	sm.videoService = NewVideoService(cfg.Repo, cfg.Store, sm.notificationService, cfg.Logger, cfg.Validator)
	sm.materialService = NewMaterialService(cfg.Repo, cfg.Store, sm.notificationService, cfg.Logger, cfg.Validator)
	sm.taskService = NewTaskService(cfg.Repo, cfg.Store, sm.notificationService, cfg.Logger, cfg.Validator)
	sm.submissionService = NewSubmissionService(cfg.Repo, cfg.Store, sm.notificationService, cfg.EventPublisher, cfg.Logger, cfg.Validator)
	sm.messageService = NewMessageService(cfg.Repo, sm.notificationService, cfg.EventPublisher, cfg.Logger, cfg.Validator)
	sm.dashboardService = NewDashboardService(cfg.Repo, sm.taskService, sm.messageService, cfg.Logger)
	sm.exportService = NewExportService(cfg.Repo, cfg.Logger)

	sm.initialized = true
	cfg.Logger.Info("Services initialized")
	return nil
}

func (sm *serviceManager) Auth() AuthService                 { return sm.authService }
func (sm *serviceManager) User() UserService                 { return sm.userService }
func (sm *serviceManager) Video() VideoService               { return sm.videoService }
func (sm *serviceManager) Material() MaterialService         { return sm.materialService }
func (sm *serviceManager) Task() TaskService                 { return sm.taskService }
func (sm *serviceManager) Submission() SubmissionService     { return sm.submissionService }
func (sm *serviceManager) Message() MessageService           { return sm.messageService }
func (sm *serviceManager) Notification() NotificationService { return sm.notificationService }
func (sm *serviceManager) Dashboard() DashboardService       { return sm.dashboardService }
func (sm *serviceManager) Export() ExportService             { return sm.exportService }

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("services not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("services are shut down")
	}
	return sm.config.Repo.Ping(ctx)
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}
	sm.shutdown = true

	if err := sm.config.EventPublisher.Close(); err != nil {
		sm.config.Logger.Error("Failed to close event publisher", "error", err)
	}

	sm.config.Logger.Info("Services shut down")
	return nil
}

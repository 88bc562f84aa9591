package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/mancera-edu/classroom-service/internal/cache"
	"github.com/mancera-edu/classroom-service/internal/repositories"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	user         repositories.UserRepository
	video        repositories.VideoRepository
	comment      repositories.CommentRepository
	material     repositories.MaterialRepository
	task         repositories.TaskRepository
	submission   repositories.SubmissionRepository
	message      repositories.MessageRepository
	notification repositories.NotificationRepository
	dashboard    repositories.DashboardRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewPostgreSQLRepository creates a new repository manager with all sub-repositories
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	repo := &PostgreSQLRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cache.NewCacheManager(config.RedisClient),
	}
	repo.init(config.DB, config.RedisClient)
	return repo
}

func (r *PostgreSQLRepository) init(db *gorm.DB, redisClient *redis.Client) {
	r.user = NewUserPostgreSQL(db)
	r.video = NewVideoPostgreSQL(db, redisClient)
	r.comment = NewCommentPostgreSQL(db)
	r.material = NewMaterialPostgreSQL(db)
	r.task = NewTaskPostgreSQL(db, redisClient)
	r.submission = NewSubmissionPostgreSQL(db)
	r.message = NewMessagePostgreSQL(db)
	r.notification = NewNotificationPostgreSQL(db)
	r.dashboard = NewDashboardPostgreSQL(db)
}

func (r *PostgreSQLRepository) User() repositories.UserRepository { return r.user }

func (r *PostgreSQLRepository) Video() repositories.VideoRepository { return r.video }

func (r *PostgreSQLRepository) Comment() repositories.CommentRepository { return r.comment }

func (r *PostgreSQLRepository) Material() repositories.MaterialRepository { return r.material }

func (r *PostgreSQLRepository) Task() repositories.TaskRepository { return r.task }

func (r *PostgreSQLRepository) Submission() repositories.SubmissionRepository { return r.submission }

func (r *PostgreSQLRepository) Message() repositories.MessageRepository { return r.message }

func (r *PostgreSQLRepository) Notification() repositories.NotificationRepository {
	return r.notification
}

func (r *PostgreSQLRepository) Dashboard() repositories.DashboardRepository { return r.dashboard }

// WithTransaction executes a function within a database transaction
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &PostgreSQLRepository{
			db:           tx,
			redisClient:  r.redisClient,
			cacheManager: r.cacheManager,
		}
		txRepo.init(tx, r.redisClient)
		return fn(txRepo)
	})
}

// Ping checks the health of database and cache connections
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}

	return nil
}

// Close closes all connections
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	return nil
}

package repositories

import (
	"context"
	"time"

	"github.com/mancera-edu/classroom-service/internal/models"
)

// UserFilters defines filters for user queries
type UserFilters struct {
	Role     *models.UserRole // Filter by role
	IsActive *bool            // Filter by active flag
	Query    string           // Search query for name or email
	Limit    int              // Page size
	Offset   int              // Offset for pagination
}

// VideoFilters defines filters for video listing
type VideoFilters struct {
	Category   *string
	Difficulty *models.VideoDifficulty
	Active     *bool
	Query      string // Search in title, description, keywords
	Limit      int
	Offset     int
	SortBy     string // created_at, title, views
	SortOrder  string // asc, desc
}

// MaterialFilters defines filters for material listing
type MaterialFilters struct {
	Category  *string
	FileType  *string
	Query     string
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}

// TaskFilters defines filters for task listing
type TaskFilters struct {
	Status    *models.TaskStatus
	TaskType  *models.TaskType
	Query     string
	DueFrom   *time.Time
	DueTo     *time.Time
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}

// SubmissionFilters defines filters for submission listing
type SubmissionFilters struct {
	TaskID    *uint
	StudentID *uint
	Graded    *bool // true: only graded, false: only pending
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}

// MessageFilters defines filters for message queries
type MessageFilters struct {
	Unread *bool
	Limit  int
	Offset int
}

// NotificationFilters defines filters for notification queries
type NotificationFilters struct {
	Type   *models.NotificationType
	Unread *bool
	Limit  int
	Offset int
}

// UserRepository interface for account operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
	GetActiveStudents(ctx context.Context) ([]*models.User, error)

	// GetProfessor returns the single instructor account.
	GetProfessor(ctx context.Context) (*models.User, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByRole(ctx context.Context, role models.UserRole) (int64, error)

	// SetActive flips the active flag without touching other columns.
	SetActive(ctx context.Context, id uint, active bool) error
}

// VideoRepository interface for video lesson operations
type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id uint) (*models.Video, error)
	GetByIDWithComments(ctx context.Context, id uint) (*models.Video, error)
	Update(ctx context.Context, video *models.Video) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filters VideoFilters) ([]*models.Video, int64, error)
	IncrementViews(ctx context.Context, id uint) error
	GetCategories(ctx context.Context) ([]string, error)
}

// CommentRepository interface for video comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	Delete(ctx context.Context, id uint) error
	ListByVideo(ctx context.Context, videoID uint) ([]*models.Comment, error)
}

// MaterialRepository interface for study material operations
type MaterialRepository interface {
	Create(ctx context.Context, material *models.Material) error
	GetByID(ctx context.Context, id uint) (*models.Material, error)
	Update(ctx context.Context, material *models.Material) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filters MaterialFilters) ([]*models.Material, int64, error)
	GetCategories(ctx context.Context) ([]string, error)
}

// TaskRepository interface for graded task operations
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uint) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filters TaskFilters) ([]*models.Task, int64, error)
	GetActive(ctx context.Context) ([]*models.Task, error)
}

// SubmissionRepository interface for task submission operations
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.TaskSubmission) error
	GetByID(ctx context.Context, id uint) (*models.TaskSubmission, error)
	GetByIDWithDetails(ctx context.Context, id uint) (*models.TaskSubmission, error)
	Update(ctx context.Context, submission *models.TaskSubmission) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filters SubmissionFilters) ([]*models.TaskSubmission, int64, error)
	GetByTaskAndStudent(ctx context.Context, taskID, studentID uint) (*models.TaskSubmission, error)
	GetByStudent(ctx context.Context, studentID uint) ([]*models.TaskSubmission, error)
	CountPendingGrading(ctx context.Context) (int64, error)
}

// MessageRepository interface for direct message operations
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id uint) (*models.Message, error)

	GetConversation(ctx context.Context, userA, userB uint, filters MessageFilters) ([]*models.Message, int64, error)
	GetConversationPartners(ctx context.Context, userID uint) ([]ConversationSummary, error)
	MarkConversationRead(ctx context.Context, toUserID, fromUserID uint) error
	CountUnread(ctx context.Context, userID uint) (int64, error)
}

// NotificationRepository interface for notification operations
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	CreateBatch(ctx context.Context, notifications []*models.Notification) error
	GetByID(ctx context.Context, id uint) (*models.Notification, error)

	ListByUser(ctx context.Context, userID uint, filters NotificationFilters) ([]*models.Notification, int64, error)
	MarkRead(ctx context.Context, id, userID uint) error
	MarkAllRead(ctx context.Context, userID uint) error
	Delete(ctx context.Context, id, userID uint) error
	CountUnread(ctx context.Context, userID uint) (int64, error)
}

// DashboardRepository interface for aggregate statistics
type DashboardRepository interface {
	GetProfessorStats(ctx context.Context) (*ProfessorStats, error)
	GetStudentGradeRows(ctx context.Context, studentID uint) ([]GradeRow, error)
	GetRecentSubmissions(ctx context.Context, limit int) ([]*models.TaskSubmission, error)
	GetAllGradeRows(ctx context.Context) ([]GradeRow, error)
}

// ConversationSummary describes one chat partner with unread state
type ConversationSummary struct {
	UserID        uint      `json:"user_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	LastMessage   string    `json:"last_message"`
	LastMessageAt time.Time `json:"last_message_at"`
	UnreadCount   int64     `json:"unread_count"`
}

// ProfessorStats aggregates counts for the professor dashboard
type ProfessorStats struct {
	TotalStudents    int64 `json:"total_students"`
	ActiveStudents   int64 `json:"active_students"`
	TotalVideos      int64 `json:"total_videos"`
	TotalMaterials   int64 `json:"total_materials"`
	TotalTasks       int64 `json:"total_tasks"`
	ActiveTasks      int64 `json:"active_tasks"`
	TotalSubmissions int64 `json:"total_submissions"`
	PendingGrading   int64 `json:"pending_grading"`
}

// GradeRow is one scored submission joined with its task, used for
// averages and per-type summaries.
type GradeRow struct {
	SubmissionID uint            `json:"submission_id"`
	TaskID       uint            `json:"task_id"`
	TaskTitle    string          `json:"task_title"`
	TaskType     models.TaskType `json:"task_type"`
	StudentID    uint            `json:"student_id"`
	StudentName  string          `json:"student_name"`
	Score        *float64        `json:"score"`
	IsLate       bool            `json:"is_late"`
	SubmittedAt  time.Time       `json:"submitted_at"`
	GradedAt     *time.Time      `json:"graded_at"`
}

package services

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/repositories"
)

// ===== AUTH DTOs =====

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResult struct {
	Token string        `json:"token"`
	User  *models.User  `json:"user"`
	TTL   time.Duration `json:"-"`
}

// ===== ACCOUNT DTOs =====

type CreateStudentRequest struct {
	Email               string     `json:"email" validate:"required,email"`
	Password            string     `json:"password" validate:"required,min=6"`
	Name                string     `json:"name" validate:"required,max=120"`
	Phone               *string    `json:"phone" validate:"omitempty,max=30"`
	BirthDate           *time.Time `json:"birth_date" validate:"omitempty,past_date"`
	SubscriptionEndDate *time.Time `json:"subscription_end_date"`
}

type UpdateStudentRequest struct {
	Name                *string    `json:"name" validate:"omitempty,max=120"`
	Phone               *string    `json:"phone" validate:"omitempty,max=30"`
	BirthDate           *time.Time `json:"birth_date" validate:"omitempty,past_date"`
	SubscriptionEndDate *time.Time `json:"subscription_end_date"`
	IsActive            *bool      `json:"is_active"`
	Password            *string    `json:"password" validate:"omitempty,min=6"`
}

type UpdateProfileRequest struct {
	Name      *string    `json:"name" validate:"omitempty,max=120"`
	Phone     *string    `json:"phone" validate:"omitempty,max=30"`
	BirthDate *time.Time `json:"birth_date" validate:"omitempty,past_date"`
	Bio       *string    `json:"bio" validate:"omitempty,max=2000"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

type StudentListResponse struct {
	Students []*models.User `json:"students"`
	Total    int64          `json:"total"`
}

// ===== CONTENT DTOs =====

type CreateVideoRequest struct {
	Title       string                 `json:"title" form:"title" validate:"required,max=200"`
	Description string                 `json:"description" form:"description" validate:"omitempty,max=5000"`
	VideoURL    string                 `json:"video_url" form:"video_url" validate:"omitempty,url"`
	Keywords    string                 `json:"keywords" form:"keywords" validate:"omitempty,max=500"`
	Category    string                 `json:"category" form:"category" validate:"omitempty,max=100"`
	Difficulty  models.VideoDifficulty `json:"difficulty" form:"difficulty" validate:"omitempty,video_difficulty"`
	Duration    string                 `json:"duration" form:"duration" validate:"omitempty,max=20"`
	Active      *bool                  `json:"active" form:"active"`
}

type UpdateVideoRequest struct {
	Title       *string                 `json:"title" validate:"omitempty,max=200"`
	Description *string                 `json:"description" validate:"omitempty,max=5000"`
	VideoURL    *string                 `json:"video_url" validate:"omitempty,url"`
	Keywords    *string                 `json:"keywords" validate:"omitempty,max=500"`
	Category    *string                 `json:"category" validate:"omitempty,max=100"`
	Difficulty  *models.VideoDifficulty `json:"difficulty" validate:"omitempty,video_difficulty"`
	Duration    *string                 `json:"duration" validate:"omitempty,max=20"`
	Active      *bool                   `json:"active"`
}

type VideoListResponse struct {
	Videos []*models.Video `json:"videos"`
	Total  int64           `json:"total"`
}

type AddCommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type CreateMaterialRequest struct {
	Title       string `json:"title" form:"title" validate:"required,max=200"`
	Description string `json:"description" form:"description" validate:"omitempty,max=5000"`
	FileType    string `json:"file_type" form:"file_type" validate:"omitempty,max=20"`
	FileURL     string `json:"file_url" form:"file_url" validate:"omitempty,max=500"`
	Content     string `json:"content" form:"content"`
	Category    string `json:"category" form:"category" validate:"omitempty,max=100"`
	Tags        string `json:"tags" form:"tags" validate:"omitempty,max=500"`
}

type UpdateMaterialRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	FileType    *string `json:"file_type" validate:"omitempty,max=20"`
	FileURL     *string `json:"file_url" validate:"omitempty,max=500"`
	Content     *string `json:"content"`
	Category    *string `json:"category" validate:"omitempty,max=100"`
	Tags        *string `json:"tags" validate:"omitempty,max=500"`
}

type MaterialListResponse struct {
	Materials []*models.Material `json:"materials"`
	Total     int64              `json:"total"`
}

// ===== TASK DTOs =====

type CreateTaskRequest struct {
	Title               string            `json:"title" form:"title" validate:"required,max=200"`
	Description         string            `json:"description" form:"description" validate:"omitempty,max=10000"`
	DueDate             time.Time         `json:"due_date" form:"due_date" time_format:"2006-01-02T15:04:05Z07:00" validate:"required"`
	TaskType            models.TaskType   `json:"task_type" form:"task_type" validate:"omitempty,task_type"`
	Status              models.TaskStatus `json:"status" form:"status" validate:"omitempty,task_status"`
	AllowLateSubmission bool              `json:"allow_late_submission" form:"allow_late_submission"`
	ExternalLink        string            `json:"external_link" form:"external_link" validate:"omitempty,url"`
	ExternalLinkType    string            `json:"external_link_type" form:"external_link_type" validate:"omitempty,max=50"`
}

type UpdateTaskRequest struct {
	Title               *string            `json:"title" validate:"omitempty,max=200"`
	Description         *string            `json:"description" validate:"omitempty,max=10000"`
	DueDate             *time.Time         `json:"due_date"`
	TaskType            *models.TaskType   `json:"task_type" validate:"omitempty,task_type"`
	Status              *models.TaskStatus `json:"status" validate:"omitempty,task_status"`
	AllowLateSubmission *bool              `json:"allow_late_submission"`
	ExternalLink        *string            `json:"external_link" validate:"omitempty,url"`
	ExternalLinkType    *string            `json:"external_link_type" validate:"omitempty,max=50"`
}

type TaskListResponse struct {
	Tasks []*models.Task `json:"tasks"`
	Total int64          `json:"total"`
}

// TaskWithSubmission pairs a task with the requesting student's
// submission state.
type TaskWithSubmission struct {
	Task       *models.Task           `json:"task"`
	Submission *models.TaskSubmission `json:"submission,omitempty"`
	IsPastDue  bool                   `json:"is_past_due"`
	CanSubmit  bool                   `json:"can_submit"`
}

// ===== SUBMISSION DTOs =====

type SubmitTaskRequest struct {
	Content string                `json:"content" form:"content"`
	File    *multipart.FileHeader `json:"-" form:"-"`
}

type GradeSubmissionRequest struct {
	Score    float64 `json:"score" validate:"gte=0"`
	Feedback string  `json:"feedback" validate:"omitempty,max=5000"`
}

type SubmissionResponse struct {
	*models.TaskSubmission
	ScoreDisplay    string   `json:"score_display"`
	ScorePercentage *float64 `json:"score_percentage"`
	OriginalName    string   `json:"original_filename,omitempty"`
}

type SubmissionListResponse struct {
	Submissions []*SubmissionResponse `json:"submissions"`
	Total       int64                 `json:"total"`
}

// ===== MESSAGING DTOs =====

type SendMessageRequest struct {
	ToUserID uint   `json:"to_user_id" validate:"required"`
	Content  string `json:"content" validate:"required,max=5000"`
}

type ConversationResponse struct {
	Partner  *models.User      `json:"partner"`
	Messages []*models.Message `json:"messages"`
	Total    int64             `json:"total"`
}

// ===== NOTIFICATION DTOs =====

type NotificationListResponse struct {
	Notifications []*models.Notification `json:"notifications"`
	Total         int64                  `json:"total"`
	UnreadCount   int64                  `json:"unread_count"`
}

// ===== DASHBOARD DTOs =====

type ProfessorDashboard struct {
	Stats             *repositories.ProfessorStats `json:"stats"`
	RecentSubmissions []*SubmissionResponse        `json:"recent_submissions"`
}

// GradeSummary aggregates a student's normalized results for one task
// type.
type GradeSummary struct {
	TaskType models.TaskType `json:"task_type"`
	Count    int             `json:"count"`
	Average  float64         `json:"average"`
	Best     float64         `json:"best"`
	Latest   float64         `json:"latest"`
}

type StudentDashboard struct {
	Tasks          []*TaskWithSubmission `json:"tasks"`
	AveragePercent *float64              `json:"average_percent"`
	GradedCount    int                   `json:"graded_count"`
	PendingCount   int                   `json:"pending_count"`
	UnreadMessages int64                 `json:"unread_messages"`
	UnreadAlerts   int64                 `json:"unread_alerts"`
	GradesByType   []GradeSummary        `json:"grades_by_type"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*AuthResult, error)
	Logout(ctx context.Context, token string) error
	Resolve(ctx context.Context, token string) (*models.User, error)

	// EvaluateStudentAccess enforces the subscription gate: inactive
	// accounts and expired subscriptions are denied, and an expired
	// subscription deactivates the account.
	EvaluateStudentAccess(ctx context.Context, user *models.User) error
}

type UserService interface {
	CreateStudent(ctx context.Context, req *CreateStudentRequest, actorID uint) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	UpdateStudent(ctx context.Context, id uint, req *UpdateStudentRequest, actorID uint) (*models.User, error)
	DeleteStudent(ctx context.Context, id uint, actorID uint) error
	ListStudents(ctx context.Context, filters repositories.UserFilters) (*StudentListResponse, error)

	UpdateProfile(ctx context.Context, userID uint, req *UpdateProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, userID uint, req *ChangePasswordRequest) error
}

type VideoService interface {
	Create(ctx context.Context, req *CreateVideoRequest, file *multipart.FileHeader, authorID uint) (*models.Video, error)
	GetByID(ctx context.Context, id uint) (*models.Video, error)
	GetWithComments(ctx context.Context, id uint, viewerID uint) (*models.Video, error)
	Update(ctx context.Context, id uint, req *UpdateVideoRequest, actorID uint) (*models.Video, error)
	Delete(ctx context.Context, id uint, actorID uint) error
	List(ctx context.Context, filters repositories.VideoFilters) (*VideoListResponse, error)
	Categories(ctx context.Context) ([]string, error)

	AddComment(ctx context.Context, videoID uint, req *AddCommentRequest, userID uint) (*models.Comment, error)
	DeleteComment(ctx context.Context, commentID uint, actorID uint, actorRole models.UserRole) error
}

type MaterialService interface {
	Create(ctx context.Context, req *CreateMaterialRequest, file *multipart.FileHeader, authorID uint) (*models.Material, error)
	GetByID(ctx context.Context, id uint) (*models.Material, error)
	Update(ctx context.Context, id uint, req *UpdateMaterialRequest, actorID uint) (*models.Material, error)
	Delete(ctx context.Context, id uint, actorID uint) error
	List(ctx context.Context, filters repositories.MaterialFilters) (*MaterialListResponse, error)
	Categories(ctx context.Context) ([]string, error)
	FilePath(ctx context.Context, id uint) (absPath, downloadName string, err error)
}

type TaskService interface {
	Create(ctx context.Context, req *CreateTaskRequest, attachment *multipart.FileHeader, authorID uint) (*models.Task, error)
	GetByID(ctx context.Context, id uint) (*models.Task, error)
	Update(ctx context.Context, id uint, req *UpdateTaskRequest, actorID uint) (*models.Task, error)
	Delete(ctx context.Context, id uint, actorID uint) error
	List(ctx context.Context, filters repositories.TaskFilters) (*TaskListResponse, error)
	ListForStudent(ctx context.Context, studentID uint) ([]*TaskWithSubmission, error)
	AttachmentPath(ctx context.Context, id uint) (absPath, downloadName string, err error)
}

type SubmissionService interface {
	Submit(ctx context.Context, taskID, studentID uint, req *SubmitTaskRequest) (*SubmissionResponse, error)
	Grade(ctx context.Context, submissionID uint, req *GradeSubmissionRequest, graderID uint) (*SubmissionResponse, error)
	GetByID(ctx context.Context, id uint, actorID uint, actorRole models.UserRole) (*SubmissionResponse, error)
	ListForTask(ctx context.Context, taskID uint, filters repositories.SubmissionFilters) (*SubmissionListResponse, error)
	ListForStudent(ctx context.Context, studentID uint) ([]*SubmissionResponse, error)
	FilePath(ctx context.Context, id uint, actorID uint, actorRole models.UserRole) (absPath, downloadName string, err error)
}

type MessageService interface {
	Send(ctx context.Context, fromUserID uint, req *SendMessageRequest) (*models.Message, error)
	Conversation(ctx context.Context, userID, partnerID uint, filters repositories.MessageFilters) (*ConversationResponse, error)
	Conversations(ctx context.Context, userID uint) ([]repositories.ConversationSummary, error)
	UnreadCount(ctx context.Context, userID uint) (int64, error)
}

type NotificationService interface {
	Notify(ctx context.Context, userID uint, title, message string, notifType models.NotificationType, referenceID *uint) error
	Broadcast(ctx context.Context, title, message string, notifType models.NotificationType, referenceID *uint) (int, error)
	List(ctx context.Context, userID uint, filters repositories.NotificationFilters) (*NotificationListResponse, error)
	MarkRead(ctx context.Context, id, userID uint) error
	MarkAllRead(ctx context.Context, userID uint) error
	Delete(ctx context.Context, id, userID uint) error
}

type DashboardService interface {
	ProfessorDashboard(ctx context.Context) (*ProfessorDashboard, error)
	StudentDashboard(ctx context.Context, studentID uint) (*StudentDashboard, error)
}

type ExportService interface {
	// ExportGrades builds an xlsx workbook of every graded submission.
	ExportGrades(ctx context.Context) ([]byte, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Auth() AuthService
	User() UserService
	Video() VideoService
	Material() MaterialService
	Task() TaskService
	Submission() SubmissionService
	Message() MessageService
	Notification() NotificationService
	Dashboard() DashboardService
	Export() ExportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

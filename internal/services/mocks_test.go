package services

import (
	"context"
	"errors"

	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/repositories"
)

// errNotStubbed marks a mock method a test exercised without stubbing.
var errNotStubbed = errors.New("mock method not stubbed")

// mockRepository is a function-field test double for the repository
// facade. Tests stub only the methods their code path touches.
type mockRepository struct {
	user         mockUserRepo
	video        mockVideoRepo
	task         mockTaskRepo
	submission   mockSubmissionRepo
	notification mockNotificationRepo
	message      mockMessageRepo
	dashboard    mockDashboardRepo
}

func (m *mockRepository) User() repositories.UserRepository                 { return &m.user }
func (m *mockRepository) Video() repositories.VideoRepository               { return &m.video }
func (m *mockRepository) Comment() repositories.CommentRepository           { return nil }
func (m *mockRepository) Material() repositories.MaterialRepository         { return nil }
func (m *mockRepository) Task() repositories.TaskRepository                 { return &m.task }
func (m *mockRepository) Submission() repositories.SubmissionRepository     { return &m.submission }
func (m *mockRepository) Message() repositories.MessageRepository           { return &m.message }
func (m *mockRepository) Notification() repositories.NotificationRepository { return &m.notification }
func (m *mockRepository) Dashboard() repositories.DashboardRepository       { return &m.dashboard }
func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

type mockUserRepo struct {
	getByID           func(id uint) (*models.User, error)
	getByEmail        func(email string) (*models.User, error)
	getActiveStudents func() ([]*models.User, error)
	getProfessor      func() (*models.User, error)
	setActive         func(id uint, active bool) error
	existsByEmail     func(email string) (bool, error)
	create            func(user *models.User) error
	update            func(user *models.User) error
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) error {
	if m.create == nil {
		return errNotStubbed
	}
	return m.create(user)
}

func (m *mockUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	if m.getByID == nil {
		return nil, errNotStubbed
	}
	return m.getByID(id)
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if m.getByEmail == nil {
		return nil, errNotStubbed
	}
	return m.getByEmail(email)
}

func (m *mockUserRepo) Update(_ context.Context, user *models.User) error {
	if m.update == nil {
		return errNotStubbed
	}
	return m.update(user)
}

func (m *mockUserRepo) Delete(_ context.Context, id uint) error { return errNotStubbed }

func (m *mockUserRepo) List(_ context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	return nil, 0, errNotStubbed
}

func (m *mockUserRepo) GetActiveStudents(_ context.Context) ([]*models.User, error) {
	if m.getActiveStudents == nil {
		return nil, errNotStubbed
	}
	return m.getActiveStudents()
}

func (m *mockUserRepo) GetProfessor(_ context.Context) (*models.User, error) {
	if m.getProfessor == nil {
		return nil, errNotStubbed
	}
	return m.getProfessor()
}

func (m *mockUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if m.existsByEmail == nil {
		return false, errNotStubbed
	}
	return m.existsByEmail(email)
}

func (m *mockUserRepo) CountByRole(_ context.Context, role models.UserRole) (int64, error) {
	return 0, errNotStubbed
}

func (m *mockUserRepo) SetActive(_ context.Context, id uint, active bool) error {
	if m.setActive == nil {
		return errNotStubbed
	}
	return m.setActive(id, active)
}

type mockVideoRepo struct {
	getByID func(id uint) (*models.Video, error)
	create  func(video *models.Video) error
	update  func(video *models.Video) error
}

func (m *mockVideoRepo) Create(_ context.Context, video *models.Video) error {
	if m.create == nil {
		return errNotStubbed
	}
	return m.create(video)
}

func (m *mockVideoRepo) GetByID(_ context.Context, id uint) (*models.Video, error) {
	if m.getByID == nil {
		return nil, errNotStubbed
	}
	return m.getByID(id)
}

func (m *mockVideoRepo) GetByIDWithComments(_ context.Context, id uint) (*models.Video, error) {
	return nil, errNotStubbed
}

func (m *mockVideoRepo) Update(_ context.Context, video *models.Video) error {
	if m.update == nil {
		return errNotStubbed
	}
	return m.update(video)
}

func (m *mockVideoRepo) Delete(_ context.Context, id uint) error {
	return errNotStubbed
}

func (m *mockVideoRepo) List(_ context.Context, filters repositories.VideoFilters) ([]*models.Video, int64, error) {
	return nil, 0, errNotStubbed
}

func (m *mockVideoRepo) IncrementViews(_ context.Context, id uint) error {
	return errNotStubbed
}

func (m *mockVideoRepo) GetCategories(_ context.Context) ([]string, error) {
	return nil, errNotStubbed
}

type mockTaskRepo struct {
	getByID   func(id uint) (*models.Task, error)
	getActive func() ([]*models.Task, error)
	create    func(task *models.Task) error
	update    func(task *models.Task) error
}

func (m *mockTaskRepo) Create(_ context.Context, task *models.Task) error {
	if m.create == nil {
		return errNotStubbed
	}
	return m.create(task)
}

func (m *mockTaskRepo) GetByID(_ context.Context, id uint) (*models.Task, error) {
	if m.getByID == nil {
		return nil, errNotStubbed
	}
	return m.getByID(id)
}

func (m *mockTaskRepo) Update(_ context.Context, task *models.Task) error {
	if m.update == nil {
		return errNotStubbed
	}
	return m.update(task)
}
func (m *mockTaskRepo) Delete(_ context.Context, id uint) error           { return errNotStubbed }

func (m *mockTaskRepo) List(_ context.Context, filters repositories.TaskFilters) ([]*models.Task, int64, error) {
	return nil, 0, errNotStubbed
}

func (m *mockTaskRepo) GetActive(_ context.Context) ([]*models.Task, error) {
	if m.getActive == nil {
		return nil, errNotStubbed
	}
	return m.getActive()
}

type mockSubmissionRepo struct {
	create              func(sub *models.TaskSubmission) error
	getByID             func(id uint) (*models.TaskSubmission, error)
	getByIDWithDetails  func(id uint) (*models.TaskSubmission, error)
	update              func(sub *models.TaskSubmission) error
	getByTaskAndStudent func(taskID, studentID uint) (*models.TaskSubmission, error)
	getByStudent        func(studentID uint) ([]*models.TaskSubmission, error)
}

func (m *mockSubmissionRepo) Create(_ context.Context, sub *models.TaskSubmission) error {
	if m.create == nil {
		return errNotStubbed
	}
	return m.create(sub)
}

func (m *mockSubmissionRepo) GetByID(_ context.Context, id uint) (*models.TaskSubmission, error) {
	if m.getByID == nil {
		return nil, errNotStubbed
	}
	return m.getByID(id)
}

func (m *mockSubmissionRepo) GetByIDWithDetails(_ context.Context, id uint) (*models.TaskSubmission, error) {
	if m.getByIDWithDetails == nil {
		return nil, errNotStubbed
	}
	return m.getByIDWithDetails(id)
}

func (m *mockSubmissionRepo) Update(_ context.Context, sub *models.TaskSubmission) error {
	if m.update == nil {
		return errNotStubbed
	}
	return m.update(sub)
}

func (m *mockSubmissionRepo) Delete(_ context.Context, id uint) error { return errNotStubbed }

func (m *mockSubmissionRepo) List(_ context.Context, filters repositories.SubmissionFilters) ([]*models.TaskSubmission, int64, error) {
	return nil, 0, errNotStubbed
}

func (m *mockSubmissionRepo) GetByTaskAndStudent(_ context.Context, taskID, studentID uint) (*models.TaskSubmission, error) {
	if m.getByTaskAndStudent == nil {
		return nil, errNotStubbed
	}
	return m.getByTaskAndStudent(taskID, studentID)
}

func (m *mockSubmissionRepo) GetByStudent(_ context.Context, studentID uint) ([]*models.TaskSubmission, error) {
	if m.getByStudent == nil {
		return nil, errNotStubbed
	}
	return m.getByStudent(studentID)
}

func (m *mockSubmissionRepo) CountPendingGrading(_ context.Context) (int64, error) {
	return 0, errNotStubbed
}

type mockNotificationRepo struct {
	create      func(n *models.Notification) error
	createBatch func(ns []*models.Notification) error
	countUnread func(userID uint) (int64, error)
}

func (m *mockNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	if m.create == nil {
		return errNotStubbed
	}
	return m.create(n)
}

func (m *mockNotificationRepo) CreateBatch(_ context.Context, ns []*models.Notification) error {
	if m.createBatch == nil {
		return errNotStubbed
	}
	return m.createBatch(ns)
}

func (m *mockNotificationRepo) GetByID(_ context.Context, id uint) (*models.Notification, error) {
	return nil, errNotStubbed
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID uint, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	return nil, 0, errNotStubbed
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id, userID uint) error {
	return errNotStubbed
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, userID uint) error {
	return errNotStubbed
}

func (m *mockNotificationRepo) Delete(_ context.Context, id, userID uint) error {
	return errNotStubbed
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, userID uint) (int64, error) {
	if m.countUnread == nil {
		return 0, errNotStubbed
	}
	return m.countUnread(userID)
}

type mockMessageRepo struct {
	create func(msg *models.Message) error
}

func (m *mockMessageRepo) Create(_ context.Context, msg *models.Message) error {
	if m.create == nil {
		return errNotStubbed
	}
	return m.create(msg)
}

func (m *mockMessageRepo) GetByID(_ context.Context, id uint) (*models.Message, error) {
	return nil, errNotStubbed
}

func (m *mockMessageRepo) GetConversation(_ context.Context, userA, userB uint, filters repositories.MessageFilters) ([]*models.Message, int64, error) {
	return nil, 0, errNotStubbed
}

func (m *mockMessageRepo) GetConversationPartners(_ context.Context, userID uint) ([]repositories.ConversationSummary, error) {
	return nil, errNotStubbed
}

func (m *mockMessageRepo) MarkConversationRead(_ context.Context, toUserID, fromUserID uint) error {
	return errNotStubbed
}

func (m *mockMessageRepo) CountUnread(_ context.Context, userID uint) (int64, error) {
	return 0, errNotStubbed
}

type mockDashboardRepo struct {
	getProfessorStats    func() (*repositories.ProfessorStats, error)
	getStudentGradeRows  func(studentID uint) ([]repositories.GradeRow, error)
	getRecentSubmissions func(limit int) ([]*models.TaskSubmission, error)
	getAllGradeRows      func() ([]repositories.GradeRow, error)
}

func (m *mockDashboardRepo) GetProfessorStats(_ context.Context) (*repositories.ProfessorStats, error) {
	if m.getProfessorStats == nil {
		return nil, errNotStubbed
	}
	return m.getProfessorStats()
}

func (m *mockDashboardRepo) GetStudentGradeRows(_ context.Context, studentID uint) ([]repositories.GradeRow, error) {
	if m.getStudentGradeRows == nil {
		return nil, errNotStubbed
	}
	return m.getStudentGradeRows(studentID)
}

func (m *mockDashboardRepo) GetRecentSubmissions(_ context.Context, limit int) ([]*models.TaskSubmission, error) {
	if m.getRecentSubmissions == nil {
		return nil, errNotStubbed
	}
	return m.getRecentSubmissions(limit)
}

func (m *mockDashboardRepo) GetAllGradeRows(_ context.Context) ([]repositories.GradeRow, error) {
	if m.getAllGradeRows == nil {
		return nil, errNotStubbed
	}
	return m.getAllGradeRows()
}

// mockNotifier records Notify and Broadcast calls for services that
// push notifications as a side effect.
type mockNotifier struct {
	NotificationService
	notified   []uint
	broadcasts []string
}

func (m *mockNotifier) Notify(_ context.Context, userID uint, title, message string, notifType models.NotificationType, referenceID *uint) error {
	m.notified = append(m.notified, userID)
	return nil
}

func (m *mockNotifier) Broadcast(_ context.Context, title, message string, notifType models.NotificationType, referenceID *uint) (int, error) {
	m.broadcasts = append(m.broadcasts, title)
	return 0, nil
}

package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/repositories"
)

type DashboardPostgreSQL struct {
	db *gorm.DB
}

func NewDashboardPostgreSQL(db *gorm.DB) repositories.DashboardRepository {
	return &DashboardPostgreSQL{db: db}
}

func (d *DashboardPostgreSQL) GetProfessorStats(ctx context.Context) (*repositories.ProfessorStats, error) {
	stats := &repositories.ProfessorStats{}
	db := d.db.WithContext(ctx)

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalStudents, db.Model(&models.User{}).Where("role = ?", models.RoleStudent)},
		{&stats.ActiveStudents, db.Model(&models.User{}).Where("role = ? AND is_active = ?", models.RoleStudent, true)},
		{&stats.TotalVideos, db.Model(&models.Video{})},
		{&stats.TotalMaterials, db.Model(&models.Material{})},
		{&stats.TotalTasks, db.Model(&models.Task{})},
		{&stats.ActiveTasks, db.Model(&models.Task{}).Where("status = ?", models.TaskStatusActive)},
		{&stats.TotalSubmissions, db.Model(&models.TaskSubmission{})},
		{&stats.PendingGrading, db.Model(&models.TaskSubmission{}).Where("score IS NULL")},
	}

	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	return stats, nil
}

func (d *DashboardPostgreSQL) GetStudentGradeRows(ctx context.Context, studentID uint) ([]repositories.GradeRow, error) {
	return d.gradeRows(ctx, &studentID)
}

func (d *DashboardPostgreSQL) GetAllGradeRows(ctx context.Context) ([]repositories.GradeRow, error) {
	return d.gradeRows(ctx, nil)
}

func (d *DashboardPostgreSQL) gradeRows(ctx context.Context, studentID *uint) ([]repositories.GradeRow, error) {
	var rows []repositories.GradeRow
	query := d.db.WithContext(ctx).
		Table("task_submissions s").
		Select(`s.id AS submission_id,
			t.id AS task_id,
			t.title AS task_title,
			t.task_type AS task_type,
			u.id AS student_id,
			u.name AS student_name,
			s.score AS score,
			s.is_late AS is_late,
			s.submitted_at AS submitted_at,
			s.graded_at AS graded_at`).
		Joins("JOIN tasks t ON t.id = s.task_id").
		Joins("JOIN users u ON u.id = s.student_id")
	if studentID != nil {
		query = query.Where("s.student_id = ?", *studentID)
	}
	err := query.Order("s.submitted_at DESC").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (d *DashboardPostgreSQL) GetRecentSubmissions(ctx context.Context, limit int) ([]*models.TaskSubmission, error) {
	if limit <= 0 {
		limit = 10
	}
	var submissions []*models.TaskSubmission
	err := d.db.WithContext(ctx).
		Preload("Task").
		Preload("Student").
		Order("submitted_at DESC").
		Limit(limit).
		Find(&submissions).Error
	return submissions, err
}

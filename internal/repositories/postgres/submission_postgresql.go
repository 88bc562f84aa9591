package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/repositories"
)

type SubmissionPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewSubmissionPostgreSQL(db *gorm.DB) repositories.SubmissionRepository {
	return &SubmissionPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (s *SubmissionPostgreSQL) Create(ctx context.Context, submission *models.TaskSubmission) error {
	return s.db.WithContext(ctx).Create(submission).Error
}

func (s *SubmissionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.TaskSubmission, error) {
	var submission models.TaskSubmission
	if err := s.db.WithContext(ctx).First(&submission, id).Error; err != nil {
		return nil, repositories.TranslateError(err)
	}
	return &submission, nil
}

func (s *SubmissionPostgreSQL) GetByIDWithDetails(ctx context.Context, id uint) (*models.TaskSubmission, error) {
	var submission models.TaskSubmission
	err := s.db.WithContext(ctx).
		Preload("Task").
		Preload("Student").
		First(&submission, id).Error
	if err != nil {
		return nil, repositories.TranslateError(err)
	}
	return &submission, nil
}

func (s *SubmissionPostgreSQL) Update(ctx context.Context, submission *models.TaskSubmission) error {
	return s.db.WithContext(ctx).Save(submission).Error
}

func (s *SubmissionPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.TaskSubmission{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (s *SubmissionPostgreSQL) List(ctx context.Context, filters repositories.SubmissionFilters) ([]*models.TaskSubmission, int64, error) {
	var submissions []*models.TaskSubmission
	var total int64

	query := s.db.WithContext(ctx).Model(&models.TaskSubmission{})
	if filters.TaskID != nil {
		query = query.Where("task_id = ?", *filters.TaskID)
	}
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.Graded != nil {
		if *filters.Graded {
			query = query.Where("score IS NOT NULL")
		} else {
			query = query.Where("score IS NULL")
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filters.SortBy
	if sortBy == "" {
		sortBy = "submitted_at"
	}
	query = s.helpers.ApplyPaginationAndSort(query, sortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Preload("Task").Preload("Student").Find(&submissions).Error; err != nil {
		return nil, 0, err
	}
	return submissions, total, nil
}

func (s *SubmissionPostgreSQL) GetByTaskAndStudent(ctx context.Context, taskID, studentID uint) (*models.TaskSubmission, error) {
	var submission models.TaskSubmission
	err := s.db.WithContext(ctx).
		Where("task_id = ? AND student_id = ?", taskID, studentID).
		First(&submission).Error
	if err != nil {
		return nil, repositories.TranslateError(err)
	}
	return &submission, nil
}

func (s *SubmissionPostgreSQL) GetByStudent(ctx context.Context, studentID uint) ([]*models.TaskSubmission, error) {
	var submissions []*models.TaskSubmission
	err := s.db.WithContext(ctx).
		Preload("Task").
		Where("student_id = ?", studentID).
		Order("submitted_at DESC").
		Find(&submissions).Error
	return submissions, err
}

func (s *SubmissionPostgreSQL) CountPendingGrading(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.TaskSubmission{}).
		Where("score IS NULL").
		Count(&count).Error
	return count, err
}

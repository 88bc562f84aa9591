package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/repositories"
)

type UserPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (u *UserPostgreSQL) Create(ctx context.Context, user *models.User) error {
	return u.db.WithContext(ctx).Create(user).Error
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, repositories.TranslateError(err)
	}
	return &user, nil
}

func (u *UserPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, repositories.TranslateError(err)
	}
	return &user, nil
}

func (u *UserPostgreSQL) Update(ctx context.Context, user *models.User) error {
	return u.db.WithContext(ctx).Save(user).Error
}

func (u *UserPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := u.db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (u *UserPostgreSQL) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	query := u.db.WithContext(ctx).Model(&models.User{})
	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	if filters.Query != "" {
		search := "%" + filters.Query + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", search, search)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("name ASC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (u *UserPostgreSQL) GetActiveStudents(ctx context.Context) ([]*models.User, error) {
	var students []*models.User
	err := u.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", models.RoleStudent, true).
		Order("name ASC").
		Find(&students).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active students: %w", err)
	}
	return students, nil
}

func (u *UserPostgreSQL) GetProfessor(ctx context.Context) (*models.User, error) {
	var professor models.User
	err := u.db.WithContext(ctx).
		Where("role = ?", models.RoleProfessor).
		First(&professor).Error
	if err != nil {
		return nil, repositories.TranslateError(err)
	}
	return &professor, nil
}

func (u *UserPostgreSQL) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := u.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

func (u *UserPostgreSQL) CountByRole(ctx context.Context, role models.UserRole) (int64, error) {
	var count int64
	err := u.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", role).
		Count(&count).Error
	return count, err
}

func (u *UserPostgreSQL) SetActive(ctx context.Context, id uint, active bool) error {
	result := u.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/repositories"
)

type MaterialPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewMaterialPostgreSQL(db *gorm.DB) repositories.MaterialRepository {
	return &MaterialPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (m *MaterialPostgreSQL) Create(ctx context.Context, material *models.Material) error {
	return m.db.WithContext(ctx).Create(material).Error
}

func (m *MaterialPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Material, error) {
	var material models.Material
	if err := m.db.WithContext(ctx).First(&material, id).Error; err != nil {
		return nil, repositories.TranslateError(err)
	}
	return &material, nil
}

func (m *MaterialPostgreSQL) Update(ctx context.Context, material *models.Material) error {
	return m.db.WithContext(ctx).Save(material).Error
}

func (m *MaterialPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := m.db.WithContext(ctx).Delete(&models.Material{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (m *MaterialPostgreSQL) List(ctx context.Context, filters repositories.MaterialFilters) ([]*models.Material, int64, error) {
	var materials []*models.Material
	var total int64

	query := m.db.WithContext(ctx).Model(&models.Material{})
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.FileType != nil {
		query = query.Where("file_type = ?", *filters.FileType)
	}
	if filters.Query != "" {
		search := "%" + filters.Query + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ? OR tags ILIKE ?", search, search, search)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = m.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Find(&materials).Error; err != nil {
		return nil, 0, err
	}
	return materials, total, nil
}

func (m *MaterialPostgreSQL) GetCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := m.db.WithContext(ctx).
		Model(&models.Material{}).
		Distinct("category").
		Where("category <> ''").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

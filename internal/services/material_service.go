package services

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/repositories"
	"github.com/mancera-edu/classroom-service/internal/storage"
	"github.com/mancera-edu/classroom-service/internal/validator"
)

type materialService struct {
	repo          repositories.Repository
	store         *storage.LocalStore
	notifications NotificationService
	logger        *slog.Logger
	validator     *validator.Validator
}

func NewMaterialService(repo repositories.Repository, store *storage.LocalStore, notifications NotificationService, logger *slog.Logger, validator *validator.Validator) MaterialService {
	return &materialService{
		repo:          repo,
		store:         store,
		notifications: notifications,
		logger:        logger,
		validator:     validator,
	}
}

func (s *materialService) Create(ctx context.Context, req *CreateMaterialRequest, file *multipart.FileHeader, authorID uint) (*models.Material, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, NewValidationError(errs[0].Field, errs[0].Message, errs[0].Value)
	}

	material := &models.Material{
		Title:       req.Title,
		Description: req.Description,
		FileType:    req.FileType,
		FileURL:     req.FileURL,
		Content:     req.Content,
		Category:    req.Category,
		Tags:        req.Tags,
		AuthorID:    authorID,
	}

	if file != nil {
		path, err := s.store.SaveAttachment(file, "materials")
		if err != nil {
			return nil, fmt.Errorf("failed to store material file: %w", err)
		}
		material.FileURL = path
		if material.FileType == "" {
			material.FileType = strings.TrimPrefix(filepath.Ext(file.Filename), ".")
		}
	}

	if err := s.repo.Material().Create(ctx, material); err != nil {
		return nil, fmt.Errorf("failed to create material: %w", err)
	}

	s.logger.Info("Material created", "material_id", material.ID, "title", material.Title)

	if _, err := s.notifications.Broadcast(ctx,
		"New study material",
		fmt.Sprintf("New material available: %s", material.Title),
		models.NotificationMaterial, &material.ID); err != nil {
		s.logger.Error("Failed to broadcast material notification", "error", err, "material_id", material.ID)
	}

	return material, nil
}

func (s *materialService) GetByID(ctx context.Context, id uint) (*models.Material, error) {
	return s.repo.Material().GetByID(ctx, id)
}

func (s *materialService) Update(ctx context.Context, id uint, req *UpdateMaterialRequest, actorID uint) (*models.Material, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, NewValidationError(errs[0].Field, errs[0].Message, errs[0].Value)
	}

	material, err := s.repo.Material().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		material.Title = *req.Title
	}
	if req.Description != nil {
		material.Description = *req.Description
	}
	if req.FileType != nil {
		material.FileType = *req.FileType
	}
	if req.FileURL != nil {
		material.FileURL = *req.FileURL
	}
	if req.Content != nil {
		material.Content = *req.Content
	}
	if req.Category != nil {
		material.Category = *req.Category
	}
	if req.Tags != nil {
		material.Tags = *req.Tags
	}

	if err := s.repo.Material().Update(ctx, material); err != nil {
		return nil, fmt.Errorf("failed to update material: %w", err)
	}
	return material, nil
}

func (s *materialService) Delete(ctx context.Context, id uint, actorID uint) error {
	if _, err := s.repo.Material().GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Material().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete material: %w", err)
	}
	s.logger.Info("Material deleted", "material_id", id, "deleted_by", actorID)
	return nil
}

func (s *materialService) List(ctx context.Context, filters repositories.MaterialFilters) (*MaterialListResponse, error) {
	materials, total, err := s.repo.Material().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	return &MaterialListResponse{Materials: materials, Total: total}, nil
}

func (s *materialService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Material().GetCategories(ctx)
}

// FilePath resolves a material's stored upload for download. Materials
// pointing at an external URL have nothing on disk to serve.
func (s *materialService) FilePath(ctx context.Context, id uint) (string, string, error) {
	material, err := s.repo.Material().GetByID(ctx, id)
	if err != nil {
		return "", "", err
	}
	if material.FileURL == "" || strings.HasPrefix(material.FileURL, "http") {
		return "", "", repositories.ErrNotFound
	}

	abs, err := s.store.Path(material.FileURL)
	if err != nil {
		return "", "", err
	}
	return abs, storage.OriginalName(material.FileURL), nil
}

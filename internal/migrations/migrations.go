// Package migrations applies an explicit, versioned schema migration
// sequence and seeds the accounts the service cannot run without.
// Applied versions are recorded in schema_migrations; a version is never
// re-run and the live table layout is never inspected to decide what to
// apply.
package migrations

import (
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/mancera-edu/classroom-service/internal/models"
)

type schemaMigration struct {
	Version string `gorm:"primaryKey"`
}

func (schemaMigration) TableName() string { return "schema_migrations" }

type migration struct {
	version string
	apply   func(tx *gorm.DB) error
}

// migrationSequence is append-only. New schema changes get a new
// version; released versions are never edited.
var migrationSequence = []migration{
	{
		version: "0001_initial_schema",
		apply: func(tx *gorm.DB) error {
			return tx.Migrator().AutoMigrate(
				&models.User{},
				&models.Video{},
				&models.Comment{},
				&models.Material{},
				&models.Task{},
				&models.TaskSubmission{},
				&models.Message{},
				&models.Notification{},
			)
		},
	},
	{
		// Backfills the one-submission-per-task constraint on databases
		// created before the model carried the uniqueIndex tag.
		version: "0002_unique_task_student",
		apply: func(tx *gorm.DB) error {
			return tx.Exec(
				"CREATE UNIQUE INDEX IF NOT EXISTS idx_task_student ON task_submissions (task_id, student_id)",
			).Error
		},
	},
}

// Run applies pending migrations in order, then ensures the default
// professor exists.
func Run(db *gorm.DB, logger *slog.Logger) error {
	if err := apply(db, logger); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}
	if err := EnsureDefaultProfessor(db, logger); err != nil {
		return fmt.Errorf("professor bootstrap failed: %w", err)
	}
	return nil
}

func apply(db *gorm.DB, logger *slog.Logger) error {
	if err := db.Migrator().AutoMigrate(&schemaMigration{}); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	for _, m := range migrationSequence {
		var count int64
		if err := db.Model(&schemaMigration{}).Where("version = ?", m.version).Count(&count).Error; err != nil {
			return fmt.Errorf("check migration %s: %w", m.version, err)
		}
		if count > 0 {
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.apply(tx); err != nil {
				return err
			}
			return tx.Create(&schemaMigration{Version: m.version}).Error
		})
		if err != nil {
			return fmt.Errorf("apply migration %s: %w", m.version, err)
		}
		logger.Info("Applied migration", "version", m.version)
	}

	return nil
}

const (
	defaultProfessorEmail = "vitor@mancera.com"
	defaultProfessorName  = "Victor Mancera Viterbo"

	// Only used on first boot; the professor is expected to change it.
	defaultProfessorPassword = "professor123"
)

// EnsureDefaultProfessor creates the single professor account when the
// users table has none. The roster is single-professor, so nothing is
// created when one already exists.
func EnsureDefaultProfessor(db *gorm.DB, logger *slog.Logger) error {
	var existing models.User
	err := db.Where("role = ?", models.RoleProfessor).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	professor := models.User{
		Email:    defaultProfessorEmail,
		Name:     defaultProfessorName,
		Role:     models.RoleProfessor,
		IsActive: true,
	}
	if err := professor.SetPassword(defaultProfessorPassword); err != nil {
		return err
	}
	if err := db.Create(&professor).Error; err != nil {
		return err
	}

	logger.Info("Default professor created", "email", defaultProfessorEmail)
	return nil
}

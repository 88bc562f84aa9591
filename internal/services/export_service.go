package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/repositories"
)

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ExportGrades renders every submission into an xlsx workbook, one row
// per submission with both the raw and the normalized score.
func (s *exportService) ExportGrades(ctx context.Context) ([]byte, error) {
	rows, err := s.repo.Dashboard().GetAllGradeRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load grade rows: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Grades"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Student", "Task", "Type", "Score", "Percent", "Late", "Submitted At", "Graded At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		f.SetCellStyle(sheet, "A1", "H1", headerStyle)
	}

	for i, row := range rows {
		r := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), row.StudentName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", r), row.TaskTitle)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", r), string(row.TaskType))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", r), models.FormatScore(row.Score, row.TaskType))
		if pct := models.NormalizeScore(row.Score, row.TaskType); pct != nil {
			f.SetCellValue(sheet, fmt.Sprintf("E%d", r), *pct)
		} else {
			f.SetCellValue(sheet, fmt.Sprintf("E%d", r), "N/A")
		}
		f.SetCellValue(sheet, fmt.Sprintf("F%d", r), row.IsLate)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", r), row.SubmittedAt.Format("2006-01-02 15:04"))
		if row.GradedAt != nil {
			f.SetCellValue(sheet, fmt.Sprintf("H%d", r), row.GradedAt.Format("2006-01-02 15:04"))
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("Grades exported", "rows", len(rows))
	return buf.Bytes(), nil
}

package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/repositories"
)

func TestExportGrades(t *testing.T) {
	submitted := time.Date(2024, 1, 12, 9, 30, 0, 0, time.UTC)
	graded := time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)
	normalScore := 7.5
	redacaoScore := 850.0

	repo := &mockRepository{
		dashboard: mockDashboardRepo{
			getAllGradeRows: func() ([]repositories.GradeRow, error) {
				return []repositories.GradeRow{
					{
						SubmissionID: 1,
						TaskTitle:    "Week 1 quiz",
						TaskType:     models.TaskTypeNormal,
						StudentName:  "Ana Souza",
						Score:        &normalScore,
						SubmittedAt:  submitted,
						GradedAt:     &graded,
					},
					{
						SubmissionID: 2,
						TaskTitle:    "Essay: cities",
						TaskType:     models.TaskTypeRedacao,
						StudentName:  "Bruno Lima",
						Score:        &redacaoScore,
						IsLate:       true,
						SubmittedAt:  submitted,
						GradedAt:     &graded,
					},
					{
						SubmissionID: 3,
						TaskTitle:    "Week 2 quiz",
						TaskType:     models.TaskTypeNormal,
						StudentName:  "Ana Souza",
						SubmittedAt:  submitted,
					},
				}, nil
			},
		},
	}

	svc := &exportService{repo: repo, logger: testLogger()}

	data, err := svc.ExportGrades(context.Background())
	if err != nil {
		t.Fatalf("ExportGrades: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Grades")
	if err != nil {
		t.Fatalf("read Grades sheet: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want header + 3", len(rows))
	}

	if got := rows[0][0]; got != "Student" {
		t.Errorf("header A1 = %q, want Student", got)
	}

	// Graded normal task: one-decimal display, percent 75.
	if got := rows[1][3]; got != "7.5" {
		t.Errorf("normal score display = %q, want 7.5", got)
	}
	if got := rows[1][4]; got != "75" {
		t.Errorf("normal percent = %q, want 75", got)
	}

	// Graded redacao: integer display, percent 85.
	if got := rows[2][3]; got != "850" {
		t.Errorf("redacao score display = %q, want 850", got)
	}
	if got := rows[2][4]; got != "85" {
		t.Errorf("redacao percent = %q, want 85", got)
	}
	if got := rows[2][5]; got != "TRUE" {
		t.Errorf("late cell = %q, want TRUE", got)
	}

	// Ungraded submission keeps N/A markers and an empty graded column.
	if got := rows[3][3]; got != "N/A" {
		t.Errorf("ungraded score display = %q, want N/A", got)
	}
	if got := rows[3][4]; got != "N/A" {
		t.Errorf("ungraded percent = %q, want N/A", got)
	}
}

func TestExportGradesEmpty(t *testing.T) {
	repo := &mockRepository{
		dashboard: mockDashboardRepo{
			getAllGradeRows: func() ([]repositories.GradeRow, error) {
				return nil, nil
			},
		},
	}
	svc := &exportService{repo: repo, logger: testLogger()}

	data, err := svc.ExportGrades(context.Background())
	if err != nil {
		t.Fatalf("ExportGrades: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Grades")
	if err != nil {
		t.Fatalf("read Grades sheet: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("rows = %d, want header only", len(rows))
	}
}

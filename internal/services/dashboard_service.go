package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/repositories"
	"github.com/mancera-edu/classroom-service/internal/storage"
)

type dashboardService struct {
	repo     repositories.Repository
	tasks    TaskService
	messages MessageService
	logger   *slog.Logger
}

func NewDashboardService(repo repositories.Repository, tasks TaskService, messages MessageService, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:     repo,
		tasks:    tasks,
		messages: messages,
		logger:   logger,
	}
}

func (s *dashboardService) ProfessorDashboard(ctx context.Context) (*ProfessorDashboard, error) {
	stats, err := s.repo.Dashboard().GetProfessorStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	recent, err := s.repo.Dashboard().GetRecentSubmissions(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent submissions: %w", err)
	}

	responses := make([]*SubmissionResponse, 0, len(recent))
	for _, sub := range recent {
		resp := &SubmissionResponse{
			TaskSubmission:  sub,
			ScoreDisplay:    models.FormatScore(sub.Score, sub.Task.TaskType),
			ScorePercentage: models.NormalizeScore(sub.Score, sub.Task.TaskType),
		}
		if sub.FilePath != "" {
			resp.OriginalName = storage.OriginalName(sub.FilePath)
		}
		responses = append(responses, resp)
	}

	return &ProfessorDashboard{
		Stats:             stats,
		RecentSubmissions: responses,
	}, nil
}

// StudentDashboard aggregates the student's tasks, unread counters and
// grade statistics. The average is over normalized percentages so
// redacao and normal tasks are comparable.
func (s *dashboardService) StudentDashboard(ctx context.Context, studentID uint) (*StudentDashboard, error) {
	tasks, err := s.tasks.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.Dashboard().GetStudentGradeRows(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load grades: %w", err)
	}

	dashboard := &StudentDashboard{Tasks: tasks}

	var sum float64
	byType := make(map[models.TaskType]*GradeSummary)
	for _, row := range rows {
		if row.Score == nil {
			dashboard.PendingCount++
			continue
		}
		dashboard.GradedCount++

		pct := models.NormalizeScore(row.Score, row.TaskType)
		sum += *pct

		summary, ok := byType[row.TaskType]
		if !ok {
			summary = &GradeSummary{TaskType: row.TaskType}
			byType[row.TaskType] = summary
			// Rows come newest first, so the first score per type is
			// the latest.
			summary.Latest = *row.Score
		}
		summary.Count++
		summary.Average += *row.Score
		if *row.Score > summary.Best {
			summary.Best = *row.Score
		}
	}

	if dashboard.GradedCount > 0 {
		avg := sum / float64(dashboard.GradedCount)
		dashboard.AveragePercent = &avg
	}

	for _, summary := range byType {
		summary.Average /= float64(summary.Count)
		dashboard.GradesByType = append(dashboard.GradesByType, *summary)
	}
	sort.Slice(dashboard.GradesByType, func(i, j int) bool {
		return dashboard.GradesByType[i].TaskType < dashboard.GradesByType[j].TaskType
	})

	if dashboard.UnreadMessages, err = s.repo.Message().CountUnread(ctx, studentID); err != nil {
		s.logger.Error("Failed to count unread messages", "error", err, "student_id", studentID)
	}
	if dashboard.UnreadAlerts, err = s.repo.Notification().CountUnread(ctx, studentID); err != nil {
		s.logger.Error("Failed to count unread notifications", "error", err, "student_id", studentID)
	}

	return dashboard, nil
}

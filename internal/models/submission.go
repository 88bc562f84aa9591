package models

import "time"

// TaskSubmission is a student's one-time response to a task. The composite
// unique index enforces at most one submission per (task, student) pair at the
// store level, on top of the service-level duplicate check.
type TaskSubmission struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	TaskID    uint `json:"task_id" gorm:"not null;uniqueIndex:idx_task_student"`
	StudentID uint `json:"student_id" gorm:"not null;uniqueIndex:idx_task_student;index"`

	Content  string `json:"content" gorm:"type:text"`
	FilePath string `json:"file_path" gorm:"size:500"`

	// Grading; a nil score means ungraded.
	Score    *float64 `json:"score"`
	Feedback string   `json:"feedback" gorm:"type:text"`

	// Computed once at submission time against the task due date.
	IsLate bool `json:"is_late" gorm:"default:false"`

	SubmittedAt time.Time  `json:"submitted_at"`
	GradedAt    *time.Time `json:"graded_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Task    Task `json:"task" gorm:"foreignKey:TaskID"`
	Student User `json:"student" gorm:"foreignKey:StudentID"`
}

func (TaskSubmission) TableName() string {
	return "task_submissions"
}

// IsGraded reports whether the professor has scored this submission.
func (s *TaskSubmission) IsGraded() bool {
	return s.Score != nil
}

// ScorePercentage returns the score normalized to 0-100 by the task's type,
// or nil while ungraded.
func (s *TaskSubmission) ScorePercentage() *float64 {
	return NormalizeScore(s.Score, s.Task.TaskType)
}

// ScoreDisplay renders the score for the task's type.
func (s *TaskSubmission) ScoreDisplay() string {
	return FormatScore(s.Score, s.Task.TaskType)
}

package models

import (
	"fmt"
	"time"
)

type TaskType string

const (
	TaskTypeNormal  TaskType = "normal"  // scored 0-10
	TaskTypeRedacao TaskType = "redacao" // essay, scored 0-1000
)

type TaskStatus string

const (
	TaskStatusActive   TaskStatus = "active"
	TaskStatusInactive TaskStatus = "inactive"
)

type Task struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description string     `json:"description" gorm:"type:text" validate:"omitempty,max=5000"`
	DueDate     time.Time  `json:"due_date" gorm:"not null;index" validate:"required"`
	MaxScore    float64    `json:"max_score" gorm:"default:10"`
	TaskType    TaskType   `json:"task_type" gorm:"default:normal;size:20" validate:"omitempty,oneof=normal redacao"`
	Status      TaskStatus `json:"status" gorm:"default:active;size:20"`

	Attachment          string `json:"attachment" gorm:"size:500"` // uploaded attachment path
	AllowLateSubmission bool   `json:"allow_late_submission" gorm:"default:true"`
	ExternalLink        string `json:"external_link" gorm:"size:500" validate:"omitempty,max=500"`
	ExternalLinkType    string `json:"external_link_type" gorm:"size:50"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	AuthorID  uint      `json:"author_id" gorm:"not null;index"`

	// Relations
	Author      User             `json:"author" gorm:"foreignKey:AuthorID"`
	Submissions []TaskSubmission `json:"submissions,omitempty" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}

func (Task) TableName() string {
	return "tasks"
}

// IsPastDue reports whether the task's due date has passed.
func (t *Task) IsPastDue(now time.Time) bool {
	return now.After(t.DueDate)
}

// ScaleFor returns the score scale for a task type. Unrecognized types fall
// back to the normal 0-10 scale.
func ScaleFor(taskType TaskType) float64 {
	if taskType == TaskTypeRedacao {
		return 1000
	}
	return 10
}

// NormalizeScore maps a raw score to a 0-100 percentage using the task type's
// scale. A nil score propagates to nil (ungraded).
func NormalizeScore(score *float64, taskType TaskType) *float64 {
	if score == nil {
		return nil
	}
	pct := *score / ScaleFor(taskType) * 100
	return &pct
}

// ClampScore bounds a raw score into [0, scale] for the task type.
func ClampScore(score float64, taskType TaskType) float64 {
	if score < 0 {
		return 0
	}
	if max := ScaleFor(taskType); score > max {
		return max
	}
	return score
}

// FormatScore renders a score for display: essays as whole numbers, normal
// tasks with one decimal place, ungraded as "N/A".
func FormatScore(score *float64, taskType TaskType) string {
	if score == nil {
		return "N/A"
	}
	if taskType == TaskTypeRedacao {
		return fmt.Sprintf("%d", int(*score))
	}
	return fmt.Sprintf("%.1f", *score)
}

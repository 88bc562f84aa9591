package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the service. Consumers subscribe by type.
const (
	TypeVideoPublished    = "content.video_published"
	TypeMaterialPublished = "content.material_published"
	TypeTaskPublished     = "task.published"
	TypeSubmissionCreated = "task.submission_created"
	TypeSubmissionGraded  = "task.submission_graded"
	TypeMessageSent       = "chat.message_sent"
	TypeStudentSuspended  = "account.student_suspended"
)

// Topic is the stream all classroom events are published to.
const Topic = "classroom.events"

const (
	eventSource  = "classroom-service"
	eventVersion = "1.0"
)

// Event is the envelope for every published domain event.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an envelope with a fresh ID and timestamp.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    eventSource,
		Version:   eventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher publishes domain events to the configured transport.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// NotificationFanOutEvent is emitted when content is broadcast to all
// active students.
type NotificationFanOutEvent struct {
	NotificationType string `json:"notification_type"`
	Title            string `json:"title"`
	ReferenceID      *uint  `json:"reference_id,omitempty"`
	RecipientCount   int    `json:"recipient_count"`
}

// SubmissionGradedEvent is emitted when the professor grades a submission.
type SubmissionGradedEvent struct {
	SubmissionID uint    `json:"submission_id"`
	TaskID       uint    `json:"task_id"`
	StudentID    uint    `json:"student_id"`
	Score        float64 `json:"score"`
}

// StudentSuspendedEvent is emitted when an expired subscription
// deactivates an account.
type StudentSuspendedEvent struct {
	StudentID uint   `json:"student_id"`
	Email     string `json:"email"`
	Reason    string `json:"reason"`
}

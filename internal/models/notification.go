package models

import "time"

type NotificationType string

const (
	NotificationVideo    NotificationType = "video"
	NotificationMaterial NotificationType = "material"
	NotificationTask     NotificationType = "task"
	NotificationGrade    NotificationType = "grade"
	NotificationMessage  NotificationType = "message"
	NotificationGeneral  NotificationType = "general"
)

// Notification is a per-user event record. ReferenceID points at the
// originating entity when one exists.
type Notification struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	UserID      uint             `json:"user_id" gorm:"not null;index"`
	Title       string           `json:"title" gorm:"not null;size:200"`
	Message     string           `json:"message" gorm:"type:text;not null"`
	Type        NotificationType `json:"type" gorm:"not null;size:50"`
	ReferenceID *uint            `json:"reference_id"`
	Read        bool             `json:"read" gorm:"default:false;index"`
	CreatedAt   time.Time        `json:"created_at"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}

func (Notification) TableName() string {
	return "notifications"
}

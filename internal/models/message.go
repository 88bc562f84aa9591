package models

import "time"

type Message struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Content    string    `json:"content" gorm:"type:text;not null" validate:"required,min=1"`
	FromUserID uint      `json:"from_user_id" gorm:"not null;index"`
	ToUserID   uint      `json:"to_user_id" gorm:"not null;index"`
	Read       bool      `json:"read" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`

	// Relations
	Sender   User `json:"sender" gorm:"foreignKey:FromUserID"`
	Receiver User `json:"receiver" gorm:"foreignKey:ToUserID"`
}

func (Message) TableName() string {
	return "messages"
}

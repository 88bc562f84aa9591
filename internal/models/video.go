package models

import (
	"time"
)

type VideoDifficulty string

const (
	DifficultyEasy   VideoDifficulty = "easy"
	DifficultyMedium VideoDifficulty = "medium"
	DifficultyHard   VideoDifficulty = "hard"
)

type Video struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Title       string          `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description string          `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`
	VideoURL    string          `json:"video_url" gorm:"size:500" validate:"omitempty,max=500"`
	FilePath    string          `json:"file_path" gorm:"size:500"`
	Keywords    string          `json:"keywords" gorm:"size:200"`
	Category    string          `json:"category" gorm:"size:100"`
	Difficulty  VideoDifficulty `json:"difficulty" gorm:"default:medium;size:20" validate:"omitempty,oneof=easy medium hard"`
	Duration    string          `json:"duration" gorm:"size:20"` // e.g. "10:30"
	Active      bool            `json:"active" gorm:"default:true;index"`
	Views       int             `json:"views" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	AuthorID  uint      `json:"author_id" gorm:"not null;index"`

	// Relations
	Author   User      `json:"author" gorm:"foreignKey:AuthorID"`
	Comments []Comment `json:"comments,omitempty" gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE"`
}

func (Video) TableName() string {
	return "videos"
}

type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Content   string    `json:"content" gorm:"type:text;not null" validate:"required,min=1"`
	VideoID   uint      `json:"video_id" gorm:"not null;index"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Video Video `json:"-" gorm:"foreignKey:VideoID"`
	User  User  `json:"user" gorm:"foreignKey:UserID"`
}

func (Comment) TableName() string {
	return "comments"
}

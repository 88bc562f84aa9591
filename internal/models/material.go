package models

import "time"

type Material struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description string `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`
	FileType    string `json:"file_type" gorm:"size:50"` // PDF, Texto, Link, Imagem
	FileURL     string `json:"file_url" gorm:"size:500"`
	Content     string `json:"content" gorm:"type:text"`
	Category    string `json:"category" gorm:"size:100"`
	Tags        string `json:"tags" gorm:"size:200"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	AuthorID  uint      `json:"author_id" gorm:"not null;index"`

	// Relations
	Author User `json:"author" gorm:"foreignKey:AuthorID"`
}

func (Material) TableName() string {
	return "materials"
}

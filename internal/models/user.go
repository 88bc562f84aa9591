package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type UserRole string

const (
	RoleProfessor UserRole = "professor"
	RoleStudent   UserRole = "student"
)

type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:120"`
	PasswordHash string   `json:"-" gorm:"not null;size:200"`
	Name         string   `json:"name" gorm:"not null;size:100"`
	Role         UserRole `json:"role" gorm:"not null;default:student;size:20;index"`

	// Profile info
	Phone        string     `json:"phone" gorm:"size:20"`
	BirthDate    *time.Time `json:"birth_date"`
	Bio          string     `json:"bio" gorm:"type:text"`
	ProfileImage *string    `json:"profile_image" gorm:"size:200"`

	// Subscription gating (students only; professors are always active)
	SubscriptionEndDate *time.Time `json:"subscription_end_date"`
	IsActive            bool       `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Videos        []Video          `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Materials     []Material       `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Tasks         []Task           `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Submissions   []TaskSubmission `json:"-" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Notifications []Notification   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "users"
}

// SetPassword hashes and stores the given plaintext password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the plaintext password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsSubscriptionExpired reports whether a student's subscription window has
// closed. Professors and students without an end date never expire.
func (u *User) IsSubscriptionExpired(now time.Time) bool {
	if u.Role != RoleStudent || u.SubscriptionEndDate == nil {
		return false
	}
	return now.After(*u.SubscriptionEndDate)
}

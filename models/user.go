package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered profile (customer or admin staff)
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	AuthID      string         `gorm:"uniqueIndex;not null" json:"auth_id"` // identity provider user ID (from 'sub' claim)
	FullName    string         `gorm:"not null" json:"full_name"`
	Email       string         `gorm:"uniqueIndex;not null" json:"email"`
	PhoneNumber string         `gorm:"not null" json:"phone_number"`
	Address     *string        `json:"address,omitempty"` // optional postal address
	IsAdmin     bool           `gorm:"not null;default:false" json:"is_admin"` // set directly in the database, no API path changes it
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "profiles"
}

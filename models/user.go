package models

import (
	"time"

	"gorm.io/gorm"
)

// Actor roles. Admins are exempt from the staff service-selection edit
// limit and are the only role allowed to purge bookings permanently.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	FullName string `gorm:"size:255" json:"full_name"`
	Username string `gorm:"uniqueIndex;size:150" json:"username"`
	Password string `gorm:"size:255" json:"-"` // bcrypt hash, never returned
	Role     string `gorm:"size:32;default:staff" json:"role"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

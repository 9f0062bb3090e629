package models

import (
	"time"

	"gorm.io/gorm"
)

// Category is a room tier (standard/deluxe/suite) with a capacity ceiling.
// Active-booking counts are always derived from the bookings table; MaxRooms
// is never decremented in place.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:100" json:"name"`

	MaxRooms int    `gorm:"column:max_rooms;default:0" json:"maxRooms"`
	Status   string `gorm:"size:32;default:Active" json:"status"`

	// First room number minted for this tier, e.g. 100 for deluxe, 200 for
	// suite. Zero means plain sequential numbering starting at 1.
	BaseRoomNumber int `gorm:"column:base_room_number;default:0" json:"baseRoomNumber"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

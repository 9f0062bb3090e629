package models

import (
	"gorm.io/gorm"
)

// Room statuses.
const (
	RoomAvailable   = "available"
	RoomBooked      = "booked"
	RoomMaintenance = "maintenance"
)

type Room struct {
	gorm.Model

	CategoryID uint `json:"categoryId" gorm:"column:category_id;uniqueIndex:idx_category_room"`

	// Numeric, sequential within the category starting at the category's
	// base room number.
	RoomNumber int `json:"roomNumber" gorm:"column:room_number;uniqueIndex:idx_category_room"`

	Price       float64 `json:"price"`
	Status      string  `json:"status" gorm:"size:32;default:available"`
	Floor       string  `json:"floor" gorm:"type:varchar(10)"`
	Description string  `json:"description" gorm:"type:text"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

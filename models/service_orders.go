package models

import "gorm.io/gorm"

// Collaborator tables the checkout aggregator reads from. Restaurant,
// laundry and housekeeping own their workflows elsewhere; the core only
// consumes per-booking billable items and totals.

type OrderItem struct {
	ItemName string  `json:"itemName"`
	Quantity int     `json:"quantity"`
	Rate     float64 `json:"rate"`
	Amount   float64 `json:"amount"`
}

type RestaurantOrder struct {
	gorm.Model

	BookingID   uint        `gorm:"column:booking_id;index" json:"bookingId"`
	Items       []OrderItem `gorm:"serializer:json" json:"items"`
	TotalAmount float64     `gorm:"column:total_amount" json:"totalAmount"`
	Status      string      `gorm:"size:32" json:"status,omitempty"`
}

type LaundryOrder struct {
	gorm.Model

	BookingID   uint        `gorm:"column:booking_id;index" json:"bookingId"`
	Items       []OrderItem `gorm:"serializer:json" json:"items"`
	TotalAmount float64     `gorm:"column:total_amount" json:"totalAmount"`
	Status      string      `gorm:"size:32" json:"status,omitempty"`
}

// Inspection checklist statuses. Anything other than "ok" is chargeable.
const ChecklistOK = "ok"

type ChecklistEntry struct {
	Item        string  `json:"item"`
	Status      string  `json:"status"`
	Quantity    int     `json:"quantity,omitempty"`
	CostPerUnit float64 `json:"costPerUnit,omitempty"`
	Remarks     string  `json:"remarks,omitempty"`
}

type RoomInspection struct {
	gorm.Model

	BookingID      uint             `gorm:"column:booking_id;index" json:"bookingId"`
	RoomID         uint             `gorm:"column:room_id" json:"roomId"`
	InspectionType string           `gorm:"column:inspection_type;size:32" json:"inspectionType"`
	Checklist      []ChecklistEntry `gorm:"serializer:json" json:"checklist"`
	TotalCharges   float64          `gorm:"column:total_charges" json:"totalCharges"`
	Remarks        string           `gorm:"type:text" json:"remarks,omitempty"`
}

package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Checkout payment statuses. A record stays unpaid until the pending
// amount reaches zero; partial payments do not change the status.
const (
	CheckoutUnpaid = "unpaid"
	CheckoutPaid   = "paid"
)

// CheckoutRecord is the final invoice for a stay, created at most once per
// booking. TotalAmount and the ServiceItems snapshot are written once and
// never change; only PaidAmount/PendingAmount/Status move as payments post.
type CheckoutRecord struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BookingID uint `gorm:"column:booking_id;uniqueIndex" json:"bookingId"`

	RestaurantCharges float64 `gorm:"column:restaurant_charges" json:"restaurantCharges"`
	LaundryCharges    float64 `gorm:"column:laundry_charges" json:"laundryCharges"`
	InspectionCharges float64 `gorm:"column:inspection_charges" json:"inspectionCharges"`
	BookingCharges    float64 `gorm:"column:booking_charges" json:"bookingCharges"`
	TotalAmount       float64 `gorm:"column:total_amount" json:"totalAmount"`

	PaidAmount    float64 `gorm:"column:paid_amount" json:"paidAmount"`
	PendingAmount float64 `gorm:"column:pending_amount" json:"pendingAmount"`
	Status        string  `gorm:"size:32;default:unpaid" json:"status"`

	// Frozen line-item breakdown per charge category, as aggregated at
	// checkout time.
	ServiceItems datatypes.JSON `gorm:"column:service_items" json:"serviceItems"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Booking Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
}

// Payment is one posting against a checkout record.
type Payment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ReceiptNo  string  `gorm:"column:receipt_no;uniqueIndex;size:64" json:"receiptNo"`
	CheckoutID uint    `gorm:"column:checkout_id;index" json:"checkoutId"`
	Amount     float64 `json:"amount"`
	Mode       string  `gorm:"size:32" json:"mode"`
	PostedBy   string  `gorm:"size:150" json:"postedBy"`

	CreatedAt time.Time `json:"createdAt"`
}

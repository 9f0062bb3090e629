package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GuestDetails is the primary guest section of a booking. Nested sections
// have no lifecycle of their own; they live and die with the Booking row.
type GuestDetails struct {
	Name        string     `json:"name,omitempty"`
	Age         int        `json:"age,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	Nationality string     `json:"nationality,omitempty"`
	Anniversary *time.Time `json:"anniversary,omitempty"`
	GuestImage  string     `json:"guestImage,omitempty"`
}

type ContactDetails struct {
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
	PinCode string `json:"pinCode,omitempty"`
}

type IdentityDetails struct {
	IDType       string `json:"idType,omitempty"`
	IDNumber     string `json:"idNumber,omitempty"`
	IDPhotoFront string `json:"idPhotoFront,omitempty"`
	IDPhotoBack  string `json:"idPhotoBack,omitempty"`
}

type BookingInfo struct {
	CheckIn            *time.Time `json:"checkIn,omitempty"`
	CheckOut           *time.Time `json:"checkOut,omitempty"`
	ArrivalFrom        string     `json:"arrivalFrom,omitempty"`
	BookingType        string     `json:"bookingType,omitempty"`
	PurposeOfVisit     string     `json:"purposeOfVisit,omitempty"`
	Remarks            string     `json:"remarks,omitempty"`
	Adults             int        `json:"adults,omitempty"`
	Children           int        `json:"children,omitempty"`
	ActualCheckInTime  *time.Time `json:"actualCheckInTime,omitempty"`
	ActualCheckOutTime *time.Time `json:"actualCheckOutTime,omitempty"`
}

type PaymentDetails struct {
	TotalAmount    float64 `json:"totalAmount"`
	AdvancePaid    float64 `json:"advancePaid"`
	PaymentMode    string  `json:"paymentMode,omitempty"`
	BillingName    string  `json:"billingName,omitempty"`
	BillingAddress string  `json:"billingAddress,omitempty"`
	GSTNumber      string  `json:"gstNumber,omitempty"`
}

type VehicleDetails struct {
	VehicleNumber string `json:"vehicleNumber,omitempty"`
	VehicleType   string `json:"vehicleType,omitempty"`
	VehicleModel  string `json:"vehicleModel,omitempty"`
	DriverName    string `json:"driverName,omitempty"`
}

// ExtensionEntry records one stay extension. Entries are append-only; the
// pre-extension dates are frozen here before bookingInfo.checkOut moves.
type ExtensionEntry struct {
	OriginalCheckIn  *time.Time `json:"originalCheckIn,omitempty"`
	OriginalCheckOut *time.Time `json:"originalCheckOut,omitempty"`
	ExtendedCheckOut time.Time  `json:"extendedCheckOut"`
	Reason           string     `json:"reason,omitempty"`
	AdditionalAmount float64    `json:"additionalAmount,omitempty"`
	PaymentMode      string     `json:"paymentMode,omitempty"`
	ApprovedBy       string     `json:"approvedBy,omitempty"`
	ExtendedOn       time.Time  `json:"extendedOn"`
}

// StatusEntry is one row of the booking's status audit trail, deduplicated
// by the exact (status, changedAt) pair.
type StatusEntry struct {
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changedAt"`
}

// Booking is one guest stay bound to a single physical room. Multi-room
// requests produce one Booking per room (numberOfRooms stays 1). Inactive
// rows are audit history and are never rewritten; reallocation of a freed
// room always mints a new record.
type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	GRCNo           string `gorm:"column:grc_no;uniqueIndex;size:16" json:"grcNo"`
	ReferenceNumber string `gorm:"column:reference_number;uniqueIndex;size:16" json:"referenceNumber"`

	CategoryID    uint `gorm:"column:category_id;index" json:"categoryId"`
	RoomNumber    int  `gorm:"column:room_number;index" json:"roomNumber"`
	NumberOfRooms int  `gorm:"column:number_of_rooms;default:1" json:"numberOfRooms"`
	IsActive      bool `gorm:"column:is_active;index;default:true" json:"isActive"`
	VIP           bool `gorm:"column:vip;default:false" json:"vip"`

	GuestDetails    GuestDetails    `gorm:"serializer:json" json:"guestDetails"`
	ContactDetails  ContactDetails  `gorm:"serializer:json" json:"contactDetails"`
	IdentityDetails IdentityDetails `gorm:"serializer:json" json:"identityDetails"`
	BookingInfo     BookingInfo     `gorm:"serializer:json" json:"bookingInfo"`
	PaymentDetails  PaymentDetails  `gorm:"serializer:json" json:"paymentDetails"`
	VehicleDetails  VehicleDetails  `gorm:"serializer:json" json:"vehicleDetails"`

	// Free-form menu / ancillary service picks made at the desk. Staff
	// edits to this section are capped; see LifecycleService.Update.
	ServiceSelection datatypes.JSON `gorm:"column:service_selection" json:"serviceSelection,omitempty"`
	StaffEditCount   int            `gorm:"column:staff_edit_count;default:0" json:"staffEditCount"`

	ExtensionHistory []ExtensionEntry `gorm:"serializer:json" json:"extensionHistory"`
	StatusHistory    []StatusEntry    `gorm:"serializer:json" json:"statusHistory"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

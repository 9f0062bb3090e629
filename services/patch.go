package services

import (
	"time"

	"hotel-backoffice/models"

	"gorm.io/datatypes"
)

// Booking patches merge field by field into the nested sections; a nil
// pointer means "leave it alone". Restricted fields (id, grcNo,
// referenceNumber, isActive, createdAt, staffEditCount) have no patch
// representation at all, so they are stripped structurally rather than by a
// deny list.

type GuestDetailsPatch struct {
	Name        *string    `json:"name"`
	Age         *int       `json:"age"`
	Gender      *string    `json:"gender"`
	Nationality *string    `json:"nationality"`
	Anniversary *time.Time `json:"anniversary"`
	GuestImage  *string    `json:"guestImage"`
}

func (p *GuestDetailsPatch) apply(d *models.GuestDetails) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Age != nil {
		d.Age = *p.Age
	}
	if p.Gender != nil {
		d.Gender = *p.Gender
	}
	if p.Nationality != nil {
		d.Nationality = *p.Nationality
	}
	if p.Anniversary != nil {
		d.Anniversary = p.Anniversary
	}
	if p.GuestImage != nil {
		d.GuestImage = *p.GuestImage
	}
}

type ContactDetailsPatch struct {
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	Country *string `json:"country"`
	PinCode *string `json:"pinCode"`
}

func (p *ContactDetailsPatch) apply(d *models.ContactDetails) {
	if p.Phone != nil {
		d.Phone = *p.Phone
	}
	if p.Email != nil {
		d.Email = *p.Email
	}
	if p.Address != nil {
		d.Address = *p.Address
	}
	if p.City != nil {
		d.City = *p.City
	}
	if p.State != nil {
		d.State = *p.State
	}
	if p.Country != nil {
		d.Country = *p.Country
	}
	if p.PinCode != nil {
		d.PinCode = *p.PinCode
	}
}

type IdentityDetailsPatch struct {
	IDType       *string `json:"idType"`
	IDNumber     *string `json:"idNumber"`
	IDPhotoFront *string `json:"idPhotoFront"`
	IDPhotoBack  *string `json:"idPhotoBack"`
}

func (p *IdentityDetailsPatch) apply(d *models.IdentityDetails) {
	if p.IDType != nil {
		d.IDType = *p.IDType
	}
	if p.IDNumber != nil {
		d.IDNumber = *p.IDNumber
	}
	if p.IDPhotoFront != nil {
		d.IDPhotoFront = *p.IDPhotoFront
	}
	if p.IDPhotoBack != nil {
		d.IDPhotoBack = *p.IDPhotoBack
	}
}

type BookingInfoPatch struct {
	CheckIn            *time.Time `json:"checkIn"`
	CheckOut           *time.Time `json:"checkOut"`
	ArrivalFrom        *string    `json:"arrivalFrom"`
	BookingType        *string    `json:"bookingType"`
	PurposeOfVisit     *string    `json:"purposeOfVisit"`
	Remarks            *string    `json:"remarks"`
	Adults             *int       `json:"adults"`
	Children           *int       `json:"children"`
	ActualCheckInTime  *time.Time `json:"actualCheckInTime"`
	ActualCheckOutTime *time.Time `json:"actualCheckOutTime"`
}

func (p *BookingInfoPatch) apply(d *models.BookingInfo) {
	if p.CheckIn != nil {
		d.CheckIn = p.CheckIn
	}
	if p.CheckOut != nil {
		d.CheckOut = p.CheckOut
	}
	if p.ArrivalFrom != nil {
		d.ArrivalFrom = *p.ArrivalFrom
	}
	if p.BookingType != nil {
		d.BookingType = *p.BookingType
	}
	if p.PurposeOfVisit != nil {
		d.PurposeOfVisit = *p.PurposeOfVisit
	}
	if p.Remarks != nil {
		d.Remarks = *p.Remarks
	}
	if p.Adults != nil {
		d.Adults = *p.Adults
	}
	if p.Children != nil {
		d.Children = *p.Children
	}
	if p.ActualCheckInTime != nil {
		d.ActualCheckInTime = p.ActualCheckInTime
	}
	if p.ActualCheckOutTime != nil {
		d.ActualCheckOutTime = p.ActualCheckOutTime
	}
}

type PaymentDetailsPatch struct {
	TotalAmount    *float64 `json:"totalAmount"`
	AdvancePaid    *float64 `json:"advancePaid"`
	PaymentMode    *string  `json:"paymentMode"`
	BillingName    *string  `json:"billingName"`
	BillingAddress *string  `json:"billingAddress"`
	GSTNumber      *string  `json:"gstNumber"`
}

func (p *PaymentDetailsPatch) apply(d *models.PaymentDetails) {
	if p.TotalAmount != nil {
		d.TotalAmount = *p.TotalAmount
	}
	if p.AdvancePaid != nil {
		d.AdvancePaid = *p.AdvancePaid
	}
	if p.PaymentMode != nil {
		d.PaymentMode = *p.PaymentMode
	}
	if p.BillingName != nil {
		d.BillingName = *p.BillingName
	}
	if p.BillingAddress != nil {
		d.BillingAddress = *p.BillingAddress
	}
	if p.GSTNumber != nil {
		d.GSTNumber = *p.GSTNumber
	}
}

type VehicleDetailsPatch struct {
	VehicleNumber *string `json:"vehicleNumber"`
	VehicleType   *string `json:"vehicleType"`
	VehicleModel  *string `json:"vehicleModel"`
	DriverName    *string `json:"driverName"`
}

func (p *VehicleDetailsPatch) apply(d *models.VehicleDetails) {
	if p.VehicleNumber != nil {
		d.VehicleNumber = *p.VehicleNumber
	}
	if p.VehicleType != nil {
		d.VehicleType = *p.VehicleType
	}
	if p.VehicleModel != nil {
		d.VehicleModel = *p.VehicleModel
	}
	if p.DriverName != nil {
		d.DriverName = *p.DriverName
	}
}

// BookingPatch is a partial update; only the sections present are merged.
type BookingPatch struct {
	GuestDetails    *GuestDetailsPatch    `json:"guestDetails"`
	ContactDetails  *ContactDetailsPatch  `json:"contactDetails"`
	IdentityDetails *IdentityDetailsPatch `json:"identityDetails"`
	BookingInfo     *BookingInfoPatch     `json:"bookingInfo"`
	PaymentDetails  *PaymentDetailsPatch  `json:"paymentDetails"`
	VehicleDetails  *VehicleDetailsPatch  `json:"vehicleDetails"`

	RoomNumber    *int  `json:"roomNumber"`
	NumberOfRooms *int  `json:"numberOfRooms"`
	VIP           *bool `json:"vip"`

	ServiceSelection datatypes.JSON       `json:"serviceSelection"`
	StatusHistory    []models.StatusEntry `json:"statusHistory"`
}

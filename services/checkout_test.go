package services

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"hotel-backoffice/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCheckoutFixture(t *testing.T) (*gorm.DB, *CheckoutService, models.Booking) {
	t.Helper()
	db := newTestDB(t)
	logger := newTestLogger()
	allocator := NewAllocatorService(db, logger)
	category := createCategory(t, db, "deluxe", 3, 200)

	booking := mustAllocateOne(t, allocator, AllocationRequest{
		CategoryID: category.ID,
		BookingInfo: &models.BookingInfo{
			CheckIn:  datePtr(2026, time.March, 10),
			CheckOut: datePtr(2026, time.March, 12),
		},
	})

	require.NoError(t, db.Model(&models.Room{}).
		Where("category_id = ? AND room_number = ?", booking.CategoryID, booking.RoomNumber).
		Update("price", 1000.0).Error)

	return db, NewCheckoutService(db, logger), booking
}

func seedOrders(t *testing.T, db *gorm.DB, bookingID uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.RestaurantOrder{
		BookingID: bookingID,
		Items: []models.OrderItem{
			{ItemName: "Paneer Tikka", Quantity: 1, Rate: 300, Amount: 300},
			{ItemName: "Lassi", Quantity: 2, Rate: 100, Amount: 200},
		},
		TotalAmount: 500,
	}).Error)
	require.NoError(t, db.Create(&models.LaundryOrder{
		BookingID:   bookingID,
		Items:       []models.OrderItem{{ItemName: "Shirt", Quantity: 4, Rate: 50, Amount: 200}},
		TotalAmount: 200,
	}).Error)
}

func TestCheckoutAggregatesAllCharges(t *testing.T) {
	db, svc, booking := newCheckoutFixture(t)
	seedOrders(t, db, booking.ID)

	record, err := svc.Checkout(booking.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 500, record.RestaurantCharges)
	assert.EqualValues(t, 200, record.LaundryCharges)
	assert.EqualValues(t, 0, record.InspectionCharges)
	assert.EqualValues(t, 2000, record.BookingCharges, "2 nights at the room price")
	assert.EqualValues(t, 2700, record.TotalAmount)
	assert.EqualValues(t, 0, record.PaidAmount)
	assert.EqualValues(t, 2700, record.PendingAmount)
	assert.Equal(t, models.CheckoutUnpaid, record.Status)

	var snapshot serviceItemsSnapshot
	require.NoError(t, json.Unmarshal(record.ServiceItems, &snapshot))
	assert.Len(t, snapshot.Restaurant, 2)
	assert.Len(t, snapshot.Laundry, 1)
	assert.Empty(t, snapshot.Inspection)
	assert.Equal(t, "Paneer Tikka x1", snapshot.Restaurant[0].Description)
	assert.Equal(t, "Shirt x4", snapshot.Laundry[0].Description)
}

func TestCheckoutRunsOnce(t *testing.T) {
	db, svc, booking := newCheckoutFixture(t)
	seedOrders(t, db, booking.ID)

	first, err := svc.Checkout(booking.ID)
	require.NoError(t, err)

	_, err = svc.Checkout(booking.ID)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// Even with new charges posted after the fact, the record is frozen.
	require.NoError(t, db.Create(&models.RestaurantOrder{BookingID: booking.ID, TotalAmount: 999}).Error)
	_, err = svc.Checkout(booking.ID)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	stored, err := svc.Get(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.EqualValues(t, first.TotalAmount, stored.TotalAmount)
}

func TestCheckoutUnknownBooking(t *testing.T) {
	_, svc, _ := newCheckoutFixture(t)

	_, err := svc.Checkout(4242)
	assert.ErrorIs(t, err, ErrNotFound)
}

type failingSource struct{ name string }

func (s failingSource) Name() string { return s.name }

func (s failingSource) Charges(uint) ([]LineItem, float64, error) {
	return nil, 0, errors.New(s.name + " service unavailable")
}

func TestCheckoutCollaboratorFailureFailsWhole(t *testing.T) {
	db, svc, booking := newCheckoutFixture(t)
	seedOrders(t, db, booking.ID)
	svc.Laundry = failingSource{name: "laundry"}

	_, err := svc.Checkout(booking.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "laundry")

	var count int64
	require.NoError(t, db.Model(&models.CheckoutRecord{}).
		Where("booking_id = ?", booking.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count, "a failed aggregation writes nothing")
}

func TestCheckoutItemizesFlaggedInspection(t *testing.T) {
	db, svc, booking := newCheckoutFixture(t)

	require.NoError(t, db.Create(&models.RoomInspection{
		BookingID:      booking.ID,
		InspectionType: "checkout",
		Checklist: []models.ChecklistEntry{
			{Item: "Towel", Status: models.ChecklistOK},
			{Item: "Kettle", Status: "damaged", Quantity: 1, CostPerUnit: 350},
		},
		TotalCharges: 350,
	}).Error)

	record, err := svc.Checkout(booking.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 350, record.InspectionCharges)

	var snapshot serviceItemsSnapshot
	require.NoError(t, json.Unmarshal(record.ServiceItems, &snapshot))
	require.Len(t, snapshot.Inspection, 1)
	assert.Equal(t, "Kettle (damaged)", snapshot.Inspection[0].Description)
	assert.EqualValues(t, 350, snapshot.Inspection[0].Amount)
}

func TestCheckoutSynthesizesInspectionBreakdown(t *testing.T) {
	db, svc, booking := newCheckoutFixture(t)

	// Housekeeping posted a total with no chargeable checklist rows.
	require.NoError(t, db.Create(&models.RoomInspection{
		BookingID:    booking.ID,
		TotalCharges: 300,
	}).Error)

	record, err := svc.Checkout(booking.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 300, record.InspectionCharges)

	var snapshot serviceItemsSnapshot
	require.NoError(t, json.Unmarshal(record.ServiceItems, &snapshot))
	require.Len(t, snapshot.Inspection, 2)
	assert.Equal(t, "Towel (missing)", snapshot.Inspection[0].Description)
	assert.EqualValues(t, 150, snapshot.Inspection[0].Amount)
	assert.Equal(t, "Bedsheet (damaged)", snapshot.Inspection[1].Description)
	assert.EqualValues(t, 150, snapshot.Inspection[1].Amount)
}

func TestRecordPaymentFlow(t *testing.T) {
	db, svc, booking := newCheckoutFixture(t)
	seedOrders(t, db, booking.ID)

	record, err := svc.Checkout(booking.ID)
	require.NoError(t, err)

	_, err = svc.RecordPayment(record.ID, 0, "cash", "staff")
	assert.ErrorIs(t, err, ErrValidation)

	record, err = svc.RecordPayment(record.ID, 1000, "cash", "staff")
	require.NoError(t, err)
	assert.EqualValues(t, 1000, record.PaidAmount)
	assert.EqualValues(t, 1700, record.PendingAmount)
	assert.Equal(t, models.CheckoutUnpaid, record.Status, "partial payment does not change the status")

	record, err = svc.RecordPayment(record.ID, 1700, "card", "staff")
	require.NoError(t, err)
	assert.EqualValues(t, 2700, record.PaidAmount)
	assert.EqualValues(t, 0, record.PendingAmount)
	assert.Equal(t, models.CheckoutPaid, record.Status)

	// Overpayment never drives the pending amount negative.
	record, err = svc.RecordPayment(record.ID, 100, "cash", "staff")
	require.NoError(t, err)
	assert.EqualValues(t, 0, record.PendingAmount)
	assert.Equal(t, models.CheckoutPaid, record.Status)

	var payments []models.Payment
	require.NoError(t, db.Where("checkout_id = ?", record.ID).Find(&payments).Error)
	require.Len(t, payments, 3)
	receipts := map[string]bool{}
	for _, p := range payments {
		require.NotEmpty(t, p.ReceiptNo)
		receipts[p.ReceiptNo] = true
	}
	assert.Len(t, receipts, 3)

	_, err = svc.RecordPayment(9999, 100, "cash", "staff")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNightsStayed(t *testing.T) {
	checkIn := time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		checkIn  *time.Time
		checkOut *time.Time
		want     int
	}{
		{"missing dates", nil, nil, 1},
		{"checkout before checkin", &checkIn, datePtr(2026, time.March, 9), 1},
		{"same day", &checkIn, timePtr(checkIn.Add(6 * time.Hour)), 1},
		{"exact two days", &checkIn, timePtr(checkIn.Add(48 * time.Hour)), 2},
		{"partial day rounds up", &checkIn, timePtr(checkIn.Add(60 * time.Hour)), 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, nightsStayed(tc.checkIn, tc.checkOut))
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }

func TestNightlyRateFallsBackToHotelDefault(t *testing.T) {
	db, svc, booking := newCheckoutFixture(t)

	// Strip the room price so the hotel default applies.
	require.NoError(t, db.Model(&models.Room{}).
		Where("category_id = ? AND room_number = ?", booking.CategoryID, booking.RoomNumber).
		Update("price", 0).Error)
	require.NoError(t, db.Create(&models.HotelSetting{Name: "Test Hotel", DefaultNightlyRate: 750}).Error)

	record, err := svc.Checkout(booking.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1500, record.BookingCharges, "2 nights at the default rate")
}

package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"hotel-backoffice/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CheckoutService aggregates collaborator charges and the room charge into
// one immutable invoice per booking, then tracks payment postings against
// it.
type CheckoutService struct {
	DB     *gorm.DB
	Logger *logrus.Logger

	Restaurant ChargeSource
	Laundry    ChargeSource
	Inspection ChargeSource
}

func NewCheckoutService(db *gorm.DB, logger *logrus.Logger) *CheckoutService {
	return &CheckoutService{
		DB:         db,
		Logger:     logger,
		Restaurant: RestaurantChargeSource{DB: db},
		Laundry:    LaundryChargeSource{DB: db},
		Inspection: InspectionChargeSource{DB: db, Logger: logger},
	}
}

type sourceResult struct {
	name  string
	items []LineItem
	total float64
	err   error
}

// serviceItemsSnapshot is the frozen breakdown stored on the record.
type serviceItemsSnapshot struct {
	Restaurant []LineItem `json:"restaurant"`
	Laundry    []LineItem `json:"laundry"`
	Inspection []LineItem `json:"inspection"`
}

// Checkout aggregates all charges for a stay. It runs at most once per
// booking; retries get ErrAlreadyExists and the first record is untouched.
func (s *CheckoutService) Checkout(bookingID uint) (*models.CheckoutRecord, error) {
	var booking models.Booking
	if err := s.DB.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}

	var existing int64
	if err := s.DB.Model(&models.CheckoutRecord{}).
		Where("booking_id = ?", bookingID).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing checkout: %w", err)
	}
	if existing > 0 {
		return nil, fmt.Errorf("checkout already exists for booking %d: %w", bookingID, ErrAlreadyExists)
	}

	// The three collaborators are independent; fetch them concurrently.
	// Any failure fails the whole checkout rather than omitting a charge
	// category.
	sources := []ChargeSource{s.Restaurant, s.Laundry, s.Inspection}
	results := make([]sourceResult, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src ChargeSource) {
			defer wg.Done()
			items, total, err := src.Charges(bookingID)
			results[i] = sourceResult{name: src.Name(), items: items, total: total, err: err}
		}(i, src)
	}
	wg.Wait()

	byName := make(map[string]sourceResult, len(results))
	for _, res := range results {
		if res.err != nil {
			return nil, fmt.Errorf("charge source %s failed: %w", res.name, res.err)
		}
		byName[res.name] = res
	}

	nights := nightsStayed(booking.BookingInfo.CheckIn, booking.BookingInfo.CheckOut)
	rate, err := s.nightlyRate(booking)
	if err != nil {
		return nil, err
	}
	bookingCharges := float64(nights) * rate

	snapshot := serviceItemsSnapshot{
		Restaurant: emptyIfNil(byName["restaurant"].items),
		Laundry:    emptyIfNil(byName["laundry"].items),
		Inspection: emptyIfNil(byName["inspection"].items),
	}
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot service items: %w", err)
	}

	total := byName["restaurant"].total + byName["laundry"].total + byName["inspection"].total + bookingCharges

	record := models.CheckoutRecord{
		BookingID:         bookingID,
		RestaurantCharges: byName["restaurant"].total,
		LaundryCharges:    byName["laundry"].total,
		InspectionCharges: byName["inspection"].total,
		BookingCharges:    bookingCharges,
		TotalAmount:       total,
		PendingAmount:     total,
		Status:            models.CheckoutUnpaid,
		ServiceItems:      snapshotJSON,
	}

	// The unique index on booking_id settles concurrent checkout races.
	if err := s.DB.Create(&record).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return nil, fmt.Errorf("checkout already exists for booking %d: %w", bookingID, ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to create checkout record: %w", err)
	}

	s.Logger.WithFields(logrus.Fields{
		"booking": bookingID,
		"total":   total,
		"nights":  nights,
	}).Info("checkout record created")
	return &record, nil
}

// RecordPayment posts a payment against a checkout. Pending amount is
// recomputed from the cumulative paid total, never driven below zero, and
// the record flips to paid when nothing is pending.
func (s *CheckoutService) RecordPayment(checkoutID uint, amount float64, mode string, postedBy string) (*models.CheckoutRecord, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("payment amount must be positive: %w", ErrValidation)
	}

	var record models.CheckoutRecord
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&record, checkoutID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("checkout %d: %w", checkoutID, ErrNotFound)
			}
			return fmt.Errorf("failed to load checkout: %w", err)
		}

		payment := models.Payment{
			ReceiptNo:  uuid.NewString(),
			CheckoutID: record.ID,
			Amount:     amount,
			Mode:       mode,
			PostedBy:   postedBy,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}

		record.PaidAmount += amount
		record.PendingAmount = math.Max(0, record.TotalAmount-record.PaidAmount)
		if record.PendingAmount == 0 {
			record.Status = models.CheckoutPaid
		}
		if err := tx.Save(&record).Error; err != nil {
			return fmt.Errorf("failed to update checkout: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.Logger.WithFields(logrus.Fields{
		"checkout": checkoutID,
		"paid":     amount,
		"pending":  record.PendingAmount,
	}).Info("payment recorded")
	return &record, nil
}

// Get returns the checkout record for a booking.
func (s *CheckoutService) Get(bookingID uint) (*models.CheckoutRecord, error) {
	var record models.CheckoutRecord
	if err := s.DB.Where("booking_id = ?", bookingID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("checkout for booking %d: %w", bookingID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load checkout: %w", err)
	}
	return &record, nil
}

// nightsStayed is ceil of the stay in days, never less than one night.
func nightsStayed(checkIn, checkOut *time.Time) int {
	if checkIn == nil || checkOut == nil || !checkOut.After(*checkIn) {
		return 1
	}
	nights := int(math.Ceil(checkOut.Sub(*checkIn).Hours() / 24))
	if nights < 1 {
		nights = 1
	}
	return nights
}

// nightlyRate prefers the bound room's price and falls back to the hotel
// default rate when the room carries none.
func (s *CheckoutService) nightlyRate(booking models.Booking) (float64, error) {
	var room models.Room
	err := s.DB.Where("category_id = ? AND room_number = ?", booking.CategoryID, booking.RoomNumber).
		First(&room).Error
	if err == nil && room.Price > 0 {
		return room.Price, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("failed to load room for rate: %w", err)
	}

	var setting models.HotelSetting
	if err := s.DB.First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to load hotel settings: %w", err)
	}
	return setting.DefaultNightlyRate, nil
}

func emptyIfNil(items []LineItem) []LineItem {
	if items == nil {
		return []LineItem{}
	}
	return items
}

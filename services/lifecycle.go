package services

import (
	"errors"
	"fmt"
	"time"

	"hotel-backoffice/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Shared by the allocator and the lifecycle manager so that releasing a
// room and allocating in the same category never interleave.
var catLocks = newCategoryLocks()

// Actor identifies who is performing a lifecycle operation.
type Actor struct {
	Username string
	Role     string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// ExtendRequest carries one stay extension.
type ExtendRequest struct {
	ExtendedCheckOut time.Time
	Reason           string
	AdditionalAmount float64
	PaymentMode      string
	ApprovedBy       string
}

// Staff may touch the service-selection section of a booking at most this
// many times; admins are exempt.
const maxStaffServiceEdits = 2

type LifecycleService struct {
	DB     *gorm.DB
	Logger *logrus.Logger
}

func NewLifecycleService(db *gorm.DB, logger *logrus.Logger) *LifecycleService {
	return &LifecycleService{DB: db, Logger: logger}
}

func (s *LifecycleService) loadForUpdate(tx *gorm.DB, bookingID uint) (models.Booking, error) {
	var booking models.Booking
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return booking, fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
		}
		return booking, fmt.Errorf("failed to load booking: %w", err)
	}
	return booking, nil
}

// Update merges the patch into the booking. Only sections present in the
// patch are touched; status-history entries already recorded (same status
// and changedAt) are skipped so resubmitted updates replay cleanly.
func (s *LifecycleService) Update(bookingID uint, patch BookingPatch, actor Actor) (*models.Booking, error) {
	var updated models.Booking
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		booking, err := s.loadForUpdate(tx, bookingID)
		if err != nil {
			return err
		}

		if len(patch.ServiceSelection) > 0 && !actor.IsAdmin() {
			if booking.StaffEditCount >= maxStaffServiceEdits {
				return fmt.Errorf("staff service-selection edit limit reached for booking %d: %w",
					bookingID, ErrEditLimitExceeded)
			}
			booking.StaffEditCount++
		}

		if patch.GuestDetails != nil {
			patch.GuestDetails.apply(&booking.GuestDetails)
		}
		if patch.ContactDetails != nil {
			patch.ContactDetails.apply(&booking.ContactDetails)
		}
		if patch.IdentityDetails != nil {
			patch.IdentityDetails.apply(&booking.IdentityDetails)
		}
		if patch.BookingInfo != nil {
			patch.BookingInfo.apply(&booking.BookingInfo)
		}
		if patch.PaymentDetails != nil {
			patch.PaymentDetails.apply(&booking.PaymentDetails)
		}
		if patch.VehicleDetails != nil {
			patch.VehicleDetails.apply(&booking.VehicleDetails)
		}

		if patch.RoomNumber != nil {
			booking.RoomNumber = *patch.RoomNumber
		}
		if patch.NumberOfRooms != nil {
			booking.NumberOfRooms = *patch.NumberOfRooms
		}
		if patch.VIP != nil {
			booking.VIP = *patch.VIP
		}
		if len(patch.ServiceSelection) > 0 {
			booking.ServiceSelection = patch.ServiceSelection
		}

		for _, entry := range patch.StatusHistory {
			booking.StatusHistory = appendStatusOnce(booking.StatusHistory, entry)
		}

		if err := tx.Save(&booking).Error; err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}
		updated = booking
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &updated, nil
}

func appendStatusOnce(history []models.StatusEntry, entry models.StatusEntry) []models.StatusEntry {
	for _, existing := range history {
		if existing.Status == entry.Status && existing.ChangedAt.Equal(entry.ChangedAt) {
			return history
		}
	}
	return append(history, entry)
}

// Extend appends an immutable entry capturing the pre-extension dates, then
// moves bookingInfo.checkOut and, when an additional amount was agreed,
// grows the payment total.
func (s *LifecycleService) Extend(bookingID uint, req ExtendRequest) (*models.Booking, error) {
	if req.ExtendedCheckOut.IsZero() {
		return nil, fmt.Errorf("extendedCheckOut is required: %w", ErrValidation)
	}

	var updated models.Booking
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		booking, err := s.loadForUpdate(tx, bookingID)
		if err != nil {
			return err
		}
		if !booking.IsActive {
			return fmt.Errorf("cannot extend inactive booking %d: %w", bookingID, ErrInvalidState)
		}

		newCheckOut := req.ExtendedCheckOut
		booking.ExtensionHistory = append(booking.ExtensionHistory, models.ExtensionEntry{
			OriginalCheckIn:  booking.BookingInfo.CheckIn,
			OriginalCheckOut: booking.BookingInfo.CheckOut,
			ExtendedCheckOut: newCheckOut,
			Reason:           req.Reason,
			AdditionalAmount: req.AdditionalAmount,
			PaymentMode:      req.PaymentMode,
			ApprovedBy:       req.ApprovedBy,
			ExtendedOn:       time.Now().UTC(),
		})
		booking.BookingInfo.CheckOut = &newCheckOut
		if req.AdditionalAmount != 0 {
			booking.PaymentDetails.TotalAmount += req.AdditionalAmount
		}

		if err := tx.Save(&booking).Error; err != nil {
			return fmt.Errorf("failed to save extension: %w", err)
		}
		updated = booking
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.Logger.WithFields(logrus.Fields{
		"booking":    bookingID,
		"extensions": len(updated.ExtensionHistory),
	}).Info("booking extended")
	return &updated, nil
}

// Deactivate is checkout/unbook: the booking flips inactive, its room goes
// back to available, and capacity returns to the category by virtue of the
// derived active count. The historical record stays behind for audit.
func (s *LifecycleService) Deactivate(bookingID uint) error {
	var booking models.Booking
	if err := s.DB.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
		}
		return fmt.Errorf("failed to load booking: %w", err)
	}

	mu := catLocks.lock(booking.CategoryID)
	defer mu.Unlock()

	return s.DB.Transaction(func(tx *gorm.DB) error {
		booking, err := s.loadForUpdate(tx, bookingID)
		if err != nil {
			return err
		}
		if !booking.IsActive {
			return fmt.Errorf("booking %d already inactive: %w", bookingID, ErrInvalidState)
		}

		booking.IsActive = false
		booking.StatusHistory = appendStatusOnce(booking.StatusHistory, models.StatusEntry{
			Status:    "unbooked",
			ChangedAt: time.Now().UTC(),
		})
		if err := tx.Save(&booking).Error; err != nil {
			return fmt.Errorf("failed to deactivate booking: %w", err)
		}

		if err := tx.Model(&models.Room{}).
			Where("category_id = ? AND room_number = ?", booking.CategoryID, booking.RoomNumber).
			Update("status", models.RoomAvailable).Error; err != nil {
			return fmt.Errorf("failed to release room %d: %w", booking.RoomNumber, err)
		}

		s.Logger.WithFields(logrus.Fields{
			"booking": bookingID,
			"room":    booking.RoomNumber,
		}).Info("booking deactivated, room released")
		return nil
	})
}

// Purge removes a booking permanently. This is an administrative escape
// hatch outside the normal lifecycle; the route is admin-gated. Freeing
// the room happens under the category lock, same as Deactivate, so a
// concurrent allocation's reuse pass cannot interleave.
func (s *LifecycleService) Purge(bookingID uint) error {
	var booking models.Booking
	if err := s.DB.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
		}
		return fmt.Errorf("failed to load booking: %w", err)
	}

	mu := catLocks.lock(booking.CategoryID)
	defer mu.Unlock()

	return s.DB.Transaction(func(tx *gorm.DB) error {
		booking, err := s.loadForUpdate(tx, bookingID)
		if err != nil {
			return err
		}

		if booking.IsActive {
			if err := tx.Model(&models.Room{}).
				Where("category_id = ? AND room_number = ?", booking.CategoryID, booking.RoomNumber).
				Update("status", models.RoomAvailable).Error; err != nil {
				return fmt.Errorf("failed to release room %d: %w", booking.RoomNumber, err)
			}
		}

		if err := tx.Unscoped().Delete(&models.Booking{}, bookingID).Error; err != nil {
			return fmt.Errorf("failed to purge booking: %w", err)
		}
		s.Logger.WithField("booking", bookingID).Warn("booking permanently purged")
		return nil
	})
}

// List returns bookings, active-only unless all is set.
func (s *LifecycleService) List(all bool) ([]models.Booking, error) {
	q := s.DB.Preload("Category").Order("created_at DESC")
	if !all {
		q = q.Where("is_active = ?", true)
	}
	var bookings []models.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (s *LifecycleService) Get(bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.Preload("Category").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	return &booking, nil
}

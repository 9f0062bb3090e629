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

// AllocationRequest asks for count rooms in one category. Detail sections
// are optional; whatever is present is stamped onto every booking created
// by the request.
type AllocationRequest struct {
	CategoryID uint
	Count      int

	GuestDetails    *models.GuestDetails
	ContactDetails  *models.ContactDetails
	IdentityDetails *models.IdentityDetails
	BookingInfo     *models.BookingInfo
	PaymentDetails  *models.PaymentDetails
	VehicleDetails  *models.VehicleDetails
	VIP             bool
}

// BatchItemError reports a failed item of a batch allocation. Items are
// isolated: one category failing never rolls back another's bookings, and
// a failing item leaves nothing half-applied for its own category.
type BatchItemError struct {
	Index      int   `json:"index"`
	CategoryID uint  `json:"categoryId"`
	Err        error `json:"-"`
}

// AllocatorService binds rooms to new booking records against per-category
// capacity. The capacity check and the writes behind it run under a
// per-category mutex plus a transaction holding the category row, so two
// concurrent requests cannot both pass the count before either inserts.
type AllocatorService struct {
	DB     *gorm.DB
	Logger *logrus.Logger
}

func NewAllocatorService(db *gorm.DB, logger *logrus.Logger) *AllocatorService {
	return &AllocatorService{DB: db, Logger: logger}
}

// Allocate books count rooms in the request's category and returns the
// created bookings, freed rooms first (ascending room number), then newly
// minted ones.
func (s *AllocatorService) Allocate(req AllocationRequest) ([]models.Booking, error) {
	if req.CategoryID == 0 {
		return nil, fmt.Errorf("categoryId is required: %w", ErrValidation)
	}
	count := req.Count
	if count <= 0 {
		count = 1
	}

	mu := catLocks.lock(req.CategoryID)
	defer mu.Unlock()

	var created []models.Booking
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&category, req.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("category %d: %w", req.CategoryID, ErrNotFound)
			}
			return fmt.Errorf("failed to load category: %w", err)
		}

		var active int64
		if err := tx.Model(&models.Booking{}).
			Where("category_id = ? AND is_active = ?", category.ID, true).
			Count(&active).Error; err != nil {
			return fmt.Errorf("failed to count active bookings: %w", err)
		}
		if int(active)+count > category.MaxRooms {
			return fmt.Errorf("category %q has %d of %d rooms occupied, cannot book %d more: %w",
				category.Name, active, category.MaxRooms, count, ErrCapacityExceeded)
		}

		rooms, err := s.selectRooms(tx, category, count)
		if err != nil {
			return err
		}

		for _, room := range rooms {
			booking, err := s.createBooking(tx, category, room, req)
			if err != nil {
				return err
			}
			created = append(created, booking)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.Logger.WithFields(logrus.Fields{
		"category": req.CategoryID,
		"count":    len(created),
	}).Info("rooms allocated")
	return created, nil
}

// AllocateBatch processes items sequentially, each under its own category
// critical section. Returned bookings cover the items that succeeded.
func (s *AllocatorService) AllocateBatch(reqs []AllocationRequest) ([]models.Booking, []BatchItemError) {
	var booked []models.Booking
	var failed []BatchItemError
	for i, req := range reqs {
		bookings, err := s.Allocate(req)
		if err != nil {
			s.Logger.WithFields(logrus.Fields{
				"index":    i,
				"category": req.CategoryID,
			}).WithError(err).Warn("batch allocation item failed")
			failed = append(failed, BatchItemError{Index: i, CategoryID: req.CategoryID, Err: err})
			continue
		}
		booked = append(booked, bookings...)
	}
	return booked, failed
}

// selectRooms runs the reuse pass (available rooms, lowest number first)
// and mints the remainder from max(room_number)+1, falling back to the
// category's base offset when the registry is empty. The rows are locked
// inside the caller's transaction so a concurrent deactivate cannot free or
// grab a number mid-flight.
func (s *AllocatorService) selectRooms(tx *gorm.DB, category models.Category, count int) ([]models.Room, error) {
	var rooms []models.Room
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("category_id = ? AND status = ?", category.ID, models.RoomAvailable).
		Order("room_number ASC").
		Limit(count).
		Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to load available rooms: %w", err)
	}

	for i := range rooms {
		if err := tx.Model(&models.Room{}).
			Where("id = ?", rooms[i].ID).
			Update("status", models.RoomBooked).Error; err != nil {
			return nil, fmt.Errorf("failed to reserve room %d: %w", rooms[i].RoomNumber, err)
		}
		rooms[i].Status = models.RoomBooked
	}

	if len(rooms) < count {
		next, err := s.nextRoomNumber(tx, category)
		if err != nil {
			return nil, err
		}
		for len(rooms) < count {
			room := models.Room{
				CategoryID: category.ID,
				RoomNumber: next,
				Status:     models.RoomBooked,
			}
			if err := tx.Create(&room).Error; err != nil {
				return nil, fmt.Errorf("failed to create room %d: %w", next, err)
			}
			rooms = append(rooms, room)
			next++
		}
	}
	return rooms, nil
}

// nextRoomNumber scans soft-deleted rooms too: a dead row still holds its
// number under the (category, room_number) unique index, so minting below
// the unscoped max would collide with it.
func (s *AllocatorService) nextRoomNumber(tx *gorm.DB, category models.Category) (int, error) {
	var maxNumber int
	if err := tx.Unscoped().Model(&models.Room{}).
		Where("category_id = ?", category.ID).
		Select("COALESCE(MAX(room_number), 0)").
		Scan(&maxNumber).Error; err != nil {
		return 0, fmt.Errorf("failed to read last room number: %w", err)
	}
	if maxNumber > 0 {
		return maxNumber + 1, nil
	}
	if category.BaseRoomNumber > 0 {
		return category.BaseRoomNumber, nil
	}
	return 1, nil
}

func (s *AllocatorService) createBooking(tx *gorm.DB, category models.Category, room models.Room, req AllocationRequest) (models.Booking, error) {
	now := time.Now().UTC()

	// Identifier collisions are checked inside the transaction, but the
	// unique indexes are the last word; regenerate and retry on duplicate.
	for attempt := 0; attempt < 3; attempt++ {
		ref, err := GenerateReferenceNumber(tx)
		if err != nil {
			return models.Booking{}, err
		}
		grc, err := GenerateGRCNo(tx)
		if err != nil {
			return models.Booking{}, err
		}

		booking := models.Booking{
			GRCNo:           grc,
			ReferenceNumber: ref,
			CategoryID:      category.ID,
			RoomNumber:      room.RoomNumber,
			NumberOfRooms:   1,
			IsActive:        true,
			VIP:             req.VIP,
			StatusHistory:   []models.StatusEntry{{Status: "booked", ChangedAt: now}},
		}
		if req.GuestDetails != nil {
			booking.GuestDetails = *req.GuestDetails
		}
		if req.ContactDetails != nil {
			booking.ContactDetails = *req.ContactDetails
		}
		if req.IdentityDetails != nil {
			booking.IdentityDetails = *req.IdentityDetails
		}
		if req.BookingInfo != nil {
			booking.BookingInfo = *req.BookingInfo
		}
		if req.PaymentDetails != nil {
			booking.PaymentDetails = *req.PaymentDetails
		}
		if req.VehicleDetails != nil {
			booking.VehicleDetails = *req.VehicleDetails
		}

		err = tx.Create(&booking).Error
		if err == nil {
			return booking, nil
		}
		if isDuplicateKeyErr(err) {
			s.Logger.WithField("attempt", attempt+1).Warn("booking identifier collision, regenerating")
			continue
		}
		return models.Booking{}, fmt.Errorf("failed to create booking: %w", err)
	}
	return models.Booking{}, fmt.Errorf("booking identifiers kept colliding: %w", ErrAlreadyExists)
}

package services

import (
	"errors"
	"fmt"
	"strings"

	"hotel-backoffice/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CategoryService owns the category ledger: tier names, capacity ceilings
// and base room numbers.
type CategoryService struct {
	DB     *gorm.DB
	Logger *logrus.Logger
}

func NewCategoryService(db *gorm.DB, logger *logrus.Logger) *CategoryService {
	return &CategoryService{DB: db, Logger: logger}
}

func (s *CategoryService) Create(category models.Category) (*models.Category, error) {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return nil, fmt.Errorf("category name is required: %w", ErrValidation)
	}
	if category.MaxRooms < 0 {
		return nil, fmt.Errorf("maxRooms cannot be negative: %w", ErrValidation)
	}
	if category.Status == "" {
		category.Status = "Active"
	}

	if err := s.DB.Create(&category).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return nil, fmt.Errorf("category %q: %w", category.Name, ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &category, nil
}

func (s *CategoryService) List() ([]models.Category, error) {
	var categories []models.Category
	if err := s.DB.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) Get(id uint) (*models.Category, error) {
	var category models.Category
	if err := s.DB.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	return &category, nil
}

// UpdateCapacity is the administrative capacity edit. The ceiling may not
// drop below the bookings already active against the category.
func (s *CategoryService) UpdateCapacity(id uint, maxRooms int) (*models.Category, error) {
	if maxRooms < 0 {
		return nil, fmt.Errorf("maxRooms cannot be negative: %w", ErrValidation)
	}

	mu := catLocks.lock(id)
	defer mu.Unlock()

	var category models.Category
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("category %d: %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to load category: %w", err)
		}

		var active int64
		if err := tx.Model(&models.Booking{}).
			Where("category_id = ? AND is_active = ?", id, true).
			Count(&active).Error; err != nil {
			return fmt.Errorf("failed to count active bookings: %w", err)
		}
		if int64(maxRooms) < active {
			return fmt.Errorf("category has %d active bookings, cannot cap at %d: %w",
				active, maxRooms, ErrValidation)
		}

		category.MaxRooms = maxRooms
		if err := tx.Save(&category).Error; err != nil {
			return fmt.Errorf("failed to update category: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &category, nil
}

func (s *CategoryService) Delete(id uint) error {
	var active int64
	if err := s.DB.Model(&models.Booking{}).
		Where("category_id = ? AND is_active = ?", id, true).
		Count(&active).Error; err != nil {
		return fmt.Errorf("failed to count active bookings: %w", err)
	}
	if active > 0 {
		return fmt.Errorf("category has %d active bookings: %w", active, ErrInvalidState)
	}
	result := s.DB.Delete(&models.Category{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	return nil
}

// RoomService is the catalogue of physical rooms. Rooms also appear lazily
// via the allocator; this service covers the administrative side.
type RoomService struct {
	DB     *gorm.DB
	Logger *logrus.Logger
}

func NewRoomService(db *gorm.DB, logger *logrus.Logger) *RoomService {
	return &RoomService{DB: db, Logger: logger}
}

func (s *RoomService) Create(room models.Room) (*models.Room, error) {
	if room.CategoryID == 0 {
		return nil, fmt.Errorf("categoryId is required: %w", ErrValidation)
	}

	var category models.Category
	if err := s.DB.First(&category, room.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %d: %w", room.CategoryID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}

	if room.Status == "" {
		room.Status = models.RoomAvailable
	}
	if room.RoomNumber == 0 {
		// Soft-deleted rooms keep their numbers under the unique index.
		var maxNumber int
		if err := s.DB.Unscoped().Model(&models.Room{}).
			Where("category_id = ?", room.CategoryID).
			Select("COALESCE(MAX(room_number), 0)").
			Scan(&maxNumber).Error; err != nil {
			return nil, fmt.Errorf("failed to read last room number: %w", err)
		}
		switch {
		case maxNumber > 0:
			room.RoomNumber = maxNumber + 1
		case category.BaseRoomNumber > 0:
			room.RoomNumber = category.BaseRoomNumber
		default:
			room.RoomNumber = 1
		}
	}

	if err := s.DB.Create(&room).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return nil, fmt.Errorf("room %d in category %d: %w", room.RoomNumber, room.CategoryID, ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	return &room, nil
}

func (s *RoomService) List(categoryID uint, status string) ([]models.Room, error) {
	q := s.DB.Preload("Category").Order("category_id ASC, room_number ASC")
	if categoryID != 0 {
		q = q.Where("category_id = ?", categoryID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var rooms []models.Room
	if err := q.Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

// SetStatus handles administrative status flips (maintenance, back to
// available). Booked is the allocator's to set; a room under an active
// booking cannot be moved by hand.
func (s *RoomService) SetStatus(id uint, status string) (*models.Room, error) {
	if status != models.RoomAvailable && status != models.RoomMaintenance {
		return nil, fmt.Errorf("status must be %q or %q: %w", models.RoomAvailable, models.RoomMaintenance, ErrValidation)
	}

	var room models.Room
	if err := s.DB.First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("room %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load room: %w", err)
	}
	if room.Status == models.RoomBooked {
		return nil, fmt.Errorf("room %d is under an active booking: %w", room.RoomNumber, ErrInvalidState)
	}

	if err := s.DB.Model(&room).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update room status: %w", err)
	}
	room.Status = status
	return &room, nil
}

func (s *RoomService) Update(id uint, price *float64, floor, description *string) (*models.Room, error) {
	var room models.Room
	if err := s.DB.First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("room %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load room: %w", err)
	}

	updates := map[string]interface{}{}
	if price != nil {
		updates["price"] = *price
	}
	if floor != nil {
		updates["floor"] = *floor
	}
	if description != nil {
		updates["description"] = *description
	}
	if len(updates) == 0 {
		return &room, nil
	}
	if err := s.DB.Model(&room).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}
	if err := s.DB.First(&room, id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload room: %w", err)
	}
	return &room, nil
}

func (s *RoomService) Delete(id uint) error {
	var room models.Room
	if err := s.DB.First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("room %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to load room: %w", err)
	}
	if room.Status == models.RoomBooked {
		return fmt.Errorf("room %d is under an active booking: %w", room.RoomNumber, ErrInvalidState)
	}
	if err := s.DB.Delete(&room).Error; err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return nil
}

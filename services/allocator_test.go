package services

import (
	"errors"
	"regexp"
	"sync"
	"testing"

	"hotel-backoffice/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateCreatesBookingWithIdentifiers(t *testing.T) {
	db := newTestDB(t)
	svc := NewAllocatorService(db, newTestLogger())
	category := createCategory(t, db, "deluxe", 2, 200)

	booking := mustAllocateOne(t, svc, AllocationRequest{
		CategoryID:   category.ID,
		GuestDetails: &models.GuestDetails{Name: "Asha Rao"},
	})

	assert.Regexp(t, regexp.MustCompile(`^GRC-\d{4}$`), booking.GRCNo)
	assert.Regexp(t, regexp.MustCompile(`^REF-\d{6}$`), booking.ReferenceNumber)
	assert.Equal(t, 200, booking.RoomNumber)
	assert.Equal(t, 1, booking.NumberOfRooms)
	assert.True(t, booking.IsActive)
	assert.Equal(t, "Asha Rao", booking.GuestDetails.Name)
	require.Len(t, booking.StatusHistory, 1)
	assert.Equal(t, "booked", booking.StatusHistory[0].Status)

	var room models.Room
	require.NoError(t, db.Where("category_id = ? AND room_number = ?", category.ID, 200).First(&room).Error)
	assert.Equal(t, models.RoomBooked, room.Status)
}

func TestAllocateMintsSequentialRoomNumbers(t *testing.T) {
	db := newTestDB(t)
	svc := NewAllocatorService(db, newTestLogger())
	category := createCategory(t, db, "standard", 5, 100)

	bookings, err := svc.Allocate(AllocationRequest{CategoryID: category.ID, Count: 3})
	require.NoError(t, err)
	require.Len(t, bookings, 3)

	assert.Equal(t, 100, bookings[0].RoomNumber)
	assert.Equal(t, 101, bookings[1].RoomNumber)
	assert.Equal(t, 102, bookings[2].RoomNumber)

	refs := map[string]bool{}
	for _, b := range bookings {
		refs[b.ReferenceNumber] = true
	}
	assert.Len(t, refs, 3, "each booking gets its own reference number")
}

func TestAllocateWithoutBaseStartsAtOne(t *testing.T) {
	db := newTestDB(t)
	svc := NewAllocatorService(db, newTestLogger())
	category := createCategory(t, db, "annex", 2, 0)

	booking := mustAllocateOne(t, svc, AllocationRequest{CategoryID: category.ID})
	assert.Equal(t, 1, booking.RoomNumber)
}

func TestAllocateCapacityExceeded(t *testing.T) {
	db := newTestDB(t)
	svc := NewAllocatorService(db, newTestLogger())
	category := createCategory(t, db, "suite", 2, 300)

	_, err := svc.Allocate(AllocationRequest{CategoryID: category.ID, Count: 2})
	require.NoError(t, err)

	_, err = svc.Allocate(AllocationRequest{CategoryID: category.ID})
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	var active int64
	require.NoError(t, db.Model(&models.Booking{}).
		Where("category_id = ? AND is_active = ?", category.ID, true).
		Count(&active).Error)
	assert.EqualValues(t, 2, active)
}

func TestAllocateRejectsPartialFit(t *testing.T) {
	db := newTestDB(t)
	svc := NewAllocatorService(db, newTestLogger())
	category := createCategory(t, db, "suite", 3, 300)

	_, err := svc.Allocate(AllocationRequest{CategoryID: category.ID, Count: 2})
	require.NoError(t, err)

	// Two requested, one slot left: nothing is booked.
	_, err = svc.Allocate(AllocationRequest{CategoryID: category.ID, Count: 2})
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	var active int64
	require.NoError(t, db.Model(&models.Booking{}).
		Where("category_id = ? AND is_active = ?", category.ID, true).
		Count(&active).Error)
	assert.EqualValues(t, 2, active)
}

func TestAllocateUnknownCategory(t *testing.T) {
	db := newTestDB(t)
	svc := NewAllocatorService(db, newTestLogger())

	_, err := svc.Allocate(AllocationRequest{CategoryID: 999})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Allocate(AllocationRequest{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAllocateReusesFreedRoomLowestFirst(t *testing.T) {
	db := newTestDB(t)
	logger := newTestLogger()
	allocator := NewAllocatorService(db, logger)
	lifecycle := NewLifecycleService(db, logger)
	category := createCategory(t, db, "deluxe", 3, 200)

	bookings, err := allocator.Allocate(AllocationRequest{CategoryID: category.ID, Count: 3})
	require.NoError(t, err)

	// Free rooms 200 and 202, keep 201 occupied.
	require.NoError(t, lifecycle.Deactivate(bookings[0].ID))
	require.NoError(t, lifecycle.Deactivate(bookings[2].ID))

	reused := mustAllocateOne(t, allocator, AllocationRequest{CategoryID: category.ID})
	assert.Equal(t, 200, reused.RoomNumber, "lowest freed room is reused first")
	assert.NotEqual(t, bookings[0].ID, reused.ID, "reuse mints a new booking record")
	assert.NotEqual(t, bookings[0].ReferenceNumber, reused.ReferenceNumber)

	var old models.Booking
	require.NoError(t, db.First(&old, bookings[0].ID).Error)
	assert.False(t, old.IsActive, "the deactivated booking stays historical")
}

func TestAllocateBatchIsolatesFailures(t *testing.T) {
	db := newTestDB(t)
	svc := NewAllocatorService(db, newTestLogger())
	open := createCategory(t, db, "standard", 5, 100)
	full := createCategory(t, db, "suite", 0, 300)

	booked, failed := svc.AllocateBatch([]AllocationRequest{
		{CategoryID: open.ID},
		{CategoryID: full.ID},
		{CategoryID: open.ID},
	})

	assert.Len(t, booked, 2)
	require.Len(t, failed, 1)
	assert.Equal(t, 1, failed[0].Index)
	assert.Equal(t, full.ID, failed[0].CategoryID)
	assert.True(t, errors.Is(failed[0].Err, ErrCapacityExceeded))
}

func TestAllocateMintsPastDeletedRoom(t *testing.T) {
	db := newTestDB(t)
	logger := newTestLogger()
	allocator := NewAllocatorService(db, logger)
	lifecycle := NewLifecycleService(db, logger)
	rooms := NewRoomService(db, logger)
	category := createCategory(t, db, "deluxe", 4, 200)

	bookings, err := allocator.Allocate(AllocationRequest{CategoryID: category.ID, Count: 2})
	require.NoError(t, err)
	require.NoError(t, lifecycle.Deactivate(bookings[0].ID))
	require.NoError(t, lifecycle.Deactivate(bookings[1].ID))

	// Retire the highest-numbered room; its number stays taken by the
	// soft-deleted row.
	var highest models.Room
	require.NoError(t, db.Where("category_id = ? AND room_number = ?", category.ID, 201).First(&highest).Error)
	require.NoError(t, rooms.Delete(highest.ID))

	booked, err := allocator.Allocate(AllocationRequest{CategoryID: category.ID, Count: 2})
	require.NoError(t, err)
	require.Len(t, booked, 2)
	assert.Equal(t, 200, booked[0].RoomNumber, "the surviving room is reused")
	assert.Equal(t, 202, booked[1].RoomNumber, "minting skips the retired number")
}

func TestAllocationLifecycleEndToEnd(t *testing.T) {
	db := newTestDB(t)
	logger := newTestLogger()
	allocator := NewAllocatorService(db, logger)
	lifecycle := NewLifecycleService(db, logger)
	category := createCategory(t, db, "deluxe", 2, 100)

	first := mustAllocateOne(t, allocator, AllocationRequest{CategoryID: category.ID})
	second := mustAllocateOne(t, allocator, AllocationRequest{CategoryID: category.ID})
	assert.Equal(t, 100, first.RoomNumber)
	assert.Equal(t, 101, second.RoomNumber)

	_, err := allocator.Allocate(AllocationRequest{CategoryID: category.ID})
	require.ErrorIs(t, err, ErrCapacityExceeded)

	require.NoError(t, lifecycle.Deactivate(first.ID))

	third := mustAllocateOne(t, allocator, AllocationRequest{CategoryID: category.ID})
	assert.Equal(t, 100, third.RoomNumber)
	assert.NotEqual(t, first.ReferenceNumber, third.ReferenceNumber)
	assert.NotEqual(t, first.ID, third.ID)
}

func TestConcurrentAllocationNeverExceedsCapacity(t *testing.T) {
	db := newTestDB(t)
	svc := NewAllocatorService(db, newTestLogger())
	category := createCategory(t, db, "standard", 5, 100)

	const attempts = 12
	results := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Allocate(AllocationRequest{CategoryID: category.ID})
			results[i] = err
		}(i)
	}
	wg.Wait()

	var succeeded, rejected int
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrCapacityExceeded):
			rejected++
		default:
			t.Fatalf("unexpected allocation error: %v", err)
		}
	}
	assert.Equal(t, 5, succeeded)
	assert.Equal(t, attempts-5, rejected)

	var bookings []models.Booking
	require.NoError(t, db.Where("category_id = ? AND is_active = ?", category.ID, true).Find(&bookings).Error)
	require.Len(t, bookings, 5)

	rooms := map[int]bool{}
	for _, b := range bookings {
		assert.False(t, rooms[b.RoomNumber], "room %d allocated twice", b.RoomNumber)
		rooms[b.RoomNumber] = true
	}
}

package services

import (
	"fmt"
	"io"
	"testing"
	"time"

	"hotel-backoffice/config"
	"hotel-backoffice/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database per test. One connection
// keeps sqlite access serialized under the concurrent tests.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func createCategory(t *testing.T, db *gorm.DB, name string, maxRooms, baseRoomNumber int) models.Category {
	t.Helper()
	category := models.Category{
		Name:           name,
		MaxRooms:       maxRooms,
		BaseRoomNumber: baseRoomNumber,
		Status:         "Active",
	}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func mustAllocateOne(t *testing.T, svc *AllocatorService, req AllocationRequest) models.Booking {
	t.Helper()
	bookings, err := svc.Allocate(req)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	return bookings[0]
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hotel-backoffice/config"
	"hotel-backoffice/models"
	"hotel-backoffice/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newBookingRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ctrl := NewBookingController(
		services.NewAllocatorService(db, logger),
		services.NewLifecycleService(db, logger),
		logger,
	)

	r := gin.New()
	r.POST("/bookings/book", ctrl.Book)
	r.GET("/bookings/all", ctrl.GetAll)
	r.GET("/bookings/:id", ctrl.GetByID)
	r.POST("/bookings/extend/:id", ctrl.Extend)
	r.DELETE("/bookings/unbook/:id", ctrl.Unbook)
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	return w, parsed
}

func TestBookSingleHappyPath(t *testing.T) {
	r, db := newBookingRouter(t)
	category := models.Category{Name: "deluxe", MaxRooms: 2, BaseRoomNumber: 200, Status: "Active"}
	require.NoError(t, db.Create(&category).Error)

	w, parsed := doJSON(t, r, http.MethodPost, "/bookings/book",
		fmt.Sprintf(`{"categoryId": %d, "guestDetails": {"name": "Asha"}}`, category.ID))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, parsed["success"])
	booked := parsed["booked"].([]interface{})
	require.Len(t, booked, 1)
	first := booked[0].(map[string]interface{})
	assert.EqualValues(t, 200, first["roomNumber"])
	assert.Contains(t, first["grcNo"], "GRC-")
}

func TestBookCapacityConflictMapsTo409(t *testing.T) {
	r, db := newBookingRouter(t)
	category := models.Category{Name: "suite", MaxRooms: 1, BaseRoomNumber: 300, Status: "Active"}
	require.NoError(t, db.Create(&category).Error)

	body := fmt.Sprintf(`{"categoryId": %d}`, category.ID)
	w, _ := doJSON(t, r, http.MethodPost, "/bookings/book", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w, parsed := doJSON(t, r, http.MethodPost, "/bookings/book", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, false, parsed["success"])
	errObj := parsed["error"].(map[string]interface{})
	assert.Equal(t, "error.capacityExceeded", errObj["code"])
}

func TestBookBatchPartialSuccess(t *testing.T) {
	r, db := newBookingRouter(t)
	open := models.Category{Name: "standard", MaxRooms: 5, BaseRoomNumber: 100, Status: "Active"}
	full := models.Category{Name: "suite", MaxRooms: 0, BaseRoomNumber: 300, Status: "Active"}
	require.NoError(t, db.Create(&open).Error)
	require.NoError(t, db.Create(&full).Error)

	body := fmt.Sprintf(`{"bookings": [{"categoryId": %d}, {"categoryId": %d}]}`, open.ID, full.ID)
	w, parsed := doJSON(t, r, http.MethodPost, "/bookings/book", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, parsed["booked"].([]interface{}), 1)
	failed := parsed["failed"].([]interface{})
	require.Len(t, failed, 1)
	failure := failed[0].(map[string]interface{})
	assert.EqualValues(t, 1, failure["index"])
	assert.EqualValues(t, full.ID, failure["categoryId"])
}

func TestBookBatchAllFailedIs400(t *testing.T) {
	r, db := newBookingRouter(t)
	full := models.Category{Name: "suite", MaxRooms: 0, BaseRoomNumber: 300, Status: "Active"}
	require.NoError(t, db.Create(&full).Error)

	body := fmt.Sprintf(`{"bookings": [{"categoryId": %d}]}`, full.ID)
	w, parsed := doJSON(t, r, http.MethodPost, "/bookings/book", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, parsed["success"])
	assert.Len(t, parsed["failed"].([]interface{}), 1)
}

func TestBookingRoutesValidateInput(t *testing.T) {
	r, _ := newBookingRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/bookings/book", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, parsed := doJSON(t, r, http.MethodGet, "/bookings/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	errObj := parsed["error"].(map[string]interface{})
	assert.Equal(t, "error.notFound", errObj["code"])

	w, _ = doJSON(t, r, http.MethodGet, "/bookings/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/bookings/extend/1", `{"extendedCheckOut": "not-a-date"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnbookEndToEnd(t *testing.T) {
	r, db := newBookingRouter(t)
	category := models.Category{Name: "deluxe", MaxRooms: 2, BaseRoomNumber: 200, Status: "Active"}
	require.NoError(t, db.Create(&category).Error)

	_, parsed := doJSON(t, r, http.MethodPost, "/bookings/book",
		fmt.Sprintf(`{"categoryId": %d}`, category.ID))
	booked := parsed["booked"].([]interface{})[0].(map[string]interface{})
	id := int(booked["id"].(float64))

	w, _ := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/bookings/unbook/%d", id), "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, parsed = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/bookings/unbook/%d", id), "")
	assert.Equal(t, http.StatusConflict, w.Code)
	errObj := parsed["error"].(map[string]interface{})
	assert.Equal(t, "error.invalidState", errObj["code"])

	w, parsed = doJSON(t, r, http.MethodGet, "/bookings/all", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, parsed["data"].([]interface{}))
}

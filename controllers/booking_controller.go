package controllers

import (
	"net/http"
	"strconv"
	"time"

	"hotel-backoffice/middleware"
	"hotel-backoffice/models"
	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type bookingItemPayload struct {
	CategoryID uint `json:"categoryId"`
	Count      int  `json:"count"`

	GuestDetails    *models.GuestDetails    `json:"guestDetails"`
	ContactDetails  *models.ContactDetails  `json:"contactDetails"`
	IdentityDetails *models.IdentityDetails `json:"identityDetails"`
	BookingInfo     *models.BookingInfo     `json:"bookingInfo"`
	PaymentDetails  *models.PaymentDetails  `json:"paymentDetails"`
	VehicleDetails  *models.VehicleDetails  `json:"vehicleDetails"`
	VIP             bool                    `json:"vip"`
}

func (p bookingItemPayload) toRequest() services.AllocationRequest {
	return services.AllocationRequest{
		CategoryID:      p.CategoryID,
		Count:           p.Count,
		GuestDetails:    p.GuestDetails,
		ContactDetails:  p.ContactDetails,
		IdentityDetails: p.IdentityDetails,
		BookingInfo:     p.BookingInfo,
		PaymentDetails:  p.PaymentDetails,
		VehicleDetails:  p.VehicleDetails,
		VIP:             p.VIP,
	}
}

// bookPayload is either a single allocation or a batch under "bookings".
type bookPayload struct {
	bookingItemPayload
	Bookings []bookingItemPayload `json:"bookings"`
}

type extendPayload struct {
	ExtendedCheckOut string  `json:"extendedCheckOut" binding:"required"`
	Reason           string  `json:"reason"`
	AdditionalAmount float64 `json:"additionalAmount"`
	PaymentMode      string  `json:"paymentMode"`
	ApprovedBy       string  `json:"approvedBy"`
}

// ---------------------------
// Controller
// ---------------------------

type BookingController struct {
	Allocator *services.AllocatorService
	Lifecycle *services.LifecycleService
	Logger    *logrus.Logger
}

func NewBookingController(allocator *services.AllocatorService, lifecycle *services.LifecycleService, logger *logrus.Logger) *BookingController {
	return &BookingController{Allocator: allocator, Lifecycle: lifecycle, Logger: logger}
}

func parseBookingID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidBookingId", "booking id must be numeric")
		return 0, false
	}
	return uint(id), true
}

// parseDate accepts both plain dates and RFC3339 timestamps.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// Book handles POST /bookings/book for a single category or a batch.
func (ctrl *BookingController) Book(c *gin.Context) {
	var payload bookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "invalid request body: "+err.Error())
		return
	}

	if len(payload.Bookings) > 0 {
		reqs := make([]services.AllocationRequest, 0, len(payload.Bookings))
		for _, item := range payload.Bookings {
			reqs = append(reqs, item.toRequest())
		}
		booked, failed := ctrl.Allocator.AllocateBatch(reqs)

		failures := make([]gin.H, 0, len(failed))
		for _, f := range failed {
			failures = append(failures, gin.H{
				"index":      f.Index,
				"categoryId": f.CategoryID,
				"message":    f.Err.Error(),
			})
		}
		if len(booked) == 0 && len(failures) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "booked": []models.Booking{}, "failed": failures})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "booked": booked, "failed": failures})
		return
	}

	if payload.CategoryID == 0 {
		utils.JSONError(c, http.StatusBadRequest, "error.validation", "categoryId is required")
		return
	}

	booked, err := ctrl.Allocator.Allocate(payload.toRequest())
	if err != nil {
		respondServiceError(c, ctrl.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "booked": booked})
}

// GetAll handles GET /bookings/all?all=true|false (default: active only).
func (ctrl *BookingController) GetAll(c *gin.Context) {
	all := c.Query("all") == "true"
	bookings, err := ctrl.Lifecycle.List(all)
	if err != nil {
		respondServiceError(c, ctrl.Logger, err)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}

func (ctrl *BookingController) GetByID(c *gin.Context) {
	id, ok := parseBookingID(c)
	if !ok {
		return
	}
	booking, err := ctrl.Lifecycle.Get(id)
	if err != nil {
		respondServiceError(c, ctrl.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// Update handles PUT /bookings/update/:id with a partial nested-merge
// patch.
func (ctrl *BookingController) Update(c *gin.Context) {
	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	var patch services.BookingPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "invalid request body: "+err.Error())
		return
	}

	booking, err := ctrl.Lifecycle.Update(id, patch, middleware.ActorFrom(c))
	if err != nil {
		respondServiceError(c, ctrl.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// Extend handles POST /bookings/extend/:id.
func (ctrl *BookingController) Extend(c *gin.Context) {
	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	var payload extendPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "extendedCheckOut is required")
		return
	}
	extendedCheckOut, err := parseDate(payload.ExtendedCheckOut)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "invalid extendedCheckOut date")
		return
	}

	booking, err := ctrl.Lifecycle.Extend(id, services.ExtendRequest{
		ExtendedCheckOut: extendedCheckOut,
		Reason:           payload.Reason,
		AdditionalAmount: payload.AdditionalAmount,
		PaymentMode:      payload.PaymentMode,
		ApprovedBy:       payload.ApprovedBy,
	})
	if err != nil {
		respondServiceError(c, ctrl.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// Unbook handles DELETE /bookings/unbook/:id (soft deactivation).
func (ctrl *BookingController) Unbook(c *gin.Context) {
	id, ok := parseBookingID(c)
	if !ok {
		return
	}
	if err := ctrl.Lifecycle.Deactivate(id); err != nil {
		respondServiceError(c, ctrl.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "booking unbooked (marked inactive)"})
}

// Delete handles DELETE /bookings/delete/:id (admin-only permanent purge;
// the route is gated by RequireAdmin).
func (ctrl *BookingController) Delete(c *gin.Context) {
	id, ok := parseBookingID(c)
	if !ok {
		return
	}
	if err := ctrl.Lifecycle.Purge(id); err != nil {
		respondServiceError(c, ctrl.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "booking permanently deleted"})
}

package controllers

import (
	"net/http"
	"strconv"

	"hotel-backoffice/middleware"
	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type paymentPayload struct {
	PaidAmount float64 `json:"paidAmount" binding:"required"`
	Mode       string  `json:"mode"`
}

type CheckoutController struct {
	Checkout *services.CheckoutService
	Logger   *logrus.Logger
}

func NewCheckoutController(checkout *services.CheckoutService, logger *logrus.Logger) *CheckoutController {
	return &CheckoutController{Checkout: checkout, Logger: logger}
}

func parseCheckoutBookingID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("bookingId"), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidBookingId", "booking id must be numeric")
		return 0, false
	}
	return uint(id), true
}

// Create handles POST /checkout/:bookingId and runs the aggregation once.
func (ctrl *CheckoutController) Create(c *gin.Context) {
	bookingID, ok := parseCheckoutBookingID(c)
	if !ok {
		return
	}
	record, err := ctrl.Checkout.Checkout(bookingID)
	if err != nil {
		respondServiceError(c, ctrl.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, record)
}

// Get handles GET /checkout/:bookingId.
func (ctrl *CheckoutController) Get(c *gin.Context) {
	bookingID, ok := parseCheckoutBookingID(c)
	if !ok {
		return
	}
	record, err := ctrl.Checkout.Get(bookingID)
	if err != nil {
		respondServiceError(c, ctrl.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, record)
}

// RecordPayment handles POST /checkout/:bookingId/payment.
func (ctrl *CheckoutController) RecordPayment(c *gin.Context) {
	bookingID, ok := parseCheckoutBookingID(c)
	if !ok {
		return
	}

	var payload paymentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "paidAmount is required")
		return
	}

	record, err := ctrl.Checkout.Get(bookingID)
	if err != nil {
		respondServiceError(c, ctrl.Logger, err)
		return
	}

	actor := middleware.ActorFrom(c)
	updated, err := ctrl.Checkout.RecordPayment(record.ID, payload.PaidAmount, payload.Mode, actor.Username)
	if err != nil {
		respondServiceError(c, ctrl.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, updated)
}

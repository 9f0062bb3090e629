package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"hotel-backoffice/models"

	"gorm.io/gorm"
)

// GRC numbers are GRC-#### and reference numbers are REF-######, both drawn
// by rejection sampling against existing records until a free value turns
// up. The spaces are small, so collisions after many retries mean the pool
// is effectively exhausted and the caller gets ErrAlreadyExists.

const idMaxAttempts = 25

func randomInRange(min, max int64) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(max-min))
	if err != nil {
		return 0, err
	}
	return min + n.Int64(), nil
}

// GenerateGRCNo returns a unique guest-registration-card number.
func GenerateGRCNo(db *gorm.DB) (string, error) {
	for attempt := 0; attempt < idMaxAttempts; attempt++ {
		n, err := randomInRange(1000, 10000)
		if err != nil {
			return "", fmt.Errorf("failed to draw grc number: %w", err)
		}
		grc := fmt.Sprintf("GRC-%04d", n)

		var count int64
		if err := db.Model(&models.Booking{}).Where("grc_no = ?", grc).Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check grc number: %w", err)
		}
		if count == 0 {
			return grc, nil
		}
	}
	return "", fmt.Errorf("grc number space exhausted: %w", ErrAlreadyExists)
}

// GenerateReferenceNumber returns a unique per-allocation reference.
func GenerateReferenceNumber(db *gorm.DB) (string, error) {
	for attempt := 0; attempt < idMaxAttempts; attempt++ {
		n, err := randomInRange(100000, 1000000)
		if err != nil {
			return "", fmt.Errorf("failed to draw reference number: %w", err)
		}
		ref := fmt.Sprintf("REF-%06d", n)

		var count int64
		if err := db.Model(&models.Booking{}).Where("reference_number = ?", ref).Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check reference number: %w", err)
		}
		if count == 0 {
			return ref, nil
		}
	}
	return "", fmt.Errorf("reference number space exhausted: %w", ErrAlreadyExists)
}

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	lc := strings.ToLower(err.Error())
	return strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique") || strings.Contains(lc, "constraint")
}

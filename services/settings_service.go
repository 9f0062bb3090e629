package services

import (
	"errors"
	"fmt"

	"hotel-backoffice/models"

	"gorm.io/gorm"
)

// SettingsService keeps the single hotel profile row, created lazily on
// first read.
type SettingsService struct {
	DB *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db}
}

func (s *SettingsService) Get() (*models.HotelSetting, error) {
	var setting models.HotelSetting
	if err := s.DB.First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			setting = models.HotelSetting{Name: "My Hotel"}
			if err := s.DB.Create(&setting).Error; err != nil {
				return nil, fmt.Errorf("failed to create hotel settings: %w", err)
			}
			return &setting, nil
		}
		return nil, fmt.Errorf("failed to load hotel settings: %w", err)
	}
	return &setting, nil
}

// SettingsPatch updates only the fields present in the request.
type SettingsPatch struct {
	Name               *string  `json:"name"`
	Address            *string  `json:"address"`
	Phone              *string  `json:"phone"`
	Email              *string  `json:"email"`
	Website            *string  `json:"website"`
	DefaultNightlyRate *float64 `json:"defaultNightlyRate"`
}

func (s *SettingsService) Update(patch SettingsPatch) (*models.HotelSetting, error) {
	if patch.DefaultNightlyRate != nil && *patch.DefaultNightlyRate < 0 {
		return nil, fmt.Errorf("defaultNightlyRate cannot be negative: %w", ErrValidation)
	}

	setting, err := s.Get()
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		setting.Name = *patch.Name
	}
	if patch.Address != nil {
		setting.Address = *patch.Address
	}
	if patch.Phone != nil {
		setting.Phone = *patch.Phone
	}
	if patch.Email != nil {
		setting.Email = *patch.Email
	}
	if patch.Website != nil {
		setting.Website = *patch.Website
	}
	if patch.DefaultNightlyRate != nil {
		setting.DefaultNightlyRate = *patch.DefaultNightlyRate
	}

	if err := s.DB.Save(setting).Error; err != nil {
		return nil, fmt.Errorf("failed to update hotel settings: %w", err)
	}
	return setting, nil
}

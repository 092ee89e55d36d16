package models

import (
	"fmt"
	"time"

	"github.com/momentumx/momentumx/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingUserID:
			settings.UserID = value
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingLicenseTier:
			settings.LicenseTier = value
		case constants.SettingLicenseProduct:
			settings.LicenseProduct = value
		case constants.SettingLicenseCheckedAt:
			if value == "" {
				continue
			}
			t, err := time.Parse(time.RFC3339, value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing license_checked_at: %w", err)
			}
			settings.LicenseCheckedAt = t
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	checkedAt := ""
	if !settings.LicenseCheckedAt.IsZero() {
		checkedAt = settings.LicenseCheckedAt.UTC().Format(time.RFC3339)
	}
	return map[string]string{
		constants.SettingUserID:           settings.UserID,
		constants.SettingTimezone:         settings.Timezone,
		constants.SettingLicenseTier:      settings.LicenseTier,
		constants.SettingLicenseCheckedAt: checkedAt,
		constants.SettingLicenseProduct:   settings.LicenseProduct,
	}
}

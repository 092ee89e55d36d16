package models

import (
	"time"

	"github.com/momentumx/momentumx/internal/constants"
	"github.com/momentumx/momentumx/internal/entitlement"
)

// Settings represents application-wide settings
type Settings struct {
	UserID           string    `json:"user_id"`            // owner reference for every record
	Timezone         string    `json:"timezone"`           // IANA timezone name or "Local"
	LicenseTier      string    `json:"license_tier"`       // last resolved tier
	LicenseCheckedAt time.Time `json:"license_checked_at"` // when the tier was resolved
	LicenseProduct   string    `json:"license_product"`    // product name from the license payload
}

// TierCache returns the cached tier resolution held in settings.
func (s Settings) TierCache() entitlement.Cache {
	return entitlement.Cache{
		Tier:      entitlement.Resolve(s.LicenseTier),
		FetchedAt: s.LicenseCheckedAt,
	}
}

// SetTierCache replaces the cached tier resolution.
func (s *Settings) SetTierCache(c entitlement.Cache, product string) {
	s.LicenseTier = c.Tier.String()
	s.LicenseCheckedAt = c.FetchedAt
	s.LicenseProduct = product
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.LicenseTier == "" {
		settings.LicenseTier = constants.DefaultTier
	}
}

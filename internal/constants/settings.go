package constants

const (
	// Setting keys
	SettingUserID           = "user_id"
	SettingTimezone         = "timezone"
	SettingLicenseTier      = "license_tier"
	SettingLicenseCheckedAt = "license_checked_at"
	SettingLicenseProduct   = "license_product"

	// Default Settings Values
	DefaultTimezone = "Local" // Use system local timezone by default
	DefaultTier     = "starter"
)

package constants

import "time"

const (
	AppName            = "momentumx"
	DefaultKeyringUser = "database-connection"
	LicenseKeyringUser = "license-key"
	DefaultConfigDir   = "~/.config/momentumx"
	DefaultConfigPath  = "~/.config/momentumx/momentumx.db"
	ConfigFileName     = "config.toml"
	EnvDBConnection    = "MOMENTUMX_DB_CONNECTION"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// License defaults
	DefaultLicenseEndpoint    = "https://api.gumroad.com/v2/licenses/verify"
	DefaultLicenseCacheTTL    = 24 * time.Hour
	DefaultLicenseAttempts    = 5
	DefaultLicenseWindow      = time.Minute
	DefaultLicenseHTTPTimeout = 10 * time.Second
	// DefaultLicenseGrace is how long past the cache TTL a paid tier survives
	// failed re-validation before falling back to starter.
	DefaultLicenseGrace = 7 * 24 * time.Hour

	// Field length limits applied when sanitizing user input
	MaxTitleLength       = 100
	MaxDescriptionLength = 1000
	MaxJournalLength     = 10000
	MaxReviewFieldLength = 2000
	MaxTags              = 10
	MaxTagLength         = 30
)

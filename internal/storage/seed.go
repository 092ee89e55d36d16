package storage

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/momentumx/momentumx/internal/logger"
	"github.com/momentumx/momentumx/internal/models"
)

// SeedSettings writes default settings and a fresh owner id when they are
// missing. Existing values are kept.
func SeedSettings(p Provider) error {
	settings, err := p.GetSettings()
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	if settings.UserID != "" && settings.Timezone != "" && settings.LicenseTier != "" {
		return nil
	}

	if settings.UserID == "" {
		settings.UserID = uuid.New().String()
	}
	models.ApplyDefaultSettings(&settings)
	if err := p.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save default settings: %w", err)
	}
	logger.Info("Seeded default settings", "user_id", settings.UserID)
	return nil
}

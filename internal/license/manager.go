package license

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/momentumx/momentumx/internal/constants"
	"github.com/momentumx/momentumx/internal/entitlement"
	"github.com/momentumx/momentumx/internal/keyring"
	"github.com/momentumx/momentumx/internal/logger"
	"github.com/momentumx/momentumx/internal/models"
)

// Verifier checks a license key.
type Verifier interface {
	Verify(ctx context.Context, key string) (Result, error)
}

// SettingsStore persists the cached tier.
type SettingsStore interface {
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error
}

// KeyStore persists the license key.
type KeyStore interface {
	Get() (string, error)
	Set(key string) error
	Delete() error
}

// OSKeyStore keeps the license key in the OS keyring.
type OSKeyStore struct{}

func (OSKeyStore) Get() (string, error) { return keyring.GetLicenseKey() }
func (OSKeyStore) Set(key string) error { return keyring.SetLicenseKey(key) }
func (OSKeyStore) Delete() error        { return keyring.DeleteLicenseKey() }

// Status describes the tier currently in effect.
type Status struct {
	Tier        entitlement.Tier
	Product     string
	CheckedAt   time.Time
	HasKey      bool
	Stale       bool // re-validation failed and the cached tier was kept
	Revalidated bool
	// GraceExpired is set when re-validation kept failing past the grace
	// period and the tier fell back to starter.
	GraceExpired bool
}

// Manager resolves the effective tier from the cached settings, re-validating
// the stored key once the cache is older than TTL. When re-validation cannot
// complete, the cached tier is kept until TTL plus the grace period has passed.
type Manager struct {
	verifier Verifier
	settings SettingsStore
	keys     KeyStore
	ttl      time.Duration
	grace    time.Duration
	now      func() time.Time
}

func NewManager(verifier Verifier, settings SettingsStore, keys KeyStore, ttl time.Duration, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{verifier: verifier, settings: settings, keys: keys, ttl: ttl, grace: constants.DefaultLicenseGrace, now: now}
}

// WithGracePeriod sets how long past the TTL an unverifiable tier is kept.
func (m *Manager) WithGracePeriod(d time.Duration) *Manager {
	if d > 0 {
		m.grace = d
	}
	return m
}

// Activate verifies key, stores it and caches the tier it grants.
func (m *Manager) Activate(ctx context.Context, key string) (Status, error) {
	res, err := m.verifier.Verify(ctx, key)
	if err != nil {
		return Status{}, err
	}
	if err := m.keys.Set(key); err != nil {
		return Status{}, err
	}
	return m.store(res.Tier, res.ProductName, true)
}

// Current returns the tier in effect, re-validating when the cache expired.
func (m *Manager) Current(ctx context.Context) (Status, error) {
	settings, err := m.settings.GetSettings()
	if err != nil {
		return Status{}, fmt.Errorf("failed to load settings: %w", err)
	}
	cache := settings.TierCache()
	status := Status{
		Tier:      cache.Tier,
		Product:   settings.LicenseProduct,
		CheckedAt: cache.FetchedAt,
	}

	if !cache.Expired(m.now(), m.ttl) {
		status.HasKey = m.hasKey()
		return status, nil
	}
	return m.revalidate(ctx, status)
}

// Refresh re-validates the stored key regardless of cache age.
func (m *Manager) Refresh(ctx context.Context) (Status, error) {
	settings, err := m.settings.GetSettings()
	if err != nil {
		return Status{}, fmt.Errorf("failed to load settings: %w", err)
	}
	cache := settings.TierCache()
	return m.revalidate(ctx, Status{Tier: cache.Tier, Product: settings.LicenseProduct, CheckedAt: cache.FetchedAt})
}

func (m *Manager) revalidate(ctx context.Context, cached Status) (Status, error) {
	key, err := m.keys.Get()
	if errors.Is(err, keyring.ErrNotFound) {
		return m.lower(cached, entitlement.Starter, "", false)
	}
	if err != nil {
		return m.keepCached(cached, false, "License key unavailable", err)
	}

	res, err := m.verifier.Verify(ctx, key)
	switch {
	case err == nil:
		st, serr := m.lower(cached, res.Tier, res.ProductName, true)
		st.Revalidated = true
		return st, serr
	case errors.Is(err, ErrInvalidLicense):
		logger.Warn("Stored license key is no longer valid, falling back to starter", "error", err)
		st, serr := m.store(entitlement.Starter, "", true)
		st.Revalidated = true
		return st, serr
	default:
		return m.keepCached(cached, true, "License re-validation failed", err)
	}
}

// keepCached serves the cached tier while re-validation cannot complete. Past
// TTL plus the grace period the tier falls back to starter.
func (m *Manager) keepCached(cached Status, hasKey bool, reason string, cause error) (Status, error) {
	if cached.Tier.AtLeast(entitlement.Coach) && m.now().Sub(cached.CheckedAt) > m.ttl+m.grace {
		logger.Warn(reason+", grace period over, falling back to starter", "tier", cached.Tier, "checked_at", cached.CheckedAt, "error", cause)
		st, err := m.store(entitlement.Starter, "", hasKey)
		st.Stale = true
		st.GraceExpired = true
		return st, err
	}
	logger.Warn(reason+", keeping cached tier", "tier", cached.Tier, "error", cause)
	cached.HasKey = hasKey
	cached.Stale = true
	return cached, nil
}

// lower stores tier and logs when it replaces a higher cached tier.
func (m *Manager) lower(cached Status, tier entitlement.Tier, product string, hasKey bool) (Status, error) {
	if !tier.AtLeast(cached.Tier) {
		logger.Info("License tier lowered", "from", cached.Tier, "to", tier)
	}
	return m.store(tier, product, hasKey)
}

// Forget removes the stored key and resets the cache to starter.
func (m *Manager) Forget() error {
	if err := m.keys.Delete(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	_, err := m.store(entitlement.Starter, "", false)
	return err
}

func (m *Manager) store(tier entitlement.Tier, product string, hasKey bool) (Status, error) {
	settings, err := m.settings.GetSettings()
	if err != nil {
		return Status{}, fmt.Errorf("failed to load settings: %w", err)
	}
	cache := entitlement.NewCache(tier, m.now())
	settings.SetTierCache(cache, product)
	if err := m.settings.SaveSettings(settings); err != nil {
		return Status{}, fmt.Errorf("failed to save license tier: %w", err)
	}
	return Status{Tier: tier, Product: product, CheckedAt: cache.FetchedAt, HasKey: hasKey}, nil
}

func (m *Manager) hasKey() bool {
	_, err := m.keys.Get()
	return err == nil
}

// Package tracker applies user actions to stored habits, tasks, journal
// entries and weekly reviews. It sanitizes input, enforces tier limits and
// keeps each habit's streak cache in step with its completion dates.
package tracker

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/momentumx/momentumx/internal/constants"
	"github.com/momentumx/momentumx/internal/entitlement"
	apperrors "github.com/momentumx/momentumx/internal/errors"
	"github.com/momentumx/momentumx/internal/logger"
	"github.com/momentumx/momentumx/internal/sanitize"
	"github.com/momentumx/momentumx/internal/storage"
)

var (
	// ErrLimitReached is returned when creating a record would exceed the tier's limit.
	ErrLimitReached = errors.New("tier limit reached")
	// ErrInvalidInput is returned when input is empty after sanitizing.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicate is returned when a live habit already has the sanitized title.
	ErrDuplicate = errors.New("duplicate title")
)

// Service is the tracker. It is not safe for concurrent use.
type Service struct {
	store storage.Provider
	tier  entitlement.Tier
	now   func() time.Time
	loc   *time.Location
	owner string
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the timezone that decides which calendar day "today" is.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func New(store storage.Provider, tier entitlement.Tier, opts ...Option) *Service {
	s := &Service{
		store: store,
		tier:  tier,
		now:   time.Now,
		loc:   time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tier returns the tier limits are enforced against.
func (s *Service) Tier() entitlement.Tier {
	return s.tier
}

// SetTier replaces the tier after a license change.
func (s *Service) SetTier(tier entitlement.Tier) {
	s.tier = tier
}

// Store returns the underlying storage provider.
func (s *Service) Store() storage.Provider {
	return s.store
}

// Now returns the current time in the service's timezone.
func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

// Today returns the current calendar day as YYYY-MM-DD.
func (s *Service) Today() string {
	return s.Now().Format(constants.DateFormat)
}

func (s *Service) userID() (string, error) {
	if s.owner != "" {
		return s.owner, nil
	}
	settings, err := s.store.GetSettings()
	if err != nil {
		return "", fmt.Errorf("failed to load settings: %w", err)
	}
	if settings.UserID == "" {
		return "", fmt.Errorf("settings have no user id, run 'momentumx init'")
	}
	s.owner = settings.UserID
	return s.owner, nil
}

// checkLimit fails with ErrLimitReached when one more r would exceed the tier limit.
func (s *Service) checkLimit(r entitlement.Resource, count func(string) (int, error), userID string) error {
	limits := entitlement.TierLimits(s.tier)
	if entitlement.IsUnlimited(limits.Limit(r)) {
		return nil
	}
	n, err := count(userID)
	if err != nil {
		return fmt.Errorf("failed to count %s: %w", r, err)
	}
	if !limits.Allows(r, n) {
		err := fmt.Errorf("%w: the %s tier allows %d %s", ErrLimitReached, s.tier, limits.Limit(r), r)
		return apperrors.WithHint(err, "upgrade with 'momentumx license activate <key>'")
	}
	return nil
}

// warnSuspicious logs advisory warnings for raw user input. It never blocks.
func warnSuspicious(kind, field, value string) {
	if warnings := sanitize.Suspicious(value); len(warnings) > 0 {
		logger.Warn("Suspicious content in input", "record", kind, "field", field, "warnings", warnings)
	}
}

// parseDay resolves "" to today and validates anything else.
func (s *Service) parseDay(day string) (string, error) {
	if day == "" {
		return s.Today(), nil
	}
	normalized := sanitize.Date(day)
	if normalized == "" {
		return "", fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrInvalidInput, day)
	}
	return normalized, nil
}

func newID() string {
	return uuid.New().String()
}

// Usage maps each limited resource to the number of records counted against it.
type Usage map[entitlement.Resource]int

// Usage counts the owner's records the way limit enforcement does.
func (s *Service) Usage() (Usage, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, err
	}
	counters := map[entitlement.Resource]func(string) (int, error){
		entitlement.Habits:         s.store.CountHabits,
		entitlement.Tasks:          s.store.CountTasks,
		entitlement.JournalEntries: s.store.CountJournalEntries,
	}
	usage := Usage{}
	for r, count := range counters {
		n, err := count(userID)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", r, err)
		}
		usage[r] = n
	}
	return usage, nil
}

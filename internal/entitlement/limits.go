package entitlement

// Unlimited is the limit sentinel meaning "no enforcement".
const Unlimited = -1

// Resource is a countable record kind subject to a tier limit.
type Resource int

const (
	Habits Resource = iota
	Tasks
	JournalEntries
)

func (r Resource) String() string {
	switch r {
	case Habits:
		return "habits"
	case Tasks:
		return "tasks"
	case JournalEntries:
		return "journal entries"
	}
	return "unknown"
}

// Capability is a boolean flag on a tier's limits record.
type Capability int

const (
	CanExport Capability = iota
	CanUseAdmin
	CanUseCoachMode
	CanUseAnalytics
	CanUseTeamManagement
	CanUseCustomBranding
)

func (c Capability) String() string {
	switch c {
	case CanExport:
		return "canExport"
	case CanUseAdmin:
		return "canUseAdmin"
	case CanUseCoachMode:
		return "canUseCoachMode"
	case CanUseAnalytics:
		return "canUseAnalytics"
	case CanUseTeamManagement:
		return "canUseTeamManagement"
	case CanUseCustomBranding:
		return "canUseCustomBranding"
	}
	return "unknown"
}

// Limits is the numeric and boolean entitlement record for a tier.
// A numeric limit of Unlimited means no enforcement.
type Limits struct {
	MaxHabits            int  `json:"maxHabits"`
	MaxTasks             int  `json:"maxTasks"`
	MaxJournalEntries    int  `json:"maxJournalEntries"`
	CanExport            bool `json:"canExport"`
	CanUseAdmin          bool `json:"canUseAdmin"`
	CanUseCoachMode      bool `json:"canUseCoachMode"`
	CanUseAnalytics      bool `json:"canUseAnalytics"`
	CanUseTeamManagement bool `json:"canUseTeamManagement"`
	CanUseCustomBranding bool `json:"canUseCustomBranding"`
}

// TierLimits returns the limits record for tier. Unknown tiers get Starter's.
func TierLimits(tier Tier) Limits {
	switch tier {
	case Coach:
		return Limits{
			MaxHabits:         Unlimited,
			MaxTasks:          Unlimited,
			MaxJournalEntries: Unlimited,
			CanExport:         true,
			CanUseCoachMode:   true,
			CanUseAnalytics:   true,
		}
	case Business:
		return Limits{
			MaxHabits:            Unlimited,
			MaxTasks:             Unlimited,
			MaxJournalEntries:    Unlimited,
			CanExport:            true,
			CanUseAdmin:          true,
			CanUseCoachMode:      true,
			CanUseAnalytics:      true,
			CanUseTeamManagement: true,
			CanUseCustomBranding: true,
		}
	default:
		return Limits{
			MaxHabits:         5,
			MaxTasks:          20,
			MaxJournalEntries: 30,
		}
	}
}

// CanUseFeature reports whether tier carries the given capability flag.
func CanUseFeature(tier Tier, c Capability) bool {
	return TierLimits(tier).Has(c)
}

// Has reports the value of a capability flag.
func (l Limits) Has(c Capability) bool {
	switch c {
	case CanExport:
		return l.CanExport
	case CanUseAdmin:
		return l.CanUseAdmin
	case CanUseCoachMode:
		return l.CanUseCoachMode
	case CanUseAnalytics:
		return l.CanUseAnalytics
	case CanUseTeamManagement:
		return l.CanUseTeamManagement
	case CanUseCustomBranding:
		return l.CanUseCustomBranding
	}
	return false
}

// Limit returns the numeric limit for r.
func (l Limits) Limit(r Resource) int {
	switch r {
	case Habits:
		return l.MaxHabits
	case Tasks:
		return l.MaxTasks
	case JournalEntries:
		return l.MaxJournalEntries
	}
	return 0
}

// Allows reports whether one more r may be created when count already exist.
func (l Limits) Allows(r Resource, count int) bool {
	return WithinLimit(l.Limit(r), count)
}

// WithinLimit reports whether count existing items leave room for one more.
// Any negative limit is treated as unlimited.
func WithinLimit(limit, count int) bool {
	if IsUnlimited(limit) {
		return true
	}
	return count < limit
}

// IsUnlimited reports whether limit is the unlimited sentinel.
func IsUnlimited(limit int) bool {
	return limit < 0
}

// Remaining returns how many more items fit under limit, or Unlimited.
func Remaining(limit, count int) int {
	if IsUnlimited(limit) {
		return Unlimited
	}
	return max(limit-count, 0)
}

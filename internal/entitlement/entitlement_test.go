package entitlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTier(t *testing.T) {
	tests := []struct {
		in   string
		want Tier
		ok   bool
	}{
		{"starter", Starter, true},
		{"coach", Coach, true},
		{"business", Business, true},
		{"  Coach ", Coach, true},
		{"BUSINESS", Business, true},
		{"enterprise", Starter, false},
		{"", Starter, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTier(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestTierOrdering(t *testing.T) {
	assert.True(t, Business.AtLeast(Coach))
	assert.True(t, Coach.AtLeast(Starter))
	assert.True(t, Coach.AtLeast(Coach))
	assert.False(t, Starter.AtLeast(Coach))
	assert.False(t, Tier(42).AtLeast(Coach), "invalid tier must rank as starter")
}

func TestTierTextRoundTrip(t *testing.T) {
	var tier Tier
	require.NoError(t, tier.UnmarshalText([]byte("coach")))
	assert.Equal(t, Coach, tier)

	require.NoError(t, tier.UnmarshalText([]byte("platinum")))
	assert.Equal(t, Starter, tier)

	b, err := Business.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "business", string(b))
}

func TestHasFeature(t *testing.T) {
	assert.False(t, HasFeature(Starter, FeatureAdminPanel))
	assert.False(t, HasFeature(Coach, FeatureAdminPanel))
	assert.True(t, HasFeature(Business, FeatureAdminPanel))

	assert.True(t, HasFeature(Starter, FeatureJournal))
	assert.False(t, HasFeature(Starter, FeatureCSVExport))
	assert.True(t, HasFeature(Coach, FeatureCoachMode))

	assert.False(t, HasFeature(Business, Feature("time_travel")), "unknown feature must be unavailable")
	assert.False(t, HasFeature(Tier(99), FeatureUnlimitedHabits), "unknown tier must resolve to starter")
	assert.True(t, HasFeature(Tier(99), FeatureBasicHabits))
}

func TestTierFeaturesConsistentWithHasFeature(t *testing.T) {
	for _, tier := range Tiers {
		features := TierFeatures(tier)
		for _, f := range AllFeatures() {
			assert.Equal(t, HasFeature(tier, f), contains(features, f), "tier=%s feature=%s", tier, f)
		}
	}
}

func TestTierFeaturesNested(t *testing.T) {
	// starter ⊂ coach ⊂ business
	for i := 1; i < len(Tiers); i++ {
		lower, higher := TierFeatures(Tiers[i-1]), TierFeatures(Tiers[i])
		for _, f := range lower {
			assert.Contains(t, higher, f, "%s lost %s", Tiers[i], f)
		}
		assert.Greater(t, len(higher), len(lower))
	}
}

func TestTierLimits(t *testing.T) {
	starter := TierLimits(Starter)
	assert.Equal(t, 5, starter.MaxHabits)
	assert.Equal(t, 20, starter.MaxTasks)
	assert.Equal(t, 30, starter.MaxJournalEntries)
	assert.False(t, starter.CanExport)

	coach := TierLimits(Coach)
	assert.Equal(t, Unlimited, coach.MaxHabits)
	assert.True(t, coach.CanExport)
	assert.True(t, coach.CanUseCoachMode)
	assert.False(t, coach.CanUseAdmin)

	business := TierLimits(Business)
	assert.True(t, business.CanUseAdmin)
	assert.True(t, business.CanUseTeamManagement)
	assert.True(t, business.CanUseCustomBranding)

	assert.Equal(t, starter, TierLimits(Tier(-3)))
}

func TestCanUseFeature(t *testing.T) {
	capabilities := []Capability{
		CanExport, CanUseAdmin, CanUseCoachMode, CanUseAnalytics, CanUseTeamManagement, CanUseCustomBranding,
	}
	for _, c := range capabilities {
		assert.False(t, CanUseFeature(Starter, c), "starter %s", c)
		assert.True(t, CanUseFeature(Business, c), "business %s", c)
		// fail closed: an unrecognized tier never gets elevated flags
		assert.False(t, CanUseFeature(Tier(7), c), "invalid tier %s", c)
	}
	assert.True(t, CanUseFeature(Coach, CanExport))
	assert.False(t, CanUseFeature(Coach, CanUseTeamManagement))
	assert.False(t, CanUseFeature(Resolve("root"), CanUseAdmin))
}

func TestUnlimitedSentinel(t *testing.T) {
	assert.True(t, WithinLimit(Unlimited, 0))
	assert.True(t, WithinLimit(Unlimited, 1_000_000), "a naive count < -1 check would reject this")
	assert.True(t, WithinLimit(5, 4))
	assert.False(t, WithinLimit(5, 5))
	assert.False(t, WithinLimit(0, 0))

	assert.True(t, TierLimits(Coach).Allows(Habits, 500))
	assert.False(t, TierLimits(Starter).Allows(Habits, 5))
	assert.True(t, TierLimits(Starter).Allows(Tasks, 19))
	assert.False(t, TierLimits(Starter).Allows(JournalEntries, 30))

	assert.Equal(t, Unlimited, Remaining(Unlimited, 10))
	assert.Equal(t, 2, Remaining(5, 3))
	assert.Equal(t, 0, Remaining(5, 9))
}

func TestDetectTier(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
		want    Tier
	}{
		{
			name: "custom field wins over product name",
			payload: Payload{
				ProductName:  "MomentumX Business Plan",
				CustomFields: map[string]string{"tier": "coach"},
			},
			want: Coach,
		},
		{
			name: "custom field wins over metadata",
			payload: Payload{
				CustomFields: map[string]string{"Tier": "business"},
				Metadata:     map[string]string{"tier": "coach"},
			},
			want: Business,
		},
		{
			name: "unknown custom field falls through to metadata",
			payload: Payload{
				CustomFields: map[string]string{"tier": "gold"},
				Metadata:     map[string]string{"tier": "coach"},
			},
			want: Coach,
		},
		{
			name: "metadata wins over product name",
			payload: Payload{
				ProductName: "MomentumX Coach",
				Metadata:    map[string]string{"tier": "starter"},
			},
			want: Starter,
		},
		{
			name:    "product name business",
			payload: Payload{ProductName: "MomentumX Business Plan"},
			want:    Business,
		},
		{
			name:    "product name coach case-insensitive",
			payload: Payload{ProductName: "MOMENTUMX COACHING"},
			want:    Coach,
		},
		{
			name:    "no signal",
			payload: Payload{ProductName: "MomentumX"},
			want:    Starter,
		},
		{
			name:    "empty payload",
			payload: Payload{},
			want:    Starter,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectTier(tt.payload))
		})
	}
}

func TestCacheExpired(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	c := NewCache(Coach, now)

	assert.False(t, c.Expired(now.Add(time.Hour), 24*time.Hour))
	assert.True(t, c.Expired(now.Add(24*time.Hour), 24*time.Hour))
	assert.True(t, Cache{}.Expired(now, 24*time.Hour))
}

func contains(fs []Feature, f Feature) bool {
	for _, x := range fs {
		if x == f {
			return true
		}
	}
	return false
}

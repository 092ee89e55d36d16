package entitlement

import "slices"

// Feature identifies a gated product feature.
type Feature string

const (
	FeatureBasicHabits      Feature = "basic_habits"
	FeatureBasicTasks       Feature = "basic_tasks"
	FeatureJournal          Feature = "journal"
	FeatureWeeklyReview     Feature = "weekly_review"
	FeatureUnlimitedHabits  Feature = "unlimited_habits"
	FeatureUnlimitedTasks   Feature = "unlimited_tasks"
	FeatureUnlimitedJournal Feature = "unlimited_journal"
	FeatureCSVExport        Feature = "csv_export"
	FeaturePDFExport        Feature = "pdf_export"
	FeatureAnalytics        Feature = "analytics"
	FeatureCoachMode        Feature = "coach_mode"
	FeatureAdminPanel       Feature = "admin_panel"
	FeatureTeamManagement   Feature = "team_management"
	FeatureCustomBranding   Feature = "custom_branding"
	FeaturePrioritySupport  Feature = "priority_support"
)

var (
	allTiers      = []Tier{Starter, Coach, Business}
	paidTiers     = []Tier{Coach, Business}
	businessTiers = []Tier{Business}
)

// featureTable lists, in display order, which tiers each feature is available to.
var featureTable = []struct {
	Feature Feature
	Tiers   []Tier
}{
	{FeatureBasicHabits, allTiers},
	{FeatureBasicTasks, allTiers},
	{FeatureJournal, allTiers},
	{FeatureWeeklyReview, allTiers},
	{FeatureUnlimitedHabits, paidTiers},
	{FeatureUnlimitedTasks, paidTiers},
	{FeatureUnlimitedJournal, paidTiers},
	{FeatureCSVExport, paidTiers},
	{FeaturePDFExport, paidTiers},
	{FeatureAnalytics, paidTiers},
	{FeatureCoachMode, paidTiers},
	{FeatureAdminPanel, businessTiers},
	{FeatureTeamManagement, businessTiers},
	{FeatureCustomBranding, businessTiers},
	{FeaturePrioritySupport, businessTiers},
}

// AllFeatures returns every known feature in display order.
func AllFeatures() []Feature {
	out := make([]Feature, 0, len(featureTable))
	for _, row := range featureTable {
		out = append(out, row.Feature)
	}
	return out
}

// HasFeature reports whether feature is available to tier. Unknown features
// are unavailable to every tier.
func HasFeature(tier Tier, feature Feature) bool {
	tier = tier.normalize()
	for _, row := range featureTable {
		if row.Feature == feature {
			return slices.Contains(row.Tiers, tier)
		}
	}
	return false
}

// TierFeatures returns every feature available to tier, in display order.
func TierFeatures(tier Tier) []Feature {
	var out []Feature
	for _, row := range featureTable {
		if HasFeature(tier, row.Feature) {
			out = append(out, row.Feature)
		}
	}
	return out
}

package entitlement

import "strings"

// Payload is the tier-relevant part of a license verification response.
type Payload struct {
	ProductName  string
	CustomFields map[string]string
	Metadata     map[string]string
}

// DetectTier resolves the tier a license payload grants. Signals are checked
// in a fixed order: the custom-field tier, the metadata tier, the product
// name, and finally Starter.
func DetectTier(p Payload) Tier {
	if t, ok := ParseTier(lookupFold(p.CustomFields, "tier")); ok {
		return t
	}
	if t, ok := ParseTier(lookupFold(p.Metadata, "tier")); ok {
		return t
	}

	name := strings.ToLower(p.ProductName)
	switch {
	case strings.Contains(name, "business"):
		return Business
	case strings.Contains(name, "coach"):
		return Coach
	}
	return Starter
}

// lookupFold finds key in m ignoring case, since upstream field names vary.
func lookupFold(m map[string]string, key string) string {
	if v, ok := m[key]; ok {
		return v
	}
	for k, v := range m {
		if strings.EqualFold(strings.TrimSpace(k), key) {
			return v
		}
	}
	return ""
}

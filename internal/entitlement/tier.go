// Package entitlement maps a license tier to the features, limits and
// capability flags it unlocks.
//
// The tables are static configuration. Lookups go through exhaustive switches
// over the closed Tier enum, and anything unrecognized resolves to Starter.
package entitlement

import "strings"

// Tier is a subscription level. Tiers are totally ordered by capability.
type Tier int

const (
	Starter Tier = iota
	Coach
	Business
)

// Tiers lists every tier from least to most capable.
var Tiers = []Tier{Starter, Coach, Business}

func (t Tier) String() string {
	switch t {
	case Coach:
		return "coach"
	case Business:
		return "business"
	default:
		return "starter"
	}
}

// Valid reports whether t is one of the three known tiers.
func (t Tier) Valid() bool {
	switch t {
	case Starter, Coach, Business:
		return true
	}
	return false
}

// AtLeast reports whether t includes everything other unlocks.
func (t Tier) AtLeast(other Tier) bool {
	return t.normalize() >= other.normalize()
}

func (t Tier) normalize() Tier {
	if !t.Valid() {
		return Starter
	}
	return t
}

// ParseTier parses a tier name, case-insensitively and ignoring surrounding space.
func ParseTier(s string) (Tier, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "starter":
		return Starter, true
	case "coach":
		return Coach, true
	case "business":
		return Business, true
	}
	return Starter, false
}

// Resolve parses a tier name and falls back to Starter for anything unknown.
func Resolve(s string) Tier {
	t, _ := ParseTier(s)
	return t
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names decode to Starter.
func (t *Tier) UnmarshalText(b []byte) error {
	*t = Resolve(string(b))
	return nil
}

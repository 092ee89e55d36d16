package sanitize

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/momentumx/momentumx/internal/constants"
	"github.com/momentumx/momentumx/internal/models"
)

var emailRe = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

// Clamp bounds n to [lo, hi].
func Clamp(n, lo, hi int) int {
	return min(max(n, lo), hi)
}

// Int parses s as an integer clamped to [lo, hi], returning def when s is not
// a number. Fractional input is truncated toward zero.
func Int(s string, lo, hi, def int) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return Clamp(n, lo, hi)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return def
	}
	switch {
	case f >= float64(hi):
		return hi
	case f <= float64(lo):
		return lo
	}
	return Clamp(int(f), lo, hi)
}

// Target clamps a habit target to [1, 100].
func Target(n int) int { return Clamp(n, 1, 100) }

// Mood clamps a mood score to [1, 10].
func Mood(n int) int { return Clamp(n, 1, 10) }

// Rating clamps a weekly review rating to [1, 5].
func Rating(n int) int { return Clamp(n, 1, 5) }

func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, "_", "-")
}

// Priority returns the matching priority, or medium.
func Priority(s string) models.Priority {
	p := models.Priority(normalizeEnum(s))
	if slices.Contains(models.Priorities, p) {
		return p
	}
	return models.PriorityMedium
}

// Status returns the matching task status, or pending. "in_progress" and
// "in progress" are accepted spellings of in-progress.
func Status(s string) models.TaskStatus {
	st := models.TaskStatus(strings.ReplaceAll(normalizeEnum(s), " ", "-"))
	if slices.Contains(models.Statuses, st) {
		return st
	}
	return models.StatusPending
}

// Category returns the matching habit category, or general.
func Category(s string) models.Category {
	c := models.Category(normalizeEnum(s))
	if slices.Contains(models.Categories, c) {
		return c
	}
	return models.CategoryGeneral
}

// Frequency returns the matching habit frequency, or daily.
func Frequency(s string) models.Frequency {
	f := models.Frequency(normalizeEnum(s))
	if slices.Contains(models.Frequencies, f) {
		return f
	}
	return models.FrequencyDaily
}

// Date normalizes a YYYY-MM-DD or RFC3339 value to YYYY-MM-DD, or "".
func Date(s string) string {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(constants.DateFormat, s); err == nil {
		return t.Format(constants.DateFormat)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(constants.DateFormat)
	}
	return ""
}

// Email lowercases and trims an address, returning "" when it is not
// plausibly valid.
func Email(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) > 254 || !emailRe.MatchString(s) {
		return ""
	}
	return s
}

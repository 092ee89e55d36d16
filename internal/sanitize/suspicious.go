package sanitize

import "regexp"

var suspiciousPatterns = []struct {
	re      *regexp.Regexp
	warning string
}{
	{regexp.MustCompile(`(?i)<\s*script`), "script tag detected"},
	{regexp.MustCompile(`(?i)javascript\s*:`), "javascript URI detected"},
	{regexp.MustCompile(`(?i)\bon[a-z]+\s*=`), "inline event handler detected"},
	{regexp.MustCompile(`(?i)\b(union\s+(all\s+)?select|select\s+.+\s+from|insert\s+into|delete\s+from|drop\s+(table|database)|update\s+\w+\s+set|alter\s+table|exec(ute)?\s*\()`), "SQL statement detected"},
	{regexp.MustCompile(`--|/\*|\*/|;`), "SQL comment or statement terminator detected"},
}

// Suspicious returns a warning for every suspicious pattern found in s. The
// result is advisory and does not block input on its own.
func Suspicious(s string) []string {
	var warnings []string
	for _, p := range suspiciousPatterns {
		if p.re.MatchString(s) {
			warnings = append(warnings, p.warning)
		}
	}
	return warnings
}

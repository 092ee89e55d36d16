// Package sanitize normalizes untrusted input into safe, bounded values.
//
// Every function is total: malformed input produces a documented default
// (empty string, zero, clamped value or enum default) instead of an error.
package sanitize

import (
	"regexp"
	"slices"
	"strings"
)

const ellipsis = "..."

var (
	blockRe      = regexp.MustCompile(`(?is)<(script|style)\b[^>]*>.*?</(script|style)\s*>`)
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	disallowedRe = regexp.MustCompile(`[^\p{L}\p{N}_\s.,!?'"()\-:;&@#]`)
	spaceRe      = regexp.MustCompile(`\s+`)
	inlineRe     = regexp.MustCompile(`[^\S\n]+`)
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
)

// stripMarkup removes script/style blocks with their content, every other tag,
// and characters outside the allowed word/space/punctuation class.
func stripMarkup(s string) string {
	s = blockRe.ReplaceAllString(s, "")
	s = tagRe.ReplaceAllString(s, "")
	return disallowedRe.ReplaceAllString(s, "")
}

// Text strips markup, collapses whitespace to single spaces and truncates to
// maxLength runes. A truncated result ends in "..." within the limit.
// maxLength <= 0 yields "".
func Text(s string, maxLength int) string {
	s = strings.TrimSpace(spaceRe.ReplaceAllString(stripMarkup(s), " "))
	return Truncate(s, maxLength)
}

// Title sanitizes a single-line title.
func Title(s string, maxLength int) string {
	return Text(s, maxLength)
}

// Description sanitizes multi-line text. Runs of spaces collapse, line breaks
// survive, and more than one blank line in a row is reduced to one.
func Description(s string, maxLength int) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = stripMarkup(s)

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineRe.ReplaceAllString(line, " "))
	}
	s = blankLinesRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return Truncate(strings.TrimSpace(s), maxLength)
}

// Truncate shortens s to at most maxLength runes, marking a cut with "...".
func Truncate(s string, maxLength int) string {
	if maxLength <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	if maxLength <= len(ellipsis) {
		return string(runes[:maxLength])
	}
	return string(runes[:maxLength-len(ellipsis)]) + ellipsis
}

// Tags lowercases, sanitizes and deduplicates tags, keeping at most maxTags
// non-empty tags of at most maxLength runes each.
func Tags(tags []string, maxTags, maxLength int) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if len(out) >= maxTags {
			break
		}
		tag = strings.ToLower(Text(strings.TrimPrefix(strings.TrimSpace(tag), "#"), maxLength))
		if tag == "" || slices.Contains(out, tag) {
			continue
		}
		out = append(out, tag)
	}
	return out
}

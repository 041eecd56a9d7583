// Package medianame turns noisy release filenames into stable grouping keys,
// display titles and search queries, and matches season/episode conventions.
// All functions are pure: no I/O, no randomness, no panics on malformed input.
package medianame

import (
	"regexp"
	"strings"
)

// leetReplacer maps the digit substitutions commonly found in release names
// back to letters, so "Dar3devil" and "Daredevil" normalize identically.
var leetReplacer = strings.NewReplacer(
	"0", "o",
	"1", "i",
	"3", "e",
	"4", "a",
	"5", "s",
	"7", "t",
	"@", "a",
)

var (
	separatorReplacer = strings.NewReplacer(".", " ", "_", " ")

	// Markers that end the title segment of a release name. The earliest
	// occurrence wins.
	keyMarkerRegex    = regexp.MustCompile(`(?i)\s+(s\d{2}|19\d{2}|20\d{2}|4k|1080p|720p)`)
	seasonMarkerRegex = regexp.MustCompile(`(?i)\s+s\d{2}`)
	qualityTokenRegex = regexp.MustCompile(`(?i)\s+(1080|720|4k|2160p|bluray|web|dvd|x264|uhd)`)
	yearPrefixRegex   = regexp.MustCompile(`^(.+?)\s+(19\d{2}|20\d{2})`)
	leadingTagRegex   = regexp.MustCompile(`^\[[^\]]*\]`)
	nonAlnumRegex     = regexp.MustCompile(`[^a-z0-9]`)
)

// DeLeet replaces leetspeak digits with their letter equivalents.
func DeLeet(s string) string {
	return leetReplacer.Replace(s)
}

// cleanSeparators turns dot/underscore separated names into spaced ones.
func cleanSeparators(filename string) string {
	return separatorReplacer.Replace(filename)
}

// cutBefore returns the part of s preceding the first match of re, or s
// unchanged when re does not match or matches at the very start.
func cutBefore(s string, re *regexp.Regexp) string {
	loc := re.FindStringIndex(s)
	if loc == nil || loc[0] == 0 {
		return s
	}
	return s[:loc[0]]
}

// NormalizeKey computes the group-identity fingerprint of a filename: the
// title segment before the earliest season/year/resolution marker,
// leet-normalized, lowercased, stripped to alphanumerics. Stable across
// release-tag noise; empty input yields the empty string.
func NormalizeKey(filename string) string {
	clean := cleanSeparators(filename)
	raw := cutBefore(clean, keyMarkerRegex)
	raw = strings.ToLower(DeLeet(raw))
	return nonAlnumRegex.ReplaceAllString(raw, "")
}

// DisplayTitle returns a human-readable label: the segment before the
// earliest season/year/resolution marker with case and spacing preserved,
// or the whole cleaned name when nothing marks the end of the title.
func DisplayTitle(filename string) string {
	clean := cleanSeparators(filename)
	return strings.TrimSpace(cutBefore(clean, keyMarkerRegex))
}

// SearchQuery builds a best-effort query string for external search engines.
// It progressively tries cutting at a leading bracket tag, a year, a season
// marker and a quality token, falling back to the cleaned name.
func SearchQuery(filename string) string {
	clean := strings.TrimSpace(leadingTagRegex.ReplaceAllString(cleanSeparators(filename), ""))

	if m := yearPrefixRegex.FindStringSubmatch(clean); m != nil {
		return strings.TrimSpace(m[1])
	}
	if cut := cutBefore(clean, seasonMarkerRegex); cut != clean {
		return strings.TrimSpace(cut)
	}
	if cut := cutBefore(clean, qualityTokenRegex); cut != clean {
		return strings.TrimSpace(cut)
	}
	return clean
}

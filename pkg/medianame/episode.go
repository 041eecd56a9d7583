package medianame

import (
	"fmt"
	"regexp"

	"github.com/cehbz/torrentname"
)

var seriesMarkerRegex = regexp.MustCompile(`(?i)S\d{2}`)

// MatchesEpisode reports whether filename refers to the given season and
// episode. Both coordinates are required; zero or negative values never
// match, so a movie file cannot satisfy a series episode query.
//
// Two conventions are recognized: S<season>E<episode> with arbitrary
// non-digit characters between the season and episode numbers, and the
// whole-word <season>x<episode> token. Zero padding in the filename is
// irrelevant and matching is case-insensitive. Episode 1 does not match
// E10 or E11: the episode number must not be followed by another digit.
func MatchesEpisode(filename string, season, episode int) bool {
	if season <= 0 || episode <= 0 {
		return false
	}

	se := regexp.MustCompile(fmt.Sprintf(`(?i)S0*%d[^0-9]*E0*%d([^0-9]|$)`, season, episode))
	if se.MatchString(filename) {
		return true
	}

	cross := regexp.MustCompile(fmt.Sprintf(`(?i)\b%dx0*%d\b`, season, episode))
	return cross.MatchString(filename)
}

// DetectType guesses whether a filename belongs to a series or a movie.
// A structural SxxEyy marker decides immediately; otherwise the parsed
// release name is consulted for a season number.
func DetectType(filename string) string {
	if seriesMarkerRegex.MatchString(filename) {
		return "series"
	}
	if parsed := torrentname.Parse(filename); parsed != nil && parsed.Season > 0 {
		return "series"
	}
	return "movie"
}

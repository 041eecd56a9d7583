package medianame

import (
	"regexp"
	"strings"
)

// Tunable matching constants. These are deliberately conservative: a wrong
// match is worse than no match.
const (
	// MatchThreshold is the minimum score for a confident match.
	MatchThreshold = 0.6
	// MatchMargin is the minimum lead over the runner-up candidate.
	MatchMargin = 0.08
	// matchMinHits is the minimum number of distinct matched tokens,
	// scaled down for titles with fewer tokens than this.
	matchMinHits = 2
)

// stopwords are tokens too common to carry identity: articles and
// connectors, release-tag noise, and season/episode/part vocabulary.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "of": true, "and": true,
	"in": true, "on": true, "to": true, "at": true, "by": true,

	"1080p": true, "720p": true, "2160p": true, "480p": true, "4k": true,
	"uhd": true, "hd": true, "bluray": true, "brrip": true, "bdrip": true,
	"webrip": true, "webdl": true, "web": true, "dl": true, "hdtv": true,
	"dvdrip": true, "dvd": true, "remux": true, "x264": true, "x265": true,
	"h264": true, "h265": true, "hevc": true, "avc": true, "aac": true,
	"ac3": true, "dts": true, "atmos": true, "hdr": true, "multi": true,
	"subs": true, "vostfr": true, "proper": true, "repack": true,
	"extended": true, "remastered": true, "internal": true, "limited": true,

	"season": true, "episode": true, "part": true, "complete": true,
	"s": true, "e": true,
}

var (
	fuzzyPunctRegex   = regexp.MustCompile(`[^a-z0-9 ]`)
	episodeTokenRegex = regexp.MustCompile(`^(s\d+(e\d+)?|e\d+|\d+x\d+)$`)
)

// Tokenize splits a title or filename into comparable tokens: lowercased,
// "&" spelled out, punctuation stripped, leetspeak normalized, stopwords and
// season/episode markers dropped. Token order is preserved. Stopwords are
// checked before and after leet substitution so that release tags like
// "1080p" are recognized in their literal spelling.
func Tokenize(title string) []string {
	s := strings.ToLower(cleanSeparators(title))
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "'", "")
	s = fuzzyPunctRegex.ReplaceAllString(s, " ")

	var tokens []string
	for _, tok := range strings.Fields(s) {
		if stopwords[tok] || episodeTokenRegex.MatchString(tok) {
			continue
		}
		tok = DeLeet(tok)
		if stopwords[tok] {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Score returns the character-weighted overlap of needle tokens within the
// haystack token set, in [0,1]. Longer tokens count for more, so a short
// incidental token ("ms") cannot outweigh a distinguishing one ("marvel").
func Score(needle, haystack []string) float64 {
	if len(needle) == 0 {
		return 0
	}

	set := make(map[string]bool, len(haystack))
	for _, tok := range haystack {
		set[tok] = true
	}

	var matched, total int
	for _, tok := range needle {
		total += len(tok)
		if set[tok] {
			matched += len(tok)
		}
	}
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total)
}

// hits counts distinct needle tokens present in the haystack.
func hits(needle, haystack []string) int {
	set := make(map[string]bool, len(haystack))
	for _, tok := range haystack {
		set[tok] = true
	}
	seen := make(map[string]bool, len(needle))
	n := 0
	for _, tok := range needle {
		if set[tok] && !seen[tok] {
			seen[tok] = true
			n++
		}
	}
	return n
}

// MatchTitle reports whether candidate confidently matches title: score at
// or above MatchThreshold and enough distinct token hits. Candidate ranking
// across alternatives is the caller's concern; see BestMatch.
func MatchTitle(title, candidate string) bool {
	needle := Tokenize(title)
	if len(needle) == 0 {
		return false
	}
	haystack := Tokenize(candidate)

	minHits := matchMinHits
	if len(needle) < minHits {
		minHits = len(needle)
	}
	return Score(needle, haystack) >= MatchThreshold && hits(needle, haystack) >= minHits
}

// BestMatch picks the candidate that best matches title, or reports no match
// when nothing clears the threshold or the two best candidates are too close
// to call. Ambiguity resolves to silence rather than a guess.
func BestMatch(title string, candidates []string) (int, bool) {
	needle := Tokenize(title)
	if len(needle) == 0 {
		return -1, false
	}

	minHits := matchMinHits
	if len(needle) < minHits {
		minHits = len(needle)
	}

	best, bestScore, secondScore := -1, 0.0, 0.0
	for i, candidate := range candidates {
		haystack := Tokenize(candidate)
		score := Score(needle, haystack)
		if hits(needle, haystack) < minHits {
			score = 0
		}
		switch {
		case score > bestScore:
			best, secondScore, bestScore = i, bestScore, score
		case score > secondScore:
			secondScore = score
		}
	}

	if best < 0 || bestScore < MatchThreshold || bestScore-secondScore < MatchMargin {
		return -1, false
	}
	return best, true
}

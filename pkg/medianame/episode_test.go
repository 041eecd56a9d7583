package medianame

import "testing"

func TestMatchesEpisode(t *testing.T) {
	tests := []struct {
		filename string
		season   int
		episode  int
		expected bool
	}{
		{"Show.S01E01.mkv", 1, 1, true},
		{"Show.S01E01.mkv", 1, 2, false},
		{"Show.S02E01.mkv", 1, 1, false},
		// No partial digit matches: episode 1 is not episode 10 or 11.
		{"Show.S01E11.mkv", 1, 1, false},
		{"Show.S01E10.mkv", 1, 1, false},
		{"Show.S01E01", 1, 1, true},
		// Zero padding in the filename is irrelevant.
		{"Show.S1E5.mkv", 1, 5, true},
		{"Show.S01E005.mkv", 1, 5, true},
		// Arbitrary non-digit run between season and episode numbers.
		{"Show.S01.E05.mkv", 1, 5, true},
		{"show s01xe05 720p", 1, 5, true},
		// Cross convention as a whole word.
		{"Show.1x05.mkv", 1, 5, true},
		{"Show.1x05.mkv", 1, 50, false},
		{"Show.11x05.mkv", 1, 5, false},
		// Case insensitive.
		{"show.s02e07.mkv", 2, 7, true},
		// Missing coordinates never match.
		{"Movie.2024.mkv", 0, 0, false},
		{"Show.S01E01.mkv", 1, 0, false},
		{"Show.S01E01.mkv", 0, 1, false},
	}

	for _, test := range tests {
		got := MatchesEpisode(test.filename, test.season, test.episode)
		if got != test.expected {
			t.Errorf("MatchesEpisode(%q, %d, %d) = %v, expected %v",
				test.filename, test.season, test.episode, got, test.expected)
		}
	}
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"Breaking.Bad.S01E01.1080p.mkv", "series"},
		{"Inception.2010.1080p.BluRay.mkv", "movie"},
		{"Random file", "movie"},
	}

	for _, test := range tests {
		if got := DetectType(test.filename); got != test.expected {
			t.Errorf("DetectType(%q) = %q, expected %q", test.filename, got, test.expected)
		}
	}
}

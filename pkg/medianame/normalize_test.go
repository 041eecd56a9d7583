package medianame

import "testing"

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"Inception.2010.1080p.BluRay.mkv", "inception"},
		{"Breaking.Bad.S01E01.720p.WEB-DL.mkv", "breakingbad"},
		{"Breaking_Bad_S02E05_1080p.mkv", "breakingbad"},
		{"The.Office.US.S03.Complete.1080p", "theofficeus"},
		{"Some Movie 4k HDR.mkv", "somemovie"},
		{"PlainName.mkv", "plainnamemkv"},
		{"", ""},
	}

	for _, test := range tests {
		if got := NormalizeKey(test.filename); got != test.expected {
			t.Errorf("NormalizeKey(%q) = %q, expected %q", test.filename, got, test.expected)
		}
	}
}

func TestNormalizeKeyLeetEquivalence(t *testing.T) {
	a := NormalizeKey("Dar3devil.S01E01.mkv")
	b := NormalizeKey("Daredevil.S01E01.mkv")
	if a != b {
		t.Errorf("leetspeak variants normalize differently: %q vs %q", a, b)
	}
	if a != "daredevil" {
		t.Errorf("NormalizeKey(Dar3devil.S01E01.mkv) = %q, expected %q", a, "daredevil")
	}
}

func TestNormalizeKeyStability(t *testing.T) {
	// Any permutation of the release-tag suffix must produce the same key
	// as long as the title prefix is untouched.
	variants := []string{
		"Dark.Knight.2008.1080p.BluRay.x264.mkv",
		"Dark.Knight.1080p.2008.BluRay.mkv",
		"Dark Knight 2008 720p WEB-DL",
		"Dark_Knight_4k_HDR_REMUX",
	}

	want := NormalizeKey(variants[0])
	for _, v := range variants[1:] {
		if got := NormalizeKey(v); got != want {
			t.Errorf("NormalizeKey(%q) = %q, expected stable key %q", v, got, want)
		}
	}
}

func TestNormalizeKeyEarliestMarkerWins(t *testing.T) {
	// Both a year and a season marker present: cut at the earliest.
	if got := NormalizeKey("Show.2019.S01E01.1080p.mkv"); got != "show" {
		t.Errorf("NormalizeKey = %q, expected %q", got, "show")
	}
}

func TestDisplayTitle(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"Breaking.Bad.S01E01.1080p.mkv", "Breaking Bad"},
		{"The.Wire.S03.Complete", "The Wire"},
		{"Inception.2010.1080p.mkv", "Inception"},
		// Nothing marks the end of the title: keep the whole cleaned name.
		{"Totally Unmarked Name", "Totally Unmarked Name"},
		{"", ""},
	}

	for _, test := range tests {
		if got := DisplayTitle(test.filename); got != test.expected {
			t.Errorf("DisplayTitle(%q) = %q, expected %q", test.filename, got, test.expected)
		}
	}
}

func TestSearchQuery(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"[GrupaX] Inception.2010.1080p.mkv", "Inception"},
		{"Inception.2010.1080p.BluRay.mkv", "Inception"},
		{"Breaking.Bad.S01E01.720p.mkv", "Breaking Bad"},
		{"Some.Movie.1080p.WEB.mkv", "Some Movie"},
		{"Totally Unmarked Name", "Totally Unmarked Name"},
		{"", ""},
	}

	for _, test := range tests {
		if got := SearchQuery(test.filename); got != test.expected {
			t.Errorf("SearchQuery(%q) = %q, expected %q", test.filename, got, test.expected)
		}
	}
}

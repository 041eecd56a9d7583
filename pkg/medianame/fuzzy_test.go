package medianame

import "testing"

func TestTokenize(t *testing.T) {
	tests := []struct {
		title    string
		expected []string
	}{
		{"Ms. Marvel", []string{"ms", "marvel"}},
		{"Tom & Jerry", []string{"tom", "jerry"}},
		{"Breaking.Bad.S01E01.1080p.BluRay.x264", []string{"breaking", "bad"}},
		{"The Lord of the Rings", []string{"lord", "rings"}},
		{"", nil},
	}

	for _, test := range tests {
		got := Tokenize(test.title)
		if len(got) != len(test.expected) {
			t.Errorf("Tokenize(%q) = %v, expected %v", test.title, got, test.expected)
			continue
		}
		for i := range got {
			if got[i] != test.expected[i] {
				t.Errorf("Tokenize(%q)[%d] = %q, expected %q", test.title, i, got[i], test.expected[i])
			}
		}
	}
}

func TestScoreBoundaries(t *testing.T) {
	identical := []string{"dark", "knight"}
	if got := Score(identical, identical); got != 1.0 {
		t.Errorf("Score of identical token sets = %v, expected 1.0", got)
	}

	disjoint := []string{"completely", "different"}
	if got := Score(identical, disjoint); got != 0.0 {
		t.Errorf("Score of disjoint token sets = %v, expected 0.0", got)
	}

	if got := Score(nil, identical); got != 0.0 {
		t.Errorf("Score with empty needle = %v, expected 0.0", got)
	}
}

func TestScoreCharacterWeighting(t *testing.T) {
	// A longer distinguishing token must contribute more than a short one:
	// matching only "marvel" (6 chars of 8) outscores matching only "ms".
	needle := []string{"ms", "marvel"}

	onlyLong := Score(needle, []string{"marvel", "runaways"})
	onlyShort := Score(needle, []string{"ms", "fisher"})

	if onlyLong <= onlyShort {
		t.Errorf("long-token match (%v) should outscore short-token match (%v)", onlyLong, onlyShort)
	}
	if onlyLong != 0.75 {
		t.Errorf("Score matching 6 of 8 chars = %v, expected 0.75", onlyLong)
	}
}

func TestBestMatch(t *testing.T) {
	candidates := []string{
		"Dark.Knight.2008.1080p.BluRay.mkv",
		"Dark.Phoenix.2019.1080p.mkv",
		"Totally.Unrelated.2020.mkv",
	}

	idx, ok := BestMatch("The Dark Knight", candidates)
	if !ok || idx != 0 {
		t.Errorf("BestMatch = (%d, %v), expected (0, true)", idx, ok)
	}
}

func TestBestMatchRejectsAmbiguity(t *testing.T) {
	// Two candidates scoring identically must yield no match at all.
	candidates := []string{
		"Dark.Knight.1080p.mkv",
		"Dark.Knight.720p.mkv",
	}
	if idx, ok := BestMatch("The Dark Knight", candidates); ok {
		t.Errorf("BestMatch on ambiguous candidates = (%d, true), expected no match", idx)
	}
}

func TestBestMatchBelowThreshold(t *testing.T) {
	candidates := []string{"Some.Other.Film.2021.mkv"}
	if idx, ok := BestMatch("The Dark Knight", candidates); ok {
		t.Errorf("BestMatch below threshold = (%d, true), expected no match", idx)
	}
}

func TestMatchTitle(t *testing.T) {
	tests := []struct {
		title     string
		candidate string
		expected  bool
	}{
		{"Breaking Bad", "Breaking.Bad.S01E01.1080p.mkv", true},
		{"Breaking Bad", "Better.Call.Saul.S01E01.mkv", false},
		{"", "whatever", false},
	}

	for _, test := range tests {
		if got := MatchTitle(test.title, test.candidate); got != test.expected {
			t.Errorf("MatchTitle(%q, %q) = %v, expected %v", test.title, test.candidate, got, test.expected)
		}
	}
}

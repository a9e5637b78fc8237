package algo

import "testing"

func TestFuzzyMatch(t *testing.T) {
	cases := []struct {
		query, text string
		want        bool
	}{
		{"an", "banana", true},
		{"an", "apple", false},
		{"an", "cherry", false},
		{"abc", "a1b2c3", true},
		{"xyz", "abc", false},
		{"", "anything", true},
	}
	for _, c := range cases {
		e := New(Fuzzy, c.query, false, false)
		_, ok := e.MatchItem(c.text)
		if ok != c.want {
			t.Errorf("Fuzzy(%q).MatchItem(%q) = %v, want %v", c.query, c.text, ok, c.want)
		}
	}
}

func TestFuzzyPrefersTighterMatch(t *testing.T) {
	e := New(Fuzzy, "ab", false, false)
	tight, ok := e.MatchItem("xaby")
	if !ok {
		t.Fatal("expected match")
	}
	loose, ok := e.MatchItem("xa...by")
	if !ok {
		t.Fatal("expected match")
	}
	if tight.Score <= loose.Score {
		t.Errorf("expected tighter match to score higher: tight=%d loose=%d", tight.Score, loose.Score)
	}
}

func TestExactMatch(t *testing.T) {
	e := New(Exact, "an", false, false)
	if _, ok := e.MatchItem("banana"); !ok {
		t.Error("expected substring match")
	}
	if _, ok := e.MatchItem("apple"); ok {
		t.Error("did not expect a match")
	}
}

func TestRegexMatch(t *testing.T) {
	e := New(Regex, `a\d`, false, false)
	for _, text := range []string{"a1", "a2"} {
		if _, ok := e.MatchItem(text); !ok {
			t.Errorf("expected %q to match", text)
		}
	}
	if _, ok := e.MatchItem("ab"); ok {
		t.Error("did not expect ab to match a\\d")
	}
}

func TestRegexInvalidPatternMatchesNothing(t *testing.T) {
	e := New(Regex, `a(`, false, false)
	if _, ok := e.MatchItem("a("); ok {
		t.Error("an invalid regex should never match, per the ScoringError policy")
	}
}

func TestCaseSensitivity(t *testing.T) {
	insensitive := New(Exact, "AN", false, false)
	if _, ok := insensitive.MatchItem("banana"); !ok {
		t.Error("expected case-insensitive match")
	}
	sensitive := New(Exact, "AN", true, false)
	if _, ok := sensitive.MatchItem("banana"); ok {
		t.Error("did not expect case-sensitive match")
	}
}

func TestNormalizeStripsDiacritics(t *testing.T) {
	e := New(Exact, "cafe", false, true)
	if _, ok := e.MatchItem("café"); !ok {
		t.Error("expected normalized match to ignore diacritics")
	}
}

func TestEmptyQueryMatchesEverything(t *testing.T) {
	e := New(Fuzzy, "", false, false)
	if !e.IsEmpty() {
		t.Error("expected IsEmpty")
	}
	if _, ok := e.MatchItem("anything"); !ok {
		t.Error("expected empty query to match")
	}
}

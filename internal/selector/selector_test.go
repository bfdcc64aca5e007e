package selector

import "testing"

func TestParse_LabelNames(t *testing.T) {
	valid := []string{"foo:x", "foo3:x", "3foo3:x", "foo-bar:x", "foo--bar:x"}
	for _, s := range valid {
		if _, err := Parse(s); err != nil {
			t.Errorf("Parse(%q): unexpected error %v", s, err)
		}
	}

	invalid := []string{"", ":x", "-foo:x", "foo-:x", "foo", "foo:"}
	for _, s := range invalid {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q): expected error", s)
		}
	}
}

func TestRegexMatcher(t *testing.T) {
	term, err := Parse("rack:/^rack203-.*/")
	if err != nil {
		t.Fatal(err)
	}

	if !term.Matches(map[string]string{"rack": "rack203-cl14"}) {
		t.Errorf("expected match for rack203-cl14")
	}
	if term.Matches(map[string]string{"rack": "arack20-cl140"}) {
		t.Errorf("unexpected match for arack20-cl140")
	}
}

func TestRegexMatcher_SearchSemantics(t *testing.T) {
	// unanchored pattern matches anywhere in the value
	term, err := Parse("hostname:/test-/")
	if err != nil {
		t.Fatal(err)
	}
	if !term.Matches(map[string]string{"hostname": "my-test-host"}) {
		t.Errorf("search match should hit a substring")
	}
}

func TestListMatcher(t *testing.T) {
	term, err := Parse("env:foo,bar,baz")
	if err != nil {
		t.Fatal(err)
	}

	for _, v := range []string{"foo", "bar", "baz"} {
		if !term.Matches(map[string]string{"env": v}) {
			t.Errorf("expected %q to match", v)
		}
	}
	if term.Matches(map[string]string{"env": "fooo"}) {
		t.Errorf("membership is exact, fooo must not match")
	}
}

func TestTerms(t *testing.T) {
	labels := map[string]string{
		"hostname": "test-host",
		"role":     "web",
		"rack":     "23",
	}

	cases := []struct {
		term string
		want bool
	}{
		{"hostname:test-host", true},
		{"hostname:test-host,test-host2", true},
		{"hostname:other-host,some-other-host", false},
		{"hostname:/test-/", true},
		{"hostname:/test-$/", false},
		{"missing:anything", false},
	}
	for _, c := range cases {
		term, err := Parse(c.term)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.term, err)
		}
		if got := term.Matches(labels); got != c.want {
			t.Errorf("%q: got %v, want %v", c.term, got, c.want)
		}
	}
}

func TestTerms_SpecExamples(t *testing.T) {
	term, err := Parse("hostname:/test-.*/")
	if err != nil {
		t.Fatal(err)
	}
	if !term.Matches(map[string]string{"hostname": "test-host2"}) {
		t.Errorf("hostname:/test-.*/ should match test-host2")
	}

	term, err = Parse("hostname:test-host")
	if err != nil {
		t.Fatal(err)
	}
	if term.Matches(map[string]string{"hostname": "other-host"}) {
		t.Errorf("hostname:test-host must not match other-host")
	}
}

func TestMatchAll(t *testing.T) {
	labels := map[string]string{"hostname": "web1", "role": "web"}

	t1, _ := Parse("hostname:web1,web2")
	t2, _ := Parse("role:web")
	t3, _ := Parse("role:db")

	if !MatchAll([]*Term{t1, t2}, labels) {
		t.Errorf("all matching terms should select")
	}
	if MatchAll([]*Term{t1, t3}, labels) {
		t.Errorf("one failing term must reject")
	}
	if !MatchAll(nil, labels) {
		t.Errorf("no terms selects everything")
	}
}

func TestParse_TrailingInput(t *testing.T) {
	if _, err := Parse("hostname:a,b extra"); err == nil {
		t.Errorf("trailing input should be rejected")
	}
}

package tagmatch

import (
	"strings"
	"testing"
)

func TestNewCompositeSeedsNameRules(t *testing.T) {
	foo := Input()
	bar := Input()
	c := NewComposite(Member{"2", foo}, Member{"3", bar})

	for _, tc := range []struct {
		m       *TagMatcher
		pattern string
	}{
		{foo, `\(2i\)`},
		{bar, `\(3i\)`},
	} {
		r, ok := tc.m.Attribute("name")
		if !ok {
			t.Fatalf("expected a name rule")
		}
		if r.Kind() != RegexRule || r.String() != "~/"+tc.pattern+"/" {
			t.Fatalf("expected name rule %s, got %s", tc.pattern, r)
		}
	}
	if len(c.Members()) != 2 {
		t.Fatalf("expected 2 members, got %d", len(c.Members()))
	}
}

func TestCompositeFor(t *testing.T) {
	year := Select()
	month := Select()
	c := NewComposite(Indexed(1, year), Indexed(2, month))
	if got := c.For("event", "start_date"); got != c {
		t.Fatalf("expected For to return the matcher itself")
	}

	tests := []struct {
		m        *TagMatcher
		expected string
	}{
		{year, "event[start_date(1i)]"},
		{month, "event[start_date(2i)]"},
	}
	for _, tc := range tests {
		r, _ := tc.m.Attribute("name")
		if !r.Evaluate(tc.expected, true) {
			t.Fatalf("expected name rule %s to accept %q", r, tc.expected)
		}
		if r.Evaluate(tc.expected+"x", true) {
			t.Fatalf("expected name rule %s to be exact", r)
		}
	}

	both := "<select name='event[start_date(1i)]'></select><select name='event[start_date(2i)]'></select>"
	runMatchCases(t, c, []matchCase{
		{both, true},
		{"<select name='event[start_date(1i)]'></select>", false},
		{"<select name='event[start_date(2i)]'></select>", false},
		{"<select name='event[end_date(1i)]'></select><select name='event[end_date(2i)]'></select>", false},
	})
}

func TestCompositeForKeyedPath(t *testing.T) {
	foo := Input()
	bar := Input()
	NewComposite(Member{"2", foo}, Member{"3", bar}).For(Nest("example", "foobar"))

	for _, tc := range []struct {
		m        *TagMatcher
		expected string
	}{
		{foo, `"example[foobar(2i)]"`},
		{bar, `"example[foobar(3i)]"`},
	} {
		r, _ := tc.m.Attribute("name")
		if r.String() != tc.expected {
			t.Fatalf("expected name %s, got %s", tc.expected, r)
		}
	}
}

func TestCompositeWithoutFor(t *testing.T) {
	c := NewComposite(Indexed(4, Select()), Indexed(5, Select()))
	runMatchCases(t, c, []matchCase{
		{"<select name='a(4i)'></select><select name='b(5i)'></select>", true},
		{"<select name='a(4i)'></select>", false},
		{"<select name='a(5i)'></select>", false},
	})
}

func TestCompositeMembersAreIndependent(t *testing.T) {
	c := NewComposite(Indexed(1, Select()), Indexed(2, Select())).For("d")
	// the selects don't share a parent
	doc := "<div><select name='d(1i)'></select></div><p><span><select name='d(2i)'></select></span></p>"
	if !c.Matches(Parse(doc)) {
		t.Fatalf("expected members in different subtrees to match")
	}
}

func TestCompositeFailureMessages(t *testing.T) {
	year := Select()
	month := Select()
	day := Select()
	c := NewComposite(Indexed(1, year), Indexed(2, month), Indexed(3, day)).For("event", "start_date")

	yearHTML := "<select name='event[start_date(1i)]'></select>"
	monthHTML := "<select name='event[start_date(2i)]'></select>"
	dayHTML := "<select name='event[start_date(3i)]'></select>"

	t.Run("all members match", func(t *testing.T) {
		doc := Parse(yearHTML + monthHTML + dayHTML)
		res := c.Match(doc)
		if !res.Matched() {
			t.Fatalf("expected a match")
		}
		if len(res.Failures()) != 0 {
			t.Fatalf("expected no failures, got %d", len(res.Failures()))
		}
		expected := strings.Join([]string{
			year.Match(doc).NegativeFailureMessage(),
			month.Match(doc).NegativeFailureMessage(),
		}, ", ") + ", and " + day.Match(doc).NegativeFailureMessage()
		if got := res.NegativeFailureMessage(); got != expected {
			t.Fatalf("unexpected negative failure message\n got: %q\nwant: %q", got, expected)
		}
	})

	t.Run("one member fails", func(t *testing.T) {
		doc := Parse(yearHTML + dayHTML)
		res := c.Match(doc)
		if res.Matched() {
			t.Fatalf("expected no match")
		}
		if len(res.Failures()) != 1 {
			t.Fatalf("expected 1 failure, got %d", len(res.Failures()))
		}
		expected := month.Match(doc).FailureMessage()
		if got := res.FailureMessage(); got != expected {
			t.Fatalf("unexpected failure message\n got: %q\nwant: %q", got, expected)
		}
	})

	t.Run("two members fail", func(t *testing.T) {
		doc := Parse(dayHTML)
		res := c.Match(doc)
		if res.Matched() {
			t.Fatalf("expected no match")
		}
		expected := year.Match(doc).FailureMessage() + " and " + month.Match(doc).FailureMessage()
		if got := res.FailureMessage(); got != expected {
			t.Fatalf("unexpected failure message\n got: %q\nwant: %q", got, expected)
		}
		if len(res.Members()) != 3 {
			t.Fatalf("expected 3 member results, got %d", len(res.Members()))
		}
	})
}

func TestCompositeReplace(t *testing.T) {
	c := NewComposite(Indexed(1, Select()), Indexed(2, Select())).For("d")
	if !c.Replace("2", HiddenInput()) {
		t.Fatalf("expected member 2 to be replaced")
	}
	if c.Replace("7", Input()) {
		t.Fatalf("expected no member 7")
	}
	m, ok := c.Member("2")
	if !ok || m.Name() != "input" {
		t.Fatalf("expected member 2 to be an input matcher")
	}
	runMatchCases(t, c, []matchCase{
		{"<select name='d(1i)'></select><input type='hidden' name='d(2i)'>", true},
		{"<select name='d(1i)'></select><select name='d(2i)'></select>", false},
	})
}

func TestCompositeDescription(t *testing.T) {
	c := NewComposite(Indexed(1, Select()), Indexed(2, Select()))
	expected := `have "select" tag with attribute name=~/\(1i\)/ and have "select" tag with attribute name=~/\(2i\)/`
	if got := c.Description(); got != expected {
		t.Fatalf("unexpected description\n got: %q\nwant: %q", got, expected)
	}
}

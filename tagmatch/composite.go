package tagmatch

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/jakopako/tagcheck/internal/sentence"
)

// A Member is one of the inputs of a composite field. Index identifies the
// input within the field, eg. "1" for the year of a Rails date_select.
type Member struct {
	Index   string
	Matcher *TagMatcher
}

// Indexed returns a member, converting index to a string.
func Indexed(index any, m *TagMatcher) Member {
	return Member{Index: fmt.Sprint(index), Matcher: m}
}

// CompositeMatcher matches a form field rendered as several inputs that
// share a positional naming convention: the input at index i is named
// "<field>(<i>i)", eg. "event[start_date(1i)]". Every member is evaluated
// on its own against the whole document; the members don't need to share a
// parent element.
type CompositeMatcher struct {
	members []Member
	// the flattened path given to For, nil if For was not called
	path []string
}

// NewComposite returns a composite matcher. Every member matcher gets a rule
// requiring its name attribute to contain "(<index>i)".
func NewComposite(members ...Member) *CompositeMatcher {
	c := &CompositeMatcher{}
	for _, m := range members {
		c.members = append(c.members, c.seed(m))
	}
	return c
}

func (c *CompositeMatcher) seed(m Member) Member {
	m.Matcher.WithAttribute("name", Regex(indexPattern(m.Index)))
	if c.path != nil {
		m.Matcher.For(indexedPath(c.path, m.Index))
	}
	return m
}

func indexPattern(index string) *regexp.Regexp {
	return regexp.MustCompile(`\(` + regexp.QuoteMeta(index) + `i\)`)
}

// indexedPath returns a copy of path with "(<index>i)" appended to its last
// segment.
func indexedPath(path []string, index string) []string {
	p := slices.Clone(path)
	if len(p) == 0 {
		p = []string{""}
	}
	p[len(p)-1] += "(" + index + "i)"
	return p
}

// Members returns the members in the order they were given.
func (c *CompositeMatcher) Members() []Member {
	return c.members
}

// Member returns the matcher of the member with the given index.
func (c *CompositeMatcher) Member(index string) (*TagMatcher, bool) {
	for _, m := range c.members {
		if m.Index == index {
			return m.Matcher, true
		}
	}
	return nil, false
}

// Replace swaps the matcher of the member with the given index. The new
// matcher is seeded like the ones given to NewComposite, including a name
// path set with For. It reports whether such a member exists.
func (c *CompositeMatcher) Replace(index string, m *TagMatcher) bool {
	for i, mem := range c.members {
		if mem.Index == index {
			c.members[i] = c.seed(Member{Index: index, Matcher: m})
			return true
		}
	}
	return false
}

// For sets the field name of every member. The member's index is appended to
// the last segment of path before it is passed on to the member's For:
//
//	NewComposite(Indexed(4, Select()), Indexed(5, Select())).For("event", "start_time")
//	// hour:   Select().For("event", "start_time(4i)")
//	// minute: Select().For("event", "start_time(5i)")
func (c *CompositeMatcher) For(path ...any) *CompositeMatcher {
	c.path = Flatten(path...)
	for _, m := range c.members {
		m.Matcher.For(indexedPath(c.path, m.Index))
	}
	return c
}

// Path returns the flattened path given to For.
func (c *CompositeMatcher) Path() []string {
	return c.path
}

// Match evaluates every member against doc. The document matches if every
// member matches. The failed members are available from the result.
func (c *CompositeMatcher) Match(doc *Document) *Result {
	return c.match(doc, c.Description(), false)
}

func (c *CompositeMatcher) match(doc *Document, description string, summarize bool) *Result {
	res := &Result{
		description: description,
		doc:         doc,
		members:     make([]*Result, 0, len(c.members)),
		failures:    []*Result{},
		summarize:   summarize,
	}
	for _, m := range c.members {
		mr := m.Matcher.Match(doc)
		res.members = append(res.members, mr)
		if !mr.Matched() {
			res.failures = append(res.failures, mr)
		}
	}
	res.matched = len(res.failures) == 0
	return res
}

// Matches is a shorthand for c.Match(doc).Matched().
func (c *CompositeMatcher) Matches(doc *Document) bool {
	return c.Match(doc).Matched()
}

// Description joins the descriptions of all members.
func (c *CompositeMatcher) Description() string {
	descs := make([]string, 0, len(c.members))
	for _, m := range c.members {
		descs = append(descs, m.Matcher.Description())
	}
	return sentence.Join(descs...)
}

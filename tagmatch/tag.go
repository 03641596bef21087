// Package tagmatch provides declarative matchers asserting that rendered HTML
// contains elements with a given tag name, attributes and occurrence count,
// and composite matchers for form fields rendered as several inputs (like the
// year, month and day drop-downs of a date picker).
//
// A matcher is configured once and can then be evaluated against any number
// of documents:
//
//	m := tagmatch.Tag("a").WithAttribute("href", tagmatch.Exact("/"))
//	res := m.Match(tagmatch.Parse(`<a href="/">home</a>`))
//	if !res.Matched() {
//		fmt.Println(res.FailureMessage())
//	}
package tagmatch

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jakopako/tagcheck/internal/sentence"
)

// Criteria is an arbitrary test on a candidate element. The selection passed
// in always contains exactly one element.
type Criteria func(element *goquery.Selection) bool

// Attr names an attribute rule.
type Attr struct {
	Name string
	Rule Rule
}

// TagMatcher matches elements by tag name and narrows them down by attribute
// rules, custom criteria and an optional exact count. All of a matcher's
// constraints have to be satisfied by the same element.
//
// Configuration methods modify the matcher and return it for chaining.
// Evaluating a matcher does not modify it, so a configured matcher can be
// used from several goroutines.
type TagMatcher struct {
	name      string
	attrOrder []string
	attrs     map[string]Rule
	criteria  []Criteria
	count     int
	hasCount  bool
}

// Tag returns a matcher for elements named name (case insensitive).
func Tag(name string) *TagMatcher {
	return &TagMatcher{
		name:  strings.ToLower(name),
		attrs: map[string]Rule{},
	}
}

// NewTagMatcher is an alias of Tag.
func NewTagMatcher(name string) *TagMatcher {
	return Tag(name)
}

// Name returns the lower cased tag name.
func (m *TagMatcher) Name() string {
	return m.name
}

// WithAttribute adds a rule for the attribute name (case insensitive). A rule
// for the same attribute that was added before is replaced.
func (m *TagMatcher) WithAttribute(name string, rule Rule) *TagMatcher {
	key := strings.ToLower(name)
	if _, found := m.attrs[key]; !found {
		m.attrOrder = append(m.attrOrder, key)
	}
	m.attrs[key] = rule
	return m
}

// WithAttributes adds several attribute rules at once.
func (m *TagMatcher) WithAttributes(attrs ...Attr) *TagMatcher {
	for _, a := range attrs {
		m.WithAttribute(a.Name, a.Rule)
	}
	return m
}

// Attribute returns the rule configured for the attribute name.
func (m *TagMatcher) Attribute(name string) (Rule, bool) {
	r, ok := m.attrs[strings.ToLower(name)]
	return r, ok
}

// WithCriteria adds custom criteria. Every criteria has to return true for an
// element to match.
func (m *TagMatcher) WithCriteria(criteria ...Criteria) *TagMatcher {
	m.criteria = append(m.criteria, criteria...)
	return m
}

// WithCount requires exactly n matching elements instead of at least one.
func (m *TagMatcher) WithCount(n int) *TagMatcher {
	if n < 0 {
		panic(fmt.Sprintf("tagmatch: count must not be negative, got %d", n))
	}
	m.count = n
	m.hasCount = true
	return m
}

// Count returns the exact count constraint, if any.
func (m *TagMatcher) Count() (int, bool) {
	return m.count, m.hasCount
}

// For requires the name attribute to be the field name built from path. See
// BuildName for the accepted path elements.
//
//	Input().For("user", "name") // matches <input name="user[name]">
func (m *TagMatcher) For(path ...any) *TagMatcher {
	return m.WithAttribute("name", Exact(BuildName(path...)))
}

// WithValue adds a rule for the value attribute.
func (m *TagMatcher) WithValue(rule Rule) *TagMatcher {
	return m.WithAttribute("value", rule)
}

// Select returns the elements of doc that satisfy every attribute rule and
// criteria. The count constraint is not applied.
func (m *TagMatcher) Select(doc *Document) *goquery.Selection {
	return doc.elements(m.name).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return m.matchesAttributes(s) && m.matchesCriteria(s)
	})
}

// Match evaluates the matcher against doc. Without a count constraint the
// document matches if at least one element qualifies, with a count constraint
// the number of qualifying elements has to be exactly that count.
func (m *TagMatcher) Match(doc *Document) *Result {
	n := m.Select(doc).Length()
	matched := n > 0
	if m.hasCount {
		matched = n == m.count
	}
	return &Result{
		matched:     matched,
		description: m.Description(),
		doc:         doc,
	}
}

// MatchString parses s and evaluates the matcher against it.
func (m *TagMatcher) MatchString(s string) *Result {
	return m.Match(Parse(s))
}

// Matches is a shorthand for m.Match(doc).Matched().
func (m *TagMatcher) Matches(doc *Document) bool {
	return m.Match(doc).Matched()
}

// Description returns a sentence describing the matcher, eg.
//
//	have "foo" tag with attribute bar=anything and without attribute baz
func (m *TagMatcher) Description() string {
	parts := []string{fmt.Sprintf("have %q tag", m.name)}
	if attrs := m.attributesDescription(); attrs != "" {
		parts = append(parts, attrs)
	}
	if m.hasCount {
		parts = append(parts, times(m.count))
	}
	return strings.Join(parts, " ")
}

func (m *TagMatcher) attributesDescription() string {
	var with, without []string
	for _, name := range m.attrOrder {
		r := m.attrs[name]
		if r.requiresPresence() {
			with = append(with, name+"="+r.String())
		} else {
			without = append(without, name)
		}
	}
	return sentence.Join(attributeGroup("with", with), attributeGroup("without", without))
}

func attributeGroup(preposition string, attrs []string) string {
	switch len(attrs) {
	case 0:
		return ""
	case 1:
		return preposition + " attribute " + attrs[0]
	}
	return preposition + " attributes " + sentence.Join(attrs...)
}

func times(n int) string {
	if n == 1 {
		return "1 time"
	}
	return fmt.Sprintf("%d times", n)
}

func (m *TagMatcher) matchesAttributes(s *goquery.Selection) bool {
	for name, rule := range m.attrs {
		value, present := s.Attr(name)
		if !rule.Evaluate(value, present) {
			return false
		}
	}
	return true
}

func (m *TagMatcher) matchesCriteria(s *goquery.Selection) bool {
	for _, c := range m.criteria {
		if !c(s) {
			return false
		}
	}
	return true
}

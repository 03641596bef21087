package tagmatch

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/goodsign/monday"
	"github.com/jakopako/tagcheck/internal/sentence"
)

// Parts of date and time selects and the index of their input.
const (
	PartYear   = "year"
	PartMonth  = "month"
	PartDay    = "day"
	PartHour   = "hour"
	PartMinute = "minute"
)

type part struct {
	name  string
	index string
}

var (
	dateParts = []part{{PartYear, "1"}, {PartMonth, "2"}, {PartDay, "3"}}
	timeParts = []part{{PartHour, "4"}, {PartMinute, "5"}}
)

// SelectGroupMatcher matches the drop-downs rendered for a date or time
// field. Its failure messages use its own description rather than the
// descriptions of the individual drop-downs.
type SelectGroupMatcher struct {
	*CompositeMatcher
	label       string
	parts       []part
	discarded   []string
	monthLocale monday.Locale
}

// DateSelect matches the year, month and day drop-downs of a date field,
// named "<field>(1i)", "<field>(2i)" and "<field>(3i)".
func DateSelect() *SelectGroupMatcher {
	return newSelectGroup("date select", dateParts)
}

// TimeSelect matches the hour and minute drop-downs of a time field, named
// "<field>(4i)" and "<field>(5i)". A seconds drop-down may be present too.
func TimeSelect() *SelectGroupMatcher {
	return newSelectGroup("time select", timeParts)
}

func newSelectGroup(label string, parts []part) *SelectGroupMatcher {
	members := make([]Member, 0, len(parts))
	for _, p := range parts {
		members = append(members, Member{Index: p.index, Matcher: Select()})
	}
	return &SelectGroupMatcher{
		CompositeMatcher: NewComposite(members...),
		label:            label,
		parts:            parts,
	}
}

// For sets the field name, see CompositeMatcher.For.
func (g *SelectGroupMatcher) For(path ...any) *SelectGroupMatcher {
	g.CompositeMatcher.For(path...)
	return g
}

// Discard expects the given parts to be rendered as hidden inputs instead of
// drop-downs, the way date_select does with its :discard_* options. It panics
// on parts the group doesn't have.
func (g *SelectGroupMatcher) Discard(parts ...string) *SelectGroupMatcher {
	for _, name := range parts {
		p, ok := g.part(name)
		if !ok {
			panic(fmt.Sprintf("tagmatch: %s has no part %q", g.label, name))
		}
		if slices.Contains(g.discarded, p.name) {
			continue
		}
		g.discarded = append(g.discarded, p.name)
		g.Replace(p.index, HiddenInput())
		if p.name == PartMonth {
			// a hidden month has no options to check
			g.monthLocale = ""
		}
	}
	return g
}

// WithMonthNames requires the month drop-down to offer every month by its
// full name in the given locale, eg. monday.LocaleDeDE for "Januar". It
// panics if the group has no month or the month was discarded.
func (g *SelectGroupMatcher) WithMonthNames(locale monday.Locale) *SelectGroupMatcher {
	p, ok := g.part(PartMonth)
	if !ok {
		panic(fmt.Sprintf("tagmatch: %s has no month", g.label))
	}
	if slices.Contains(g.discarded, PartMonth) {
		panic(fmt.Sprintf("tagmatch: %s has a discarded month without options", g.label))
	}
	g.monthLocale = locale
	if m, found := g.Member(p.index); found {
		m.WithCriteria(hasMonthOptions(locale))
	}
	return g
}

// Parts returns the names of the group's parts, eg. year, month and day.
func (g *SelectGroupMatcher) Parts() []string {
	names := make([]string, 0, len(g.parts))
	for _, p := range g.parts {
		names = append(names, p.name)
	}
	return names
}

func (g *SelectGroupMatcher) part(name string) (part, bool) {
	for _, p := range g.parts {
		if p.name == strings.ToLower(name) {
			return p, true
		}
	}
	return part{}, false
}

// Match evaluates every drop-down against doc.
func (g *SelectGroupMatcher) Match(doc *Document) *Result {
	return g.match(doc, g.Description(), true)
}

// Matches is a shorthand for g.Match(doc).Matched().
func (g *SelectGroupMatcher) Matches(doc *Document) bool {
	return g.Match(doc).Matched()
}

// Description returns eg. "have date select for event.start_date without day or month".
func (g *SelectGroupMatcher) Description() string {
	parts := []string{"have " + g.label}
	if len(g.Path()) > 0 {
		parts = append(parts, "for "+strings.Join(g.Path(), "."))
	}
	if g.monthLocale != "" {
		parts = append(parts, fmt.Sprintf("with %s month names", g.monthLocale))
	}
	if len(g.discarded) > 0 {
		parts = append(parts, "without "+sentence.JoinWith("or", g.discarded...))
	}
	return strings.Join(parts, " ")
}

func hasMonthOptions(locale monday.Locale) Criteria {
	return func(s *goquery.Selection) bool {
		options := map[string]bool{}
		s.Find("option").Each(func(_ int, o *goquery.Selection) {
			options[strings.TrimSpace(o.Text())] = true
		})
		for m := time.January; m <= time.December; m++ {
			name := monday.Format(time.Date(2000, m, 1, 0, 0, 0, 0, time.UTC), "January", locale)
			if !options[name] {
				return false
			}
		}
		return true
	}
}

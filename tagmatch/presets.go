package tagmatch

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Input matches <input> elements.
func Input() *TagMatcher {
	return Tag("input")
}

// Select matches <select> elements.
func Select() *TagMatcher {
	return Tag("select")
}

// Checkbox matches <input type="checkbox"> elements, the type compared
// ignoring case.
func Checkbox() *TagMatcher {
	return Input().WithAttribute("type", TokenOf("checkbox"))
}

// HiddenInput matches <input type="hidden"> elements.
func HiddenInput() *TagMatcher {
	return Input().WithAttribute("type", TokenOf("hidden"))
}

// Checked requires the checked attribute. A bare checked, checked="checked"
// and checked="1" all count.
func (m *TagMatcher) Checked() *TagMatcher {
	return m.WithAttribute("checked", Present())
}

// NotChecked requires the checked attribute to be missing.
func (m *TagMatcher) NotChecked() *TagMatcher {
	return m.WithAttribute("checked", Absent())
}

// Form matches <form> elements.
func Form() *TagMatcher {
	return Tag("form")
}

// WithAction adds a rule for the action attribute.
func (m *TagMatcher) WithAction(rule Rule) *TagMatcher {
	return m.WithAttribute("action", rule)
}

// hidden input used by Rails and friends to tunnel verbs other than GET and
// POST through a form
var methodOverride = cascadia.MustCompile(`input[type=hidden][name=_method]`)

// WithVerb requires the HTTP verb submitted by the form to be verb (case
// insensitive). A hidden _method input inside the form takes precedence over
// the method attribute.
func (m *TagMatcher) WithVerb(verb string) *TagMatcher {
	rule := TokenOf(verb)
	return m.WithCriteria(func(form *goquery.Selection) bool {
		method, ok := formMethod(form)
		return rule.Evaluate(method, ok)
	})
}

func formMethod(form *goquery.Selection) (string, bool) {
	override := form.FindMatcher(methodOverride).First()
	if v, ok := override.Attr("value"); ok {
		return v, true
	}
	return form.Attr("method")
}

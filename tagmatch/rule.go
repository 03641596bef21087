package tagmatch

import (
	"fmt"
	"regexp"
)

// RuleKind enumerates the ways an attribute can be matched.
type RuleKind int

const (
	// ExactRule requires the attribute value to be identical to the expected string.
	ExactRule RuleKind = iota
	// TokenRule requires the whole attribute value to match, ignoring case.
	TokenRule
	// RegexRule requires the attribute value to match a regular expression anywhere.
	RegexRule
	// PresentRule requires the attribute to exist, whatever its value.
	PresentRule
	// AbsentRule requires the attribute to not exist.
	AbsentRule
)

// Token is a symbolic attribute value. When passed to RuleFor it produces a
// case insensitive, anchored rule, eg. Token("checkbox") matches "CHECKBOX"
// but not "checkboxer".
type Token string

// A Rule describes what an attribute of a matched element has to look like.
// The zero value is an exact rule for the empty string.
type Rule struct {
	kind     RuleKind
	expected string
	re       *regexp.Regexp
}

// Exact returns a rule matching the attribute value exactly (case sensitive).
func Exact(value string) Rule {
	return Rule{kind: ExactRule, expected: value}
}

// TokenOf returns a rule matching the whole attribute value ignoring case.
func TokenOf(value string) Rule {
	return Rule{
		kind:     TokenRule,
		expected: value,
		re:       regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(value) + `$`),
	}
}

// Regex returns a rule matching the attribute value against re (unanchored).
func Regex(re *regexp.Regexp) Rule {
	if re == nil {
		panic("tagmatch: regex rule needs a compiled regexp, got nil")
	}
	return Rule{kind: RegexRule, expected: re.String(), re: re}
}

// MustRegex compiles expr and returns a regex rule. It panics if expr is invalid.
func MustRegex(expr string) Rule {
	return Regex(regexp.MustCompile(expr))
}

// Present returns a rule that only requires the attribute to exist.
func Present() Rule {
	return Rule{kind: PresentRule}
}

// Absent returns a rule that requires the attribute to be missing.
func Absent() Rule {
	return Rule{kind: AbsentRule}
}

// RuleFor converts a loosely typed expected value into a Rule:
//
//	string          exact match
//	Token           case insensitive, anchored match
//	*regexp.Regexp  regular expression match
//	true            attribute must exist
//	false           attribute must not exist
//	Rule            used as is
//
// Any other type results in an error naming that type.
func RuleFor(expected any) (Rule, error) {
	switch v := expected.(type) {
	case Rule:
		return v, nil
	case string:
		return Exact(v), nil
	case Token:
		return TokenOf(string(v)), nil
	case *regexp.Regexp:
		if v == nil {
			return Rule{}, fmt.Errorf("unsupported attribute value: nil %T", v)
		}
		return Regex(v), nil
	case bool:
		if v {
			return Present(), nil
		}
		return Absent(), nil
	default:
		return Rule{}, fmt.Errorf("unsupported attribute value of type %T: expected string, tagmatch.Token, *regexp.Regexp or bool", expected)
	}
}

// MustRule is like RuleFor but panics if expected has an unsupported type.
func MustRule(expected any) Rule {
	r, err := RuleFor(expected)
	if err != nil {
		panic(err)
	}
	return r
}

// Kind returns the kind of the rule.
func (r Rule) Kind() RuleKind {
	return r.kind
}

// Evaluate reports whether an attribute satisfies the rule. present tells
// whether the attribute exists at all; value is ignored if it doesn't.
// Attributes without a value (eg. a bare checked) are present with an empty value.
func (r Rule) Evaluate(value string, present bool) bool {
	switch r.kind {
	case PresentRule:
		return present
	case AbsentRule:
		return !present
	}
	if !present {
		return false
	}
	switch r.kind {
	case TokenRule, RegexRule:
		return r.re.MatchString(value)
	default:
		return value == r.expected
	}
}

// requiresPresence is true for every rule that is described in the
// "with attribute" group. Only absence rules end up in "without attribute".
func (r Rule) requiresPresence() bool {
	return r.kind != AbsentRule
}

// String renders the expected value the way it appears in descriptions.
func (r Rule) String() string {
	switch r.kind {
	case TokenRule:
		return ":" + r.expected
	case RegexRule:
		return "~/" + r.expected + "/"
	case PresentRule:
		return "anything"
	case AbsentRule:
		return ""
	default:
		return fmt.Sprintf("%q", r.expected)
	}
}

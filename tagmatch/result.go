package tagmatch

import (
	"fmt"

	"github.com/jakopako/tagcheck/internal/sentence"
)

// A Matcher checks a document for the presence of elements.
type Matcher interface {
	// Match evaluates the matcher against doc.
	Match(doc *Document) *Result
	// Description says what the matcher expects, eg. `have "a" tag with attribute href="/"`.
	Description() string
}

// A Result is the outcome of evaluating a matcher against a document. It
// carries everything needed to explain the outcome, so matchers themselves
// stay free of evaluation state.
type Result struct {
	matched     bool
	description string
	doc         *Document

	// only set for composite matchers
	members  []*Result
	failures []*Result
	// labelled composites explain themselves with their own description
	// instead of listing their members' messages
	summarize bool
}

// Matched reports whether the document satisfied the matcher.
func (r *Result) Matched() bool {
	return r.matched
}

// Description returns the description of the matcher that produced r.
func (r *Result) Description() string {
	return r.description
}

// Input returns the evaluated document in textual form.
func (r *Result) Input() string {
	r.mustBeEvaluated()
	return r.doc.String()
}

// Members returns the results of every member of a composite matcher in
// member order. It is empty for single tag matchers.
func (r *Result) Members() []*Result {
	return r.members
}

// Failures returns the results of the members of a composite matcher that
// did not match.
func (r *Result) Failures() []*Result {
	return r.failures
}

// FailureMessage explains why a match was expected but didn't happen.
func (r *Result) FailureMessage() string {
	r.mustBeEvaluated()
	if r.members == nil || r.summarize {
		return fmt.Sprintf("expected document to %s; got: %s", r.description, r.doc)
	}
	msgs := make([]string, 0, len(r.failures))
	for _, f := range r.failures {
		msgs = append(msgs, f.FailureMessage())
	}
	return sentence.Join(msgs...)
}

// NegativeFailureMessage explains why no match was expected but one happened.
func (r *Result) NegativeFailureMessage() string {
	r.mustBeEvaluated()
	if r.members == nil || r.summarize {
		return fmt.Sprintf("expected document to not %s; got: %s", r.description, r.doc)
	}
	msgs := make([]string, 0, len(r.members))
	for _, m := range r.members {
		msgs = append(msgs, m.NegativeFailureMessage())
	}
	return sentence.Join(msgs...)
}

// Message returns the message matching the outcome: the failure message if
// the result was expected to match but didn't, the negative one if it was
// expected not to match but did, and "" otherwise.
func (r *Result) Message(negate bool) string {
	switch {
	case !negate && !r.matched:
		return r.FailureMessage()
	case negate && r.matched:
		return r.NegativeFailureMessage()
	}
	return ""
}

func (r *Result) mustBeEvaluated() {
	if r == nil || r.doc == nil {
		panic("tagmatch: failure message requested from a result that was not produced by evaluating a matcher")
	}
}

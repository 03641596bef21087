// Package types defines shared types used across the application.
package types

// CheckResult is the outcome of running one check of a suite.
type CheckResult struct {
	Name        string `json:"name"`
	Document    string `json:"document"`
	Description string `json:"description"`
	Negated     bool   `json:"negated,omitempty"`
	Passed      bool   `json:"passed"`
	// Message explains a failed check, empty if it passed.
	Message string `json:"message,omitempty"`
	// Hint suggests a fix, eg. a similar tag name that was found in the document.
	Hint string `json:"hint,omitempty"`
}

// Summary counts the results of a suite run.
type Summary struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// Add counts r.
func (s *Summary) Add(r CheckResult) {
	s.Total++
	if r.Passed {
		s.Passed++
	} else {
		s.Failed++
	}
}

package suite

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jakopako/tagcheck/internal/fetch"
	"github.com/jakopako/tagcheck/internal/types"
	"github.com/jakopako/tagcheck/tagmatch"
	"gopkg.in/yaml.v3"
)

func run(t *testing.T, config *Config, name string) ([]types.CheckResult, error) {
	t.Helper()
	f, err := fetch.NewFetcher(&config.Fetcher)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Cancel()

	resultChan := make(chan types.CheckResult, len(config.Checks))
	err = NewRunner(config, f).Run(context.Background(), name, resultChan)
	close(resultChan)
	results := []types.CheckResult{}
	for r := range resultChan {
		results = append(results, r)
	}
	return results, err
}

func TestRunSuite(t *testing.T) {
	config, err := NewConfigFromFile("testdata/suite.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, err := run(t, config, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(config.Checks) {
		t.Fatalf("expected %d results, got %d", len(config.Checks), len(results))
	}
	for i, r := range results {
		if r.Name != config.Checks[i].Name {
			t.Errorf("expected results in suite order, got %s at %d", r.Name, i)
		}
		if !r.Passed {
			t.Errorf("check %s failed: %s", r.Name, r.Message)
		}
	}
}

func TestRunSingleCheck(t *testing.T) {
	config, err := NewConfigFromFile("testdata/suite.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, err := run(t, config, "login form")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Name != "login form" || !results[0].Passed {
		t.Errorf("unexpected results %+v", results)
	}

	if _, err := run(t, config, "logout form"); !errors.Is(err, ErrCheckNotFound) {
		t.Errorf("expected ErrCheckNotFound, got %v", err)
	}
}

func TestRunFailures(t *testing.T) {
	const page = `<imput name="q"><form method="get"></form>`
	var checks []Check
	err := yaml.Unmarshal([]byte(`
- name: search input
  document: page
  preset: input
- name: no get form
  document: page
  preset: form
  verb: get
  negate: true
- document: page
  tag: form
`), &checks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	config := &Config{
		Fetcher:   fetch.FetcherConfig{Type: fetch.MOCK_FETCHER_TYPE},
		Documents: []DocumentConfig{{Name: "page", HTML: page}},
		Checks:    checks,
	}

	results, err := run(t, config, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []types.CheckResult{
		{
			Name:        "search input",
			Document:    "page",
			Description: `have "input" tag`,
			Message:     `expected document to have "input" tag; got: ` + page,
			Hint:        `did you mean "imput"?`,
		},
		{
			Name:        "no get form",
			Document:    "page",
			Description: `have "form" tag`,
			Negated:     true,
			Message:     `expected document to not have "form" tag; got: ` + page,
		},
		{
			Name:        `have "form" tag`,
			Document:    "page",
			Description: `have "form" tag`,
			Passed:      true,
		},
	}
	if diff := cmp.Diff(expected, results); diff != "" {
		t.Errorf("unexpected results (-want +got):\n%s", diff)
	}
}

func TestRunDocumentError(t *testing.T) {
	config := &Config{
		Fetcher: fetch.FetcherConfig{Type: fetch.MOCK_FETCHER_TYPE},
		Documents: []DocumentConfig{
			{Name: "remote", URL: "https://example.org/missing"},
			{Name: "local", File: "testdata/missing.html"},
		},
		Checks: []Check{{Document: "remote", Tag: "p"}, {Document: "local", Tag: "p"}},
	}
	if _, err := run(t, config, ""); err == nil {
		t.Errorf("expected an error for documents that can't be loaded")
	}
}

func TestRunBuildError(t *testing.T) {
	config := &Config{
		Documents: []DocumentConfig{{Name: "page", HTML: "<p></p>"}},
		Checks:    []Check{{Name: "broken", Document: "page", Preset: "button"}},
	}
	_, err := run(t, config, "")
	if err == nil || err.Error() != `check broken: unknown preset "button", must be one of [tag, input, select, checkbox, form, date_select, time_select]` {
		t.Errorf("unexpected error %v", err)
	}
}

func TestLoadDocuments(t *testing.T) {
	config, err := NewConfigFromFile("testdata/suite.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, err := fetch.NewFetcher(&config.Fetcher)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	docs, err := NewRunner(config, f).LoadDocuments(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range []string{"signup", "login", "inline"} {
		if docs[name] == nil {
			t.Errorf("document %s was not loaded", name)
		}
	}
	if _, err := NewRunner(config, f).LoadDocuments(context.Background(), "other"); err == nil {
		t.Errorf("expected an error for an unknown document")
	}
}

func TestSuggestTag(t *testing.T) {
	tests := []struct {
		html     string
		tag      string
		expected string
	}{
		{`<imput>`, "input", `did you mean "imput"?`},
		{`<from></from>`, "form", `did you mean "from"?`},
		{`<input>`, "input", ""},
		{`<table></table>`, "input", ""},
	}

	for _, tt := range tests {
		doc := tagmatch.Parse(tt.html)
		if got := suggestTag(doc, tt.tag); got != tt.expected {
			t.Errorf("suggestTag(%q, %q) = %q; want %q", tt.html, tt.tag, got, tt.expected)
		}
	}
}

func TestRunLoadsSharedDocumentOnce(t *testing.T) {
	const url = "https://example.org/signup"
	config := &Config{
		Fetcher: fetch.FetcherConfig{
			Type:      fetch.MOCK_FETCHER_TYPE,
			MockPages: []fetch.MockPage{{Url: url, Content: "<form><input name='q'></form>"}},
		},
		Concurrency: 2,
		Documents:   []DocumentConfig{{Name: "signup", URL: url}},
		Checks:      []Check{{Document: "signup", Tag: "form"}, {Document: "signup", Preset: "input"}},
	}
	f := fetch.NewMockFetcher(&config.Fetcher)

	resultChan := make(chan types.CheckResult, len(config.Checks))
	if err := NewRunner(config, f).Run(context.Background(), "", resultChan); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	close(resultChan)
	for r := range resultChan {
		if !r.Passed {
			t.Errorf("check %s failed: %s", r.Name, r.Message)
		}
	}
	if got := f.Fetches(url); got != 1 {
		t.Errorf("expected the shared document to be fetched once, got %d", got)
	}
}

package output

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jakopako/tagcheck/internal/types"
)

var testResults = []types.CheckResult{
	{
		Name:        "terms checkbox",
		Document:    "signup",
		Description: `have "input" tag with attribute type=:checkbox`,
		Passed:      true,
	},
	{
		Name:        "signup form",
		Document:    "signup",
		Description: `have "form" tag with attribute action="/signup"`,
		Message:     `expected document to have "form" tag with attribute action="/signup"; got: <form action="/login"></form>`,
		Hint:        `did you mean "from"?`,
	},
}

func send(results []types.CheckResult) <-chan types.CheckResult {
	c := make(chan types.CheckResult, len(results))
	for _, r := range results {
		c <- r
	}
	close(c)
	return c
}

func TestNewWriter(t *testing.T) {
	tests := []struct {
		wc        WriterConfig
		expectErr bool
	}{
		{WriterConfig{}, false},
		{WriterConfig{Type: STDOUT_WRITER_TYPE}, false},
		{WriterConfig{Type: FILE_WRITER_TYPE, FileDir: t.TempDir()}, false},
		{WriterConfig{Type: FILE_WRITER_TYPE}, true},
		{WriterConfig{Type: API_WRITER_TYPE, Uri: "http://localhost"}, false},
		{WriterConfig{Type: API_WRITER_TYPE}, true},
		{WriterConfig{Type: "printer"}, true},
	}

	for _, tt := range tests {
		_, err := NewWriter(&tt.wc)
		if (err != nil) != tt.expectErr {
			t.Errorf("NewWriter(%+v) error = %v; expected error: %v", tt.wc, err, tt.expectErr)
		}
	}
}

func TestStdoutWriter(t *testing.T) {
	tests := []struct {
		verbose     bool
		contains    []string
		notContains []string
	}{
		{
			verbose:     false,
			contains:    []string{"signup form", "FAIL", `got: <form action="/login"></form>`, `hint: did you mean "from"?`},
			notContains: []string{"terms checkbox"},
		},
		{
			verbose:  true,
			contains: []string{"signup form", "terms checkbox", "pass", "FAIL"},
		},
	}

	for _, tt := range tests {
		buf := &bytes.Buffer{}
		w := NewStdoutWriter(&WriterConfig{Verbose: tt.verbose})
		w.out = buf
		if err := w.Write(send(testResults)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()
		for _, s := range tt.contains {
			if !strings.Contains(out, s) {
				t.Errorf("verbose=%v: expected output to contain %q, got:\n%s", tt.verbose, s, out)
			}
		}
		for _, s := range tt.notContains {
			if strings.Contains(out, s) {
				t.Errorf("verbose=%v: expected output to not contain %q, got:\n%s", tt.verbose, s, out)
			}
		}
	}
}

func TestFileWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	w, err := NewFileWriter(&WriterConfig{FileDir: dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Write(send(testResults)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, resultsFilename))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), `<form action=\"/login\"></form>`) {
		t.Errorf("expected html in messages to stay unescaped, got:\n%s", data)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := Report{
		Summary: types.Summary{Total: 2, Passed: 1, Failed: 1},
		Results: testResults,
	}
	if diff := cmp.Diff(expected, report); diff != "" {
		t.Errorf("unexpected report (-want +got):\n%s", diff)
	}
}

func TestAPIWriter(t *testing.T) {
	var got Report
	var user, password string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, password, _ = r.BasicAuth()
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	w, err := NewAPIWriter(&WriterConfig{Uri: srv.URL, User: "ci", Password: "secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Write(send(testResults)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != "ci" || password != "secret" {
		t.Errorf("unexpected credentials %q:%q", user, password)
	}
	if got.Summary.Failed != 1 || len(got.Results) != 2 {
		t.Errorf("unexpected report %+v", got)
	}
}

func TestAPIWriterErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	w, err := NewAPIWriter(&WriterConfig{Uri: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Write(send(testResults)); err == nil {
		t.Errorf("expected an error for status 500")
	}
}

package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jakopako/tagcheck/internal/log"
)

// ErrPageNotFound is returned by the MockFetcher for URLs it has no page for.
var ErrPageNotFound = errors.New("page not found")

// The MockFetcher serves the pages of FetcherConfig.MockPages so suites run
// without network access. URLs are matched ignoring a trailing slash. It
// counts the fetches per URL, which shows whether a document shared by
// several checks was loaded only once.
type MockFetcher struct {
	*FetcherConfig
	pages map[string]MockPage

	mu      sync.Mutex
	fetches map[string]int
}

func NewMockFetcher(fc *FetcherConfig) *MockFetcher {
	mf := &MockFetcher{
		FetcherConfig: fc,
		pages:         map[string]MockPage{},
		fetches:       map[string]int{},
	}
	for _, p := range fc.MockPages {
		mf.pages[mockKey(p.Url)] = p
	}
	return mf
}

func mockKey(url string) string {
	return strings.TrimSuffix(url, "/")
}

func (m *MockFetcher) Fetch(ctx context.Context, url string) (string, error) {
	key := mockKey(url)
	m.mu.Lock()
	m.fetches[key]++
	m.mu.Unlock()

	p, ok := m.pages[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrPageNotFound, url)
	}
	if p.Status != 0 && p.Status != 200 {
		return "", &StatusError{URL: url, Status: p.Status}
	}
	if log.Debug {
		writeHTMLToFile(ctx, url, p.Content, m.DebugDir)
	}
	return p.Content, nil
}

// Fetches returns how often url was fetched.
func (m *MockFetcher) Fetches(url string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetches[mockKey(url)]
}

// Cancel is a no-op, the MockFetcher holds no resources.
func (m *MockFetcher) Cancel() {}

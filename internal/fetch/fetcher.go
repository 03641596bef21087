// Package fetch loads the HTML of the documents a suite checks.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"

	"github.com/jakopako/tagcheck/internal/log"
	"github.com/jakopako/tagcheck/internal/utils"
)

// A Fetcher returns the HTML of the page at a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
	// Cancel releases resources held by the fetcher, eg. a browser.
	Cancel()
}

// FetcherType selects the Fetcher implementation, see the constants below.
type FetcherType string

const (
	STATIC_FETCHER_TYPE  FetcherType = "static"
	DYNAMIC_FETCHER_TYPE FetcherType = "dynamic"
	MOCK_FETCHER_TYPE    FetcherType = "mock"
)

// MockPage is the content served by the MockFetcher for a URL. A Status
// other than 0 and 200 makes the fetch fail the way a static fetch of a
// broken page would.
type MockPage struct {
	Url     string `yaml:"url"`
	Content string `yaml:"content"`
	Status  int    `yaml:"status"`
}

// StatusError is returned for pages answering with a status other than 200.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: status %d %s", e.URL, e.Status, http.StatusText(e.Status))
}

type FetcherConfig struct {
	Type           FetcherType `yaml:"type"`
	UserAgent      string      `yaml:"user_agent" env:"TAGCHECK_USER_AGENT"`
	PageLoadWaitMS int         `yaml:"page_load_wait_ms"` // dynamic fetcher only
	MockPages      []MockPage  `yaml:"mock_pages"`
	DebugDir       string      `yaml:"debug_dir"`
}

func DefaultFetcherType() FetcherType {
	return STATIC_FETCHER_TYPE
}

// NewFetcher returns a new fetcher depending on the fetcher type. An empty
// type selects the default one.
func NewFetcher(fc *FetcherConfig) (Fetcher, error) {
	if fc.Type == "" {
		fc.Type = DefaultFetcherType()
	}
	switch fc.Type {
	case STATIC_FETCHER_TYPE:
		return NewStaticFetcher(fc), nil
	case DYNAMIC_FETCHER_TYPE:
		return NewDynamicFetcher(fc), nil
	case MOCK_FETCHER_TYPE:
		return NewMockFetcher(fc), nil
	default:
		return nil, fmt.Errorf("fetcher of type '%s' not implemented", fc.Type)
	}
}

// writeHTMLToFile stores a fetched page in dir for later inspection. Failing
// to do so is logged but not fatal.
func writeHTMLToFile(ctx context.Context, urlStr, content, dir string) {
	logger := log.LoggerFromContext(ctx)
	host := "page"
	if u, err := url.Parse(urlStr); err == nil && u.Host != "" {
		host = u.Host
	}
	r, err := utils.RandomString(host)
	if err != nil {
		logger.Warn("failed to generate debug file name", slog.String("err", err.Error()))
		return
	}
	if dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			logger.Warn("failed to create debug directory", slog.String("err", err.Error()))
			return
		}
	}
	filename := path.Join(dir, fmt.Sprintf("%s.html", r))
	logger.Debug(fmt.Sprintf("writing html to file %s", filename), slog.String("url", urlStr))
	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		logger.Warn("failed to write html to file", slog.String("err", err.Error()))
	}
}

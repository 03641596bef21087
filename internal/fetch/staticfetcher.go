package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/jakopako/tagcheck/internal/log"
)

// pages larger than this are cut off, the checks then see truncated markup
const maxPageBytes = 10 << 20

// The StaticFetcher downloads pages as served, without running javascript.
type StaticFetcher struct {
	*FetcherConfig
	client *http.Client
}

func NewStaticFetcher(fc *FetcherConfig) *StaticFetcher {
	return &StaticFetcher{
		FetcherConfig: fc,
		client:        &http.Client{},
	}
}

func (s *StaticFetcher) Fetch(ctx context.Context, url string) (string, error) {
	logger := log.LoggerFromContext(ctx).With(slog.String("fetcher", "static"), slog.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	logger.Debug("fetching page", slog.String("user-agent", s.UserAgent))

	res, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", &StatusError{URL: url, Status: res.StatusCode}
	}
	if mediaType, _, err := mime.ParseMediaType(res.Header.Get("Content-Type")); err == nil && !isHTML(mediaType) {
		// still parsed, checks against it will most likely fail
		logger.Warn(fmt.Sprintf("page is served as %s, not html", mediaType))
	}

	b, err := io.ReadAll(io.LimitReader(res.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}
	page := string(b)
	if log.Debug {
		writeHTMLToFile(ctx, url, page, s.DebugDir)
	}
	return page, nil
}

func isHTML(mediaType string) bool {
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// Cancel is a no-op, the StaticFetcher holds no resources.
func (s *StaticFetcher) Cancel() {}

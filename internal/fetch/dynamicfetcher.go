package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"
	"github.com/jakopako/tagcheck/internal/log"
	"github.com/jakopako/tagcheck/internal/utils"
)

// The DynamicFetcher renders the page in a headless Chrome before returning
// its HTML, for forms that are built by javascript.
type DynamicFetcher struct {
	*FetcherConfig
	allocContext context.Context
	cancelAlloc  context.CancelFunc
}

func NewDynamicFetcher(fc *FetcherConfig) *DynamicFetcher {
	opts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(1920, 1080), // some pages hide inputs on small screens
	)
	if fc.UserAgent != "" {
		opts = append(opts,
			chromedp.UserAgent(fc.UserAgent))
	}
	allocContext, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	d := &DynamicFetcher{
		FetcherConfig: fc,
		allocContext:  allocContext,
		cancelAlloc:   cancelAlloc,
	}
	if d.PageLoadWaitMS == 0 {
		d.PageLoadWaitMS = 2000 // default
	}
	return d
}

func (d *DynamicFetcher) Cancel() {
	d.cancelAlloc()
}

func (d *DynamicFetcher) Fetch(ctx context.Context, urlStr string) (string, error) {
	logger := log.LoggerFromContext(ctx).With(slog.String("fetcher", "dynamic"), slog.String("url", urlStr))
	logger.Debug("fetching page", slog.String("user-agent", d.UserAgent))

	cctx, cancel := chromedp.NewContext(d.allocContext)
	defer cancel()
	// stop the browser tab when the caller gives up
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	actions := []chromedp.Action{}

	if log.Debug {
		actions = append(actions, chromedp.ActionFunc(func(ctx context.Context) error {
			protocolVersion, product, revision, userAgent, jsVersion, err := browser.GetVersion().Do(ctx)
			if err != nil {
				logger.Warn("failed to get chrome version", slog.String("err", err.Error()))
				return nil
			}
			logger.Debug(fmt.Sprintf("chrome version: protocolVersion=%s, product=%s, revision=%s, userAgent=%s, jsVersion=%s",
				protocolVersion, product, revision, userAgent, jsVersion))
			return nil
		}))
	}

	var body string
	sleepTime := time.Duration(d.PageLoadWaitMS) * time.Millisecond
	actions = append(actions,
		chromedp.Navigate(urlStr),
		chromedp.Sleep(sleepTime),
		chromedp.ActionFunc(func(ctx context.Context) error {
			node, err := dom.GetDocument().Do(ctx)
			if err != nil {
				return err
			}
			body, err = dom.GetOuterHTML().WithNodeID(node.NodeID).Do(ctx)
			return err
		}),
	)

	if log.Debug {
		screenshot, err := d.screenshotActions(urlStr, logger)
		if err != nil {
			return "", err
		}
		actions = append(actions, screenshot...)
	}

	if err := chromedp.Run(cctx, actions...); err != nil {
		return "", err
	}

	if log.Debug {
		writeHTMLToFile(ctx, urlStr, body, d.DebugDir)
	}
	return body, nil
}

func (d *DynamicFetcher) screenshotActions(urlStr string, logger *slog.Logger) ([]chromedp.Action, error) {
	if d.DebugDir != "" {
		if err := os.MkdirAll(d.DebugDir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create debug directory: %w", err)
		}
	}
	host := "page"
	if u, err := url.Parse(urlStr); err == nil && u.Host != "" {
		host = u.Host
	}
	r, err := utils.RandomString(host)
	if err != nil {
		return nil, err
	}
	filename := path.Join(d.DebugDir, fmt.Sprintf("%s.png", r))
	var buf []byte
	return []chromedp.Action{
		chromedp.CaptureScreenshot(&buf),
		chromedp.ActionFunc(func(ctx context.Context) error {
			logger.Debug(fmt.Sprintf("writing screenshot to file %s", filename))
			return os.WriteFile(filename, buf, 0644)
		}),
	}, nil
}

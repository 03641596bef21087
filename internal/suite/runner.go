package suite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/jakopako/tagcheck/internal/fetch"
	"github.com/jakopako/tagcheck/internal/log"
	"github.com/jakopako/tagcheck/internal/types"
	"github.com/jakopako/tagcheck/tagmatch"
	"golang.org/x/sync/errgroup"
)

// ErrCheckNotFound is returned when a check selected by name does not exist.
var ErrCheckNotFound = errors.New("check not found")

// Runner runs the checks of a suite.
type Runner struct {
	config  *Config
	fetcher fetch.Fetcher
}

// NewRunner returns a runner loading URL documents with fetcher.
func NewRunner(config *Config, fetcher fetch.Fetcher) *Runner {
	return &Runner{
		config:  config,
		fetcher: fetcher,
	}
}

// A PlannedCheck is a check with its matcher built.
type PlannedCheck struct {
	Check Check
	// Name is the check's name, or its description if it has none.
	Name    string
	Matcher tagmatch.Matcher
}

// Plan builds the matchers of the checks called name, or of all checks if
// name is empty. Checks without a name are called by their description.
func (r *Runner) Plan(name string) ([]PlannedCheck, error) {
	planned := []PlannedCheck{}
	for i, c := range r.config.Checks {
		m, err := c.Matcher()
		if err != nil {
			return nil, fmt.Errorf("check %s: %w", c.label(i), err)
		}
		label := c.Name
		if label == "" {
			label = m.Description()
		}
		if name != "" && name != label {
			continue
		}
		planned = append(planned, PlannedCheck{Check: c, Name: label, Matcher: m})
	}
	if name != "" && len(planned) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrCheckNotFound, name)
	}
	return planned, nil
}

// Run runs the checks called name, or all checks if name is empty, and
// sends their results to resultChan in suite order. The documents the checks
// need are loaded concurrently before the first check runs. Run does not
// close resultChan.
func (r *Runner) Run(ctx context.Context, name string, resultChan chan<- types.CheckResult) error {
	planned, err := r.Plan(name)
	if err != nil {
		return err
	}

	needed := []string{}
	for _, p := range planned {
		needed = append(needed, p.Check.Document)
	}
	docs, err := r.LoadDocuments(ctx, needed...)
	if err != nil {
		return err
	}

	for _, p := range planned {
		res := evaluate(p, docs[p.Check.Document])
		slog.Debug("ran check", slog.String("check", res.Name), slog.Bool("passed", res.Passed))
		select {
		case resultChan <- res:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func evaluate(p PlannedCheck, doc *tagmatch.Document) types.CheckResult {
	res := p.Matcher.Match(doc)
	result := types.CheckResult{
		Name:        p.Name,
		Document:    p.Check.Document,
		Description: p.Matcher.Description(),
		Negated:     p.Check.Negate,
		Passed:      res.Matched() != p.Check.Negate,
	}
	if result.Passed {
		return result
	}
	result.Message = res.Message(p.Check.Negate)
	if tm, ok := p.Matcher.(*tagmatch.TagMatcher); ok && !p.Check.Negate {
		result.Hint = suggestTag(doc, tm.Name())
	}
	return result
}

// LoadDocuments loads the named documents, all documents of the suite if no
// name is given. At most Config.Concurrency documents are loaded at the same
// time. The first failure cancels the remaining loads.
func (r *Runner) LoadDocuments(ctx context.Context, names ...string) (map[string]*tagmatch.Document, error) {
	if len(names) == 0 {
		for _, d := range r.config.Documents {
			names = append(names, d.Name)
		}
	}

	configs := []DocumentConfig{}
	seen := map[string]bool{}
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		dc, ok := r.config.document(name)
		if !ok {
			return nil, fmt.Errorf("unknown document %q", name)
		}
		configs = append(configs, dc)
	}

	var mu sync.Mutex
	docs := map[string]*tagmatch.Document{}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.config.Concurrency, 1))
	for _, dc := range configs {
		g.Go(func() error {
			logger := slog.With(slog.String("document", dc.Name))
			content, err := r.load(log.ContextWithLogger(gctx, logger), dc)
			if err != nil {
				return fmt.Errorf("error loading document %s: %w", dc.Name, err)
			}
			logger.Debug(fmt.Sprintf("loaded %d bytes", len(content)))
			mu.Lock()
			docs[dc.Name] = tagmatch.Parse(content)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *Runner) load(ctx context.Context, dc DocumentConfig) (string, error) {
	switch {
	case dc.HTML != "":
		return dc.HTML, nil
	case dc.File != "":
		b, err := os.ReadFile(r.config.path(dc.File))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	if r.fetcher == nil {
		return "", errors.New("no fetcher configured")
	}
	return r.fetcher.Fetch(ctx, dc.URL)
}

// Package suite loads suites of declarative HTML checks and runs them.
package suite

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jakopako/tagcheck/internal/fetch"
	"github.com/jakopako/tagcheck/internal/output"
)

// default number of documents loaded at the same time
const defaultConcurrency = 4

// DocumentConfig names a document the checks run against. Exactly one of
// File, URL and HTML has to be set.
type DocumentConfig struct {
	Name string `yaml:"name"`
	// File is resolved relative to the suite file.
	File string `yaml:"file"`
	URL  string `yaml:"url"`
	HTML string `yaml:"html"`
}

// Config is the content of a suite file. Values will be taken from a yaml
// file or environment variables or both.
type Config struct {
	Fetcher     fetch.FetcherConfig `yaml:"fetcher"`
	Output      output.WriterConfig `yaml:"output"`
	Concurrency int                 `yaml:"concurrency"`
	Documents   []DocumentConfig    `yaml:"documents"`
	Checks      []Check             `yaml:"checks"`

	dir string
}

// NewConfigFromFile reads and validates the suite at path.
func NewConfigFromFile(path string) (*Config, error) {
	var config Config

	err := cleanenv.ReadConfig(path, &config)
	if err != nil {
		return nil, err
	}

	config.dir = filepath.Dir(path)
	if config.Fetcher.Type == "" {
		config.Fetcher.Type = fetch.DefaultFetcherType()
	}
	if config.Concurrency <= 0 {
		config.Concurrency = defaultConcurrency
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid suite %s: %w", path, err)
	}
	return &config, nil
}

// Validate checks that documents are well defined and that every check
// refers to one of them. It does not build the checks' matchers.
func (c *Config) Validate() error {
	docs := map[string]bool{}
	for i, d := range c.Documents {
		if d.Name == "" {
			return fmt.Errorf("document %d has no name", i)
		}
		if docs[d.Name] {
			return fmt.Errorf("document %s is defined twice", d.Name)
		}
		docs[d.Name] = true

		sources := 0
		for _, s := range []string{d.File, d.URL, d.HTML} {
			if s != "" {
				sources++
			}
		}
		if sources != 1 {
			return fmt.Errorf("document %s needs exactly one of file, url and html", d.Name)
		}
	}

	if len(c.Checks) == 0 {
		return errors.New("no checks defined")
	}
	for i, ch := range c.Checks {
		if !docs[ch.Document] {
			return fmt.Errorf("check %s refers to unknown document %q", ch.label(i), ch.Document)
		}
	}
	return nil
}

// document returns the configuration of the document called name.
func (c *Config) document(name string) (DocumentConfig, bool) {
	for _, d := range c.Documents {
		if d.Name == name {
			return d, true
		}
	}
	return DocumentConfig{}, false
}

func (c *Config) path(file string) string {
	if filepath.IsAbs(file) || c.dir == "" {
		return file
	}
	return filepath.Join(c.dir, file)
}

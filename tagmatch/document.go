package tagmatch

import (
	"bytes"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// A Document is the parsed input a matcher is evaluated against. It keeps the
// input's textual form around for failure messages.
type Document struct {
	root *goquery.Selection
	// when the document wraps a selection (eg. the result of a previous Find)
	// the selected nodes themselves are candidates, not only their descendants
	includeRoot bool

	// raw is the input string for parsed documents and the lazily rendered
	// html otherwise
	fromString bool
	renderOnce sync.Once
	raw        string
}

// Parse parses an HTML string. Malformed markup is never rejected, the parser
// recovers the way browsers do and the matchers simply find fewer elements.
func Parse(s string) *Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		// reading from a strings.Reader does not fail, but we don't want
		// to hand out a nil document either
		doc = goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
	}
	return &Document{root: doc.Selection, fromString: true, raw: s}
}

// ParseReader reads all of r and parses it.
func ParseReader(r io.Reader) (*Document, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(string(b)), nil
}

// NewDocument wraps an already parsed goquery document.
func NewDocument(doc *goquery.Document) *Document {
	return &Document{root: doc.Selection}
}

// FromSelection wraps a goquery selection. The selected elements and all of
// their descendants are candidates for matching.
func FromSelection(s *goquery.Selection) *Document {
	return &Document{root: s, includeRoot: true}
}

// FromNode wraps a parsed html node.
func FromNode(n *html.Node) *Document {
	if n.Type == html.DocumentNode {
		return NewDocument(goquery.NewDocumentFromNode(n))
	}
	return FromSelection(goquery.NewDocumentFromNode(n).Selection)
}

// Selection returns the underlying selection.
func (d *Document) Selection() *goquery.Selection {
	return d.root
}

// String returns the document as it was given: the original string for
// parsed input, the rendered html otherwise.
func (d *Document) String() string {
	if d.fromString {
		return d.raw
	}
	d.renderOnce.Do(func() {
		d.raw = render(d.root)
	})
	return d.raw
}

// elements returns every element named tag (case insensitive).
func (d *Document) elements(tag string) *goquery.Selection {
	m := tagName(tag)
	found := d.root.FindMatcher(m)
	if d.includeRoot {
		found = d.root.FilterMatcher(m).AddSelection(found)
	}
	return found
}

func render(s *goquery.Selection) string {
	var buf bytes.Buffer
	for _, n := range s.Nodes {
		if err := html.Render(&buf, n); err != nil {
			return buf.String()
		}
	}
	return buf.String()
}

// tagName is a goquery.Matcher selecting elements by name only.
type tagName string

func (t tagName) Match(n *html.Node) bool {
	return n.Type == html.ElementNode && strings.EqualFold(n.Data, string(t))
}

// MatchAll returns n and its descendants that match, in document order.
func (t tagName) MatchAll(n *html.Node) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if t.Match(n) {
			found = append(found, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return found
}

func (t tagName) Filter(nodes []*html.Node) []*html.Node {
	var found []*html.Node
	for _, n := range nodes {
		if t.Match(n) {
			found = append(found, n)
		}
	}
	return found
}

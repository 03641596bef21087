package suite

import (
	"fmt"
	"maps"
	"slices"

	"github.com/PuerkitoBio/goquery"
	"github.com/agnivade/levenshtein"
	"github.com/jakopako/tagcheck/tagmatch"
)

// tag names further away than this from the expected one are not suggested
const maxHintDistance = 2

// suggestTag returns a hint naming the tag of doc closest to tag, for typos
// in either the suite or the document. It returns "" if doc contains tag or
// nothing similar.
func suggestTag(doc *tagmatch.Document, tag string) string {
	names := map[string]bool{}
	doc.Selection().Find("*").Each(func(_ int, s *goquery.Selection) {
		names[goquery.NodeName(s)] = true
	})
	if names[tag] {
		return ""
	}

	best, bestDist := "", maxHintDistance+1
	for _, name := range slices.Sorted(maps.Keys(names)) {
		if d := levenshtein.ComputeDistance(tag, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf("did you mean %q?", best)
}

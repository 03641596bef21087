// Package sentence joins text fragments into readable sentences for matcher
// descriptions and failure messages.
package sentence

import "strings"

// DefaultConjunction is used by Join.
const DefaultConjunction = "and"

// Join combines fragments with "and", eg.
//
//	Join("foo")               // "foo"
//	Join("foo", "bar")        // "foo and bar"
//	Join("foo", "bar", "baz") // "foo, bar, and baz"
func Join(fragments ...string) string {
	return JoinWith(DefaultConjunction, fragments...)
}

// JoinWith is like Join but uses the given conjunction. Empty fragments are
// dropped before joining.
func JoinWith(conjunction string, fragments ...string) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f != "" {
			parts = append(parts, f)
		}
	}

	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " " + conjunction + " " + parts[1]
	}
	last := len(parts) - 1
	return strings.Join(parts[:last], ", ") + ", " + conjunction + " " + parts[last]
}

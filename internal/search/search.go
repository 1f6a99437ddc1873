// Package search matches persons against whitespace-separated name keywords.
// Matching is exact-token and case-sensitive.
package search

import (
	"strings"

	"github.com/smileynet/addressbook/internal/person"
)

// Keywords is a set of search tokens.
type Keywords map[string]struct{}

// ExtractKeywords splits args on runs of whitespace into a set.
// Blank args yield an empty set, which matches nothing.
func ExtractKeywords(args string) Keywords {
	return tokenSet(args)
}

// Matches reports whether any word of p's name is one of keywords.
func Matches(p person.Person, keywords Keywords) bool {
	if len(keywords) == 0 {
		return false
	}
	for word := range tokenSet(p.Name) {
		if _, ok := keywords[word]; ok {
			return true
		}
	}
	return false
}

// FindAll returns the persons that match keywords, in their original order.
// The result is never nil.
func FindAll(persons []person.Person, keywords Keywords) []person.Person {
	found := make([]person.Person, 0)
	for _, p := range persons {
		if Matches(p, keywords) {
			found = append(found, p)
		}
	}
	return found
}

func tokenSet(s string) Keywords {
	fields := strings.Fields(s)
	set := make(Keywords, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

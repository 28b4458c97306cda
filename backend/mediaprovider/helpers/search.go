package helpers

import (
	"strings"

	"github.com/deluan/sanitize"
)

// name and terms should be pre-converted to the same case
func AllTermsMatch(name string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(name, t) {
			return false
		}
	}
	return true
}

// SearchTerms splits a query into lower-cased, accent-stripped terms.
func SearchTerms(query string) []string {
	return strings.Fields(strings.ToLower(sanitize.Accents(query)))
}

// MatchesSearch reports whether name contains every term of query,
// ignoring case and accents. An empty query matches everything.
func MatchesSearch(name, query string) bool {
	terms := SearchTerms(query)
	if len(terms) == 0 {
		return true
	}
	return AllTermsMatch(strings.ToLower(sanitize.Accents(name)), terms)
}

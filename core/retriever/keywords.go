package retriever

import (
	"regexp"
	"strings"
)

const (
	// MinKeywordLength drops glue words like "the", "how", "to".
	MinKeywordLength = 4
	// MaxKeywords caps how many distinct tokens the keyword leg queries.
	MaxKeywords = 6
)

var tokenPattern = regexp.MustCompile(`[A-Za-z0-9]+`)

// ExtractKeywords tokenizes the query into alphanumeric runs, keeps
// tokens of at least MinKeywordLength characters, lowercases them, and
// returns the first MaxKeywords distinct tokens in order of first
// appearance.
func ExtractKeywords(query string) []string {
	tokens := tokenPattern.FindAllString(query, -1)
	seen := make(map[string]struct{}, len(tokens))
	keywords := make([]string, 0, MaxKeywords)
	for _, tok := range tokens {
		if len(tok) < MinKeywordLength {
			continue
		}
		tok = strings.ToLower(tok)
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)
		if len(keywords) == MaxKeywords {
			break
		}
	}
	return keywords
}

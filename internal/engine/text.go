package engine

import (
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
)

var nonWordPattern = regexp.MustCompile(`[^\w\s]`)

// stopWords are dropped during keyword extraction: articles, pronouns,
// auxiliaries, and common query verbs that carry no intent.
var stopWords = map[string]struct{}{
	"i": {}, "me": {}, "my": {}, "we": {}, "our": {}, "you": {}, "your": {},
	"he": {}, "she": {}, "it": {},
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {},
	"have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "can": {}, "may": {},
	"might": {}, "must": {}, "shall": {}, "to": {}, "of": {}, "in": {},
	"for": {}, "on": {}, "with": {}, "at": {}, "by": {}, "from": {}, "as": {},
	"into": {}, "through": {},
	"and": {}, "but": {}, "or": {}, "so": {}, "if": {}, "then": {}, "than": {},
	"when": {}, "where": {},
	"what": {}, "which": {}, "who": {}, "whom": {}, "this": {}, "that": {},
	"these": {}, "those": {},
	"am": {}, "about": {}, "please": {}, "tell": {}, "know": {}, "want": {},
	"need": {}, "like": {},
	"get": {}, "give": {}, "make": {}, "how": {}, "there": {}, "here": {},
	"just": {}, "also": {}, "show": {},
}

// preprocess lower-cases, strips punctuation, and collapses whitespace.
func preprocess(text string) string {
	text = strings.ToLower(text)
	text = nonWordPattern.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

// extractKeywords returns the content tokens of text with stop words
// removed. Used for both user messages and knowledge-base patterns.
func extractKeywords(text string) []string {
	words := strings.Fields(preprocess(text))
	keywords := make([]string, 0, len(words))
	for _, word := range words {
		if _, stop := stopWords[word]; !stop {
			keywords = append(keywords, word)
		}
	}
	return keywords
}

// similarity is a normalized edit-distance ratio in [0,1]: identical
// strings score 1.0, fully disjoint strings approach 0.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(longest)
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

func keywordSetHasAny(keywords []string, candidates []string) bool {
	set := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		set[kw] = struct{}{}
	}
	for _, c := range candidates {
		if _, ok := set[c]; ok {
			return true
		}
	}
	return false
}

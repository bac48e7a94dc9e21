package classifier

import "strings"

// ContentType tags a document and selects its default generation parameters.
type ContentType string

const (
	TypeArticle   ContentType = "article"
	TypeTechnical ContentType = "technical"
	TypeResearch  ContentType = "research"
)

var technicalKeywords = map[string]struct{}{
	"algorithm":      {},
	"model":          {},
	"implementation": {},
	"architecture":   {},
	"system":         {},
	"framework":      {},
}

var researchKeywords = map[string]struct{}{
	"study":      {},
	"research":   {},
	"findings":   {},
	"results":    {},
	"analysis":   {},
	"experiment": {},
}

// Classify derives a content type from keyword overlap with the document's
// lowercase word set. Ties (including zero overlap) default to article.
func Classify(text string) ContentType {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		words[w] = struct{}{}
	}

	technical := overlap(words, technicalKeywords)
	research := overlap(words, researchKeywords)

	switch {
	case technical > research:
		return TypeTechnical
	case research > technical:
		return TypeResearch
	default:
		return TypeArticle
	}
}

func overlap(words, keywords map[string]struct{}) int {
	count := 0
	for w := range keywords {
		if _, ok := words[w]; ok {
			count++
		}
	}
	return count
}
